package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const (
	statusBlank  = "Em branco"
	statusSigned = "Assinado"
)

// NewSignatureToolbar frames a signature pad with its title, a blank/signed
// indicator and a "Limpar" button.
func NewSignatureToolbar(title string, sig *SignatureWidget) fyne.CanvasObject {
	status := widget.NewLabel(statusBlank)
	update := func() {
		if sig.HasSignature() {
			status.SetText(statusSigned)
		} else {
			status.SetText(statusBlank)
		}
	}
	prev := sig.OnChanged
	sig.OnChanged = func() {
		if prev != nil {
			prev()
		}
		update()
	}
	update()

	clearBtn := widget.NewButtonWithIcon("Limpar", theme.ContentClearIcon(), sig.Clear)

	header := container.NewHBox(
		widget.NewLabelWithStyle(title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		layout.NewSpacer(),
		status,
		widget.NewSeparator(),
		clearBtn,
	)
	return container.NewVBox(header, container.NewCenter(sig))
}
