package ui

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"AutoCenter/internal/export"
	"AutoCenter/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"
)

func orderSummary(o state.OrderDetail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Ordem de Serviço #%s\n\n", o.Number)
	fmt.Fprintf(&b, "**Data de Abertura:** %s\n\n", o.OpenDate.Format("02/01/2006"))
	fmt.Fprintf(&b, "**Status:** %s\n\n", o.Status)
	fmt.Fprintf(&b, "**Veículo:** %s\n\n", orDash(o.VehiclePlate))
	fmt.Fprintf(&b, "**Cliente:** %s\n\n", orDash(o.ClientName))
	fmt.Fprintf(&b, "**Funcionário:** %s\n\n", orDash(o.EmployeeName))
	fmt.Fprintf(&b, "**Descrição:** %s\n\n", o.Description)
	fmt.Fprintf(&b, "**Valor Total:** %s\n\n", formatMoney(o.TotalValue))
	fmt.Fprintf(&b, "**Forma de Pagamento:** %s\n\n", o.PaymentMethod)
	if len(o.Parts) > 0 {
		b.WriteString("## Peças Utilizadas\n\n")
		for _, p := range o.Parts {
			fmt.Fprintf(&b, "* %s - %s: %d x %s = %s\n", p.Code, p.Description, p.Quantity,
				formatMoney(p.Price), formatMoney(p.Subtotal()))
		}
		fmt.Fprintf(&b, "\n**Total Peças:** %s\n", formatMoney(o.PartsTotal()))
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// printDialog shows an order with both signature pads. Signatures can be
// saved back to the order, and the order exported or previewed as PDF.
func (s *shell) printDialog(id int64, done func()) {
	order, err := s.Store.GetOrder(id)
	if err != nil {
		showError(err, s.win)
		return
	}

	win := s.app.NewWindow("Imprimir Ordem de Serviço")
	w, h := s.Config.Signature.Width, s.Config.Signature.Height

	clientSig := NewSignatureWidget(w, h)
	clientSig.SetEncoded(order.ClientSignature)
	mechanicSig := NewSignatureWidget(w, h)
	mechanicSig.SetEncoded(order.MechanicSignature)

	// withPads is the order as it should print right now: pad contents win
	// over the stored signatures when they are signed.
	withPads := func() state.OrderDetail {
		o := order
		if clientSig.HasSignature() {
			o.ClientSignature = clientSig.Encoded()
		}
		if mechanicSig.HasSignature() {
			o.MechanicSignature = mechanicSig.Encoded()
		}
		return o
	}

	saveSigs := widget.NewButtonWithIcon("Salvar Assinaturas", theme.DocumentSaveIcon(), func() {
		var c, m string
		if clientSig.HasSignature() {
			c = clientSig.Encoded()
		}
		if mechanicSig.HasSignature() {
			m = mechanicSig.Encoded()
		}
		if c == "" && m == "" {
			dialog.ShowInformation("Aviso", "Nenhuma assinatura para salvar.", win)
			return
		}
		if err := s.Store.SetSignatures(order.ID, c, m); err != nil {
			showError(err, win)
			return
		}
		if c != "" {
			order.ClientSignature = c
		}
		if m != "" {
			order.MechanicSignature = m
		}
		dialog.ShowInformation("Sucesso", "Assinaturas salvas com sucesso!", win)
		done()
	})

	preview := widget.NewButtonWithIcon("Visualizar Impressão", theme.SearchIcon(), func() {
		path, err := export.ServiceOrderTemp(s.Config.TempDir(), withPads(), s.Config.Shop)
		if err != nil {
			showError(err, win)
			return
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		u := &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
		if err := s.app.OpenURL(u); err != nil {
			s.Log.Warn("could not open preview", zap.String("path", abs), zap.Error(err))
			dialog.ShowInformation("PDF gerado", "Arquivo salvo em "+abs, win)
		}
	})

	savePDF := widget.NewButtonWithIcon("Salvar como PDF", theme.DocumentIcon(), func() {
		fd := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
			if err != nil {
				showError(err, win)
				return
			}
			if wc == nil {
				return
			}
			defer func() {
				if err := wc.Close(); err != nil {
					s.Log.Error("closing pdf", zap.Error(err))
				}
			}()
			if err := export.ServiceOrder(wc, withPads(), s.Config.Shop); err != nil {
				showError(err, win)
				return
			}
			s.Log.Info("service order pdf saved", zap.String("number", order.Number), zap.String("uri", wc.URI().String()))
			dialog.ShowInformation("Sucesso", "PDF salvo com sucesso!", win)
		}, win)
		fd.SetFileName(fmt.Sprintf("Ordem_de_Servico_%s.pdf", order.Number))
		fd.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))
		fd.Show()
	})

	closeBtn := widget.NewButton("Fechar", win.Close)

	summary := widget.NewRichTextFromMarkdown(orderSummary(order))
	summary.Wrapping = fyne.TextWrapWord

	pads := container.NewHBox(
		NewSignatureToolbar("Assinatura do Cliente", clientSig),
		NewSignatureToolbar("Assinatura do Mecânico", mechanicSig),
	)
	buttons := container.NewHBox(closeBtn, layout.NewSpacer(), saveSigs, preview, savePDF)
	win.SetContent(container.NewBorder(nil, container.NewVBox(
		widget.NewLabelWithStyle("Assinaturas", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		pads, buttons), nil, nil, container.NewVScroll(summary)))
	win.Resize(fyne.NewSize(float32(2*w)+80, float32(h)+520))
	win.Show()
}
