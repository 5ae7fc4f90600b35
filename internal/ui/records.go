package ui

import (
	"errors"
	"fmt"

	"AutoCenter/internal/state"
	"AutoCenter/internal/store"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"
)

// userError rewrites store and validation errors as messages for the user.
func userError(err error) error {
	var verr *state.ValidationError
	switch {
	case errors.As(err, &verr):
		return fmt.Errorf("Campo inválido (%s): %s", verr.Field, verr.Message)
	case errors.Is(err, store.ErrInUse):
		return errors.New("O registro está em uso por outros cadastros e não pode ser excluído.")
	case errors.Is(err, store.ErrNotFound):
		return errors.New("Registro não encontrado.")
	case errors.Is(err, store.ErrInsufficientStock):
		return errors.New("Estoque insuficiente.")
	}
	return err
}

func showError(err error, win fyne.Window) {
	zap.L().Warn("ui error", zap.Error(err))
	dialog.ShowError(userError(err), win)
}

type column[T any] struct {
	title string
	width float32
	value func(T) string
}

// recordTab is a searchable table of records with add, edit and delete
// buttons, shared by every record tab.
type recordTab[T any] struct {
	win      fyne.Window
	columns  []column[T]
	load     func(term string) ([]T, error)
	onAdd    func()
	onEdit   func(T)
	onDelete func(T) error
	describe func(T) string
	extra    []fyne.CanvasObject

	rows     []T
	selected int
	table    *widget.Table
	search   *widget.Entry
}

func (t *recordTab[T]) build() fyne.CanvasObject {
	t.selected = -1
	t.table = widget.NewTable(
		func() (int, int) { return len(t.rows), len(t.columns) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, o fyne.CanvasObject) {
			if id.Row < len(t.rows) {
				o.(*widget.Label).SetText(t.columns[id.Col].value(t.rows[id.Row]))
			}
		},
	)
	t.table.ShowHeaderRow = true
	t.table.CreateHeader = func() fyne.CanvasObject {
		return widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	}
	t.table.UpdateHeader = func(id widget.TableCellID, o fyne.CanvasObject) {
		o.(*widget.Label).SetText(t.columns[id.Col].title)
	}
	for i, c := range t.columns {
		t.table.SetColumnWidth(i, c.width)
	}
	t.table.OnSelected = func(id widget.TableCellID) { t.selected = id.Row }
	t.table.OnUnselected = func(widget.TableCellID) { t.selected = -1 }

	t.search = widget.NewEntry()
	t.search.SetPlaceHolder("Buscar...")
	t.search.OnChanged = func(string) { t.reload() }

	buttons := []fyne.CanvasObject{
		widget.NewButtonWithIcon("Adicionar", theme.ContentAddIcon(), t.onAdd),
		widget.NewButtonWithIcon("Editar", theme.DocumentCreateIcon(), func() {
			if r, ok := t.current(); ok {
				t.onEdit(r)
			}
		}),
		widget.NewButtonWithIcon("Excluir", theme.DeleteIcon(), t.confirmDelete),
	}
	buttons = append(buttons, t.extra...)
	buttons = append(buttons, layout.NewSpacer(), widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), t.reload))

	top := container.NewVBox(t.search, container.NewHBox(buttons...))
	t.reload()
	return container.NewBorder(top, nil, nil, nil, t.table)
}

func (t *recordTab[T]) current() (T, bool) {
	var zero T
	if t.selected < 0 || t.selected >= len(t.rows) {
		dialog.ShowInformation("Seleção", "Selecione um registro primeiro.", t.win)
		return zero, false
	}
	return t.rows[t.selected], true
}

func (t *recordTab[T]) confirmDelete() {
	r, ok := t.current()
	if !ok {
		return
	}
	dialog.ShowConfirm("Confirmar exclusão", fmt.Sprintf("Excluir %s?", t.describe(r)), func(yes bool) {
		if !yes {
			return
		}
		if err := t.onDelete(r); err != nil {
			showError(err, t.win)
			return
		}
		t.reload()
	}, t.win)
}

func (t *recordTab[T]) reload() {
	term := ""
	if t.search != nil {
		term = t.search.Text
	}
	rows, err := t.load(term)
	if err != nil {
		showError(err, t.win)
		return
	}
	t.rows = rows
	t.selected = -1
	t.table.UnselectAll()
	t.table.Refresh()
}

// showForm opens a modal form. submit runs on confirm; the dialog stays
// open while it returns an error.
func showForm(win fyne.Window, title string, items []*widget.FormItem, submit func() error) dialog.Dialog {
	form := widget.NewForm(items...)
	form.SubmitText = "Salvar"
	form.CancelText = "Cancelar"
	d := dialog.NewCustomWithoutButtons(title, form, win)
	form.OnSubmit = func() {
		if err := submit(); err != nil {
			showError(err, win)
			return
		}
		d.Hide()
	}
	form.OnCancel = d.Hide
	d.Resize(fyne.NewSize(520, 0))
	d.Show()
	return d
}
