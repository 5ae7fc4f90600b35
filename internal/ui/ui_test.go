package ui

import (
	"fmt"
	"testing"

	"AutoCenter/internal/fipe"
	"AutoCenter/internal/state"
	"AutoCenter/internal/store"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)
}

func mouse(x, y float32, b desktop.MouseButton) *desktop.MouseEvent {
	return &desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}, Button: b}
}

func drag(x, y float32) *fyne.DragEvent {
	return &fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}}
}

func sign(w *SignatureWidget) {
	w.MouseDown(mouse(10, 10, desktop.MouseButtonPrimary))
	w.Dragged(drag(40, 20))
	w.Dragged(drag(80, 30))
	w.MouseUp(mouse(80, 30, desktop.MouseButtonPrimary))
}

func TestSignatureWidgetDraws(t *testing.T) {
	newTestApp(t)
	w := NewSignatureWidget(100, 50)
	assert.False(t, w.HasSignature())
	assert.Equal(t, fyne.NewSize(100, 50), w.MinSize())

	changes := 0
	w.OnChanged = func() { changes++ }
	sign(w)
	assert.True(t, w.HasSignature())
	assert.Equal(t, 2, changes)

	// Pen is up: further drags do not draw.
	w.Clear()
	w.Dragged(drag(50, 25))
	assert.False(t, w.HasSignature())
}

func TestSignatureWidgetIgnoresSecondaryButton(t *testing.T) {
	newTestApp(t)
	w := NewSignatureWidget(100, 50)
	w.MouseDown(mouse(10, 10, desktop.MouseButtonSecondary))
	w.Dragged(drag(60, 30))
	assert.False(t, w.HasSignature())
}

func TestSignatureWidgetDragEndLiftsPen(t *testing.T) {
	newTestApp(t)
	w := NewSignatureWidget(100, 50)
	w.MouseDown(mouse(10, 10, desktop.MouseButtonPrimary))
	w.DragEnd()
	w.Dragged(drag(60, 30))
	assert.False(t, w.HasSignature())
}

func TestSignatureWidgetEncodedRoundTrip(t *testing.T) {
	newTestApp(t)
	w := NewSignatureWidget(100, 50)
	sign(w)

	other := NewSignatureWidget(100, 50)
	other.SetEncoded(w.Encoded())
	assert.True(t, other.HasSignature())
	assert.Equal(t, w.Encoded(), other.Encoded())

	other.SetEncoded("not base64!")
	assert.False(t, other.HasSignature())
}

func TestSignatureToolbarStatus(t *testing.T) {
	newTestApp(t)
	w := NewSignatureWidget(100, 50)
	calls := 0
	w.OnChanged = func() { calls++ }

	bar := NewSignatureToolbar("Assinatura do Cliente", w).(*fyne.Container)
	header := bar.Objects[0].(*fyne.Container)
	status := header.Objects[2].(*widget.Label)
	assert.Equal(t, statusBlank, status.Text)

	sign(w)
	assert.Equal(t, statusSigned, status.Text)
	assert.Positive(t, calls)

	clearBtn := header.Objects[4].(*widget.Button)
	test.Tap(clearBtn)
	assert.Equal(t, statusBlank, status.Text)
	assert.False(t, w.HasSignature())
}

func TestSignatureToolbarLayout(t *testing.T) {
	newTestApp(t)
	w := NewSignatureWidget(100, 50)
	bar := NewSignatureToolbar("Assinatura", w).(*fyne.Container)
	require.Len(t, bar.Objects, 2)
	center, ok := bar.Objects[1].(*fyne.Container)
	require.True(t, ok)
	assert.Same(t, w, center.Objects[0])
}

func TestParseMoney(t *testing.T) {
	cases := map[string]float64{
		"":            0,
		"250":         250,
		"250.5":       250.5,
		"250,50":      250.5,
		"R$ 1.234,56": 1234.56,
		" R$45 ":      45,
	}
	for in, want := range cases {
		got, err := parseMoney("valor", in)
		require.NoError(t, err, in)
		assert.InDelta(t, want, got, 1e-9, in)
	}
	_, err := parseMoney("valor", "abc")
	assert.ErrorContains(t, err, "valor")
}

func TestParseInt(t *testing.T) {
	n, err := parseInt("ano", " 2019 ")
	require.NoError(t, err)
	assert.Equal(t, 2019, n)

	n, err = parseInt("ano", "")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = parseInt("ano", "20x9")
	assert.ErrorContains(t, err, "ano")
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "R$ 1234.50", formatMoney(1234.5))
}

func TestUserError(t *testing.T) {
	verr := &state.ValidationError{Field: "name", Message: "obrigatório"}
	assert.Contains(t, userError(fmt.Errorf("add: %w", verr)).Error(), "name")
	assert.Contains(t, userError(fmt.Errorf("delete: %w", store.ErrInUse)).Error(), "em uso")
	assert.Equal(t, "Registro não encontrado.", userError(store.ErrNotFound).Error())
	assert.Equal(t, "Estoque insuficiente.", userError(store.ErrInsufficientStock).Error())

	other := fmt.Errorf("disk full")
	assert.Same(t, other, userError(other))
}

func TestOrderSummary(t *testing.T) {
	o := state.OrderDetail{ServiceOrder: state.ServiceOrder{Number: "OS-9", Status: state.StatusDone, TotalValue: 90}}
	o.AddPart(state.Part{ID: 1, Code: "P001", Description: "Filtro", SellPrice: 45}, 2)

	md := orderSummary(o)
	assert.Contains(t, md, "# Ordem de Serviço #OS-9")
	assert.Contains(t, md, "**Veículo:** N/A")
	assert.Contains(t, md, "P001 - Filtro: 2 x R$ 45.00 = R$ 90.00")
	assert.Contains(t, md, "**Total Peças:** R$ 90.00")
}

func TestContainsFold(t *testing.T) {
	assert.True(t, containsFold("silva", "João Silva", "123"))
	assert.False(t, containsFold("souza", "João Silva"))
}

func TestFIPESelectionDropsStaleModels(t *testing.T) {
	sel := &fipeSelection{brands: []fipe.Item{
		{Name: "Toyota", Code: "59"},
		{Name: "Honda", Code: "25"},
	}}

	b, reload := sel.selectBrand("toyota")
	require.True(t, reload)
	assert.Equal(t, fipe.Code("59"), b.Code)
	b, reload = sel.selectBrand("Honda")
	require.True(t, reload)
	assert.Equal(t, fipe.Code("25"), b.Code)

	// Toyota's models arrive after Honda was picked.
	assert.False(t, sel.modelsLoaded("59", []fipe.Model{{Name: "Corolla", Code: "4828"}}))
	assert.Nil(t, sel.models)

	assert.True(t, sel.modelsLoaded("25", []fipe.Model{{Name: "Civic", Code: "7000"}}))
	sel.selectModel("Corolla")
	assert.Empty(t, sel.modelCode)
	sel.selectModel("civic")
	assert.Equal(t, fipe.Code("7000"), sel.modelCode)
}

func TestFIPESelectionKeepsLoadedBrand(t *testing.T) {
	sel := &fipeSelection{brands: []fipe.Item{{Name: "Toyota", Code: "59"}}}
	_, reload := sel.selectBrand("Toyota")
	require.True(t, reload)
	require.True(t, sel.modelsLoaded("59", []fipe.Model{{Name: "Corolla", Code: "4828"}}))

	_, reload = sel.selectBrand("Toyota")
	assert.False(t, reload)

	_, reload = sel.selectBrand("Toy")
	assert.False(t, reload)
	assert.Empty(t, sel.brandCode)
}
