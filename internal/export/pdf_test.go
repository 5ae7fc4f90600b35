package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"AutoCenter/internal/config"
	"AutoCenter/internal/signature"
	"AutoCenter/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stroke returns an encoded signature holding one stroke from a to b.
func stroke(t *testing.T, a, b signature.Point) string {
	t.Helper()
	p := signature.NewPad(signature.DefaultWidth, signature.DefaultHeight)
	p = signature.OnPointerDown(p, signature.PointerEvent{Pos: a, Button: signature.ButtonPrimary})
	p = signature.OnPointerMove(p, signature.PointerEvent{Pos: b})
	p = signature.OnPointerUp(p, signature.PointerEvent{Pos: b, Button: signature.ButtonPrimary})
	require.True(t, p.HasSignature())
	return p.Encoded()
}

func signed(t *testing.T) string {
	return stroke(t, signature.Point{X: 20, Y: 100}, signature.Point{X: 380, Y: 120})
}

func signedOther(t *testing.T) string {
	return stroke(t, signature.Point{X: 50, Y: 30}, signature.Point{X: 300, Y: 180})
}

func sampleOrder() state.OrderDetail {
	done := time.Date(2023, 3, 11, 15, 30, 0, 0, time.Local)
	return state.OrderDetail{
		ServiceOrder: state.ServiceOrder{
			Number:         "OS-001",
			OpenDate:       time.Date(2023, 3, 10, 10, 0, 0, 0, time.Local),
			Description:    "Troca de óleo e filtros",
			Status:         state.StatusDone,
			CompletionDate: &done,
			TotalValue:     250,
			PaymentMethod:  state.PaymentCard,
			Parts: []state.OrderPart{
				{PartID: 1, Code: "P001", Description: "Filtro de Óleo", Quantity: 1, Price: 45},
				{PartID: 3, Code: "P003", Description: "Óleo de Motor", Quantity: 1, Price: 120},
			},
		},
		VehiclePlate: "ABC-1234",
		ClientName:   "João Silva",
		EmployeeName: "Carlos Mecânico",
	}
}

func TestResizeSignature(t *testing.T) {
	img, err := ResizeSignature(signed(t))
	require.NoError(t, err)
	assert.Equal(t, SignatureWidth, img.Bounds().Dx())
	assert.Equal(t, SignatureHeight, img.Bounds().Dy())

	_, err = ResizeSignature("")
	assert.ErrorIs(t, err, signature.ErrEmpty)
	_, err = ResizeSignature("not base64!")
	assert.Error(t, err)
}

func TestServiceOrderWithSignatures(t *testing.T) {
	o := sampleOrder()
	o.ClientSignature = signed(t)
	o.MechanicSignature = signedOther(t)
	require.NotEqual(t, o.ClientSignature, o.MechanicSignature)

	var buf bytes.Buffer
	require.NoError(t, ServiceOrder(&buf, o, config.DefaultConfig().Shop))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "%PDF-"))
	// One image object per signer.
	assert.Equal(t, 2, strings.Count(out, "/Subtype /Image"))
}

func TestServiceOrderIdenticalSignaturesShareImage(t *testing.T) {
	o := sampleOrder()
	o.ClientSignature = signed(t)
	o.MechanicSignature = o.ClientSignature

	var buf bytes.Buffer
	require.NoError(t, ServiceOrder(&buf, o, config.DefaultConfig().Shop))
	assert.Equal(t, 1, strings.Count(buf.String(), "/Subtype /Image"))
}

func TestServiceOrderMechanicSignatureOnly(t *testing.T) {
	o := sampleOrder()
	o.MechanicSignature = signedOther(t)

	var buf bytes.Buffer
	require.NoError(t, ServiceOrder(&buf, o, config.DefaultConfig().Shop))
	assert.Equal(t, 1, strings.Count(buf.String(), "/Subtype /Image"))
}

func TestServiceOrderWithoutSignatures(t *testing.T) {
	o := sampleOrder()
	o.ClientSignature = "garbage"
	o.Parts = nil
	o.VehiclePlate = ""

	var buf bytes.Buffer
	require.NoError(t, ServiceOrder(&buf, o, config.DefaultConfig().Shop))
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF-"))
	assert.NotContains(t, buf.String(), "/Subtype /Image")
}

func TestServiceOrderFileAndTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "os.pdf")
	require.NoError(t, ServiceOrderFile(path, sampleOrder(), config.DefaultConfig().Shop))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	p1, err := ServiceOrderTemp(dir, sampleOrder(), config.DefaultConfig().Shop)
	require.NoError(t, err)
	p2, err := ServiceOrderTemp(dir, sampleOrder(), config.DefaultConfig().Shop)
	require.NoError(t, err)
	assert.NotEqual(t, p1, p2)
	assert.FileExists(t, p1)
	assert.Contains(t, filepath.Base(p1), "OS-001")
}
