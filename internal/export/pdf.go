// Package export renders service orders as PDF documents.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"AutoCenter/internal/config"
	"AutoCenter/internal/signature"
	"AutoCenter/internal/state"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

// Signatures are scaled to this size before they are embedded.
const (
	SignatureWidth  = 200
	SignatureHeight = 100
)

const (
	labelWidth = 55.0
	valueWidth = 115.0
	rowHeight  = 8.0
	sigWidthMM = 60.0
)

// ResizeSignature decodes an encoded signature and scales it to
// SignatureWidth x SignatureHeight.
func ResizeSignature(encoded string) (image.Image, error) {
	src, err := signature.Decode(encoded)
	if err != nil {
		return nil, err
	}
	dst := image.NewRGBA(image.Rect(0, 0, SignatureWidth, SignatureHeight))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst, nil
}

type writer struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func (w *writer) heading(text string) {
	w.pdf.SetFont("Helvetica", "B", 13)
	w.pdf.CellFormat(0, 9, w.tr(text), "", 1, "L", false, 0, "")
	w.pdf.SetFont("Helvetica", "", 11)
}

func (w *writer) para(text string) {
	w.pdf.SetFont("Helvetica", "", 11)
	w.pdf.MultiCell(0, 6, w.tr(text), "", "L", false)
}

// table draws label/value rows with a shaded label column. The last row is
// bold when boldLast is set.
func (w *writer) table(rows [][2]string, boldLast bool) {
	w.pdf.SetDrawColor(128, 128, 128)
	w.pdf.SetLineWidth(0.2)
	for i, r := range rows {
		style := ""
		if boldLast && i == len(rows)-1 {
			style = "B"
		}
		w.pdf.SetFont("Helvetica", style, 11)
		w.pdf.SetFillColor(211, 211, 211)
		w.pdf.CellFormat(labelWidth, rowHeight, w.tr(r[0]), "1", 0, "L", true, 0, "")
		w.pdf.CellFormat(valueWidth, rowHeight, w.tr(r[1]), "1", 1, "L", false, 0, "")
	}
	w.pdf.SetFont("Helvetica", "", 11)
	w.pdf.Ln(4)
}

func money(v float64) string { return fmt.Sprintf("R$ %.2f", v) }

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func (w *writer) parts(parts []state.OrderPart) {
	if len(parts) == 0 {
		w.para("Nenhuma peça utilizada")
		w.pdf.Ln(4)
		return
	}
	cols := []float64{22, 70, 24, 27, 27}
	w.pdf.SetDrawColor(128, 128, 128)
	w.pdf.SetFillColor(211, 211, 211)
	w.pdf.SetFont("Helvetica", "B", 10)
	for i, h := range []string{"Código", "Descrição", "Quantidade", "Valor Unit.", "Subtotal"} {
		w.pdf.CellFormat(cols[i], rowHeight, w.tr(h), "1", 0, "C", true, 0, "")
	}
	w.pdf.Ln(-1)

	w.pdf.SetFont("Helvetica", "", 10)
	var total float64
	for _, p := range parts {
		total += p.Subtotal()
		w.pdf.CellFormat(cols[0], rowHeight, w.tr(p.Code), "1", 0, "L", false, 0, "")
		w.pdf.CellFormat(cols[1], rowHeight, w.tr(p.Description), "1", 0, "L", false, 0, "")
		w.pdf.CellFormat(cols[2], rowHeight, fmt.Sprint(p.Quantity), "1", 0, "R", false, 0, "")
		w.pdf.CellFormat(cols[3], rowHeight, w.tr(money(p.Price)), "1", 0, "R", false, 0, "")
		w.pdf.CellFormat(cols[4], rowHeight, w.tr(money(p.Subtotal())), "1", 1, "R", false, 0, "")
	}
	w.pdf.SetFont("Helvetica", "B", 10)
	w.pdf.CellFormat(cols[0]+cols[1]+cols[2], rowHeight, "", "T", 0, "L", false, 0, "")
	w.pdf.CellFormat(cols[3], rowHeight, w.tr("Total Peças:"), "T", 0, "R", false, 0, "")
	w.pdf.CellFormat(cols[4], rowHeight, w.tr(money(total)), "T", 1, "R", false, 0, "")
	w.pdf.SetFont("Helvetica", "", 11)
	w.pdf.Ln(4)
}

// signature places one signature with its caption, or a blank line when
// there is nothing usable to show.
func (w *writer) signature(name, encoded, caption string, x, y float64) {
	img, err := ResizeSignature(encoded)
	placed := false
	if err == nil {
		var buf bytes.Buffer
		if err = png.Encode(&buf, img); err == nil {
			opts := gofpdf.ImageOptions{ImageType: "PNG"}
			w.pdf.RegisterImageOptionsReader(name, opts, &buf)
			w.pdf.ImageOptions(name, x, y, sigWidthMM, sigWidthMM/2, false, opts, 0, "")
			placed = w.pdf.Ok()
		}
	}
	if err != nil && !errors.Is(err, signature.ErrEmpty) {
		zap.L().Warn("signature not rendered", zap.String("caption", caption), zap.Error(err))
	}
	if !placed {
		w.pdf.SetXY(x, y+sigWidthMM/2-8)
		w.pdf.CellFormat(sigWidthMM, 8, "________________________", "", 0, "C", false, 0, "")
	}
	w.pdf.SetXY(x, y+sigWidthMM/2+1)
	w.pdf.CellFormat(sigWidthMM, 6, w.tr(caption), "", 0, "C", false, 0, "")
}

// ServiceOrder writes the printable service order to out.
func ServiceOrder(out io.Writer, order state.OrderDetail, shop config.ShopConfig) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()
	w := &writer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, w.tr(shop.Name), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, w.tr("CNPJ: "+shop.CNPJ), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, w.tr(shop.Address), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, w.tr("Tel: "+shop.Phone), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, w.tr("ORDEM DE SERVIÇO Nº "+order.Number), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	info := [][2]string{
		{"Data de Abertura:", order.OpenDate.Format("02/01/2006")},
		{"Status:", string(order.Status)},
	}
	if order.CompletionApplies() && order.CompletionDate != nil {
		info = append(info, [2]string{"Data de Conclusão:", order.CompletionDate.Format("02/01/2006")})
	}
	w.table(info, false)

	w.table([][2]string{
		{"Forma de Pagamento:", string(order.PaymentMethod)},
		{"Valor Total:", money(order.TotalValue)},
	}, false)

	w.heading("DADOS DO VEÍCULO")
	if order.VehiclePlate != "" {
		w.table([][2]string{
			{"Placa:", order.VehiclePlate},
			{"Cliente:", orNA(order.ClientName)},
		}, false)
	} else {
		w.para("Veículo não encontrado")
		pdf.Ln(4)
	}

	w.heading("DESCRIÇÃO DOS SERVIÇOS")
	w.para(order.Description)
	pdf.Ln(4)

	w.heading("PEÇAS UTILIZADAS")
	w.parts(order.Parts)

	w.heading("RESUMO FINANCEIRO")
	w.table([][2]string{
		{"Total Peças:", money(order.PartsTotal())},
		{"Mão de Obra:", money(order.LaborCost())},
		{"Valor Total:", money(order.TotalValue)},
	}, true)

	w.heading("RESPONSÁVEIS")
	w.para("Mecânico Responsável: " + orNA(order.EmployeeName))
	pdf.Ln(6)

	// Keep both signatures and their captions on one page.
	_, pageH := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	if pdf.GetY()+sigWidthMM/2+10 > pageH-bottom {
		pdf.AddPage()
	}
	y := pdf.GetY()
	left, _, right, _ := pdf.GetMargins()
	pageW, _ := pdf.GetPageSize()
	colW := (pageW - left - right) / 2
	w.signature("sig-client", order.ClientSignature, "Assinatura do Cliente", left+(colW-sigWidthMM)/2, y)
	w.signature("sig-mechanic", order.MechanicSignature, "Assinatura do Mecânico", left+colW+(colW-sigWidthMM)/2, y)
	pdf.SetXY(left, y+sigWidthMM/2+16)

	w.para("Este documento é um comprovante de serviço prestado.")
	w.para(shop.Name + " - Todos os direitos reservados.")

	if err := pdf.Output(out); err != nil {
		return fmt.Errorf("failed to render order %s: %w", order.Number, err)
	}
	return nil
}

// ServiceOrderFile writes the service order PDF to path.
func ServiceOrderFile(path string, order state.OrderDetail, shop config.ShopConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ServiceOrder(f, order, shop); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	zap.L().Info("service order pdf written", zap.String("number", order.Number), zap.String("path", path))
	return nil
}

// ServiceOrderTemp writes the PDF under dir with a unique name and returns
// its path. Used for previews.
func ServiceOrderTemp(dir string, order state.OrderDetail, shop config.ShopConfig) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("os_%s_%s.pdf", order.Number, uuid.NewString()))
	if err := ServiceOrderFile(path, order, shop); err != nil {
		return "", err
	}
	return path, nil
}
