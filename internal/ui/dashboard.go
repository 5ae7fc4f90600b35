package ui

import (
	"fmt"
	"image"

	"AutoCenter/internal/chart"
	"AutoCenter/internal/store"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

type statCard struct {
	value *widget.Label
	card  *widget.Card
}

func newStatCard(title string) statCard {
	v := widget.NewLabelWithStyle("-", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	return statCard{value: v, card: widget.NewCard(title, "", v)}
}

type dashboardTab struct {
	s       *shell
	content fyne.CanvasObject

	clients, vehicles, orders     statCard
	revenue, expenses, profit     statCard
	statusImg, revenueImg, catImg *canvas.Image
}

func chartImage() *canvas.Image {
	img := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, chart.Width, chart.Height)))
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(chart.Width*0.75, chart.Height*0.75))
	return img
}

func newDashboardTab(s *shell) *dashboardTab {
	d := &dashboardTab{
		s:          s,
		clients:    newStatCard("Clientes"),
		vehicles:   newStatCard("Veículos"),
		orders:     newStatCard("Ordens de Serviço"),
		revenue:    newStatCard("Receita"),
		expenses:   newStatCard("Despesas"),
		profit:     newStatCard("Lucro"),
		statusImg:  chartImage(),
		revenueImg: chartImage(),
		catImg:     chartImage(),
	}
	cards := container.NewGridWithColumns(6,
		d.clients.card, d.vehicles.card, d.orders.card,
		d.revenue.card, d.expenses.card, d.profit.card)
	charts := container.NewGridWithColumns(3, d.statusImg, d.revenueImg, d.catImg)
	d.content = container.NewBorder(cards, nil, nil, nil, charts)
	return d
}

func buckets(bs []store.Bucket, value func(store.Bucket) float64) []chart.Slice {
	out := make([]chart.Slice, len(bs))
	for i, b := range bs {
		out[i] = chart.Slice{Label: b.Label, Value: value(b)}
	}
	return out
}

// refresh reloads the figures and redraws the charts.
func (d *dashboardTab) refresh() {
	data, err := d.s.Store.Dashboard()
	if err != nil {
		showError(err, d.s.win)
		return
	}
	d.clients.value.SetText(fmt.Sprint(data.Clients))
	d.vehicles.value.SetText(fmt.Sprint(data.Vehicles))
	d.orders.value.SetText(fmt.Sprint(data.Orders))
	d.revenue.value.SetText(formatMoney(data.Revenue))
	d.expenses.value.SetText(formatMoney(data.Expenses))
	d.profit.value.SetText(formatMoney(data.Profit))

	count := func(b store.Bucket) float64 { return float64(b.Count) }
	sum := func(b store.Bucket) float64 { return b.Value }
	d.statusImg.Image = chart.Pie("Ordens por Status", buckets(data.StatusCounts, count))
	d.revenueImg.Image = chart.Bars("Receita por Mês", buckets(data.RevenueByMonth, sum))
	d.catImg.Image = chart.Pie("Despesas por Categoria", buckets(data.ExpenseByCat, sum))
	d.statusImg.Refresh()
	d.revenueImg.Refresh()
	d.catImg.Refresh()
}
