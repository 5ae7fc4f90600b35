// Package ui is the fyne desktop front end.
package ui

import (
	"fmt"
	"strconv"
	"strings"

	"AutoCenter/internal/config"
	"AutoCenter/internal/fipe"
	"AutoCenter/internal/store"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"
)

// Deps is what the UI needs from the rest of the program.
type Deps struct {
	Config *config.Config
	Store  *store.Store
	FIPE   *fipe.Client
	Log    *zap.Logger
}

type shell struct {
	Deps
	app    fyne.App
	win    fyne.Window
	status *widget.Label

	dashboard *dashboardTab
}

// RunApp opens the main window and blocks until it is closed.
func RunApp(d Deps) {
	if d.Log == nil {
		d.Log = zap.L()
	}
	d.Log = d.Log.Named("ui")

	a := app.NewWithID("br.com.destak.autocenter")
	s := &shell{Deps: d, app: a}
	s.win = a.NewWindow(fmt.Sprintf("%s v%s", d.Config.App.Name, d.Config.App.Version))
	s.win.Resize(fyne.NewSize(1200, 800))
	s.status = widget.NewLabel("Pronto")

	s.dashboard = newDashboardTab(s)
	dash := container.NewTabItem("Dashboard", s.dashboard.content)
	tabs := container.NewAppTabs(
		dash,
		container.NewTabItem("Clientes", s.clientsTab()),
		container.NewTabItem("Veículos", s.vehiclesTab()),
		container.NewTabItem("Ordens de Serviço", s.ordersTab()),
		container.NewTabItem("Peças", s.partsTab()),
		container.NewTabItem("Funcionários", s.employeesTab()),
		container.NewTabItem("Gastos", s.expensesTab()),
	)
	tabs.SetTabLocation(container.TabLocationTop)
	tabs.OnSelected = func(t *container.TabItem) {
		if t == dash {
			s.dashboard.refresh()
		}
	}

	s.win.SetContent(container.NewBorder(nil, s.status, nil, nil, tabs))
	s.dashboard.refresh()
	d.Log.Info("main window ready")
	s.win.ShowAndRun()
}

func (s *shell) setStatus(text string) {
	s.status.SetText(text)
}

// parseMoney accepts "1234.5", "1234,50" and an optional "R$" prefix.
func parseMoney(field, text string) (float64, error) {
	t := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "R$"))
	if t == "" {
		return 0, nil
	}
	if strings.Contains(t, ",") {
		t = strings.ReplaceAll(t, ".", "")
		t = strings.ReplaceAll(t, ",", ".")
	}
	v, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: valor inválido %q", field, text)
	}
	return v, nil
}

func parseInt(field, text string) (int, error) {
	t := strings.TrimSpace(text)
	if t == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(t)
	if err != nil {
		return 0, fmt.Errorf("%s: número inválido %q", field, text)
	}
	return v, nil
}

func formatMoney(v float64) string { return fmt.Sprintf("R$ %.2f", v) }
