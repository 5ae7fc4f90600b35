package ui

import (
	"fmt"
	"strings"
	"time"

	"AutoCenter/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"
)

func statusOptions() []string {
	out := make([]string, len(state.OrderStatuses))
	for i, st := range state.OrderStatuses {
		out[i] = string(st)
	}
	return out
}

func (s *shell) ordersTab() fyne.CanvasObject {
	t := &recordTab[state.OrderDetail]{
		win: s.win,
		columns: []column[state.OrderDetail]{
			{"ID", 50, func(o state.OrderDetail) string { return fmt.Sprint(o.ID) }},
			{"Número", 90, func(o state.OrderDetail) string { return o.Number }},
			{"Data", 100, func(o state.OrderDetail) string { return o.OpenDate.Format("02/01/2006") }},
			{"Veículo", 100, func(o state.OrderDetail) string { return o.VehiclePlate }},
			{"Cliente", 180, func(o state.OrderDetail) string { return o.ClientName }},
			{"Status", 120, func(o state.OrderDetail) string { return string(o.Status) }},
			{"Valor", 110, func(o state.OrderDetail) string { return formatMoney(o.TotalValue) }},
		},
		load: func(term string) ([]state.OrderDetail, error) {
			all, err := s.Store.ListOrders()
			if err != nil || term == "" {
				return all, err
			}
			var out []state.OrderDetail
			for _, o := range all {
				if containsFold(term, o.Number, o.OpenDate.Format("02/01/2006"), o.VehiclePlate, o.ClientName) {
					out = append(out, o)
				}
			}
			return out, nil
		},
		onDelete: func(o state.OrderDetail) error { return s.Store.DeleteOrder(o.ID) },
		describe: func(o state.OrderDetail) string { return "a ordem de serviço " + o.Number },
	}
	t.onAdd = func() { s.orderDialog(0, t.reload) }
	t.onEdit = func(o state.OrderDetail) { s.orderDialog(o.ID, t.reload) }
	t.extra = []fyne.CanvasObject{
		widget.NewButtonWithIcon("Imprimir", theme.DocumentPrintIcon(), func() {
			if o, ok := t.current(); ok {
				s.printDialog(o.ID, t.reload)
			}
		}),
	}
	return t.build()
}

// orderDialog edits the order with id, or a new one when id is 0.
func (s *shell) orderDialog(id int64, done func()) {
	order := state.ServiceOrder{Status: state.StatusInProgress, PaymentMethod: state.PaymentPix}
	if id != 0 {
		d, err := s.Store.GetOrder(id)
		if err != nil {
			showError(err, s.win)
			return
		}
		order = d.ServiceOrder
	}

	vehicles, err := s.Store.ListVehicles()
	if err != nil {
		showError(err, s.win)
		return
	}
	employees, err := s.Store.ListEmployees()
	if err != nil {
		showError(err, s.win)
		return
	}
	parts, err := s.Store.ListParts()
	if err != nil {
		showError(err, s.win)
		return
	}

	number := widget.NewEntry()
	number.SetPlaceHolder("OS-001")
	number.SetText(order.Number)

	vehicleLabels := make([]string, len(vehicles))
	vehicle := widget.NewSelect(nil, nil)
	for i, v := range vehicles {
		vehicleLabels[i] = v.Label()
	}
	vehicle.SetOptions(vehicleLabels)
	for i, v := range vehicles {
		if v.ID == order.VehicleID {
			vehicle.SetSelectedIndex(i)
		}
	}

	employeeLabels := make([]string, len(employees))
	for i, e := range employees {
		employeeLabels[i] = e.Label()
	}
	employee := widget.NewSelect(employeeLabels, nil)
	for i, e := range employees {
		if e.ID == order.EmployeeID {
			employee.SetSelectedIndex(i)
		}
	}

	status := widget.NewSelect(statusOptions(), nil)
	status.SetSelected(string(order.Status))
	payment := widget.NewSelect(paymentOptions(), nil)
	payment.SetSelected(string(order.PaymentMethod))

	desc := widget.NewMultiLineEntry()
	desc.SetMinRowsVisible(4)
	desc.SetText(order.Description)

	total := widget.NewEntry()
	total.SetText(fmt.Sprintf("%.2f", order.TotalValue))

	// Parts.
	partLabels := make([]string, len(parts))
	for i, p := range parts {
		partLabels[i] = p.Label()
	}
	partSelect := widget.NewSelect(partLabels, nil)
	qty := widget.NewEntry()
	qty.SetText("1")
	selectedLine := -1
	partList := widget.NewList(
		func() int { return len(order.Parts) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			p := order.Parts[i]
			o.(*widget.Label).SetText(fmt.Sprintf("%s - %s   %d x %s = %s",
				p.Code, p.Description, p.Quantity, formatMoney(p.Price), formatMoney(p.Subtotal())))
		},
	)
	partList.OnSelected = func(i widget.ListItemID) { selectedLine = i }
	partsTotal := widget.NewLabel("")
	partsChanged := func() {
		order.RecomputeTotal()
		total.SetText(fmt.Sprintf("%.2f", order.TotalValue))
		partsTotal.SetText("Total Peças: " + formatMoney(order.PartsTotal()))
		selectedLine = -1
		partList.UnselectAll()
		partList.Refresh()
	}
	partsTotal.SetText("Total Peças: " + formatMoney(order.PartsTotal()))

	addPart := widget.NewButtonWithIcon("Adicionar Peça", theme.ContentAddIcon(), func() {
		i := partSelect.SelectedIndex()
		if i < 0 {
			return
		}
		n, err := parseInt("quantidade", qty.Text)
		if err != nil || n <= 0 {
			dialog.ShowInformation("Quantidade", "Informe uma quantidade maior que zero.", s.win)
			return
		}
		order.AddPart(parts[i], n)
		partsChanged()
	})
	removePart := widget.NewButtonWithIcon("Remover Peça", theme.ContentRemoveIcon(), func() {
		if selectedLine < 0 {
			return
		}
		order.RemovePart(selectedLine)
		partsChanged()
	})
	qtyBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(70, qty.MinSize().Height)), qty)
	partsTab := container.NewBorder(
		container.NewBorder(nil, nil, nil, container.NewHBox(qtyBox, addPart, removePart), partSelect),
		partsTotal, nil, nil, partList)

	// Signatures.
	w, h := s.Config.Signature.Width, s.Config.Signature.Height
	clientSig := NewSignatureWidget(w, h)
	clientSig.SetEncoded(order.ClientSignature)
	mechanicSig := NewSignatureWidget(w, h)
	mechanicSig.SetEncoded(order.MechanicSignature)
	sigTab := container.NewVScroll(container.NewVBox(
		NewSignatureToolbar("Assinatura do Cliente", clientSig),
		NewSignatureToolbar("Assinatura do Mecânico", mechanicSig),
	))

	form := widget.NewForm(
		widget.NewFormItem("Número", number),
		widget.NewFormItem("Veículo", vehicle),
		widget.NewFormItem("Funcionário", employee),
		widget.NewFormItem("Status", status),
		widget.NewFormItem("Forma de Pagamento", payment),
		widget.NewFormItem("Valor Total (R$)", total),
		widget.NewFormItem("Descrição", desc),
	)
	tabs := container.NewAppTabs(
		container.NewTabItem("Informações", form),
		container.NewTabItem("Peças", partsTab),
		container.NewTabItem("Assinaturas", sigTab),
	)

	title := "Nova Ordem de Serviço"
	if id != 0 {
		title = "Editar Ordem de Serviço " + order.Number
	}
	var dlg dialog.Dialog
	save := widget.NewButtonWithIcon("Salvar", theme.DocumentSaveIcon(), func() {
		o := order
		o.Number = strings.TrimSpace(number.Text)
		o.Description = strings.TrimSpace(desc.Text)
		o.Status = state.OrderStatus(status.Selected)
		o.PaymentMethod = state.PaymentMethod(payment.Selected)
		o.VehicleID, o.EmployeeID = 0, 0
		if i := vehicle.SelectedIndex(); i >= 0 {
			o.VehicleID = vehicles[i].ID
		}
		if i := employee.SelectedIndex(); i >= 0 {
			o.EmployeeID = employees[i].ID
		}
		v, err := parseMoney("valor total", total.Text)
		if err != nil {
			showError(err, s.win)
			return
		}
		o.TotalValue = v
		if o.CompletionApplies() && o.CompletionDate == nil {
			now := time.Now()
			o.CompletionDate = &now
		}
		o.ClientSignature, o.MechanicSignature = "", ""
		if clientSig.HasSignature() {
			o.ClientSignature = clientSig.Encoded()
		}
		if mechanicSig.HasSignature() {
			o.MechanicSignature = mechanicSig.Encoded()
		}

		if o.ID == 0 {
			o.ID, err = s.Store.AddOrder(o)
		} else {
			err = s.Store.UpdateOrder(o)
		}
		if err != nil {
			showError(err, s.win)
			return
		}
		s.Log.Info("order saved from dialog", zap.Int64("id", o.ID), zap.String("number", o.Number))
		s.setStatus("Ordem de serviço salva: " + o.Number)
		dlg.Hide()
		done()
	})
	save.Importance = widget.HighImportance
	cancel := widget.NewButton("Cancelar", func() { dlg.Hide() })

	content := container.NewBorder(nil, container.NewHBox(layout.NewSpacer(), cancel, save), nil, nil, tabs)
	dlg = dialog.NewCustomWithoutButtons(title, content, s.win)
	dlg.Resize(fyne.NewSize(float32(w)+160, float32(2*h)+260))
	dlg.Show()
}
