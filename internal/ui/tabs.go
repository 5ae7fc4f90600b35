package ui

import (
	"fmt"
	"strings"
	"time"

	"AutoCenter/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

var expenseCategories = []string{
	"peças", "mão de obra", "ferramentas", "aluguel",
	"energia", "água", "internet", "outros",
}

func paymentOptions() []string {
	out := make([]string, len(state.PaymentMethods))
	for i, p := range state.PaymentMethods {
		out[i] = string(p)
	}
	return out
}

func containsFold(term string, fields ...string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func (s *shell) clientsTab() fyne.CanvasObject {
	t := &recordTab[state.Client]{
		win: s.win,
		columns: []column[state.Client]{
			{"ID", 50, func(c state.Client) string { return fmt.Sprint(c.ID) }},
			{"Nome", 200, func(c state.Client) string { return c.Name }},
			{"CPF/CNPJ", 150, func(c state.Client) string { return c.Document }},
			{"Endereço", 220, func(c state.Client) string { return c.Address }},
			{"Telefone", 130, func(c state.Client) string { return c.Phone }},
			{"Email", 200, func(c state.Client) string { return c.Email }},
		},
		load: func(term string) ([]state.Client, error) {
			if term == "" {
				return s.Store.ListClients()
			}
			return s.Store.SearchClients(term)
		},
		onDelete: func(c state.Client) error { return s.Store.DeleteClient(c.ID) },
		describe: func(c state.Client) string { return "o cliente " + c.Name },
	}
	t.onAdd = func() { s.clientDialog(state.Client{}, t.reload) }
	t.onEdit = func(c state.Client) { s.clientDialog(c, t.reload) }
	return t.build()
}

func (s *shell) clientDialog(c state.Client, done func()) {
	name := widget.NewEntry()
	name.SetText(c.Name)
	doc := widget.NewEntry()
	doc.SetText(c.Document)
	addr := widget.NewEntry()
	addr.SetText(c.Address)
	phone := widget.NewEntry()
	phone.SetText(c.Phone)
	email := widget.NewEntry()
	email.SetText(c.Email)

	title := "Novo Cliente"
	if c.ID != 0 {
		title = "Editar Cliente"
	}
	showForm(s.win, title, []*widget.FormItem{
		widget.NewFormItem("Nome", name),
		widget.NewFormItem("CPF/CNPJ", doc),
		widget.NewFormItem("Endereço", addr),
		widget.NewFormItem("Telefone", phone),
		widget.NewFormItem("Email", email),
	}, func() error {
		c.Name = strings.TrimSpace(name.Text)
		c.Document = strings.TrimSpace(doc.Text)
		c.Address = strings.TrimSpace(addr.Text)
		c.Phone = strings.TrimSpace(phone.Text)
		c.Email = strings.TrimSpace(email.Text)
		var err error
		if c.ID == 0 {
			_, err = s.Store.AddClient(c)
		} else {
			err = s.Store.UpdateClient(c)
		}
		if err != nil {
			return err
		}
		s.setStatus("Cliente salvo: " + c.Name)
		done()
		return nil
	})
}

func (s *shell) employeesTab() fyne.CanvasObject {
	t := &recordTab[state.Employee]{
		win: s.win,
		columns: []column[state.Employee]{
			{"ID", 50, func(e state.Employee) string { return fmt.Sprint(e.ID) }},
			{"Nome", 220, func(e state.Employee) string { return e.Name }},
			{"CPF", 150, func(e state.Employee) string { return e.Document }},
			{"Cargo", 150, func(e state.Employee) string { return e.Role }},
			{"Contratação", 120, func(e state.Employee) string { return e.HireDate }},
		},
		load: func(term string) ([]state.Employee, error) {
			all, err := s.Store.ListEmployees()
			if err != nil || term == "" {
				return all, err
			}
			var out []state.Employee
			for _, e := range all {
				if containsFold(term, e.Name, e.Document, e.Role) {
					out = append(out, e)
				}
			}
			return out, nil
		},
		onDelete: func(e state.Employee) error { return s.Store.DeleteEmployee(e.ID) },
		describe: func(e state.Employee) string { return "o funcionário " + e.Name },
	}
	t.onAdd = func() { s.employeeDialog(state.Employee{HireDate: time.Now().Format(state.DateLayout)}, t.reload) }
	t.onEdit = func(e state.Employee) { s.employeeDialog(e, t.reload) }
	return t.build()
}

func (s *shell) employeeDialog(e state.Employee, done func()) {
	name := widget.NewEntry()
	name.SetText(e.Name)
	doc := widget.NewEntry()
	doc.SetText(e.Document)
	role := widget.NewEntry()
	role.SetPlaceHolder("Mecânico, Atendente, etc.")
	role.SetText(e.Role)
	hired := widget.NewEntry()
	hired.SetPlaceHolder("AAAA-MM-DD")
	hired.SetText(e.HireDate)

	title := "Novo Funcionário"
	if e.ID != 0 {
		title = "Editar Funcionário"
	}
	showForm(s.win, title, []*widget.FormItem{
		widget.NewFormItem("Nome", name),
		widget.NewFormItem("CPF", doc),
		widget.NewFormItem("Cargo", role),
		widget.NewFormItem("Data de Contratação", hired),
	}, func() error {
		e.Name = strings.TrimSpace(name.Text)
		e.Document = strings.TrimSpace(doc.Text)
		e.Role = strings.TrimSpace(role.Text)
		e.HireDate = strings.TrimSpace(hired.Text)
		if e.HireDate != "" {
			if _, err := time.Parse(state.DateLayout, e.HireDate); err != nil {
				return &state.ValidationError{Field: "hire_date", Message: "use AAAA-MM-DD"}
			}
		}
		var err error
		if e.ID == 0 {
			_, err = s.Store.AddEmployee(e)
		} else {
			err = s.Store.UpdateEmployee(e)
		}
		if err != nil {
			return err
		}
		s.setStatus("Funcionário salvo: " + e.Name)
		done()
		return nil
	})
}

func (s *shell) partsTab() fyne.CanvasObject {
	t := &recordTab[state.Part]{
		win: s.win,
		columns: []column[state.Part]{
			{"ID", 50, func(p state.Part) string { return fmt.Sprint(p.ID) }},
			{"Código", 90, func(p state.Part) string { return p.Code }},
			{"Descrição", 240, func(p state.Part) string { return p.Description }},
			{"Estoque", 80, func(p state.Part) string { return fmt.Sprint(p.StockQuantity) }},
			{"Preço de Compra", 130, func(p state.Part) string { return formatMoney(p.BuyPrice) }},
			{"Preço de Venda", 130, func(p state.Part) string { return formatMoney(p.SellPrice) }},
		},
		load: func(term string) ([]state.Part, error) {
			all, err := s.Store.ListParts()
			if err != nil || term == "" {
				return all, err
			}
			var out []state.Part
			for _, p := range all {
				if containsFold(term, p.Code, p.Description) {
					out = append(out, p)
				}
			}
			return out, nil
		},
		onDelete: func(p state.Part) error { return s.Store.DeletePart(p.ID) },
		describe: func(p state.Part) string { return "a peça " + p.Code },
	}
	t.onAdd = func() { s.partDialog(state.Part{}, t.reload) }
	t.onEdit = func(p state.Part) { s.partDialog(p, t.reload) }
	t.extra = []fyne.CanvasObject{
		widget.NewButtonWithIcon("Estoque", theme.ContentAddIcon(), func() {
			if p, ok := t.current(); ok {
				s.stockDialog(p, t.reload)
			}
		}),
	}
	return t.build()
}

func (s *shell) partDialog(p state.Part, done func()) {
	code := widget.NewEntry()
	code.SetText(p.Code)
	desc := widget.NewEntry()
	desc.SetText(p.Description)
	stock := widget.NewEntry()
	stock.SetText(fmt.Sprint(p.StockQuantity))
	buy := widget.NewEntry()
	buy.SetText(fmt.Sprintf("%.2f", p.BuyPrice))
	sell := widget.NewEntry()
	sell.SetText(fmt.Sprintf("%.2f", p.SellPrice))

	title := "Nova Peça"
	if p.ID != 0 {
		title = "Editar Peça"
	}
	showForm(s.win, title, []*widget.FormItem{
		widget.NewFormItem("Código", code),
		widget.NewFormItem("Descrição", desc),
		widget.NewFormItem("Estoque", stock),
		widget.NewFormItem("Preço de Compra", buy),
		widget.NewFormItem("Preço de Venda", sell),
	}, func() error {
		var err error
		p.Code = strings.TrimSpace(code.Text)
		p.Description = strings.TrimSpace(desc.Text)
		if p.StockQuantity, err = parseInt("estoque", stock.Text); err != nil {
			return err
		}
		if p.BuyPrice, err = parseMoney("preço de compra", buy.Text); err != nil {
			return err
		}
		if p.SellPrice, err = parseMoney("preço de venda", sell.Text); err != nil {
			return err
		}
		if p.ID == 0 {
			_, err = s.Store.AddPart(p)
		} else {
			err = s.Store.UpdatePart(p)
		}
		if err != nil {
			return err
		}
		s.setStatus("Peça salva: " + p.Code)
		done()
		return nil
	})
}

// stockDialog adds to or takes from a part's stock.
func (s *shell) stockDialog(p state.Part, done func()) {
	delta := widget.NewEntry()
	delta.SetPlaceHolder("ex.: 10 ou -2")
	showForm(s.win, "Ajustar Estoque - "+p.Code, []*widget.FormItem{
		widget.NewFormItem("Atual", widget.NewLabel(fmt.Sprint(p.StockQuantity))),
		widget.NewFormItem("Ajuste", delta),
	}, func() error {
		d, err := parseInt("ajuste", delta.Text)
		if err != nil {
			return err
		}
		qty, err := s.Store.AdjustStock(p.ID, d)
		if err != nil {
			return err
		}
		s.setStatus(fmt.Sprintf("Estoque de %s: %d", p.Code, qty))
		done()
		return nil
	})
}

func (s *shell) expensesTab() fyne.CanvasObject {
	t := &recordTab[state.Expense]{
		win: s.win,
		columns: []column[state.Expense]{
			{"ID", 50, func(e state.Expense) string { return fmt.Sprint(e.ID) }},
			{"Data", 110, func(e state.Expense) string { return e.Date }},
			{"Descrição", 260, func(e state.Expense) string { return e.Description }},
			{"Valor", 110, func(e state.Expense) string { return formatMoney(e.Value) }},
			{"Categoria", 130, func(e state.Expense) string { return e.Category }},
			{"Pagamento", 110, func(e state.Expense) string { return string(e.PaymentMethod) }},
		},
		load: func(term string) ([]state.Expense, error) {
			all, err := s.Store.ListExpenses()
			if err != nil || term == "" {
				return all, err
			}
			var out []state.Expense
			for _, e := range all {
				if containsFold(term, e.Date, e.Description, e.Category) {
					out = append(out, e)
				}
			}
			return out, nil
		},
		onDelete: func(e state.Expense) error { return s.Store.DeleteExpense(e.ID) },
		describe: func(e state.Expense) string { return "o gasto " + e.Description },
	}
	t.onAdd = func() {
		s.expenseDialog(state.Expense{Date: time.Now().Format(state.DateLayout), PaymentMethod: state.PaymentPix}, t.reload)
	}
	t.onEdit = func(e state.Expense) { s.expenseDialog(e, t.reload) }
	return t.build()
}

func (s *shell) expenseDialog(e state.Expense, done func()) {
	date := widget.NewEntry()
	date.SetPlaceHolder("AAAA-MM-DD")
	date.SetText(e.Date)
	desc := widget.NewEntry()
	desc.SetText(e.Description)
	value := widget.NewEntry()
	value.SetText(fmt.Sprintf("%.2f", e.Value))
	category := widget.NewSelectEntry(expenseCategories)
	category.SetText(e.Category)
	payment := widget.NewSelect(paymentOptions(), nil)
	payment.SetSelected(string(e.PaymentMethod))

	title := "Novo Gasto"
	if e.ID != 0 {
		title = "Editar Gasto"
	}
	showForm(s.win, title, []*widget.FormItem{
		widget.NewFormItem("Data", date),
		widget.NewFormItem("Descrição", desc),
		widget.NewFormItem("Valor", value),
		widget.NewFormItem("Categoria", category),
		widget.NewFormItem("Forma de Pagamento", payment),
	}, func() error {
		var err error
		e.Date = strings.TrimSpace(date.Text)
		if _, err := time.Parse(state.DateLayout, e.Date); err != nil {
			return &state.ValidationError{Field: "date", Message: "use AAAA-MM-DD"}
		}
		e.Description = strings.TrimSpace(desc.Text)
		if e.Value, err = parseMoney("valor", value.Text); err != nil {
			return err
		}
		e.Category = strings.TrimSpace(category.Text)
		e.PaymentMethod = state.PaymentMethod(payment.Selected)
		if e.ID == 0 {
			_, err = s.Store.AddExpense(e)
		} else {
			err = s.Store.UpdateExpense(e)
		}
		if err != nil {
			return err
		}
		s.setStatus("Gasto salvo: " + e.Description)
		done()
		return nil
	})
}
