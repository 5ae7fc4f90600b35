package ui

import (
	"context"
	"fmt"
	"strings"

	"AutoCenter/internal/fipe"
	"AutoCenter/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"
)

func (s *shell) vehiclesTab() fyne.CanvasObject {
	t := &recordTab[state.Vehicle]{
		win: s.win,
		columns: []column[state.Vehicle]{
			{"ID", 50, func(v state.Vehicle) string { return fmt.Sprint(v.ID) }},
			{"Placa", 100, func(v state.Vehicle) string { return v.Plate }},
			{"Marca", 140, func(v state.Vehicle) string { return v.Brand }},
			{"Modelo", 220, func(v state.Vehicle) string { return v.Model }},
			{"Ano", 70, func(v state.Vehicle) string { return fmt.Sprint(v.Year) }},
			{"Cor", 100, func(v state.Vehicle) string { return v.Color }},
			{"Cliente", 200, func(v state.Vehicle) string { return v.ClientName }},
		},
		load: func(term string) ([]state.Vehicle, error) {
			if term == "" {
				return s.Store.ListVehicles()
			}
			return s.Store.SearchVehicles(term)
		},
		onDelete: func(v state.Vehicle) error { return s.Store.DeleteVehicle(v.ID) },
		describe: func(v state.Vehicle) string { return "o veículo " + v.Plate },
	}
	t.onAdd = func() { s.vehicleDialog(state.Vehicle{}, t.reload) }
	t.onEdit = func(v state.Vehicle) { s.vehicleDialog(v, t.reload) }
	return t.build()
}

func itemNames(items []fipe.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func itemByName(items []fipe.Item, name string) (fipe.Item, bool) {
	for _, it := range items {
		if strings.EqualFold(it.Name, name) {
			return it, true
		}
	}
	return fipe.Item{}, false
}

// fipeSelection tracks the FIPE codes behind the brand and model entries.
// It is only touched on the UI goroutine.
type fipeSelection struct {
	brands, models       []fipe.Item
	brandCode, modelCode fipe.Code
}

// selectBrand records the brand typed or picked. It reports the brand and
// whether its models need loading.
func (f *fipeSelection) selectBrand(text string) (fipe.Brand, bool) {
	b, ok := itemByName(f.brands, text)
	if !ok {
		f.brandCode = ""
		return fipe.Brand{}, false
	}
	if b.Code == f.brandCode && f.models != nil {
		return b, false
	}
	f.brandCode = b.Code
	f.modelCode = ""
	f.models = nil
	return b, true
}

// modelsLoaded installs a models response. Responses for a brand that is no
// longer selected are dropped.
func (f *fipeSelection) modelsLoaded(brand fipe.Code, list []fipe.Model) bool {
	if brand != f.brandCode {
		return false
	}
	f.models = list
	return true
}

func (f *fipeSelection) selectModel(text string) {
	if m, ok := itemByName(f.models, text); ok {
		f.modelCode = m.Code
	} else {
		f.modelCode = ""
	}
}

// vehicleDialog edits a vehicle. Brand and model lists come from FIPE in
// the background; free text is accepted when the API is unreachable.
func (s *shell) vehicleDialog(v state.Vehicle, done func()) {
	clients, err := s.Store.ListClients()
	if err != nil {
		showError(err, s.win)
		return
	}
	clientLabels := make([]string, len(clients))
	clientIndex := -1
	for i, c := range clients {
		clientLabels[i] = fmt.Sprintf("%s (%s)", c.Name, c.Document)
		if c.ID == v.ClientID {
			clientIndex = i
		}
	}

	plate := widget.NewEntry()
	plate.SetPlaceHolder("ABC-1234")
	plate.SetText(v.Plate)
	brand := widget.NewSelectEntry(nil)
	brand.SetPlaceHolder("Carregando marcas...")
	brand.SetText(v.Brand)
	model := widget.NewSelectEntry(nil)
	model.SetText(v.Model)
	year := widget.NewEntry()
	if v.Year != 0 {
		year.SetText(fmt.Sprint(v.Year))
	}
	color := widget.NewEntry()
	color.SetText(v.Color)
	client := widget.NewSelect(clientLabels, nil)
	if clientIndex >= 0 {
		client.SetSelectedIndex(clientIndex)
	}
	apiStatus := widget.NewLabel("Carregando dados da API de veículos...")

	ctx, cancel := context.WithCancel(context.Background())
	sel := &fipeSelection{brandCode: fipe.Code(v.BrandCode), modelCode: fipe.Code(v.ModelCode)}

	loadModels := func(b fipe.Brand) {
		if s.FIPE == nil {
			return
		}
		model.SetOptions(nil)
		model.SetPlaceHolder("Carregando modelos...")
		apiStatus.SetText("Carregando modelos para " + b.Name + "...")
		fipe.Fetch(ctx, func(ctx context.Context) ([]fipe.Model, error) {
			return s.FIPE.Models(ctx, b.Code)
		}, func(list []fipe.Model, err error) {
			fyne.Do(func() {
				if err != nil {
					if sel.brandCode == b.Code {
						apiStatus.SetText("Não foi possível carregar os modelos. Digite o modelo.")
						model.SetPlaceHolder("")
					}
					return
				}
				if !sel.modelsLoaded(b.Code, list) {
					return
				}
				model.SetOptions(itemNames(list))
				model.SetPlaceHolder("Selecione o modelo")
				apiStatus.SetText("Modelos carregados para " + b.Name)
			})
		})
	}

	brand.OnChanged = func(text string) {
		if b, reload := sel.selectBrand(text); reload {
			loadModels(b)
		}
	}
	model.OnChanged = sel.selectModel

	if s.FIPE == nil {
		apiStatus.SetText("API de veículos desativada.")
		brand.SetPlaceHolder("")
	} else {
		fipe.Fetch(ctx, s.FIPE.Brands, func(list []fipe.Brand, err error) {
			fyne.Do(func() {
				if err != nil {
					s.Log.Warn("fipe brands unavailable", zap.Error(err))
					apiStatus.SetText("API de veículos indisponível. Digite marca e modelo.")
					brand.SetPlaceHolder("")
					return
				}
				sel.brands = list
				brand.SetOptions(itemNames(list))
				brand.SetPlaceHolder("Selecione a marca")
				apiStatus.SetText("Marcas carregadas")
				if b, ok := itemByName(list, brand.Text); ok {
					sel.brandCode = b.Code
					loadModels(b)
				}
			})
		})
	}

	title := "Novo Veículo"
	if v.ID != 0 {
		title = "Editar Veículo"
	}
	d := showForm(s.win, title, []*widget.FormItem{
		widget.NewFormItem("Placa", plate),
		widget.NewFormItem("Marca", brand),
		widget.NewFormItem("Modelo", model),
		widget.NewFormItem("Ano", year),
		widget.NewFormItem("Cor", color),
		widget.NewFormItem("Cliente", client),
		widget.NewFormItem("", apiStatus),
	}, func() error {
		var err error
		v.Plate = strings.ToUpper(strings.TrimSpace(plate.Text))
		v.Brand = strings.TrimSpace(brand.Text)
		v.Model = strings.TrimSpace(model.Text)
		if v.Year, err = parseInt("ano", year.Text); err != nil {
			return err
		}
		v.Color = strings.TrimSpace(color.Text)
		v.BrandCode = string(sel.brandCode)
		v.ModelCode = string(sel.modelCode)
		v.ClientID = 0
		if i := client.SelectedIndex(); i >= 0 {
			v.ClientID = clients[i].ID
		}
		if v.ID == 0 {
			_, err = s.Store.AddVehicle(v)
		} else {
			err = s.Store.UpdateVehicle(v)
		}
		if err != nil {
			return err
		}
		s.setStatus("Veículo salvo: " + v.Plate)
		done()
		return nil
	})
	d.SetOnClosed(cancel)
}
