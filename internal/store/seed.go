package store

import (
	"fmt"
	"time"

	"AutoCenter/internal/state"

	"go.uber.org/zap"
)

// Seed fills an empty database with a small set of sample records. It
// does nothing once any client exists.
func (s *Store) Seed() error {
	n, err := s.count(`SELECT COUNT(*) FROM clients`)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if n > 0 {
		return nil
	}
	s.log.Info("inserting sample data")

	joao, err := s.AddClient(state.Client{Name: "João Silva", Document: "123.456.789-00",
		Address: "Rua A, 123", Phone: "(11) 98765-4321", Email: "joao@example.com"})
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	maria, err := s.AddClient(state.Client{Name: "Maria Oliveira", Document: "987.654.321-00",
		Address: "Av. B, 456", Phone: "(11) 91234-5678", Email: "maria@example.com"})
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	carlos, err := s.AddEmployee(state.Employee{Name: "Carlos Mecânico", Document: "111.222.333-44",
		Role: "Mecânico", HireDate: "2020-01-15"})
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if _, err := s.AddEmployee(state.Employee{Name: "Ana Atendente", Document: "555.666.777-88",
		Role: "Atendente", HireDate: "2021-05-10"}); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	corolla, err := s.AddVehicle(state.Vehicle{Plate: "ABC-1234", Brand: "Toyota", Model: "Corolla",
		Year: 2019, Color: "Prata", ClientID: joao, BrandCode: "59", ModelCode: "4828"})
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	civic, err := s.AddVehicle(state.Vehicle{Plate: "XYZ-9876", Brand: "Honda", Model: "Civic",
		Year: 2020, Color: "Preto", ClientID: maria, BrandCode: "25", ModelCode: "1193"})
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	var parts []state.Part
	for _, p := range []state.Part{
		{Code: "P001", Description: "Filtro de Óleo", StockQuantity: 15, BuyPrice: 25, SellPrice: 45},
		{Code: "P002", Description: "Pastilha de Freio", StockQuantity: 8, BuyPrice: 120, SellPrice: 180},
		{Code: "P003", Description: "Óleo de Motor", StockQuantity: 20, BuyPrice: 90, SellPrice: 120},
	} {
		id, err := s.AddPart(p)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		p.ID = id
		parts = append(parts, p)
	}

	for _, e := range []state.Expense{
		{Date: "2023-01-15", Description: "Compra de ferramentas", Value: 500, Category: "ferramentas", PaymentMethod: state.PaymentCard},
		{Date: "2023-02-10", Description: "Aluguel da oficina", Value: 2000, Category: "aluguel", PaymentMethod: state.PaymentBoleto},
	} {
		if _, err := s.AddExpense(e); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	done := time.Date(2023, 3, 11, 15, 30, 0, 0, time.Local)
	first := state.ServiceOrder{
		Number: "OS-001", OpenDate: time.Date(2023, 3, 10, 10, 0, 0, 0, time.Local),
		VehicleID: corolla, Description: "Troca de óleo e filtros", Status: state.StatusDone,
		EmployeeID: carlos, CompletionDate: &done, TotalValue: 250, PaymentMethod: state.PaymentCard,
	}
	first.AddPart(parts[0], 1)
	first.AddPart(parts[2], 1)
	if _, err := s.AddOrder(first); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if _, err := s.AddOrder(state.ServiceOrder{
		Number: "OS-002", OpenDate: time.Date(2023, 4, 5, 9, 15, 0, 0, time.Local),
		VehicleID: civic, Description: "Revisão completa", Status: state.StatusInProgress,
		EmployeeID: carlos, TotalValue: 450, PaymentMethod: state.PaymentPix,
	}); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	s.log.Info("sample data inserted", zap.Int("clients", 2), zap.Int("orders", 2))
	return nil
}
