package state

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout and TimeLayout are the text forms dates take in the database.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "2006-01-02 15:04:05"
)

type OrderStatus string

const (
	StatusInProgress OrderStatus = "em andamento"
	StatusDone       OrderStatus = "concluído"
	StatusDelivered  OrderStatus = "entregue"
)

// OrderStatuses lists statuses in the order the UI offers them.
var OrderStatuses = []OrderStatus{StatusInProgress, StatusDone, StatusDelivered}

type PaymentMethod string

const (
	PaymentPix    PaymentMethod = "pix"
	PaymentCard   PaymentMethod = "cartão"
	PaymentCash   PaymentMethod = "dinheiro"
	PaymentBoleto PaymentMethod = "boleto"
)

var PaymentMethods = []PaymentMethod{PaymentPix, PaymentCard, PaymentCash, PaymentBoleto}

// SignerRole names who signed a service order. Each role has its own
// signature field on the order.
type SignerRole string

const (
	SignerClient   SignerRole = "client"
	SignerMechanic SignerRole = "mechanic"
)

// ValidationError reports a missing or malformed required field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: "obrigatório"}
	}
	return nil
}

type Client struct {
	ID        int64
	Name      string
	Document  string
	Address   string
	Phone     string
	Email     string
	CreatedAt string
}

func (c Client) Validate() error {
	if err := required("name", c.Name); err != nil {
		return err
	}
	return required("document", c.Document)
}

type Vehicle struct {
	ID         int64
	Plate      string
	Brand      string
	Model      string
	Year       int
	Color      string
	ClientID   int64
	BrandCode  string
	ModelCode  string
	ClientName string // joined, read-only
}

func (v Vehicle) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"plate", v.Plate}, {"brand", v.Brand}, {"model", v.Model},
	} {
		if err := required(f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}

// Label is the one-line form used in pickers.
func (v Vehicle) Label() string {
	return fmt.Sprintf("%s - %s %s", v.Plate, v.Brand, v.Model)
}

type Employee struct {
	ID        int64
	Name      string
	Document  string
	Role      string
	HireDate  string
	CreatedAt string
}

func (e Employee) Validate() error {
	if err := required("name", e.Name); err != nil {
		return err
	}
	return required("document", e.Document)
}

func (e Employee) Label() string {
	return fmt.Sprintf("%s (%s)", e.Name, e.Role)
}

type Part struct {
	ID            int64
	Code          string
	Description   string
	StockQuantity int
	BuyPrice      float64
	SellPrice     float64
	CreatedAt     string
}

func (p Part) Validate() error {
	if err := required("code", p.Code); err != nil {
		return err
	}
	return required("description", p.Description)
}

func (p Part) Label() string {
	return fmt.Sprintf("%s - %s (R$ %.2f)", p.Code, p.Description, p.SellPrice)
}

// OrderPart is one line of parts on a service order. Code and Description
// are joined from the part for display.
type OrderPart struct {
	ID          int64
	PartID      int64
	Code        string
	Description string
	Quantity    int
	Price       float64
}

func (op OrderPart) Subtotal() float64 { return float64(op.Quantity) * op.Price }

type ServiceOrder struct {
	ID                int64
	Number            string
	OpenDate          time.Time
	VehicleID         int64
	Description       string
	Status            OrderStatus
	EmployeeID        int64
	CompletionDate    *time.Time
	TotalValue        float64
	PaymentMethod     PaymentMethod
	ClientSignature   string
	MechanicSignature string
	Parts             []OrderPart
}

func (o ServiceOrder) Validate() error {
	if err := required("number", o.Number); err != nil {
		return err
	}
	if o.VehicleID == 0 {
		return &ValidationError{Field: "vehicle", Message: "selecione um veículo"}
	}
	if err := required("description", o.Description); err != nil {
		return err
	}
	if o.EmployeeID == 0 {
		return &ValidationError{Field: "employee", Message: "selecione um funcionário"}
	}
	return nil
}

// CompletionApplies reports whether the order carries a completion date.
func (o ServiceOrder) CompletionApplies() bool {
	return o.Status != "" && o.Status != StatusInProgress
}

func (o ServiceOrder) PartsTotal() float64 {
	var total float64
	for _, p := range o.Parts {
		total += p.Subtotal()
	}
	return total
}

// LaborCost is whatever part of the total is not parts.
func (o ServiceOrder) LaborCost() float64 {
	return o.TotalValue - o.PartsTotal()
}

// AddPart adds qty of part to the order, merging with an existing line.
func (o *ServiceOrder) AddPart(p Part, qty int) {
	if qty <= 0 {
		return
	}
	for i := range o.Parts {
		if o.Parts[i].PartID == p.ID {
			o.Parts[i].Quantity += qty
			return
		}
	}
	o.Parts = append(o.Parts, OrderPart{
		PartID:      p.ID,
		Code:        p.Code,
		Description: p.Description,
		Quantity:    qty,
		Price:       p.SellPrice,
	})
}

func (o *ServiceOrder) RemovePart(i int) {
	if i < 0 || i >= len(o.Parts) {
		return
	}
	o.Parts = append(o.Parts[:i], o.Parts[i+1:]...)
}

// RecomputeTotal sets the total to the sum of the parts.
func (o *ServiceOrder) RecomputeTotal() {
	o.TotalValue = o.PartsTotal()
}

// Signature returns the stored signature for role.
func (o ServiceOrder) Signature(role SignerRole) string {
	if role == SignerMechanic {
		return o.MechanicSignature
	}
	return o.ClientSignature
}

// OrderDetail is a service order joined with the names it refers to.
type OrderDetail struct {
	ServiceOrder
	VehiclePlate string
	ClientName   string
	EmployeeName string
}

type Expense struct {
	ID            int64
	Date          string
	Description   string
	Value         float64
	Category      string
	PaymentMethod PaymentMethod
	CreatedAt     string
}

func (e Expense) Validate() error {
	if err := required("description", e.Description); err != nil {
		return err
	}
	if e.Value <= 0 {
		return &ValidationError{Field: "value", Message: "deve ser maior que zero"}
	}
	return nil
}
