package store

import (
	"fmt"

	"AutoCenter/internal/state"
)

// Bucket is one labelled figure of a grouped aggregate.
type Bucket struct {
	Label string
	Count int
	Value float64
}

type OrderStats struct {
	StatusCounts   []Bucket
	TotalRevenue   float64
	AverageValue   float64
	PaymentMethods []Bucket
}

type ExpenseStats struct {
	ByCategory []Bucket
	ByMonth    []Bucket
	ByPayment  []Bucket
	Total      float64
}

// Dashboard is what the dashboard tab shows.
type Dashboard struct {
	Clients        int
	Vehicles       int
	Orders         int
	Revenue        float64
	Expenses       float64
	Profit         float64
	StatusCounts   []Bucket
	RevenueByMonth []Bucket
	ExpenseByCat   []Bucket
}

func (s *Store) buckets(query string) ([]Bucket, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Bucket
	for rows.Next() {
		var b Bucket
		if err := rows.Scan(&b.Label, &b.Count, &b.Value); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) OrderStats() (OrderStats, error) {
	var st OrderStats
	var err error
	st.StatusCounts, err = s.buckets(`SELECT COALESCE(status, ''), COUNT(*), COALESCE(SUM(total_value), 0)
		FROM service_orders GROUP BY status ORDER BY status`)
	if err != nil {
		return st, fmt.Errorf("order stats: %w", err)
	}
	st.PaymentMethods, err = s.buckets(`SELECT COALESCE(payment_method, ''), COUNT(*), COALESCE(SUM(total_value), 0)
		FROM service_orders GROUP BY payment_method ORDER BY payment_method`)
	if err != nil {
		return st, fmt.Errorf("order stats: %w", err)
	}
	err = s.db.QueryRow(`SELECT COALESCE(SUM(total_value), 0), COALESCE(AVG(total_value), 0) FROM service_orders`).
		Scan(&st.TotalRevenue, &st.AverageValue)
	if err != nil {
		return st, fmt.Errorf("order stats: %w", err)
	}
	return st, nil
}

func (s *Store) ExpenseStats() (ExpenseStats, error) {
	var st ExpenseStats
	var err error
	st.ByCategory, err = s.buckets(`SELECT COALESCE(category, ''), COUNT(*), COALESCE(SUM(value), 0)
		FROM expenses GROUP BY category ORDER BY category`)
	if err != nil {
		return st, fmt.Errorf("expense stats: %w", err)
	}
	st.ByMonth, err = s.buckets(`SELECT COALESCE(strftime('%Y-%m', date), ''), COUNT(*), COALESCE(SUM(value), 0)
		FROM expenses GROUP BY 1 ORDER BY 1`)
	if err != nil {
		return st, fmt.Errorf("expense stats: %w", err)
	}
	st.ByPayment, err = s.buckets(`SELECT COALESCE(payment_method, ''), COUNT(*), COALESCE(SUM(value), 0)
		FROM expenses GROUP BY payment_method ORDER BY payment_method`)
	if err != nil {
		return st, fmt.Errorf("expense stats: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COALESCE(SUM(value), 0) FROM expenses`).Scan(&st.Total); err != nil {
		return st, fmt.Errorf("expense stats: %w", err)
	}
	return st, nil
}

// Dashboard gathers the headline figures. Every known order status is
// present in StatusCounts, with zero counts where no order has it.
func (s *Store) Dashboard() (Dashboard, error) {
	var d Dashboard
	var err error
	if d.Clients, err = s.count(`SELECT COUNT(*) FROM clients`); err != nil {
		return d, fmt.Errorf("dashboard: %w", err)
	}
	if d.Vehicles, err = s.count(`SELECT COUNT(*) FROM vehicles`); err != nil {
		return d, fmt.Errorf("dashboard: %w", err)
	}

	os, err := s.OrderStats()
	if err != nil {
		return d, fmt.Errorf("dashboard: %w", err)
	}
	es, err := s.ExpenseStats()
	if err != nil {
		return d, fmt.Errorf("dashboard: %w", err)
	}
	for _, b := range os.StatusCounts {
		d.Orders += b.Count
	}
	d.Revenue = os.TotalRevenue
	d.Expenses = es.Total
	d.Profit = d.Revenue - d.Expenses
	d.ExpenseByCat = es.ByCategory

	byStatus := map[string]Bucket{}
	for _, b := range os.StatusCounts {
		byStatus[b.Label] = b
	}
	for _, st := range state.OrderStatuses {
		b := byStatus[string(st)]
		b.Label = string(st)
		d.StatusCounts = append(d.StatusCounts, b)
	}

	d.RevenueByMonth, err = s.buckets(`SELECT strftime('%Y-%m', open_date), COUNT(*), COALESCE(SUM(total_value), 0)
		FROM service_orders WHERE open_date IS NOT NULL AND strftime('%Y-%m', open_date) IS NOT NULL
		GROUP BY 1 ORDER BY 1`)
	if err != nil {
		return d, fmt.Errorf("dashboard: %w", err)
	}
	return d, nil
}
