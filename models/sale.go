// Package models defines the persisted business records read by the
// pipeline and the dashboard.
package models

import "time"

// Sale is one row of the external sales table. The pipeline reads it and
// never mutates it; only product code, quantity and sale date matter for
// forecasting, the rest feeds the dashboard.
type Sale struct {
	ID            int64     `json:"id"`
	InvoiceNumber string    `json:"invoice_number"`
	ProductCode   string    `json:"product_code"`
	ProductName   string    `json:"product_name"`
	Quantity      float64   `json:"quantity"`
	SaleDate      time.Time `json:"sale_date"`
	Total         float64   `json:"total"`
}
