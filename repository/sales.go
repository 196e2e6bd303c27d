// Package repository reads persisted sale records from PostgreSQL.
package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"demandcast/models"
	"demandcast/pkg/errors"
)

const saleColumns = `id, invoice_number, product_code, product_name, quantity, sale_date, total`

// SaleRepository queries the sales table. It satisfies both the pipeline's
// full-scan source and the dashboard's range source.
type SaleRepository struct {
	pool *pgxpool.Pool
}

// NewSaleRepository wraps a connection pool.
func NewSaleRepository(pool *pgxpool.Pool) *SaleRepository {
	return &SaleRepository{pool: pool}
}

// GetAll returns every sale record, ordered by sale date.
func (r *SaleRepository) GetAll(ctx context.Context) ([]models.Sale, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+saleColumns+` FROM sales ORDER BY sale_date`)
	if err != nil {
		return nil, errors.Wrap(err, "repository: querying sales")
	}
	return scanSales(rows)
}

// GetAllByRange returns the sale records with a sale date in [start, end],
// ordered by sale date.
func (r *SaleRepository) GetAllByRange(ctx context.Context, start, end time.Time) ([]models.Sale, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+saleColumns+` FROM sales
		 WHERE sale_date >= $1 AND sale_date <= $2
		 ORDER BY sale_date`, start, end)
	if err != nil {
		return nil, errors.Wrap(err, "repository: querying sales by range")
	}
	return scanSales(rows)
}

func scanSales(rows pgx.Rows) ([]models.Sale, error) {
	defer rows.Close()

	var out []models.Sale
	for rows.Next() {
		var (
			s       models.Sale
			invoice *string
			name    *string
			total   *float64
		)
		if err := rows.Scan(&s.ID, &invoice, &s.ProductCode, &name, &s.Quantity, &s.SaleDate, &total); err != nil {
			return nil, errors.Wrap(err, "repository: scanning sale")
		}
		if invoice != nil {
			s.InvoiceNumber = *invoice
		}
		if name != nil {
			s.ProductName = *name
		}
		if total != nil {
			s.Total = *total
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "repository: iterating sales")
	}
	return out, nil
}
