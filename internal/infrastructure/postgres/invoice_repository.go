package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/facturio/facturio-api/internal/domain"
	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, user_id, invoice_number, date, due_date,
	       customer_name, customer_email, customer_address, customer_logo_url,
	       bank_account_id, subtotal, tax_rate, tax_amount, total,
	       status, notes, template, created_at, updated_at`

// Create persiste la cabecera de la factura.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, user_id, invoice_number, date, due_date, customer_name, customer_email, customer_address, customer_logo_url, bank_account_id, subtotal, tax_rate, tax_amount, total, status, notes, template, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.UserID, invoice.InvoiceNumber, invoice.Date, invoice.DueDate,
		invoice.CustomerName, nullIfEmpty(invoice.CustomerEmail), nullIfEmpty(invoice.CustomerAddress), nullIfEmpty(invoice.CustomerLogoURL),
		nullIfEmpty(invoice.BankAccountID), invoice.Subtotal, invoice.TaxRate, invoice.TaxAmount, invoice.Total,
		invoice.Status, nullIfEmpty(invoice.Notes), invoice.Template,
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number already exists: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItems inserta todas las líneas de la factura en un solo batch
// (un round-trip, no un INSERT por línea).
func (r *InvoiceRepo) CreateItems(invoiceID string, items []*entity.InvoiceItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `
		INSERT INTO invoice_items (id, invoice_id, description, quantity, price, total, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	batch := &pgx.Batch{}
	for i, item := range items {
		batch.Queue(query, item.ID, invoiceID, item.Description, item.Quantity, item.Price, item.Total, i)
	}
	results := r.q.SendBatch(context.Background(), batch)
	defer results.Close()
	for range items {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert invoice item: %w", err)
		}
	}
	return nil
}

// Update reemplaza la cabecera completa (los campos derivados ya vienen recalculados).
func (r *InvoiceRepo) Update(invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET invoice_number    = $2,
		    date              = $3,
		    due_date          = $4,
		    customer_name     = $5,
		    customer_email    = $6,
		    customer_address  = $7,
		    customer_logo_url = $8,
		    bank_account_id   = $9,
		    subtotal          = $10,
		    tax_rate          = $11,
		    tax_amount        = $12,
		    total             = $13,
		    notes             = $14,
		    template          = $15,
		    updated_at        = $16
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.InvoiceNumber, invoice.Date, invoice.DueDate,
		invoice.CustomerName, nullIfEmpty(invoice.CustomerEmail), nullIfEmpty(invoice.CustomerAddress), nullIfEmpty(invoice.CustomerLogoURL),
		nullIfEmpty(invoice.BankAccountID), invoice.Subtotal, invoice.TaxRate, invoice.TaxAmount, invoice.Total,
		nullIfEmpty(invoice.Notes), invoice.Template, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number already exists: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus cambia solo el estado (PATCH de estado, no edición completa).
func (r *InvoiceRepo) UpdateStatus(id, status string, updatedAt time.Time) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE invoices SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteItemsByInvoiceID elimina todas las líneas de la factura.
func (r *InvoiceRepo) DeleteItemsByInvoiceID(invoiceID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM invoice_items WHERE invoice_id = $1`, invoiceID)
	if err != nil {
		return fmt.Errorf("delete invoice items: %w", err)
	}
	return nil
}

// Delete elimina la cabecera. Las líneas se borran antes, en la misma tx.
func (r *InvoiceRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una factura por ID, o nil si no existe.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := scanInvoiceRow(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetItemsByInvoiceID obtiene las líneas de la factura en su orden original.
func (r *InvoiceRepo) GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, description, quantity, price, total
		FROM invoice_items WHERE invoice_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceItem
	for rows.Next() {
		var item entity.InvoiceItem
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Description, &item.Quantity, &item.Price, &item.Total); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		list = append(list, &item)
	}
	return list, rows.Err()
}

// ListByUser lista las facturas de la cuenta (sin líneas), más recientes primero.
func (r *InvoiceRepo) ListByUser(userID string, limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
		FROM invoices WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoiceRow(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

func scanInvoiceRow(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var email, address, logoURL, bankAccountID, notes *string
	err := row.Scan(
		&inv.ID, &inv.UserID, &inv.InvoiceNumber, &inv.Date, &inv.DueDate,
		&inv.CustomerName, &email, &address, &logoURL,
		&bankAccountID, &inv.Subtotal, &inv.TaxRate, &inv.TaxAmount, &inv.Total,
		&inv.Status, &notes, &inv.Template,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	// El estado es una enumeración cerrada: un valor desconocido en la fila es
	// corrupción de datos, no algo que propagar al cliente.
	if !entity.ValidInvoiceStatus(inv.Status) {
		return nil, fmt.Errorf("invoice %s: estado desconocido %q", inv.ID, inv.Status)
	}
	derefStr := func(p *string) string {
		if p != nil {
			return *p
		}
		return ""
	}
	inv.CustomerEmail = derefStr(email)
	inv.CustomerAddress = derefStr(address)
	inv.CustomerLogoURL = derefStr(logoURL)
	inv.BankAccountID = derefStr(bankAccountID)
	inv.Notes = derefStr(notes)
	return &inv, nil
}
