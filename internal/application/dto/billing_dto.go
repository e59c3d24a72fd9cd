package dto

import "github.com/shopspring/decimal"

// InvoiceItemRequest línea de factura en peticiones de creación/edición.
// Quantity y Price son decimal.Decimal: un valor no numérico en el JSON hace
// fallar la decodificación del body (400), nunca se convierte en 0 silencioso.
type InvoiceItemRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// CreateInvoiceRequest body para POST /api/invoices.
// Si CustomerID va informado, los datos del cliente se copian desde el CRM
// (snapshot); si no, se toman los campos customer_* literales.
// Subtotal/impuesto/total NO se aceptan del cliente: siempre se recalculan.
type CreateInvoiceRequest struct {
	InvoiceNumber   string               `json:"invoice_number"`
	Date            string               `json:"date"`     // YYYY-MM-DD
	DueDate         string               `json:"due_date"` // YYYY-MM-DD
	CustomerID      string               `json:"customer_id,omitempty"`
	CustomerName    string               `json:"customer_name,omitempty"`
	CustomerEmail   string               `json:"customer_email,omitempty"`
	CustomerAddress string               `json:"customer_address,omitempty"`
	CustomerLogoURL string               `json:"customer_logo_url,omitempty"`
	BankAccountID   string               `json:"bank_account_id,omitempty"`
	TaxRate         decimal.Decimal      `json:"tax_rate"`
	Notes           string               `json:"notes,omitempty"`
	Template        string               `json:"template,omitempty"` // modern|classic|minimal
	Items           []InvoiceItemRequest `json:"items"`
}

// UpdateInvoiceRequest body para PUT /api/invoices/:id.
// Reemplaza la cabecera y el conjunto COMPLETO de líneas (todo-o-nada).
// Editar no consume cuota.
type UpdateInvoiceRequest struct {
	InvoiceNumber   string               `json:"invoice_number"`
	Date            string               `json:"date"`
	DueDate         string               `json:"due_date"`
	CustomerName    string               `json:"customer_name,omitempty"`
	CustomerEmail   string               `json:"customer_email,omitempty"`
	CustomerAddress string               `json:"customer_address,omitempty"`
	CustomerLogoURL string               `json:"customer_logo_url,omitempty"`
	BankAccountID   string               `json:"bank_account_id,omitempty"`
	TaxRate         decimal.Decimal      `json:"tax_rate"`
	Notes           string               `json:"notes,omitempty"`
	Template        string               `json:"template,omitempty"`
	Items           []InvoiceItemRequest `json:"items"`
}

// UpdateInvoiceStatusRequest body para PATCH /api/invoices/:id/status.
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status"` // draft|sent|paid|overdue|cancelled
}

// InvoiceItemResponse línea en respuestas.
type InvoiceItemResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
}

// InvoiceResponse factura completa en respuestas.
type InvoiceResponse struct {
	ID              string                `json:"id"`
	InvoiceNumber   string                `json:"invoice_number"`
	Date            string                `json:"date"`
	DueDate         string                `json:"due_date"`
	CustomerName    string                `json:"customer_name"`
	CustomerEmail   string                `json:"customer_email,omitempty"`
	CustomerAddress string                `json:"customer_address,omitempty"`
	CustomerLogoURL string                `json:"customer_logo_url,omitempty"`
	BankAccountID   string                `json:"bank_account_id,omitempty"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
	TaxRate         decimal.Decimal       `json:"tax_rate"`
	TaxAmount       decimal.Decimal       `json:"tax_amount"`
	Total           decimal.Decimal       `json:"total"`
	Status          string                `json:"status"`
	Notes           string                `json:"notes,omitempty"`
	Template        string                `json:"template"`
	Items           []InvoiceItemResponse `json:"items"`
	CreatedAt       string                `json:"created_at"`
	UpdatedAt       string                `json:"updated_at"`
}

// InvoiceListItemResponse resumen para el listado (sin líneas).
type InvoiceListItemResponse struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	Date          string          `json:"date"`
	DueDate       string          `json:"due_date"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email,omitempty"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	CreatedAt     string          `json:"created_at"`
}
