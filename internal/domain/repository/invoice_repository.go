package repository

import (
	"time"

	"github.com/facturio/facturio-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
//
// Las líneas pertenecen en exclusiva a su factura: el reemplazo del conjunto
// de líneas es todo-o-nada (DeleteItemsByInvoiceID + CreateItems dentro de la
// misma transacción), nunca un diff parcial.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	// CreateItems inserta todas las líneas en un solo batch.
	CreateItems(invoiceID string, items []*entity.InvoiceItem) error
	Update(invoice *entity.Invoice) error
	UpdateStatus(id, status string, updatedAt time.Time) error
	DeleteItemsByInvoiceID(invoiceID string) error
	Delete(id string) error
	GetByID(id string) (*entity.Invoice, error)
	GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error)
	ListByUser(userID string, limit, offset int) ([]*entity.Invoice, error)
}
