package billing

import (
	"context"

	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción que incluye
// los repositorios de cuota y facturas.
//
// El incremento del contador de cuota, la cabecera y las líneas se escriben
// en la MISMA transacción: si cualquier paso falla, el rollback restaura
// también el contador. Así no hace falta un decremento compensatorio aparte
// (que bajo una segunda falla concurrente podría descontar de menos).
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		subscriberRepo repository.SubscriberRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}

// InvoicePDFGenerator genera la representación gráfica de una factura.
// bank puede ser nil si la factura no referencia cuenta bancaria.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice, bank *entity.BankAccount) ([]byte, error)
}
