package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/facturio/facturio-api/internal/application/billing"
	"github.com/facturio/facturio-api/internal/domain/repository"
)

// Verificar en tiempo de compilación que TxRunner implementa BillingTxRunner.
var _ billing.BillingTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunBilling inicia una transacción, ejecuta fn con los repos de cuota y
// facturas atados a la tx, y hace Commit o Rollback.
//
// Es la pieza que convierte el camino de creación de facturas en atómico: el
// incremento condicional del contador, la cabecera y las líneas entran por la
// misma tx, así que un fallo en cualquiera de los tres revierte también el
// contador. No hace falta decremento compensatorio.
func (r *TxRunner) RunBilling(ctx context.Context, fn func(
	subscriberRepo repository.SubscriberRepository,
	invoiceRepo repository.InvoiceRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	subscriberRepo := NewSubscriberRepository(tx)
	invoiceRepo := NewInvoiceRepository(tx)

	if err := fn(subscriberRepo, invoiceRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
