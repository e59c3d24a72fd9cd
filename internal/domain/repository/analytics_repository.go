package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatsResult resultado crudo de las consultas del dashboard.
// Lo produce la DB; el use case lo convierte en DTO.
type InvoiceStatsResult struct {
	TotalInvoices   int
	TotalRevenue    decimal.Decimal // suma de totales de facturas no canceladas
	PendingInvoices int             // status = sent
	OverdueInvoices int             // status = sent y due_date < hoy
}

// AnalyticsRepository define las consultas de lectura para el dashboard.
// Las implementaciones son read-only.
type AnalyticsRepository interface {
	// GetInvoiceStats devuelve los contadores del dashboard para la cuenta.
	// Usa COALESCE para devolver cero si no hay facturas.
	GetInvoiceStats(ctx context.Context, userID string, now time.Time) (*InvoiceStatsResult, error)

	// GetMonthlyRevenue devuelve el ingreso facturado por mes de los últimos
	// `months` meses (orden cronológico ascendente).
	GetMonthlyRevenue(ctx context.Context, userID string, months int) ([]MonthlyRevenueResult, error)
}

// MonthlyRevenueResult ingreso facturado de un mes calendario.
type MonthlyRevenueResult struct {
	Month   time.Time // primer día del mes
	Revenue decimal.Decimal
	Count   int
}
