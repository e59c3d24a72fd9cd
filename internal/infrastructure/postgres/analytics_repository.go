package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/facturio/facturio-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard de la cuenta.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// GetInvoiceStats devuelve los contadores del dashboard en una sola consulta.
// Ingresos: suma de totales de facturas no canceladas. Pendientes: enviadas.
// Vencidas: enviadas con due_date pasada (se calcula aquí, no hay job que
// mueva facturas a 'overdue' solo).
// Usa COALESCE para devolver cero si la cuenta no tiene facturas.
func (r *AnalyticsRepo) GetInvoiceStats(
	ctx context.Context,
	userID string,
	now time.Time,
) (*repository.InvoiceStatsResult, error) {
	const query = `
	SELECT
	    COUNT(*)                                                             AS total_invoices,
	    COALESCE(SUM(total) FILTER (WHERE status <> 'cancelled'), 0)         AS total_revenue,
	    COUNT(*) FILTER (WHERE status = 'sent')                              AS pending_invoices,
	    COUNT(*) FILTER (WHERE status = 'sent' AND due_date < $2)            AS overdue_invoices
	FROM invoices
	WHERE user_id = $1`

	var stats repository.InvoiceStatsResult
	err := r.pool.QueryRow(ctx, query, userID, now).Scan(
		&stats.TotalInvoices,
		&stats.TotalRevenue,
		&stats.PendingInvoices,
		&stats.OverdueInvoices,
	)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetInvoiceStats: %w", err)
	}
	return &stats, nil
}

// GetMonthlyRevenue devuelve el ingreso facturado por mes calendario de los
// últimos `months` meses, en orden cronológico ascendente. Los meses sin
// facturas no producen fila; el use case rellena los huecos con cero.
func (r *AnalyticsRepo) GetMonthlyRevenue(
	ctx context.Context,
	userID string,
	months int,
) ([]repository.MonthlyRevenueResult, error) {
	const query = `
	SELECT
	    date_trunc('month', date)                    AS month,
	    COALESCE(SUM(total), 0)                      AS revenue,
	    COUNT(*)                                     AS invoice_count
	FROM invoices
	WHERE user_id = $1
	  AND status <> 'cancelled'
	  AND date >= date_trunc('month', now()) - make_interval(months => $2 - 1)
	GROUP BY 1
	ORDER BY 1`

	rows, err := r.pool.Query(ctx, query, userID, months)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetMonthlyRevenue: %w", err)
	}
	defer rows.Close()

	var results []repository.MonthlyRevenueResult
	for rows.Next() {
		var row repository.MonthlyRevenueResult
		if err := rows.Scan(&row.Month, &row.Revenue, &row.Count); err != nil {
			return nil, fmt.Errorf("analytics.GetMonthlyRevenue scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
