// Package analytics contiene los casos de uso de lectura para el dashboard de
// la cuenta: contadores de facturas e ingresos facturados por mes.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/facturio/facturio-api/internal/application/dto"
	"github.com/facturio/facturio-api/internal/domain/repository"
)

const revenueMonths = 6 // meses de la gráfica de ingresos

// DashboardUseCase genera el resumen de la cuenta para la pantalla principal.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
// No accede directamente a la tabla de facturas; delega todo en el repositorio.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo}
}

// GetSummary construye el DashboardSummaryDTO para la cuenta indicada.
//
// Dos llamadas en paralelo:
//  1. GetInvoiceStats       → contadores y revenue total
//  2. GetMonthlyRevenue(6)  → serie mensual para la gráfica
func (uc *DashboardUseCase) GetSummary(
	ctx context.Context,
	userID string,
) (*dto.DashboardSummaryDTO, error) {
	now := time.Now()

	type statsResult struct {
		stats *repository.InvoiceStatsResult
		err   error
	}
	type revenueResult struct {
		rows []repository.MonthlyRevenueResult
		err  error
	}

	statsCh := make(chan statsResult, 1)
	revenueCh := make(chan revenueResult, 1)

	go func() {
		stats, err := uc.analyticsRepo.GetInvoiceStats(ctx, userID, now)
		statsCh <- statsResult{stats, err}
	}()
	go func() {
		rows, err := uc.analyticsRepo.GetMonthlyRevenue(ctx, userID, revenueMonths)
		revenueCh <- revenueResult{rows, err}
	}()

	stats := <-statsCh
	revenue := <-revenueCh

	if stats.err != nil {
		return nil, fmt.Errorf("dashboard: estadísticas: %w", stats.err)
	}
	if revenue.err != nil {
		return nil, fmt.Errorf("dashboard: ingresos mensuales: %w", revenue.err)
	}

	return &dto.DashboardSummaryDTO{
		TotalInvoices:   stats.stats.TotalInvoices,
		TotalRevenue:    stats.stats.TotalRevenue.Round(2),
		PendingInvoices: stats.stats.PendingInvoices,
		OverdueInvoices: stats.stats.OverdueInvoices,
		MonthlyRevenue:  monthlySeries(revenue.rows, now),
	}, nil
}

// monthlySeries convierte las filas de la DB en la serie de la gráfica,
// rellenando con cero los meses sin facturas para que el frontend siempre
// reciba revenueMonths puntos consecutivos.
func monthlySeries(rows []repository.MonthlyRevenueResult, now time.Time) []dto.MonthlyRevenueDTO {
	byMonth := make(map[string]repository.MonthlyRevenueResult, len(rows))
	for _, row := range rows {
		byMonth[row.Month.Format("2006-01")] = row
	}

	series := make([]dto.MonthlyRevenueDTO, 0, revenueMonths)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -(revenueMonths - 1), 0)
	for i := 0; i < revenueMonths; i++ {
		month := first.AddDate(0, i, 0)
		key := month.Format("2006-01")
		point := dto.MonthlyRevenueDTO{Month: key}
		if row, ok := byMonth[key]; ok {
			point.Revenue = row.Revenue.Round(2)
			point.Count = row.Count
		}
		series = append(series, point)
	}
	return series
}
