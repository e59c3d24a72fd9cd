package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO métricas del dashboard de la cuenta.
type DashboardSummaryDTO struct {
	TotalInvoices   int                 `json:"total_invoices"`
	TotalRevenue    decimal.Decimal     `json:"total_revenue"`
	PendingInvoices int                 `json:"pending_invoices"`
	OverdueInvoices int                 `json:"overdue_invoices"`
	MonthlyRevenue  []MonthlyRevenueDTO `json:"monthly_revenue"`
}

// MonthlyRevenueDTO ingreso facturado de un mes (para la gráfica de ingresos).
type MonthlyRevenueDTO struct {
	Month   string          `json:"month"` // YYYY-MM
	Revenue decimal.Decimal `json:"revenue"`
	Count   int             `json:"count"`
}
