package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/facturio/facturio-api/internal/application/analytics"
)

// DashboardHandler sirve el resumen de facturación del usuario (protegido).
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Summary devuelve contadores, revenue total y la serie mensual.
// GET /api/dashboard
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	userID := GetUserID(c)
	summary, err := h.uc.GetSummary(c.UserContext(), userID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(summary)
}
