package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/facturio/facturio-api/internal/application/billing"
	"github.com/facturio/facturio-api/internal/application/dto"
)

// SubscriptionHandler expone el estado del plan del usuario (protegido).
type SubscriptionHandler struct {
	uc *billing.SubscriptionUseCase
}

// NewSubscriptionHandler construye el handler.
func NewSubscriptionHandler(uc *billing.SubscriptionUseCase) *SubscriptionHandler {
	return &SubscriptionHandler{uc: uc}
}

// Get devuelve el plan, el contador y el límite del usuario actual.
// Si el usuario aún no tiene registro se crea uno en el plan gratuito.
// GET /api/subscription
func (h *SubscriptionHandler) Get(c *fiber.Ctx) error {
	userID := GetUserID(c)
	sub, err := h.uc.GetSubscription(userID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(sub)
}

// Sync actualiza el plan del usuario tras un evento de pago.
// El contador de facturas nunca se modifica por esta vía.
// POST /api/subscription/sync
func (h *SubscriptionHandler) Sync(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.SyncSubscriptionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	sub, err := h.uc.SyncSubscription(userID, in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(sub)
}
