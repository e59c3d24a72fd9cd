package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/facturio/facturio-api/internal/application/dto"
	"github.com/facturio/facturio-api/internal/domain"
	domInvoice "github.com/facturio/facturio-api/internal/domain/invoice"
)

// respondDomainError mapea los errores del dominio a respuestas HTTP.
//
//	FieldErrors            → 400 con el detalle por campo
//	LimitReachedError      → 402 con tier/contador/límite (el frontend ofrece upgrade)
//	ErrInvalidInput        → 400
//	ErrNotFound            → 404
//	ErrForbidden           → 403
//	ErrDuplicate/Conflict  → 409
//	resto                  → 500 genérico (la causa real ya quedó en el log)
func respondDomainError(c *fiber.Ctx, err error) error {
	var fe domInvoice.FieldErrors
	if errors.As(err, &fe) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ValidationErrorResponse{
			Code:    "VALIDATION",
			Message: "datos inválidos",
			Fields:  fe,
		})
	}
	if lre, ok := domain.IsLimitReached(err); ok {
		return c.Status(fiber.StatusPaymentRequired).JSON(dto.QuotaErrorResponse{
			Code:             "LIMIT_REACHED",
			Message:          "límite de facturas del plan alcanzado",
			SubscriptionTier: lre.Tier,
			InvoiceCount:     lre.Count,
			InvoiceLimit:     lre.Limit,
		})
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "el recurso está en disputa o ya existe"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}
