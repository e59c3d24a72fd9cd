package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/facturio/facturio-api/internal/application/billing"
	"github.com/facturio/facturio-api/internal/application/dto"
)

// BankAccountHandler maneja las peticiones HTTP de cuentas bancarias (protegido).
type BankAccountHandler struct {
	uc *billing.BankAccountUseCase
}

// NewBankAccountHandler construye el handler.
func NewBankAccountHandler(uc *billing.BankAccountUseCase) *BankAccountHandler {
	return &BankAccountHandler{uc: uc}
}

// Create registra una cuenta bancaria.
// POST /api/bank-accounts
func (h *BankAccountHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.BankAccountRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	account, err := h.uc.Create(userID, in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(account)
}

// List lista las cuentas bancarias del usuario.
// GET /api/bank-accounts
func (h *BankAccountHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	list, err := h.uc.List(userID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(list)
}

// Update actualiza una cuenta bancaria.
// PUT /api/bank-accounts/:id
func (h *BankAccountHandler) Update(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.BankAccountRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	account, err := h.uc.Update(userID, c.Params("id"), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(account)
}

// Delete elimina una cuenta bancaria.
// DELETE /api/bank-accounts/:id
func (h *BankAccountHandler) Delete(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if err := h.uc.Delete(userID, c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
