package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/facturio/facturio-api/internal/application/dto"
	"github.com/facturio/facturio-api/internal/domain"
	"github.com/facturio/facturio-api/internal/domain/entity"
	domInvoice "github.com/facturio/facturio-api/internal/domain/invoice"
	"github.com/facturio/facturio-api/internal/domain/repository"
	"github.com/facturio/facturio-api/pkg/logger"
)

const dateLayout = "2006-01-02"

// InvoiceUseCase coordina la creación y edición de facturas: saneamiento,
// recálculo monetario, validación, admisión de cuota y persistencia atómica.
type InvoiceUseCase struct {
	txRunner     BillingTxRunner
	quota        *QuotaService
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	bankRepo     repository.BankAccountRepository
	log          *logger.Logger
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner BillingTxRunner,
	quota *QuotaService,
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	bankRepo repository.BankAccountRepository,
	log *logger.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:     txRunner,
		quota:        quota,
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		bankRepo:     bankRepo,
		log:          log,
	}
}

// CreateInvoice crea una factura para la cuenta.
//
// Orden del camino de creación (dentro de UNA transacción):
//
//	admisión de cuota (CAS sobre el contador) → cabecera → líneas en batch
//
// Cualquier fallo posterior al incremento revierte la transacción completa,
// contador incluido. La cuota se verifica fresca en CADA intento, nunca con
// un valor leído al abrir el editor.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, userID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, err := uc.buildInvoice(userID, in)
	if err != nil {
		return nil, err
	}

	// Snapshot del cliente CRM si la petición lo referencia.
	if in.CustomerID != "" {
		customer, err := uc.customerRepo.GetByID(in.CustomerID)
		if err != nil || customer == nil {
			return nil, domain.ErrNotFound
		}
		if customer.UserID != userID {
			return nil, domain.ErrForbidden
		}
		inv.CustomerName = customer.Name
		inv.CustomerEmail = customer.Email
		inv.CustomerAddress = customer.Address
	}

	if err := uc.prepare(inv, userID); err != nil {
		return nil, err
	}

	now := time.Now()
	inv.ID = uuid.New().String()
	inv.Status = entity.InvoiceStatusDraft
	inv.CreatedAt = now
	inv.UpdatedAt = now
	for _, item := range inv.Items {
		item.ID = uuid.New().String()
		item.InvoiceID = inv.ID
	}

	err = uc.txRunner.RunBilling(ctx, func(
		subscriberRepo repository.SubscriberRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		// 1) Admisión: lectura fresca + incremento condicional del contador.
		if err := uc.quota.Admit(subscriberRepo, userID); err != nil {
			return err
		}
		// 2) Cabecera antes que líneas: una cabecera sin líneas es un borrador
		// válido; líneas sin cabecera no existen para ningún lector.
		if err := invoiceRepo.Create(inv); err != nil {
			return err
		}
		// 3) Todas las líneas en un solo batch.
		return invoiceRepo.CreateItems(inv.ID, inv.Items)
	})
	if err != nil {
		return nil, uc.mapSaveError(err, userID, "crear factura")
	}

	uc.log.Info().Str("user_id", userID).Str("invoice_id", inv.ID).
		Str("invoice_number", inv.InvoiceNumber).Msg("factura creada")
	return toInvoiceResponse(inv), nil
}

// UpdateInvoice reemplaza la cabecera y el conjunto completo de líneas de una
// factura existente. Editar no consume cuota, pero el reemplazo de líneas es
// todo-o-nada: borrar las existentes e insertar las nuevas ocurre en la misma
// transacción, nunca como diff parcial.
func (uc *InvoiceUseCase) UpdateInvoice(ctx context.Context, userID, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	existing, err := uc.ownedInvoice(userID, id)
	if err != nil {
		return nil, err
	}

	inv, err := uc.buildInvoice(userID, dto.CreateInvoiceRequest{
		InvoiceNumber:   in.InvoiceNumber,
		Date:            in.Date,
		DueDate:         in.DueDate,
		CustomerName:    in.CustomerName,
		CustomerEmail:   in.CustomerEmail,
		CustomerAddress: in.CustomerAddress,
		CustomerLogoURL: in.CustomerLogoURL,
		BankAccountID:   in.BankAccountID,
		TaxRate:         in.TaxRate,
		Notes:           in.Notes,
		Template:        in.Template,
		Items:           in.Items,
	})
	if err != nil {
		return nil, err
	}
	if err := uc.prepare(inv, userID); err != nil {
		return nil, err
	}

	inv.ID = existing.ID
	inv.Status = existing.Status
	inv.CreatedAt = existing.CreatedAt
	inv.UpdatedAt = time.Now()
	for _, item := range inv.Items {
		item.ID = uuid.New().String()
		item.InvoiceID = inv.ID
	}

	err = uc.txRunner.RunBilling(ctx, func(
		_ repository.SubscriberRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		if err := invoiceRepo.Update(inv); err != nil {
			return err
		}
		if err := invoiceRepo.DeleteItemsByInvoiceID(inv.ID); err != nil {
			return err
		}
		return invoiceRepo.CreateItems(inv.ID, inv.Items)
	})
	if err != nil {
		return nil, uc.mapSaveError(err, userID, "actualizar factura")
	}

	uc.log.Info().Str("user_id", userID).Str("invoice_id", inv.ID).Msg("factura actualizada")
	return toInvoiceResponse(inv), nil
}

// buildInvoice convierte el DTO en entidad, parseando fechas y copiando líneas.
// Los campos derivados quedan en cero hasta prepare().
func (uc *InvoiceUseCase) buildInvoice(userID string, in dto.CreateInvoiceRequest) (*entity.Invoice, error) {
	fe := domInvoice.FieldErrors{}
	date, err := time.Parse(dateLayout, in.Date)
	if err != nil {
		fe.Add("date", "formato de fecha inválido (YYYY-MM-DD)")
	}
	dueDate, err := time.Parse(dateLayout, in.DueDate)
	if err != nil {
		fe.Add("due_date", "formato de fecha inválido (YYYY-MM-DD)")
	}
	if !fe.Valid() {
		return nil, fe
	}

	template := in.Template
	if template == "" {
		template = entity.TemplateModern
	}

	inv := &entity.Invoice{
		UserID:          userID,
		InvoiceNumber:   in.InvoiceNumber,
		Date:            date,
		DueDate:         dueDate,
		CustomerName:    in.CustomerName,
		CustomerEmail:   in.CustomerEmail,
		CustomerAddress: in.CustomerAddress,
		CustomerLogoURL: in.CustomerLogoURL,
		BankAccountID:   in.BankAccountID,
		TaxRate:         in.TaxRate,
		Notes:           in.Notes,
		Template:        template,
	}
	for _, item := range in.Items {
		inv.Items = append(inv.Items, &entity.InvoiceItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}
	return inv, nil
}

// prepare sanea, recalcula los campos derivados y valida. También verifica
// que la cuenta bancaria referenciada exista y pertenezca al usuario.
func (uc *InvoiceUseCase) prepare(inv *entity.Invoice, userID string) error {
	domInvoice.SanitizeInvoice(inv)
	domInvoice.Recalculate(inv)

	if fe := domInvoice.ValidateInvoice(inv); !fe.Valid() {
		return fe
	}

	if inv.BankAccountID != "" {
		bank, err := uc.bankRepo.GetByID(inv.BankAccountID)
		if err != nil || bank == nil {
			return domain.ErrNotFound
		}
		if bank.UserID != userID {
			return domain.ErrForbidden
		}
	}
	return nil
}

// mapSaveError deja pasar los rechazos bien definidos (cuota, validación,
// ownership) y degrada el resto a un error genérico de guardado, registrando
// la causa real solo en el log del servidor.
func (uc *InvoiceUseCase) mapSaveError(err error, userID, op string) error {
	if _, ok := domain.IsLimitReached(err); ok {
		return err
	}
	for _, known := range []error{domain.ErrNotFound, domain.ErrForbidden, domain.ErrSubscriptionLookup, domain.ErrConflict} {
		if errors.Is(err, known) {
			return err
		}
	}
	uc.log.Error().Err(err).Str("user_id", userID).Msg(op)
	return fmt.Errorf("%s: %w", op, domain.ErrPersistence)
}

// ownedInvoice carga la factura y verifica que pertenezca al usuario.
func (uc *InvoiceUseCase) ownedInvoice(userID, id string) (*entity.Invoice, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return inv, nil
}

func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:              inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		Date:            inv.Date.Format(dateLayout),
		DueDate:         inv.DueDate.Format(dateLayout),
		CustomerName:    inv.CustomerName,
		CustomerEmail:   inv.CustomerEmail,
		CustomerAddress: inv.CustomerAddress,
		CustomerLogoURL: inv.CustomerLogoURL,
		BankAccountID:   inv.BankAccountID,
		Subtotal:        inv.Subtotal,
		TaxRate:         inv.TaxRate,
		TaxAmount:       inv.TaxAmount,
		Total:           inv.Total,
		Status:          inv.Status,
		Notes:           inv.Notes,
		Template:        inv.Template,
		Items:           make([]dto.InvoiceItemResponse, 0, len(inv.Items)),
		CreatedAt:       inv.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       inv.UpdatedAt.Format(time.RFC3339),
	}
	for _, item := range inv.Items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Total:       item.Total,
		})
	}
	return resp
}
