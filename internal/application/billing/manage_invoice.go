package billing

import (
	"context"
	"time"

	"github.com/facturio/facturio-api/internal/application/dto"
	"github.com/facturio/facturio-api/internal/domain"
	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/repository"
)

// GetInvoice obtiene una factura del usuario con sus líneas.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, userID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.ownedInvoice(userID, id)
	if err != nil {
		return nil, err
	}
	items, err := uc.invoiceRepo.GetItemsByInvoiceID(id)
	if err != nil {
		return nil, uc.mapSaveError(err, userID, "leer factura")
	}
	inv.Items = items
	return toInvoiceResponse(inv), nil
}

// ListInvoices lista las facturas del usuario, más recientes primero.
func (uc *InvoiceUseCase) ListInvoices(ctx context.Context, userID string, page dto.PageRequest) ([]*dto.InvoiceListItemResponse, error) {
	page.DefaultPage()
	list, err := uc.invoiceRepo.ListByUser(userID, page.Limit, page.Offset)
	if err != nil {
		return nil, uc.mapSaveError(err, userID, "listar facturas")
	}
	out := make([]*dto.InvoiceListItemResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, &dto.InvoiceListItemResponse{
			ID:            inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			Date:          inv.Date.Format(dateLayout),
			DueDate:       inv.DueDate.Format(dateLayout),
			CustomerName:  inv.CustomerName,
			CustomerEmail: inv.CustomerEmail,
			Total:         inv.Total,
			Status:        inv.Status,
			CreatedAt:     inv.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

// UpdateInvoiceStatus cambia el estado del ciclo de vida de la factura.
// Estados fuera de la enumeración se rechazan.
func (uc *InvoiceUseCase) UpdateInvoiceStatus(ctx context.Context, userID, id, status string) error {
	if !entity.ValidInvoiceStatus(status) {
		return domain.ErrInvalidInput
	}
	if _, err := uc.ownedInvoice(userID, id); err != nil {
		return err
	}
	if err := uc.invoiceRepo.UpdateStatus(id, status, time.Now()); err != nil {
		return uc.mapSaveError(err, userID, "cambiar estado de factura")
	}
	uc.log.Info().Str("user_id", userID).Str("invoice_id", id).Str("status", status).
		Msg("estado de factura actualizado")
	return nil
}

// DeleteInvoice elimina la factura y sus líneas. Solo el dueño puede borrarla.
// Borrar no devuelve cuota: el contador mide creaciones del período.
func (uc *InvoiceUseCase) DeleteInvoice(ctx context.Context, userID, id string) error {
	if _, err := uc.ownedInvoice(userID, id); err != nil {
		return err
	}
	err := uc.txRunner.RunBilling(ctx, func(
		_ repository.SubscriberRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		if err := invoiceRepo.DeleteItemsByInvoiceID(id); err != nil {
			return err
		}
		return invoiceRepo.Delete(id)
	})
	if err != nil {
		return uc.mapSaveError(err, userID, "eliminar factura")
	}
	uc.log.Info().Str("user_id", userID).Str("invoice_id", id).Msg("factura eliminada")
	return nil
}
