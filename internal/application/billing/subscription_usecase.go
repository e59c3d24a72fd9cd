package billing

import (
	"fmt"
	"time"

	"github.com/facturio/facturio-api/internal/application/dto"
	"github.com/facturio/facturio-api/internal/domain"
	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/repository"
	"github.com/facturio/facturio-api/pkg/logger"
)

// SubscriptionUseCase consulta y sincroniza el registro de cuota de la cuenta.
//
// El checkout y el cobro viven en el proveedor de billing externo; aquí solo
// se refleja localmente el nivel/límite que ese proveedor reporta. El contador
// invoice_count jamás se toca por este camino.
type SubscriptionUseCase struct {
	subscriberRepo repository.SubscriberRepository
	log            *logger.Logger
}

// NewSubscriptionUseCase construye el caso de uso.
func NewSubscriptionUseCase(subscriberRepo repository.SubscriberRepository, log *logger.Logger) *SubscriptionUseCase {
	return &SubscriptionUseCase{subscriberRepo: subscriberRepo, log: log}
}

// GetSubscription devuelve el estado de suscripción y cuota. Crea el registro
// con el plan Free en la primera consulta de una cuenta nueva.
func (uc *SubscriptionUseCase) GetSubscription(userID string) (*dto.SubscriptionResponse, error) {
	sub, err := uc.subscriberRepo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSubscriptionLookup, err)
	}
	if sub == nil {
		sub = entity.NewFreeSubscriber(userID, time.Now())
		if err := uc.subscriberRepo.Create(sub); err != nil && err != domain.ErrDuplicate {
			return nil, fmt.Errorf("%w: %v", domain.ErrSubscriptionLookup, err)
		}
	}
	return toSubscriptionResponse(sub), nil
}

// SyncSubscription aplica el nivel reportado por el proveedor de billing.
// Un upgrade sube invoice_limit, con lo que una cuenta que agotó su cuota
// vuelve a poder facturar sin tocar el contador.
func (uc *SubscriptionUseCase) SyncSubscription(userID string, in dto.SyncSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	if !entity.ValidTier(in.SubscriptionTier) {
		return nil, domain.ErrInvalidInput
	}
	var end *time.Time
	if in.SubscriptionEnd != "" {
		t, err := time.Parse(time.RFC3339, in.SubscriptionEnd)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		end = &t
	}

	sub, err := uc.subscriberRepo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSubscriptionLookup, err)
	}
	if sub == nil {
		sub = entity.NewFreeSubscriber(userID, time.Now())
		if err := uc.subscriberRepo.Create(sub); err != nil && err != domain.ErrDuplicate {
			return nil, fmt.Errorf("%w: %v", domain.ErrSubscriptionLookup, err)
		}
	}

	sub.SubscriptionTier = in.SubscriptionTier
	sub.InvoiceLimit = entity.LimitForTier(in.SubscriptionTier)
	sub.Subscribed = in.Subscribed
	sub.SubscriptionEnd = end
	sub.UpdatedAt = time.Now()

	if err := uc.subscriberRepo.UpdateSubscription(sub); err != nil {
		uc.log.Error().Err(err).Str("user_id", userID).Msg("sincronizar suscripción")
		return nil, fmt.Errorf("sincronizar suscripción: %w", domain.ErrPersistence)
	}

	uc.log.Info().Str("user_id", userID).Str("tier", sub.SubscriptionTier).
		Int("invoice_limit", sub.InvoiceLimit).Msg("suscripción sincronizada")
	return toSubscriptionResponse(sub), nil
}

func toSubscriptionResponse(sub *entity.Subscriber) *dto.SubscriptionResponse {
	resp := &dto.SubscriptionResponse{
		Subscribed:       sub.Subscribed,
		SubscriptionTier: sub.SubscriptionTier,
		InvoiceLimit:     sub.InvoiceLimit,
		InvoiceCount:     sub.InvoiceCount,
	}
	if sub.SubscriptionEnd != nil {
		resp.SubscriptionEnd = sub.SubscriptionEnd.Format(time.RFC3339)
	}
	return resp
}
