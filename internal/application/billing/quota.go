package billing

import (
	"fmt"
	"time"

	"github.com/facturio/facturio-api/internal/domain"
	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/repository"
	"github.com/facturio/facturio-api/pkg/logger"
)

// quotaAdmitAttempts: lectura fresca + CAS, con un único reintento silencioso
// si otro proceso movió el contador entre la lectura y el UPDATE condicional.
const quotaAdmitAttempts = 2

// QuotaService decide si una cuenta puede crear una factura más este período.
//
// Protocolo por intento:
//
//  1. Leer (invoice_count, invoice_limit) — SIEMPRE fresco, nunca cacheado,
//     porque el plan puede cambiar entre abrir el editor y enviar.
//  2. Si el nivel es Unlimited, admitir sin tocar el contador.
//  3. Si count >= limit, rechazar con LimitReachedError.
//  4. Incremento condicional: +1 solo si el contador sigue valiendo lo leído.
//     Cero filas afectadas = otra petición ganó la carrera; se relee y se
//     reintenta una vez. Dos carreras perdidas rechazan el intento.
//
// Admit debe invocarse con el SubscriberRepository atado a la transacción de
// creación de la factura, para que un fallo posterior (cabecera o líneas)
// revierta también el incremento.
type QuotaService struct {
	log *logger.Logger
}

// NewQuotaService construye el servicio.
func NewQuotaService(log *logger.Logger) *QuotaService {
	return &QuotaService{log: log}
}

// Admit admite o rechaza la creación de una factura para la cuenta.
// Crea el registro de cuota con valores Free si la cuenta no tiene uno.
// Errores posibles: *domain.LimitReachedError, domain.ErrSubscriptionLookup
// (envuelto), domain.ErrConflict si se pierden todas las carreras.
func (s *QuotaService) Admit(subs repository.SubscriberRepository, userID string) error {
	for attempt := 0; attempt < quotaAdmitAttempts; attempt++ {
		sub, err := s.getOrCreate(subs, userID)
		if err != nil {
			return err
		}

		if sub.Unlimited() {
			return nil
		}
		if sub.InvoiceCount >= sub.InvoiceLimit {
			return &domain.LimitReachedError{
				Tier:  sub.SubscriptionTier,
				Count: sub.InvoiceCount,
				Limit: sub.InvoiceLimit,
			}
		}

		ok, err := subs.TryIncrementInvoiceCount(userID, sub.InvoiceCount)
		if err != nil {
			return fmt.Errorf("%w: incremento de contador: %v", domain.ErrSubscriptionLookup, err)
		}
		if ok {
			return nil
		}
		// Carrera perdida: otra petición avanzó el contador. El siguiente
		// ciclo relee el valor fresco y decide de nuevo.
		s.log.Debug().Str("user_id", userID).Int("attempt", attempt+1).
			Msg("cuota: incremento condicional sin efecto, releyendo contador")
	}
	return fmt.Errorf("%w: contador de cuota en disputa", domain.ErrConflict)
}

// getOrCreate lee el registro de cuota y lo crea con el plan Free por defecto
// si no existe todavía. Si dos peticiones lo crean a la vez, la perdedora
// relee el registro ganador.
func (s *QuotaService) getOrCreate(subs repository.SubscriberRepository, userID string) (*entity.Subscriber, error) {
	sub, err := subs.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSubscriptionLookup, err)
	}
	if sub != nil {
		return sub, nil
	}

	sub = entity.NewFreeSubscriber(userID, time.Now())
	if err := subs.Create(sub); err != nil {
		if err == domain.ErrDuplicate {
			sub, err = subs.GetByUserID(userID)
			if err != nil || sub == nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrSubscriptionLookup, err)
			}
			return sub, nil
		}
		return nil, fmt.Errorf("%w: crear registro de cuota: %v", domain.ErrSubscriptionLookup, err)
	}
	s.log.Info().Str("user_id", userID).Str("tier", entity.TierFree).
		Msg("registro de cuota creado con valores por defecto")
	return sub, nil
}
