package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/facturio/facturio-api/internal/domain"
	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/repository"
)

var _ repository.SubscriberRepository = (*SubscriberRepo)(nil)

// SubscriberRepo implementación de SubscriberRepository (usable con pool o tx).
//
// El contador invoice_count solo se toca desde TryIncrementInvoiceCount: el
// UPDATE condicional es lo que hace seguro el protocolo de cuota frente a
// peticiones concurrentes.
type SubscriberRepo struct {
	q Querier
}

// NewSubscriberRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSubscriberRepository(q Querier) *SubscriberRepo {
	return &SubscriberRepo{q: q}
}

// GetByUserID obtiene el registro de cuota de la cuenta, o nil si no existe.
func (r *SubscriberRepo) GetByUserID(userID string) (*entity.Subscriber, error) {
	query := `
		SELECT user_id, invoice_count, invoice_limit, subscription_tier, subscribed, subscription_end, created_at, updated_at
		FROM subscribers WHERE user_id = $1`
	var s entity.Subscriber
	err := r.q.QueryRow(context.Background(), query, userID).Scan(
		&s.UserID, &s.InvoiceCount, &s.InvoiceLimit, &s.SubscriptionTier,
		&s.Subscribed, &s.SubscriptionEnd, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscriber: %w", err)
	}
	return &s, nil
}

// Create persiste el registro de cuota. Devuelve domain.ErrDuplicate si la
// cuenta ya tiene uno (dos peticiones creándolo a la vez: la perdedora relee).
func (r *SubscriberRepo) Create(s *entity.Subscriber) error {
	query := `
		INSERT INTO subscribers (user_id, invoice_count, invoice_limit, subscription_tier, subscribed, subscription_end, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		s.UserID, s.InvoiceCount, s.InvoiceLimit, s.SubscriptionTier,
		s.Subscribed, s.SubscriptionEnd, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert subscriber: %w", err)
	}
	return nil
}

// TryIncrementInvoiceCount suma 1 al contador solo si sigue valiendo expected
// y el plan lo permite (invoice_limit = -1 es ilimitado). Cero filas afectadas
// significa carrera perdida o límite alcanzado: el caller relee y decide.
func (r *SubscriberRepo) TryIncrementInvoiceCount(userID string, expected int) (bool, error) {
	query := `
		UPDATE subscribers
		SET invoice_count = invoice_count + 1, updated_at = now()
		WHERE user_id = $1
		  AND invoice_count = $2
		  AND (invoice_limit = -1 OR invoice_count < invoice_limit)`
	tag, err := r.q.Exec(context.Background(), query, userID, expected)
	if err != nil {
		return false, fmt.Errorf("increment invoice count: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateSubscription aplica tier, límite y vigencia reflejados desde el
// proveedor de billing. Deliberadamente NO toca invoice_count.
func (r *SubscriberRepo) UpdateSubscription(s *entity.Subscriber) error {
	query := `
		UPDATE subscribers
		SET subscription_tier = $2, invoice_limit = $3, subscribed = $4, subscription_end = $5, updated_at = $6
		WHERE user_id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		s.UserID, s.SubscriptionTier, s.InvoiceLimit, s.Subscribed, s.SubscriptionEnd, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
