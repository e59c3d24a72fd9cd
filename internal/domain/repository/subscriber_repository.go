package repository

import "github.com/facturio/facturio-api/internal/domain/entity"

// SubscriberRepository define el puerto de persistencia para el registro de
// cuota de cada cuenta.
//
// El contador invoice_count solo se muta vía TryIncrementInvoiceCount
// (compare-and-swap). Un UPDATE incondicional permitiría que dos peticiones
// concurrentes leyeran count < limit y ambas crearan factura superando el
// límite.
type SubscriberRepository interface {
	GetByUserID(userID string) (*entity.Subscriber, error)
	Create(s *entity.Subscriber) error
	// TryIncrementInvoiceCount suma 1 al contador solo si su valor actual
	// sigue siendo expected y el límite lo permite. Devuelve false (sin error)
	// cuando ninguna fila coincidió: carrera perdida o límite alcanzado; el
	// caller relee el contador y decide.
	TryIncrementInvoiceCount(userID string, expected int) (bool, error)
	// UpdateSubscription aplica tier/límite/vigencia reflejados desde el
	// proveedor de billing externo. No toca invoice_count.
	UpdateSubscription(s *entity.Subscriber) error
}
