package entity

import "time"

// Niveles de suscripción.
const (
	TierFree      = "Free"
	TierPro       = "Pro"
	TierUnlimited = "Unlimited"
)

// Límites mensuales de facturas por nivel.
// InvoiceLimitUnlimited es el valor centinela para "sin límite".
const (
	FreeInvoiceLimit      = 3
	ProInvoiceLimit       = 20
	InvoiceLimitUnlimited = -1
)

// ValidTier verifica que t sea un nivel de suscripción conocido.
func ValidTier(t string) bool {
	switch t {
	case TierFree, TierPro, TierUnlimited:
		return true
	}
	return false
}

// LimitForTier devuelve el límite mensual de facturas para el nivel dado.
// Niveles desconocidos se tratan como Free.
func LimitForTier(tier string) int {
	switch tier {
	case TierPro:
		return ProInvoiceLimit
	case TierUnlimited:
		return InvoiceLimitUnlimited
	default:
		return FreeInvoiceLimit
	}
}

// Subscriber es el registro de cuota de una cuenta: cuántas facturas lleva
// creadas en el período y cuántas permite su plan.
//
// InvoiceCount solo se muta a través del protocolo de incremento condicional
// del servicio de cuotas (ver application/billing); un UPDATE incondicional
// reintroduce la carrera de dos pestañas simultáneas.
type Subscriber struct {
	UserID           string
	InvoiceCount     int
	InvoiceLimit     int // -1 = ilimitado
	SubscriptionTier string
	Subscribed       bool
	SubscriptionEnd  *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Unlimited indica si la cuenta no tiene límite de facturas.
func (s *Subscriber) Unlimited() bool {
	return s.SubscriptionTier == TierUnlimited || s.InvoiceLimit == InvoiceLimitUnlimited
}

// NewFreeSubscriber crea el registro de cuota por defecto (plan Free) para una
// cuenta que aún no tiene uno.
func NewFreeSubscriber(userID string, now time.Time) *Subscriber {
	return &Subscriber{
		UserID:           userID,
		InvoiceCount:     0,
		InvoiceLimit:     FreeInvoiceLimit,
		SubscriptionTier: TierFree,
		Subscribed:       false,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
