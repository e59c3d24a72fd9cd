package dto

// SubscriptionResponse estado de la suscripción y la cuota de la cuenta.
// invoice_limit = -1 significa ilimitado.
type SubscriptionResponse struct {
	Subscribed       bool   `json:"subscribed"`
	SubscriptionTier string `json:"subscription_tier"` // Free|Pro|Unlimited
	SubscriptionEnd  string `json:"subscription_end,omitempty"`
	InvoiceLimit     int    `json:"invoice_limit"`
	InvoiceCount     int    `json:"invoice_count"`
}

// SyncSubscriptionRequest body para POST /api/subscription/sync.
// Refleja localmente el estado que el proveedor de billing externo reporta;
// el checkout en sí no pasa por esta API.
type SyncSubscriptionRequest struct {
	SubscriptionTier string `json:"subscription_tier"` // Free|Pro|Unlimited
	Subscribed       bool   `json:"subscribed"`
	SubscriptionEnd  string `json:"subscription_end,omitempty"` // RFC 3339; vacío = sin vigencia
}
