package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationErrorResponse cuerpo de error con detalle por campo.
// Fields usa las claves del API: invoice_number, items[0].quantity, etc.
type ValidationErrorResponse struct {
	Code    string            `json:"code"` // siempre "VALIDATION"
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

// QuotaErrorResponse cuerpo de error cuando el plan agotó su cuota de
// facturas. Lleva el detalle para que el frontend pueda proponer el upgrade.
type QuotaErrorResponse struct {
	Code             string `json:"code"` // siempre "LIMIT_REACHED"
	Message          string `json:"message"`
	SubscriptionTier string `json:"subscription_tier"`
	InvoiceCount     int    `json:"invoice_count"`
	InvoiceLimit     int    `json:"invoice_limit"`
}
