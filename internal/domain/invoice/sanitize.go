package invoice

import (
	"regexp"
	"strings"

	"github.com/facturio/facturio-api/internal/domain/entity"
)

// Lista negra de patrones XSS en texto libre. Es defensa en profundidad antes
// de persistir; no sustituye el escape de salida al renderizar.
var (
	angleBracketsRe = regexp.MustCompile(`[<>]`)
	jsProtocolRe    = regexp.MustCompile(`(?i)javascript:`)
	eventHandlerRe  = regexp.MustCompile(`(?i)on\w+=`)
)

// SanitizeText limpia un campo de texto libre: recorta espacios y elimina
// ángulos, prefijos javascript: y atributos tipo onload=/onclick=.
func SanitizeText(s string) string {
	s = strings.TrimSpace(s)
	s = angleBracketsRe.ReplaceAllString(s, "")
	s = jsProtocolRe.ReplaceAllString(s, "")
	s = eventHandlerRe.ReplaceAllString(s, "")
	return s
}

// SanitizeInvoice aplica SanitizeText a todos los campos de texto libre de la
// factura y sus líneas, en sitio. Se invoca antes de validar y persistir.
func SanitizeInvoice(inv *entity.Invoice) {
	inv.InvoiceNumber = SanitizeText(inv.InvoiceNumber)
	inv.CustomerName = SanitizeText(inv.CustomerName)
	inv.CustomerEmail = SanitizeText(inv.CustomerEmail)
	inv.CustomerAddress = SanitizeText(inv.CustomerAddress)
	inv.Notes = SanitizeText(inv.Notes)
	for _, item := range inv.Items {
		item.Description = SanitizeText(item.Description)
	}
}
