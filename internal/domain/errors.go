package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// ErrSubscriptionLookup: no se pudo leer el registro de cuota de la cuenta.
	// Terminal para el intento; el caller decide si reintenta.
	ErrSubscriptionLookup = errors.New("no se pudo verificar la suscripción")

	// ErrPersistence: fallo de almacenamiento. El mensaje al usuario es
	// genérico; la causa real va solo al log del servidor.
	ErrPersistence = errors.New("no se pudo guardar")
)

// LimitReachedError indica que la cuenta alcanzó su límite mensual de facturas.
// Lleva nivel, conteo y límite para que el caller pueda sugerir el upgrade.
type LimitReachedError struct {
	Tier  string
	Count int
	Limit int
}

func (e *LimitReachedError) Error() string {
	return fmt.Sprintf("límite mensual de %d facturas alcanzado para el plan %s (actual: %d)", e.Limit, e.Tier, e.Count)
}

// IsLimitReached verifica si err es (o envuelve) un LimitReachedError.
func IsLimitReached(err error) (*LimitReachedError, bool) {
	var lre *LimitReachedError
	if errors.As(err, &lre) {
		return lre, true
	}
	return nil, false
}
