package entity

import "time"

// BankAccount representa una cuenta bancaria del usuario que puede imprimirse
// en la factura como datos de pago.
type BankAccount struct {
	ID            string
	UserID        string
	AccountHolder string
	BankName      string
	IBAN          string
	BIC           string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
