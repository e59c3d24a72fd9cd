package entity

import "time"

// Customer representa un cliente del usuario (CRM ligero).
// Sus campos se copian a la factura al crearla (snapshot desnormalizado).
type Customer struct {
	ID        string
	UserID    string
	Name      string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
