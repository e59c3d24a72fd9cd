package repository

import "github.com/facturio/facturio-api/internal/domain/entity"

// CustomerRepository define el puerto de persistencia para Customer (CRM).
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	ListByUser(userID string, limit, offset int) ([]*entity.Customer, error)
	Update(customer *entity.Customer) error
	Delete(id string) error
}
