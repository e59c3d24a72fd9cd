package repository

import "github.com/facturio/facturio-api/internal/domain/entity"

// BankAccountRepository define el puerto de persistencia para BankAccount.
type BankAccountRepository interface {
	Create(account *entity.BankAccount) error
	GetByID(id string) (*entity.BankAccount, error)
	ListByUser(userID string) ([]*entity.BankAccount, error)
	Update(account *entity.BankAccount) error
	Delete(id string) error
}
