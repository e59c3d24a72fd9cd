package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/facturio/facturio-api/internal/domain"
	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/repository"
)

var _ repository.BankAccountRepository = (*BankAccountRepo)(nil)

// BankAccountRepo implementación de BankAccountRepository (usable con pool o tx).
type BankAccountRepo struct {
	q Querier
}

// NewBankAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBankAccountRepository(q Querier) *BankAccountRepo {
	return &BankAccountRepo{q: q}
}

// Create persiste una cuenta bancaria.
func (r *BankAccountRepo) Create(account *entity.BankAccount) error {
	query := `
		INSERT INTO bank_accounts (id, user_id, account_holder, bank_name, iban, bic, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		account.ID, account.UserID, account.AccountHolder, account.BankName,
		account.IBAN, nullIfEmpty(account.BIC),
		account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert bank account: %w", err)
	}
	return nil
}

// GetByID obtiene una cuenta bancaria por ID, o nil si no existe.
func (r *BankAccountRepo) GetByID(id string) (*entity.BankAccount, error) {
	query := `
		SELECT id, user_id, account_holder, bank_name, iban, COALESCE(bic, ''), created_at, updated_at
		FROM bank_accounts WHERE id = $1`
	var a entity.BankAccount
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&a.ID, &a.UserID, &a.AccountHolder, &a.BankName, &a.IBAN, &a.BIC, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bank account: %w", err)
	}
	return &a, nil
}

// ListByUser lista las cuentas bancarias de la cuenta.
func (r *BankAccountRepo) ListByUser(userID string) ([]*entity.BankAccount, error) {
	query := `
		SELECT id, user_id, account_holder, bank_name, iban, COALESCE(bic, ''), created_at, updated_at
		FROM bank_accounts WHERE user_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("list bank accounts: %w", err)
	}
	defer rows.Close()
	var list []*entity.BankAccount
	for rows.Next() {
		var a entity.BankAccount
		if err := rows.Scan(&a.ID, &a.UserID, &a.AccountHolder, &a.BankName, &a.IBAN, &a.BIC, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan bank account: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// Update actualiza una cuenta bancaria.
func (r *BankAccountRepo) Update(account *entity.BankAccount) error {
	query := `
		UPDATE bank_accounts SET account_holder = $2, bank_name = $3, iban = $4, bic = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		account.ID, account.AccountHolder, account.BankName, account.IBAN, nullIfEmpty(account.BIC), account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update bank account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una cuenta bancaria por ID.
func (r *BankAccountRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM bank_accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete bank account: %w", err)
	}
	return nil
}
