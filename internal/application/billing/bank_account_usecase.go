package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/facturio/facturio-api/internal/application/dto"
	"github.com/facturio/facturio-api/internal/domain"
	"github.com/facturio/facturio-api/internal/domain/entity"
	domInvoice "github.com/facturio/facturio-api/internal/domain/invoice"
	"github.com/facturio/facturio-api/internal/domain/repository"
)

// BankAccountUseCase casos de uso para cuentas bancarias del usuario
// (datos de pago que se imprimen en la factura).
type BankAccountUseCase struct {
	repo repository.BankAccountRepository
}

// NewBankAccountUseCase construye el caso de uso.
func NewBankAccountUseCase(repo repository.BankAccountRepository) *BankAccountUseCase {
	return &BankAccountUseCase{repo: repo}
}

// Create registra una cuenta bancaria.
func (uc *BankAccountUseCase) Create(userID string, in dto.BankAccountRequest) (*dto.BankAccountResponse, error) {
	account, err := buildBankAccount(userID, in)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	account.ID = uuid.New().String()
	account.CreatedAt = now
	account.UpdatedAt = now
	if err := uc.repo.Create(account); err != nil {
		return nil, err
	}
	return toBankAccountResponse(account), nil
}

// List lista las cuentas bancarias del usuario.
func (uc *BankAccountUseCase) List(userID string) ([]*dto.BankAccountResponse, error) {
	list, err := uc.repo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.BankAccountResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toBankAccountResponse(a))
	}
	return out, nil
}

// Update actualiza una cuenta bancaria del usuario.
func (uc *BankAccountUseCase) Update(userID, id string, in dto.BankAccountRequest) (*dto.BankAccountResponse, error) {
	existing, err := uc.owned(userID, id)
	if err != nil {
		return nil, err
	}
	updated, err := buildBankAccount(userID, in)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()
	if err := uc.repo.Update(updated); err != nil {
		return nil, err
	}
	return toBankAccountResponse(updated), nil
}

// Delete elimina una cuenta bancaria del usuario. Las facturas que la
// referencian conservan el ID; el PDF simplemente omite los datos de pago.
func (uc *BankAccountUseCase) Delete(userID, id string) error {
	if _, err := uc.owned(userID, id); err != nil {
		return err
	}
	return uc.repo.Delete(id)
}

func (uc *BankAccountUseCase) owned(userID, id string) (*entity.BankAccount, error) {
	account, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrNotFound
	}
	if account.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return account, nil
}

func buildBankAccount(userID string, in dto.BankAccountRequest) (*entity.BankAccount, error) {
	holder := domInvoice.SanitizeText(in.AccountHolder)
	bankName := domInvoice.SanitizeText(in.BankName)
	iban := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(in.IBAN), " ", ""))
	if holder == "" || bankName == "" || iban == "" {
		return nil, domain.ErrInvalidInput
	}
	return &entity.BankAccount{
		UserID:        userID,
		AccountHolder: holder,
		BankName:      bankName,
		IBAN:          iban,
		BIC:           strings.ToUpper(strings.TrimSpace(in.BIC)),
	}, nil
}

func toBankAccountResponse(a *entity.BankAccount) *dto.BankAccountResponse {
	return &dto.BankAccountResponse{
		ID:            a.ID,
		AccountHolder: a.AccountHolder,
		BankName:      a.BankName,
		IBAN:          a.IBAN,
		BIC:           a.BIC,
	}
}
