package billing

import (
	"time"

	"github.com/google/uuid"

	"github.com/facturio/facturio-api/internal/application/dto"
	"github.com/facturio/facturio-api/internal/domain"
	"github.com/facturio/facturio-api/internal/domain/entity"
	domInvoice "github.com/facturio/facturio-api/internal/domain/invoice"
	"github.com/facturio/facturio-api/internal/domain/repository"
)

// CustomerUseCase casos de uso para clientes (CRM ligero).
// Los campos de texto libre pasan por el mismo saneamiento que las facturas.
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create crea un nuevo cliente del usuario.
func (uc *CustomerUseCase) Create(userID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	name := domInvoice.SanitizeText(in.Name)
	if name == "" || len(name) > domInvoice.MaxCustomerNameLen {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		Email:     domInvoice.SanitizeText(in.Email),
		Phone:     domInvoice.SanitizeText(in.Phone),
		Address:   domInvoice.SanitizeText(in.Address),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// List lista los clientes del usuario.
func (uc *CustomerUseCase) List(userID string, page dto.PageRequest) ([]*dto.CustomerResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByUser(userID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCustomerResponse(c))
	}
	return out, nil
}

// Get obtiene un cliente del usuario.
func (uc *CustomerUseCase) Get(userID, id string) (*dto.CustomerResponse, error) {
	customer, err := uc.owned(userID, id)
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// Update actualiza los datos del cliente. No afecta facturas ya emitidas:
// estas llevan su propio snapshot.
func (uc *CustomerUseCase) Update(userID, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := uc.owned(userID, id)
	if err != nil {
		return nil, err
	}
	name := domInvoice.SanitizeText(in.Name)
	if name == "" || len(name) > domInvoice.MaxCustomerNameLen {
		return nil, domain.ErrInvalidInput
	}
	customer.Name = name
	customer.Email = domInvoice.SanitizeText(in.Email)
	customer.Phone = domInvoice.SanitizeText(in.Phone)
	customer.Address = domInvoice.SanitizeText(in.Address)
	customer.UpdatedAt = time.Now()
	if err := uc.repo.Update(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// Delete elimina un cliente del usuario.
func (uc *CustomerUseCase) Delete(userID, id string) error {
	if _, err := uc.owned(userID, id); err != nil {
		return err
	}
	return uc.repo.Delete(id)
}

func (uc *CustomerUseCase) owned(userID, id string) (*entity.Customer, error) {
	customer, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return customer, nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:      c.ID,
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Address: c.Address,
	}
}
