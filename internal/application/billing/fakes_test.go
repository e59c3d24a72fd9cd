package billing_test

import (
	"context"
	"sync"
	"time"

	"github.com/facturio/facturio-api/internal/domain"
	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/repository"
	"github.com/facturio/facturio-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de prueba en memoria.
//
// fakeSubscriberRepo reproduce la semántica del UPDATE condicional de
// PostgreSQL bajo un mutex: el compare-and-swap solo avanza el contador si el
// valor actual coincide con el esperado y el límite lo permite.
//
// fakeTxRunner reproduce la atomicidad de la transacción: toma un snapshot del
// estado antes de ejecutar el callback y lo restaura si este retorna error.
// ──────────────────────────────────────────────────────────────────────────────

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "development", Level: "error"})
}

type fakeSubscriberRepo struct {
	mu     sync.Mutex
	subs   map[string]*entity.Subscriber
	getErr error
}

func newFakeSubscriberRepo() *fakeSubscriberRepo {
	return &fakeSubscriberRepo{subs: make(map[string]*entity.Subscriber)}
}

func (r *fakeSubscriberRepo) put(s *entity.Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.subs[s.UserID] = &cp
}

func (r *fakeSubscriberRepo) count(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s := r.subs[userID]; s != nil {
		return s.InvoiceCount
	}
	return -1
}

func (r *fakeSubscriberRepo) GetByUserID(userID string) (*entity.Subscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	s, ok := r.subs[userID]
	if !ok {
		return nil, nil
	}
	cp := *s // copia: el caller ve la fila leída, no el estado vivo
	return &cp, nil
}

func (r *fakeSubscriberRepo) Create(s *entity.Subscriber) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.subs[s.UserID]; exists {
		return domain.ErrDuplicate
	}
	cp := *s
	r.subs[s.UserID] = &cp
	return nil
}

func (r *fakeSubscriberRepo) TryIncrementInvoiceCount(userID string, expected int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subs[userID]
	if !ok {
		return false, nil
	}
	if s.InvoiceCount != expected {
		return false, nil // carrera perdida
	}
	if s.InvoiceLimit != entity.InvoiceLimitUnlimited && s.InvoiceCount >= s.InvoiceLimit {
		return false, nil
	}
	s.InvoiceCount++
	s.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakeSubscriberRepo) UpdateSubscription(s *entity.Subscriber) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.subs[s.UserID]
	if !ok {
		return domain.ErrNotFound
	}
	existing.SubscriptionTier = s.SubscriptionTier
	existing.InvoiceLimit = s.InvoiceLimit
	existing.Subscribed = s.Subscribed
	existing.SubscriptionEnd = s.SubscriptionEnd
	existing.UpdatedAt = s.UpdatedAt
	return nil
}

func (r *fakeSubscriberRepo) snapshot() map[string]entity.Subscriber {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make(map[string]entity.Subscriber, len(r.subs))
	for k, v := range r.subs {
		snap[k] = *v
	}
	return snap
}

func (r *fakeSubscriberRepo) restore(snap map[string]entity.Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = make(map[string]*entity.Subscriber, len(snap))
	for k, v := range snap {
		cp := v
		r.subs[k] = &cp
	}
}

type fakeInvoiceRepo struct {
	mu         sync.Mutex
	invoices   map[string]*entity.Invoice
	items      map[string][]*entity.InvoiceItem
	failCreate error // si no es nil, Create falla
	failItems  error // si no es nil, CreateItems falla
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices: make(map[string]*entity.Invoice),
		items:    make(map[string][]*entity.InvoiceItem),
	}
}

func (r *fakeInvoiceRepo) Create(inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	cp := *inv
	cp.Items = nil
	r.invoices[inv.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) CreateItems(invoiceID string, items []*entity.InvoiceItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failItems != nil {
		return r.failItems
	}
	for _, item := range items {
		cp := *item
		r.items[invoiceID] = append(r.items[invoiceID], &cp)
	}
	return nil
}

func (r *fakeInvoiceRepo) Update(inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.invoices[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *inv
	cp.Items = nil
	r.invoices[inv.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) UpdateStatus(id, status string, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.Status = status
	inv.UpdatedAt = updatedAt
	return nil
}

func (r *fakeInvoiceRepo) DeleteItemsByInvoiceID(invoiceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, invoiceID)
	return nil
}

func (r *fakeInvoiceRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.invoices, id)
	return nil
}

func (r *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeInvoiceRepo) GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.InvoiceItem, 0, len(r.items[invoiceID]))
	for _, item := range r.items[invoiceID] {
		cp := *item
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeInvoiceRepo) ListByUser(userID string, limit, offset int) ([]*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Invoice
	for _, inv := range r.invoices {
		if inv.UserID == userID {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) snapshot() (map[string]entity.Invoice, map[string][]entity.InvoiceItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	invs := make(map[string]entity.Invoice, len(r.invoices))
	for k, v := range r.invoices {
		invs[k] = *v
	}
	items := make(map[string][]entity.InvoiceItem, len(r.items))
	for k, list := range r.items {
		cp := make([]entity.InvoiceItem, len(list))
		for i, item := range list {
			cp[i] = *item
		}
		items[k] = cp
	}
	return invs, items
}

func (r *fakeInvoiceRepo) restore(invs map[string]entity.Invoice, items map[string][]entity.InvoiceItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices = make(map[string]*entity.Invoice, len(invs))
	for k, v := range invs {
		cp := v
		r.invoices[k] = &cp
	}
	r.items = make(map[string][]*entity.InvoiceItem, len(items))
	for k, list := range items {
		ptrs := make([]*entity.InvoiceItem, len(list))
		for i := range list {
			cp := list[i]
			ptrs[i] = &cp
		}
		r.items[k] = ptrs
	}
}

// fakeTxRunner: commit = dejar los cambios; rollback = restaurar el snapshot.
type fakeTxRunner struct {
	mu   sync.Mutex
	subs *fakeSubscriberRepo
	invs *fakeInvoiceRepo
}

func newFakeTxRunner(subs *fakeSubscriberRepo, invs *fakeInvoiceRepo) *fakeTxRunner {
	return &fakeTxRunner{subs: subs, invs: invs}
}

func (r *fakeTxRunner) RunBilling(ctx context.Context, fn func(
	subscriberRepo repository.SubscriberRepository,
	invoiceRepo repository.InvoiceRepository,
) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	subsSnap := r.subs.snapshot()
	invSnap, itemSnap := r.invs.snapshot()
	if err := fn(r.subs, r.invs); err != nil {
		r.subs.restore(subsSnap)
		r.invs.restore(invSnap, itemSnap)
		return err
	}
	return nil
}

// fakeCustomerRepo y fakeBankRepo mínimos para el caso de uso de facturas.
type fakeCustomerRepo struct {
	customers map[string]*entity.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[string]*entity.Customer)}
}

func (r *fakeCustomerRepo) Create(c *entity.Customer) error { r.customers[c.ID] = c; return nil }
func (r *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	return r.customers[id], nil
}
func (r *fakeCustomerRepo) ListByUser(userID string, limit, offset int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	for _, c := range r.customers {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}
func (r *fakeCustomerRepo) Update(c *entity.Customer) error { r.customers[c.ID] = c; return nil }
func (r *fakeCustomerRepo) Delete(id string) error          { delete(r.customers, id); return nil }

type fakeBankRepo struct {
	accounts map[string]*entity.BankAccount
}

func newFakeBankRepo() *fakeBankRepo {
	return &fakeBankRepo{accounts: make(map[string]*entity.BankAccount)}
}

func (r *fakeBankRepo) Create(a *entity.BankAccount) error { r.accounts[a.ID] = a; return nil }
func (r *fakeBankRepo) GetByID(id string) (*entity.BankAccount, error) {
	return r.accounts[id], nil
}
func (r *fakeBankRepo) ListByUser(userID string) ([]*entity.BankAccount, error) {
	var out []*entity.BankAccount
	for _, a := range r.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}
func (r *fakeBankRepo) Update(a *entity.BankAccount) error { r.accounts[a.ID] = a; return nil }
func (r *fakeBankRepo) Delete(id string) error             { delete(r.accounts, id); return nil }
