package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturio/facturio-api/internal/application/billing"
	"github.com/facturio/facturio-api/internal/application/dto"
	"github.com/facturio/facturio-api/internal/domain"
	"github.com/facturio/facturio-api/internal/domain/entity"
	domInvoice "github.com/facturio/facturio-api/internal/domain/invoice"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests de extremo a extremo del caso de uso de facturas, con dobles en
// memoria. Cubren el camino completo: saneamiento → recálculo → validación →
// admisión de cuota → persistencia atómica, y la atomicidad ante fallos.
// ──────────────────────────────────────────────────────────────────────────────

type invoiceFixture struct {
	subs *fakeSubscriberRepo
	invs *fakeInvoiceRepo
	crm  *fakeCustomerRepo
	bank *fakeBankRepo
	uc   *billing.InvoiceUseCase
}

func newInvoiceFixture() *invoiceFixture {
	subs := newFakeSubscriberRepo()
	invs := newFakeInvoiceRepo()
	crm := newFakeCustomerRepo()
	bank := newFakeBankRepo()
	log := testLogger()
	uc := billing.NewInvoiceUseCase(
		newFakeTxRunner(subs, invs),
		billing.NewQuotaService(log),
		invs, crm, bank, log,
	)
	return &invoiceFixture{subs: subs, invs: invs, crm: crm, bank: bank, uc: uc}
}

func validRequest() dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		InvoiceNumber: "INV-001",
		Date:          "2026-09-01",
		DueDate:       "2026-09-30",
		CustomerName:  "Acme Corp",
		CustomerEmail: "facturas@acme.example",
		TaxRate:       decimal.NewFromInt(19),
		Items: []dto.InvoiceItemRequest{
			{Description: "Consultoría", Quantity: decimal.NewFromInt(2), Price: decimal.RequireFromString("50.00")},
			{Description: "Soporte", Quantity: decimal.NewFromInt(1), Price: decimal.RequireFromString("25.00")},
		},
	}
}

func TestCreateInvoice_CaminoFeliz(t *testing.T) {
	fx := newInvoiceFixture()
	fx.subs.put(subscriber(entity.TierFree, 2, 3)) // última plaza del plan Free

	resp, err := fx.uc.CreateInvoice(context.Background(), testUserID, validRequest())

	require.NoError(t, err)
	require.NotNil(t, resp)

	// 2×50.00 + 1×25.00 = 125.00; 19% → 23.75; total 148.75.
	assert.True(t, resp.Subtotal.Equal(decimal.RequireFromString("125.00")), "subtotal: %s", resp.Subtotal)
	assert.True(t, resp.TaxAmount.Equal(decimal.RequireFromString("23.75")), "tax: %s", resp.TaxAmount)
	assert.True(t, resp.Total.Equal(decimal.RequireFromString("148.75")), "total: %s", resp.Total)
	assert.Equal(t, entity.InvoiceStatusDraft, resp.Status, "toda factura nace en borrador")
	assert.Equal(t, entity.TemplateModern, resp.Template, "plantilla por defecto")
	assert.NotEmpty(t, resp.ID)
	require.Len(t, resp.Items, 2)
	assert.True(t, resp.Items[0].Total.Equal(decimal.RequireFromString("100.00")))

	// La admisión consumió la plaza y la factura quedó persistida con líneas.
	assert.Equal(t, 3, fx.subs.count(testUserID))
	saved, err := fx.invs.GetByID(resp.ID)
	require.NoError(t, err)
	require.NotNil(t, saved)
	items, err := fx.invs.GetItemsByInvoiceID(resp.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestCreateInvoice_RechazaAlAgotarElPlan(t *testing.T) {
	fx := newInvoiceFixture()
	fx.subs.put(subscriber(entity.TierFree, 2, 3))

	// Primera: admitida (ocupa la última plaza).
	first, err := fx.uc.CreateInvoice(context.Background(), testUserID, validRequest())
	require.NoError(t, err)

	// Segunda: rechazada con el detalle exacto del límite.
	req := validRequest()
	req.InvoiceNumber = "INV-002"
	_, err = fx.uc.CreateInvoice(context.Background(), testUserID, req)

	lre, ok := domain.IsLimitReached(err)
	require.True(t, ok, "esperaba LimitReachedError, fue: %v", err)
	assert.Equal(t, entity.TierFree, lre.Tier)
	assert.Equal(t, 3, lre.Count)
	assert.Equal(t, 3, lre.Limit)

	// El rechazo no deja rastro: ni contador movido ni factura fantasma.
	assert.Equal(t, 3, fx.subs.count(testUserID))
	saved, _ := fx.invs.GetByID(first.ID)
	assert.NotNil(t, saved, "la primera factura sobrevive intacta")
}

// TestCreateInvoice_FalloDeLineasRevierteTodo: si el insert de líneas falla
// tras el incremento de cuota y la cabecera, la transacción revierte los tres
// efectos. El contador vuelve a su valor previo y no queda cabecera huérfana.
func TestCreateInvoice_FalloDeLineasRevierteTodo(t *testing.T) {
	fx := newInvoiceFixture()
	fx.subs.put(subscriber(entity.TierFree, 2, 3))
	fx.invs.failItems = errors.New("deadline exceeded")

	_, err := fx.uc.CreateInvoice(context.Background(), testUserID, validRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPersistence, "la causa real no se expone al cliente")
	assert.NotContains(t, err.Error(), "deadline", "el detalle interno queda solo en el log")
	assert.Equal(t, 2, fx.subs.count(testUserID), "el incremento de cuota se revierte con la transacción")
	assert.Empty(t, fx.invs.invoices, "sin cabecera huérfana")
}

func TestCreateInvoice_FalloDeCabeceraRevierteCuota(t *testing.T) {
	fx := newInvoiceFixture()
	fx.subs.put(subscriber(entity.TierPro, 5, 20))
	fx.invs.failCreate = errors.New("connection reset")

	_, err := fx.uc.CreateInvoice(context.Background(), testUserID, validRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Equal(t, 5, fx.subs.count(testUserID))
}

// TestCreateInvoice_ValidacionAntesDePersistir: una petición inválida no llega
// ni a la cuota ni al repositorio; la respuesta enumera todos los campos malos.
func TestCreateInvoice_ValidacionAntesDePersistir(t *testing.T) {
	fx := newInvoiceFixture()
	fx.subs.put(subscriber(entity.TierFree, 0, 3))

	req := validRequest()
	req.InvoiceNumber = "INV 001!" // espacios y signos fuera del alfabeto permitido
	req.Items[0].Quantity = decimal.Zero

	_, err := fx.uc.CreateInvoice(context.Background(), testUserID, req)

	var fe domInvoice.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "invoice_number")
	assert.Contains(t, fe, "items[0].quantity")
	assert.Equal(t, 0, fx.subs.count(testUserID), "la validación corta antes de consumir cuota")
	assert.Empty(t, fx.invs.invoices)
}

func TestCreateInvoice_FechaInvalida(t *testing.T) {
	fx := newInvoiceFixture()
	req := validRequest()
	req.Date = "01/09/2026"

	_, err := fx.uc.CreateInvoice(context.Background(), testUserID, req)

	var fe domInvoice.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "date")
}

// TestCreateInvoice_IgnoraTotalesDelCliente: los campos derivados siempre se
// recalculan en el servidor; nada del body puede fijarlos.
func TestCreateInvoice_IgnoraTotalesDelCliente(t *testing.T) {
	fx := newInvoiceFixture()
	fx.subs.put(subscriber(entity.TierPro, 0, 20))

	req := validRequest()
	req.TaxRate = decimal.Zero

	resp, err := fx.uc.CreateInvoice(context.Background(), testUserID, req)

	require.NoError(t, err)
	assert.True(t, resp.TaxAmount.IsZero())
	assert.True(t, resp.Total.Equal(decimal.RequireFromString("125.00")))
}

func TestCreateInvoice_SnapshotDeClienteCRM(t *testing.T) {
	fx := newInvoiceFixture()
	fx.subs.put(subscriber(entity.TierPro, 0, 20))
	fx.crm.customers["c-1"] = &entity.Customer{
		ID:      "c-1",
		UserID:  testUserID,
		Name:    "Globex S.A.",
		Email:   "pagos@globex.example",
		Address: "Av. Siempreviva 742",
	}

	req := validRequest()
	req.CustomerID = "c-1"
	req.CustomerName = "esto se ignora"

	resp, err := fx.uc.CreateInvoice(context.Background(), testUserID, req)

	require.NoError(t, err)
	assert.Equal(t, "Globex S.A.", resp.CustomerName, "los datos vienen del CRM, no del body")
	assert.Equal(t, "pagos@globex.example", resp.CustomerEmail)
	assert.Equal(t, "Av. Siempreviva 742", resp.CustomerAddress)
}

func TestCreateInvoice_ClienteCRMAjeno(t *testing.T) {
	fx := newInvoiceFixture()
	fx.crm.customers["c-2"] = &entity.Customer{ID: "c-2", UserID: "otro-usuario", Name: "Ajeno"}

	req := validRequest()
	req.CustomerID = "c-2"

	_, err := fx.uc.CreateInvoice(context.Background(), testUserID, req)

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreateInvoice_CuentaBancariaAjena(t *testing.T) {
	fx := newInvoiceFixture()
	fx.bank.accounts["b-1"] = &entity.BankAccount{ID: "b-1", UserID: "otro-usuario"}

	req := validRequest()
	req.BankAccountID = "b-1"

	_, err := fx.uc.CreateInvoice(context.Background(), testUserID, req)

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreateInvoice_SaneaTextoLibre(t *testing.T) {
	fx := newInvoiceFixture()
	fx.subs.put(subscriber(entity.TierPro, 0, 20))

	req := validRequest()
	req.CustomerName = "Acme <script>alert(1)</script>"
	req.Notes = "javascript:robar()"

	resp, err := fx.uc.CreateInvoice(context.Background(), testUserID, req)

	require.NoError(t, err)
	assert.NotContains(t, resp.CustomerName, "<")
	assert.NotContains(t, resp.CustomerName, ">")
	assert.NotContains(t, resp.Notes, "javascript:")
}

// ── Edición ───────────────────────────────────────────────────────────────────

func updateFrom(req dto.CreateInvoiceRequest) dto.UpdateInvoiceRequest {
	return dto.UpdateInvoiceRequest{
		InvoiceNumber:   req.InvoiceNumber,
		Date:            req.Date,
		DueDate:         req.DueDate,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerAddress: req.CustomerAddress,
		BankAccountID:   req.BankAccountID,
		TaxRate:         req.TaxRate,
		Notes:           req.Notes,
		Template:        req.Template,
		Items:           req.Items,
	}
}

// TestUpdateInvoice_NoConsumeCuota: editar reemplaza cabecera y líneas pero el
// contador de cuota no se mueve, aunque la cuenta esté en el límite.
func TestUpdateInvoice_NoConsumeCuota(t *testing.T) {
	fx := newInvoiceFixture()
	fx.subs.put(subscriber(entity.TierFree, 2, 3))

	created, err := fx.uc.CreateInvoice(context.Background(), testUserID, validRequest())
	require.NoError(t, err)
	require.Equal(t, 3, fx.subs.count(testUserID), "la cuenta queda en el límite")

	upd := updateFrom(validRequest())
	upd.Items = []dto.InvoiceItemRequest{
		{Description: "Única línea", Quantity: decimal.NewFromInt(3), Price: decimal.RequireFromString("10.00")},
	}
	resp, err := fx.uc.UpdateInvoice(context.Background(), testUserID, created.ID, upd)

	require.NoError(t, err, "editar en el límite es válido: no pasa por la admisión")
	assert.Equal(t, 3, fx.subs.count(testUserID))
	assert.True(t, resp.Subtotal.Equal(decimal.RequireFromString("30.00")))

	// El conjunto de líneas se reemplaza completo, no se mezcla con el previo.
	items, err := fx.invs.GetItemsByInvoiceID(created.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Única línea", items[0].Description)
}

func TestUpdateInvoice_ConservaEstadoYCreacion(t *testing.T) {
	fx := newInvoiceFixture()
	fx.subs.put(subscriber(entity.TierPro, 0, 20))

	created, err := fx.uc.CreateInvoice(context.Background(), testUserID, validRequest())
	require.NoError(t, err)
	require.NoError(t, fx.invs.UpdateStatus(created.ID, entity.InvoiceStatusSent, time.Now()))

	resp, err := fx.uc.UpdateInvoice(context.Background(), testUserID, created.ID, updateFrom(validRequest()))

	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusSent, resp.Status, "editar no resetea el estado")
	assert.Equal(t, created.CreatedAt, resp.CreatedAt)
}

func TestUpdateInvoice_FalloDeLineasConservaLasPrevias(t *testing.T) {
	fx := newInvoiceFixture()
	fx.subs.put(subscriber(entity.TierPro, 0, 20))

	created, err := fx.uc.CreateInvoice(context.Background(), testUserID, validRequest())
	require.NoError(t, err)

	fx.invs.failItems = errors.New("disk full")
	_, err = fx.uc.UpdateInvoice(context.Background(), testUserID, created.ID, updateFrom(validRequest()))

	require.Error(t, err)
	items, qerr := fx.invs.GetItemsByInvoiceID(created.ID)
	require.NoError(t, qerr)
	assert.Len(t, items, 2, "el reemplazo es todo-o-nada: el fallo conserva las líneas originales")
}

func TestUpdateInvoice_FacturaAjena(t *testing.T) {
	fx := newInvoiceFixture()
	fx.subs.put(subscriber(entity.TierPro, 0, 20))

	created, err := fx.uc.CreateInvoice(context.Background(), testUserID, validRequest())
	require.NoError(t, err)

	_, err = fx.uc.UpdateInvoice(context.Background(), "otro-usuario", created.ID, updateFrom(validRequest()))

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateInvoice_Inexistente(t *testing.T) {
	fx := newInvoiceFixture()

	_, err := fx.uc.UpdateInvoice(context.Background(), testUserID, "no-existe", updateFrom(validRequest()))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
