package billing

import (
	"context"
	"fmt"

	"github.com/facturio/facturio-api/internal/domain"
	"github.com/facturio/facturio-api/internal/domain/entity"
	"github.com/facturio/facturio-api/internal/domain/repository"
)

// PDFUseCase genera la representación gráfica (PDF) de una factura, con la
// plantilla que la propia factura tiene seleccionada (modern/classic/minimal).
type PDFUseCase struct {
	invoiceRepo repository.InvoiceRepository
	bankRepo    repository.BankAccountRepository
	generator   InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	bankRepo repository.BankAccountRepository,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{invoiceRepo: invoiceRepo, bankRepo: bankRepo, generator: generator}
}

// DownloadInvoicePDF carga la factura completa y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
//   - domain.ErrForbidden        si la factura no pertenece al usuario del token.
func (uc *PDFUseCase) DownloadInvoicePDF(
	ctx context.Context,
	userID, invoiceID string,
) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	if inv.UserID != userID {
		return nil, "", domain.ErrForbidden
	}

	inv.Items, err = uc.invoiceRepo.GetItemsByInvoiceID(invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener líneas: %w", err)
	}

	// Cuenta bancaria opcional; si fue borrada, el PDF omite los datos de pago.
	var bank *entity.BankAccount
	if inv.BankAccountID != "" {
		bank, _ = uc.bankRepo.GetByID(inv.BankAccountID)
	}

	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, inv, bank)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar: %w", err)
	}
	return pdfBytes, fmt.Sprintf("factura-%s.pdf", inv.InvoiceNumber), nil
}
