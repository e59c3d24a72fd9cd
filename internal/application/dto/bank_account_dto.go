package dto

// BankAccountRequest body para POST/PUT de cuentas bancarias.
type BankAccountRequest struct {
	AccountHolder string `json:"account_holder"`
	BankName      string `json:"bank_name"`
	IBAN          string `json:"iban"`
	BIC           string `json:"bic,omitempty"`
}

// BankAccountResponse cuenta bancaria en respuestas.
type BankAccountResponse struct {
	ID            string `json:"id"`
	AccountHolder string `json:"account_holder"`
	BankName      string `json:"bank_name"`
	IBAN          string `json:"iban"`
	BIC           string `json:"bic,omitempty"`
}
