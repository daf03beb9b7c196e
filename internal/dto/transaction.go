package dto

type CreateTransactionRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Type        string  `json:"type" validate:"required,oneof=income expense debt transfer"`
	CategoryID  string  `json:"category_id"`
	Description string  `json:"description"`
	Date        string  `json:"date"`

	// Transfer only.
	RelatedUserID string `json:"related_user_id"`

	// Debt only.
	DueDate          string `json:"due_date"`
	CounterpartyName string `json:"counterparty_name"`
	Direction        string `json:"direction" validate:"omitempty,oneof=to_me from_me"`
}

type TransactionResponse struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	CategoryID  string  `json:"category_id,omitempty"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	IsClosed    bool    `json:"is_closed"`
	CreatedAt   string  `json:"created_at"`

	Debt *DebtResponse `json:"debt,omitempty"`
}

type DebtResponse struct {
	DueDate          string  `json:"due_date,omitempty"`
	PaidAmount       float64 `json:"paid_amount"`
	RemainingAmount  float64 `json:"remaining_amount"`
	Status           string  `json:"status"`
	CounterpartyName string  `json:"counterparty_name"`
	Direction        string  `json:"direction"`
	PaymentProgress  float64 `json:"payment_progress"`
}

type AddPaymentRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type CloseDebtRequest struct {
	Force bool `json:"force"`
}

type ListTransactionsQuery struct {
	Type   string `query:"type"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}
