package dto

type BalanceResponse struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	UpdatedAt string  `json:"updated_at"`
}

type StatsQuery struct {
	From string `query:"from"`
	To   string `query:"to"`
}

type StatsResponse struct {
	PeriodStart  string          `json:"period_start"`
	PeriodEnd    string          `json:"period_end"`
	TotalIncome  float64         `json:"total_income"`
	TotalExpense float64         `json:"total_expense"`
	Net          float64         `json:"net"`
	ByCategory   []CategoryTotal `json:"by_category"`
}

type CategoryTotal struct {
	CategoryID   string  `json:"category_id,omitempty"`
	CategoryName string  `json:"category_name"`
	Total        float64 `json:"total"`
}
