package dto

type CreateGoalRequest struct {
	Title            string  `json:"title" validate:"required,max=200"`
	Description      string  `json:"description"`
	TargetAmount     float64 `json:"target_amount" validate:"required,gt=0"`
	Deadline         string  `json:"deadline" validate:"required"`
	ReminderInterval string  `json:"reminder_interval" validate:"omitempty,oneof=daily weekly monthly never"`
}

type GoalResponse struct {
	ID                 string  `json:"id"`
	Title              string  `json:"title"`
	Description        string  `json:"description,omitempty"`
	TargetAmount       float64 `json:"target_amount"`
	CurrentAmount      float64 `json:"current_amount"`
	RemainingAmount    float64 `json:"remaining_amount"`
	ProgressPercentage float64 `json:"progress_percentage"`
	Deadline           string  `json:"deadline"`
	Status             string  `json:"status"`
	ReminderInterval   string  `json:"reminder_interval"`
	CreatedAt          string  `json:"created_at"`
}

type AddProgressRequest struct {
	Amount              float64 `json:"amount" validate:"required,gt=0"`
	Description         string  `json:"description"`
	WithdrawFromBalance bool    `json:"withdraw_from_balance"`
}

type GoalTransactionResponse struct {
	ID          string  `json:"id"`
	GoalID      string  `json:"goal_id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
	CreatedAt   string  `json:"created_at"`
}
