package dto

type CreateReminderRequest struct {
	Title         string   `json:"title" validate:"required,max=255"`
	Description   string   `json:"description"`
	Type          string   `json:"type" validate:"omitempty,oneof=payment debt goal custom"`
	ScheduledTime string   `json:"scheduled_time" validate:"required"`
	Repeat        string   `json:"repeat" validate:"omitempty,oneof=once daily weekly monthly"`
	Amount        *float64 `json:"amount"`
	GoalID        string   `json:"goal_id"`
}

type UpdateReminderRequest struct {
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	ScheduledTime *string  `json:"scheduled_time"`
	Repeat        *string  `json:"repeat" validate:"omitempty,oneof=once daily weekly monthly"`
	Amount        *float64 `json:"amount"`
	IsActive      *bool    `json:"is_active"`
}

type ReminderResponse struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	Type          string   `json:"type"`
	ScheduledTime string   `json:"scheduled_time"`
	Repeat        string   `json:"repeat"`
	Amount        *float64 `json:"amount,omitempty"`
	GoalID        string   `json:"goal_id,omitempty"`
	IsActive      bool     `json:"is_active"`
	LastSent      string   `json:"last_sent,omitempty"`
	NextReminder  string   `json:"next_reminder,omitempty"`
	CreatedAt     string   `json:"created_at"`
}
