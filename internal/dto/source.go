package dto

type CreateSourceRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
	UTMSource   string `json:"utm_source"`
	UTMMedium   string `json:"utm_medium"`
	UTMCampaign string `json:"utm_campaign"`
}

type SourceResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	UTMSource   string `json:"utm_source,omitempty"`
	UTMMedium   string `json:"utm_medium,omitempty"`
	UTMCampaign string `json:"utm_campaign,omitempty"`
	IsActive    bool   `json:"is_active"`
	UsersCount  int64  `json:"users_count"`
	CreatedAt   string `json:"created_at"`
}
