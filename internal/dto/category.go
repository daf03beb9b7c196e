package dto

type CreateCategoryRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Type  string `json:"type" validate:"required,oneof=income expense"`
	Emoji string `json:"emoji"`
}

type CategoryResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Emoji     string `json:"emoji,omitempty"`
	IsDefault bool   `json:"is_default"`
	CreatedAt string `json:"created_at"`
}
