package dto

import "github.com/eduassist/backend/internal/app/models"

// CreateCategoryRequest represents a new category definition
type CreateCategoryRequest struct {
	Name        string   `json:"name" binding:"required,max=100"`
	Description string   `json:"description" binding:"omitempty,max=500"`
	Choices     []string `json:"choices" binding:"omitempty,dive,required,max=100"`
}

// UpdateCategoryRequest represents an edit to an existing category
type UpdateCategoryRequest struct {
	Name        string   `json:"name" binding:"required,max=100"`
	Description string   `json:"description" binding:"omitempty,max=500"`
	Choices     []string `json:"choices" binding:"omitempty,dive,required,max=100"`
}

// CategoryChoiceResponse represents a sub-type value within a category
type CategoryChoiceResponse struct {
	ID    int64  `json:"id"`
	Value string `json:"value"`
}

// CategoryResponse represents a category with its choices
type CategoryResponse struct {
	ID          int64                    `json:"id"`
	Name        string                   `json:"name"`
	Slug        string                   `json:"slug"`
	Description string                   `json:"description"`
	Choices     []CategoryChoiceResponse `json:"choices"`
}

// CategoryListResponse represents all categories
type CategoryListResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

// FromCategory converts a models.Category to a CategoryResponse
func FromCategory(category *models.Category) CategoryResponse {
	if category == nil {
		return CategoryResponse{}
	}
	resp := CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
		Choices:     make([]CategoryChoiceResponse, 0, len(category.Choices)),
	}
	for _, choice := range category.Choices {
		resp.Choices = append(resp.Choices, CategoryChoiceResponse{
			ID:    choice.ID,
			Value: choice.Value,
		})
	}
	return resp
}
