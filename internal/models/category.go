package models

import "time"

// Category represents a product category. Categories may nest through
// ParentID. Slug is unique among categories.
type Category struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;type:varchar(100);not null"`
	Description *string   `json:"description" gorm:"type:text"`
	ParentID    *string   `json:"parent_id" gorm:"type:varchar(36);index"`
	IsActive    bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCategoryRequest is the payload for POST /categories.
type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Slug        string  `json:"slug" validate:"required,max=100,slug"`
	Description *string `json:"description"`
	ParentID    *string `json:"parent_id" validate:"omitempty,uuid"`
	IsActive    *bool   `json:"is_active"`
}

// UpdateCategoryRequest is the partial payload for PUT /categories/:id.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Slug        *string `json:"slug" validate:"omitempty,min=1,max=100,slug"`
	Description *string `json:"description"`
	ParentID    *string `json:"parent_id" validate:"omitempty,uuid"`
	IsActive    *bool   `json:"is_active"`
}

// IsEmpty reports whether the update carries no fields at all.
func (r UpdateCategoryRequest) IsEmpty() bool {
	return r.Name == nil && r.Slug == nil && r.Description == nil &&
		r.ParentID == nil && r.IsActive == nil
}
