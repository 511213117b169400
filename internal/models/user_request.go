package models

import "usermgmt/internal/entities"

// CreateUserRequest represents the form submitted to create a user
type CreateUserRequest struct {
	Name     string `form:"name" json:"name" validate:"required"`
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required,min=6"`
}

// UpdateUserRequest represents the edit form. Absent fields stay nil and are not merged.
type UpdateUserRequest struct {
	Name     *string `form:"name" json:"name"`
	Email    *string `form:"email" json:"email"`
	Password *string `form:"password" json:"password"`
}

// ToUserUpdate converts the request into the partial update applied by the store
func (r *UpdateUserRequest) ToUserUpdate() entities.UserUpdate {
	return entities.UserUpdate{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
	}
}
