package models

// UpdateUserRequest changes profile fields. Nil fields are left untouched.
type UpdateUserRequest struct {
	CompanyName *string `json:"company_name" binding:"omitempty,max=255"`
	CompanySize *string `json:"company_size" binding:"omitempty,max=50"`
	FirstName   *string `json:"first_name" binding:"omitempty,max=100"`
	LastName    *string `json:"last_name" binding:"omitempty,max=100"`
}
