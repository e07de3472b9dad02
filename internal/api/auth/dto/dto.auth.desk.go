package authdto

// DeskCreateInput đầu vào tạo desk (CRUD).
type DeskCreateInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
}

// DeskUpdateInput đầu vào cập nhật desk (CRUD).
type DeskUpdateInput struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
}
