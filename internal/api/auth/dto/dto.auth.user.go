package authdto

// UserCreateInput đầu vào tạo người dùng (CRUD).
type UserCreateInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Desk     string `json:"desk,omitempty" validate:"omitempty" transform:"str_objectid,optional"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=admin editor contributor"`
}

// UserUpdateInput đầu vào cập nhật người dùng (CRUD).
type UserUpdateInput struct {
	Name string `json:"name,omitempty"`
	Desk string `json:"desk,omitempty" validate:"omitempty" transform:"str_objectid,optional"`
	Role string `json:"role,omitempty" validate:"omitempty,oneof=admin editor contributor"`
}

// UserLoginInput đầu vào đăng nhập người dùng.
type UserLoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Hwid     string `json:"hwid,omitempty"`
}

// UserChangeInfoInput đầu vào thay đổi thông tin người dùng.
type UserChangeInfoInput struct {
	Name string `json:"name"`
}

// UserChangePasswordInput đầu vào đổi mật khẩu.
type UserChangePasswordInput struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// BlockUserInput đầu vào khóa người dùng.
type BlockUserInput struct {
	Email string `json:"email" validate:"required"`
	Note  string `json:"note" validate:"required"`
}

// UnBlockUserInput đầu vào mở khóa người dùng.
type UnBlockUserInput struct {
	Email string `json:"email" validate:"required"`
}
