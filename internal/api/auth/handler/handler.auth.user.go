package authhdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	authdto "planning_api/internal/api/auth/dto"
	models "planning_api/internal/api/auth/models"
	authsvc "planning_api/internal/api/auth/service"
	basehdl "planning_api/internal/api/base/handler"
	basesvc "planning_api/internal/api/base/service"
	"planning_api/internal/api/middleware"
	"planning_api/internal/common"
)

// UserHandler xử lý các request xác thực và quản lý người dùng
type UserHandler struct {
	*basehdl.BaseHandler[models.User, authdto.UserCreateInput, authdto.UserUpdateInput]
	userService *authsvc.UserService
}

// NewUserHandler tạo instance mới của UserHandler
func NewUserHandler() (*UserHandler, error) {
	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[models.User, authdto.UserCreateInput, authdto.UserUpdateInput](userService.BaseServiceMongoImpl)
	return &UserHandler{
		BaseHandler: baseHandler,
		userService: userService,
	}, nil
}

// sanitize xóa các field nhạy cảm trước khi trả về client.
func sanitize(user *models.User) {
	user.Password = ""
	user.Salt = ""
	user.Tokens = nil
}

// currentUserID lấy user ID của phiên hiện tại từ Locals.
func currentUserID(c fiber.Ctx) (primitive.ObjectID, error) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return primitive.NilObjectID, common.NewError(common.ErrCodeAuth, "User not authenticated", common.StatusUnauthorized, nil)
	}
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, common.NewError(common.ErrCodeValidationFormat, "Invalid user ID", common.StatusBadRequest, err)
	}
	return objID, nil
}

// HandleLogin xử lý đăng nhập bằng email/mật khẩu
func (h *UserHandler) HandleLogin(c fiber.Ctx) error {
	input := new(authdto.UserLoginInput)
	if err := h.ParseRequestBody(c, input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	user, err := h.userService.Login(c.Context(), input)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	sanitize(user)
	h.HandleResponse(c, user, nil)
	return nil
}

// HandleLogout xử lý đăng xuất phiên hiện tại
func (h *UserHandler) HandleLogout(c fiber.Ctx) error {
	objID, err := currentUserID(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	err = h.userService.Logout(c.Context(), objID, middleware.GetSessionID(c))
	h.HandleResponse(c, nil, err)
	return nil
}

// HandleCreateUser tạo người dùng mới (mật khẩu được băm trước khi lưu)
func (h *UserHandler) HandleCreateUser(c fiber.Ctx) error {
	input := new(authdto.UserCreateInput)
	if err := h.ParseRequestBody(c, input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	user, err := h.userService.CreateUser(c.Context(), input)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	sanitize(&user)
	h.HandleResponse(c, user, nil)
	return nil
}

// HandleGetProfile lấy thông tin profile của người dùng
func (h *UserHandler) HandleGetProfile(c fiber.Ctx) error {
	objID, err := currentUserID(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	user, err := h.userService.BaseServiceMongoImpl.FindOneById(c.Context(), objID)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	sanitize(&user)
	h.HandleResponse(c, user, nil)
	return nil
}

// HandleUpdateProfile cập nhật thông tin profile
func (h *UserHandler) HandleUpdateProfile(c fiber.Ctx) error {
	objID, err := currentUserID(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	input := new(authdto.UserChangeInfoInput)
	if err := h.ParseRequestBody(c, input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	update := &basesvc.UpdateData{Set: map[string]interface{}{"name": input.Name}}
	updatedUser, err := h.userService.BaseServiceMongoImpl.UpdateById(c.Context(), objID, update)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	sanitize(&updatedUser)
	h.HandleResponse(c, updatedUser, nil)
	return nil
}

// HandleChangePassword đổi mật khẩu của người dùng hiện tại
func (h *UserHandler) HandleChangePassword(c fiber.Ctx) error {
	objID, err := currentUserID(c)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	input := new(authdto.UserChangePasswordInput)
	if err := h.ParseRequestBody(c, input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	err = h.userService.ChangePassword(c.Context(), objID, input)
	h.HandleResponse(c, nil, err)
	return nil
}

// HandleBlockUser khóa người dùng theo email
func (h *UserHandler) HandleBlockUser(c fiber.Ctx) error {
	input := new(authdto.BlockUserInput)
	if err := h.ParseRequestBody(c, input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	user, err := h.userService.SetBlockStatus(c.Context(), input.Email, true, input.Note)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	sanitize(&user)
	h.HandleResponse(c, user, nil)
	return nil
}

// HandleUnBlockUser mở khóa người dùng theo email
func (h *UserHandler) HandleUnBlockUser(c fiber.Ctx) error {
	input := new(authdto.UnBlockUserInput)
	if err := h.ParseRequestBody(c, input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	user, err := h.userService.SetBlockStatus(c.Context(), input.Email, false, "")
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	sanitize(&user)
	h.HandleResponse(c, user, nil)
	return nil
}
