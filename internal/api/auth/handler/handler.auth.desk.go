package authhdl

import (
	"fmt"

	authdto "planning_api/internal/api/auth/dto"
	models "planning_api/internal/api/auth/models"
	authsvc "planning_api/internal/api/auth/service"
	basehdl "planning_api/internal/api/base/handler"
)

// DeskHandler xử lý các request quản lý desk
type DeskHandler struct {
	*basehdl.BaseHandler[models.Desk, authdto.DeskCreateInput, authdto.DeskUpdateInput]
	deskService *authsvc.DeskService
}

// NewDeskHandler tạo instance mới của DeskHandler
func NewDeskHandler() (*DeskHandler, error) {
	deskService, err := authsvc.NewDeskService()
	if err != nil {
		return nil, fmt.Errorf("failed to create desk service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[models.Desk, authdto.DeskCreateInput, authdto.DeskUpdateInput](deskService.BaseServiceMongoImpl)
	return &DeskHandler{
		BaseHandler: baseHandler,
		deskService: deskService,
	}, nil
}
