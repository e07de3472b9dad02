package authsvc

import (
	"fmt"

	models "planning_api/internal/api/auth/models"
	basesvc "planning_api/internal/api/base/service"
	"planning_api/internal/common"
	"planning_api/internal/global"
)

// DeskService là cấu trúc chứa các phương thức liên quan đến desk
type DeskService struct {
	*basesvc.BaseServiceMongoImpl[models.Desk]
}

// NewDeskService tạo mới DeskService
func NewDeskService() (*DeskService, error) {
	deskCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Desks)
	if !exist {
		return nil, fmt.Errorf("failed to get desks collection: %v", common.ErrNotFound)
	}
	return &DeskService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Desk](deskCollection),
	}, nil
}
