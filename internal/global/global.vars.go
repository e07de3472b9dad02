package global

import (
	"planning_api/config"
	"planning_api/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_Planning_CollectionName chứa tên các collection trong MongoDB
type MongoDB_Planning_CollectionName struct {
	Users               string // Tên collection cho người dùng
	Desks               string // Tên collection cho desk (bộ phận tòa soạn)
	Events              string // Tên collection cho sự kiện
	Planning            string // Tên collection cho planning item (chứa coverages nhúng)
	Assignments         string // Tên collection cho assignment
	EventsHistory       string // Tên collection cho lịch sử sự kiện
	PlanningHistory     string // Tên collection cho lịch sử planning
	AssignmentsHistory  string // Tên collection cho lịch sử assignment
	CoverageHistory     string // Tên collection cho lịch sử coverage
	ItemLocks           string // Tên collection cho lease của item lock
	DeliveryQueue       string // Tên collection cho delivery queue
	DeliveryHistory     string // Tên collection cho delivery history
	DeliverySubscribers string // Tên collection cho subscriber nhận thông báo
}

// Các biến toàn cục
var Validate *validator.Validate                                                         // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client                                                        // Phiên kết nối tới MongoDB
var MongoDB_ServerConfig *config.Configuration                                           // Cấu hình của server
var MongoDB_ColNames MongoDB_Planning_CollectionName = *new(MongoDB_Planning_CollectionName) // Tên các collection

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
var RegistryDatabase = registry.NewRegistry[*mongo.Database]()      // Registry chứa các databases
