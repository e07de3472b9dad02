package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"planning_api/config"
	assignmentmodels "planning_api/internal/api/assignments/models"
	authmodels "planning_api/internal/api/auth/models"
	deliverymodels "planning_api/internal/api/delivery/models"
	historymodels "planning_api/internal/api/history/models"
	planningmodels "planning_api/internal/api/planning/models"
	"planning_api/internal/database"
	"planning_api/internal/global"
)

// Hàm khởi tạo các biến toàn cục
func InitGlobal() {
	initColNames()         // Khởi tạo tên các collection trong database
	initValidator()        // Khởi tạo validator
	initConfig()           // Khởi tạo cấu hình server
	initDatabase_MongoDB() // Khởi tạo kết nối database
}

// Hàm khởi tạo tên các collection trong database
func initColNames() {
	global.MongoDB_ColNames.Users = "users"
	global.MongoDB_ColNames.Desks = "desks"

	// Planning core
	global.MongoDB_ColNames.Events = "events"
	global.MongoDB_ColNames.Planning = "planning"
	global.MongoDB_ColNames.Assignments = "assignments"

	// History (một collection cho mỗi loại item)
	global.MongoDB_ColNames.EventsHistory = "events_history"
	global.MongoDB_ColNames.PlanningHistory = "planning_history"
	global.MongoDB_ColNames.AssignmentsHistory = "assignments_history"
	global.MongoDB_ColNames.CoverageHistory = "coverage_history"

	// Lock protocol
	global.MongoDB_ColNames.ItemLocks = "item_locks"

	// Delivery
	global.MongoDB_ColNames.DeliveryQueue = "delivery_queue"
	global.MongoDB_ColNames.DeliveryHistory = "delivery_history"
	global.MongoDB_ColNames.DeliverySubscribers = "delivery_subscribers"

	logrus.Info("Initialized collection names") // Ghi log thông báo đã khởi tạo tên các collection
}

// Hàm khởi tạo validator (dùng global.InitValidator để đăng ký custom validators)
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator") // Ghi log thông báo đã khởi tạo validator
}

// Hàm khởi tạo cấu hình server
func initConfig() {
	global.MongoDB_ServerConfig = config.NewConfig()
	if global.MongoDB_ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil") // Ghi log lỗi nếu khởi tạo cấu hình thất bại
	}
	logrus.Info("Initialized server config") // Ghi log thông báo đã khởi tạo cấu hình server
}

// Hàm khởi tạo kết nối database
func initDatabase_MongoDB() {
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.MongoDB_ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err) // Ghi log lỗi nếu kết nối database thất bại
	}
	logrus.Info("Connected to MongoDB") // Ghi log thông báo đã kết nối database thành công

	// Khởi tạo các db và collections nếu chưa có
	database.EnsureDatabaseAndCollections(global.MongoDB_Session)
	logrus.Info("Ensured database and collections") // Ghi log thông báo đã đảm bảo database và các collection

	// Khởi tạo các index cho các collection từ model tags
	dbName := global.MongoDB_ServerConfig.MongoDB_DBName
	db := global.MongoDB_Session.Database(dbName)
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Users), authmodels.User{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Desks), authmodels.Desk{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Events), planningmodels.Event{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Planning), planningmodels.Planning{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Assignments), assignmentmodels.Assignment{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.EventsHistory), historymodels.HistoryRecord{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.PlanningHistory), historymodels.HistoryRecord{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.AssignmentsHistory), historymodels.HistoryRecord{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.CoverageHistory), historymodels.HistoryRecord{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.DeliveryQueue), deliverymodels.DeliveryQueueItem{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.DeliveryHistory), deliverymodels.DeliveryHistory{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.DeliverySubscribers), deliverymodels.Subscriber{})

	// Index bổ sung (nested fields, compound, TTL) không định nghĩa được qua tags
	if err := database.CreatePlanningAdditionalIndexes(context.TODO(), db); err != nil {
		logrus.Fatalf("Failed to create additional indexes: %v", err)
	}
	logrus.Info("Created collection indexes")
}
