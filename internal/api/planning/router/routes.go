// Package router đăng ký các route thuộc domain Planning: events, planning.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"planning_api/internal/api/middleware"
	planninghdl "planning_api/internal/api/planning/handler"
	apirouter "planning_api/internal/api/router"
)

// eventCRUDConfig như ReadWriteConfig nhưng tắt insert: tạo Event đi qua
// HandleCreateEvent để nhân bản chuỗi lặp. Update/delete theo id vẫn mở,
// delete được relationship guard chặn khi còn planning item liên kết.
var eventCRUDConfig = func() apirouter.CRUDConfig {
	cfg := apirouter.ReadWriteConfig
	cfg.InsOne = false
	cfg.InsMany = false
	cfg.Upsert = false
	return cfg
}()

// planningCRUDConfig tắt insert vì tạo Planning phải chép recurrence_id từ Event.
var planningCRUDConfig = func() apirouter.CRUDConfig {
	cfg := apirouter.ReadWriteConfig
	cfg.InsOne = false
	cfg.InsMany = false
	cfg.Upsert = false
	return cfg
}()

// Register đăng ký tất cả route Planning lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	eventHandler, err := planninghdl.NewEventHandler()
	if err != nil {
		return fmt.Errorf("tạo EventHandler: %w", err)
	}
	planningHandler, err := planninghdl.NewPlanningHandler()
	if err != nil {
		return fmt.Errorf("tạo PlanningHandler: %w", err)
	}

	middlewares := []fiber.Handler{middleware.AuthMiddleware()}

	// ===== Events =====
	r.RegisterCRUDRoutes(v1, "/events", eventHandler, eventCRUDConfig)

	// POST /events/insert-one: tạo event, nhân bản chuỗi nếu có recurringRule
	apirouter.RegisterRouteWithMiddleware(v1, "/events", "POST", "/insert-one", middlewares, eventHandler.HandleCreateEvent)

	// GET /events/:id/timeline: phân hoạch historic/past/future của chuỗi
	apirouter.RegisterRouteWithMiddleware(v1, "/events", "GET", "/:id/timeline", middlewares, eventHandler.HandleGetTimeline)

	// Lock protocol
	apirouter.RegisterRouteWithMiddleware(v1, "/events", "POST", "/:id/lock", middlewares, eventHandler.HandleLock)
	apirouter.RegisterRouteWithMiddleware(v1, "/events", "POST", "/:id/unlock", middlewares, eventHandler.HandleUnlock)

	// Actions vòng đời
	apirouter.RegisterRouteWithMiddleware(v1, "/events", "POST", "/:id/spike", middlewares, eventHandler.HandleSpike)
	apirouter.RegisterRouteWithMiddleware(v1, "/events", "POST", "/:id/unspike", middlewares, eventHandler.HandleUnspike)
	apirouter.RegisterRouteWithMiddleware(v1, "/events", "POST", "/:id/cancel", middlewares, eventHandler.HandleCancel)
	apirouter.RegisterRouteWithMiddleware(v1, "/events", "POST", "/:id/postpone", middlewares, eventHandler.HandlePostpone)
	apirouter.RegisterRouteWithMiddleware(v1, "/events", "POST", "/:id/reschedule", middlewares, eventHandler.HandleReschedule)
	apirouter.RegisterRouteWithMiddleware(v1, "/events", "POST", "/:id/update-repetitions", middlewares, eventHandler.HandleUpdateRepetitions)

	// ===== Planning =====
	r.RegisterCRUDRoutes(v1, "/planning", planningHandler, planningCRUDConfig)

	// POST /planning/insert-one: tạo planning, chép recurrence_id từ Event cha
	apirouter.RegisterRouteWithMiddleware(v1, "/planning", "POST", "/insert-one", middlewares, planningHandler.HandleCreatePlanning)

	// Lock protocol
	apirouter.RegisterRouteWithMiddleware(v1, "/planning", "POST", "/:id/lock", middlewares, planningHandler.HandleLock)
	apirouter.RegisterRouteWithMiddleware(v1, "/planning", "POST", "/:id/unlock", middlewares, planningHandler.HandleUnlock)

	// Actions vòng đời
	apirouter.RegisterRouteWithMiddleware(v1, "/planning", "POST", "/:id/spike", middlewares, planningHandler.HandleSpike)
	apirouter.RegisterRouteWithMiddleware(v1, "/planning", "POST", "/:id/unspike", middlewares, planningHandler.HandleUnspike)
	apirouter.RegisterRouteWithMiddleware(v1, "/planning", "POST", "/:id/cancel", middlewares, planningHandler.HandleCancel)
	apirouter.RegisterRouteWithMiddleware(v1, "/planning", "POST", "/:id/cancel-coverage", middlewares, planningHandler.HandleCancelCoverage)

	return nil
}
