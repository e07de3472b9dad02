// Package router đăng ký các route thuộc domain Assignments.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	assignmenthdl "planning_api/internal/api/assignments/handler"
	"planning_api/internal/api/middleware"
	apirouter "planning_api/internal/api/router"
)

// assignmentCRUDConfig tắt insert (tạo qua HandleCreateAssignment để đồng bộ
// coverage) và tắt delete (xóa qua /remove để gỡ assigned_to khỏi coverage).
var assignmentCRUDConfig = func() apirouter.CRUDConfig {
	cfg := apirouter.ReadWriteConfig
	cfg.InsOne = false
	cfg.InsMany = false
	cfg.Upsert = false
	cfg.DelOne = false
	cfg.DelMany = false
	cfg.DelById = false
	cfg.FindDel = false
	return cfg
}()

// Register đăng ký tất cả route Assignments lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	assignmentHandler, err := assignmenthdl.NewAssignmentHandler()
	if err != nil {
		return fmt.Errorf("tạo AssignmentHandler: %w", err)
	}

	middlewares := []fiber.Handler{middleware.AuthMiddleware()}

	r.RegisterCRUDRoutes(v1, "/assignments", assignmentHandler, assignmentCRUDConfig)

	// POST /assignments/insert-one: tạo assignment, ghi assigned_to vào coverage
	apirouter.RegisterRouteWithMiddleware(v1, "/assignments", "POST", "/insert-one", middlewares, assignmentHandler.HandleCreateAssignment)

	// Lock protocol
	apirouter.RegisterRouteWithMiddleware(v1, "/assignments", "POST", "/:id/lock", middlewares, assignmentHandler.HandleLock)
	apirouter.RegisterRouteWithMiddleware(v1, "/assignments", "POST", "/:id/unlock", middlewares, assignmentHandler.HandleUnlock)

	// Actions workflow
	apirouter.RegisterRouteWithMiddleware(v1, "/assignments", "POST", "/:id/reassign", middlewares, assignmentHandler.HandleReassign)
	apirouter.RegisterRouteWithMiddleware(v1, "/assignments", "POST", "/:id/complete", middlewares, assignmentHandler.HandleComplete)
	apirouter.RegisterRouteWithMiddleware(v1, "/assignments", "POST", "/:id/revert", middlewares, assignmentHandler.HandleRevert)
	apirouter.RegisterRouteWithMiddleware(v1, "/assignments", "POST", "/:id/remove", middlewares, assignmentHandler.HandleRemove)

	return nil
}
