// Package router đăng ký các route thuộc domain auth: Auth, Users, Desks, System.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	authhdl "planning_api/internal/api/auth/handler"
	basehdl "planning_api/internal/api/base/handler"
	"planning_api/internal/api/middleware"
	apirouter "planning_api/internal/api/router"
)

// userCRUDConfig tắt insert: tạo user đi qua HandleCreateUser để băm mật khẩu.
var userCRUDConfig = func() apirouter.CRUDConfig {
	cfg := apirouter.ReadWriteConfig
	cfg.InsOne = false
	cfg.InsMany = false
	cfg.Upsert = false
	return cfg
}()

// Register đăng ký tất cả route auth (system, auth, users, desks) lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	if err := registerSystemRoutes(v1); err != nil {
		return err
	}
	if err := registerAuthRoutes(v1, r); err != nil {
		return err
	}
	return registerDeskRoutes(v1, r)
}

func registerSystemRoutes(router fiber.Router) error {
	systemHandler, err := basehdl.NewSystemHandler()
	if err != nil {
		return fmt.Errorf("failed to create system handler: %w", err)
	}
	router.Get("/system/health", systemHandler.HandleHealth)
	return nil
}

func registerAuthRoutes(v1 fiber.Router, r *apirouter.Router) error {
	userHandler, err := authhdl.NewUserHandler()
	if err != nil {
		return fmt.Errorf("failed to create user handler: %w", err)
	}

	middlewares := []fiber.Handler{middleware.AuthMiddleware()}

	// Login không cần token
	apirouter.RegisterRouteWithMiddleware(v1, "/auth", "POST", "/login", nil, userHandler.HandleLogin)

	apirouter.RegisterRouteWithMiddleware(v1, "/auth", "POST", "/logout", middlewares, userHandler.HandleLogout)
	apirouter.RegisterRouteWithMiddleware(v1, "/auth", "GET", "/profile", middlewares, userHandler.HandleGetProfile)
	apirouter.RegisterRouteWithMiddleware(v1, "/auth", "PUT", "/profile", middlewares, userHandler.HandleUpdateProfile)
	apirouter.RegisterRouteWithMiddleware(v1, "/auth", "POST", "/change-password", middlewares, userHandler.HandleChangePassword)

	// ===== Users =====
	r.RegisterCRUDRoutes(v1, "/users", userHandler, userCRUDConfig)
	apirouter.RegisterRouteWithMiddleware(v1, "/users", "POST", "/insert-one", middlewares, userHandler.HandleCreateUser)
	apirouter.RegisterRouteWithMiddleware(v1, "/users", "POST", "/block", middlewares, userHandler.HandleBlockUser)
	apirouter.RegisterRouteWithMiddleware(v1, "/users", "POST", "/unblock", middlewares, userHandler.HandleUnBlockUser)

	return nil
}

func registerDeskRoutes(v1 fiber.Router, r *apirouter.Router) error {
	deskHandler, err := authhdl.NewDeskHandler()
	if err != nil {
		return fmt.Errorf("failed to create desk handler: %w", err)
	}
	r.RegisterCRUDRoutes(v1, "/desks", deskHandler, apirouter.ReadWriteConfig)
	return nil
}
