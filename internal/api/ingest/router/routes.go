// Package router đăng ký các route thuộc domain Ingest.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	ingesthdl "planning_api/internal/api/ingest/handler"
	"planning_api/internal/api/middleware"
	apirouter "planning_api/internal/api/router"
)

// Register đăng ký các route ingest lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	ingestHandler, err := ingesthdl.NewIngestHandler()
	if err != nil {
		return fmt.Errorf("tạo IngestHandler: %w", err)
	}

	middlewares := []fiber.Handler{middleware.AuthMiddleware()}

	apirouter.RegisterRouteWithMiddleware(v1, "/ingest", "POST", "/ics", middlewares, ingestHandler.HandleICS)
	apirouter.RegisterRouteWithMiddleware(v1, "/ingest", "POST", "/newsml", middlewares, ingestHandler.HandleNewsML)
	apirouter.RegisterRouteWithMiddleware(v1, "/ingest", "POST", "/onclusive", middlewares, ingestHandler.HandleOnclusive)

	return nil
}
