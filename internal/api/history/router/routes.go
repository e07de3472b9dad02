// Package router đăng ký các route thuộc domain History (chỉ đọc).
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	historyhdl "planning_api/internal/api/history/handler"
	apirouter "planning_api/internal/api/router"
	"planning_api/internal/global"
)

// Register đăng ký các route đọc history lên v1, một prefix cho mỗi collection.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	routes := []struct {
		prefix     string
		collection string
	}{
		{"/events-history", global.MongoDB_ColNames.EventsHistory},
		{"/planning-history", global.MongoDB_ColNames.PlanningHistory},
		{"/assignments-history", global.MongoDB_ColNames.AssignmentsHistory},
		{"/coverage-history", global.MongoDB_ColNames.CoverageHistory},
	}

	for _, route := range routes {
		h, err := historyhdl.NewHistoryHandler(route.collection)
		if err != nil {
			return fmt.Errorf("tạo HistoryHandler cho %s: %w", route.collection, err)
		}
		r.RegisterCRUDRoutes(v1, route.prefix, h, apirouter.ReadOnlyConfig)
	}

	return nil
}
