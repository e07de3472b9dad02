// Package router đăng ký các route thuộc domain Delivery: subscriber, queue, history.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	deliveryhdl "planning_api/internal/api/delivery/handler"
	"planning_api/internal/api/middleware"
	apirouter "planning_api/internal/api/router"
)

// subscriberCRUDConfig tắt insert: tạo subscriber đi qua HandleCreateSubscriber
// để mã hóa secret trước khi lưu.
var subscriberCRUDConfig = func() apirouter.CRUDConfig {
	cfg := apirouter.ReadWriteConfig
	cfg.InsOne = false
	cfg.InsMany = false
	cfg.Upsert = false
	return cfg
}()

// Register đăng ký tất cả route delivery lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	subscriberHandler, err := deliveryhdl.NewSubscriberHandler()
	if err != nil {
		return fmt.Errorf("tạo SubscriberHandler: %w", err)
	}
	queueHandler, err := deliveryhdl.NewDeliveryQueueHandler()
	if err != nil {
		return fmt.Errorf("tạo DeliveryQueueHandler: %w", err)
	}
	historyHandler, err := deliveryhdl.NewDeliveryHistoryHandler()
	if err != nil {
		return fmt.Errorf("tạo DeliveryHistoryHandler: %w", err)
	}

	middlewares := []fiber.Handler{middleware.AuthMiddleware()}

	r.RegisterCRUDRoutes(v1, "/delivery/subscribers", subscriberHandler, subscriberCRUDConfig)
	apirouter.RegisterRouteWithMiddleware(v1, "/delivery/subscribers", "POST", "/insert-one", middlewares, subscriberHandler.HandleCreateSubscriber)

	r.RegisterCRUDRoutes(v1, "/delivery/queue", queueHandler, apirouter.ReadOnlyConfig)
	r.RegisterCRUDRoutes(v1, "/delivery/history", historyHandler, apirouter.ReadOnlyConfig)

	return nil
}
