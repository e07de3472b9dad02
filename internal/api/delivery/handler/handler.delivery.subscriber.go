// Package deliveryhdl chứa HTTP handler cho domain Delivery.
package deliveryhdl

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"

	basehdl "planning_api/internal/api/base/handler"
	deliverydto "planning_api/internal/api/delivery/dto"
	deliverymodels "planning_api/internal/api/delivery/models"
	deliverysvc "planning_api/internal/api/delivery/service"
	"planning_api/internal/delivery"
)

// SubscriberHandler xử lý CRUD cho Subscriber.
type SubscriberHandler struct {
	*basehdl.BaseHandler[deliverymodels.Subscriber, deliverydto.SubscriberCreateInput, deliverydto.SubscriberUpdateInput]
	SubscriberService *deliverysvc.SubscriberService
}

// NewSubscriberHandler tạo mới SubscriberHandler
func NewSubscriberHandler() (*SubscriberHandler, error) {
	subscriberService, err := deliverysvc.NewSubscriberService()
	if err != nil {
		return nil, fmt.Errorf("failed to create subscriber service: %w", err)
	}

	return &SubscriberHandler{
		BaseHandler:       basehdl.NewBaseHandler[deliverymodels.Subscriber, deliverydto.SubscriberCreateInput, deliverydto.SubscriberUpdateInput](subscriberService.BaseServiceMongoImpl),
		SubscriberService: subscriberService,
	}, nil
}

// HandleCreateSubscriber xử lý POST /delivery/subscribers/insert-one.
// Thay cho InsertOne generic vì secret phải được mã hóa trước khi lưu.
func (h *SubscriberHandler) HandleCreateSubscriber(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var input deliverydto.SubscriberCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		active := true
		if input.Active != nil {
			active = *input.Active
		}
		sub := deliverymodels.Subscriber{
			Name:        input.Name,
			ChannelType: input.ChannelType,
			Target:      input.Target,
			Topics:      input.Topics,
			Active:      active,
			CreatedAt:   time.Now().UnixMilli(),
			UpdatedAt:   time.Now().UnixMilli(),
		}
		if input.Secret != "" {
			encrypted, err := delivery.EncryptSubscriberSecret([]byte(input.Secret))
			if err != nil {
				h.HandleResponse(c, nil, err)
				return nil
			}
			sub.EncryptedSecret = encrypted
		}

		created, err := h.SubscriberService.InsertOne(c.Context(), sub)
		h.HandleResponse(c, created, err)
		return nil
	})
}
