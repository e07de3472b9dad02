// Package planninghdl chứa HTTP handler cho domain Planning (event, planning).
package planninghdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basehdl "planning_api/internal/api/base/handler"
	"planning_api/internal/api/middleware"
	planningdto "planning_api/internal/api/planning/dto"
	planningmodels "planning_api/internal/api/planning/models"
	planningsvc "planning_api/internal/api/planning/service"
	"planning_api/internal/common"
)

// EventHandler xử lý các route CRUD và action vòng đời cho Event.
type EventHandler struct {
	*basehdl.BaseHandler[planningmodels.Event, planningdto.EventCreateInput, planningdto.EventUpdateInput]
	EventService *planningsvc.EventService
}

// NewEventHandler tạo mới EventHandler
func NewEventHandler() (*EventHandler, error) {
	eventService, err := planningsvc.NewEventService()
	if err != nil {
		return nil, fmt.Errorf("failed to create event service: %w", err)
	}

	return &EventHandler{
		BaseHandler:  basehdl.NewBaseHandler[planningmodels.Event, planningdto.EventCreateInput, planningdto.EventUpdateInput](eventService.BaseServiceMongoImpl),
		EventService: eventService,
	}, nil
}

// requestIdentity lấy user/session ObjectID từ Locals (AuthMiddleware đã set).
func requestIdentity(c fiber.Ctx) (primitive.ObjectID, primitive.ObjectID, error) {
	userID, err := primitive.ObjectIDFromHex(middleware.GetUserID(c))
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, common.ErrTokenInvalid
	}
	sessionID, err := primitive.ObjectIDFromHex(middleware.GetSessionID(c))
	if err != nil {
		sessionID = userID
	}
	return userID, sessionID, nil
}

// parseItemID lấy ObjectID từ path param :id.
func parseItemID(c fiber.Ctx) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return primitive.NilObjectID, common.NewBadRequest("ID không phải ObjectID hợp lệ")
	}
	return id, nil
}

// HandleCreateEvent xử lý POST /events/insert-one. Thay cho InsertOne generic
// vì Event có recurringRule phải được nhân bản thành cả chuỗi.
func (h *EventHandler) HandleCreateEvent(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		user, _, err := requestIdentity(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input planningdto.EventCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		created, err := h.EventService.CreateEvent(c.Context(), &input, user)
		h.HandleResponse(c, created, err)
		return nil
	})
}

// HandleLock xử lý POST /events/:id/lock.
func (h *EventHandler) HandleLock(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		user, session, err := requestIdentity(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		id, err := parseItemID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input planningdto.LockInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		locked, err := h.EventService.Lock(c.Context(), id, user, session, input.LockAction)
		h.HandleResponse(c, locked, err)
		return nil
	})
}

// HandleUnlock xử lý POST /events/:id/unlock.
func (h *EventHandler) HandleUnlock(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		user, session, err := requestIdentity(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		id, err := parseItemID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		err = h.EventService.Unlock(c.Context(), id, user, session)
		h.HandleResponse(c, fiber.Map{"unlocked": err == nil}, err)
		return nil
	})
}

// HandleSpike xử lý POST /events/:id/spike.
func (h *EventHandler) HandleSpike(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		user, _, err := requestIdentity(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		id, err := parseItemID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input planningdto.EventSpikeInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		spiked, err := h.EventService.Spike(c.Context(), id, user, input.Scope)
		h.HandleResponse(c, spiked, err)
		return nil
	})
}

// HandleUnspike xử lý POST /events/:id/unspike.
func (h *EventHandler) HandleUnspike(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		user, _, err := requestIdentity(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		id, err := parseItemID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		event, err := h.EventService.Unspike(c.Context(), id, user)
		h.HandleResponse(c, event, err)
		return nil
	})
}

// HandleCancel xử lý POST /events/:id/cancel.
func (h *EventHandler) HandleCancel(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		user, session, err := requestIdentity(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		id, err := parseItemID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input planningdto.EventCancelInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		cancelled, err := h.EventService.Cancel(c.Context(), id, user, session, input.Reason, input.Scope)
		h.HandleResponse(c, cancelled, err)
		return nil
	})
}

// HandlePostpone xử lý POST /events/:id/postpone.
func (h *EventHandler) HandlePostpone(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		user, session, err := requestIdentity(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		id, err := parseItemID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input planningdto.EventPostponeInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		event, err := h.EventService.Postpone(c.Context(), id, user, session, input.Reason)
		h.HandleResponse(c, event, err)
		return nil
	})
}

// HandleReschedule xử lý POST /events/:id/reschedule.
func (h *EventHandler) HandleReschedule(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		user, session, err := requestIdentity(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		id, err := parseItemID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input planningdto.EventRescheduleInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		event, err := h.EventService.Reschedule(c.Context(), id, user, session, &input)
		h.HandleResponse(c, event, err)
		return nil
	})
}

// HandleUpdateRepetitions xử lý POST /events/:id/update-repetitions.
func (h *EventHandler) HandleUpdateRepetitions(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		user, session, err := requestIdentity(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		id, err := parseItemID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input planningdto.EventUpdateRepetitionsInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		series, err := h.EventService.UpdateRepetitions(c.Context(), id, user, session, input.RecurringRule)
		h.HandleResponse(c, series, err)
		return nil
	})
}

// HandleGetTimeline xử lý GET /events/:id/timeline: trả về phân hoạch
// historic/past/future của chuỗi quanh occurrence được chọn.
func (h *EventHandler) HandleGetTimeline(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		id, err := parseItemID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		event, err := h.EventService.FindOneById(c.Context(), id)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		tl, _, err := h.EventService.GetTimeline(c.Context(), &event)
		h.HandleResponse(c, tl, err)
		return nil
	})
}
