package planninghdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basehdl "planning_api/internal/api/base/handler"
	planningdto "planning_api/internal/api/planning/dto"
	planningmodels "planning_api/internal/api/planning/models"
	planningsvc "planning_api/internal/api/planning/service"
	"planning_api/internal/common"
)

// PlanningHandler xử lý các route CRUD và action vòng đời cho Planning item.
type PlanningHandler struct {
	*basehdl.BaseHandler[planningmodels.Planning, planningdto.PlanningCreateInput, planningdto.PlanningUpdateInput]
	PlanningService *planningsvc.PlanningService
}

// NewPlanningHandler tạo mới PlanningHandler
func NewPlanningHandler() (*PlanningHandler, error) {
	planningService, err := planningsvc.NewPlanningService()
	if err != nil {
		return nil, fmt.Errorf("failed to create planning service: %w", err)
	}

	return &PlanningHandler{
		BaseHandler:     basehdl.NewBaseHandler[planningmodels.Planning, planningdto.PlanningCreateInput, planningdto.PlanningUpdateInput](planningService.BaseServiceMongoImpl),
		PlanningService: planningService,
	}, nil
}

// HandleCreatePlanning xử lý POST /planning/insert-one. Thay cho InsertOne
// generic vì recurrence_id phải được chép từ Event cha, không nhận từ client.
func (h *PlanningHandler) HandleCreatePlanning(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		user, _, err := requestIdentity(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input planningdto.PlanningCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		created, err := h.PlanningService.CreatePlanning(c.Context(), &input, user)
		h.HandleResponse(c, created, err)
		return nil
	})
}

// HandleLock xử lý POST /planning/:id/lock.
func (h *PlanningHandler) HandleLock(c fiber.Ctx) error {
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
		locked, err := h.PlanningService.Lock(c.Context(), id, user, session, input.LockAction)
		h.HandleResponse(c, locked, err)
		return nil
	})
}

// HandleUnlock xử lý POST /planning/:id/unlock.
func (h *PlanningHandler) HandleUnlock(c fiber.Ctx) error {
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
		err = h.PlanningService.Unlock(c.Context(), id, user, session)
		h.HandleResponse(c, fiber.Map{"unlocked": err == nil}, err)
		return nil
	})
}

// HandleSpike xử lý POST /planning/:id/spike.
func (h *PlanningHandler) HandleSpike(c fiber.Ctx) error {
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
		spiked, err := h.PlanningService.SpikePlanning(c.Context(), id, user)
		h.HandleResponse(c, spiked, err)
		return nil
	})
}

// HandleUnspike xử lý POST /planning/:id/unspike.
func (h *PlanningHandler) HandleUnspike(c fiber.Ctx) error {
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
		item, err := h.PlanningService.UnspikePlanning(c.Context(), id, user)
		h.HandleResponse(c, item, err)
		return nil
	})
}

// HandleCancel xử lý POST /planning/:id/cancel.
func (h *PlanningHandler) HandleCancel(c fiber.Ctx) error {
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
		var input planningdto.PlanningCancelInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		cancelled, err := h.PlanningService.CancelPlanning(c.Context(), id, input.Reason, false, user, session)
		h.HandleResponse(c, cancelled, err)
		return nil
	})
}

// HandleCancelCoverage xử lý POST /planning/:id/cancel-coverage.
func (h *PlanningHandler) HandleCancelCoverage(c fiber.Ctx) error {
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
		var input planningdto.CoverageCancelInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		coverageID, err := primitive.ObjectIDFromHex(input.CoverageID)
		if err != nil {
			h.HandleResponse(c, nil, common.NewBadRequest("coverageId không phải ObjectID hợp lệ"))
			return nil
		}
		updated, err := h.PlanningService.CancelCoverage(c.Context(), id, coverageID, input.Reason, user, session)
		h.HandleResponse(c, updated, err)
		return nil
	})
}
