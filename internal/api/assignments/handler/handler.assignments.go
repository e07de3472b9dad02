// Package assignmenthdl chứa HTTP handler cho domain Assignments.
package assignmenthdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	assignmentdto "planning_api/internal/api/assignments/dto"
	assignmentmodels "planning_api/internal/api/assignments/models"
	assignmentsvc "planning_api/internal/api/assignments/service"
	basehdl "planning_api/internal/api/base/handler"
	"planning_api/internal/api/middleware"
	"planning_api/internal/common"
)

// AssignmentHandler xử lý các route CRUD và action workflow cho Assignment.
type AssignmentHandler struct {
	*basehdl.BaseHandler[assignmentmodels.Assignment, assignmentdto.AssignmentCreateInput, assignmentdto.AssignmentUpdateInput]
	AssignmentService *assignmentsvc.AssignmentService
}

// NewAssignmentHandler tạo mới AssignmentHandler
func NewAssignmentHandler() (*AssignmentHandler, error) {
	assignmentService, err := assignmentsvc.NewAssignmentService()
	if err != nil {
		return nil, fmt.Errorf("failed to create assignment service: %w", err)
	}

	return &AssignmentHandler{
		BaseHandler:       basehdl.NewBaseHandler[assignmentmodels.Assignment, assignmentdto.AssignmentCreateInput, assignmentdto.AssignmentUpdateInput](assignmentService.BaseServiceMongoImpl),
		AssignmentService: assignmentService,
	}, nil
}

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

func parseItemID(c fiber.Ctx) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return primitive.NilObjectID, common.NewBadRequest("ID không phải ObjectID hợp lệ")
	}
	return id, nil
}

// HandleCreateAssignment xử lý POST /assignments/insert-one. Thay cho InsertOne
// generic vì tạo assignment phải ghi ngược assigned_to vào coverage nhúng.
func (h *AssignmentHandler) HandleCreateAssignment(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		user, _, err := requestIdentity(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		var input assignmentdto.AssignmentCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		created, err := h.AssignmentService.CreateAssignment(c.Context(), &input, user)
		h.HandleResponse(c, created, err)
		return nil
	})
}

// HandleReassign xử lý POST /assignments/:id/reassign.
func (h *AssignmentHandler) HandleReassign(c fiber.Ctx) error {
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
		var input assignmentdto.AssignmentReassignInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		updated, err := h.AssignmentService.Reassign(c.Context(), id, &input, user, session)
		h.HandleResponse(c, updated, err)
		return nil
	})
}

// HandleComplete xử lý POST /assignments/:id/complete.
func (h *AssignmentHandler) HandleComplete(c fiber.Ctx) error {
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
		completed, err := h.AssignmentService.Complete(c.Context(), id, user, session)
		h.HandleResponse(c, completed, err)
		return nil
	})
}

// HandleRevert xử lý POST /assignments/:id/revert.
func (h *AssignmentHandler) HandleRevert(c fiber.Ctx) error {
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
		reverted, err := h.AssignmentService.Revert(c.Context(), id, user, session)
		h.HandleResponse(c, reverted, err)
		return nil
	})
}

// HandleRemove xử lý POST /assignments/:id/remove.
func (h *AssignmentHandler) HandleRemove(c fiber.Ctx) error {
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
		err = h.AssignmentService.Remove(c.Context(), id, user)
		h.HandleResponse(c, fiber.Map{"removed": err == nil}, err)
		return nil
	})
}

// HandleLock xử lý POST /assignments/:id/lock.
func (h *AssignmentHandler) HandleLock(c fiber.Ctx) error {
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
		var input assignmentdto.AssignmentLockInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		locked, err := h.AssignmentService.Lock(c.Context(), id, user, session, input.LockAction)
		h.HandleResponse(c, locked, err)
		return nil
	})
}

// HandleUnlock xử lý POST /assignments/:id/unlock.
func (h *AssignmentHandler) HandleUnlock(c fiber.Ctx) error {
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
		err = h.AssignmentService.Unlock(c.Context(), id, user, session)
		h.HandleResponse(c, fiber.Map{"unlocked": err == nil}, err)
		return nil
	})
}
