// Package assignmentsvc chứa service cho domain Assignments. Đồng bộ ngược
// lên coverage nhúng trong planning item đi qua collection planning để tránh
// import vòng với domain planning.
package assignmentsvc

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	assignmentdto "planning_api/internal/api/assignments/dto"
	assignmentmodels "planning_api/internal/api/assignments/models"
	basesvc "planning_api/internal/api/base/service"
	planningmodels "planning_api/internal/api/planning/models"
	"planning_api/internal/common"
	"planning_api/internal/global"
	"planning_api/internal/itemlock"
	"planning_api/internal/logger"
	"planning_api/internal/notification"
)

// AssignmentService xử lý CRUD và workflow của Assignment.
type AssignmentService struct {
	*basesvc.BaseServiceMongoImpl[assignmentmodels.Assignment]
	locker   *itemlock.Locker
	planning *mongo.Collection
}

// NewAssignmentService tạo AssignmentService mới.
func NewAssignmentService() (*AssignmentService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Assignments)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.Assignments, common.ErrNotFound)
	}
	planning, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Planning)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.Planning, common.ErrNotFound)
	}
	locker, err := itemlock.NewLocker()
	if err != nil {
		return nil, err
	}
	return &AssignmentService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[assignmentmodels.Assignment](coll),
		locker:               locker,
		planning:             planning,
	}, nil
}

// parseOptionalID parse hex ObjectID, chuỗi rỗng trả về NilObjectID.
func parseOptionalID(hex, field string) (primitive.ObjectID, error) {
	if hex == "" {
		return primitive.NilObjectID, nil
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, common.NewBadRequest(field + " không phải ObjectID hợp lệ")
	}
	return id, nil
}

// initialState suy trạng thái khởi tạo từ desk/user được giao.
func initialState(desk primitive.ObjectID) string {
	if desk.IsZero() {
		return assignmentmodels.StateDraft
	}
	return assignmentmodels.StateAssigned
}

// validateAssignee kiểm tra invariant giao việc: user phải đi kèm desk.
func validateAssignee(desk, user primitive.ObjectID) error {
	if !user.IsZero() && desk.IsZero() {
		return common.NewBadRequest("Không thể giao cho user mà không có desk")
	}
	return nil
}

var errCompleteNotInProgress = common.NewBadRequest("Cannot complete. Assignment not in progress.")

// completionAllowed kiểm tra trạng thái hiện tại có cho phép complete không.
// Coverage text phải đang in_progress vì content được sản xuất qua hệ thống;
// loại khác được complete sớm từ assigned/submitted.
func completionAllowed(contentType, state string) bool {
	if contentType == planningmodels.ContentTypeText {
		return state == assignmentmodels.StateInProgress
	}
	switch state {
	case assignmentmodels.StateInProgress, assignmentmodels.StateAssigned, assignmentmodels.StateSubmitted:
		return true
	}
	return false
}

// CreateAssignment tạo Assignment cho một Coverage của Planning item và ghi
// ngược assigned_to vào coverage nhúng. Coverage đã có assignment hoặc đã hủy
// bị từ chối.
func (s *AssignmentService) CreateAssignment(ctx context.Context, input *assignmentdto.AssignmentCreateInput, userID primitive.ObjectID) (*assignmentmodels.Assignment, error) {
	planningID, err := primitive.ObjectIDFromHex(input.PlanningItem)
	if err != nil {
		return nil, common.NewBadRequest("planningItem không phải ObjectID hợp lệ")
	}
	coverageID, err := primitive.ObjectIDFromHex(input.CoverageItem)
	if err != nil {
		return nil, common.NewBadRequest("coverageItem không phải ObjectID hợp lệ")
	}
	desk, err := parseOptionalID(input.Desk, "desk")
	if err != nil {
		return nil, err
	}
	user, err := parseOptionalID(input.User, "user")
	if err != nil {
		return nil, err
	}
	if err := validateAssignee(desk, user); err != nil {
		return nil, err
	}

	var p planningmodels.Planning
	if err := s.planning.FindOne(ctx, bson.M{"_id": planningID}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, common.NewBadRequest("Không tìm thấy planning item")
		}
		return nil, common.ConvertMongoError(err)
	}
	if planningmodels.IsTerminalState(p.State) {
		return nil, common.NewBadRequest("Planning item đã kết thúc, không giao việc được")
	}
	cov := p.FindCoverage(coverageID)
	if cov == nil {
		return nil, common.NewBadRequest("Không tìm thấy coverage trong planning item")
	}
	if cov.WorkflowStatus == planningmodels.CoverageStatusCancelled {
		return nil, common.NewBadRequest("Coverage đã bị hủy")
	}
	if cov.AssignedTo != nil && !cov.AssignedTo.AssignmentID.IsZero() {
		return nil, common.NewBadRequest("Coverage đã có assignment")
	}

	now := time.Now().UnixMilli()
	doc := assignmentmodels.Assignment{
		PlanningItem: planningID,
		CoverageItem: coverageID,
		AssignedTo: assignmentmodels.AssignedTo{
			Desk:         desk,
			User:         user,
			State:        initialState(desk),
			AssignedDate: now,
		},
		Planning:    cov.Planning,
		Priority:    input.Priority,
		Description: input.Description,
		CreatedBy:   userID,
	}

	created, err := s.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}

	if err := s.syncCoverage(ctx, &created); err != nil {
		// Assignment đã tạo xong, đồng bộ coverage lỗi chỉ log
		logger.GetErrorLogger().WithError(err).WithFields(logrus.Fields{
			"assignment": created.ID.Hex(),
			"planning":   planningID.Hex(),
		}).Error("Ghi assigned_to vào coverage thất bại")
	}

	notification.PushNotification(ctx, notification.NameAssignmentsAdded, map[string]interface{}{
		"item":     created.ID.Hex(),
		"planning": planningID.Hex(),
		"coverage": coverageID.Hex(),
		"user":     userID.Hex(),
	})
	return &created, nil
}

// Reassign đổi desk/user của Assignment. Assignment đã link content thì không
// được đổi desk (content đang nằm trong output của desk cũ).
func (s *AssignmentService) Reassign(ctx context.Context, assignmentID primitive.ObjectID, input *assignmentdto.AssignmentReassignInput, user, session primitive.ObjectID) (*assignmentmodels.Assignment, error) {
	a, err := s.FindOneById(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if a.IsTerminal() {
		return nil, common.NewBadRequest("Assignment đã kết thúc vòng đời")
	}
	if err := requireHeldBy(a.LockFields, user, session); err != nil {
		return nil, err
	}

	desk, err := parseOptionalID(input.Desk, "desk")
	if err != nil {
		return nil, err
	}
	assignee, err := parseOptionalID(input.User, "user")
	if err != nil {
		return nil, err
	}
	if err := validateAssignee(desk, assignee); err != nil {
		return nil, err
	}
	if a.LinkedToContent() && desk != a.AssignedTo.Desk {
		return nil, common.NewBadRequest("Assignment linked to content. Desk reassignment not allowed.")
	}

	state := a.AssignedTo.State
	if state == assignmentmodels.StateDraft && !desk.IsZero() {
		state = assignmentmodels.StateAssigned
	}

	updated, err := s.UpdateOne(ctx, bson.M{"_id": assignmentID}, bson.M{
		"$set": bson.M{
			"assigned_to.desk":          desk,
			"assigned_to.user":          assignee,
			"assigned_to.state":         state,
			"assigned_to.assigned_date": time.Now().UnixMilli(),
			"updatedAt":                 time.Now().UnixMilli(),
		},
		"$unset": bson.M{
			"lock_user": "", "lock_session": "", "lock_action": "", "lock_time": "",
		},
	}, nil)
	if err != nil {
		return nil, err
	}

	if err := s.syncCoverage(ctx, &updated); err != nil {
		logger.GetErrorLogger().WithError(err).WithFields(logrus.Fields{
			"assignment": assignmentID.Hex(),
		}).Error("Đồng bộ coverage sau reassign thất bại")
	}

	notification.PushNotification(ctx, notification.NameAssignmentsUpdated, map[string]interface{}{
		"item": assignmentID.Hex(),
		"user": user.Hex(),
	})
	return &updated, nil
}

// Complete hoàn thành Assignment. Coverage text phải đang in_progress (content
// được sản xuất qua hệ thống); coverage loại khác được complete sớm từ
// assigned/submitted, trạng thái cũ lưu vào revert_state để Revert khôi phục.
func (s *AssignmentService) Complete(ctx context.Context, assignmentID, user, session primitive.ObjectID) (*assignmentmodels.Assignment, error) {
	a, err := s.FindOneById(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if a.IsTerminal() {
		return nil, common.NewBadRequest("Assignment đã kết thúc vòng đời")
	}
	if err := requireHeldBy(a.LockFields, user, session); err != nil {
		return nil, err
	}

	state := a.AssignedTo.State
	if !completionAllowed(a.Planning.G2ContentType, state) {
		return nil, errCompleteNotInProgress
	}

	updated, err := s.UpdateOne(ctx, bson.M{"_id": assignmentID}, bson.M{
		"$set": bson.M{
			"assigned_to.state": assignmentmodels.StateCompleted,
			"revert_state":      state,
			"updatedAt":         time.Now().UnixMilli(),
		},
		"$unset": bson.M{
			"lock_user": "", "lock_session": "", "lock_action": "", "lock_time": "",
		},
	}, nil)
	if err != nil {
		return nil, err
	}

	if err := s.syncCoverage(ctx, &updated); err != nil {
		logger.GetErrorLogger().WithError(err).WithFields(logrus.Fields{
			"assignment": assignmentID.Hex(),
		}).Error("Đồng bộ coverage sau complete thất bại")
	}

	notification.PushNotification(ctx, notification.NameAssignmentsCompleted, map[string]interface{}{
		"item": assignmentID.Hex(),
		"user": user.Hex(),
	})
	return &updated, nil
}

// Revert khôi phục Assignment đã complete về trạng thái trước đó.
func (s *AssignmentService) Revert(ctx context.Context, assignmentID, user, session primitive.ObjectID) (*assignmentmodels.Assignment, error) {
	a, err := s.FindOneById(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if a.AssignedTo.State != assignmentmodels.StateCompleted {
		return nil, common.NewBadRequest("Assignment chưa complete, không revert được")
	}
	if err := requireHeldBy(a.LockFields, user, session); err != nil {
		return nil, err
	}

	restored := a.RevertState
	if restored == "" {
		restored = assignmentmodels.StateAssigned
	}
	updated, err := s.UpdateOne(ctx, bson.M{"_id": assignmentID}, bson.M{
		"$set": bson.M{
			"assigned_to.state": restored,
			"updatedAt":         time.Now().UnixMilli(),
		},
		"$unset": bson.M{
			"revert_state": "",
			"lock_user":    "", "lock_session": "", "lock_action": "", "lock_time": "",
		},
	}, nil)
	if err != nil {
		return nil, err
	}

	if err := s.syncCoverage(ctx, &updated); err != nil {
		logger.GetErrorLogger().WithError(err).WithFields(logrus.Fields{
			"assignment": assignmentID.Hex(),
		}).Error("Đồng bộ coverage sau revert thất bại")
	}

	notification.PushNotification(ctx, notification.NameAssignmentsReverted, map[string]interface{}{
		"item": assignmentID.Hex(),
		"user": user.Hex(),
	})
	return &updated, nil
}

// Remove xóa hẳn Assignment và gỡ assigned_to khỏi coverage nhúng.
// Assignment đang bị người khác giữ lock thì không xóa được.
func (s *AssignmentService) Remove(ctx context.Context, assignmentID, user primitive.ObjectID) error {
	a, err := s.FindOneById(ctx, assignmentID)
	if err != nil {
		return err
	}
	if a.IsLocked() && a.LockUser != user {
		return common.ErrLockedByAnotherUser
	}

	if err := s.DeleteOne(ctx, bson.M{"_id": assignmentID}); err != nil {
		return err
	}

	filter := detachCoverageFilter(a.PlanningItem, a.CoverageItem, assignmentID)
	update := bson.M{
		"$unset": bson.M{"coverages.$.assigned_to": ""},
		"$set":   bson.M{"updatedAt": time.Now().UnixMilli()},
	}
	if _, err := s.planning.UpdateOne(ctx, filter, update); err != nil {
		logger.GetErrorLogger().WithError(err).WithFields(logrus.Fields{
			"assignment": assignmentID.Hex(),
			"planning":   a.PlanningItem.Hex(),
		}).Error("Gỡ assigned_to khỏi coverage thất bại")
	}

	notification.PushNotification(ctx, notification.NameAssignmentsRemoved, map[string]interface{}{
		"item":     assignmentID.Hex(),
		"planning": a.PlanningItem.Hex(),
		"coverage": a.CoverageItem.Hex(),
		"user":     user.Hex(),
	})
	return nil
}

// detachCoverageFilter khớp planning item trên đúng phần tử coverage đang giữ
// assignment. Hai điều kiện phải nằm chung trong $elemMatch để positional $
// của $unset trỏ vào chính phần tử đó, không phải phần tử khác trong mảng.
func detachCoverageFilter(planningID, coverageID, assignmentID primitive.ObjectID) bson.M {
	return bson.M{
		"_id": planningID,
		"coverages": bson.M{"$elemMatch": bson.M{
			"coverage_id":               coverageID,
			"assigned_to.assignment_id": assignmentID,
		}},
	}
}

// syncCoverage ghi assigned_to hiện tại của Assignment vào coverage nhúng
// tương ứng trong planning item.
func (s *AssignmentService) syncCoverage(ctx context.Context, a *assignmentmodels.Assignment) error {
	filter := bson.M{
		"_id":                   a.PlanningItem,
		"coverages.coverage_id": a.CoverageItem,
	}
	update := bson.M{
		"$set": bson.M{
			"coverages.$.assigned_to": planningmodels.CoverageAssignedTo{
				AssignmentID: a.ID,
				Desk:         a.AssignedTo.Desk,
				User:         a.AssignedTo.User,
				State:        a.AssignedTo.State,
			},
			"updatedAt": time.Now().UnixMilli(),
		},
	}
	if _, err := s.planning.UpdateOne(ctx, filter, update); err != nil {
		return common.ConvertMongoError(err)
	}
	return nil
}

// requireHeldBy kiểm tra caller đang giữ lock trên assignment.
func requireHeldBy(lf itemlock.LockFields, user, session primitive.ObjectID) error {
	if !lf.IsLocked() {
		return common.ErrItemNotLocked
	}
	return lf.ClassifyConflict(user, session)
}

// Lock chiếm lock trên một Assignment.
func (s *AssignmentService) Lock(ctx context.Context, assignmentID, user, session primitive.ObjectID, action string) (*itemlock.LockFields, error) {
	return s.locker.Lock(ctx, s.Collection(), global.MongoDB_ColNames.Assignments, assignmentID, user, session, action)
}

// Unlock nhả lock trên một Assignment.
func (s *AssignmentService) Unlock(ctx context.Context, assignmentID, user, session primitive.ObjectID) error {
	return s.locker.Unlock(ctx, s.Collection(), global.MongoDB_ColNames.Assignments, assignmentID, user, session, false)
}
