package planningsvc

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"

	basesvc "planning_api/internal/api/base/service"
	planningdto "planning_api/internal/api/planning/dto"
	planningmodels "planning_api/internal/api/planning/models"
	"planning_api/internal/common"
	"planning_api/internal/global"
	"planning_api/internal/itemlock"
	"planning_api/internal/logger"
	"planning_api/internal/notification"
)

// PlanningService xử lý CRUD và các action vòng đời của Planning item,
// bao gồm cascade xuống Coverage (nhúng) và Assignment (collection riêng).
type PlanningService struct {
	*basesvc.BaseServiceMongoImpl[planningmodels.Planning]
	locker *itemlock.Locker
	events *mongo.Collection
}

// NewPlanningService tạo PlanningService mới.
func NewPlanningService() (*PlanningService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Planning)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.Planning, common.ErrNotFound)
	}
	events, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Events)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.Events, common.ErrNotFound)
	}
	locker, err := itemlock.NewLocker()
	if err != nil {
		return nil, err
	}
	return &PlanningService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[planningmodels.Planning](coll),
		locker:               locker,
		events:               events,
	}, nil
}

// CreatePlanning tạo Planning item mới. Nếu gắn với Event, recurrence_id được
// chép từ Event cha: client không tự đặt được (invariant của chuỗi lặp).
func (s *PlanningService) CreatePlanning(ctx context.Context, input *planningdto.PlanningCreateInput, userID primitive.ObjectID) (*planningmodels.Planning, error) {
	doc := planningmodels.Planning{
		Slugline:     input.Slugline,
		Headline:     input.Headline,
		Description:  input.Description,
		Note:         input.Note,
		PlanningDate: input.PlanningDate,
		Coverages:    input.Coverages,
		CreatedBy:    userID,
	}

	if input.EventItem != "" {
		eventID, err := primitive.ObjectIDFromHex(input.EventItem)
		if err != nil {
			return nil, common.NewBadRequest("eventItem không phải ObjectID hợp lệ")
		}
		var event planningmodels.Event
		if err := s.events.FindOne(ctx, bson.M{"_id": eventID}).Decode(&event); err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, common.NewBadRequest("Không tìm thấy event để gắn planning")
			}
			return nil, common.ConvertMongoError(err)
		}
		if event.State == planningmodels.StateSpiked || event.State == planningmodels.StateKilled {
			return nil, common.NewBadRequest("Không thể tạo planning cho event đã spike")
		}
		doc.EventItem = eventID
		doc.RecurrenceID = event.RecurrenceID
	}

	normalizeCoverages(doc.Coverages)

	created, err := s.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	notification.PushNotification(ctx, notification.NamePlanningCreated, map[string]interface{}{
		"item": created.ID.Hex(),
		"user": userID.Hex(),
	})
	return &created, nil
}

// normalizeCoverages cấp coverage_id cho coverage mới và đưa workflow_status
// về draft nếu client không gửi.
func normalizeCoverages(coverages []planningmodels.Coverage) {
	for i := range coverages {
		if coverages[i].CoverageID.IsZero() {
			coverages[i].CoverageID = primitive.NewObjectID()
		}
		if coverages[i].WorkflowStatus == "" {
			coverages[i].WorkflowStatus = planningmodels.CoverageStatusDraft
		}
	}
}

// FindByEvent trả về các Planning item gắn với một Event.
func (s *PlanningService) FindByEvent(ctx context.Context, eventID primitive.ObjectID) ([]planningmodels.Planning, error) {
	opts := mongoopts.Find().SetSort(bson.D{{Key: "planning_date", Value: 1}})
	return s.Find(ctx, bson.M{"event_item": eventID}, opts)
}

// AnyLockedByOther kiểm tra có Planning item nào của Event đang bị người khác
// giữ lock không. Spike Event bị chặn khi điều này đúng.
func (s *PlanningService) AnyLockedByOther(ctx context.Context, eventID, user primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"event_item": eventID,
		"lock_user":  bson.M{"$exists": true, "$nin": bson.A{primitive.NilObjectID, user}},
	}
	return s.DocumentExists(ctx, filter)
}

// SpikePlanning đánh dấu Planning item spiked: lưu revert_state, set expiry,
// xóa lock fields ngay trong cùng update (spike chính là thao tác đổi trạng
// thái nên không đi qua đường unlock thường).
func (s *PlanningService) SpikePlanning(ctx context.Context, planningID, user primitive.ObjectID) (*planningmodels.Planning, error) {
	p, err := s.FindOneById(ctx, planningID)
	if err != nil {
		return nil, err
	}
	if p.State == planningmodels.StateSpiked {
		return nil, common.NewBadRequest("Planning item đã spike")
	}
	if p.IsLocked() && p.LockUser != user {
		return nil, common.ErrLockedByAnotherUser
	}

	updated, err := s.UpdateOne(ctx, bson.M{"_id": planningID}, bson.M{
		"$set": bson.M{
			"state":        planningmodels.StateSpiked,
			"revert_state": p.State,
			"expiry_at":    spikeExpiry(),
			"updatedAt":    time.Now().UnixMilli(),
		},
		"$unset": bson.M{
			"lock_user": "", "lock_session": "", "lock_action": "", "lock_time": "",
		},
	}, nil)
	if err != nil {
		return nil, err
	}
	notification.PushNotification(ctx, notification.NamePlanningSpiked, map[string]interface{}{
		"item": planningID.Hex(),
		"user": user.Hex(),
	})
	return &updated, nil
}

// UnspikePlanning khôi phục Planning item đã spike về trạng thái trước đó.
func (s *PlanningService) UnspikePlanning(ctx context.Context, planningID, user primitive.ObjectID) (*planningmodels.Planning, error) {
	p, err := s.FindOneById(ctx, planningID)
	if err != nil {
		return nil, err
	}
	if p.State != planningmodels.StateSpiked {
		return nil, common.NewBadRequest("Planning item chưa spike")
	}

	restored := p.RevertState
	if restored == "" {
		restored = planningmodels.StateDraft
	}
	updated, err := s.UpdateOne(ctx, bson.M{"_id": planningID}, bson.M{
		"$set":   bson.M{"state": restored, "updatedAt": time.Now().UnixMilli()},
		"$unset": bson.M{"revert_state": "", "expiry_at": ""},
	}, nil)
	if err != nil {
		return nil, err
	}
	notification.PushNotification(ctx, notification.NamePlanningUnspiked, map[string]interface{}{
		"item": planningID.Hex(),
		"user": user.Hex(),
	})
	return &updated, nil
}

// CancelPlanning hủy một Planning item và cascade xuống mọi Coverage chưa hủy
// rồi xuống các Assignment tương ứng. byCascade=true khi được Event cancel gọi:
// item đã hủy được bỏ qua thay vì báo lỗi, và không yêu cầu caller giữ lock
// (lock đã được kiểm ở Event).
func (s *PlanningService) CancelPlanning(ctx context.Context, planningID primitive.ObjectID, reason string, byCascade bool, user, session primitive.ObjectID) (*planningmodels.Planning, error) {
	p, err := s.FindOneById(ctx, planningID)
	if err != nil {
		return nil, err
	}
	if p.State == planningmodels.StateCancelled {
		if byCascade {
			return &p, nil
		}
		return nil, common.NewBadRequest("Planning item đã bị hủy")
	}
	if !byCascade {
		if err := requireHeldBy(p.LockFields, user, session); err != nil {
			return nil, err
		}
	}

	assignmentIDs := cancelEmbeddedCoverages(p.Coverages)

	updated, err := s.UpdateOne(ctx, bson.M{"_id": planningID}, bson.M{
		"$set": bson.M{
			"state":     planningmodels.StateCancelled,
			"note":      appendNote(p.Note, "Planning Cancelled", reason),
			"coverages": p.Coverages,
			"updatedAt": time.Now().UnixMilli(),
		},
		"$unset": bson.M{
			"lock_user": "", "lock_session": "", "lock_action": "", "lock_time": "",
		},
	}, nil)
	if err != nil {
		return nil, err
	}

	// Planning đã hủy xong thì giữ nguyên (không rollback), nhưng lỗi
	// cascade assignment vẫn phải nổi lên caller
	if err := s.cancelAssignments(ctx, assignmentIDs); err != nil {
		logger.GetErrorLogger().WithError(err).WithFields(logrus.Fields{
			"planning": planningID.Hex(),
		}).Error("Hủy assignment theo planning thất bại")
		return nil, err
	}

	notification.PushNotification(ctx, notification.NamePlanningCancelled, map[string]interface{}{
		"item":   planningID.Hex(),
		"user":   user.Hex(),
		"reason": reason,
	})
	return &updated, nil
}

// CancelCoverage hủy một Coverage trong Planning item, cascade xuống
// Assignment của coverage đó. Yêu cầu caller giữ lock trên planning.
func (s *PlanningService) CancelCoverage(ctx context.Context, planningID, coverageID primitive.ObjectID, reason string, user, session primitive.ObjectID) (*planningmodels.Planning, error) {
	p, err := s.FindOneById(ctx, planningID)
	if err != nil {
		return nil, err
	}
	if err := requireHeldBy(p.LockFields, user, session); err != nil {
		return nil, err
	}

	cov := p.FindCoverage(coverageID)
	if cov == nil {
		return nil, common.NewBadRequest("Không tìm thấy coverage trong planning item")
	}
	if cov.WorkflowStatus == planningmodels.CoverageStatusCancelled {
		return nil, common.NewBadRequest("Coverage đã bị hủy")
	}

	idx := indexOfCoverage(p.Coverages, coverageID)
	assignmentIDs := cancelEmbeddedCoverages(p.Coverages[idx : idx+1])
	if reason != "" {
		cov.Planning.InternalNote = appendNote(cov.Planning.InternalNote, "Coverage Cancelled", reason)
	}

	updated, err := s.UpdateOne(ctx, bson.M{"_id": planningID}, bson.M{
		"$set": bson.M{
			"coverages": p.Coverages,
			"updatedAt": time.Now().UnixMilli(),
		},
	}, nil)
	if err != nil {
		return nil, err
	}

	if err := s.cancelAssignments(ctx, assignmentIDs); err != nil {
		logger.GetErrorLogger().WithError(err).WithFields(logrus.Fields{
			"planning": planningID.Hex(),
			"coverage": coverageID.Hex(),
		}).Error("Hủy assignment theo coverage thất bại")
		return nil, err
	}

	notification.PushNotification(ctx, notification.NamePlanningUpdated, map[string]interface{}{
		"item":     planningID.Hex(),
		"coverage": coverageID.Hex(),
		"user":     user.Hex(),
	})
	return &updated, nil
}

// PostponeByEvent chuyển mọi Planning item của Event sang postponed
// (Event postpone cascade).
func (s *PlanningService) PostponeByEvent(ctx context.Context, eventID primitive.ObjectID, reason string) error {
	filter := bson.M{
		"event_item": eventID,
		"state":      bson.M{"$nin": bson.A{planningmodels.StateCancelled, planningmodels.StateSpiked, planningmodels.StateKilled}},
	}
	_, err := s.UpdateMany(ctx, filter, bson.M{
		"$set": bson.M{"state": planningmodels.StatePostponed, "updatedAt": time.Now().UnixMilli()},
	}, nil)
	return err
}

// cancelEmbeddedCoverages đánh dấu cancelled lên các coverage chưa hủy
// (sửa tại chỗ) và trả về ID các assignment cần cascade.
func cancelEmbeddedCoverages(coverages []planningmodels.Coverage) []primitive.ObjectID {
	var assignmentIDs []primitive.ObjectID
	for i := range coverages {
		if coverages[i].WorkflowStatus == planningmodels.CoverageStatusCancelled {
			continue
		}
		coverages[i].WorkflowStatus = planningmodels.CoverageStatusCancelled
		if at := coverages[i].AssignedTo; at != nil {
			at.State = planningmodels.StateCancelled
			if !at.AssignmentID.IsZero() {
				assignmentIDs = append(assignmentIDs, at.AssignmentID)
			}
		}
	}
	return assignmentIDs
}

func indexOfCoverage(coverages []planningmodels.Coverage, coverageID primitive.ObjectID) int {
	for i := range coverages {
		if coverages[i].CoverageID == coverageID {
			return i
		}
	}
	return -1
}

// cancelAssignments hủy các assignment theo ID qua collection assignments.
// Đi thẳng vào collection (không qua service của domain assignments) để tránh
// import vòng; assignment đã completed hoặc cancelled được giữ nguyên.
func (s *PlanningService) cancelAssignments(ctx context.Context, assignmentIDs []primitive.ObjectID) error {
	if len(assignmentIDs) == 0 {
		return nil
	}
	assignments, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Assignments)
	if !exist {
		return nil
	}
	filter := bson.M{
		"_id":               bson.M{"$in": assignmentIDs},
		"assigned_to.state": bson.M{"$nin": bson.A{planningmodels.StateCancelled, "completed"}},
	}
	update := bson.M{
		"$set": bson.M{
			"assigned_to.state": planningmodels.StateCancelled,
			"updatedAt":         time.Now().UnixMilli(),
		},
		"$unset": bson.M{
			"lock_user": "", "lock_session": "", "lock_action": "", "lock_time": "",
		},
	}
	if _, err := assignments.UpdateMany(ctx, filter, update); err != nil {
		return common.ConvertMongoError(err)
	}
	for _, id := range assignmentIDs {
		notification.PushNotification(ctx, notification.NameAssignmentsCancelled, map[string]interface{}{
			"item": id.Hex(),
		})
	}
	return nil
}

// spikeExpiry trả về thời điểm hết hạn của item spike (UnixMilli).
func spikeExpiry() int64 {
	days := 30
	if global.MongoDB_ServerConfig != nil && global.MongoDB_ServerConfig.SpikeExpiryDays > 0 {
		days = global.MongoDB_ServerConfig.SpikeExpiryDays
	}
	return time.Now().AddDate(0, 0, days).UnixMilli()
}

// Lock chiếm lock trên một Planning item.
func (s *PlanningService) Lock(ctx context.Context, planningID, user, session primitive.ObjectID, action string) (*itemlock.LockFields, error) {
	return s.locker.Lock(ctx, s.Collection(), global.MongoDB_ColNames.Planning, planningID, user, session, action)
}

// Unlock nhả lock trên một Planning item.
func (s *PlanningService) Unlock(ctx context.Context, planningID, user, session primitive.ObjectID) error {
	return s.locker.Unlock(ctx, s.Collection(), global.MongoDB_ColNames.Planning, planningID, user, session, false)
}
