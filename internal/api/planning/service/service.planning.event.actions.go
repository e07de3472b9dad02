// Các action vòng đời của Event: lock/unlock, spike/unspike, cancel, postpone,
// reschedule, update-repetitions. Cancel cascade xuống Planning → Coverage →
// Assignment; phạm vi trên chuỗi lặp (single/future/all) đi theo phân hoạch
// historic/past/future của recurrence engine.
package planningsvc

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	planningdto "planning_api/internal/api/planning/dto"
	planningmodels "planning_api/internal/api/planning/models"
	"planning_api/internal/common"
	"planning_api/internal/global"
	"planning_api/internal/itemlock"
	"planning_api/internal/logger"
	"planning_api/internal/notification"
	"planning_api/internal/recurrence"
)

// Lock chiếm lock trên một Event.
func (s *EventService) Lock(ctx context.Context, eventID, user, session primitive.ObjectID, action string) (*itemlock.LockFields, error) {
	return s.locker.Lock(ctx, s.Collection(), global.MongoDB_ColNames.Events, eventID, user, session, action)
}

// Unlock nhả lock trên một Event.
func (s *EventService) Unlock(ctx context.Context, eventID, user, session primitive.ObjectID) error {
	return s.locker.Unlock(ctx, s.Collection(), global.MongoDB_ColNames.Events, eventID, user, session, false)
}

// Spike đánh dấu Event spiked (xóa mềm). Bị chặn khi có Planning item liên
// quan đang bị người khác giữ lock. scope=series lặp cho từng occurrence
// anh em còn spike được: occurrence đã spike được bỏ qua (idempotent trong
// một lượt chạy), occurrence đã post không bị spike kèm theo chuỗi.
func (s *EventService) Spike(ctx context.Context, eventID, user primitive.ObjectID, scope string) ([]planningmodels.Event, error) {
	event, err := s.FindOneById(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.State == planningmodels.StateSpiked {
		return nil, common.NewBadRequest("Event đã spike")
	}
	if event.IsLocked() && event.LockUser != user {
		return nil, common.ErrLockedByAnotherUser
	}

	targets := []planningmodels.Event{event}
	if scope == "series" && event.IsRecurring() {
		series, err := s.FindSeries(ctx, event.RecurrenceID)
		if err != nil {
			return nil, err
		}
		for _, sibling := range series {
			if sibling.ID == event.ID || !spikeSeriesTarget(sibling.State, sibling.Pubstatus) {
				continue
			}
			targets = append(targets, sibling)
		}
	}

	// Kiểm tra lock của planning liên quan trước khi đụng vào bất kỳ occurrence nào
	for _, target := range targets {
		locked, err := s.planning.AnyLockedByOther(ctx, target.ID, user)
		if err != nil {
			return nil, err
		}
		if locked {
			return nil, common.NewForbidden("Không thể spike: planning item liên quan đang bị người khác giữ")
		}
	}

	spiked := make([]planningmodels.Event, 0, len(targets))
	for _, target := range targets {
		updated, err := s.UpdateOne(ctx, bson.M{"_id": target.ID}, bson.M{
			"$set": bson.M{
				"state":        planningmodels.StateSpiked,
				"revert_state": target.State,
				"expiry_at":    spikeExpiry(),
				"updatedAt":    time.Now().UnixMilli(),
			},
			"$unset": bson.M{
				"lock_user": "", "lock_session": "", "lock_action": "", "lock_time": "",
			},
		}, nil)
		if err != nil {
			return spiked, err
		}
		spiked = append(spiked, updated)
		notification.PushNotification(ctx, notification.NameEventsSpiked, map[string]interface{}{
			"item": target.ID.Hex(),
			"user": user.Hex(),
		})
	}
	return spiked, nil
}

// Unspike khôi phục Event đã spike về trạng thái trước đó.
func (s *EventService) Unspike(ctx context.Context, eventID, user primitive.ObjectID) (*planningmodels.Event, error) {
	event, err := s.FindOneById(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.State != planningmodels.StateSpiked {
		return nil, common.NewBadRequest("Event chưa spike")
	}

	restored := event.RevertState
	if restored == "" {
		restored = planningmodels.StateDraft
	}
	updated, err := s.UpdateOne(ctx, bson.M{"_id": eventID}, bson.M{
		"$set":   bson.M{"state": restored, "updatedAt": time.Now().UnixMilli()},
		"$unset": bson.M{"revert_state": "", "expiry_at": ""},
	}, nil)
	if err != nil {
		return nil, err
	}
	notification.PushNotification(ctx, notification.NameEventsUnspiked, map[string]interface{}{
		"item": eventID.Hex(),
		"user": user.Hex(),
	})
	return &updated, nil
}

// Cancel hủy Event: occur_status sang cancelled, ghi lý do vào definition_long,
// cascade xuống mọi Planning item của Event. Với chuỗi lặp, scope quyết định
// các occurrence anh em bị hủy theo: single (chỉ occurrence này), future
// (occurrence này + các occurrence sau nó), all (cả past + future).
// Yêu cầu caller đang giữ lock trên occurrence được chọn.
func (s *EventService) Cancel(ctx context.Context, eventID, user, session primitive.ObjectID, reason, scope string) ([]planningmodels.Event, error) {
	event, err := s.FindOneById(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.State == planningmodels.StateCancelled {
		return nil, common.NewBadRequest("Event đã bị hủy")
	}
	if err := requireHeldBy(event.LockFields, user, session); err != nil {
		return nil, err
	}

	targets := []planningmodels.Event{event}
	if event.IsRecurring() && scope != "" && scope != planningmodels.ScopeSingle {
		tl, series, err := s.GetTimeline(ctx, &event)
		if err != nil {
			return nil, err
		}
		byID := seriesByID(series)
		buckets := tl.Future
		if scope == planningmodels.ScopeAll {
			buckets = append(append([]recurrence.Occurrence{}, tl.Past...), tl.Future...)
		}
		for _, occ := range buckets {
			sibling, ok := byID[occ.ID]
			if !ok || sibling.State == planningmodels.StateCancelled || sibling.State == planningmodels.StateSpiked {
				continue
			}
			targets = append(targets, sibling)
		}
	}

	cancelled := make([]planningmodels.Event, 0, len(targets))
	for _, target := range targets {
		updated, err := s.cancelSingle(ctx, target, user, session, reason)
		if err != nil {
			return cancelled, err
		}
		cancelled = append(cancelled, *updated)
	}
	return cancelled, nil
}

// cancelSingle hủy một occurrence và cascade xuống planning của nó.
func (s *EventService) cancelSingle(ctx context.Context, event planningmodels.Event, user, session primitive.ObjectID, reason string) (*planningmodels.Event, error) {
	updated, err := s.UpdateOne(ctx, bson.M{"_id": event.ID}, bson.M{
		"$set": bson.M{
			"state":           planningmodels.StateCancelled,
			"occur_status":    planningmodels.OccurStatusCancelled,
			"definition_long": appendNote(event.DefinitionLong, "Event Cancelled", reason),
			"updatedAt":       time.Now().UnixMilli(),
		},
		"$unset": bson.M{
			"lock_user": "", "lock_session": "", "lock_action": "", "lock_time": "",
		},
	}, nil)
	if err != nil {
		return nil, err
	}

	plannings, err := s.planning.FindByEvent(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	// Lỗi ở bước cascade nào dừng tại đó và nổi lên caller; các planning đã
	// hủy xong trước đó giữ nguyên (không rollback)
	if err := cascadeCancelPlannings(ctx, plannings, func(ctx context.Context, id primitive.ObjectID) error {
		_, err := s.planning.CancelPlanning(ctx, id, reason, true, user, session)
		return err
	}); err != nil {
		logger.GetErrorLogger().WithError(err).WithFields(logrus.Fields{
			"event": event.ID.Hex(),
		}).Error("Cascade hủy planning theo event thất bại")
		return nil, err
	}

	notification.PushNotification(ctx, notification.NameEventsCancelled, map[string]interface{}{
		"item":   event.ID.Hex(),
		"user":   user.Hex(),
		"reason": reason,
	})
	return &updated, nil
}

// Postpone hoãn Event: state sang postponed, ghi lý do, thời gian giữ nguyên.
// Planning item của Event cũng chuyển postponed. Yêu cầu caller giữ lock.
func (s *EventService) Postpone(ctx context.Context, eventID, user, session primitive.ObjectID, reason string) (*planningmodels.Event, error) {
	event, err := s.FindOneById(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.State == planningmodels.StatePostponed {
		return nil, common.NewBadRequest("Event đã hoãn")
	}
	if planningmodels.IsTerminalState(event.State) {
		return nil, common.NewBadRequest("Không thể hoãn event ở trạng thái hiện tại")
	}
	if err := requireHeldBy(event.LockFields, user, session); err != nil {
		return nil, err
	}

	updated, err := s.UpdateOne(ctx, bson.M{"_id": eventID}, bson.M{
		"$set": bson.M{
			"state":           planningmodels.StatePostponed,
			"definition_long": appendNote(event.DefinitionLong, "Event Postponed", reason),
			"updatedAt":       time.Now().UnixMilli(),
		},
		"$unset": bson.M{
			"lock_user": "", "lock_session": "", "lock_action": "", "lock_time": "",
		},
	}, nil)
	if err != nil {
		return nil, err
	}

	if err := s.planning.PostponeByEvent(ctx, eventID, reason); err != nil {
		logger.GetErrorLogger().WithError(err).WithFields(logrus.Fields{
			"event": eventID.Hex(),
		}).Error("Cascade hoãn planning theo event thất bại")
		return nil, err
	}

	notification.PushNotification(ctx, notification.NameEventsPostponed, map[string]interface{}{
		"item":   eventID.Hex(),
		"user":   user.Hex(),
		"reason": reason,
	})
	return &updated, nil
}

// Reschedule dời lịch Event. Event chưa được dùng (không có Planning item và
// chưa post) thì sửa thời gian tại chỗ, state giữ nguyên. Event đã có Planning
// item hoặc đã post thì tạo bản sao với thời gian mới (duplicate_from trỏ về
// bản gốc), bản gốc chuyển state=rescheduled và giữ nguyên thời gian cũ.
// Trả về Event mang thời gian mới. Yêu cầu caller giữ lock.
func (s *EventService) Reschedule(ctx context.Context, eventID, user, session primitive.ObjectID, input *planningdto.EventRescheduleInput) (*planningmodels.Event, error) {
	event, err := s.FindOneById(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if planningmodels.IsTerminalState(event.State) {
		return nil, common.NewBadRequest("Không thể dời lịch event ở trạng thái hiện tại")
	}
	if input.End < input.Start {
		return nil, common.NewBadRequest("Thời gian kết thúc phải sau thời gian bắt đầu")
	}
	if err := requireHeldBy(event.LockFields, user, session); err != nil {
		return nil, err
	}

	tz := input.Tz
	if tz == "" {
		tz = event.Dates.Tz
	}

	hasPlannings, err := s.planning.DocumentExists(ctx, bson.M{"event_item": eventID})
	if err != nil {
		return nil, err
	}

	if !rescheduleDuplicates(hasPlannings, event.IsPosted()) {
		// Event chưa được dùng: sửa thời gian tại chỗ, state giữ nguyên
		updated, err := s.UpdateOne(ctx, bson.M{"_id": eventID}, bson.M{
			"$set": bson.M{
				"dates.start": input.Start,
				"dates.end":   input.End,
				"dates.tz":    tz,
				"updatedAt":   time.Now().UnixMilli(),
			},
			"$unset": bson.M{
				"lock_user": "", "lock_session": "", "lock_action": "", "lock_time": "",
			},
		}, nil)
		if err != nil {
			return nil, err
		}
		notification.PushNotification(ctx, notification.NameEventsRescheduled, map[string]interface{}{
			"item": eventID.Hex(),
			"user": user.Hex(),
		})
		return &updated, nil
	}

	// Event đã có planning hoặc đã post: nhân bản với thời gian mới, bản gốc
	// đánh dấu rescheduled
	duplicate := event
	duplicate.ID = primitive.NilObjectID
	duplicate.DuplicateFrom = event.ID
	duplicate.State = planningmodels.StateDraft
	duplicate.RevertState = ""
	duplicate.Pubstatus = ""
	duplicate.LockFields = itemlock.LockFields{}
	duplicate.ExpiryAt = 0
	duplicate.Dates.Start = input.Start
	duplicate.Dates.End = input.End
	duplicate.Dates.Tz = tz
	duplicate.CreatedBy = user

	created, err := s.InsertOne(ctx, duplicate)
	if err != nil {
		return nil, err
	}

	if _, err := s.UpdateOne(ctx, bson.M{"_id": eventID}, bson.M{
		"$set": bson.M{
			"state":           planningmodels.StateRescheduled,
			"definition_long": appendNote(event.DefinitionLong, "Event Rescheduled", input.Reason),
			"updatedAt":       time.Now().UnixMilli(),
		},
		"$unset": bson.M{
			"lock_user": "", "lock_session": "", "lock_action": "", "lock_time": "",
		},
	}, nil); err != nil {
		return nil, err
	}

	notification.PushNotification(ctx, notification.NameEventsRescheduled, map[string]interface{}{
		"item":      created.ID.Hex(),
		"duplicate": event.ID.Hex(),
		"user":      user.Hex(),
	})
	return &created, nil
}

// UpdateRepetitions sửa quy tắc lặp của chuỗi từ occurrence được chọn trở đi:
// sinh lại tập ngày theo rule mới rồi đối chiếu với occurrence hiện có
// (selected + future). Occurrence mồ côi chưa dùng bị xóa, đã có planning thì
// hủy; ngày mới được vật chất hóa bằng bản sao của occurrence được chọn.
// Rule count-based trừ đi số occurrence đã trôi qua. Chuỗi một occurrence
// được xử lý như "update all". Yêu cầu caller giữ lock.
func (s *EventService) UpdateRepetitions(ctx context.Context, eventID, user, session primitive.ObjectID, newRule planningmodels.RecurringRule) ([]planningmodels.Event, error) {
	event, err := s.FindOneById(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsRecurring() {
		return nil, common.NewBadRequest("Event không thuộc chuỗi lặp")
	}
	if err := requireHeldBy(event.LockFields, user, session); err != nil {
		return nil, err
	}

	tl, _, err := s.GetTimeline(ctx, &event)
	if err != nil {
		return nil, err
	}

	// Rule count-based: trừ số occurrence đã trôi qua để chuỗi không dài quá
	// ý định ban đầu
	rule := newRule
	if rule.EndRepeatMode == recurrence.EndRepeatCount {
		rule.Count = recurrence.RemainingCount(ruleConfig(&rule), tl.Elapsed())
	}

	loc := eventLocation(&event)
	start := time.UnixMilli(event.Dates.Start).In(loc)
	newDates, err := recurrence.GenerateRecurringDates(start, ruleConfig(&rule), maxRecurrentEvents())
	if err != nil {
		return nil, err
	}

	// Đối chiếu trên selected + future; past và historic giữ nguyên
	existing := []recurrence.Occurrence{{ID: event.ID, Start: event.Dates.Start, End: event.Dates.End}}
	existing = append(existing, tl.Future...)

	inUse := make(map[primitive.ObjectID]bool)
	for _, occ := range existing {
		used, err := s.planning.DocumentExists(ctx, bson.M{"event_item": occ.ID})
		if err != nil {
			return nil, err
		}
		if used {
			inUse[occ.ID] = true
		}
	}

	plan := recurrence.Reconcile(existing, newDates, loc, inUse)
	duration := event.Dates.End - event.Dates.Start

	// Vật chất hóa occurrence mới: bản sao của occurrence được chọn, bỏ
	// identity và lock
	for _, startMs := range plan.ToCreate {
		occ := event
		occ.ID = primitive.NilObjectID
		occ.LockFields = itemlock.LockFields{}
		occ.RevertState = ""
		occ.ExpiryAt = 0
		occ.Dates.Start = startMs
		occ.Dates.End = startMs + duration
		occ.Dates.RecurringRule = &rule
		if _, err := s.InsertOne(ctx, occ); err != nil {
			return nil, err
		}
	}
	for _, id := range plan.ToDelete {
		if err := s.DeleteById(ctx, id); err != nil {
			return nil, err
		}
	}
	for _, id := range plan.ToCancel {
		orphan, err := s.FindOneById(ctx, id)
		if err != nil {
			return nil, err
		}
		if _, err := s.cancelSingle(ctx, orphan, user, session, "Update repetitions"); err != nil {
			return nil, err
		}
	}

	// Cập nhật rule mới trên mọi occurrence còn lại của chuỗi và nhả lock
	if _, err := s.UpdateMany(ctx, bson.M{"recurrence_id": event.RecurrenceID}, bson.M{
		"$set": bson.M{
			"dates.recurring_rule": rule,
			"updatedAt":            time.Now().UnixMilli(),
		},
	}, nil); err != nil {
		return nil, err
	}
	if _, err := s.UpdateOne(ctx, bson.M{"_id": eventID}, bson.M{
		"$unset": bson.M{
			"lock_user": "", "lock_session": "", "lock_action": "", "lock_time": "",
		},
	}, nil); err != nil {
		return nil, err
	}

	notification.PushNotification(ctx, notification.NameEventsUpdateRepetitions, map[string]interface{}{
		"recurrenceId": event.RecurrenceID.Hex(),
		"user":         user.Hex(),
	})
	return s.FindSeries(ctx, event.RecurrenceID)
}

// spikeSeriesTarget báo một occurrence anh em có được spike kèm theo chuỗi
// không: occurrence đã spike bỏ qua cho idempotent, occurrence đã post
// không được spike theo chuỗi.
func spikeSeriesTarget(state, pubstatus string) bool {
	return state != planningmodels.StateSpiked && pubstatus == ""
}

// rescheduleDuplicates báo dời lịch phải đi nhánh nhân bản: Event đã có
// Planning item hoặc đã post thì bản gốc giữ nguyên thời gian cũ.
func rescheduleDuplicates(hasPlannings, posted bool) bool {
	return hasPlannings || posted
}

// cascadeCancelPlannings hủy lần lượt từng Planning item qua cancel. Lỗi ở
// bước nào dừng ngay và trả lỗi đó lên; các item đã hủy trước đó giữ nguyên.
func cascadeCancelPlannings(ctx context.Context, plannings []planningmodels.Planning, cancel func(context.Context, primitive.ObjectID) error) error {
	for _, p := range plannings {
		if err := cancel(ctx, p.ID); err != nil {
			return err
		}
	}
	return nil
}
