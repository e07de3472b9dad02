// Package planningsvc chứa service cho domain Planning (events, planning).
// EventService và PlanningService nằm chung package vì cascade Event→Planning
// gọi thẳng vào nhau; cascade xuống Assignment đi qua collection assignments
// để tránh import vòng với domain assignments.
package planningsvc

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"

	basesvc "planning_api/internal/api/base/service"
	planningdto "planning_api/internal/api/planning/dto"
	planningmodels "planning_api/internal/api/planning/models"
	"planning_api/internal/common"
	"planning_api/internal/global"
	"planning_api/internal/itemlock"
	"planning_api/internal/recurrence"
)

// EventService xử lý CRUD và các action vòng đời của Event.
type EventService struct {
	*basesvc.BaseServiceMongoImpl[planningmodels.Event]
	locker   *itemlock.Locker
	planning *PlanningService
}

// NewEventService tạo EventService mới.
func NewEventService() (*EventService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Events)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.Events, common.ErrNotFound)
	}
	locker, err := itemlock.NewLocker()
	if err != nil {
		return nil, err
	}
	planning, err := NewPlanningService()
	if err != nil {
		return nil, err
	}
	return &EventService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[planningmodels.Event](coll),
		locker:               locker,
		planning:             planning,
	}, nil
}

// maxRecurrentEvents đọc trần chuỗi lặp từ config.
func maxRecurrentEvents() int {
	if global.MongoDB_ServerConfig != nil && global.MongoDB_ServerConfig.MaxRecurrentEvents > 0 {
		return global.MongoDB_ServerConfig.MaxRecurrentEvents
	}
	return recurrence.DefaultMaxRecurrentEvents
}

// eventLocation trả về *time.Location của Event (UTC nếu tz trống/sai).
func eventLocation(e *planningmodels.Event) *time.Location {
	if e.Dates.Tz != "" {
		if loc, err := time.LoadLocation(e.Dates.Tz); err == nil {
			return loc
		}
	}
	return time.UTC
}

// ruleConfig chuyển RecurringRule của model sang RuleConfig của recurrence engine.
func ruleConfig(r *planningmodels.RecurringRule) recurrence.RuleConfig {
	return recurrence.RuleConfig{
		Frequency:     r.Frequency,
		Interval:      r.Interval,
		EndRepeatMode: r.EndRepeatMode,
		Count:         r.Count,
		Until:         r.Until,
		ByDay:         r.ByDay,
		ByMonth:       r.ByMonth,
		ByHour:        r.ByHour,
		ByMinute:      r.ByMinute,
	}
}

// CreateEvent tạo Event mới từ input. Event có recurringRule được nhân bản
// thành cả chuỗi occurrence cùng recurrence_id, giữ nguyên duration của từng
// occurrence. Trả về danh sách occurrence đã tạo (1 phần tử nếu không lặp).
func (s *EventService) CreateEvent(ctx context.Context, input *planningdto.EventCreateInput, userID primitive.ObjectID) ([]planningmodels.Event, error) {
	if input.Dates.End < input.Dates.Start {
		return nil, common.NewBadRequest("Thời gian kết thúc phải sau thời gian bắt đầu")
	}

	base := planningmodels.Event{
		Name:           input.Name,
		Slugline:       input.Slugline,
		Definition:     input.Definition,
		DefinitionLong: input.DefinitionLong,
		Location:       input.Location,
		Dates:          input.Dates,
		OccurStatus:    input.OccurStatus,
		Source:         planningmodels.SourceManual,
		CreatedBy:      userID,
	}

	rule := input.Dates.RecurringRule
	if rule == nil {
		created, err := s.InsertOne(ctx, base)
		if err != nil {
			return nil, err
		}
		return []planningmodels.Event{created}, nil
	}

	loc := eventLocation(&base)
	start := time.UnixMilli(input.Dates.Start).In(loc)
	dates, err := recurrence.GenerateRecurringDates(start, ruleConfig(rule), maxRecurrentEvents())
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, common.NewBadRequest("Quy tắc lặp không sinh ra occurrence nào")
	}

	duration := input.Dates.End - input.Dates.Start
	recurrenceID := primitive.NewObjectID()

	occurrences := make([]planningmodels.Event, 0, len(dates))
	for _, d := range dates {
		occ := base
		occ.RecurrenceID = recurrenceID
		occ.Dates.Start = d.UnixMilli()
		occ.Dates.End = d.UnixMilli() + duration
		occurrences = append(occurrences, occ)
	}
	return s.InsertMany(ctx, occurrences)
}

// FindSeries trả về toàn bộ occurrence của một chuỗi, sắp theo dates.start.
func (s *EventService) FindSeries(ctx context.Context, recurrenceID primitive.ObjectID) ([]planningmodels.Event, error) {
	opts := mongoopts.Find().SetSort(bson.D{{Key: "dates.start", Value: 1}})
	return s.Find(ctx, bson.M{"recurrence_id": recurrenceID}, opts)
}

// GetTimeline trả về phân hoạch historic/past/future của chuỗi quanh một
// occurrence. Event không lặp trả về timeline rỗng.
func (s *EventService) GetTimeline(ctx context.Context, selected *planningmodels.Event) (recurrence.Timeline, []planningmodels.Event, error) {
	if !selected.IsRecurring() {
		return recurrence.Timeline{}, nil, nil
	}
	series, err := s.FindSeries(ctx, selected.RecurrenceID)
	if err != nil {
		return recurrence.Timeline{}, nil, err
	}
	occs := make([]recurrence.Occurrence, 0, len(series))
	for _, e := range series {
		occs = append(occs, recurrence.Occurrence{ID: e.ID, Start: e.Dates.Start, End: e.Dates.End})
	}
	tl := recurrence.GetRecurringTimeline(
		recurrence.Occurrence{ID: selected.ID, Start: selected.Dates.Start, End: selected.Dates.End},
		occs,
		time.Now().UnixMilli(),
	)
	return tl, series, nil
}

// seriesByID đánh index danh sách occurrence theo ID.
func seriesByID(series []planningmodels.Event) map[primitive.ObjectID]planningmodels.Event {
	m := make(map[primitive.ObjectID]planningmodels.Event, len(series))
	for _, e := range series {
		m[e.ID] = e
	}
	return m
}

// requireHeldBy kiểm tra caller đang giữ lock trên item. Các action vòng đời
// (cancel, postpone, reschedule, update-repetitions) yêu cầu giữ lock trước.
func requireHeldBy(lf itemlock.LockFields, user, session primitive.ObjectID) error {
	if !lf.IsLocked() {
		return common.ErrItemNotLocked
	}
	return lf.ClassifyConflict(user, session)
}

// appendNote nối một ghi chú có tiêu đề vào definition_long, phong cách
// "------ Event Cancelled ------\nReason: ...".
func appendNote(definitionLong, title, reason string) string {
	note := "\n\n------------------------------\n" + title
	if reason != "" {
		note += "\nReason: " + reason
	}
	return definitionLong + note
}
