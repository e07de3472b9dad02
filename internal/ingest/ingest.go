package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	basesvc "planning_api/internal/api/base/service"
	planningmodels "planning_api/internal/api/planning/models"
	"planning_api/internal/common"
	"planning_api/internal/global"
	"planning_api/internal/logger"
	"planning_api/internal/notification"
)

// Service ghi event đã chuẩn hóa từ các parser xuống collection events.
type Service struct {
	events *basesvc.BaseServiceMongoImpl[planningmodels.Event]
}

// NewService tạo Service mới.
func NewService() (*Service, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Events)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", global.MongoDB_ColNames.Events, common.ErrNotFound)
	}
	return &Service{
		events: basesvc.NewBaseServiceMongo[planningmodels.Event](coll),
	}, nil
}

// Apply upsert danh sách event ingest theo (provider, ingest_ref).
// Lần đầu thấy ref thì insert với state=ingested; thấy lại thì cập nhật nội
// dung và thời gian nhưng giữ nguyên state: item đã đi vào workflow nội bộ
// (draft, scheduled...) không bị nguồn ngoài kéo ngược về ingested.
func (s *Service) Apply(ctx context.Context, provider string, items []planningmodels.Event) ([]planningmodels.Event, error) {
	applied := make([]planningmodels.Event, 0, len(items))
	for i := range items {
		ev, err := s.applyOne(ctx, provider, &items[i])
		if err != nil {
			logger.GetErrorLogger().WithError(err).WithFields(map[string]interface{}{
				"provider": provider,
				"ref":      items[i].IngestRef,
			}).Error("Ingest event thất bại")
			continue
		}
		applied = append(applied, *ev)
	}

	if len(applied) > 0 {
		notification.PushNotification(ctx, notification.NameIngestReceived, map[string]interface{}{
			"provider": provider,
			"count":    len(applied),
		})
	}
	return applied, nil
}

func (s *Service) applyOne(ctx context.Context, provider string, item *planningmodels.Event) (*planningmodels.Event, error) {
	filter := bson.M{
		"source":          planningmodels.SourceIngest,
		"ingest_provider": provider,
		"ingest_ref":      item.IngestRef,
	}

	existing, err := s.events.FindOne(ctx, filter, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			item.Source = planningmodels.SourceIngest
			item.IngestProvider = provider
			item.State = planningmodels.StateIngested
			created, err := s.events.InsertOne(ctx, *item)
			if err != nil {
				return nil, err
			}
			return &created, nil
		}
		return nil, err
	}

	// Item đã spike/kill trong workflow nội bộ: nguồn ngoài không ghi đè
	if planningmodels.IsTerminalState(existing.State) {
		return &existing, nil
	}

	set := bson.M{
		"name":        item.Name,
		"dates.start": item.Dates.Start,
		"dates.end":   item.Dates.End,
		"updatedAt":   time.Now().UnixMilli(),
	}
	if item.Definition != "" {
		set["definition_short"] = item.Definition
	}
	if item.Location != "" {
		set["location"] = item.Location
	}
	if item.Dates.Tz != "" {
		set["dates.tz"] = item.Dates.Tz
	}
	if item.OccurStatus != "" {
		set["occur_status"] = item.OccurStatus
	}

	updated, err := s.events.UpdateOne(ctx, bson.M{"_id": existing.ID}, bson.M{"$set": set}, nil)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
