// Package historysvc ghi và đọc lịch sử thay đổi của các item.
// Recorder đăng ký vào event bus CRUD; mọi insert/update/delete trên events,
// planning, assignments tự sinh bản ghi history mà service nghiệp vụ không
// phải gọi gì thêm.
package historysvc

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basesvc "planning_api/internal/api/base/service"
	"planning_api/internal/api/events"
	historymodels "planning_api/internal/api/history/models"
	"planning_api/internal/common"
	"planning_api/internal/global"
	"planning_api/internal/logger"
)

// HistoryService đọc một collection history (append-only, chỉ đọc qua API).
type HistoryService struct {
	*basesvc.BaseServiceMongoImpl[historymodels.HistoryRecord]
}

// NewHistoryService tạo HistoryService cho một collection history theo tên.
func NewHistoryService(collectionName string) (*HistoryService, error) {
	coll, exist := global.RegistryCollections.Get(collectionName)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", collectionName, common.ErrNotFound)
	}
	return &HistoryService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[historymodels.HistoryRecord](coll),
	}, nil
}

// RegisterRecorder đăng ký recorder vào event bus CRUD. Gọi một lần khi khởi
// động, sau khi registry collection đã sẵn sàng.
func RegisterRecorder() {
	events.OnDataChanged(recordChange)
}

// historyTarget map collection nguồn → collection history.
func historyTarget(collectionName string) (string, bool) {
	names := global.MongoDB_ColNames
	switch collectionName {
	case names.Events:
		return names.EventsHistory, true
	case names.Planning:
		return names.PlanningHistory, true
	case names.Assignments:
		return names.AssignmentsHistory, true
	}
	return "", false
}

// recordChange ghi một bản ghi history cho mỗi thay đổi CRUD. Chạy trong
// goroutine của event bus nên lỗi chỉ log, không trả về caller.
func recordChange(ctx context.Context, e events.DataChangeEvent) {
	histName, ok := historyTarget(e.CollectionName)
	if !ok {
		return
	}
	coll, exist := global.RegistryCollections.Get(histName)
	if !exist {
		return
	}

	doc, err := toDocumentMap(e.Document)
	if err != nil {
		logger.GetErrorLogger().WithError(err).WithFields(logrus.Fields{
			"collection": e.CollectionName,
			"operation":  e.Operation,
		}).Error("Chuyển document sang map cho history thất bại")
		return
	}

	record := historymodels.HistoryRecord{
		ItemID:    objectIDOf(doc, "_id"),
		Operation: e.Operation,
		Update:    doc,
		UserID:    objectIDOf(doc, "createdBy"),
		CreatedAt: time.Now().UnixMilli(),
	}
	if _, err := coll.InsertOne(ctx, record); err != nil {
		logger.GetErrorLogger().WithError(err).WithFields(logrus.Fields{
			"collection": histName,
			"item":       record.ItemID.Hex(),
		}).Error("Ghi history record thất bại")
		return
	}

	// Planning item chứa coverage nhúng: mỗi thay đổi planning sinh thêm bản
	// ghi coverage_history theo từng coverage để truy vết theo coverage_id.
	if e.CollectionName == global.MongoDB_ColNames.Planning {
		recordCoverageHistory(ctx, doc, e.Operation, record.UserID)
	}
}

// recordCoverageHistory ghi bản ghi lịch sử riêng cho từng coverage nhúng.
func recordCoverageHistory(ctx context.Context, planningDoc map[string]interface{}, operation string, userID primitive.ObjectID) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.CoverageHistory)
	if !exist {
		return
	}
	coverages, ok := planningDoc["coverages"].(bson.A)
	if !ok {
		return
	}
	now := time.Now().UnixMilli()
	for _, raw := range coverages {
		cov, ok := raw.(map[string]interface{})
		if !ok {
			if m, isM := raw.(bson.M); isM {
				cov = map[string]interface{}(m)
			} else {
				continue
			}
		}
		record := historymodels.HistoryRecord{
			ItemID:    objectIDOf(cov, "coverage_id"),
			Operation: operation,
			Update:    cov,
			UserID:    userID,
			CreatedAt: now,
		}
		if record.ItemID.IsZero() {
			continue
		}
		if _, err := coll.InsertOne(ctx, record); err != nil {
			logger.GetErrorLogger().WithError(err).WithFields(logrus.Fields{
				"coverage": record.ItemID.Hex(),
			}).Error("Ghi coverage history thất bại")
		}
	}
}

// toDocumentMap chuyển document struct sang map qua bson round-trip để giữ
// đúng tên field bson (snake_case) trong bản ghi history.
func toDocumentMap(document interface{}) (map[string]interface{}, error) {
	if document == nil {
		return nil, nil
	}
	raw, err := bson.Marshal(document)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return map[string]interface{}(m), nil
}

// objectIDOf lấy ObjectID từ map, zero nếu không có hoặc sai kiểu.
func objectIDOf(doc map[string]interface{}, key string) primitive.ObjectID {
	if doc == nil {
		return primitive.NilObjectID
	}
	if id, ok := doc[key].(primitive.ObjectID); ok {
		return id
	}
	return primitive.NilObjectID
}
