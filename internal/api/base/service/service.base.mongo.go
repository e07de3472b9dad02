// Package basesvc là tầng truy cập MongoDB dùng chung: CRUD generic theo
// model, tự gắn timestamps, phát data-change event và chặn xóa record đang
// được collection khác tham chiếu.
package basesvc

import (
	"context"
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	basemodels "planning_api/internal/api/base/models"
	"planning_api/internal/api/events"
	"planning_api/internal/common"
	"planning_api/internal/utility"
)

// UpdateData gom các operator update MongoDB mà tầng base chấp nhận.
// Update truyền vào dưới dạng khác sẽ được ToUpdateData đưa về dạng này
// trước khi gắn updatedAt.
type UpdateData struct {
	Set         map[string]interface{} `bson:"$set,omitempty"`
	SetOnInsert map[string]interface{} `bson:"$setOnInsert,omitempty"`
	Unset       map[string]interface{} `bson:"$unset,omitempty"`
	Push        map[string]interface{} `bson:"$push,omitempty"`
	AddToSet    map[string]interface{} `bson:"$addToSet,omitempty"`
}

// ToUpdateData đưa update về dạng *UpdateData. Chấp nhận: *UpdateData,
// UpdateData, BSON raw, map/struct có sẵn operator ($set, $push, ...), hoặc
// map/struct thường (được wrap trong $set).
func ToUpdateData(data interface{}) (*UpdateData, error) {
	switch v := data.(type) {
	case *UpdateData:
		return v, nil
	case UpdateData:
		return &v, nil
	case []byte:
		update := &UpdateData{}
		if err := bson.Unmarshal(bson.Raw(v), update); err != nil {
			return nil, err
		}
		return update, nil
	}

	dataMap, err := utility.ToMap(data)
	if err != nil {
		return nil, err
	}

	if _, hasSet := dataMap["$set"]; !hasSet {
		return &UpdateData{Set: dataMap}, nil
	}

	update := &UpdateData{}
	pick := func(key string) map[string]interface{} {
		m, _ := dataMap[key].(map[string]interface{})
		return m
	}
	update.Set = pick("$set")
	update.SetOnInsert = pick("$setOnInsert")
	update.Unset = pick("$unset")
	update.Push = pick("$push")
	update.AddToSet = pick("$addToSet")
	return update, nil
}

// BaseServiceMongo là interface CRUD generic mà các service domain nhúng.
type BaseServiceMongo[Model any] interface {
	InsertOne(ctx context.Context, data Model) (Model, error)
	InsertMany(ctx context.Context, data []Model) ([]Model, error)

	FindOne(ctx context.Context, filter interface{}, opts *options.FindOneOptions) (Model, error)
	Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]Model, error)
	FindOneById(ctx context.Context, id primitive.ObjectID) (Model, error)
	FindManyByIds(ctx context.Context, ids []primitive.ObjectID) ([]Model, error)
	FindWithPagination(ctx context.Context, filter interface{}, page, limit int64, opts *options.FindOptions) (*basemodels.PaginateResult[Model], error)

	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts *options.UpdateOptions) (Model, error)
	UpdateMany(ctx context.Context, filter interface{}, update interface{}, opts *options.UpdateOptions) (int64, error)
	UpdateById(ctx context.Context, id primitive.ObjectID, data interface{}) (Model, error)
	Upsert(ctx context.Context, filter interface{}, data interface{}) (Model, error)

	DeleteOne(ctx context.Context, filter interface{}) error
	DeleteMany(ctx context.Context, filter interface{}) (int64, error)
	DeleteById(ctx context.Context, id primitive.ObjectID) error

	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts *options.FindOneAndUpdateOptions) (Model, error)
	FindOneAndDelete(ctx context.Context, filter interface{}, opts *options.FindOneAndDeleteOptions) (Model, error)

	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
	Distinct(ctx context.Context, fieldName string, filter interface{}) ([]interface{}, error)
	DocumentExists(ctx context.Context, filter interface{}) (bool, error)
}

// BaseServiceMongoImpl triển khai BaseServiceMongo trên một collection.
type BaseServiceMongoImpl[T any] struct {
	collection *mongo.Collection
}

func NewBaseServiceMongo[T any](collection *mongo.Collection) *BaseServiceMongoImpl[T] {
	return &BaseServiceMongoImpl[T]{collection: collection}
}

// Collection trả về collection gốc cho các package cần thao tác trực tiếp
// (itemlock, worker).
func (s *BaseServiceMongoImpl[T]) Collection() *mongo.Collection {
	return s.collection
}

// normalizeFilter đưa filter nil hoặc map rỗng về bson.D{} (match tất cả).
func normalizeFilter(filter interface{}) interface{} {
	if filter == nil {
		return bson.D{}
	}
	if m, ok := filter.(map[string]interface{}); ok && len(m) == 0 {
		return bson.D{}
	}
	return filter
}

// prepareUpdate đưa update về UpdateData và đóng dấu updatedAt.
func prepareUpdate(update interface{}) (*UpdateData, error) {
	updateData, err := ToUpdateData(update)
	if err != nil {
		return nil, common.ErrInvalidFormat
	}
	if updateData.Set == nil {
		updateData.Set = make(map[string]interface{})
	}
	updateData.Set["updatedAt"] = time.Now().UnixMilli()
	return updateData, nil
}

// reload đọc lại document theo filter, dùng sau khi ghi để trả về trạng thái
// mới nhất cho caller và cho event.
func (s *BaseServiceMongoImpl[T]) reload(ctx context.Context, filter interface{}) (T, error) {
	var doc T
	if err := s.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		var zero T
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, common.ErrNotFound
		}
		return zero, common.ConvertMongoError(err)
	}
	return doc, nil
}

func (s *BaseServiceMongoImpl[T]) emit(ctx context.Context, op string, doc T) {
	events.EmitDataChanged(ctx, events.DataChangeEvent{
		CollectionName: s.collection.Name(),
		Operation:      op,
		Document:       doc,
	})
}

// loadForDelete đọc document sắp bị xóa và chạy kiểm tra quan hệ tham chiếu.
func (s *BaseServiceMongoImpl[T]) loadForDelete(ctx context.Context, filter interface{}) (T, error) {
	existing, err := s.reload(ctx, filter)
	if err != nil {
		return existing, err
	}
	if err := validateRelationshipsDelete(ctx, existing); err != nil {
		return existing, err
	}
	return existing, nil
}

// insertDoc chuyển model thành map ghi xuống Mongo: áp default tag, bỏ các
// field chuỗi rỗng (để sparse index bỏ qua được chúng) và gắn timestamps.
func insertDoc[T any](data *T, now int64) (map[string]interface{}, error) {
	applyInsertDefaultsToModel(data)
	dataMap, err := utility.ToMap(*data)
	if err != nil {
		return nil, common.ErrInvalidFormat
	}
	for key, value := range dataMap {
		if strValue, ok := value.(string); ok && strValue == "" {
			delete(dataMap, key)
		}
	}
	dataMap["createdAt"] = now
	dataMap["updatedAt"] = now
	return dataMap, nil
}

// InsertOne ghi một document mới và trả về bản ghi vừa tạo.
func (s *BaseServiceMongoImpl[T]) InsertOne(ctx context.Context, data T) (T, error) {
	var zero T

	doc, err := insertDoc(&data, time.Now().UnixMilli())
	if err != nil {
		return zero, err
	}

	result, err := s.collection.InsertOne(ctx, doc)
	if err != nil {
		return zero, common.ConvertMongoError(err)
	}

	created, err := s.reload(ctx, bson.M{"_id": result.InsertedID})
	if err != nil {
		return zero, err
	}

	s.emit(ctx, events.OpInsert, created)
	return created, nil
}

// InsertMany ghi một loạt document, tất cả cùng một timestamp.
func (s *BaseServiceMongoImpl[T]) InsertMany(ctx context.Context, data []T) ([]T, error) {
	now := time.Now().UnixMilli()
	documents := make([]interface{}, 0, len(data))
	for i := range data {
		doc, err := insertDoc(&data[i], now)
		if err != nil {
			return nil, err
		}
		documents = append(documents, doc)
	}

	result, err := s.collection.InsertMany(ctx, documents)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}

	created, err := s.Find(ctx, bson.M{"_id": bson.M{"$in": result.InsertedIDs}}, nil)
	if err != nil {
		return nil, err
	}
	for i := range created {
		s.emit(ctx, events.OpInsert, created[i])
	}
	return created, nil
}

// FindOne tìm một document theo filter. Không tìm thấy trả về ErrNotFound.
func (s *BaseServiceMongoImpl[T]) FindOne(ctx context.Context, filter interface{}, opts *options.FindOneOptions) (T, error) {
	var zero T
	if opts == nil {
		opts = options.FindOne()
	}

	findResult := s.collection.FindOne(ctx, normalizeFilter(filter), opts)
	if err := findResult.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, common.ErrNotFound
		}
		return zero, common.ConvertMongoError(err)
	}

	var result T
	if err := findResult.Decode(&result); err != nil {
		// Decode hỏng là dữ liệu sai format chứ không phải lỗi command
		return zero, common.NewError(
			common.ErrCodeValidationFormat,
			"Lỗi định dạng dữ liệu khi decode từ MongoDB",
			common.StatusBadRequest,
			err,
		)
	}
	return result, nil
}

// Find tìm các document theo filter, luôn trả về slice (không nil).
func (s *BaseServiceMongoImpl[T]) Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]T, error) {
	if opts == nil {
		opts = options.Find()
	}

	cursor, err := s.collection.Find(ctx, normalizeFilter(filter), opts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	results := []T{}
	if err = cursor.All(ctx, &results); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return results, nil
}

func (s *BaseServiceMongoImpl[T]) FindOneById(ctx context.Context, id primitive.ObjectID) (T, error) {
	return s.reload(ctx, bson.M{"_id": id})
}

func (s *BaseServiceMongoImpl[T]) FindManyByIds(ctx context.Context, ids []primitive.ObjectID) ([]T, error) {
	return s.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

// FindWithPagination trả về một trang kết quả kèm tổng số bản ghi.
func (s *BaseServiceMongoImpl[T]) FindWithPagination(ctx context.Context, filter interface{}, page, limit int64, opts *options.FindOptions) (*basemodels.PaginateResult[T], error) {
	filter = normalizeFilter(filter)
	if opts == nil {
		opts = options.Find()
	}
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	opts.SetSkip((page - 1) * limit)
	opts.SetLimit(limit)

	total, err := s.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}
	items, err := s.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var totalPage int64
	if total > 0 {
		totalPage = (total + limit - 1) / limit
	}
	return &basemodels.PaginateResult[T]{
		Items:     items,
		Page:      page,
		Limit:     limit,
		ItemCount: int64(len(items)),
		Total:     total,
		TotalPage: totalPage,
	}, nil
}

// UpdateOne cập nhật một document và trả về bản ghi sau khi ghi.
func (s *BaseServiceMongoImpl[T]) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts *options.UpdateOptions) (T, error) {
	var zero T
	filter = normalizeFilter(filter)
	if opts == nil {
		opts = options.Update().SetUpsert(false)
	}

	updateData, err := prepareUpdate(update)
	if err != nil {
		return zero, err
	}

	result, err := s.collection.UpdateOne(ctx, filter, updateData, opts)
	if err != nil {
		return zero, common.ConvertMongoError(err)
	}
	if result.MatchedCount == 0 && result.UpsertedCount == 0 {
		return zero, common.ErrNotFound
	}

	reloadFilter := filter
	if result.UpsertedID != nil {
		reloadFilter = bson.M{"_id": result.UpsertedID}
	}
	updated, err := s.reload(ctx, reloadFilter)
	if err != nil {
		return zero, err
	}

	s.emit(ctx, events.OpUpdate, updated)
	return updated, nil
}

// UpdateMany cập nhật các document khớp filter, trả về số bản ghi đã sửa.
func (s *BaseServiceMongoImpl[T]) UpdateMany(ctx context.Context, filter interface{}, update interface{}, opts *options.UpdateOptions) (int64, error) {
	if opts == nil {
		opts = options.Update().SetUpsert(false)
	}

	updateData, err := prepareUpdate(update)
	if err != nil {
		return 0, err
	}

	result, err := s.collection.UpdateMany(ctx, normalizeFilter(filter), updateData, opts)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return result.ModifiedCount, nil
}

func (s *BaseServiceMongoImpl[T]) UpdateById(ctx context.Context, id primitive.ObjectID, data interface{}) (T, error) {
	return s.UpdateOne(ctx, bson.M{"_id": id}, data, nil)
}

// Upsert cập nhật document khớp filter, tạo mới nếu chưa có. Khi tạo mới,
// default tag của model được đưa vào $setOnInsert.
func (s *BaseServiceMongoImpl[T]) Upsert(ctx context.Context, filter interface{}, data interface{}) (T, error) {
	var zero T

	// Đọc trước để biết sẽ là update hay insert (quyết định operation của
	// event và việc áp default)
	var existing T
	err := s.collection.FindOne(ctx, filter).Decode(&existing)
	isExisting := err == nil
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return zero, common.ConvertMongoError(err)
	}

	updateData, err := prepareUpdate(data)
	if err != nil {
		logrus.WithError(err).Error("Upsert: update không đúng định dạng")
		return zero, err
	}
	if !isExisting {
		if updateData.SetOnInsert == nil {
			updateData.SetOnInsert = make(map[string]interface{})
		}
		updateData.SetOnInsert["createdAt"] = time.Now().UnixMilli()
		for k, v := range getInsertDefaultsFromModelType(reflect.TypeOf(zero)) {
			if _, inSet := updateData.Set[k]; !inSet {
				updateData.SetOnInsert[k] = v
			}
		}
	}

	// Sort theo _id để filter khớp nhiều document vẫn chỉ đụng một bản ghi
	// xác định
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After).
		SetSort(bson.D{{Key: "_id", Value: 1}})

	var upserted T
	if err := s.collection.FindOneAndUpdate(ctx, filter, updateData, opts).Decode(&upserted); err != nil {
		logrus.WithFields(logrus.Fields{
			"collection": s.collection.Name(),
			"filter":     filter,
		}).WithError(err).Error("Upsert: FindOneAndUpdate thất bại")
		return zero, common.ConvertMongoError(err)
	}

	s.emit(ctx, events.OpUpsert, upserted)
	return upserted, nil
}

// DeleteOne xóa một document sau khi kiểm tra quan hệ tham chiếu.
func (s *BaseServiceMongoImpl[T]) DeleteOne(ctx context.Context, filter interface{}) error {
	filter = normalizeFilter(filter)

	existing, err := s.loadForDelete(ctx, filter)
	if err != nil {
		return err
	}

	result, err := s.collection.DeleteOne(ctx, filter)
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if result.DeletedCount == 0 {
		return common.ErrNotFound
	}

	s.emit(ctx, events.OpDelete, existing)
	return nil
}

// DeleteMany xóa các document khớp filter. Một document vướng quan hệ tham
// chiếu làm cả thao tác dừng lại trước khi xóa bất kỳ bản ghi nào.
func (s *BaseServiceMongoImpl[T]) DeleteMany(ctx context.Context, filter interface{}) (int64, error) {
	filter = normalizeFilter(filter)

	existingDocs, err := s.Find(ctx, filter, nil)
	if err != nil {
		return 0, err
	}
	for _, existing := range existingDocs {
		if err := validateRelationshipsDelete(ctx, existing); err != nil {
			return 0, err
		}
	}

	result, err := s.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return result.DeletedCount, nil
}

func (s *BaseServiceMongoImpl[T]) DeleteById(ctx context.Context, id primitive.ObjectID) error {
	return s.DeleteOne(ctx, bson.M{"_id": id})
}

// FindOneAndUpdate cập nhật nguyên tử một document.
func (s *BaseServiceMongoImpl[T]) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts *options.FindOneAndUpdateOptions) (T, error) {
	var zero T
	filter = normalizeFilter(filter)
	if opts == nil {
		opts = options.FindOneAndUpdate()
	}

	// Đọc trước để phân biệt update với upsert khi phát event
	var existing T
	err := s.collection.FindOne(ctx, filter).Decode(&existing)
	isExisting := err == nil
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return zero, common.ConvertMongoError(err)
	}

	updateData, err := prepareUpdate(update)
	if err != nil {
		return zero, err
	}

	var result T
	if err := s.collection.FindOneAndUpdate(ctx, filter, updateData, opts).Decode(&result); err != nil {
		return zero, common.ConvertMongoError(err)
	}

	op := events.OpUpdate
	if !isExisting {
		op = events.OpUpsert
	}
	s.emit(ctx, op, result)
	return result, nil
}

// FindOneAndDelete xóa nguyên tử một document sau khi kiểm tra quan hệ.
func (s *BaseServiceMongoImpl[T]) FindOneAndDelete(ctx context.Context, filter interface{}, opts *options.FindOneAndDeleteOptions) (T, error) {
	var zero T
	filter = normalizeFilter(filter)
	if opts == nil {
		opts = options.FindOneAndDelete()
	}

	if _, err := s.loadForDelete(ctx, filter); err != nil {
		return zero, err
	}

	var result T
	if err := s.collection.FindOneAndDelete(ctx, filter, opts).Decode(&result); err != nil {
		return zero, common.ConvertMongoError(err)
	}

	s.emit(ctx, events.OpDelete, result)
	return result, nil
}

func (s *BaseServiceMongoImpl[T]) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	count, err := s.collection.CountDocuments(ctx, normalizeFilter(filter))
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return count, nil
}

func (s *BaseServiceMongoImpl[T]) Distinct(ctx context.Context, fieldName string, filter interface{}) ([]interface{}, error) {
	values, err := s.collection.Distinct(ctx, fieldName, normalizeFilter(filter))
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return values, nil
}

func (s *BaseServiceMongoImpl[T]) DocumentExists(ctx context.Context, filter interface{}) (bool, error) {
	count, err := s.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// getIDFromModel lấy field ID của model bằng reflection.
func getIDFromModel(data interface{}) (primitive.ObjectID, bool) {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return primitive.NilObjectID, false
	}
	field := v.FieldByName("ID")
	if !field.IsValid() || !field.CanInterface() {
		return primitive.NilObjectID, false
	}
	if id, ok := field.Interface().(primitive.ObjectID); ok {
		return id, true
	}
	return primitive.NilObjectID, false
}

// applyInsertDefaultsToModel set các field đang zero theo default tag của
// model. ptr phải là con trỏ tới struct.
func applyInsertDefaultsToModel(ptr interface{}) {
	if ptr == nil {
		return
	}
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Ptr {
		return
	}
	struc := v.Elem()
	if struc.Kind() != reflect.Struct {
		return
	}
	rt := struc.Type()
	defaults := getInsertDefaultsFromModelType(rt)
	if len(defaults) == 0 {
		return
	}
	for i := 0; i < rt.NumField(); i++ {
		bsonKey := bsonKeyOf(rt.Field(i))
		if bsonKey == "" {
			continue
		}
		defaultVal, ok := defaults[bsonKey]
		if !ok {
			continue
		}
		fieldVal := struc.Field(i)
		if !fieldVal.CanSet() || !fieldVal.IsZero() {
			continue
		}
		rv := reflect.ValueOf(defaultVal)
		if rv.Type().AssignableTo(fieldVal.Type()) {
			fieldVal.Set(rv)
		} else if rv.Type().ConvertibleTo(fieldVal.Type()) {
			fieldVal.Set(rv.Convert(fieldVal.Type()))
		}
	}
}

// getInsertDefaultsFromModelType đọc default tag trên model, trả về
// map[bsonKey]giá trị. Hỗ trợ bool, int, int64 và string.
func getInsertDefaultsFromModelType(rt reflect.Type) map[string]interface{} {
	if rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return nil
	}
	out := make(map[string]interface{})
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		defaultStr := f.Tag.Get("default")
		if defaultStr == "" {
			continue
		}
		bsonKey := bsonKeyOf(f)
		if bsonKey == "" {
			continue
		}
		if val := parseDefaultValue(defaultStr, f.Type); val != nil {
			out[bsonKey] = val
		}
	}
	return out
}

// bsonKeyOf lấy tên field trong document từ bson tag, "" nếu field không
// được serialize.
func bsonKeyOf(f reflect.StructField) string {
	tag := f.Tag.Get("bson")
	if tag == "" || tag == "-" {
		return ""
	}
	return strings.TrimSpace(strings.Split(tag, ",")[0])
}

func parseDefaultValue(s string, t reflect.Type) interface{} {
	switch t.Kind() {
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return false
		}
		return b
	case reflect.Int, reflect.Int32:
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return int32(0)
		}
		return int32(n)
	case reflect.Int64:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return int64(0)
		}
		return n
	case reflect.String:
		return s
	default:
		return nil
	}
}

// validateRelationshipsDelete đọc relationship tag của model và chặn xóa khi
// còn record tham chiếu. Quan hệ khai báo cascade do service domain tự xử lý
// nên bỏ qua ở đây.
func validateRelationshipsDelete(ctx context.Context, data interface{}) error {
	modelType := reflect.TypeOf(data)
	if modelType == nil {
		return nil
	}
	if modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}
	if modelType.Kind() != reflect.Struct {
		return nil
	}

	relationships := ParseRelationshipTag(modelType)
	if len(relationships) == 0 {
		return nil
	}
	recordID, ok := getIDFromModel(data)
	if !ok {
		return nil
	}

	checks := make([]RelationshipCheck, 0, len(relationships))
	for _, rel := range relationships {
		if rel.Cascade {
			continue
		}
		checks = append(checks, RelationshipCheck{
			CollectionName: rel.CollectionName,
			FieldName:      rel.FieldName,
			ErrorMessage:   rel.ErrorMessage,
			Optional:       rel.Optional,
		})
	}
	if len(checks) == 0 {
		return nil
	}
	return CheckRelationshipExists(ctx, recordID, checks)
}
