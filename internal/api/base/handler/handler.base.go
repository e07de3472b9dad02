// Package basehdl chứa handler HTTP dùng chung: parse/validate request,
// chuyển DTO sang model và bộ route CRUD generic trên BaseServiceMongo.
package basehdl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	basesvc "planning_api/internal/api/base/service"
	"planning_api/internal/common"
	"planning_api/internal/global"
	"planning_api/internal/utility"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"
)

// FilterOptions giới hạn filter/options mà client được gửi lên.
type FilterOptions struct {
	DeniedFields     []string // Field bị cấm xuất hiện trong filter, sort, projection
	AllowedOperators []string // Operator MongoDB được phép trong filter
	MaxFields        int      // Số field tối đa trong một filter
}

func defaultFilterOptions() FilterOptions {
	return FilterOptions{
		DeniedFields:     []string{"password", "token", "secret", "key", "hash"},
		AllowedOperators: []string{"$eq", "$gt", "$gte", "$lt", "$lte", "$in", "$nin", "$exists"},
		MaxFields:        10,
	}
}

// BaseHandler là handler generic trên một BaseServiceMongo. Các handler
// domain nhúng struct này để có sẵn parse/validate/transform và bộ CRUD.
//
// Type parameters: T là model, CreateInput/UpdateInput là DTO tương ứng.
type BaseHandler[T any, CreateInput any, UpdateInput any] struct {
	BaseService   basesvc.BaseServiceMongo[T]
	filterOptions FilterOptions
}

func NewBaseHandler[T any, CreateInput any, UpdateInput any](baseService basesvc.BaseServiceMongo[T]) *BaseHandler[T, CreateInput, UpdateInput] {
	return &BaseHandler[T, CreateInput, UpdateInput]{
		BaseService:   baseService,
		filterOptions: defaultFilterOptions(),
	}
}

// ValidateInput chạy validator trên input theo validate tag.
func (h *BaseHandler[T, CreateInput, UpdateInput]) ValidateInput(input interface{}) error {
	if err := global.Validate.Struct(input); err != nil {
		return common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err)
	}
	return nil
}

// ParseRequestBody decode JSON body vào input. Dùng UseNumber để số lớn
// không bị mất precision qua float64.
func (h *BaseHandler[T, CreateInput, UpdateInput]) ParseRequestBody(c fiber.Ctx, input interface{}) error {
	decoder := json.NewDecoder(bytes.NewReader(c.Body()))
	decoder.UseNumber()
	if err := decoder.Decode(input); err != nil {
		return common.NewError(common.ErrCodeValidationFormat, common.MsgValidationError, common.StatusBadRequest, err)
	}
	return nil
}

// ProcessFilter đọc query param filter (JSON), đổi các giá trị ObjectID
// dạng chuỗi sang primitive.ObjectID rồi validate theo filterOptions.
func (h *BaseHandler[T, CreateInput, UpdateInput]) ProcessFilter(c fiber.Ctx) (map[string]interface{}, error) {
	var filter map[string]interface{}

	filterStr := c.Query("filter", "{}")
	if err := json.Unmarshal([]byte(filterStr), &filter); err != nil {
		return nil, common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("Filter không đúng định dạng JSON. Chi tiết lỗi: %v. Giá trị filter nhận được: %s", err, filterStr),
			common.StatusBadRequest,
			err,
		)
	}

	filter = h.normalizeFilter(filter)
	if err := h.validateFilter(filter); err != nil {
		return nil, err
	}
	return filter, nil
}

func (h *BaseHandler[T, CreateInput, UpdateInput]) normalizeFilter(filter map[string]interface{}) map[string]interface{} {
	if filter == nil {
		return filter
	}
	normalized := make(map[string]interface{})
	for field, value := range filter {
		normalized[field] = h.normalizeFilterValue(value, isObjectIDField(field))
	}
	return normalized
}

// refFields là các trường tham chiếu snake_case chứa ObjectID trong domain
// planning (bổ sung cho quy ước tên kết thúc bằng Id/ID).
var refFields = map[string]bool{
	"event_item":    true,
	"planning_item": true,
	"coverage_item": true,
	"assigned_to":   true,
	"lock_user":     true,
	"lock_session":  true,
	"recurrence_id": true,
}

func isObjectIDField(field string) bool {
	fieldLower := strings.ToLower(field)
	if strings.HasSuffix(fieldLower, "id") && len(fieldLower) > 2 {
		return true
	}
	return refFields[fieldLower]
}

// normalizeFilterValue đổi chuỗi hex sang ObjectID cho field ID, đệ quy vào
// mảng và operator map. Hỗ trợ cả Extended JSON {"$oid": "..."}.
func (h *BaseHandler[T, CreateInput, UpdateInput]) normalizeFilterValue(value interface{}, isIDField bool) interface{} {
	switch v := value.(type) {
	case nil:
		return value

	case string:
		if isIDField && primitive.IsValidObjectID(v) {
			if objID, err := primitive.ObjectIDFromHex(v); err == nil {
				return objID
			}
		}
		return v

	case []interface{}:
		normalized := make([]interface{}, len(v))
		for i, item := range v {
			normalized[i] = h.normalizeFilterValue(item, isIDField)
		}
		return normalized

	case map[string]interface{}:
		if oidValue, hasOid := v["$oid"]; hasOid {
			if oidStr, ok := oidValue.(string); ok && primitive.IsValidObjectID(oidStr) {
				if objID, err := primitive.ObjectIDFromHex(oidStr); err == nil {
					return objID
				}
			}
			return value
		}
		normalized := make(map[string]interface{})
		for key, val := range v {
			normalized[key] = h.normalizeFilterValue(val, isIDField)
		}
		return normalized
	}

	return value
}

func (h *BaseHandler[T, CreateInput, UpdateInput]) validateFilter(filter map[string]interface{}) error {
	opts := h.effectiveFilterOptions()

	if len(filter) > opts.MaxFields {
		return common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("Filter vượt quá số lượng trường cho phép. Tối đa %d trường, hiện tại có %d trường. Vui lòng giảm số lượng trường trong filter.", opts.MaxFields, len(filter)),
			common.StatusBadRequest,
			nil,
		)
	}

	for field, value := range filter {
		if utility.Contains(opts.DeniedFields, field) {
			return common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("Trường '%s' không được phép sử dụng trong filter vì lý do bảo mật. Vui lòng sử dụng các trường khác.", field),
				common.StatusBadRequest,
				nil,
			)
		}
		if mapValue, ok := value.(map[string]interface{}); ok {
			for op := range mapValue {
				if strings.HasPrefix(op, "$") && !utility.Contains(opts.AllowedOperators, op) {
					return common.NewError(
						common.ErrCodeValidationFormat,
						fmt.Sprintf("Toán tử MongoDB '%s' không được phép sử dụng. Các toán tử được phép: %v", op, opts.AllowedOperators),
						common.StatusBadRequest,
						nil,
					)
				}
			}
		}
	}
	return nil
}

// effectiveFilterOptions bù giá trị mặc định cho handler khởi tạo tay không
// qua NewBaseHandler.
func (h *BaseHandler[T, CreateInput, UpdateInput]) effectiveFilterOptions() FilterOptions {
	opts := h.filterOptions
	defaults := defaultFilterOptions()
	if len(opts.DeniedFields) == 0 {
		opts.DeniedFields = defaults.DeniedFields
	}
	if len(opts.AllowedOperators) == 0 {
		opts.AllowedOperators = defaults.AllowedOperators
	}
	if opts.MaxFields == 0 {
		opts.MaxFields = defaults.MaxFields
	}
	return opts
}

// processMongoOptions đọc query param options (JSON) thành FindOneOptions
// hoặc FindOptions: projection, sort, và với Find thêm limit/skip.
func (h *BaseHandler[T, CreateInput, UpdateInput]) processMongoOptions(c fiber.Ctx, isFindOne bool) (interface{}, error) {
	var rawOptions map[string]interface{}

	optionsStr := c.Query("options", "{}")
	if err := json.Unmarshal([]byte(optionsStr), &rawOptions); err != nil {
		return nil, common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("Options không đúng định dạng JSON. Chi tiết lỗi: %v. Giá trị options nhận được: %s", err, optionsStr),
			common.StatusBadRequest,
			err,
		)
	}
	if err := h.validateMongoOptions(rawOptions); err != nil {
		return nil, err
	}

	var sortBson bson.D
	if _, hasSort := rawOptions["sort"].(map[string]interface{}); hasSort {
		sortBson = parseSortOrdered(optionsStr)
	}

	if isFindOne {
		opts := mongoopts.FindOne()
		if projection, ok := rawOptions["projection"].(map[string]interface{}); ok {
			opts.SetProjection(projection)
		}
		if sortBson != nil {
			opts.SetSort(sortBson)
		}
		return opts, nil
	}

	opts := mongoopts.Find()
	if projection, ok := rawOptions["projection"].(map[string]interface{}); ok {
		opts.SetProjection(projection)
	}
	if sortBson != nil {
		opts.SetSort(sortBson)
	}
	if limit, ok := rawOptions["limit"].(float64); ok {
		opts.SetLimit(int64(limit))
	}
	if skip, ok := rawOptions["skip"].(float64); ok {
		opts.SetSkip(int64(skip))
	}
	return opts, nil
}

// parseSortOrdered lấy object sort từ chuỗi options gốc, giữ nguyên thứ tự
// key như client gửi (map của encoding/json không giữ thứ tự, mà thứ tự
// field quyết định kết quả sort nhiều cột). Key có giá trị khác 1/-1 bị bỏ
// qua.
func parseSortOrdered(optionsJSON string) bson.D {
	var tempOptions map[string]json.RawMessage
	if err := json.Unmarshal([]byte(optionsJSON), &tempOptions); err != nil {
		return nil
	}
	sortRaw, ok := tempOptions["sort"]
	if !ok {
		return nil
	}

	decoder := json.NewDecoder(bytes.NewReader(sortRaw))
	decoder.UseNumber()

	token, err := decoder.Token()
	if err != nil || token != json.Delim('{') {
		return nil
	}

	sortBson := bson.D{}
	for decoder.More() {
		keyToken, err := decoder.Token()
		if err != nil {
			break
		}
		field, ok := keyToken.(string)
		if !ok {
			continue
		}

		valueToken, err := decoder.Token()
		if err != nil {
			break
		}
		number, ok := valueToken.(json.Number)
		if !ok {
			continue
		}
		sortValue, err := number.Int64()
		if err != nil {
			continue
		}
		if sortValue != 1 && sortValue != -1 {
			continue
		}
		sortBson = append(sortBson, bson.E{Key: field, Value: int(sortValue)})
	}
	return sortBson
}

func (h *BaseHandler[T, CreateInput, UpdateInput]) validateMongoOptions(options map[string]interface{}) error {
	opts := h.effectiveFilterOptions()

	allowedOptions := map[string]bool{
		"projection": true,
		"sort":       true,
		"limit":      true,
		"skip":       true,
	}
	for key := range options {
		if !allowedOptions[key] {
			return common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("Option '%s' không được hỗ trợ. Các options được phép: projection, sort, limit, skip", key),
				common.StatusBadRequest,
				nil,
			)
		}
	}

	if projection, ok := options["projection"].(map[string]interface{}); ok {
		for field := range projection {
			if utility.Contains(opts.DeniedFields, field) {
				return common.NewError(
					common.ErrCodeValidationFormat,
					fmt.Sprintf("Trường '%s' không được phép sử dụng trong projection vì lý do bảo mật", field),
					common.StatusBadRequest,
					nil,
				)
			}
		}
	}

	if sort, ok := options["sort"].(map[string]interface{}); ok {
		for field, value := range sort {
			if utility.Contains(opts.DeniedFields, field) {
				return common.NewError(
					common.ErrCodeValidationFormat,
					fmt.Sprintf("Trường '%s' không được phép sử dụng trong sort vì lý do bảo mật", field),
					common.StatusBadRequest,
					nil,
				)
			}
			if v, ok := value.(float64); !ok || (v != 1 && v != -1) {
				return common.NewError(
					common.ErrCodeValidationFormat,
					fmt.Sprintf("Giá trị sort cho trường '%s' phải là 1 (tăng dần) hoặc -1 (giảm dần), giá trị hiện tại: %v", field, value),
					common.StatusBadRequest,
					nil,
				)
			}
		}
	}

	if limit, ok := options["limit"].(float64); ok {
		if limit <= 0 {
			return common.NewError(common.ErrCodeValidationFormat, "Giá trị limit phải lớn hơn 0", common.StatusBadRequest, nil)
		}
		if limit > 1000 {
			return common.NewError(common.ErrCodeValidationFormat, "Giá trị limit không được vượt quá 1000 để đảm bảo hiệu năng hệ thống", common.StatusBadRequest, nil)
		}
	}
	if skip, ok := options["skip"].(float64); ok && skip < 0 {
		return common.NewError(common.ErrCodeValidationFormat, "Giá trị skip không được âm", common.StatusBadRequest, nil)
	}

	return nil
}

// ParsePagination đọc page và limit từ query string, mặc định trang 1 với
// 10 item.
func (h *BaseHandler[T, CreateInput, UpdateInput]) ParsePagination(c fiber.Ctx) (int64, int64) {
	page := utility.P2Int64(c.Query("page", "1"))
	if page <= 0 {
		page = 1
	}
	limit := utility.P2Int64(c.Query("limit", "10"))
	if limit <= 0 {
		limit = 10
	}
	return page, limit
}

// TransformCreateInputToModel đổi CreateInput (DTO) thành model theo
// transform tag trên DTO.
func (h *BaseHandler[T, CreateInput, UpdateInput]) TransformCreateInputToModel(input *CreateInput) (*T, error) {
	model := new(T)
	if err := transformInputToModel(input, model); err != nil {
		return nil, err
	}
	return model, nil
}

// TransformUpdateInputToModel đổi UpdateInput (DTO) thành model, cùng cơ chế
// với TransformCreateInputToModel.
func (h *BaseHandler[T, CreateInput, UpdateInput]) TransformUpdateInputToModel(input *UpdateInput) (*T, error) {
	model := new(T)
	if err := transformInputToModel(input, model); err != nil {
		return nil, err
	}
	return model, nil
}

// transformInputToModel copy field cùng tên từ DTO sang model. Field có
// transform tag đi qua utility.TransformFieldValue (ví dụ chuỗi hex sang
// ObjectID); field không có tag copy trực tiếp khi type tương thích.
func transformInputToModel(input interface{}, model interface{}) error {
	inputVal := reflect.ValueOf(input)
	if inputVal.Kind() == reflect.Ptr {
		inputVal = inputVal.Elem()
	}
	if inputVal.Kind() != reflect.Struct {
		return fmt.Errorf("input phải là struct hoặc pointer đến struct")
	}

	modelVal := reflect.ValueOf(model)
	if modelVal.Kind() == reflect.Ptr {
		modelVal = modelVal.Elem()
	}
	if modelVal.Kind() != reflect.Struct {
		return fmt.Errorf("model phải là struct hoặc pointer đến struct")
	}

	inputType := inputVal.Type()
	modelType := modelVal.Type()

	for i := 0; i < inputVal.NumField(); i++ {
		inputField := inputVal.Field(i)
		inputFieldType := inputType.Field(i)
		if !inputField.CanInterface() {
			continue
		}

		fieldName := inputFieldType.Name
		modelFieldType, found := modelType.FieldByName(fieldName)
		transformTag := inputFieldType.Tag.Get("transform")

		if !found {
			if transformTag == "" {
				continue
			}
			return fmt.Errorf("không tìm thấy field '%s' trong Model", fieldName)
		}

		modelFieldVal := modelVal.FieldByName(fieldName)
		if !modelFieldVal.IsValid() || !modelFieldVal.CanSet() {
			continue
		}

		fieldValue := inputField.Interface()

		if transformTag == "" {
			// Copy trực tiếp khi type tương thích
			rv := reflect.ValueOf(fieldValue)
			if rv.Type().AssignableTo(modelFieldVal.Type()) {
				modelFieldVal.Set(rv)
			} else if rv.Type().ConvertibleTo(modelFieldVal.Type()) {
				modelFieldVal.Set(rv.Convert(modelFieldVal.Type()))
			}
			continue
		}

		transformConfig, err := utility.ParseTransformTag(transformTag)
		if err != nil {
			return fmt.Errorf("lỗi parse transform tag cho field %s: %w", fieldName, err)
		}

		transformedValue, err := utility.TransformFieldValue(fieldValue, transformConfig, modelFieldType.Type)
		if err != nil {
			return fmt.Errorf("lỗi transform field '%s': %w", fieldName, err)
		}
		if transformedValue == nil {
			// Optional với giá trị rỗng giữ nguyên zero value của model
			continue
		}

		rv := reflect.ValueOf(transformedValue)
		if rv.Type().AssignableTo(modelFieldVal.Type()) {
			modelFieldVal.Set(rv)
		} else if rv.Type().ConvertibleTo(modelFieldVal.Type()) {
			modelFieldVal.Set(rv.Convert(modelFieldVal.Type()))
		} else {
			return fmt.Errorf("không thể convert giá trị từ type %v sang type %v cho field '%s'", rv.Type(), modelFieldVal.Type(), fieldName)
		}
	}

	return nil
}

// getCreateInputBSONKeySet trả về tập json/bson key mà CreateInput khai báo.
// Upsert dùng tập này để chỉ ghi các field input thực sự có vào $set.
func (h *BaseHandler[T, CreateInput, UpdateInput]) getCreateInputBSONKeySet() map[string]bool {
	var zero CreateInput
	rt := reflect.TypeOf(zero)
	if rt == nil {
		return nil
	}
	if rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return nil
	}

	keys := make(map[string]bool)
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		tag := f.Tag.Get("json")
		if tag == "" {
			tag = f.Tag.Get("bson")
		}
		if tag == "" || tag == "-" {
			continue
		}
		key := strings.TrimSpace(strings.Split(tag, ",")[0])
		if key != "" {
			keys[key] = true
		}
	}
	return keys
}
