package utility

import (
	"fmt"
	"reflect"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TransformConfig là cấu hình đọc từ tag transform trên field của DTO.
// Tag có dạng "<type>[,optional]", ví dụ:
//
//	EventItem string `json:"eventItem" transform:"str_objectid,optional"`
//
// Hiện hỗ trợ type str_objectid (chuỗi hex 24 ký tự sang primitive.ObjectID).
// Flag optional cho phép client bỏ trống field: giá trị rỗng giữ nguyên zero
// value của model thay vì báo lỗi.
type TransformConfig struct {
	Type     string
	Optional bool
}

// ParseTransformTag đọc tag transform thành TransformConfig.
func ParseTransformTag(tag string) (*TransformConfig, error) {
	config := &TransformConfig{}
	for i, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		switch {
		case i == 0:
			config.Type = part
		case part == "optional":
			config.Optional = true
		}
	}
	return config, nil
}

// TransformFieldValue đổi giá trị field của DTO sang kiểu của field model
// theo config. Giá trị nil hoặc chuỗi rỗng trả về (nil, nil) khi optional,
// lỗi khi không optional. Type không khai báo thì giữ nguyên giá trị gốc.
func TransformFieldValue(value interface{}, config *TransformConfig, targetFieldType reflect.Type) (interface{}, error) {
	if value == nil {
		if config.Optional {
			return nil, nil
		}
		return nil, fmt.Errorf("field bắt buộc nhưng không có giá trị")
	}
	if strValue, ok := value.(string); ok && strValue == "" {
		if config.Optional {
			return nil, nil
		}
		return nil, fmt.Errorf("field bắt buộc nhưng giá trị rỗng")
	}

	switch config.Type {
	case "str_objectid":
		return transformToObjectID(value)
	default:
		return value, nil
	}
}

// transformToObjectID đổi chuỗi hex sang primitive.ObjectID.
func transformToObjectID(value interface{}) (primitive.ObjectID, error) {
	strValue, ok := value.(string)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("giá trị không phải là string: %T", value)
	}
	objID, err := primitive.ObjectIDFromHex(strValue)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("không thể đổi '%s' sang ObjectID: %w", strValue, err)
	}
	return objID, nil
}
