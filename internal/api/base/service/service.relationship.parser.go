package basesvc

import (
	"fmt"
	"reflect"
	"strings"
)

// RelationshipDefinition mô tả một quan hệ tham chiếu khai báo bằng struct tag
// trên model. Tầng base đọc các định nghĩa này để chặn xóa record đang được
// collection khác trỏ tới (hoặc cascade khi tag khai báo cascade:true).
type RelationshipDefinition struct {
	CollectionName string
	FieldName      string
	ErrorMessage   string
	Optional       bool
	Cascade        bool
}

// ParseRelationshipTag gom các định nghĩa quan hệ từ tag relationship của
// struct: field đánh dấu _Relationships trước, rồi tới các field còn lại.
func ParseRelationshipTag(structType reflect.Type) []RelationshipDefinition {
	var relationships []RelationshipDefinition
	if field, ok := structType.FieldByName("_Relationships"); ok {
		if tag := field.Tag.Get("relationship"); tag != "" {
			relationships = append(relationships, parseRelationshipTagValue(tag)...)
		}
	}
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if field.Name == "_Relationships" {
			continue
		}
		if tag := field.Tag.Get("relationship"); tag != "" {
			relationships = append(relationships, parseRelationshipTagValue(tag)...)
		}
	}
	return relationships
}

// parseRelationshipTagValue đọc một tag value. Nhiều quan hệ ngăn cách bởi
// "|", mỗi quan hệ là danh sách key:value ngăn cách bởi dấu phẩy, ví dụ:
//
//	relationship:"collection:planning,field:event_item,message:..."
//
// Quan hệ thiếu collection hoặc field bị bỏ qua.
func parseRelationshipTagValue(tagValue string) []RelationshipDefinition {
	var relationships []RelationshipDefinition
	for _, part := range strings.Split(tagValue, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		rel := RelationshipDefinition{}
		for _, pair := range strings.Split(part, ",") {
			kv := strings.SplitN(strings.TrimSpace(pair), ":", 2)
			if len(kv) != 2 {
				continue
			}
			key := strings.TrimSpace(kv[0])
			value := strings.TrimSpace(kv[1])
			switch key {
			case "collection":
				rel.CollectionName = value
			case "field":
				rel.FieldName = value
			case "message", "msg":
				rel.ErrorMessage = value
			case "optional":
				rel.Optional = value == "true" || value == "1"
			case "cascade":
				rel.Cascade = value == "true" || value == "1"
			}
		}
		if rel.CollectionName == "" || rel.FieldName == "" {
			continue
		}
		if rel.ErrorMessage == "" {
			rel.ErrorMessage = fmt.Sprintf("Khong the xoa record vi co %%d record trong collection '%s' dang tham chieu toi.", rel.CollectionName)
		}
		relationships = append(relationships, rel)
	}
	return relationships
}
