package utility

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// ToMap chuyển struct thành map[string]interface{} qua một vòng bson
// marshal/unmarshal, key lấy theo bson tag của model. Tầng base dùng map này
// để gắn timestamps trước khi ghi và để lọc field cho partial update.
func ToMap(s interface{}) (map[string]interface{}, error) {
	raw, err := bson.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("bson marshal: %w", err)
	}
	var out map[string]interface{}
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("bson unmarshal: %w", err)
	}
	return out, nil
}
