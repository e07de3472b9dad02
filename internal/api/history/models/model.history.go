// Package models - Model cho domain History.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HistoryRecord là một bản ghi lịch sử thay đổi của item (event, planning,
// assignment, coverage). Append-only: API chỉ cho đọc.
type HistoryRecord struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	ItemID    primitive.ObjectID     `json:"itemId" bson:"item_id" index:"single:1"`
	Operation string                 `json:"operation" bson:"operation"` // insert | update | upsert | delete
	Update    map[string]interface{} `json:"update,omitempty" bson:"update,omitempty"`
	UserID    primitive.ObjectID     `json:"userId,omitempty" bson:"user_id,omitempty"`
	CreatedAt int64                  `json:"createdAt" bson:"createdAt"`
}
