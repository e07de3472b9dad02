package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subscriber là một đích nhận thông báo. Topics chọn notification theo tên
// đầy đủ ("events:cancelled") hoặc theo resource ("events" nhận mọi action);
// danh sách rỗng nhận tất cả.
type Subscriber struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	Name        string   `json:"name" bson:"name" validate:"required,no_xss" index:"single:1"`
	ChannelType string   `json:"channelType" bson:"channel_type" validate:"required,oneof=email webhook"`
	Target      string   `json:"target" bson:"target" validate:"required"` // địa chỉ email hoặc URL webhook
	Topics      []string `json:"topics,omitempty" bson:"topics,omitempty"`
	Active      bool     `json:"active" bson:"active" default:"true"`

	// Secret ký HMAC payload webhook, lưu ở dạng mã hóa (AES-GCM, key dẫn
	// xuất từ JWT secret). Rỗng với kênh email.
	EncryptedSecret string `json:"-" bson:"encrypted_secret,omitempty"`

	CreatedBy primitive.ObjectID `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}

// Matches báo subscriber có nhận notification với tên đã cho không.
// Tên notification dạng "<resource>:<action>".
func (s *Subscriber) Matches(notificationName string) bool {
	if !s.Active {
		return false
	}
	if len(s.Topics) == 0 {
		return true
	}
	for _, topic := range s.Topics {
		if topic == notificationName {
			return true
		}
		// Topic theo resource: "events" khớp "events:cancelled"
		if len(notificationName) > len(topic) &&
			notificationName[:len(topic)] == topic &&
			notificationName[len(topic)] == ':' {
			return true
		}
	}
	return false
}
