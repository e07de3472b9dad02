package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DeliveryHistory là kết quả một lần gửi (thành công hoặc bỏ cuộc sau khi hết
// lượt retry). Append-only, chỉ đọc qua API.
type DeliveryHistory struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	QueueItemID      primitive.ObjectID `json:"queueItemId" bson:"queue_item_id" index:"single:1"`
	NotificationName string             `json:"notificationName" bson:"notification_name" index:"single:1"`
	SubscriberID     primitive.ObjectID `json:"subscriberId" bson:"subscriber_id"`
	ChannelType      string             `json:"channelType" bson:"channel_type"`
	Recipient        string             `json:"recipient" bson:"recipient"`

	Status       string `json:"status" bson:"status" index:"single:1"` // sent | failed
	Error        string `json:"error,omitempty" bson:"error,omitempty"`
	AttemptCount int    `json:"attemptCount" bson:"attempt_count"`
	SentAt       *int64 `json:"sentAt,omitempty" bson:"sent_at,omitempty"` // UnixMilli, nil nếu failed

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
}
