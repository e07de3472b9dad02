// Package models - Model cho domain Delivery (queue, subscriber, history).
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trạng thái của một item trong delivery queue.
const (
	QueueStatusPending    = "pending"
	QueueStatusProcessing = "processing"
	QueueStatusSent       = "sent"
	QueueStatusFailed     = "failed" // hết lượt retry
)

// Kênh gửi thông báo ra ngoài.
const (
	ChannelEmail   = "email"
	ChannelWebhook = "webhook"
)

// DeliveryQueueItem là một thông báo chờ gửi cho một subscriber.
// Mỗi notification khớp N subscriber sinh N item: trạng thái retry độc lập
// theo từng người nhận.
type DeliveryQueueItem struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	NotificationName string                 `json:"notificationName" bson:"notification_name" index:"single:1"`
	Payload          map[string]interface{} `json:"payload,omitempty" bson:"payload,omitempty"`

	SubscriberID primitive.ObjectID `json:"subscriberId" bson:"subscriber_id"`
	ChannelType  string             `json:"channelType" bson:"channel_type"` // email | webhook
	Recipient    string             `json:"recipient" bson:"recipient"`      // địa chỉ email hoặc URL webhook

	Status        string `json:"status" bson:"status" default:"pending" index:"single:1"`
	AttemptCount  int    `json:"attemptCount" bson:"attempt_count"`
	MaxAttempts   int    `json:"maxAttempts" bson:"max_attempts"`
	NextAttemptAt int64  `json:"nextAttemptAt" bson:"next_attempt_at" index:"single:1"` // UnixMilli
	LastError     string `json:"lastError,omitempty" bson:"last_error,omitempty"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}
