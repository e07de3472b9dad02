// Package dto - DTO cho domain Delivery.
package dto

// SubscriberCreateInput dữ liệu tạo Subscriber mới. Secret (nếu có) được mã
// hóa trước khi lưu, không bao giờ trả về qua API.
type SubscriberCreateInput struct {
	Name        string   `json:"name" validate:"required,no_xss"`
	ChannelType string   `json:"channelType" validate:"required,oneof=email webhook"`
	Target      string   `json:"target" validate:"required"`
	Topics      []string `json:"topics,omitempty"`
	Active      *bool    `json:"active,omitempty"`
	Secret      string   `json:"secret,omitempty"`
}

// SubscriberUpdateInput dữ liệu cập nhật Subscriber.
type SubscriberUpdateInput struct {
	Name    string   `json:"name,omitempty" validate:"omitempty,no_xss"`
	Target  string   `json:"target,omitempty"`
	Topics  []string `json:"topics,omitempty"`
	Active  *bool    `json:"active,omitempty"`
}
