// Package models - model người dùng (User) và desk thuộc domain auth.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User định nghĩa mô hình người dùng.
// Desk là bộ phận tòa soạn mà user trực thuộc. Assignment chỉ giao được
// cho user có desk.
// Tokens chứa danh sách token theo phiên đăng nhập, mỗi phiên một session ID riêng.
type User struct {
	_Relationships struct{}           `relationship:"collection:assignments,field:assigned_to.user,message:Không thể xóa user vì có %d assignment đang được giao cho user này. Vui lòng gỡ các assignment trước."`
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name           string             `json:"name" bson:"name"`
	Email          string             `json:"email" bson:"email" index:"unique"`
	Password       string             `json:"-" bson:"password,omitempty"`
	Salt           string             `json:"-" bson:"salt,omitempty"`
	Desk           primitive.ObjectID `json:"desk,omitempty" bson:"desk,omitempty" index:"single:1"`
	Role           string             `json:"role" bson:"role"`
	Token          string             `json:"token,omitempty" bson:"token"`
	Tokens         []Token            `json:"-" bson:"tokens"`
	IsBlock        bool               `json:"-" bson:"isBlock"`
	BlockNote      string             `json:"-" bson:"blockNote"`
	CreatedAt      int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt      int64              `json:"updatedAt" bson:"updatedAt"`
}

// Các role của người dùng trong hệ thống.
const (
	RoleAdmin       = "admin"
	RoleEditor      = "editor"
	RoleContributor = "contributor"
)

// UserPaginateResult đại diện cho kết quả phân trang User
type UserPaginateResult struct {
	Page      int64  `json:"page" bson:"page"`
	Limit     int64  `json:"limit" bson:"limit"`
	ItemCount int64  `json:"itemCount" bson:"itemCount"`
	Items     []User `json:"items" bson:"items"`
}
