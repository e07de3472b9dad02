package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Desk là một bộ phận tòa soạn (desk) nhận assignment.
type Desk struct {
	_Relationships struct{}           `relationship:"collection:users,field:desk,message:Không thể xóa desk vì có %d user đang thuộc desk này. Vui lòng chuyển các user sang desk khác trước."`
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name           string             `json:"name" bson:"name" validate:"required" index:"unique"`
	Description    string             `json:"description,omitempty" bson:"description,omitempty"`
	Email          string             `json:"email,omitempty" bson:"email,omitempty"`
	CreatedAt      int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt      int64              `json:"updatedAt" bson:"updatedAt"`
}
