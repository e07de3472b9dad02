package itemlock

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"planning_api/internal/common"
	"planning_api/internal/global"
	"planning_api/internal/logger"
	"planning_api/internal/notification"
)

// LockFields là bốn field lock nằm trên document của Event/Planning/Assignment.
// Model của các resource nhúng struct này với bson:",inline".
type LockFields struct {
	LockUser    primitive.ObjectID `json:"lockUser,omitempty" bson:"lock_user,omitempty"`
	LockSession primitive.ObjectID `json:"lockSession,omitempty" bson:"lock_session,omitempty"`
	LockAction  string             `json:"lockAction,omitempty" bson:"lock_action,omitempty"`
	LockTime    int64              `json:"lockTime,omitempty" bson:"lock_time,omitempty"`
}

// IsLocked cho biết item có đang bị lock không.
func (f LockFields) IsLocked() bool {
	return !f.LockUser.IsZero()
}

// ClassifyConflict kiểm tra trạng thái lock hiện tại so với người gọi.
// Trả về nil nếu item chưa bị lock hoặc đang được chính phiên này giữ.
func (f LockFields) ClassifyConflict(user, session primitive.ObjectID) error {
	if !f.IsLocked() {
		return nil
	}
	if f.LockUser != user {
		return common.ErrLockedByAnotherUser
	}
	if f.LockSession != session {
		return common.ErrLockedOtherSession
	}
	return nil
}

// Lock chiếm lock trên một item. resource là tên collection của item (dùng cho
// tên notification), col là collection chứa item.
// Conflict: item đang bị user khác giữ → "locked by another user"; cùng user
// nhưng phiên khác → "locked by you in another session". Cùng user cùng phiên
// thì re-lock hợp lệ, chỉ cập nhật action và thời điểm.
func (l *Locker) Lock(ctx context.Context, col *mongo.Collection, resource string, itemID, user, session primitive.ObjectID, action string) (*LockFields, error) {
	owner, err := l.acquireLease(ctx, itemID)
	if err != nil {
		return nil, err
	}
	defer l.releaseLease(ctx, itemID, owner)

	current, err := readLockFields(ctx, col, itemID)
	if err != nil {
		return nil, err
	}
	if err := current.ClassifyConflict(user, session); err != nil {
		logger.GetAuditLogger().WithFields(logrus.Fields{
			"resource": resource,
			"item":     itemID.Hex(),
			"user":     user.Hex(),
			"holder":   current.LockUser.Hex(),
		}).Warn("🔒 [LOCK] Từ chối lock vì item đang bị giữ")
		return nil, err
	}

	now := time.Now().UnixMilli()
	locked := LockFields{
		LockUser:    user,
		LockSession: session,
		LockAction:  action,
		LockTime:    now,
	}
	update := bson.M{
		"$set": bson.M{
			"lock_user":    locked.LockUser,
			"lock_session": locked.LockSession,
			"lock_action":  locked.LockAction,
			"lock_time":    locked.LockTime,
			"updatedAt":    now,
		},
	}
	if _, err := col.UpdateOne(ctx, bson.M{"_id": itemID}, update); err != nil {
		return nil, common.ConvertMongoError(err)
	}

	notification.PushNotification(ctx, notification.LockNameFor(resource, true), map[string]interface{}{
		"item":        itemID.Hex(),
		"user":        user.Hex(),
		"lockSession": session.Hex(),
		"lockAction":  action,
		"lockTime":    now,
	})

	return &locked, nil
}

// Unlock nhả lock trên một item. Chỉ người đang giữ lock nhả được; force=true
// bỏ qua kiểm tra ownership (dùng cho quyền override).
func (l *Locker) Unlock(ctx context.Context, col *mongo.Collection, resource string, itemID, user, session primitive.ObjectID, force bool) error {
	owner, err := l.acquireLease(ctx, itemID)
	if err != nil {
		return err
	}
	defer l.releaseLease(ctx, itemID, owner)

	current, err := readLockFields(ctx, col, itemID)
	if err != nil {
		return err
	}
	if !current.IsLocked() {
		return common.ErrItemNotLocked
	}
	if !force && current.LockUser != user {
		return common.ErrNotLockOwner
	}

	if err := clearLockFields(ctx, col, bson.M{"_id": itemID}); err != nil {
		return err
	}

	notification.PushNotification(ctx, notification.LockNameFor(resource, false), map[string]interface{}{
		"item": itemID.Hex(),
		"user": user.Hex(),
	})
	return nil
}

// UnlockSession nhả mọi lock mà một phiên đang giữ trên cả ba resource.
// Gọi khi logout hoặc khi worker dọn phiên hết hạn. Không cần lease: filter
// đã trỏ đích danh phiên nên không tranh chấp với lock mới.
func (l *Locker) UnlockSession(ctx context.Context, user, session primitive.ObjectID) error {
	resources := []string{
		global.MongoDB_ColNames.Events,
		global.MongoDB_ColNames.Planning,
		global.MongoDB_ColNames.Assignments,
	}

	filter := bson.M{"lock_user": user, "lock_session": session}
	for _, resource := range resources {
		col, exists := global.RegistryCollections.Get(resource)
		if !exists {
			continue
		}
		result, err := col.UpdateMany(ctx, filter, clearLockUpdate())
		if err != nil {
			return common.ConvertMongoError(err)
		}
		if result.ModifiedCount > 0 {
			logger.GetAuditLogger().WithFields(logrus.Fields{
				"resource": resource,
				"user":     user.Hex(),
				"session":  session.Hex(),
				"count":    result.ModifiedCount,
			}).Info("🔒 [LOCK] Đã nhả lock của phiên")
			notification.PushNotification(ctx, notification.LockNameFor(resource, false), map[string]interface{}{
				"user":    user.Hex(),
				"session": session.Hex(),
				"count":   result.ModifiedCount,
			})
		}
	}
	return nil
}

// UnlockStale nhả các lock đã giữ quá maxAge trên một collection (worker dọn
// lock bỏ quên). Trả về số lock đã nhả.
func (l *Locker) UnlockStale(ctx context.Context, col *mongo.Collection, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge).UnixMilli()
	filter := bson.M{
		"lock_user": bson.M{"$exists": true, "$ne": primitive.NilObjectID},
		"lock_time": bson.M{"$lt": cutoff},
	}
	result, err := col.UpdateMany(ctx, filter, clearLockUpdate())
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return result.ModifiedCount, nil
}

func readLockFields(ctx context.Context, col *mongo.Collection, itemID primitive.ObjectID) (LockFields, error) {
	var doc struct {
		LockFields `bson:",inline"`
	}
	opts := options.FindOne().SetProjection(bson.M{
		"lock_user": 1, "lock_session": 1, "lock_action": 1, "lock_time": 1,
	})
	err := col.FindOne(ctx, bson.M{"_id": itemID}, opts).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return LockFields{}, common.ErrNotFound
		}
		return LockFields{}, common.ConvertMongoError(err)
	}
	return doc.LockFields, nil
}

func clearLockUpdate() bson.M {
	return bson.M{
		"$unset": bson.M{
			"lock_user":    "",
			"lock_session": "",
			"lock_action":  "",
			"lock_time":    "",
		},
		"$set": bson.M{"updatedAt": time.Now().UnixMilli()},
	}
}

func clearLockFields(ctx context.Context, col *mongo.Collection, filter bson.M) error {
	if _, err := col.UpdateOne(ctx, filter, clearLockUpdate()); err != nil {
		return common.ConvertMongoError(err)
	}
	return nil
}
