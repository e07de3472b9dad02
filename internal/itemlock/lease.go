// Package itemlock hiện thực lock protocol trên từng item (Event, Planning,
// Assignment). Trạng thái lock nằm ngay trên document (lock_user, lock_session,
// lock_action, lock_time); thao tác đọc-sửa-ghi trạng thái đó được bọc trong
// một lease mutex ngắn hạn lưu ở collection item_locks để hai request đồng thời
// không cùng thắng một item.
package itemlock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"planning_api/internal/common"
	"planning_api/internal/global"
)

const leaseKeyPrefix = "item_lock "

// leaseKey sinh khóa lease cho một item, dạng "item_lock <hex id>".
func leaseKey(itemID primitive.ObjectID) string {
	return leaseKeyPrefix + itemID.Hex()
}

// acquireLease chiếm lease cho item trong leaseTTL. Trả về token của chủ lease
// để release đúng lease của mình. Lease đang được giữ và chưa hết hạn thì trả
// về ErrLeaseNotAcquired: caller báo client thử lại.
//
// Cách chiếm: FindOneAndUpdate upsert với filter "lease đã hết hạn". Lease còn
// sống làm filter trượt, upsert đâm vào _id trùng → duplicate key → thua.
// Mongo tự dọn lease mồ côi qua TTL index trên expire_at.
func (l *Locker) acquireLease(ctx context.Context, itemID primitive.ObjectID) (string, error) {
	owner := uuid.NewString()
	now := time.Now()

	filter := bson.M{
		"_id":       leaseKey(itemID),
		"expire_at": bson.M{"$lt": now},
	}
	update := bson.M{
		"$set": bson.M{
			"owner":     owner,
			"expire_at": now.Add(l.leaseTTL),
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	err := l.leases.FindOneAndUpdate(ctx, filter, update, opts).Err()
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", common.ErrLeaseNotAcquired
		}
		return "", common.ConvertMongoError(err)
	}
	return owner, nil
}

// releaseLease trả lease nếu vẫn thuộc về owner. Lỗi khi release được nuốt:
// lease sẽ tự hết hạn qua TTL.
func (l *Locker) releaseLease(ctx context.Context, itemID primitive.ObjectID, owner string) {
	_, _ = l.leases.DeleteOne(ctx, bson.M{
		"_id":   leaseKey(itemID),
		"owner": owner,
	})
}

// Locker thực hiện lock/unlock item. leaseTTL lấy từ config LOCK_LEASE_SECONDS.
type Locker struct {
	leases   *mongo.Collection
	leaseTTL time.Duration
}

// NewLocker tạo Locker dùng collection item_locks đã đăng ký trong registry.
func NewLocker() (*Locker, error) {
	leases, exists := global.RegistryCollections.Get(global.MongoDB_ColNames.ItemLocks)
	if !exists {
		return nil, common.NewError(common.ErrCodeInternalServer,
			fmt.Sprintf("Khong tim thay collection '%s'", global.MongoDB_ColNames.ItemLocks),
			common.StatusInternalServerError, nil)
	}

	ttl := 5 * time.Second
	if global.MongoDB_ServerConfig != nil && global.MongoDB_ServerConfig.LockLeaseSeconds > 0 {
		ttl = time.Duration(global.MongoDB_ServerConfig.LockLeaseSeconds) * time.Second
	}

	return &Locker{leases: leases, leaseTTL: ttl}, nil
}
