package itemlock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"planning_api/internal/common"
)

func TestLeaseKey(t *testing.T) {
	id := primitive.NewObjectID()
	assert.Equal(t, "item_lock "+id.Hex(), leaseKey(id))
}

func TestLockFields_IsLocked(t *testing.T) {
	assert.False(t, LockFields{}.IsLocked(), "item chưa có lock_user thì không bị lock")
	assert.True(t, LockFields{LockUser: primitive.NewObjectID()}.IsLocked())
}

func TestClassifyConflict(t *testing.T) {
	user := primitive.NewObjectID()
	session := primitive.NewObjectID()
	otherUser := primitive.NewObjectID()
	otherSession := primitive.NewObjectID()

	t.Run("item chưa bị lock", func(t *testing.T) {
		err := LockFields{}.ClassifyConflict(user, session)
		assert.NoError(t, err)
	})

	t.Run("user khác đang giữ", func(t *testing.T) {
		current := LockFields{LockUser: otherUser, LockSession: otherSession}
		err := current.ClassifyConflict(user, session)
		assert.ErrorIs(t, err, common.ErrLockedByAnotherUser)
	})

	t.Run("cùng user nhưng phiên khác", func(t *testing.T) {
		current := LockFields{LockUser: user, LockSession: otherSession}
		err := current.ClassifyConflict(user, session)
		assert.ErrorIs(t, err, common.ErrLockedOtherSession)

		var appErr *common.Error
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, "Item is locked by you in another session.", appErr.Message)
		assert.Equal(t, common.StatusForbidden, appErr.StatusCode)
	})

	t.Run("cùng user cùng phiên - re-lock hợp lệ", func(t *testing.T) {
		current := LockFields{LockUser: user, LockSession: session, LockAction: "edit"}
		err := current.ClassifyConflict(user, session)
		assert.NoError(t, err)
	})
}

func TestClearLockUpdate_UnsetsAllLockFields(t *testing.T) {
	update := clearLockUpdate()

	unset, ok := update["$unset"].(bson.M)
	require.True(t, ok, "$unset phải là bson.M")
	for _, field := range []string{"lock_user", "lock_session", "lock_action", "lock_time"} {
		assert.Contains(t, unset, field)
	}

	set, ok := update["$set"].(bson.M)
	require.True(t, ok)
	assert.Contains(t, set, "updatedAt")
}
