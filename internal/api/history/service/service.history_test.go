package historysvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	planningmodels "planning_api/internal/api/planning/models"
	"planning_api/internal/global"
)

func TestHistoryTarget(t *testing.T) {
	global.MongoDB_ColNames.Events = "events"
	global.MongoDB_ColNames.EventsHistory = "events_history"
	global.MongoDB_ColNames.Planning = "planning"
	global.MongoDB_ColNames.PlanningHistory = "planning_history"
	global.MongoDB_ColNames.Assignments = "assignments"
	global.MongoDB_ColNames.AssignmentsHistory = "assignments_history"

	name, ok := historyTarget("events")
	assert.True(t, ok)
	assert.Equal(t, "events_history", name)

	name, ok = historyTarget("planning")
	assert.True(t, ok)
	assert.Equal(t, "planning_history", name)

	// Collection không theo dõi thì bỏ qua
	_, ok = historyTarget("item_locks")
	assert.False(t, ok)
}

func TestToDocumentMap(t *testing.T) {
	id := primitive.NewObjectID()
	event := planningmodels.Event{
		ID:    id,
		Name:  "Họp báo ra mắt sản phẩm",
		State: planningmodels.StateDraft,
	}

	doc, err := toDocumentMap(event)
	require.NoError(t, err)

	// Field giữ tên bson snake_case
	assert.Equal(t, id, doc["_id"])
	assert.Equal(t, "Họp báo ra mắt sản phẩm", doc["name"])
	assert.Equal(t, planningmodels.StateDraft, doc["state"])

	doc, err = toDocumentMap(nil)
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestObjectIDOf(t *testing.T) {
	id := primitive.NewObjectID()
	doc := map[string]interface{}{"_id": id, "name": "x"}

	assert.Equal(t, id, objectIDOf(doc, "_id"))
	assert.True(t, objectIDOf(doc, "name").IsZero())
	assert.True(t, objectIDOf(doc, "missing").IsZero())
	assert.True(t, objectIDOf(nil, "_id").IsZero())
}
