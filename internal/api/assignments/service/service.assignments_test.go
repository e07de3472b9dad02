package assignmentsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	assignmentmodels "planning_api/internal/api/assignments/models"
	planningmodels "planning_api/internal/api/planning/models"
	"planning_api/internal/common"
	"planning_api/internal/itemlock"
)

func TestValidateAssignee(t *testing.T) {
	desk := primitive.NewObjectID()
	user := primitive.NewObjectID()

	assert.NoError(t, validateAssignee(desk, user))
	assert.NoError(t, validateAssignee(desk, primitive.NilObjectID))
	assert.NoError(t, validateAssignee(primitive.NilObjectID, primitive.NilObjectID))

	// User đứng một mình không có desk bị từ chối
	err := validateAssignee(primitive.NilObjectID, user)
	assert.Error(t, err)
}

func TestInitialState(t *testing.T) {
	assert.Equal(t, assignmentmodels.StateDraft, initialState(primitive.NilObjectID))
	assert.Equal(t, assignmentmodels.StateAssigned, initialState(primitive.NewObjectID()))
}

func TestParseOptionalID(t *testing.T) {
	id := primitive.NewObjectID()

	parsed, err := parseOptionalID(id.Hex(), "desk")
	assert.NoError(t, err)
	assert.Equal(t, id, parsed)

	parsed, err = parseOptionalID("", "desk")
	assert.NoError(t, err)
	assert.True(t, parsed.IsZero())

	_, err = parseOptionalID("khong-phai-hex", "desk")
	assert.Error(t, err)
}

func TestAssignmentStateHelpers(t *testing.T) {
	a := assignmentmodels.Assignment{}

	a.AssignedTo.State = assignmentmodels.StateAssigned
	assert.False(t, a.IsTerminal())
	assert.False(t, a.LinkedToContent())

	a.AssignedTo.State = assignmentmodels.StateInProgress
	assert.False(t, a.IsTerminal())
	assert.True(t, a.LinkedToContent())

	a.AssignedTo.State = assignmentmodels.StateSubmitted
	assert.True(t, a.LinkedToContent())

	a.AssignedTo.State = assignmentmodels.StateCompleted
	assert.True(t, a.IsTerminal())
	assert.False(t, a.LinkedToContent())

	a.AssignedTo.State = assignmentmodels.StateCancelled
	assert.True(t, a.IsTerminal())
}

func TestCompletionAllowed(t *testing.T) {
	cases := []struct {
		name        string
		contentType string
		state       string
		want        bool
	}{
		{"text đang in_progress", planningmodels.ContentTypeText, assignmentmodels.StateInProgress, true},
		{"text mới assigned", planningmodels.ContentTypeText, assignmentmodels.StateAssigned, false},
		{"text đã submitted", planningmodels.ContentTypeText, assignmentmodels.StateSubmitted, false},
		{"text còn draft", planningmodels.ContentTypeText, assignmentmodels.StateDraft, false},
		{"picture complete sớm từ assigned", planningmodels.ContentTypePicture, assignmentmodels.StateAssigned, true},
		{"video đã submitted", planningmodels.ContentTypeVideo, assignmentmodels.StateSubmitted, true},
		{"picture đang in_progress", planningmodels.ContentTypePicture, assignmentmodels.StateInProgress, true},
		{"picture còn draft", planningmodels.ContentTypePicture, assignmentmodels.StateDraft, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, completionAllowed(tc.contentType, tc.state))
		})
	}

	// Thông điệp từ chối cố định để client hiển thị
	assert.Equal(t, "Cannot complete. Assignment not in progress.", errCompleteNotInProgress.(*common.Error).Message)
}

func TestDetachCoverageFilter(t *testing.T) {
	planningID := primitive.NewObjectID()
	coverageID := primitive.NewObjectID()
	assignmentID := primitive.NewObjectID()

	filter := detachCoverageFilter(planningID, coverageID, assignmentID)

	assert.Equal(t, planningID, filter["_id"])

	// Hai điều kiện phải nằm chung một $elemMatch để positional $ trỏ đúng
	// phần tử coverage đang giữ assignment
	cov, ok := filter["coverages"].(bson.M)
	require.True(t, ok)
	match, ok := cov["$elemMatch"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, coverageID, match["coverage_id"])
	assert.Equal(t, assignmentID, match["assigned_to.assignment_id"])
}

func TestRequireHeldBy(t *testing.T) {
	user := primitive.NewObjectID()
	session := primitive.NewObjectID()
	other := primitive.NewObjectID()

	assert.ErrorIs(t, requireHeldBy(itemlock.LockFields{}, user, session), common.ErrItemNotLocked)
	assert.ErrorIs(t, requireHeldBy(itemlock.LockFields{LockUser: other, LockSession: other}, user, session), common.ErrLockedByAnotherUser)
	assert.NoError(t, requireHeldBy(itemlock.LockFields{LockUser: user, LockSession: session}, user, session))
}
