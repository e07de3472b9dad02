package planningsvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	planningmodels "planning_api/internal/api/planning/models"
	"planning_api/internal/common"
	"planning_api/internal/itemlock"
)

func TestAppendNote(t *testing.T) {
	out := appendNote("Mô tả gốc", "Event Cancelled", "Diễn giả hủy tham dự")
	assert.Contains(t, out, "Mô tả gốc")
	assert.Contains(t, out, "Event Cancelled")
	assert.Contains(t, out, "Reason: Diễn giả hủy tham dự")

	// Không có lý do thì không in dòng Reason
	out = appendNote("", "Event Postponed", "")
	assert.Contains(t, out, "Event Postponed")
	assert.NotContains(t, out, "Reason:")
}

func TestNormalizeCoverages(t *testing.T) {
	existing := primitive.NewObjectID()
	coverages := []planningmodels.Coverage{
		{Planning: planningmodels.CoverageDetail{G2ContentType: planningmodels.ContentTypeText}},
		{CoverageID: existing, WorkflowStatus: planningmodels.CoverageStatusActive},
	}
	normalizeCoverages(coverages)

	assert.False(t, coverages[0].CoverageID.IsZero(), "coverage mới phải được cấp coverage_id")
	assert.Equal(t, planningmodels.CoverageStatusDraft, coverages[0].WorkflowStatus)
	assert.Equal(t, existing, coverages[1].CoverageID, "coverage_id có sẵn giữ nguyên")
	assert.Equal(t, planningmodels.CoverageStatusActive, coverages[1].WorkflowStatus)
}

func TestCancelEmbeddedCoverages(t *testing.T) {
	assignmentID := primitive.NewObjectID()
	coverages := []planningmodels.Coverage{
		{
			CoverageID:     primitive.NewObjectID(),
			WorkflowStatus: planningmodels.CoverageStatusActive,
			AssignedTo: &planningmodels.CoverageAssignedTo{
				AssignmentID: assignmentID,
				State:        "assigned",
			},
		},
		{
			CoverageID:     primitive.NewObjectID(),
			WorkflowStatus: planningmodels.CoverageStatusCancelled, // đã hủy từ trước
			AssignedTo: &planningmodels.CoverageAssignedTo{
				AssignmentID: primitive.NewObjectID(),
				State:        planningmodels.StateCancelled,
			},
		},
		{
			CoverageID:     primitive.NewObjectID(),
			WorkflowStatus: planningmodels.CoverageStatusDraft, // chưa giao việc
		},
	}

	ids := cancelEmbeddedCoverages(coverages)

	// Chỉ assignment của coverage chưa hủy được cascade
	require.Len(t, ids, 1)
	assert.Equal(t, assignmentID, ids[0])

	assert.Equal(t, planningmodels.CoverageStatusCancelled, coverages[0].WorkflowStatus)
	assert.Equal(t, planningmodels.StateCancelled, coverages[0].AssignedTo.State)
	assert.Equal(t, planningmodels.CoverageStatusCancelled, coverages[2].WorkflowStatus)
}

func TestRequireHeldBy(t *testing.T) {
	user := primitive.NewObjectID()
	session := primitive.NewObjectID()
	other := primitive.NewObjectID()

	t.Run("chưa lock", func(t *testing.T) {
		err := requireHeldBy(itemlock.LockFields{}, user, session)
		assert.ErrorIs(t, err, common.ErrItemNotLocked)
	})

	t.Run("người khác giữ", func(t *testing.T) {
		lf := itemlock.LockFields{LockUser: other, LockSession: other}
		err := requireHeldBy(lf, user, session)
		assert.ErrorIs(t, err, common.ErrLockedByAnotherUser)
	})

	t.Run("cùng user khác phiên", func(t *testing.T) {
		lf := itemlock.LockFields{LockUser: user, LockSession: other}
		err := requireHeldBy(lf, user, session)
		assert.ErrorIs(t, err, common.ErrLockedOtherSession)
	})

	t.Run("đúng người đúng phiên", func(t *testing.T) {
		lf := itemlock.LockFields{LockUser: user, LockSession: session}
		assert.NoError(t, requireHeldBy(lf, user, session))
	})
}

func TestRuleConfig(t *testing.T) {
	rule := planningmodels.RecurringRule{
		Frequency:     "WEEKLY",
		Interval:      2,
		EndRepeatMode: "count",
		Count:         10,
		ByDay:         []string{"MO", "FR"},
	}
	cfg := ruleConfig(&rule)
	assert.Equal(t, "WEEKLY", cfg.Frequency)
	assert.Equal(t, 2, cfg.Interval)
	assert.Equal(t, 10, cfg.Count)
	assert.Equal(t, []string{"MO", "FR"}, cfg.ByDay)
}

func TestSpikeSeriesTarget(t *testing.T) {
	// Occurrence draft chưa post được spike theo chuỗi
	assert.True(t, spikeSeriesTarget(planningmodels.StateDraft, ""))
	assert.True(t, spikeSeriesTarget(planningmodels.StateScheduled, ""))

	// Occurrence đã spike bỏ qua (spike chuỗi chạy lại không lỗi)
	assert.False(t, spikeSeriesTarget(planningmodels.StateSpiked, ""))

	// Occurrence đã post không bị spike kèm theo chuỗi
	assert.False(t, spikeSeriesTarget(planningmodels.StateDraft, planningmodels.PubstatusUsable))
	assert.False(t, spikeSeriesTarget(planningmodels.StateScheduled, planningmodels.PubstatusCancelled))
}

func TestRescheduleDuplicates(t *testing.T) {
	// Event chưa dùng và chưa post: sửa thời gian tại chỗ
	assert.False(t, rescheduleDuplicates(false, false))

	// Đã có planning hoặc đã post: phải nhân bản, bản gốc giữ thời gian cũ
	assert.True(t, rescheduleDuplicates(true, false))
	assert.True(t, rescheduleDuplicates(false, true))
	assert.True(t, rescheduleDuplicates(true, true))
}

func TestCascadeCancelPlannings_LoiDungGiuaChung(t *testing.T) {
	plannings := []planningmodels.Planning{
		{ID: primitive.NewObjectID()},
		{ID: primitive.NewObjectID()},
		{ID: primitive.NewObjectID()},
	}
	boom := common.NewBadRequest("hủy thất bại")

	var attempted []primitive.ObjectID
	err := cascadeCancelPlannings(context.Background(), plannings, func(_ context.Context, id primitive.ObjectID) error {
		attempted = append(attempted, id)
		if id == plannings[1].ID {
			return boom
		}
		return nil
	})

	// Lỗi ở item thứ hai phải nổi lên caller, item thứ ba không được chạy tiếp
	require.ErrorIs(t, err, boom)
	require.Len(t, attempted, 2)
	assert.Equal(t, plannings[0].ID, attempted[0])
	assert.Equal(t, plannings[1].ID, attempted[1])
}

func TestCascadeCancelPlannings_ThanhCong(t *testing.T) {
	plannings := []planningmodels.Planning{{ID: primitive.NewObjectID()}, {ID: primitive.NewObjectID()}}

	var count int
	err := cascadeCancelPlannings(context.Background(), plannings, func(context.Context, primitive.ObjectID) error {
		count++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestIndexOfCoverage(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	coverages := []planningmodels.Coverage{{CoverageID: a}, {CoverageID: b}}

	assert.Equal(t, 1, indexOfCoverage(coverages, b))
	assert.Equal(t, -1, indexOfCoverage(coverages, primitive.NewObjectID()))
}
