package service

import (
	"context"
	"testing"

	"ncip-portal/internal/entity"
	"ncip-portal/pkg/lifecycle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoCancelWaitsUntilDeadlinePasses(t *testing.T) {
	h := newHarness(t)
	p := h.newPurpose("Educational Assistance", 2)
	app := h.apply(p.Id)
	h.upload(app.Id, p.Requirements[0].Id)
	ctx := context.Background()

	// The deadline day itself is still open.
	h.clock.Set(testStart.Add(days(30)))
	res, err := h.sweep.AutoCancel(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Candidates)
	assert.Equal(t, 0, res.Cancelled)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, lifecycle.StatusUnderReview, h.application(app.Id).Status)

	h.clock.Set(testStart.Add(days(31)))
	res, err = h.sweep.AutoCancel(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Cancelled)
	assert.Empty(t, res.Failures)

	stored := h.application(app.Id)
	assert.Equal(t, lifecycle.StatusCancelled, stored.Status)
	assert.True(t, stored.IsCancelled)
	require.NotNil(t, stored.CancellationReason)
	assert.Contains(t, *stored.CancellationReason, "Missing 1 document(s)")
	assert.Contains(t, *stored.CancellationReason, "2025-04-02")

	logs := h.cancellations(app.Id)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.CancellationTypeAutomatic, logs[0].CancellationType)
	assert.Equal(t, 1, logs[0].DaysPastDeadline)
	assert.Equal(t, 2, logs[0].TotalRequirements)
	assert.Equal(t, 1, logs[0].SubmittedRequirements)
	assert.Equal(t, 1, logs[0].MissingRequirements)

	notes := h.notifications(h.applicant.UserID)
	require.Len(t, notes, 1)
	assert.Equal(t, entity.NotificationApplicationCancelled, notes[0].Type)
	assert.Equal(t, lifecycle.PriorityHigh, notes[0].Priority)
	require.NotNil(t, notes[0].ApplicationId)
	assert.Equal(t, app.Id, *notes[0].ApplicationId)

	// A second run finds nothing left to do.
	res, err = h.sweep.AutoCancel(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Candidates)
	assert.Len(t, h.cancellations(app.Id), 1)
}

func TestAutoCancelIgnoresCompleteAndReviewedApplications(t *testing.T) {
	h := newHarness(t)
	p := h.newPurpose("Business Permit", 2)

	complete := h.apply(p.Id)
	for _, r := range p.Requirements {
		h.upload(complete.Id, r.Id)
	}

	rejected := h.apply(p.Id)
	doc := h.upload(rejected.Id, p.Requirements[0].Id)
	h.review(doc.Document.Id, entity.DecisionRejected)
	require.Equal(t, lifecycle.StatusDocumentsRejected, h.application(rejected.Id).Status)

	h.clock.Set(testStart.Add(days(45)))
	res, err := h.sweep.AutoCancel(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Candidates)
	assert.Equal(t, lifecycle.StatusUnderReview, h.application(complete.Id).Status)
	assert.Equal(t, lifecycle.StatusDocumentsRejected, h.application(rejected.Id).Status)
}

func TestDeadlineWarningBuckets(t *testing.T) {
	tests := []struct {
		name     string
		offset   int
		bucket   string
		priority lifecycle.Priority
	}{
		{name: "seven days out", offset: 23, bucket: string(lifecycle.Warning7Days), priority: lifecycle.PriorityHigh},
		{name: "three days out", offset: 27, bucket: string(lifecycle.Warning3Days), priority: lifecycle.PriorityHigh},
		{name: "one day out", offset: 29, bucket: string(lifecycle.Warning1Day), priority: lifecycle.PriorityUrgent},
		{name: "two days out", offset: 28},
		{name: "deadline day", offset: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			p := h.newPurpose("Housing Assistance", 3)
			app := h.apply(p.Id)
			h.upload(app.Id, p.Requirements[0].Id)

			h.clock.Set(testStart.Add(days(tt.offset)))
			res, err := h.sweep.SendDeadlineWarnings(context.Background(), lifecycle.DefaultLeadDays)
			require.NoError(t, err)
			assert.Equal(t, 1, res.Checked)

			notes := h.notifications(h.applicant.UserID)
			if tt.bucket == "" {
				assert.Equal(t, 0, res.Sent)
				assert.Empty(t, notes)
				return
			}

			assert.Equal(t, 1, res.Sent)
			assert.Equal(t, map[string]int{tt.bucket: 1}, res.ByBucket)
			require.Len(t, notes, 1)
			assert.Equal(t, tt.bucket, notes[0].Type)
			assert.Equal(t, tt.priority, notes[0].Priority)
			assert.Contains(t, notes[0].Message, "2 missing document(s)")
			assert.EqualValues(t, 2, notes[0].Metadata["missing"])
		})
	}
}

func TestUrgentWarningsOnlyUseOneDayLead(t *testing.T) {
	h := newHarness(t)
	p := h.newPurpose("Employment", 1)
	h.apply(p.Id)

	h.clock.Set(testStart.Add(days(23)))
	res, err := h.sweep.SendDeadlineWarnings(context.Background(), []int{1})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Sent)

	h.clock.Set(testStart.Add(days(29)))
	res, err = h.sweep.SendDeadlineWarnings(context.Background(), []int{1})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Sent)
	assert.Equal(t, 1, res.ByBucket[string(lifecycle.Warning1Day)])
}

func TestWarningsSkipFullySubmittedApplications(t *testing.T) {
	h := newHarness(t)
	p := h.newPurpose("PWD Benefits", 1)
	app := h.apply(p.Id)
	h.upload(app.Id, p.Requirements[0].Id)

	h.clock.Set(testStart.Add(days(29)))
	res, err := h.sweep.SendDeadlineWarnings(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Checked)
	assert.Empty(t, h.notifications(h.applicant.UserID))
}
