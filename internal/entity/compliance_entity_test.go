package entity

import (
	"testing"
	"time"

	"ncip-portal/pkg/lifecycle"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEntry() *RequirementCompliance {
	return NewMissingCompliance(uuid.New(), Requirement{Id: uuid.New(), Name: "Birth Certificate"}, time.Now())
}

func assertExclusive(t *testing.T, c *RequirementCompliance) {
	t.Helper()
	assert.False(t, c.IsMissing && c.IsSubmitted, "missing and submitted are exclusive")
	if c.IsApproved {
		assert.True(t, c.IsSubmitted, "approved implies submitted")
	}
}

func TestMarkSubmittedIsIdempotent(t *testing.T) {
	c := newEntry()
	first := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	assert.True(t, c.MarkSubmitted(first))
	snapshot := *c

	assert.False(t, c.MarkSubmitted(first.Add(time.Hour)))
	assert.Equal(t, snapshot, *c)
	assert.Equal(t, first, *c.SubmissionDate)
	assertExclusive(t, c)
}

func TestResubmitAfterRejectionGoesBackToPending(t *testing.T) {
	c := newEntry()
	now := time.Now()
	c.MarkSubmitted(now)
	_, err := c.MarkReviewed(false, now)
	require.NoError(t, err)
	assert.Equal(t, ComplianceStatusRejected, c.Status)

	assert.True(t, c.MarkSubmitted(now.Add(time.Minute)))
	assert.Equal(t, ComplianceStatusPending, c.Status)
	assert.True(t, c.IsSubmitted)
	assertExclusive(t, c)
}

func TestMarkReviewed(t *testing.T) {
	t.Run("missing entry cannot be reviewed", func(t *testing.T) {
		c := newEntry()
		_, err := c.MarkReviewed(true, time.Now())
		assert.ErrorIs(t, err, ErrNothingToReview)
	})

	t.Run("approve sets approval date", func(t *testing.T) {
		c := newEntry()
		now := time.Now()
		c.MarkSubmitted(now)
		changed, err := c.MarkReviewed(true, now)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.True(t, c.IsApproved)
		assert.NotNil(t, c.ApprovalDate)
		assertExclusive(t, c)

		changed, err = c.MarkReviewed(true, now.Add(time.Hour))
		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("reject after approve clears approval", func(t *testing.T) {
		c := newEntry()
		now := time.Now()
		c.MarkSubmitted(now)
		_, _ = c.MarkReviewed(true, now)
		_, err := c.MarkReviewed(false, now)
		require.NoError(t, err)
		assert.False(t, c.IsApproved)
		assert.Nil(t, c.ApprovalDate)
	})
}

func TestMarkMissing(t *testing.T) {
	c := newEntry()
	assert.False(t, c.MarkMissing(time.Now()))

	c.MarkSubmitted(time.Now())
	assert.True(t, c.MarkMissing(time.Now()))
	assert.True(t, c.IsMissing)
	assert.False(t, c.IsSubmitted)
	assert.Nil(t, c.SubmissionDate)
	assertExclusive(t, c)
}

func TestCountLedger(t *testing.T) {
	now := time.Now()
	var entries []*RequirementCompliance
	for i := 0; i < 5; i++ {
		entries = append(entries, newEntry())
	}
	for i := 0; i < 4; i++ {
		entries[i].MarkSubmitted(now)
	}
	for i := 0; i < 3; i++ {
		_, _ = entries[i].MarkReviewed(true, now)
	}
	_, _ = entries[3].MarkReviewed(false, now)

	counts := CountLedger(entries)
	assert.Equal(t, lifecycle.Counts{Total: 5, Submitted: 4, Approved: 3, Rejected: 1, Missing: 1}, counts)
	assert.Equal(t, lifecycle.StatusDocumentsRejected, lifecycle.Aggregate(counts))
}

func TestApplicationCancelKeepsFlagAndStatusTogether(t *testing.T) {
	app := &Application{Status: lifecycle.StatusUnderReview}
	now := time.Now()

	require.NoError(t, app.Cancel("deadline passed", now))
	assert.True(t, app.IsCancelled)
	assert.Equal(t, lifecycle.StatusCancelled, app.Status)
	require.NotNil(t, app.CancellationReason)

	completed := &Application{Status: lifecycle.StatusCompleted}
	assert.Error(t, completed.Cancel("late", now))
	assert.False(t, completed.IsCancelled)
	assert.Equal(t, lifecycle.StatusCompleted, completed.Status)
}

func TestRequirementAccepts(t *testing.T) {
	r := Requirement{AllowedTypes: []string{"pdf", "jpg"}}
	assert.True(t, r.Accepts(".PDF"))
	assert.True(t, r.Accepts("jpeg"))
	assert.False(t, r.Accepts(".png"))

	assert.True(t, (&Requirement{}).Accepts("png"))
}

func TestCodeFromName(t *testing.T) {
	assert.Equal(t, "COC", CodeFromName("Certificate of Confirmation"))
}
