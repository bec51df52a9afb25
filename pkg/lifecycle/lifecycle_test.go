package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name   string
		counts Counts
		want   Status
	}{
		{
			name:   "rejection takes precedence over missing",
			counts: Counts{Total: 5, Submitted: 4, Approved: 3, Rejected: 1, Missing: 1},
			want:   StatusDocumentsRejected,
		},
		{
			name:   "all approved",
			counts: Counts{Total: 5, Submitted: 5, Approved: 5},
			want:   StatusApproved,
		},
		{
			name:   "all submitted none reviewed",
			counts: Counts{Total: 5, Submitted: 5},
			want:   StatusUnderReview,
		},
		{
			name:   "partial submission",
			counts: Counts{Total: 5, Submitted: 2, Approved: 1, Missing: 3},
			want:   StatusUnderReview,
		},
		{
			name:   "nothing submitted yet",
			counts: Counts{Total: 3, Missing: 3},
			want:   StatusUnderReview,
		},
		{
			name:   "no requirements",
			counts: Counts{},
			want:   StatusSubmitted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Aggregate(tt.counts))
		})
	}
}

func TestDerive(t *testing.T) {
	t.Run("terminal status never moves", func(t *testing.T) {
		for _, st := range []Status{StatusCancelled, StatusCompleted, StatusCertificateIssued, StatusApproved, StatusRejected} {
			next, changed := Derive(st, Counts{Total: 2, Submitted: 2, Rejected: 1})
			assert.False(t, changed, st)
			assert.Equal(t, st, next)
		}
	})

	t.Run("submitted becomes under review on first upload", func(t *testing.T) {
		next, changed := Derive(StatusSubmitted, Counts{Total: 3, Submitted: 1, Missing: 2})
		assert.True(t, changed)
		assert.Equal(t, StatusUnderReview, next)
	})

	t.Run("same status is not a change", func(t *testing.T) {
		next, changed := Derive(StatusUnderReview, Counts{Total: 3, Submitted: 1, Missing: 2})
		assert.False(t, changed)
		assert.Equal(t, StatusUnderReview, next)
	})

	t.Run("changes requested reopens into derived status", func(t *testing.T) {
		next, changed := Derive(StatusChangesRequested, Counts{Total: 2, Submitted: 2, Approved: 2})
		assert.True(t, changed)
		assert.Equal(t, StatusApproved, next)
	})
}

func TestTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		ok       bool
	}{
		{StatusSubmitted, StatusUnderReview, true},
		{StatusUnderReview, StatusCancelled, true},
		{StatusApproved, StatusChangesRequested, true},
		{StatusApproved, StatusCompleted, true},
		{StatusCompleted, StatusCertificateIssued, true},
		{StatusCancelled, StatusUnderReview, false},
		{StatusCompleted, StatusUnderReview, false},
		{StatusCertificateIssued, StatusApproved, false},
		{StatusRejected, StatusChangesRequested, false},
		{StatusApproved, StatusUnderReview, false},
		{StatusUnderReview, StatusUnderReview, true},
		{StatusCancelled, StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			got, err := Transition(tt.from, tt.to)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, tt.to, got)
				return
			}
			var terr *TransitionError
			require.ErrorAs(t, err, &terr)
			assert.Equal(t, tt.from, got)
		})
	}
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("under_review")
	require.NoError(t, err)
	assert.Equal(t, StatusUnderReview, st)

	_, err = ParseStatus("documents_complete")
	assert.Error(t, err)
}

func TestDaysRemaining(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysRemaining(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, 1, DaysRemaining(time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, 7, DaysRemaining(time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, -1, DaysRemaining(time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), now))

	// late evening in a positive offset is still the same calendar day
	manila := time.FixedZone("PHT", 8*3600)
	lateNight := time.Date(2025, 3, 10, 23, 50, 0, 0, manila)
	assert.Equal(t, 1, DaysRemaining(time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), lateNight))
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	assert.False(t, IsOverdue(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), now), "deadline today is not overdue")
	assert.True(t, IsOverdue(time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), now), "deadline yesterday is overdue")
	assert.Equal(t, 1, DaysOverdue(time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, 0, DaysOverdue(time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), now))
}

func TestWarningFor(t *testing.T) {
	tests := []struct {
		days         int
		wantOK       bool
		wantBucket   WarningBucket
		wantPriority Priority
	}{
		{days: 7, wantOK: true, wantBucket: Warning7Days, wantPriority: PriorityHigh},
		{days: 3, wantOK: true, wantBucket: Warning3Days, wantPriority: PriorityHigh},
		{days: 1, wantOK: true, wantBucket: Warning1Day, wantPriority: PriorityUrgent},
		{days: 2, wantOK: false},
		{days: 0, wantOK: false},
		{days: -1, wantOK: false},
	}

	for _, tt := range tests {
		bucket, priority, ok := WarningFor(tt.days, DefaultLeadDays)
		assert.Equal(t, tt.wantOK, ok, "days=%d", tt.days)
		assert.Equal(t, tt.wantBucket, bucket, "days=%d", tt.days)
		assert.Equal(t, tt.wantPriority, priority, "days=%d", tt.days)
	}
}

func TestDeadlineFrom(t *testing.T) {
	now := time.Date(2025, 1, 30, 17, 45, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), DeadlineFrom(now, 30))
}
