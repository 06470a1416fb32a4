package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

func at(hours float64) time.Time {
	return t0.Add(time.Duration(hours * float64(time.Hour)))
}

func testReminder(important bool) *Reminder {
	return NewReminder("rem1", "Write report", "", at(100), t0, important)
}

func tiers(firings []Firing) []string {
	out := make([]string, 0, len(firings))
	for _, f := range firings {
		out = append(out, f.Tier)
	}
	return out
}

func TestEvaluateFiftyPercent(t *testing.T) {
	r := testReminder(false)

	firings, err := Evaluate(r, at(55))
	require.NoError(t, err)
	require.Len(t, firings, 1)
	assert.Equal(t, "50%", firings[0].Tier)
	assert.Equal(t, "50% time passed", firings[0].Message)
	assert.True(t, r.HasAlreadyFired("50%"))
}

func TestEvaluateNinetyPercentReportsHoursLeft(t *testing.T) {
	r := testReminder(false)
	_, err := Evaluate(r, at(55))
	require.NoError(t, err)

	firings, err := Evaluate(r, at(91))
	require.NoError(t, err)
	require.Equal(t, []string{"90%"}, tiers(firings))
	assert.Contains(t, firings[0].Message, "9 hour(s) left")
	assert.Equal(t, []string{"50%", "90%"}, r.NotificationsSent)
}

func TestEvaluateZeroDurationIsInvalidWindow(t *testing.T) {
	r := NewReminder("rem2", "Nothing", "", t0, t0, false)

	firings, err := Evaluate(r, at(1))
	require.ErrorIs(t, err, ErrInvalidWindow)
	assert.Empty(t, firings)
	assert.Empty(t, r.NotificationsSent)
}

func TestEvaluateDeadlineBeforeCreationIsInvalidWindow(t *testing.T) {
	r := NewReminder("rem3", "Backwards", "", at(-5), t0, true)

	_, err := Evaluate(r, at(10))
	require.ErrorIs(t, err, ErrInvalidWindow)
}

func TestEvaluateDeadlineReached(t *testing.T) {
	r := testReminder(false)

	firings, err := Evaluate(r, at(120))
	require.NoError(t, err)
	assert.Equal(t, []string{"50%", "90%", "100%"}, tiers(firings))
	assert.Equal(t, "Deadline reached!", firings[2].Message)

	again, err := Evaluate(r, at(200))
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestEvaluateImportantPolicy(t *testing.T) {
	r := testReminder(true)

	firings, err := Evaluate(r, at(96))
	require.NoError(t, err)
	assert.Equal(t, []string{"50%", "80%", "95%"}, tiers(firings))
	assert.Equal(t, "80% time passed", firings[1].Message)
	assert.Equal(t, "4 hour(s) left", firings[2].Message)
}

func TestEvaluateIsIdempotent(t *testing.T) {
	for _, important := range []bool{false, true} {
		r := testReminder(important)
		for i := 0; i < 3; i++ {
			for hours := 0.0; hours <= 130; hours += 0.5 {
				_, err := Evaluate(r, at(hours))
				require.NoError(t, err)
			}
		}
		seen := map[string]int{}
		for _, tier := range r.NotificationsSent {
			seen[tier]++
		}
		for tier, n := range seen {
			assert.Equal(t, 1, n, "tier %s sent %d times", tier, n)
		}
	}
}

func TestEvaluateTiersStayWithinPolicy(t *testing.T) {
	allowed := map[bool][]string{
		false: {"50%", "90%", "100%"},
		true:  {"50%", "80%", "95%", "100%"},
	}
	for important, want := range allowed {
		r := testReminder(important)
		for hours := 0.0; hours <= 150; hours += 7 {
			_, err := Evaluate(r, at(hours))
			require.NoError(t, err)
		}
		assert.Subset(t, want, r.NotificationsSent)
	}
}

func TestEvaluateFiresInOrder(t *testing.T) {
	for _, important := range []bool{false, true} {
		r := testReminder(important)
		for hours := 0.0; hours <= 110; hours += 0.25 {
			_, err := Evaluate(r, at(hours))
			require.NoError(t, err)
			for _, late := range []string{"80%", "90%", "95%"} {
				if r.HasAlreadyFired(late) {
					require.True(t, r.HasAlreadyFired("50%"), "%s fired before 50%%", late)
				}
			}
		}
	}
}

func TestWindowEvaluatorSkipsJumpedTier(t *testing.T) {
	strict := Evaluator{Window: 1}
	r := testReminder(false)

	firings, err := strict.Evaluate(r, at(40))
	require.NoError(t, err)
	assert.Empty(t, firings)

	firings, err = strict.Evaluate(r, at(90.5))
	require.NoError(t, err)
	assert.Equal(t, []string{"90%"}, tiers(firings))
	assert.False(t, r.HasAlreadyFired("50%"))
}

func TestWindowEvaluatorFiresInsideBand(t *testing.T) {
	strict := Evaluator{Window: 1}
	r := testReminder(false)

	firings, err := strict.Evaluate(r, at(50.5))
	require.NoError(t, err)
	assert.Equal(t, []string{"50%"}, tiers(firings))
}

func TestHoursLeftFloors(t *testing.T) {
	assert.Equal(t, 9, HoursLeft(9*time.Hour+59*time.Minute))
	assert.Equal(t, 0, HoursLeft(30*time.Minute))
	assert.Equal(t, -1, HoursLeft(-30*time.Minute))
}
