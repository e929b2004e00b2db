package alert

import (
	"testing"

	"github.com/marketwatch-ai/alert-engine/internal/entity"
	"github.com/marketwatch-ai/alert-engine/internal/service/quote"
	"github.com/marketwatch-ai/alert-engine/pkg/decimalx"
	"github.com/stretchr/testify/assert"
)

func snap(prev, cur string) quote.Snapshot {
	return quote.Snapshot{
		Current:  decimalx.MustFromString(cur),
		Previous: decimalx.MustFromString(prev),
	}
}

func newTestEvaluator() *Evaluator {
	return NewEvaluator(quote.NewUnitTable(nil))
}

func TestEvaluator_Touch(t *testing.T) {
	e := newTestEvaluator()
	target := decimalx.MustFromString("1.10500")

	testCases := []struct {
		name    string
		snap    quote.Snapshot
		matched bool
	}{
		{
			name:    "crossed upward through level",
			snap:    snap("1.10480", "1.10510"),
			matched: true,
		},
		{
			name:    "crossed downward through level",
			snap:    snap("1.10520", "1.10490"),
			matched: true,
		},
		{
			name:    "landed exactly on level",
			snap:    snap("1.10480", "1.10500"),
			matched: true,
		},
		{
			name:    "already past, no new touch",
			snap:    snap("1.10510", "1.10520"),
			matched: false,
		},
		{
			name:    "both below, no touch",
			snap:    snap("1.10480", "1.10490"),
			matched: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := e.Evaluate(entity.Alert{
				Symbol:      "EURUSD",
				Kind:        entity.KindTouch,
				TargetPrice: target,
			}, tc.snap)
			assert.Equal(t, tc.matched, res.Matched)
			if tc.matched {
				assert.NotEmpty(t, res.Reason)
			}
		})
	}
}

func TestEvaluator_TouchReason(t *testing.T) {
	e := newTestEvaluator()

	res := e.Evaluate(entity.Alert{
		Symbol:      "EURUSD",
		Kind:        entity.KindTouch,
		TargetPrice: decimalx.MustFromString("1.10500"),
	}, snap("1.10520", "1.10490"))
	assert.True(t, res.Matched)
	assert.Equal(t, "price touched 1.10500 from above", res.Reason)
}

func TestEvaluator_Cross(t *testing.T) {
	e := newTestEvaluator()
	target := decimalx.MustFromString("1.10500")

	testCases := []struct {
		name      string
		direction entity.Direction
		snap      quote.Snapshot
		matched   bool
	}{
		{
			name:      "crossed above in configured direction",
			direction: entity.DirectionAbove,
			snap:      snap("1.10490", "1.10510"),
			matched:   true,
		},
		{
			name:      "crossed the wrong way",
			direction: entity.DirectionAbove,
			snap:      snap("1.10510", "1.10490"),
			matched:   false,
		},
		{
			name:      "landed on level from below counts as crossed above",
			direction: entity.DirectionAbove,
			snap:      snap("1.10490", "1.10500"),
			matched:   true,
		},
		{
			name:      "crossed below in configured direction",
			direction: entity.DirectionBelow,
			snap:      snap("1.10510", "1.10490"),
			matched:   true,
		},
		{
			name:      "still above, no cross",
			direction: entity.DirectionBelow,
			snap:      snap("1.10520", "1.10510"),
			matched:   false,
		},
		{
			name:      "missing direction never matches",
			direction: "",
			snap:      snap("1.10490", "1.10510"),
			matched:   false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := e.Evaluate(entity.Alert{
				Symbol:      "EURUSD",
				Kind:        entity.KindCross,
				TargetPrice: target,
				Direction:   tc.direction,
			}, tc.snap)
			assert.Equal(t, tc.matched, res.Matched)
		})
	}
}

func TestEvaluator_Near(t *testing.T) {
	e := newTestEvaluator()
	// EURUSD unit 0.0001, 5 pips -> [1.10450, 1.10550]
	a := entity.Alert{
		Symbol:      "EURUSD",
		Kind:        entity.KindNear,
		TargetPrice: decimalx.MustFromString("1.10500"),
		PipBuffer:   5,
	}

	assert.True(t, e.Evaluate(a, snap("1.10400", "1.10530")).Matched)
	assert.True(t, e.Evaluate(a, snap("1.10400", "1.10550")).Matched, "boundary is inclusive")
	assert.False(t, e.Evaluate(a, snap("1.10400", "1.10560")).Matched)
}

func TestEvaluator_NearDefaultBuffer(t *testing.T) {
	e := newTestEvaluator()
	a := entity.Alert{
		Symbol:      "EURUSD",
		Kind:        entity.KindNear,
		TargetPrice: decimalx.MustFromString("1.10500"),
	}

	res := e.Evaluate(a, snap("1.10400", "1.10540"))
	assert.True(t, res.Matched)
	assert.Equal(t, "price within 5 pips of 1.10500", res.Reason)
}

func TestEvaluator_Zone(t *testing.T) {
	e := newTestEvaluator()
	a := entity.Alert{
		Symbol:   "EURUSD",
		Kind:     entity.KindZone,
		ZoneLow:  decimalx.MustFromString("1.0840"),
		ZoneHigh: decimalx.MustFromString("1.0870"),
	}

	testCases := []struct {
		name    string
		snap    quote.Snapshot
		matched bool
	}{
		{
			name:    "entered from below",
			snap:    snap("1.0835", "1.0850"),
			matched: true,
		},
		{
			name:    "entered from above",
			snap:    snap("1.0880", "1.0860"),
			matched: true,
		},
		{
			name:    "resident inside, no re-trigger",
			snap:    snap("1.0850", "1.0855"),
			matched: false,
		},
		{
			name:    "outside the zone",
			snap:    snap("1.0820", "1.0830"),
			matched: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := e.Evaluate(a, tc.snap)
			assert.Equal(t, tc.matched, res.Matched)
		})
	}
}

func TestEvaluator_MalformedZoneNeverMatches(t *testing.T) {
	e := newTestEvaluator()
	a := entity.Alert{
		Symbol:   "EURUSD",
		Kind:     entity.KindZone,
		ZoneLow:  decimalx.MustFromString("1.0870"),
		ZoneHigh: decimalx.MustFromString("1.0840"),
	}

	assert.False(t, e.Evaluate(a, snap("1.0835", "1.0850")).Matched)
}

func TestEvaluator_UnknownKindNeverMatches(t *testing.T) {
	e := newTestEvaluator()
	a := entity.Alert{
		Symbol:      "EURUSD",
		Kind:        "fibonacci",
		TargetPrice: decimalx.MustFromString("1.10500"),
	}

	assert.False(t, e.Evaluate(a, snap("1.10480", "1.10510")).Matched)
}
