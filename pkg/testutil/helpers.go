// Package testutil provides common utility functions for testing.
package testutil

import (
	"testing"
	"time"

	"github.com/iwvelando/solar-simulator/pkg/mathutil"
)

// Float returns a pointer to v, for populating optional input fields.
func Float(v float64) *float64 {
	return &v
}

// FixedTime is the clock used by tests that need a stable generation time.
var FixedTime = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

// FixedClock returns FixedTime on every call.
func FixedClock() time.Time {
	return FixedTime
}

// AssertClose fails the test when got and want differ by more than tolerance.
func AssertClose(t testing.TB, field string, got, want, tolerance float64) {
	t.Helper()
	if !mathutil.WithinTolerance(got, want, tolerance) {
		t.Errorf("%s = %v, expected %v (tolerance %v)", field, got, want, tolerance)
	}
}
