package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestActorAge(t *testing.T) {
	tests := []struct {
		name string
		dob  *time.Time
		at   time.Time
		want int
	}{
		{"day before birthday", date(2000, 6, 15), time.Date(2018, 6, 14, 0, 0, 0, 0, time.UTC), 17},
		{"on birthday", date(2000, 6, 15), time.Date(2018, 6, 15, 0, 0, 0, 0, time.UTC), 18},
		{"day after birthday", date(2000, 6, 15), time.Date(2018, 6, 16, 0, 0, 0, 0, time.UTC), 18},
		// 2008 is a leap year, 2026 is not: a post-Feb-29 birthday must
		// still count on the day itself.
		{"leap-year dob, birthday in common year", date(2008, 7, 1), time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), 18},
		{"leap-year dob, day before in common year", date(2008, 7, 1), time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC), 17},
		{"feb 29 dob counts from mar 1 in common years", date(2008, 2, 29), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), 18},
		{"feb 29 dob not yet on feb 28", date(2008, 2, 29), time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), 17},
		{"no dob", nil, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Actor{DateOfBirth: tt.dob}
			assert.Equal(t, tt.want, a.Age(tt.at))
		})
	}
}
