package refresh

import (
	"testing"
	"time"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Skipf("time zone %s unavailable: %v", name, err)
	}
	return loc
}

func TestNextDailyRefresh(t *testing.T) {
	helsinki := mustLoad(t, "Europe/Helsinki")

	tests := []struct {
		name string
		ref  time.Time
		want time.Time
	}{
		{
			name: "before the hour refreshes today",
			ref:  time.Date(2024, 5, 10, 5, 59, 59, 0, helsinki),
			want: time.Date(2024, 5, 10, 6, 0, 0, 0, helsinki),
		},
		{
			name: "at the hour refreshes tomorrow",
			ref:  time.Date(2024, 5, 10, 6, 0, 0, 0, helsinki),
			want: time.Date(2024, 5, 11, 6, 0, 0, 0, helsinki),
		},
		{
			name: "late evening refreshes tomorrow",
			ref:  time.Date(2024, 5, 10, 23, 30, 0, 0, helsinki),
			want: time.Date(2024, 5, 11, 6, 0, 0, 0, helsinki),
		},
		{
			name: "month rollover",
			ref:  time.Date(2024, 5, 31, 12, 0, 0, 0, helsinki),
			want: time.Date(2024, 6, 1, 6, 0, 0, 0, helsinki),
		},
		{
			name: "reference in another zone is converted first",
			ref:  time.Date(2024, 5, 10, 2, 30, 0, 0, time.UTC), // 05:30 in Helsinki
			want: time.Date(2024, 5, 10, 6, 0, 0, 0, helsinki),
		},
		{
			name: "across the spring DST change",
			ref:  time.Date(2024, 3, 30, 12, 0, 0, 0, helsinki),
			want: time.Date(2024, 3, 31, 6, 0, 0, 0, helsinki),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextDailyRefresh(tt.ref, DefaultHour, helsinki)
			if !got.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			if !got.After(tt.ref) {
				t.Errorf("expected result after reference")
			}
		})
	}
}

func TestNextDailyRefresh_NilLocationIsUTC(t *testing.T) {
	ref := time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC)
	want := time.Date(2024, 1, 2, 6, 0, 0, 0, time.UTC)
	if got := NextDailyRefresh(ref, 6, nil); !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestRelativeAgo(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		ago  time.Duration
		want string
	}{
		{0, "just now"},
		{59 * time.Second, "just now"},
		{time.Minute, "1 min ago"},
		{45 * time.Minute, "45 mins ago"},
		{time.Hour, "1 hour ago"},
		{23*time.Hour + 59*time.Minute, "23 hours ago"},
		{24 * time.Hour, "1 day ago"},
		{72 * time.Hour, "3 days ago"},
		{-time.Hour, "just now"},
	}

	for _, tt := range tests {
		if got := RelativeAgo(now.Add(-tt.ago), now); got != tt.want {
			t.Errorf("RelativeAgo(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}

func TestRelativeUntil(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		until time.Duration
		want  string
	}{
		{30 * time.Second, "any moment now"},
		{-time.Hour, "any moment now"},
		{5 * time.Minute, "in 5 mins"},
		{90 * time.Minute, "in 1 hour"},
		{18 * time.Hour, "in 18 hours"},
		{49 * time.Hour, "in 2 days"},
	}

	for _, tt := range tests {
		if got := RelativeUntil(now.Add(tt.until), now); got != tt.want {
			t.Errorf("RelativeUntil(+%v) = %q, want %q", tt.until, got, tt.want)
		}
	}
}
