package window

import (
	"errors"
	"testing"
	"time"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.Local)
	if err != nil {
		t.Fatalf("Failed to parse time %q: %v", s, err)
	}
	return parsed
}

func TestComputeSingleDay(t *testing.T) {
	now := mustTime(t, "2026-08-23 10:30:00")

	w, err := Compute(1, DefaultStart, DefaultEnd, now)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	wantStart := mustTime(t, "2026-08-23 00:00:00")
	wantEnd := mustTime(t, "2026-08-23 23:59:00")
	if !w.Start.Equal(wantStart) {
		t.Errorf("Start = %v, want %v", w.Start, wantStart)
	}
	if !w.End.Equal(wantEnd) {
		t.Errorf("End = %v, want %v", w.End, wantEnd)
	}
	if !w.SameDay() {
		t.Error("Expected single-day window")
	}
}

func TestComputeMultiDay(t *testing.T) {
	now := mustTime(t, "2026-08-23 10:30:00")

	w, err := Compute(3, DefaultStart, DefaultEnd, now)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	wantStart := mustTime(t, "2026-08-21 00:00:00")
	if !w.Start.Equal(wantStart) {
		t.Errorf("Start = %v, want %v", w.Start, wantStart)
	}
	if w.SameDay() {
		t.Error("Expected multi-day window")
	}
}

// The end time of day clips only the final day: a timestamp on an
// earlier day after the end time must still be inside the window.
func TestComputeBoundaryAsymmetry(t *testing.T) {
	now := mustTime(t, "2026-08-23 10:30:00")

	start := TimeOfDay{Hour: 8, Minute: 0}
	end := TimeOfDay{Hour: 12, Minute: 0}
	w, err := Compute(2, start, end, now)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	yesterdayAfternoon := mustTime(t, "2026-08-22 15:00:00")
	if !w.Contains(yesterdayAfternoon) {
		t.Error("Earlier day must not be clipped by end_time")
	}

	todayAfternoon := mustTime(t, "2026-08-23 15:00:00")
	if w.Contains(todayAfternoon) {
		t.Error("Final day must be clipped by end_time")
	}

	yesterdayEarly := mustTime(t, "2026-08-22 07:00:00")
	if w.Contains(yesterdayEarly) {
		t.Error("Earliest day must be clipped by start_time")
	}
}

func TestContainsInclusiveBounds(t *testing.T) {
	now := mustTime(t, "2026-08-23 10:30:00")
	w, err := Compute(2, DefaultStart, DefaultEnd, now)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	tests := []struct {
		name string
		ts   time.Time
		want bool
	}{
		{"exact start", w.Start, true},
		{"exact end", w.End, true},
		{"one second before start", w.Start.Add(-time.Second), false},
		{"one second after end", w.End.Add(time.Second), false},
		{"middle", w.Start.Add(12 * time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.Contains(tt.ts); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.ts, got, tt.want)
			}
		})
	}
}

func TestComputeInvalidDayCountFallsBack(t *testing.T) {
	now := mustTime(t, "2026-08-23 10:30:00")

	w, err := Compute(0, DefaultStart, DefaultEnd, now)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	wantStart := mustTime(t, "2026-08-23 00:00:00")
	if !w.Start.Equal(wantStart) {
		t.Errorf("Start = %v, want %v (days<1 should behave like days=1)", w.Start, wantStart)
	}
}

func TestComputeInvertedTimesRejected(t *testing.T) {
	now := mustTime(t, "2026-08-23 10:30:00")

	start := TimeOfDay{Hour: 18, Minute: 0}
	end := TimeOfDay{Hour: 9, Minute: 0}
	_, err := Compute(1, start, end, now)
	if !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("Expected ErrInvalidWindow, got %v", err)
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input   string
		hour    int
		minute  int
		wantErr bool
	}{
		{"00:00", 0, 0, false},
		{"23:59", 23, 59, false},
		{"08:30", 8, 30, false},
		{"24:00", 0, 0, true},
		{"8:30pm", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimeOfDay(%q) failed: %v", tt.input, err)
			}
			if got.Hour != tt.hour || got.Minute != tt.minute {
				t.Errorf("ParseTimeOfDay(%q) = %d:%d, want %d:%d", tt.input, got.Hour, got.Minute, tt.hour, tt.minute)
			}
		})
	}
}
