package alarm

import (
	"testing"
	"time"
)

func TestParseTaskTime(t *testing.T) {
	t.Run("HH:MM", func(t *testing.T) {
		got, ok := ParseTaskTime("10:30", "2025-06-01")
		if !ok {
			t.Fatal("parse failed")
		}
		want := time.Date(2025, 6, 1, 10, 30, 0, 0, time.Local)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("HH:MM:SS builds instant at second zero", func(t *testing.T) {
		got, ok := ParseTaskTime("10:30:45", "2025-06-01")
		if !ok {
			t.Fatal("parse failed")
		}
		want := time.Date(2025, 6, 1, 10, 30, 0, 0, time.Local)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v (seconds ignored)", got, want)
		}
	})

	t.Run("midnight", func(t *testing.T) {
		got, ok := ParseTaskTime("00:00", "2025-01-01")
		if !ok {
			t.Fatal("parse failed")
		}
		want := time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	rejects := []struct {
		name      string
		timeLocal string
		dateLocal string
	}{
		{"empty time", "", "2025-06-01"},
		{"empty date", "10:00", ""},
		{"single time part", "10", "2025-06-01"},
		{"four time parts", "10:00:00:00", "2025-06-01"},
		{"non-numeric hours", "aa:00", "2025-06-01"},
		{"non-numeric minutes", "10:bb", "2025-06-01"},
		{"hours out of range", "25:99", "2025-06-01"},
		{"minutes out of range", "10:60", "2025-06-01"},
		{"seconds out of range", "10:00:75", "2025-06-01"},
		{"two date parts", "10:00", "2025-06"},
		{"four date parts", "10:00", "2025-06-01-05"},
		{"non-numeric year", "10:00", "yyyy-06-01"},
		{"month out of range", "10:00", "2025-13-01"},
		{"day out of range", "10:00", "2025-06-32"},
	}
	for _, tt := range rejects {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			if _, ok := ParseTaskTime(tt.timeLocal, tt.dateLocal); ok {
				t.Errorf("ParseTaskTime(%q, %q) ok = true, want false", tt.timeLocal, tt.dateLocal)
			}
		})
	}
}
