package validation

import (
	"strings"
	"testing"
)

func TestIsDateAndClock(t *testing.T) {
	dates := map[string]bool{
		"2025-06-01": true,
		"2024-02-29": true,
		"2025-02-29": false,
		"2025-6-1":   false,
		"01-06-2025": false,
		"":           false,
	}
	for in, want := range dates {
		if got := IsDate(in); got != want {
			t.Errorf("IsDate(%q) = %v, want %v", in, got, want)
		}
	}

	clocks := map[string]bool{
		"09:00": true,
		"23:59": true,
		"24:00": false,
		"9:00":  false,
		"10:60": false,
		"":      false,
	}
	for in, want := range clocks {
		if got := IsClock(in); got != want {
			t.Errorf("IsClock(%q) = %v, want %v", in, got, want)
		}
	}
}

type slot struct {
	Date        string `validate:"required,meetingdate"`
	Time        string `validate:"required,meetingtime"`
	Description string `validate:"notblank"`
}

func TestStructUsesCustomTags(t *testing.T) {
	if err := Struct(slot{Date: "2025-07-01", Time: "09:00", Description: "Progress"}); err != nil {
		t.Fatalf("valid slot rejected: %v", err)
	}

	err := Struct(slot{Date: "2025-13-01", Time: "9am", Description: "   "})
	if err == nil {
		t.Fatal("invalid slot accepted")
	}
	msg := Describe(err)
	for _, want := range []string{"YYYY-MM-DD", "HH:MM", "Description is required"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Describe() = %q, missing %q", msg, want)
		}
	}
}
