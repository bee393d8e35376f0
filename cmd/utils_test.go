package cmd

import (
	"testing"
	"time"
)

func TestParseWhen(t *testing.T) {
	t.Run("empty means unset", func(t *testing.T) {
		got, err := parseWhen("")
		if err != nil || got != 0 {
			t.Errorf("got (%d, %v), want (0, nil)", got, err)
		}
	})

	t.Run("date", func(t *testing.T) {
		got, err := parseWhen("2024-06-01")
		if err != nil {
			t.Fatal(err)
		}
		want := time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local).UnixMilli()
		if got != want {
			t.Errorf("got %d, want %d", got, want)
		}
	})

	t.Run("rfc3339", func(t *testing.T) {
		got, err := parseWhen("2024-06-01T12:30:00Z")
		if err != nil {
			t.Fatal(err)
		}
		want := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC).UnixMilli()
		if got != want {
			t.Errorf("got %d, want %d", got, want)
		}
	})

	t.Run("epoch millis", func(t *testing.T) {
		got, err := parseWhen("1700000000000")
		if err != nil || got != 1700000000000 {
			t.Errorf("got (%d, %v), want (1700000000000, nil)", got, err)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := parseWhen("next tuesday"); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{42, "42"},
		{999, "999"},
		{1500, "1.5K"},
		{2500000, "2.5M"},
	}
	for _, tt := range tests {
		if got := formatNumber(tt.n); got != tt.want {
			t.Errorf("formatNumber(%d) = %s, want %s", tt.n, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := truncate("abcdefghij", 5); got != "abcde…" {
		t.Errorf("got %q", got)
	}
}
