package model

import (
	"testing"
	"time"
)

func TestFormatTimestamp_FixedWidthUTC(t *testing.T) {
	ts := time.Date(2026, 8, 5, 9, 3, 7, 42000000, time.UTC)

	got := FormatTimestamp(ts)
	if got != "2026-08-05T09:03:07.042Z" {
		t.Errorf("FormatTimestamp() = %q, want %q", got, "2026-08-05T09:03:07.042Z")
	}
}

func TestFormatTimestamp_ConvertsToUTC(t *testing.T) {
	jst := time.FixedZone("JST", 9*3600)
	ts := time.Date(2026, 8, 5, 18, 0, 0, 0, jst)

	got := FormatTimestamp(ts)
	if got != "2026-08-05T09:00:00.000Z" {
		t.Errorf("FormatTimestamp() = %q, want UTC-normalized %q", got, "2026-08-05T09:00:00.000Z")
	}
}

func TestParseTimestamp_RoundTrip(t *testing.T) {
	ts := time.Date(2026, 8, 5, 9, 3, 7, 42000000, time.UTC)

	parsed, err := ParseTimestamp(FormatTimestamp(ts))
	if err != nil {
		t.Fatalf("ParseTimestamp() error = %v", err)
	}
	if !parsed.Equal(ts) {
		t.Errorf("round trip = %v, want %v", parsed, ts)
	}
}

func TestParseTimestamp_RejectsMalformed(t *testing.T) {
	if _, err := ParseTimestamp("2026-08-05 09:03:07"); err == nil {
		t.Error("ParseTimestamp() error = nil, want parse error")
	}
}

// 固定幅UTC文字列は辞書順比較が時系列比較と一致する。
func TestFormatTimestamp_LexicographicOrderMatchesChronological(t *testing.T) {
	earlier := FormatTimestamp(time.Date(2026, 8, 5, 9, 0, 0, 0, time.UTC))
	later := FormatTimestamp(time.Date(2026, 8, 5, 10, 0, 0, 0, time.UTC))

	if !(earlier < later) {
		t.Errorf("lexicographic order broken: %q should sort before %q", earlier, later)
	}
}
