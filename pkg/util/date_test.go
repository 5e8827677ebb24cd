package util

import (
	"testing"
	"time"
)

func TestTruncateDayKeepsLocalCalendarDay(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	in := time.Date(2024, 3, 1, 0, 30, 0, 0, tokyo)
	got := TruncateDay(in)
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2023-12-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Format(DateLayout) != "2023-12-31" || got.Location() != time.UTC {
		t.Fatalf("unexpected date %v", got)
	}
	if _, err := ParseDate("31/12/2023"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDayAtOffset(t *testing.T) {
	// 2024-03-01 00:00 JST is still Feb 29 in UTC.
	ts := time.Date(2024, 2, 29, 15, 0, 0, 0, time.UTC).Unix()
	if got := DayAtOffset(ts, 9*3600).Format(DateLayout); got != "2024-03-01" {
		t.Fatalf("expected 2024-03-01, got %s", got)
	}
	if got := DayAtOffset(ts, -5*3600).Format(DateLayout); got != "2024-02-29" {
		t.Fatalf("expected 2024-02-29, got %s", got)
	}
}

func TestSplitSymbols(t *testing.T) {
	got := SplitSymbols(" aapl, MSFT;aapl  asml.as\n")
	want := []string{"AAPL", "MSFT", "ASML.AS"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
