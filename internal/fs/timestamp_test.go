package fs

import (
	"testing"
	"time"
)

func TestBCDRoundTrip(t *testing.T) {
	for _, v := range []int{0, 1, 9, 10, 42, 59, 99} {
		if got := fromBCD(toBCD(v)); got != v {
			t.Errorf("fromBCD(toBCD(%d)) = %d", v, got)
		}
	}
}

func TestEntryTimeRoundTrip(t *testing.T) {
	entry := make([]byte, entrySize)
	want := time.Date(2023, time.November, 7, 13, 45, 9, 0, time.Local)
	setEntryTime(entry, v1EntryTimestampOff, want)
	got := entryTime(entry, v1EntryTimestampOff)

	if got.Year() != want.Year() || got.Month() != want.Month() || got.Day() != want.Day() ||
		got.Hour() != want.Hour() || got.Minute() != want.Minute() || got.Second() != want.Second() {
		t.Errorf("entryTime round trip = %v, want %v", got, want)
	}
}
