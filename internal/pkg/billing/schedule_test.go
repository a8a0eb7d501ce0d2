package billing

import (
	"testing"
	"time"
)

func TestNextFriday(t *testing.T) {
	// 2026-03-04 is a Wednesday, 2026-03-06 a Friday.
	wednesday := time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC)
	want := time.Date(2026, 3, 6, 10, 0, 0, 0, time.UTC)
	if got := nextFriday(wednesday); !got.Equal(want) {
		t.Fatalf("nextFriday(wed) = %v, want %v", got, want)
	}

	// A Friday rolls to the same day's collection time, even past 10:00.
	friday := time.Date(2026, 3, 6, 14, 0, 0, 0, time.UTC)
	if got := nextFriday(friday); !got.Equal(want) {
		t.Fatalf("nextFriday(fri) = %v, want %v", got, want)
	}

	saturday := time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)
	wantNext := time.Date(2026, 3, 13, 10, 0, 0, 0, time.UTC)
	if got := nextFriday(saturday); !got.Equal(wantNext) {
		t.Fatalf("nextFriday(sat) = %v, want %v", got, wantNext)
	}
}

func TestIsPaymentDay(t *testing.T) {
	if isPaymentDay(time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("wednesday is not a payment day")
	}
	if !isPaymentDay(time.Date(2026, 3, 6, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("friday is a payment day")
	}
}
