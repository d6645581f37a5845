package indicator

import (
	"testing"
	"time"
)

func TestCache_HitAndFingerprintMismatch(t *testing.T) {
	cache := NewCache(4, time.Minute)
	frame := &Frame{Close: []float64{1, 2, 3}}

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	fp := Fingerprint(3, day)
	cache.Set("AAPL", fp, frame)

	got, ok := cache.Get("AAPL", fp)
	if !ok {
		t.Fatalf("expected cache hit")
	}
	if got != frame {
		t.Errorf("expected cached frame pointer returned")
	}

	// 序列变化(新末根日期)后旧条目必须失效
	newFp := Fingerprint(4, day.AddDate(0, 0, 1))
	if _, ok := cache.Get("AAPL", newFp); ok {
		t.Errorf("expected miss after series changed")
	}
	if cache.Len() != 0 {
		t.Errorf("expected stale entry dropped, len=%d", cache.Len())
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	cache := NewCache(4, time.Minute)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	fp := Fingerprint(10, now)
	cache.Set("MSFT", fp, &Frame{})

	if _, ok := cache.Get("MSFT", fp); !ok {
		t.Fatalf("expected hit before expiry")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := cache.Get("MSFT", fp); ok {
		t.Errorf("expected miss after ttl expiry")
	}
}

func TestCache_EvictsOldestWhenFull(t *testing.T) {
	cache := NewCache(2, time.Hour)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	day := now
	cache.Set("A", Fingerprint(1, day), &Frame{})
	now = now.Add(time.Second)
	cache.Set("B", Fingerprint(1, day), &Frame{})
	now = now.Add(time.Second)
	cache.Set("C", Fingerprint(1, day), &Frame{})

	if cache.Len() != 2 {
		t.Fatalf("expected capacity 2, got %d", cache.Len())
	}
	if _, ok := cache.Get("A", Fingerprint(1, day)); ok {
		t.Errorf("expected oldest entry evicted")
	}
}

func TestCache_Invalidate(t *testing.T) {
	cache := NewCache(4, time.Hour)
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	fp := Fingerprint(5, day)

	cache.Set("TSLA", fp, &Frame{})
	cache.Invalidate("TSLA")

	if _, ok := cache.Get("TSLA", fp); ok {
		t.Errorf("expected miss after invalidate")
	}
}
