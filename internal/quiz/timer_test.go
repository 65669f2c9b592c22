package quiz

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestTickerSchedulerStopsAfterCancel(t *testing.T) {
	var ticks atomic.Int32
	fired := make(chan struct{}, 16)

	cancel := TickerScheduler{}.Every(5*time.Millisecond, func() {
		ticks.Add(1)
		select {
		case fired <- struct{}{}:
		default:
		}
	})

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected at least one tick")
	}

	cancel()
	cancel()
	// A tick already past the select may still land once.
	time.Sleep(20 * time.Millisecond)
	settled := ticks.Load()
	time.Sleep(50 * time.Millisecond)
	if got := ticks.Load(); got != settled {
		t.Fatalf("ticks kept firing after cancel: %d -> %d", settled, got)
	}
}
