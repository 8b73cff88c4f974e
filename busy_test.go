package dashboard

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBusy(t *testing.T) {
	var b Busy
	if b.IsBusy() {
		t.Fatal("zero Busy is busy")
	}

	doneA := b.Begin("overview")
	doneB := b.Begin("refresh")
	if diff := cmp.Diff([]string{"overview", "refresh"}, b.InFlight()); diff != "" {
		t.Errorf("InFlight() mismatch (-want +got):\n%s", diff)
	}

	// the first operation to end must not clear the second one
	doneA()
	doneA()
	if !b.IsBusy() {
		t.Error("IsBusy() = false while refresh is in flight")
	}
	doneB()
	if b.IsBusy() {
		t.Errorf("IsBusy() = true, in flight: %v", b.InFlight())
	}
}

func TestBusy_Concurrent(t *testing.T) {
	var b Busy
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			done := b.Begin("op")
			defer done()
		}()
	}
	wg.Wait()
	if b.IsBusy() {
		t.Errorf("IsBusy() = true after all operations ended: %v", b.InFlight())
	}
}
