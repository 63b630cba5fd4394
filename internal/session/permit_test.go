package session

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestPermitSingleSlot(t *testing.T) {
	var p Permit

	if !p.TryAcquire() {
		t.Fatal("first acquisition must succeed")
	}
	if p.TryAcquire() {
		t.Fatal("second acquisition must fail while held")
	}
	p.Release()
	if !p.TryAcquire() {
		t.Fatal("acquisition after release must succeed")
	}
}

func TestPermitConcurrentAcquisition(t *testing.T) {
	var p Permit
	var won atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if p.TryAcquire() {
				won.Add(1)
			}
		}()
	}
	wg.Wait()

	if won.Load() != 1 {
		t.Fatalf("%d goroutines acquired the permit, want exactly 1", won.Load())
	}
}
