package watch

import (
	"sync"
	"testing"
	"time"
)

func TestLoadStore(t *testing.T) {
	v := NewValue(10)
	if got := v.Load(); got != 10 {
		t.Errorf("Load() = %d, want 10", got)
	}
	v.Store(25)
	if got := v.Load(); got != 25 {
		t.Errorf("Load() after Store = %d, want 25", got)
	}
}

func TestUpdateConcurrent(t *testing.T) {
	v := NewValue(0)

	const workers = 8
	const perWorker = 500

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				v.Update(func(n int) int { return n + 1 })
			}
		}()
	}
	wg.Wait()

	if got := v.Load(); got != workers*perWorker {
		t.Errorf("Load() = %d, want %d (lost updates)", got, workers*perWorker)
	}
}

func TestSubscribeDeliversCurrentValue(t *testing.T) {
	v := NewValue("initial")
	ch, cancel := v.Subscribe()
	defer cancel()

	select {
	case got := <-ch:
		if got != "initial" {
			t.Errorf("first delivery = %q, want initial", got)
		}
	case <-time.After(time.Second):
		t.Fatal("no initial delivery")
	}
}

func TestSubscribeSeesLatest(t *testing.T) {
	v := NewValue(0)
	ch, cancel := v.Subscribe()
	defer cancel()
	<-ch // drain initial

	// A burst of stores; a slow consumer must see the newest value.
	for i := 1; i <= 100; i++ {
		v.Store(i)
	}

	select {
	case got := <-ch:
		if got != 100 {
			t.Errorf("delivery = %d, want latest value 100", got)
		}
	case <-time.After(time.Second):
		t.Fatal("no delivery after store burst")
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	v := NewValue(0)
	ch, cancel := v.Subscribe()
	<-ch
	cancel()

	v.Store(7)
	select {
	case got := <-ch:
		t.Errorf("received %d after cancel", got)
	case <-time.After(50 * time.Millisecond):
	}
}
