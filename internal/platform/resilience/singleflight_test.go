package resilience

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestSingleFlight_SharesInFlightLoad(t *testing.T) {
	var g SingleFlight
	var calls int32

	const callers = 20
	release := make(chan struct{})
	entered := make(chan struct{})
	var once sync.Once
	var wg sync.WaitGroup
	wg.Add(callers)

	shared := int32(0)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			value, err, isShared := g.Do("stats:team-1", func() (any, error) {
				atomic.AddInt32(&calls, 1)
				once.Do(func() { close(entered) })
				<-release
				return "summary", nil
			})
			if err != nil || value != "summary" {
				t.Errorf("unexpected result: %v %v", value, err)
			}
			if isShared {
				atomic.AddInt32(&shared, 1)
			}
		}()
	}

	<-entered
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got < 1 || got > callers {
		t.Fatalf("unexpected load count %d", got)
	}
	if atomic.LoadInt32(&calls) == 1 && atomic.LoadInt32(&shared) != callers {
		t.Fatalf("expected every caller to share the single load")
	}
}

func TestSingleFlight_ForgetStartsFreshLoad(t *testing.T) {
	var g SingleFlight
	boom := errors.New("boom")

	_, err, _ := g.Do("k", func() (any, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}

	g.Forget("k")
	value, err, _ := g.Do("k", func() (any, error) { return 42, nil })
	if err != nil || value != 42 {
		t.Fatalf("expected fresh load after Forget, got %v %v", value, err)
	}
}
