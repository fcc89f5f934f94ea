package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeResource struct {
	Status   string
	Progress int
}

func (r fakeResource) IsTerminal() bool {
	return r.Status == "completed" || r.Status == "failed"
}

// scriptedFetcher returns the scripted snapshots in order, repeating the last one.
type scriptedFetcher struct {
	mu      sync.Mutex
	script  []fakeResource
	failAt  int // 1-based call that fails, 0 for never
	failErr error
	calls   int
}

func (f *scriptedFetcher) Fetch(ctx context.Context, id string) (fakeResource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failAt != 0 && f.calls == f.failAt {
		return fakeResource{}, f.failErr
	}
	i := f.calls - 1
	if i >= len(f.script) {
		i = len(f.script) - 1
	}
	return f.script[i], nil
}

func (f *scriptedFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var fastOptions = Options{Interval: time.Millisecond, MaxAttempts: 10}

func TestPoll_DeliversEverySnapshotInOrder(t *testing.T) {
	fetcher := &scriptedFetcher{script: []fakeResource{
		{Status: "pending"},
		{Status: "processing", Progress: 40},
		{Status: "processing", Progress: 80},
		{Status: "completed", Progress: 100},
	}}

	var updates []fakeResource
	final, err := Poll(context.Background(), "clip-1", fetcher.Fetch, func(r fakeResource) {
		updates = append(updates, r)
	}, fastOptions)

	if err != nil {
		t.Fatalf("Poll failed: %v", err)
	}
	if final.Status != "completed" {
		t.Errorf("Expected completed snapshot, got %+v", final)
	}
	if len(updates) != 4 {
		t.Fatalf("Expected 4 updates, got %d", len(updates))
	}
	for i, want := range fetcher.script {
		if updates[i] != want {
			t.Errorf("Update %d: got %+v, want %+v", i, updates[i], want)
		}
	}

	time.Sleep(20 * time.Millisecond)
	if calls := fetcher.Calls(); calls != 4 {
		t.Errorf("Expected no fetch after completion, got %d fetches", calls)
	}
}

func TestPoll_BackendFailureIsNotAnError(t *testing.T) {
	fetcher := &scriptedFetcher{script: []fakeResource{
		{Status: "processing"},
		{Status: "failed"},
	}}

	final, err := Poll(context.Background(), "video-1", fetcher.Fetch, nil, fastOptions)
	if err != nil {
		t.Fatalf("Expected nil error for a failed resource, got %v", err)
	}
	if final.Status != "failed" {
		t.Errorf("Expected failed snapshot, got %+v", final)
	}
}

func TestPoll_Timeout(t *testing.T) {
	fetcher := &scriptedFetcher{script: []fakeResource{{Status: "processing", Progress: 10}}}

	updates := 0
	final, err := Poll(context.Background(), "clip-2", fetcher.Fetch, func(fakeResource) {
		updates++
	}, Options{Interval: time.Millisecond, MaxAttempts: 3})

	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Expected ErrTimeout, got %v", err)
	}
	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) || timeoutErr.Attempts != 3 {
		t.Errorf("Expected *TimeoutError with 3 attempts, got %#v", err)
	}
	if fetcher.Calls() != 3 {
		t.Errorf("Expected exactly 3 fetches, got %d", fetcher.Calls())
	}
	if updates != 3 {
		t.Errorf("Expected 3 updates, got %d", updates)
	}
	if final.Status != "processing" || final.Progress != 10 {
		t.Errorf("Expected last known snapshot to be kept, got %+v", final)
	}
}

func TestPoll_TransportErrorAborts(t *testing.T) {
	transportErr := errors.New("connection refused")
	fetcher := &scriptedFetcher{
		script:  []fakeResource{{Status: "processing"}},
		failAt:  2,
		failErr: transportErr,
	}

	_, err := Poll(context.Background(), "clip-3", fetcher.Fetch, nil, fastOptions)
	if !errors.Is(err, transportErr) {
		t.Fatalf("Expected the transport error, got %v", err)
	}
	if errors.Is(err, ErrTimeout) {
		t.Error("Transport error must not be reported as a timeout")
	}

	time.Sleep(20 * time.Millisecond)
	if calls := fetcher.Calls(); calls != 2 {
		t.Errorf("Expected exactly 2 fetches, got %d", calls)
	}
}

func TestPoll_Cancellation(t *testing.T) {
	fetcher := &scriptedFetcher{script: []fakeResource{{Status: "processing"}}}
	ctx, cancel := context.WithCancel(context.Background())

	updates := 0
	_, err := Poll(ctx, "clip-4", fetcher.Fetch, func(fakeResource) {
		updates++
		if updates == 2 {
			cancel()
		}
	}, Options{Interval: time.Millisecond, MaxAttempts: 100})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if updates != 2 {
		t.Errorf("Expected no update after cancellation, got %d updates", updates)
	}
}

func TestOptions_Defaults(t *testing.T) {
	o := Options{}.withDefaults()
	if o.Interval != DefaultInterval || o.MaxAttempts != DefaultVideoMaxAttempts {
		t.Errorf("Unexpected defaults %+v", o)
	}
	if ClipOptions().MaxAttempts != 120 || VideoOptions().MaxAttempts != 60 {
		t.Error("Unexpected per-resource defaults")
	}
}
