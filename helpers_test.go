package main

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// identityIntn makes shuffle keep the original clue order.
func identityIntn(n int) int { return n - 1 }

func testCategory(id int, title string, clues int) APICategory {
	c := APICategory{ID: id, Title: title, CluesCount: clues}
	for i := range clues {
		c.Clues = append(c.Clues, APIClue{
			ID:         id*100 + i,
			Question:   fmt.Sprintf("%s question %d", title, i+1),
			Answer:     fmt.Sprintf("%s answer %d", title, i+1),
			CategoryID: id,
		})
	}
	return c
}

type fakeFetcher struct {
	results map[int]APICategory
	err     error
	gate    chan struct{}
	calls   atomic.Int32
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{results: map[int]APICategory{
		1892: testCategory(1892, "Rivers", 7),
		4483: testCategory(4483, "Poets", 5),
		88:   testCategory(88, "Capitals", 10),
		218:  testCategory(218, "Birds", 3),
	}}
}

func (f *fakeFetcher) FetchCategories(ctx context.Context, ids []int) ([]APICategory, error) {
	f.calls.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	out := make([]APICategory, len(ids))
	for i, id := range ids {
		out[i] = f.results[id]
	}
	return out, nil
}

type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) record(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *eventRecorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func dummyContext() context.Context {
	return context.Background()
}
