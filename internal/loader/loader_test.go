package loader

import (
	"errors"
	"testing"
	"time"
)

type kind int

const (
	kindPRList kind = iota
	kindDiffStats
)

func waitReady[T any](t *testing.T, r *Registry[kind], k kind) Outcome[T] {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		out := Poll[kind, T](r, k)
		if out.Ready || out.Stale {
			return out
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for result")
	return Outcome[T]{}
}

func TestRequestThenPollDeliversValue(t *testing.T) {
	r := NewRegistry[kind]()
	Request(r, kindPRList, func() (int, error) { return 42, nil })
	out := waitReady[int](t, r, kindPRList)
	if !out.Ready || out.Value != 42 {
		t.Fatalf("expected ready value 42, got %+v", out)
	}
}

func TestIsLoadingReflectsInflightState(t *testing.T) {
	r := NewRegistry[kind]()
	block := make(chan struct{})
	Request(r, kindDiffStats, func() (int, error) {
		<-block
		return 1, nil
	})
	if !r.IsLoading(kindDiffStats) {
		t.Fatal("expected loading=true while inflight")
	}
	close(block)
	waitReady[int](t, r, kindDiffStats)
	if r.IsLoading(kindDiffStats) {
		t.Fatal("expected loading=false after delivery")
	}
}

func TestSupersededRequestDiscardsStaleResult(t *testing.T) {
	r := NewRegistry[kind]()
	firstDone := make(chan struct{})
	Request(r, kindPRList, func() (int, error) {
		<-firstDone
		return 1, nil
	})
	// Supersede before the first finishes.
	Request(r, kindPRList, func() (int, error) { return 2, nil })
	out := waitReady[int](t, r, kindPRList)
	if !out.Ready || out.Value != 2 {
		t.Fatalf("expected the superseding request's value 2, got %+v", out)
	}
	close(firstDone)
}

func TestPollSurfacesWorkerError(t *testing.T) {
	r := NewRegistry[kind]()
	wantErr := errors.New("boom")
	Request(r, kindPRList, func() (int, error) { return 0, wantErr })
	out := waitReady[int](t, r, kindPRList)
	if out.Err == nil {
		t.Fatal("expected error to surface")
	}
}
