package jobmgr

import (
	"context"
	"testing"
	"time"
)

func TestStartAsyncRunsAndRemoves(t *testing.T) {
	m := NewManager(nil)
	done := make(chan struct{})

	err := m.StartAsync("work", func(ctx context.Context) error {
		close(done)
		return nil
	})
	if err != nil {
		t.Fatalf("StartAsync: %v", err)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not run")
	}

	deadline := time.Now().Add(time.Second)
	for m.Running("work") {
		if time.Now().After(deadline) {
			t.Fatal("job was not removed after completion")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestStartAsyncRejectsDuplicateName(t *testing.T) {
	m := NewManager(nil)
	release := make(chan struct{})

	if err := m.StartAsync("work", func(ctx context.Context) error {
		<-release
		return nil
	}); err != nil {
		t.Fatalf("first StartAsync: %v", err)
	}
	if err := m.StartAsync("work", func(ctx context.Context) error { return nil }); err == nil {
		t.Fatal("expected duplicate name to be rejected")
	}
	close(release)
}

func TestStopCancelsJobContext(t *testing.T) {
	m := NewManager(nil)
	cancelled := make(chan struct{})

	if err := m.StartAsync("work", func(ctx context.Context) error {
		<-ctx.Done()
		close(cancelled)
		return nil
	}); err != nil {
		t.Fatalf("StartAsync: %v", err)
	}

	if err := m.Stop("work"); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("Stop did not cancel the job context")
	}

	if err := m.Stop("work"); err == nil {
		t.Fatal("expected Stop on a finished job to fail")
	}
}

func TestReporterReceivesLifecycle(t *testing.T) {
	msgs := make(chan string, 4)
	m := NewManager(func(s string) { msgs <- s })

	if err := m.StartAsync("job", func(ctx context.Context) error { return nil }); err != nil {
		t.Fatalf("StartAsync: %v", err)
	}

	want := []string{"running:job", "done:job"}
	for _, w := range want {
		select {
		case got := <-msgs:
			if got != w {
				t.Fatalf("reporter message = %q, want %q", got, w)
			}
		case <-time.After(time.Second):
			t.Fatalf("missing reporter message %q", w)
		}
	}
}
