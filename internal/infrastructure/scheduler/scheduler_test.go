package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestAdd_RejectsInvalidSpec(t *testing.T) {
	s := New(zerolog.Nop())
	err := s.Add(Job{Name: "bad", Spec: "every now and then", Run: func(context.Context) error { return nil }})
	if err == nil {
		t.Fatalf("expected error for invalid spec")
	}
}

func TestAdd_RegistersJobs(t *testing.T) {
	s := New(zerolog.Nop())
	noop := func(context.Context) error { return nil }
	if err := s.Add(
		Job{Name: "dashboard", Spec: "@every 5m", Run: noop},
		Job{Name: "menu", Spec: "*/10 * * * *", Run: noop},
	); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 jobs, got %d", s.Len())
	}
	s.Start()
	s.Stop()
}

func TestRun_CallsJobWithDeadline(t *testing.T) {
	s := New(zerolog.Nop())
	called := false
	s.run(Job{Name: "x", Run: func(ctx context.Context) error {
		called = true
		if _, ok := ctx.Deadline(); !ok {
			t.Errorf("job context must carry a deadline")
		}
		return errors.New("logged, not returned")
	}})
	if !called {
		t.Fatalf("job not called")
	}
}
