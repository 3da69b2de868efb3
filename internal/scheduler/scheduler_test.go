// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(s.Stop)
	return s
}

func TestValidateSchedule(t *testing.T) {
	tests := []struct {
		schedule string
		valid    bool
	}{
		{"* * * * *", true},
		{"*/5 * * * *", true},
		{"@hourly", true},
		{"@every 5m", true},
		{"", false},
		{"every minute", false},
		{"* * * *", false},
		{"61 * * * *", false},
	}
	for _, tt := range tests {
		t.Run(tt.schedule, func(t *testing.T) {
			err := ValidateSchedule(tt.schedule)
			if (err == nil) != tt.valid {
				t.Errorf("ValidateSchedule(%q) error = %v, want valid=%v", tt.schedule, err, tt.valid)
			}
		})
	}
}

func TestAdd(t *testing.T) {
	s := newTestScheduler(t)
	noop := func(context.Context) error { return nil }

	if err := s.Add("refresh", "@every 1m", noop); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add("refresh", "@every 1m", noop); err == nil {
		t.Error("Add with a duplicate name should fail")
	}
	if err := s.Add("broken", "not a schedule", noop); err == nil {
		t.Error("Add with an invalid schedule should fail")
	}
	if !s.Next("refresh").IsZero() {
		t.Error("Next should be zero before Start")
	}

	s.Start()
	if next := s.Next("refresh"); next.IsZero() || next.Before(time.Now()) {
		t.Errorf("Next = %v, want a time in the future", next)
	}
}

func TestRunNow(t *testing.T) {
	s := newTestScheduler(t)
	var calls atomic.Int32
	boom := errors.New("boom")

	_ = s.Add("count", "@hourly", func(context.Context) error {
		calls.Add(1)
		return nil
	})
	_ = s.Add("fail", "@hourly", func(context.Context) error { return boom })

	if err := s.RunNow("count"); err != nil {
		t.Fatalf("RunNow: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
	if err := s.RunNow("fail"); !errors.Is(err, boom) {
		t.Errorf("RunNow error = %v, want %v", err, boom)
	}
	if err := s.RunNow("missing"); err == nil {
		t.Error("RunNow of an unknown job should fail")
	}
}

func TestStopCancelsJobContext(t *testing.T) {
	s := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	var seen context.Context
	_ = s.Add("ctx", "@hourly", func(ctx context.Context) error {
		seen = ctx
		return nil
	})
	_ = s.RunNow("ctx")
	s.Start()
	s.Stop()

	select {
	case <-seen.Done():
	default:
		t.Error("job context should be cancelled after Stop")
	}
}
