package dynamic

import (
	"context"
	"errors"
	"testing"
	"time"
)

func delayed(d time.Duration) func(context.Context) error {
	return func(ctx context.Context) error {
		select {
		case <-time.After(d):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func TestWaitWithin(t *testing.T) {
	tests := []struct {
		name   string
		delay  time.Duration
		budget time.Duration
		want   bool
	}{
		{"immediate", 0, 200 * time.Millisecond, true},
		{"within budget", 20 * time.Millisecond, 500 * time.Millisecond, true},
		{"exceeds budget", 500 * time.Millisecond, 30 * time.Millisecond, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := waitWithin(context.Background(), tt.budget, delayed(tt.delay))
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if got != tt.want {
				t.Errorf("waitWithin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWaitWithin_OtherError(t *testing.T) {
	boom := errors.New("boom")
	found, err := waitWithin(context.Background(), time.Second, func(context.Context) error { return boom })
	if found {
		t.Error("Expected found=false")
	}
	if !errors.Is(err, boom) {
		t.Errorf("Expected boom, got %v", err)
	}
}

func TestWaitWithin_ParentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	found, err := waitWithin(ctx, time.Second, delayed(time.Second))
	if found {
		t.Error("Expected found=false")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
