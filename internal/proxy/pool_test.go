package proxy

import (
	"testing"
	"time"
)

func TestPool_Rotation(t *testing.T) {
	pool := NewPool([]string{"p1", "p2", "p3"})

	for i, want := range []string{"p1", "p2", "p3", "p1"} {
		if got := pool.Next(); got != want {
			t.Errorf("call %d: expected %s, got %s", i+1, want, got)
		}
	}
}

func TestPool_SkipsFailed(t *testing.T) {
	pool := NewPool([]string{"p1", "p2", "p3"})
	pool.Next() // p1

	pool.MarkFailed("p2")

	for i, want := range []string{"p3", "p1", "p3"} {
		if got := pool.Next(); got != want {
			t.Errorf("call %d: expected %s, got %s", i+1, want, got)
		}
	}

	pool.MarkHealthy("p2")
	for i, want := range []string{"p1", "p2"} {
		if got := pool.Next(); got != want {
			t.Errorf("after healthy, call %d: expected %s, got %s", i+1, want, got)
		}
	}
}

func TestPool_CooldownExpires(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	pool := NewPool([]string{"p1", "p2"})
	pool.now = func() time.Time { return now }

	pool.MarkFailed("p1")
	if got := pool.Next(); got != "p2" {
		t.Errorf("Expected p2 while p1 cools down, got %s", got)
	}

	now = now.Add(DefaultCooldown + time.Second)
	if got := pool.Next(); got != "p1" {
		t.Errorf("Expected p1 after cooldown, got %s", got)
	}
}

func TestPool_AllFailed(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	pool := NewPool([]string{"p1", "p2"})
	pool.now = func() time.Time { return now }

	pool.MarkFailed("p2")
	now = now.Add(time.Second)
	pool.MarkFailed("p1")

	if got := pool.Next(); got != "p2" {
		t.Errorf("Expected oldest failure p2, got %s", got)
	}
}

func TestPool_Empty(t *testing.T) {
	pool := NewPool(nil)
	if got := pool.Next(); got != "" {
		t.Errorf("Expected empty proxy, got %q", got)
	}
	if pool.Len() != 0 {
		t.Errorf("Expected Len 0, got %d", pool.Len())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		proxies []string
		wantErr bool
	}{
		{"none", nil, false},
		{"host port", []string{"127.0.0.1:8080"}, false},
		{"http url", []string{"http://proxy.local:3128"}, false},
		{"socks", []string{"socks5://10.0.0.1:1080"}, false},
		{"empty entry", []string{" "}, true},
		{"bad scheme", []string{"ftp://proxy.local:21"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.proxies)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%v) error = %v, wantErr %v", tt.proxies, err, tt.wantErr)
			}
		})
	}
}
