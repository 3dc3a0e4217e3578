package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	if _, ok, _ := m.Get(ctx, "index_page"); ok {
		t.Fatal("empty store should miss")
	}

	if err := m.Set(ctx, "index_page", []byte("v1"), 20*time.Second); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	now = now.Add(19 * time.Second)
	got, ok, err := m.Get(ctx, "index_page")
	if err != nil || !ok || string(got) != "v1" {
		t.Errorf("Get() within ttl = %q, %v, %v; want v1", got, ok, err)
	}

	got[0] = 'x'
	again, _, _ := m.Get(ctx, "index_page")
	if string(again) != "v1" {
		t.Errorf("Get() returned shared bytes; stored value became %q", again)
	}

	now = now.Add(time.Second)
	if _, ok, _ := m.Get(ctx, "index_page"); ok {
		t.Error("Get() at ttl boundary should miss")
	}

	_ = m.Set(ctx, "a", []byte("1"), time.Minute)
	_ = m.Set(ctx, "b", []byte("2"), time.Minute)
	if err := m.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	for _, k := range []string{"a", "b"} {
		if _, ok, _ := m.Get(ctx, k); ok {
			t.Errorf("Get(%q) after Clear() should miss", k)
		}
	}

	_ = m.Set(ctx, "zero", []byte("z"), 0)
	if _, ok, _ := m.Get(ctx, "zero"); ok {
		t.Error("zero ttl should not store")
	}
}
