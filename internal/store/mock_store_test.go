// ABOUTME: Tests for the in-memory MockStore
// ABOUTME: Keeps the mock's validation and sampling behaviour aligned with SQLiteStore

package store

import (
	"context"
	"errors"
	"testing"
)

func TestMockStore_InsertAndList(t *testing.T) {
	m := NewMockStore()
	ctx := context.Background()

	first, err := m.Insert(ctx, "hello", "alice")
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	second, err := m.Insert(ctx, "world", "bob")
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if second.ID <= first.ID {
		t.Errorf("ids not increasing: %d then %d", first.ID, second.ID)
	}

	skipped, err := m.Insert(ctx, "", "carol")
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if !skipped.Skipped() {
		t.Errorf("expected skipped outcome, got %v", skipped.Outcome)
	}

	messages, err := m.AllMessages(ctx)
	if err != nil {
		t.Fatalf("AllMessages failed: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Text != "hello" || messages[1].Text != "world" {
		t.Errorf("unexpected messages: %+v", messages)
	}
}

func TestMockStore_SampleRandom(t *testing.T) {
	m := NewMockStore()
	ctx := context.Background()

	for _, text := range []string{"a", "b", "c"} {
		if _, err := m.Insert(ctx, text, "dave"); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	samples, err := m.SampleRandom(ctx, 2)
	if err != nil {
		t.Fatalf("SampleRandom failed: %v", err)
	}
	if len(samples) != 2 {
		t.Errorf("expected 2 samples, got %d", len(samples))
	}

	samples, err = m.SampleRandom(ctx, 10)
	if err != nil {
		t.Fatalf("SampleRandom failed: %v", err)
	}
	if len(samples) != 3 {
		t.Errorf("expected 3 samples, got %d", len(samples))
	}

	if _, err := m.SampleRandom(ctx, -1); !errors.Is(err, ErrInvalidSampleSize) {
		t.Errorf("expected ErrInvalidSampleSize, got %v", err)
	}
}

func TestMockStore_InjectedError(t *testing.T) {
	m := NewMockStore()
	ctx := context.Background()
	m.SetErr(ErrRead)

	if _, err := m.AllMessages(ctx); !errors.Is(err, ErrRead) {
		t.Errorf("AllMessages: expected ErrRead, got %v", err)
	}
	if _, err := m.Count(ctx); !errors.Is(err, ErrRead) {
		t.Errorf("Count: expected ErrRead, got %v", err)
	}
	if err := m.EnsureSchema(ctx); !errors.Is(err, ErrRead) {
		t.Errorf("EnsureSchema: expected ErrRead, got %v", err)
	}

	if err := m.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !m.Closed() {
		t.Error("expected Closed() to be true")
	}
}
