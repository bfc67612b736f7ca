package activity

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/example/task-tracker/events"
	"github.com/go-monolith/mono/pkg/types"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any)         {}
func (m *mockLogger) Info(_ string, _ ...any)          {}
func (m *mockLogger) Warn(_ string, _ ...any)          {}
func (m *mockLogger) Error(_ string, _ ...any)         {}
func (m *mockLogger) With(_ ...any) types.Logger       { return m }
func (m *mockLogger) WithError(_ error) types.Logger   { return m }
func (m *mockLogger) WithModule(_ string) types.Logger { return m }

func TestStore_RecentNewestFirst(t *testing.T) {
	store := NewStore(10)
	for i := 0; i < 3; i++ {
		store.Record("alice", Entry{TaskID: fmt.Sprintf("task-%d", i)})
	}

	entries := store.Recent("alice", 0)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].TaskID != "task-2" || entries[2].TaskID != "task-0" {
		t.Errorf("entries not newest first: %+v", entries)
	}
	if entries[0].ID == "" {
		t.Error("expected generated entry id")
	}

	limited := store.Recent("alice", 2)
	if len(limited) != 2 || limited[0].TaskID != "task-2" {
		t.Errorf("unexpected limited result: %+v", limited)
	}

	if got := store.Recent("bob", 0); len(got) != 0 {
		t.Errorf("expected no entries for bob, got %d", len(got))
	}
}

func TestStore_DropsOldestBeyondLimit(t *testing.T) {
	store := NewStore(2)
	store.Record("alice", Entry{TaskID: "a"})
	store.Record("alice", Entry{TaskID: "b"})
	store.Record("alice", Entry{TaskID: "c"})

	entries := store.Recent("alice", 0)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].TaskID != "c" || entries[1].TaskID != "b" {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestStore_ConcurrentRecord(t *testing.T) {
	store := NewStore(1000)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.Record("alice", Entry{TaskID: fmt.Sprintf("task-%d", i)})
			_ = store.Recent("alice", 5)
		}(i)
	}
	wg.Wait()

	if got := len(store.Recent("alice", 0)); got != 50 {
		t.Errorf("expected 50 entries, got %d", got)
	}
}

func TestModule_HandlesTaskEvents(t *testing.T) {
	m := NewModule(10, &mockLogger{})
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	if err := m.handleTaskCreated(ctx, events.TaskCreatedEvent{
		TaskID: "t1", OwnerID: "alice", Title: "Write report", Priority: "Low", Status: "Pending", CreatedAt: now,
	}, nil); err != nil {
		t.Fatalf("handleTaskCreated() error = %v", err)
	}
	if err := m.handleTaskUpdated(ctx, events.TaskUpdatedEvent{
		TaskID: "t1", OwnerID: "alice", Changed: []string{"status"}, Status: "Completed", UpdatedAt: now.Add(time.Minute),
	}, nil); err != nil {
		t.Fatalf("handleTaskUpdated() error = %v", err)
	}
	if err := m.handleTaskDeleted(ctx, events.TaskDeletedEvent{
		TaskID: "t1", OwnerID: "alice", DeletedAt: now.Add(2 * time.Minute),
	}, nil); err != nil {
		t.Fatalf("handleTaskDeleted() error = %v", err)
	}

	resp, err := m.handleListActivity(ctx, ListActivityRequest{OwnerID: "alice"}, nil)
	if err != nil {
		t.Fatalf("handleListActivity() error = %v", err)
	}

	wantTypes := []string{TypeTaskDeleted, TypeTaskUpdated, TypeTaskCreated}
	if len(resp.Entries) != len(wantTypes) {
		t.Fatalf("expected %d entries, got %d", len(wantTypes), len(resp.Entries))
	}
	for i, want := range wantTypes {
		if resp.Entries[i].Type != want {
			t.Errorf("entry %d type = %q, want %q", i, resp.Entries[i].Type, want)
		}
	}
	if resp.Entries[1].Message != "Task updated: status (status Completed)" {
		t.Errorf("unexpected update message %q", resp.Entries[1].Message)
	}

	other, err := m.handleListActivity(ctx, ListActivityRequest{OwnerID: "bob"}, nil)
	if err != nil {
		t.Fatalf("handleListActivity() error = %v", err)
	}
	if len(other.Entries) != 0 {
		t.Errorf("activity leaked across owners: %+v", other.Entries)
	}

	missing, err := m.handleListActivity(ctx, ListActivityRequest{}, nil)
	if err != nil {
		t.Fatalf("missing owner must be reported in the reply, got error %v", err)
	}
	if missing.Error != "owner_id is required" || len(missing.Entries) != 0 {
		t.Errorf("unexpected reply for missing owner: %+v", missing)
	}
}
