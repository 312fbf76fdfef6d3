package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tanvir/listhub/internal/apperror"
	"github.com/tanvir/listhub/internal/model"
	"github.com/tanvir/listhub/internal/repository"
)

func TestItemCreate(t *testing.T) {
	db := newTestDB(t)
	list := createTestList(t, db, "Groceries")

	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	item := &model.Item{
		ListID:  list.ID,
		Name:    "Buy milk",
		Text:    "two liters",
		DueDate: &due,
		Status:  model.StatusTodo,
	}
	if err := db.Items().Create(context.Background(), item); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	found, err := db.Items().GetByID(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Name != "Buy milk" || found.Text != "two liters" {
		t.Errorf("got %q/%q", found.Name, found.Text)
	}
	if found.DueDate == nil || !found.DueDate.Equal(due) {
		t.Errorf("DueDate = %v, want %v", found.DueDate, due)
	}
	if found.Status != model.StatusTodo {
		t.Errorf("Status = %q, want %q", found.Status, model.StatusTodo)
	}
}

func TestItemCreate_MissingListFails(t *testing.T) {
	db := newTestDB(t)

	// The foreign key on list_id rejects orphan items.
	err := db.Items().Create(context.Background(), &model.Item{
		ListID: "no-such-list", Name: "orphan", Status: model.StatusTodo,
	})
	if err == nil {
		t.Fatal("Create() should fail for a nonexistent list")
	}
}

func TestItemGetByListAndID_ScopedToList(t *testing.T) {
	db := newTestDB(t)
	listA := createTestList(t, db, "A")
	listB := createTestList(t, db, "B")
	item := createTestItem(t, db, listA.ID, "task")

	found, err := db.Items().GetByListAndID(context.Background(), listA.ID, item.ID)
	if err != nil {
		t.Fatalf("GetByListAndID() error = %v", err)
	}
	if found.ID != item.ID {
		t.Errorf("ID = %q, want %q", found.ID, item.ID)
	}

	// The same item ID through another list's scope must look nonexistent.
	if _, err := db.Items().GetByListAndID(context.Background(), listB.ID, item.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound for a cross-list lookup", err)
	}
}

func TestItemList_StatusFilter(t *testing.T) {
	db := newTestDB(t)
	list := createTestList(t, db, "Chores")

	statuses := []model.ItemStatus{model.StatusTodo, model.StatusInProgress, model.StatusTodo, model.StatusCompleted}
	for _, st := range statuses {
		item := &model.Item{ListID: list.ID, Name: "chore", Status: st}
		if err := db.Items().Create(context.Background(), item); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	items, err := db.Items().List(context.Background(), list.ID,
		repository.ItemFilter{Status: model.StatusTodo}, repository.ListOptions{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2 with status %q", len(items), model.StatusTodo)
	}
	for _, it := range items {
		if it.Status != model.StatusTodo {
			t.Errorf("item %q has status %q", it.Name, it.Status)
		}
	}
}

func TestItemList_DueDateRange(t *testing.T) {
	db := newTestDB(t)
	list := createTestList(t, db, "Deadlines")

	day := func(d int) time.Time { return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC) }
	for _, d := range []int{1, 10, 20} {
		due := day(d)
		item := &model.Item{ListID: list.ID, Name: "deadline", DueDate: &due, Status: model.StatusTodo}
		if err := db.Items().Create(context.Background(), item); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	from, to := day(5), day(15)
	items, err := db.Items().List(context.Background(), list.ID,
		repository.ItemFilter{DueDateFrom: &from, DueDateTo: &to}, repository.ListOptions{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1 due between the 5th and the 15th", len(items))
	}
	if !items[0].DueDate.Equal(day(10)) {
		t.Errorf("DueDate = %v, want the 10th", items[0].DueDate)
	}
}

func TestItemList_ScopedToList(t *testing.T) {
	db := newTestDB(t)
	listA := createTestList(t, db, "A")
	listB := createTestList(t, db, "B")
	createTestItem(t, db, listA.ID, "a1")
	createTestItem(t, db, listA.ID, "a2")
	createTestItem(t, db, listB.ID, "b1")

	items, err := db.Items().List(context.Background(), listA.ID, repository.ItemFilter{}, repository.ListOptions{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 2 {
		t.Errorf("got %d items, want only list A's 2", len(items))
	}
}

func TestItemUpdate(t *testing.T) {
	db := newTestDB(t)
	list := createTestList(t, db, "Chores")
	item := createTestItem(t, db, list.ID, "before")

	due := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	item.Name = "after"
	item.Text = "now with text"
	item.DueDate = &due
	item.Status = model.StatusCompleted
	if err := db.Items().Update(context.Background(), item); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, err := db.Items().GetByID(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Name != "after" || found.Text != "now with text" || found.Status != model.StatusCompleted {
		t.Errorf("got %q/%q/%q after update", found.Name, found.Text, found.Status)
	}
	if found.ListID != list.ID {
		t.Errorf("ListID changed to %q", found.ListID)
	}
}

func TestItemUpdate_WrongList(t *testing.T) {
	db := newTestDB(t)
	listA := createTestList(t, db, "A")
	listB := createTestList(t, db, "B")
	item := createTestItem(t, db, listA.ID, "task")

	item.ListID = listB.ID
	item.Name = "hijacked"
	if err := db.Items().Update(context.Background(), item); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound when the list doesn't match", err)
	}
}

func TestItemDelete(t *testing.T) {
	db := newTestDB(t)
	list := createTestList(t, db, "Chores")
	item := createTestItem(t, db, list.ID, "task")

	if err := db.Items().Delete(context.Background(), list.ID, item.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := db.Items().GetByID(context.Background(), item.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("item still readable after delete: %v", err)
	}

	if err := db.Items().Delete(context.Background(), list.ID, item.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}
