package service

import (
	"context"
	"errors"
	"testing"

	"github.com/tanvir/listhub/internal/apperror"
	"github.com/tanvir/listhub/internal/model"
)

func newCollabStack(t *testing.T) (*CollaboratorService, *mockRelRepo, *mockUserRepo) {
	t.Helper()
	rels := newMockRelRepo()
	users := newMockUserRepo()
	svc := NewCollaboratorService(rels, users, testLogger())
	return svc, rels, users
}

func TestCollaboratorAdd(t *testing.T) {
	svc, rels, users := newCollabStack(t)
	bob := mustCreateUser(t, users, "Bob", "bob@example.com")

	collab, err := svc.Add(context.Background(), "list-1", bob.ID, true)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if collab.UserID != bob.ID || collab.UserName != "Bob" || collab.UserEmail != "bob@example.com" {
		t.Errorf("collaborator view = %+v, want Bob's details", collab)
	}
	if !collab.IsEditable {
		t.Error("IsEditable = false, want true")
	}

	rel, err := rels.GetByUserAndList(context.Background(), bob.ID, "list-1")
	if err != nil {
		t.Fatalf("relationship not persisted: %v", err)
	}
	if rel.IsOwner {
		t.Error("adding a collaborator must never grant ownership")
	}
}

func TestCollaboratorAdd_UnknownUser(t *testing.T) {
	svc, _, _ := newCollabStack(t)

	_, err := svc.Add(context.Background(), "list-1", "ghost", false)
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestCollaboratorAdd_Duplicate(t *testing.T) {
	svc, _, users := newCollabStack(t)
	bob := mustCreateUser(t, users, "Bob", "bob@example.com")

	if _, err := svc.Add(context.Background(), "list-1", bob.ID, false); err != nil {
		t.Fatalf("setup: %v", err)
	}

	_, err := svc.Add(context.Background(), "list-1", bob.ID, true)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
}

func TestCollaboratorAdd_OwnerCannotBeReAdded(t *testing.T) {
	svc, rels, users := newCollabStack(t)
	alice := mustCreateUser(t, users, "Alice", "alice@example.com")

	// Alice already owns the list.
	if err := rels.Save(context.Background(), &model.Relationship{
		UserID: alice.ID, ListID: "list-1", IsOwner: true, IsEditable: true,
	}); err != nil {
		t.Fatalf("setup: %v", err)
	}

	// Re-adding her as a viewer would demote her; it must conflict instead.
	_, err := svc.Add(context.Background(), "list-1", alice.ID, false)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}

	rel, _ := rels.GetByUserAndList(context.Background(), alice.ID, "list-1")
	if !rel.IsOwner {
		t.Error("ownership was lost")
	}
}

func TestCollaboratorList_ExcludesOwner(t *testing.T) {
	svc, rels, users := newCollabStack(t)
	alice := mustCreateUser(t, users, "Alice", "alice@example.com")
	bob := mustCreateUser(t, users, "Bob", "bob@example.com")

	if err := rels.Save(context.Background(), &model.Relationship{
		UserID: alice.ID, ListID: "list-1", IsOwner: true, IsEditable: true,
	}); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := svc.Add(context.Background(), "list-1", bob.ID, false); err != nil {
		t.Fatalf("setup: %v", err)
	}

	collabs, err := svc.List(context.Background(), "list-1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(collabs) != 1 {
		t.Fatalf("List() returned %d collaborators, want 1 (owner excluded)", len(collabs))
	}
	if collabs[0].UserID != bob.ID {
		t.Errorf("collaborator = %q, want %q", collabs[0].UserID, bob.ID)
	}
}

func TestCollaboratorUpdate(t *testing.T) {
	svc, _, users := newCollabStack(t)
	bob := mustCreateUser(t, users, "Bob", "bob@example.com")

	if _, err := svc.Add(context.Background(), "list-1", bob.ID, false); err != nil {
		t.Fatalf("setup: %v", err)
	}

	collab, err := svc.Update(context.Background(), "list-1", bob.ID, true)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !collab.IsEditable {
		t.Error("IsEditable = false after granting edit")
	}

	_, err = svc.Update(context.Background(), "list-1", "ghost", true)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("unknown collaboration error = %v, want ErrNotFound", err)
	}
}

func TestCollaboratorRemove(t *testing.T) {
	svc, rels, users := newCollabStack(t)
	bob := mustCreateUser(t, users, "Bob", "bob@example.com")

	if _, err := svc.Add(context.Background(), "list-1", bob.ID, false); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if err := svc.Remove(context.Background(), "list-1", bob.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if exists, _ := rels.ExistsByUserAndList(context.Background(), bob.ID, "list-1"); exists {
		t.Error("relationship still exists after Remove()")
	}

	if err := svc.Remove(context.Background(), "list-1", bob.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second Remove() error = %v, want ErrNotFound", err)
	}
}
