package sqlite

// Shared test helpers. Tests run against ":memory:" databases — fast,
// isolated, destroyed with the connection. t.Helper() keeps failure output
// pointed at the calling test, and t.Cleanup closes the DB even in
// subtests.

import (
	"context"
	"testing"

	"github.com/tanvir/listhub/internal/model"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, name, email string) *model.User {
	t.Helper()
	user := &model.User{Name: name, Email: email, PasswordHash: "$2a$04$test"}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestList(t *testing.T, db *DB, name string) *model.List {
	t.Helper()
	list := &model.List{Name: name}
	if err := db.Lists().Create(context.Background(), list); err != nil {
		t.Fatalf("failed to create test list: %v", err)
	}
	return list
}

func createTestItem(t *testing.T, db *DB, listID, name string) *model.Item {
	t.Helper()
	item := &model.Item{ListID: listID, Name: name, Status: model.StatusTodo}
	if err := db.Items().Create(context.Background(), item); err != nil {
		t.Fatalf("failed to create test item: %v", err)
	}
	return item
}

func saveTestRelationship(t *testing.T, db *DB, userID, listID string, owner, editable bool) *model.Relationship {
	t.Helper()
	rel := &model.Relationship{UserID: userID, ListID: listID, IsOwner: owner, IsEditable: editable}
	if err := db.Relationships().Save(context.Background(), rel); err != nil {
		t.Fatalf("failed to save test relationship: %v", err)
	}
	return rel
}
