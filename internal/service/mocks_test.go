package service

// Hand-written in-memory mocks for the repository interfaces. The services
// only see interfaces, so swapping SQLite for these maps is all the test
// setup there is. Each mock stores copies, never the caller's pointers, so
// tests can't accidentally mutate stored state through a returned value.

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/tanvir/listhub/internal/apperror"
	"github.com/tanvir/listhub/internal/model"
	"github.com/tanvir/listhub/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// --- users ---

type mockUserRepo struct {
	users  map[string]*model.User
	nextID int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperror.Conflict("user", user.Email)
		}
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (m *mockUserRepo) MarkEmailVerified(_ context.Context, id string) error {
	u, ok := m.users[id]
	if !ok {
		return apperror.NotFound("user", id)
	}
	u.EmailVerified = true
	return nil
}

// --- lists ---

type mockListRepo struct {
	lists  map[string]*model.List
	nextID int
}

func newMockListRepo() *mockListRepo {
	return &mockListRepo{lists: make(map[string]*model.List)}
}

func (m *mockListRepo) Create(_ context.Context, list *model.List) error {
	m.nextID++
	list.ID = fmt.Sprintf("list-%d", m.nextID)
	stored := *list
	m.lists[list.ID] = &stored
	return nil
}

func (m *mockListRepo) GetByID(_ context.Context, id string) (*model.List, error) {
	l, ok := m.lists[id]
	if !ok {
		return nil, apperror.NotFound("list", id)
	}
	result := *l
	return &result, nil
}

func (m *mockListRepo) ExistsByID(_ context.Context, id string) (bool, error) {
	_, ok := m.lists[id]
	return ok, nil
}

func (m *mockListRepo) ListAll(_ context.Context, opts repository.ListOptions) ([]model.List, error) {
	result := make([]model.List, 0, len(m.lists))
	for _, l := range m.lists {
		result = append(result, *l)
	}
	return paginate(result, opts), nil
}

func (m *mockListRepo) ListByIDs(_ context.Context, ids []string, opts repository.ListOptions) ([]model.List, error) {
	result := make([]model.List, 0, len(ids))
	for _, id := range ids {
		if l, ok := m.lists[id]; ok {
			result = append(result, *l)
		}
	}
	return paginate(result, opts), nil
}

func (m *mockListRepo) Update(_ context.Context, list *model.List) error {
	if _, ok := m.lists[list.ID]; !ok {
		return apperror.NotFound("list", list.ID)
	}
	stored := *list
	m.lists[list.ID] = &stored
	return nil
}

func (m *mockListRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.lists[id]; !ok {
		return apperror.NotFound("list", id)
	}
	delete(m.lists, id)
	return nil
}

func paginate(lists []model.List, opts repository.ListOptions) []model.List {
	if opts.Offset >= len(lists) {
		return []model.List{}
	}
	lists = lists[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(lists) {
		lists = lists[:opts.Limit]
	}
	return lists
}

// --- items ---

type mockItemRepo struct {
	items  map[string]*model.Item
	nextID int
}

func newMockItemRepo() *mockItemRepo {
	return &mockItemRepo{items: make(map[string]*model.Item)}
}

func (m *mockItemRepo) Create(_ context.Context, item *model.Item) error {
	m.nextID++
	item.ID = fmt.Sprintf("item-%d", m.nextID)
	stored := *item
	m.items[item.ID] = &stored
	return nil
}

func (m *mockItemRepo) GetByID(_ context.Context, id string) (*model.Item, error) {
	i, ok := m.items[id]
	if !ok {
		return nil, apperror.NotFound("item", id)
	}
	result := *i
	return &result, nil
}

func (m *mockItemRepo) GetByListAndID(_ context.Context, listID, id string) (*model.Item, error) {
	i, ok := m.items[id]
	if !ok || i.ListID != listID {
		return nil, apperror.NotFound("item", id)
	}
	result := *i
	return &result, nil
}

func (m *mockItemRepo) List(_ context.Context, listID string, filter repository.ItemFilter, opts repository.ListOptions) ([]model.Item, error) {
	result := make([]model.Item, 0)
	for _, i := range m.items {
		if i.ListID != listID {
			continue
		}
		if filter.Status != "" && i.Status != filter.Status {
			continue
		}
		if filter.DueDateFrom != nil && (i.DueDate == nil || i.DueDate.Before(*filter.DueDateFrom)) {
			continue
		}
		if filter.DueDateTo != nil && (i.DueDate == nil || i.DueDate.After(*filter.DueDateTo)) {
			continue
		}
		result = append(result, *i)
	}
	if opts.Offset >= len(result) {
		return []model.Item{}, nil
	}
	result = result[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(result) {
		result = result[:opts.Limit]
	}
	return result, nil
}

func (m *mockItemRepo) Update(_ context.Context, item *model.Item) error {
	existing, ok := m.items[item.ID]
	if !ok || existing.ListID != item.ListID {
		return apperror.NotFound("item", item.ID)
	}
	stored := *item
	m.items[item.ID] = &stored
	return nil
}

func (m *mockItemRepo) Delete(_ context.Context, listID, id string) error {
	existing, ok := m.items[id]
	if !ok || existing.ListID != listID {
		return apperror.NotFound("item", id)
	}
	delete(m.items, id)
	return nil
}

// --- relationships ---

type mockRelRepo struct {
	rels   map[string]*model.Relationship // keyed userID + "/" + listID
	nextID int
}

func newMockRelRepo() *mockRelRepo {
	return &mockRelRepo{rels: make(map[string]*model.Relationship)}
}

func relKey(userID, listID string) string { return userID + "/" + listID }

func (m *mockRelRepo) Save(_ context.Context, rel *model.Relationship) error {
	key := relKey(rel.UserID, rel.ListID)
	if _, ok := m.rels[key]; ok {
		return apperror.Conflict("relationship", key)
	}
	m.nextID++
	rel.ID = fmt.Sprintf("rel-%d", m.nextID)
	stored := *rel
	m.rels[key] = &stored
	return nil
}

func (m *mockRelRepo) GetByUserAndList(_ context.Context, userID, listID string) (*model.Relationship, error) {
	r, ok := m.rels[relKey(userID, listID)]
	if !ok {
		return nil, apperror.NotFound("relationship", relKey(userID, listID))
	}
	result := *r
	return &result, nil
}

func (m *mockRelRepo) ExistsByUserAndList(_ context.Context, userID, listID string) (bool, error) {
	_, ok := m.rels[relKey(userID, listID)]
	return ok, nil
}

func (m *mockRelRepo) ListByUser(_ context.Context, userID string) ([]model.Relationship, error) {
	result := make([]model.Relationship, 0)
	for _, r := range m.rels {
		if r.UserID == userID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockRelRepo) ListCollaborators(_ context.Context, listID string) ([]model.Relationship, error) {
	result := make([]model.Relationship, 0)
	for _, r := range m.rels {
		if r.ListID == listID && !r.IsOwner {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockRelRepo) UpdateEditable(_ context.Context, userID, listID string, editable bool) (*model.Relationship, error) {
	r, ok := m.rels[relKey(userID, listID)]
	if !ok {
		return nil, apperror.NotFound("relationship", relKey(userID, listID))
	}
	r.IsEditable = editable
	result := *r
	return &result, nil
}

func (m *mockRelRepo) DeleteByUserAndList(_ context.Context, userID, listID string) error {
	key := relKey(userID, listID)
	if _, ok := m.rels[key]; !ok {
		return apperror.NotFound("relationship", key)
	}
	delete(m.rels, key)
	return nil
}

// --- email ---

// recordingSender captures outgoing verification emails instead of sending
// them, so tests can assert on recipients and extract the token from the link.
type recordingSender struct {
	sent []sentEmail
	fail error // when set, SendVerification returns it
}

type sentEmail struct {
	To   string
	Link string
}

func (r *recordingSender) SendVerification(_ context.Context, to, link string) error {
	if r.fail != nil {
		return r.fail
	}
	r.sent = append(r.sent, sentEmail{To: to, Link: link})
	return nil
}

// compile-time interface checks for the mocks
var (
	_ repository.UserRepository         = (*mockUserRepo)(nil)
	_ repository.ListRepository         = (*mockListRepo)(nil)
	_ repository.ItemRepository         = (*mockItemRepo)(nil)
	_ repository.RelationshipRepository = (*mockRelRepo)(nil)
)

func mustCreateUser(t *testing.T, users *mockUserRepo, name, email string) *model.User {
	t.Helper()
	u := &model.User{Name: name, Email: email, PasswordHash: "x"}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("setup: creating user: %v", err)
	}
	return u
}
