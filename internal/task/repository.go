// Package task owns the per-user task collection and its persistence.
//
// Tasks are partitioned by owner: each user's collection lives under its own
// store key and is never visible from another user's session. Every mutation
// is a full read-modify-write of the owner's collection, committed to the
// store before the in-memory working set changes, so memory never gets ahead
// of what was durably written.
package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/session"
	"github.com/taskdeck/taskdeck/internal/store"
)

var (
	// ErrNoActiveSession indicates a task operation without a signed-in user.
	ErrNoActiveSession = errors.New("no active session")
	// ErrTaskNotFound indicates no task matches the given id.
	ErrTaskNotFound = errors.New("task not found")
	// ErrEmptyTitle indicates a title that is empty after trimming.
	ErrEmptyTitle = errors.New("task title must not be empty")
	// ErrInvalidPriority indicates a priority outside low/medium/high.
	ErrInvalidPriority = errors.New("invalid task priority")
)

// Subscriber is notified after the working set changes.
type Subscriber func()

// AddInput defines the caller-supplied fields of a new task.
type AddInput struct {
	Title       string
	Description string
	Priority    model.Priority
	Completed   bool
}

// Repository provides CRUD operations on the current user's task collection.
//
// The mutex serializes read-modify-write cycles: overlapping mutations on
// the same collection queue up instead of losing each other's writes. A
// session change swaps the namespace under the same lock, so a mutation
// started against the old namespace can never write into the new one.
type Repository struct {
	store  store.Store
	logger *slog.Logger

	mu      sync.Mutex
	owner   *model.User
	tasks   []model.Task
	loadErr error

	subMu sync.Mutex
	subs  []Subscriber
}

// NewRepository creates a Repository bound to the session manager. The
// repository follows session transitions: it loads the new user's collection
// on sign-in/restore and drops its working set on sign-out.
func NewRepository(st store.Store, sessions *session.Manager, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Repository{
		store:  st,
		logger: logger,
	}
	sessions.Subscribe(r.onSessionChange)
	return r
}

// Subscribe registers a callback invoked after every working-set change.
func (r *Repository) Subscribe(fn Subscriber) {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	r.subs = append(r.subs, fn)
}

func (r *Repository) notify() {
	r.subMu.Lock()
	subs := make([]Subscriber, len(r.subs))
	copy(subs, r.subs)
	r.subMu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// namespaceKey derives the store key for a user's task collection.
func namespaceKey(userID string) string {
	return "tasks_" + userID
}

// load reads the full collection for the owner, treating an absent key as
// an empty collection. Callers hold r.mu.
func (r *Repository) load(ctx context.Context, ownerID string) ([]model.Task, error) {
	raw, err := r.store.Get(ctx, namespaceKey(ownerID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}

	var tasks []model.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

// persist writes the full collection for the owner. Callers hold r.mu.
func (r *Repository) persist(ctx context.Context, ownerID string, tasks []model.Task) error {
	raw, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}
	if err := r.store.Set(ctx, namespaceKey(ownerID), string(raw)); err != nil {
		return fmt.Errorf("failed to write tasks: %w", err)
	}
	return nil
}

// onSessionChange swaps the namespace when the session transitions. The old
// working set is discarded before anything loads for the new user.
func (r *Repository) onSessionChange(user *model.User) {
	r.mu.Lock()
	r.owner = user
	r.tasks = nil
	r.loadErr = nil

	if user != nil {
		tasks, err := r.load(context.Background(), user.ID)
		if err != nil {
			// Kept as an error state the caller can inspect rather than
			// failing the session transition.
			r.loadErr = err
			r.logger.Error("task_load_failed", "user_id", user.ID, "error", err)
		} else {
			r.tasks = tasks
		}
	}
	r.mu.Unlock()

	r.notify()
}

// List returns a copy of the current working set.
func (r *Repository) List() []model.Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Task, len(r.tasks))
	copy(out, r.tasks)
	return out
}

// Err returns the error state from the last failed load, if any.
func (r *Repository) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadErr
}

// validate checks Task invariants on caller-supplied fields, returning the
// trimmed title and the effective priority.
func validate(title string, priority model.Priority) (string, model.Priority, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", "", ErrEmptyTitle
	}
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.IsValid() {
		return "", "", ErrInvalidPriority
	}
	return trimmed, priority, nil
}

// Add creates a task in the current user's collection, assigning id and
// timestamps, and persists the collection before returning.
func (r *Repository) Add(ctx context.Context, input AddInput) (*model.Task, error) {
	title, priority, err := validate(input.Title, input.Priority)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if r.owner == nil {
		r.mu.Unlock()
		return nil, ErrNoActiveSession
	}

	tasks, err := r.load(ctx, r.owner.ID)
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}

	now := time.Now().UTC()
	created := model.Task{
		ID:          ulid.Make().String(),
		Title:       title,
		Description: input.Description,
		Completed:   input.Completed,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	tasks = append(tasks, created)
	if err := r.persist(ctx, r.owner.ID, tasks); err != nil {
		r.mu.Unlock()
		return nil, err
	}
	r.tasks = tasks
	ownerID := r.owner.ID
	r.mu.Unlock()

	r.logger.Info("task_added", "task_id", created.ID, "user_id", ownerID)
	r.notify()

	return &created, nil
}

// Update replaces the task matching task.ID, preserving CreatedAt and
// bumping UpdatedAt. Fails with ErrTaskNotFound when no entry matches.
func (r *Repository) Update(ctx context.Context, task model.Task) (*model.Task, error) {
	title, priority, err := validate(task.Title, task.Priority)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if r.owner == nil {
		r.mu.Unlock()
		return nil, ErrNoActiveSession
	}

	tasks, err := r.load(ctx, r.owner.ID)
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}

	idx := indexOf(tasks, task.ID)
	if idx < 0 {
		r.mu.Unlock()
		return nil, ErrTaskNotFound
	}

	updated := tasks[idx]
	updated.Title = title
	updated.Description = task.Description
	updated.Completed = task.Completed
	updated.Priority = priority
	updated.UpdatedAt = time.Now().UTC()

	tasks[idx] = updated
	if err := r.persist(ctx, r.owner.ID, tasks); err != nil {
		r.mu.Unlock()
		return nil, err
	}
	r.tasks = tasks
	ownerID := r.owner.ID
	r.mu.Unlock()

	r.logger.Info("task_updated", "task_id", updated.ID, "user_id", ownerID)
	r.notify()

	return &updated, nil
}

// Delete removes the task matching id. Fails with ErrTaskNotFound when no
// entry matches.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	if r.owner == nil {
		r.mu.Unlock()
		return ErrNoActiveSession
	}

	tasks, err := r.load(ctx, r.owner.ID)
	if err != nil {
		r.mu.Unlock()
		return err
	}

	idx := indexOf(tasks, id)
	if idx < 0 {
		r.mu.Unlock()
		return ErrTaskNotFound
	}

	tasks = append(tasks[:idx], tasks[idx+1:]...)
	if err := r.persist(ctx, r.owner.ID, tasks); err != nil {
		r.mu.Unlock()
		return err
	}
	r.tasks = tasks
	ownerID := r.owner.ID
	r.mu.Unlock()

	r.logger.Info("task_deleted", "task_id", id, "user_id", ownerID)
	r.notify()

	return nil
}

// ToggleComplete flips the completed flag and bumps UpdatedAt on the task
// matching id. Fails with ErrTaskNotFound when no entry matches.
func (r *Repository) ToggleComplete(ctx context.Context, id string) (*model.Task, error) {
	r.mu.Lock()
	if r.owner == nil {
		r.mu.Unlock()
		return nil, ErrNoActiveSession
	}

	tasks, err := r.load(ctx, r.owner.ID)
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}

	idx := indexOf(tasks, id)
	if idx < 0 {
		r.mu.Unlock()
		return nil, ErrTaskNotFound
	}

	tasks[idx].Completed = !tasks[idx].Completed
	tasks[idx].UpdatedAt = time.Now().UTC()

	if err := r.persist(ctx, r.owner.ID, tasks); err != nil {
		r.mu.Unlock()
		return nil, err
	}
	r.tasks = tasks
	toggled := tasks[idx]
	r.mu.Unlock()

	r.logger.Info("task_toggled", "task_id", id, "completed", toggled.Completed)
	r.notify()

	return &toggled, nil
}

func indexOf(tasks []model.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}
