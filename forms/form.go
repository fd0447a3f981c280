// Package forms implements the create/edit/delete state machine shared by
// the header, inspection, style media and media link forms.
package forms

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"floorwatch/api"
)

var (
	ErrBusy         = errors.New("another save or delete is in progress")
	ErrNotConfirmed = errors.New("delete was not confirmed")
	ErrUnsupported  = errors.New("operation not supported")
)

type Mode int

const (
	ModeCreate Mode = iota
	ModeEditing
)

func (m Mode) String() string {
	if m == ModeEditing {
		return "editing"
	}
	return "create"
}

// Record is anything a form edits.
type Record interface {
	RecordID() string
}

// Store is the backend a form reads and writes through.
type Store[T Record] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, record T) (*T, error)
	Update(ctx context.Context, id string, record T) (*T, error)
	Delete(ctx context.Context, id string) error
}

// Guard vets a new record against the loaded rows before it is created.
// A non-nil error blocks the write and is shown to the user.
type Guard[T Record] func(draft T, rows []T, editingID string) error

// Option configures a Form.
type Option[T Record] func(*Form[T])

// WithGuard runs guard before every create.
func WithGuard[T Record](guard Guard[T]) Option[T] {
	return func(f *Form[T]) { f.guard = guard }
}

// WithReloadBeforeCreate reloads the rows right before the guard runs.
func WithReloadBeforeCreate[T Record]() Option[T] {
	return func(f *Form[T]) { f.reloadBeforeCreate = true }
}

// Form is one form's state: mode, the record being edited, the loaded rows
// and the in-progress flags.
type Form[T Record] struct {
	name               string
	store              Store[T]
	notices            *Notices
	logger             *zap.Logger
	guard              Guard[T]
	reloadBeforeCreate bool

	mu        sync.Mutex
	mode      Mode
	editingID string
	draft     T
	rows      []T
	saving    bool
	deleting  bool
}

// NewForm creates a form in create mode with no rows loaded.
func NewForm[T Record](name string, store Store[T], notices *Notices, logger *zap.Logger, opts ...Option[T]) *Form[T] {
	f := &Form[T]{
		name:    name,
		store:   store,
		notices: notices,
		logger:  logger.Named("Form").With(zap.String("form", name)),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Form[T]) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

func (f *Form[T]) EditingID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.editingID
}

func (f *Form[T]) Draft() T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

func (f *Form[T]) Saving() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saving
}

func (f *Form[T]) Deleting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deleting
}

func (f *Form[T]) Notices() *Notices { return f.notices }

// Rows returns a copy of the loaded rows.
func (f *Form[T]) Rows() []T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]T(nil), f.rows...)
}

// Edit switches to editing record.
func (f *Form[T]) Edit(record T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mode = ModeEditing
	f.editingID = record.RecordID()
	f.draft = record
}

// EditAs switches to editing the record stored under id, with draft as its
// fields.
func (f *Form[T]) EditAs(id string, draft T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mode = ModeEditing
	f.editingID = id
	f.draft = draft
}

// SetDraft replaces the form fields without changing mode.
func (f *Form[T]) SetDraft(record T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = record
}

// Reset returns to create mode with empty fields.
func (f *Form[T]) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetLocked()
}

func (f *Form[T]) resetLocked() {
	var zero T
	f.mode = ModeCreate
	f.editingID = ""
	f.draft = zero
}

// Load replaces the rows from the store. A failure sets the banner; a
// success clears it.
func (f *Form[T]) Load(ctx context.Context) error {
	rows, err := f.store.List(ctx)
	if err != nil {
		if api.IsAbort(err) {
			return err
		}
		f.notices.SetBanner(api.UserMessage(err, "Failed to load "+f.name))
		f.logger.Warn("load failed", zap.Error(err))
		return err
	}
	f.mu.Lock()
	f.rows = rows
	f.mu.Unlock()
	f.notices.ClearBanner()
	return nil
}

func (f *Form[T]) begin(flag *bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saving || f.deleting {
		return false
	}
	*flag = true
	return true
}

func (f *Form[T]) finish(flag *bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	*flag = false
}

// Save creates the draft in create mode and updates the edited record in
// editing mode. On success the saved record replaces or joins the rows and
// the form resets.
func (f *Form[T]) Save(ctx context.Context) (*T, error) {
	if !f.begin(&f.saving) {
		return nil, ErrBusy
	}
	defer f.finish(&f.saving)

	f.mu.Lock()
	mode, id, draft := f.mode, f.editingID, f.draft
	f.mu.Unlock()

	if mode == ModeCreate && f.guard != nil {
		if f.reloadBeforeCreate {
			if err := f.Load(ctx); err != nil {
				return nil, err
			}
		}
		if err := f.guard(draft, f.Rows(), id); err != nil {
			f.notices.Toast(LevelError, err.Error())
			return nil, err
		}
	}

	var saved *T
	var err error
	if mode == ModeEditing {
		saved, err = f.store.Update(ctx, id, draft)
	} else {
		saved, err = f.store.Create(ctx, draft)
	}
	if err != nil {
		if !api.IsAbort(err) {
			f.notices.Toast(LevelError, api.UserMessage(err, "Failed to save "+f.name))
			f.logger.Warn("save failed", zap.String("mode", mode.String()), zap.Error(err))
		}
		return nil, err
	}

	f.mu.Lock()
	if saved != nil {
		f.upsertLocked(*saved)
	}
	f.resetLocked()
	f.mu.Unlock()

	f.notices.Toast(LevelSuccess, "Saved")
	return saved, nil
}

func (f *Form[T]) upsertLocked(record T) {
	id := record.RecordID()
	for i, r := range f.rows {
		if id != "" && r.RecordID() == id {
			f.rows[i] = record
			return
		}
	}
	f.rows = append(f.rows, record)
}

// Delete removes id after confirmation. A 404 from the store counts as
// already deleted.
func (f *Form[T]) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	if !f.begin(&f.deleting) {
		return ErrBusy
	}
	defer f.finish(&f.deleting)

	if err := f.store.Delete(ctx, id); err != nil && !api.IsNotFound(err) {
		if !api.IsAbort(err) {
			f.notices.Toast(LevelError, api.UserMessage(err, "Failed to delete "+f.name))
			f.logger.Warn("delete failed", zap.String("id", id), zap.Error(err))
		}
		return err
	}

	f.mu.Lock()
	kept := f.rows[:0]
	for _, r := range f.rows {
		if r.RecordID() != id {
			kept = append(kept, r)
		}
	}
	f.rows = kept
	if f.mode == ModeEditing && f.editingID == id {
		f.resetLocked()
	}
	f.mu.Unlock()

	f.notices.Toast(LevelSuccess, "Deleted")
	return nil
}
