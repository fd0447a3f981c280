package forms

import (
	"sync"
	"time"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Toast is a transient message. It disappears once ExpiresAt passes.
type Toast struct {
	ID        int       `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Notices holds a form's toasts and its load-failure banner. The banner
// stays until a successful load clears it.
type Notices struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	nextID int
	toasts []Toast
	banner string
}

// NewNotices creates a notice set whose toasts live for ttl. A nil now uses
// time.Now.
func NewNotices(ttl time.Duration, now func() time.Time) *Notices {
	if now == nil {
		now = time.Now
	}
	return &Notices{ttl: ttl, now: now}
}

// Toast adds a message and returns its id.
func (n *Notices) Toast(level Level, message string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.nextID++
	n.toasts = append(n.toasts, Toast{
		ID:        n.nextID,
		Level:     level,
		Message:   message,
		ExpiresAt: n.now().Add(n.ttl),
	})
	return n.nextID
}

// Dismiss removes a toast before it expires.
func (n *Notices) Dismiss(id int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, t := range n.toasts {
		if t.ID == id {
			n.toasts = append(n.toasts[:i], n.toasts[i+1:]...)
			return
		}
	}
}

// Toasts returns the live toasts, dropping expired ones.
func (n *Notices) Toasts() []Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	now := n.now()
	live := n.toasts[:0]
	for _, t := range n.toasts {
		if now.Before(t.ExpiresAt) {
			live = append(live, t)
		}
	}
	n.toasts = live
	return append([]Toast(nil), live...)
}

func (n *Notices) SetBanner(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.banner = message
}

func (n *Notices) ClearBanner() { n.SetBanner("") }

func (n *Notices) Banner() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.banner
}
