// Package notify carries the short user-facing messages (toasts) produced
// while handling a cart or checkout action.
package notify

import "sync"

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
)

type Notification struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

type Notifier interface {
	Notify(kind Kind, message string)
}

// Recorder keeps every notification in arrival order.
type Recorder struct {
	mu   sync.Mutex
	list []Notification
}

func (r *Recorder) Notify(kind Kind, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.list = append(r.list, Notification{Kind: kind, Message: message})
}

func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.list))
	copy(out, r.list)
	return out
}

// Last returns the most recent notification, if any.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.list) == 0 {
		return Notification{}, false
	}
	return r.list[len(r.list)-1], true
}

type discard struct{}

func (discard) Notify(Kind, string) {}

// Discard drops everything.
var Discard Notifier = discard{}
