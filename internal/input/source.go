package input

import (
	"sync"

	"github.com/1broseidon/framewm/internal/event"
)

// Source is the host's raw input. Poll calls drain everything queued since
// the previous call.
type Source interface {
	PollKeys() []event.KeyEvent
	PollMouse() []event.MouseEvent
	Pointer() (x, y int)
}

// Queue is a Source fed by host reader goroutines and drained by the owner.
type Queue struct {
	mu     sync.Mutex
	keys   []event.KeyEvent
	mouse  []event.MouseEvent
	px, py int
}

var _ Source = (*Queue)(nil)

func (q *Queue) PushKey(e event.KeyEvent) {
	q.mu.Lock()
	q.keys = append(q.keys, e)
	q.mu.Unlock()
}

// PushMouse queues a button transition and moves the pointer to it.
func (q *Queue) PushMouse(e event.MouseEvent) {
	q.mu.Lock()
	q.mouse = append(q.mouse, e)
	q.px, q.py = e.X, e.Y
	q.mu.Unlock()
}

// MoveTo records pointer motion without a button transition.
func (q *Queue) MoveTo(x, y int) {
	q.mu.Lock()
	q.px, q.py = x, y
	q.mu.Unlock()
}

func (q *Queue) PollKeys() []event.KeyEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.keys
	q.keys = nil
	return out
}

func (q *Queue) PollMouse() []event.MouseEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.mouse
	q.mouse = nil
	return out
}

func (q *Queue) Pointer() (int, int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.px, q.py
}
