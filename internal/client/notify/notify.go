// Package notify shows short-lived messages to the user.
package notify

import (
	"sync"
	"time"

	"socialfeed/internal/logger"
)

const DefaultDuration = 6 * time.Second

// Toaster holds at most one visible message. A newer message replaces the
// current one and restarts the hide timer.
type Toaster struct {
	duration time.Duration
	log      *logger.Logger
	onShow   func(string)

	mu      sync.Mutex
	msg     string
	visible bool
	gen     uint64
	timer   *time.Timer
}

type Option func(*Toaster)

// WithDuration overrides how long a message stays visible.
func WithDuration(d time.Duration) Option {
	return func(t *Toaster) { t.duration = d }
}

// WithLogger logs every shown message at warn level.
func WithLogger(l *logger.Logger) Option {
	return func(t *Toaster) { t.log = l }
}

// WithSink is called with every message as it is shown.
func WithSink(fn func(string)) Option {
	return func(t *Toaster) { t.onShow = fn }
}

func New(opts ...Option) *Toaster {
	t := &Toaster{duration: DefaultDuration}
	for _, o := range opts {
		o(t)
	}
	return t
}

func (t *Toaster) Show(msg string) {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.msg = msg
	t.visible = true
	t.timer = time.AfterFunc(t.duration, func() { t.hide(gen) })
	t.mu.Unlock()

	if t.log != nil {
		t.log.Warnw("toast", "message", msg)
	}
	if t.onShow != nil {
		t.onShow(msg)
	}
}

// ShowError shows err's message; nil is ignored.
func (t *Toaster) ShowError(err error) {
	if err != nil {
		t.Show(err.Error())
	}
}

func (t *Toaster) Current() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.msg, t.visible
}

// hide ignores timers of messages that were already replaced.
func (t *Toaster) hide(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen == t.gen {
		t.visible = false
	}
}
