package session

import (
	"sync"
	"time"
)

// Default inactivity settings.
const (
	DefaultIdleTimeout = 30 * time.Minute
	DefaultLogoutGrace = 3 * time.Second
)

// IdleWarning is shown when the idle timeout elapses.
const IdleWarning = "คุณไม่มีการใช้งานเป็นเวลานาน ระบบจะทำการออกจากระบบเพื่อความปลอดภัย"

// Inactivity forces a logout after a period without user activity. It holds a
// single deferred callback that every Touch reschedules. When the timeout
// elapses warn runs, and logout runs grace later; activity after that point
// does not cancel the logout.
type Inactivity struct {
	mu      sync.Mutex
	timeout time.Duration
	grace   time.Duration
	warn    func()
	logout  func()
	timer   *time.Timer
	fired   bool
	stopped bool
}

func NewInactivity(timeout, grace time.Duration, warn, logout func()) *Inactivity {
	if timeout <= 0 {
		timeout = DefaultIdleTimeout
	}
	if grace < 0 {
		grace = 0
	}
	return &Inactivity{timeout: timeout, grace: grace, warn: warn, logout: logout}
}

// Start arms the timer. Calling Start again behaves like Touch.
func (i *Inactivity) Start() {
	i.Touch()
}

// Touch records activity (pointer move, key press, click) and reschedules.
func (i *Inactivity) Touch() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.fired || i.stopped {
		return
	}
	if i.timer != nil {
		i.timer.Stop()
	}
	i.timer = time.AfterFunc(i.timeout, i.expire)
}

// Stop cancels any pending callback, e.g. after an explicit logout.
func (i *Inactivity) Stop() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.stopped = true
	if i.timer != nil {
		i.timer.Stop()
	}
}

// Fired reports whether the idle logout has been triggered.
func (i *Inactivity) Fired() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.fired
}

func (i *Inactivity) expire() {
	i.mu.Lock()
	if i.fired || i.stopped {
		i.mu.Unlock()
		return
	}
	i.fired = true
	i.mu.Unlock()

	if i.warn != nil {
		i.warn()
	}
	time.AfterFunc(i.grace, func() {
		if i.logout != nil {
			i.logout()
		}
	})
}
