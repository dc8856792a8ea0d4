package voiceService

import (
	"sync"
	"time"

	"PortfolioVoice/internal/entity"
)

const (
	sessionIdleTimeout = 30 * time.Minute
	sessionSweepSize   = 1024
)

// sessionTracker hands out a generation per command so that only the most
// recent command of a session is allowed to drive navigation.
type sessionTracker struct {
	mu       sync.Mutex
	sessions map[string]*trackedSession
	idle     time.Duration
}

type trackedSession struct {
	entity.VoiceSession
	publishMu sync.Mutex
}

func newSessionTracker(idle time.Duration) *sessionTracker {
	return &sessionTracker{
		sessions: make(map[string]*trackedSession),
		idle:     idle,
	}
}

func (t *sessionTracker) next(id string, now time.Time) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.sessions) >= sessionSweepSize {
		t.sweep(now)
	}

	sess, ok := t.sessions[id]
	if !ok {
		sess = &trackedSession{VoiceSession: entity.VoiceSession{ID: id}}
		t.sessions[id] = sess
	}
	sess.Generation++
	sess.LastActivity = now

	return sess.Generation
}

func (t *sessionTracker) isLatest(id string, generation uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	sess, ok := t.sessions[id]
	if !ok {
		return true
	}
	return sess.Generation == generation
}

// publishing runs fn with whether generation is still the latest of the
// session. Calls for one session are serialized, so an outcome judged latest
// is sent before any newer one.
func (t *sessionTracker) publishing(id string, generation uint64, fn func(latest bool)) {
	t.mu.Lock()
	sess, ok := t.sessions[id]
	t.mu.Unlock()
	if !ok {
		fn(true)
		return
	}

	sess.publishMu.Lock()
	defer sess.publishMu.Unlock()
	fn(t.isLatest(id, generation))
}

func (t *sessionTracker) sweep(now time.Time) {
	for id, sess := range t.sessions {
		if now.Sub(sess.LastActivity) > t.idle {
			delete(t.sessions, id)
		}
	}
}

func (t *sessionTracker) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sessions)
}
