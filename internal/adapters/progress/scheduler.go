package progress

import (
	"sync"
	"time"

	"github.com/trebuchet-org/treb-wallet/internal/usecase"
)

// TimerScheduler runs delayed callbacks on wall-clock timers
type TimerScheduler struct {
	mu      sync.Mutex
	pending map[*time.Timer]struct{}
	wg      sync.WaitGroup
}

// NewTimerScheduler creates a new scheduler
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{pending: make(map[*time.Timer]struct{})}
}

// AfterFunc runs f once d has elapsed
func (s *TimerScheduler) AfterFunc(d time.Duration, f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		defer s.wg.Done()
		s.mu.Lock()
		delete(s.pending, t)
		s.mu.Unlock()
		f()
	})
	s.pending[t] = struct{}{}
}

// Wait blocks until every scheduled callback has run or been stopped
func (s *TimerScheduler) Wait() {
	s.wg.Wait()
}

// Stop cancels the callbacks that have not fired yet
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for t := range s.pending {
		if t.Stop() {
			s.wg.Done()
		}
		delete(s.pending, t)
	}
}

var _ usecase.Scheduler = (*TimerScheduler)(nil)
