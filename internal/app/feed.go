package app

import (
	"sync"

	"quiz-results-service/internal/domain"
)

// ProgressFeed fans out attempt progress snapshots to in-process
// subscribers. Each websocket client holds one subscription keyed by the
// attempt it watches.
type ProgressFeed struct {
	mu          sync.Mutex
	subscribers map[string]map[chan domain.AttemptProgress]struct{}
}

func NewProgressFeed() *ProgressFeed {
	return &ProgressFeed{
		subscribers: make(map[string]map[chan domain.AttemptProgress]struct{}),
	}
}

// Subscribe returns a channel receiving progress updates for one attempt.
// The caller must invoke the returned cancel function to avoid leaks.
func (f *ProgressFeed) Subscribe(quizResultID string) (<-chan domain.AttemptProgress, func()) {
	ch := make(chan domain.AttemptProgress, 8)

	f.mu.Lock()
	subs, ok := f.subscribers[quizResultID]
	if !ok {
		subs = make(map[chan domain.AttemptProgress]struct{})
		f.subscribers[quizResultID] = subs
	}
	subs[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if subs, ok := f.subscribers[quizResultID]; ok {
			if _, live := subs[ch]; live {
				delete(subs, ch)
				close(ch)
			}
			if len(subs) == 0 {
				delete(f.subscribers, quizResultID)
			}
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers a snapshot to every subscriber of the attempt. Slow
// subscribers have their stale update dropped rather than blocking the
// publisher.
func (f *ProgressFeed) Publish(progress domain.AttemptProgress) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers[progress.QuizResultID] {
		select {
		case ch <- progress:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- progress
		}
	}
}
