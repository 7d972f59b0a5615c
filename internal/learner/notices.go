package learner

import (
	"sync"

	"github.com/ashureev/markup-labs/internal/domain"
)

// noticeRing is a bounded FIFO of notices. When full, the oldest notice
// is dropped to make room.
type noticeRing struct {
	mu      sync.Mutex
	buf     []domain.Notice
	max     int
	dropped int
}

func newNoticeRing(size int) *noticeRing {
	if size <= 0 {
		size = defaultNoticeQueue
	}
	return &noticeRing{buf: make([]domain.Notice, 0, size), max: size}
}

func (r *noticeRing) push(n domain.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.buf) == r.max {
		copy(r.buf, r.buf[1:])
		r.buf = r.buf[:len(r.buf)-1]
		r.dropped++
	}
	r.buf = append(r.buf, n)
}

// drain returns queued notices oldest first and empties the ring.
func (r *noticeRing) drain() []domain.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Notice, len(r.buf))
	copy(out, r.buf)
	r.buf = r.buf[:0]
	return out
}

func (r *noticeRing) droppedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}
