package hookrunner

import "sync"

// boundedBuffer captures subprocess output up to a byte cap. Writes past
// the cap are counted but discarded, so a chatty hook cannot blow up a
// run artifact.
type boundedBuffer struct {
	mu        sync.Mutex
	max       int64
	buf       []byte
	truncated bool
}

func newBoundedBuffer(max int64) *boundedBuffer {
	return &boundedBuffer{max: max}
}

func (b *boundedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	room := b.max - int64(len(b.buf))
	if room <= 0 {
		b.truncated = true
		return len(p), nil
	}
	if int64(len(p)) > room {
		b.buf = append(b.buf, p[:room]...)
		b.truncated = true
		return len(p), nil
	}
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *boundedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf...)
}

func (b *boundedBuffer) Truncated() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.truncated
}
