package audio

import (
	"errors"
	"io"
	"sync"
)

// looper rewinds its decoder at end of stream so the soundtrack never ends.
type looper struct {
	dec   Decoder
	mu    sync.Mutex
	loops int
}

func (l *looper) Read(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for attempt := 0; ; attempt++ {
		n, err := l.dec.Read(p)
		if !errors.Is(err, io.EOF) {
			return n, err
		}
		if _, serr := l.dec.Seek(0, io.SeekStart); serr != nil {
			return n, serr
		}
		l.loops++
		if n > 0 {
			return n, nil
		}
		// An empty track would spin forever.
		if attempt > 0 {
			return 0, io.EOF
		}
	}
}

// Loops reports how many times the track has wrapped.
func (l *looper) Loops() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loops
}
