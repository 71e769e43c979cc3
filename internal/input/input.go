// Package input turns a raw terminal byte stream into per-frame key state.
package input

import (
	"io"
	"sync/atomic"
	"time"
)

// keyHoldDuration is how long a key counts as held after its last byte.
// Terminals send repeats, not key-up events, so a short hold window lets
// held keys and combinations register every frame.
const keyHoldDuration = 30 * time.Millisecond

// Input is the state of the keyboard for one frame.
type Input struct {
	Quit  bool
	Left  bool
	Right bool
	Up    bool
	Down  bool
	Fire  bool // space
	Enter bool
	Pause bool
	Auto  bool // toggles automatic removal

	// Pressed holds the raw bytes read this frame. Any byte counts as
	// activity for inactivity tracking.
	Pressed []byte
}

// Key identifies a logical key.
type Key int

const (
	KeyNone Key = iota
	KeyQuit
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyFire
	KeyEnter
	KeyPause
	KeyAuto
	numKeys
)

// keyState holds the last time each key was seen.
type keyState [numKeys]time.Time

// Stream delivers input bytes read in a goroutine and tracks key state.
type Stream struct {
	ch     chan byte
	state  keyState
	closed atomic.Bool
}

// StartStream spawns a goroutine that reads r until it fails.
func StartStream(r io.ByteReader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				s.closed.Store(true)
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Closed reports whether the reader has been exhausted and every byte
// delivered.
func (s *Stream) Closed() bool {
	return s.closed.Load() && len(s.ch) == 0
}

// ReadInput drains every byte available on the stream without blocking and
// returns the resulting key state.
func ReadInput(s *Stream) Input {
	var buf []byte
drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}
	return s.apply(buf, time.Now())
}

// ResetKeyInput forgets held keys, so a key that started the next screen
// does not also act on it.
func ResetKeyInput(s *Stream) {
	s.state = keyState{}
}

func (s *Stream) apply(buf []byte, now time.Time) Input {
	for _, k := range Parse(buf) {
		s.state[k] = now
	}
	held := func(k Key) bool {
		return !s.state[k].IsZero() && now.Sub(s.state[k]) < keyHoldDuration
	}
	return Input{
		Quit:    held(KeyQuit),
		Left:    held(KeyLeft),
		Right:   held(KeyRight),
		Up:      held(KeyUp),
		Down:    held(KeyDown),
		Fire:    held(KeyFire),
		Enter:   held(KeyEnter),
		Pause:   held(KeyPause),
		Auto:    held(KeyAuto),
		Pressed: buf,
	}
}

// Parse maps raw bytes to keys. CSI arrow sequences (ESC [ A..D) are
// recognized; unknown bytes are dropped.
func Parse(buf []byte) []Key {
	var keys []Key
	for i := 0; i < len(buf); i++ {
		if buf[i] == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			if k := arrowKey(buf[i+2]); k != KeyNone {
				keys = append(keys, k)
				i += 2
				continue
			}
		}
		if k := byteKey(buf[i]); k != KeyNone {
			keys = append(keys, k)
		}
	}
	return keys
}

func arrowKey(b byte) Key {
	switch b {
	case 'A':
		return KeyUp
	case 'B':
		return KeyDown
	case 'C':
		return KeyRight
	case 'D':
		return KeyLeft
	}
	return KeyNone
}

func byteKey(b byte) Key {
	switch b {
	case 'q', 'Q', '\x03': // ctrl-c arrives as a byte in raw mode
		return KeyQuit
	case 'a', 'A', 'h', 'H':
		return KeyLeft
	case 'd', 'D', 'l', 'L':
		return KeyRight
	case 'w', 'W', 'k', 'K':
		return KeyUp
	case 's', 'S', 'j', 'J':
		return KeyDown
	case ' ':
		return KeyFire
	case '\n', '\r':
		return KeyEnter
	case 'p', 'P':
		return KeyPause
	case 'x', 'X':
		return KeyAuto
	}
	return KeyNone
}
