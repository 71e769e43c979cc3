package input

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	keys := Parse([]byte("a\x1b[Cq \r\x1b[Ax?\x03"))
	assert.Equal(t, []Key{KeyLeft, KeyRight, KeyQuit, KeyFire, KeyEnter, KeyUp, KeyAuto, KeyQuit}, keys)
}

func TestParseTruncatedEscape(t *testing.T) {
	assert.Empty(t, Parse([]byte("\x1b[")))
	assert.Equal(t, []Key{KeyDown}, Parse([]byte("\x1b[Zs")))
}

func TestKeyHold(t *testing.T) {
	s := &Stream{ch: make(chan byte)}
	now := time.Now()

	in := s.apply([]byte("a "), now)
	assert.True(t, in.Left)
	assert.True(t, in.Fire)
	assert.False(t, in.Right)

	in = s.apply(nil, now.Add(keyHoldDuration/2))
	assert.True(t, in.Left, "still held inside the hold window")
	assert.Empty(t, in.Pressed)

	in = s.apply([]byte("d"), now.Add(2*keyHoldDuration))
	assert.False(t, in.Left)
	assert.True(t, in.Right)
}

func TestResetKeyInput(t *testing.T) {
	s := &Stream{ch: make(chan byte)}
	now := time.Now()
	s.apply([]byte(" "), now)

	ResetKeyInput(s)
	in := s.apply(nil, now)
	assert.False(t, in.Fire)
}

func TestStreamDeliversAndCloses(t *testing.T) {
	s := StartStream(strings.NewReader("p"))

	var in Input
	require.Eventually(t, func() bool {
		in = ReadInput(s)
		return in.Pause
	}, time.Second, time.Millisecond)
	assert.Equal(t, []byte("p"), in.Pressed)

	require.Eventually(t, func() bool {
		ReadInput(s)
		return s.Closed()
	}, time.Second, time.Millisecond)
}
