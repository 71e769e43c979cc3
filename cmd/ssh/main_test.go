package main

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizeTracker(t *testing.T) {
	s := newSizeTracker(80, 24)
	w, h, err := s.getSize()
	assert.NoError(t, err)
	assert.Equal(t, 80, w)
	assert.Equal(t, 24, h)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.update(100+i, 40)
			_, _, _ = s.getSize()
		}()
	}
	wg.Wait()

	s.update(120, 50)
	w, h, _ = s.getSize()
	assert.Equal(t, 120, w)
	assert.Equal(t, 50, h)
}
