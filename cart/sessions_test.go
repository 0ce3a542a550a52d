package cart

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessions_SerialisesSameKey(t *testing.T) {
	s := NewSessions()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := s.Lock(Key("abc"))
			defer unlock()
			v := counter
			counter = v + 1
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Empty(t, s.locks)
}
