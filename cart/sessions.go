package cart

import "sync"

// Sessions serialises work on the same cart key so concurrent requests from
// one browser apply their mutations one at a time.
type Sessions struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewSessions() *Sessions {
	return &Sessions{locks: make(map[string]*sessionLock)}
}

// Lock blocks until key is free and returns the matching unlock func.
func (s *Sessions) Lock(key string) func() {
	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &sessionLock{}
		s.locks[key] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, key)
		}
		s.mu.Unlock()
	}
}

func Key(session string) string {
	return "cart:" + session
}
