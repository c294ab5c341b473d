package bot

import (
	"sync"

	"foodorder-telegram/services"
)

// frame is one entry of a chat's navigation stack. It keeps its screen state,
// so going back shows the previous screen as it was left.
type frame struct {
	screen  string
	foodID  int64
	details *services.FoodDetails
	history *services.OrderHistory
	loading bool
}

// session is the in-memory state of one chat. mu serializes user callbacks
// with completions of background loads.
type session struct {
	mu        sync.Mutex
	stack     []*frame // empty means the home screen
	messageID int      // active screen message, 0 if unknown
	active    string   // screen shown in messageID
}

func (b *Bot) session(chatID int64) *session {
	b.sessionsMu.RLock()
	s, ok := b.sessions[chatID]
	b.sessionsMu.RUnlock()
	if ok {
		return s
	}
	b.sessionsMu.Lock()
	defer b.sessionsMu.Unlock()
	if s, ok = b.sessions[chatID]; ok {
		return s
	}
	s = &session{}
	b.sessions[chatID] = s
	return s
}

func (s *session) top() *frame {
	if len(s.stack) == 0 {
		return nil
	}
	return s.stack[len(s.stack)-1]
}

func (s *session) push(f *frame) {
	s.stack = append(s.stack, f)
}

// pop drops the current screen. It reports false when already at home.
func (s *session) pop() bool {
	if len(s.stack) == 0 {
		return false
	}
	s.stack[len(s.stack)-1] = nil
	s.stack = s.stack[:len(s.stack)-1]
	return true
}

func (s *session) reset() {
	s.stack = nil
}

func (s *session) screen() string {
	if f := s.top(); f != nil {
		return f.screen
	}
	return services.ScreenHome
}

// contains reports whether f is still on the stack.
func (s *session) contains(f *frame) bool {
	for _, x := range s.stack {
		if x == f {
			return true
		}
	}
	return false
}

// showing reports whether the active screen message renders f. The language
// picker is not on the stack, so the top frame alone is not enough.
func (s *session) showing(f *frame) bool {
	return s.top() == f && s.active == f.screen
}
