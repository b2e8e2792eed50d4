package assessment

import "fmt"

// Snapshot is the serializable form of a session's mutable state, used to
// resume an attempt after a page reload or process restart. The question
// catalog and configuration are not part of the snapshot; they are fixed
// for the attempt and re-supplied on restore.
type Snapshot struct {
	CurrentIndex int            `json:"current_index"`
	Answers      map[int]string `json:"answers,omitempty"`
	Marked       []int          `json:"marked,omitempty"`
	Locked       []int          `json:"locked,omitempty"`
	Completed    bool           `json:"completed"`
}

// Snapshot captures the current mutable state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		CurrentIndex: s.current,
		Completed:    s.completed,
	}
	for i := range s.questions {
		if s.answers[i] != nil {
			if snap.Answers == nil {
				snap.Answers = make(map[int]string)
			}
			snap.Answers[i] = *s.answers[i]
		}
		if s.marked[i] {
			snap.Marked = append(snap.Marked, i)
		}
		if s.locked[i] {
			snap.Locked = append(snap.Locked, i)
		}
	}
	return snap
}

// Restore rebuilds a session from a snapshot over the same catalog and
// configuration it was created with. Every position referenced by the
// snapshot must index a valid question; anything else fails with
// ErrOutOfRange rather than silently dropping state.
func Restore(questions []Question, cfg Config, snap Snapshot) (*Session, error) {
	s, err := NewSession(questions, cfg)
	if err != nil {
		return nil, err
	}

	if snap.CurrentIndex < 0 || snap.CurrentIndex >= len(questions) {
		return nil, fmt.Errorf("%w: snapshot current index %d", ErrOutOfRange, snap.CurrentIndex)
	}
	s.current = snap.CurrentIndex

	for pos, value := range snap.Answers {
		if pos < 0 || pos >= len(questions) {
			return nil, fmt.Errorf("%w: snapshot answer position %d", ErrOutOfRange, pos)
		}
		v := value
		s.answers[pos] = &v
	}
	for _, pos := range snap.Marked {
		if pos < 0 || pos >= len(questions) {
			return nil, fmt.Errorf("%w: snapshot marked position %d", ErrOutOfRange, pos)
		}
		s.marked[pos] = true
	}
	for _, pos := range snap.Locked {
		if pos < 0 || pos >= len(questions) {
			return nil, fmt.Errorf("%w: snapshot locked position %d", ErrOutOfRange, pos)
		}
		s.locked[pos] = true
	}
	s.completed = snap.Completed

	return s, nil
}
