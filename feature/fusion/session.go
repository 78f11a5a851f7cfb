package fusion

import (
	"sync"

	"datafusion/core/merge"
	"datafusion/core/schema"
	"datafusion/core/table"
	"datafusion/core/transform"
)

// Session holds the per-client workspace: loaded files, the last
// merge and the transformation pipeline. Original is the merge result
// before any transformation; Current is Original with the step list
// applied.
type Session struct {
	Files    *table.FileSet
	Spec     merge.Spec
	Mapping  *schema.Mapping
	Original *table.Table
	Current  *table.Table
	Steps    []transform.Step
}

func newSession() *Session {
	return &Session{Files: table.NewFileSet()}
}

// Reset drops everything the session holds.
func (s *Session) Reset() {
	*s = *newSession()
}

// ClearMerge drops the merge result and pipeline, keeping the loaded
// files. Called when the file set changes so a stale merge never
// survives its inputs.
func (s *Session) ClearMerge() {
	s.Mapping = nil
	s.Original = nil
	s.Current = nil
	s.Steps = nil
}

// Store keeps sessions keyed by client-supplied ID. One goroutine
// mutates a session at a time: callers hold the store lock for the
// whole operation via With.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// With runs fn while holding the store lock, creating the session on
// first use.
func (st *Store) With(id string, fn func(s *Session) error) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		s = newSession()
		st.sessions[id] = s
	}
	return fn(s)
}
