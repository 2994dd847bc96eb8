// Package session implements per-connection state: the current database
// index and the MULTI/EXEC/DISCARD transaction buffer (§3, §4.8).
package session

// Invocation is one parsed command invocation, ready either for immediate
// dispatch or for queueing inside a transaction.
type Invocation struct {
	Name string
	Args [][]byte
}

// Session is per-connection state. It is never shared across connections
// and is owned entirely by the goroutine reading that connection (or, once
// a command is submitted, by the executor acting on the session's behalf)
// — see §3/§5.
type Session struct {
	DBIndex int
	inTx    bool
	queue   []Invocation
	dirty   bool // tx_dirty: set when a queued command fails arity (§4.8)
}

// New returns a session with db index 0 and no active transaction.
func New() *Session {
	return &Session{DBIndex: 0}
}

// InTx reports whether a MULTI is currently open.
func (s *Session) InTx() bool {
	return s.inTx
}

// BeginTx opens a transaction. Callers must first check !InTx(); this
// mirrors the spec's NORMAL->IN_TX transition (§4.8) and does not itself
// enforce the no-nesting invariant so MULTI's handler can produce the
// right RESP error text.
func (s *Session) BeginTx() {
	s.inTx = true
	s.queue = nil
	s.dirty = false
}

// Enqueue appends inv to the transaction queue.
func (s *Session) Enqueue(inv Invocation) {
	s.queue = append(s.queue, inv)
}

// MarkDirty flags the current transaction as aborted-on-EXEC (§4.8: an
// arity failure inside MULTI).
func (s *Session) MarkDirty() {
	s.dirty = true
}

// Dirty reports whether the current transaction is marked for abort.
func (s *Session) Dirty() bool {
	return s.dirty
}

// Queue returns the queued invocations in arrival order.
func (s *Session) Queue() []Invocation {
	return s.queue
}

// EndTx returns to NORMAL, discarding any queue and the dirty flag.
// Called by both EXEC (after running the queue) and DISCARD.
func (s *Session) EndTx() {
	s.inTx = false
	s.queue = nil
	s.dirty = false
}
