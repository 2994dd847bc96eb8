package executor

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/picoredis/picoredis/internal/resp"
	"github.com/picoredis/picoredis/internal/session"
)

func newTestExecutor(t *testing.T) *Executor {
	t.Helper()
	e := New(t.TempDir(), zap.NewNop())
	go e.Run(0)
	t.Cleanup(func() {
		if err := e.Shutdown(); err != nil {
			t.Fatalf("Shutdown: %v", err)
		}
	})
	return e
}

func cmd(parts ...string) [][]byte {
	out := make([][]byte, len(parts))
	for i, p := range parts {
		out[i] = []byte(p)
	}
	return out
}

func TestSetGetThroughExecutor(t *testing.T) {
	e := newTestExecutor(t)
	sess := session.New()

	if got := e.Submit(sess, cmd("SET", "k", "v")); got != resp.SimpleString("OK") {
		t.Fatalf("SET = %#v", got)
	}
	if got := e.Submit(sess, cmd("GET", "k")); got != resp.BulkString("v") {
		t.Fatalf("GET = %#v", got)
	}
}

func TestUnknownCommand(t *testing.T) {
	e := newTestExecutor(t)
	sess := session.New()
	got := e.Submit(sess, cmd("NOPE"))
	if _, ok := got.(*resp.Error); !ok {
		t.Fatalf("NOPE = %#v; want error", got)
	}
}

func TestSelectIsolatesDatabases(t *testing.T) {
	e := newTestExecutor(t)
	sess := session.New()

	e.Submit(sess, cmd("SET", "k", "db0"))
	e.Submit(sess, cmd("SELECT", "1"))
	if got := e.Submit(sess, cmd("GET", "k")); got != resp.NullBulk {
		t.Fatalf("GET in db1 = %#v; want NullBulk", got)
	}
	e.Submit(sess, cmd("SELECT", "0"))
	if got := e.Submit(sess, cmd("GET", "k")); got != resp.BulkString("db0") {
		t.Fatalf("GET back in db0 = %#v", got)
	}
}

func TestSelectOutOfRange(t *testing.T) {
	e := newTestExecutor(t)
	sess := session.New()
	got := e.Submit(sess, cmd("SELECT", "16"))
	if _, ok := got.(*resp.Error); !ok {
		t.Fatalf("SELECT 16 = %#v; want error", got)
	}
}

func TestMultiExecCommits(t *testing.T) {
	e := newTestExecutor(t)
	sess := session.New()

	if got := e.Submit(sess, cmd("MULTI")); got != resp.SimpleString("OK") {
		t.Fatalf("MULTI = %#v", got)
	}
	if got := e.Submit(sess, cmd("SET", "k", "1")); got != resp.SimpleString("QUEUED") {
		t.Fatalf("queued SET = %#v", got)
	}
	if got := e.Submit(sess, cmd("INCR", "k")); got != resp.SimpleString("QUEUED") {
		t.Fatalf("queued INCR = %#v", got)
	}

	got := e.Submit(sess, cmd("EXEC"))
	arr, ok := got.(resp.Array)
	if !ok || len(arr) != 2 {
		t.Fatalf("EXEC = %#v; want 2-element array", got)
	}
	if arr[1] != resp.Integer(2) {
		t.Fatalf("EXEC second result = %#v; want Integer(2)", arr[1])
	}

	if got := e.Submit(sess, cmd("GET", "k")); got != resp.BulkString("2") {
		t.Fatalf("GET after EXEC = %#v", got)
	}
}

func TestNestedMultiIsRejected(t *testing.T) {
	e := newTestExecutor(t)
	sess := session.New()
	e.Submit(sess, cmd("MULTI"))
	got := e.Submit(sess, cmd("MULTI"))
	if ee := asError(got); ee == nil || ee.Text != resp.ErrMultiNested {
		t.Fatalf("nested MULTI = %#v", got)
	}
}

func asError(r resp.Reply) *resp.Error {
	e, _ := r.(*resp.Error)
	return e
}

func TestExecWithoutMultiErrors(t *testing.T) {
	e := newTestExecutor(t)
	sess := session.New()
	got := e.Submit(sess, cmd("EXEC"))
	if ee := asError(got); ee == nil || ee.Text != resp.ErrExecNoMulti {
		t.Fatalf("EXEC without MULTI = %#v", got)
	}
}

func TestDiscardWithoutMultiErrors(t *testing.T) {
	e := newTestExecutor(t)
	sess := session.New()
	got := e.Submit(sess, cmd("DISCARD"))
	if ee := asError(got); ee == nil || ee.Text != resp.ErrDiscardNoMulti {
		t.Fatalf("DISCARD without MULTI = %#v", got)
	}
}

func TestArityFailureInsideMultiAbortsTransaction(t *testing.T) {
	e := newTestExecutor(t)
	sess := session.New()
	e.Submit(sess, cmd("MULTI"))
	e.Submit(sess, cmd("SET", "k", "1"))
	if got := e.Submit(sess, cmd("SET", "onlyonearg")); asError(got) == nil {
		t.Fatalf("bad arity inside MULTI = %#v; want immediate error", got)
	}
	got := e.Submit(sess, cmd("EXEC"))
	if ee := asError(got); ee == nil || ee.Text != resp.ErrExecAbort {
		t.Fatalf("EXEC after dirty tx = %#v; want EXECABORT", got)
	}
}

func TestDiscardClearsQueue(t *testing.T) {
	e := newTestExecutor(t)
	sess := session.New()
	e.Submit(sess, cmd("MULTI"))
	e.Submit(sess, cmd("SET", "k", "1"))
	if got := e.Submit(sess, cmd("DISCARD")); got != resp.SimpleString("OK") {
		t.Fatalf("DISCARD = %#v", got)
	}
	if got := e.Submit(sess, cmd("GET", "k")); got != resp.NullBulk {
		t.Fatalf("GET after DISCARD = %#v; want NullBulk (never applied)", got)
	}
}

func TestCommandReturnsEmptyArray(t *testing.T) {
	e := newTestExecutor(t)
	sess := session.New()
	got := e.Submit(sess, cmd("COMMAND"))
	arr, ok := got.(resp.Array)
	if !ok || len(arr) != 0 {
		t.Fatalf("COMMAND = %#v; want empty array", got)
	}
}

func TestPeriodicFlushTickRuns(t *testing.T) {
	e := New(t.TempDir(), zap.NewNop())
	go e.Run(5 * time.Millisecond)
	sess := session.New()
	e.Submit(sess, cmd("SET", "k", "v"))
	time.Sleep(20 * time.Millisecond)
	if err := e.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}
