package command

import (
	"testing"

	"github.com/picoredis/picoredis/internal/database"
	"github.com/picoredis/picoredis/internal/resp"
)

func newDB() *database.Database {
	return database.New(0, 1)
}

func bargs(parts ...string) [][]byte {
	out := make([][]byte, len(parts))
	for i, p := range parts {
		out[i] = []byte(p)
	}
	return out
}

func TestLookupUnknownCommand(t *testing.T) {
	if _, ok := Lookup("NOPE"); ok {
		t.Fatal("NOPE should not resolve")
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	db := newDB()
	desc, _ := Lookup("SET")
	Dispatch(db, desc, bargs("SET", "k", "v"))

	desc, _ = Lookup("GET")
	got := Dispatch(db, desc, bargs("GET", "k"))
	if got != resp.BulkString("v") {
		t.Fatalf("GET = %#v; want BulkString(v)", got)
	}
}

func TestGetMissingKeyIsNullBulk(t *testing.T) {
	db := newDB()
	desc, _ := Lookup("GET")
	got := Dispatch(db, desc, bargs("GET", "missing"))
	if got != resp.NullBulk {
		t.Fatalf("GET missing = %#v; want NullBulk", got)
	}
}

func TestAffinityMismatchIsWrongType(t *testing.T) {
	db := newDB()
	db.Hash.HSet("k", "f", "v")

	desc, _ := Lookup("GET")
	got := Dispatch(db, desc, bargs("GET", "k"))
	e, ok := got.(*resp.Error)
	if !ok || e.Text != resp.ErrWrongType {
		t.Fatalf("GET on hash key = %#v; want WRONGTYPE", got)
	}
}

func TestIncrOnMissingKeyStartsAtZero(t *testing.T) {
	db := newDB()
	desc, _ := Lookup("INCR")
	got := Dispatch(db, desc, bargs("INCR", "counter"))
	if got != resp.Integer(1) {
		t.Fatalf("INCR on missing key = %#v; want Integer(1)", got)
	}
}

func TestIncrOnNonIntegerValue(t *testing.T) {
	db := newDB()
	db.String.Set("k", "not-a-number")
	desc, _ := Lookup("INCR")
	got := Dispatch(db, desc, bargs("INCR", "k"))
	e, ok := got.(*resp.Error)
	if !ok || e.Text != resp.ErrNotInteger {
		t.Fatalf("INCR on non-integer = %#v; want not-an-integer error", got)
	}
}

func TestAppendReturnsNewLength(t *testing.T) {
	db := newDB()
	desc, _ := Lookup("APPEND")
	Dispatch(db, desc, bargs("APPEND", "k", "foo"))
	got := Dispatch(db, desc, bargs("APPEND", "k", "bar"))
	if got != resp.Integer(6) {
		t.Fatalf("APPEND = %#v; want Integer(6)", got)
	}
}

func TestMSetWrongTypeAppliesNoPairs(t *testing.T) {
	db := newDB()
	db.Hash.HSet("h", "f", "v")

	desc, _ := Lookup("MSET")
	got := Dispatch(db, desc, bargs("MSET", "a", "1", "h", "2", "b", "3"))
	if _, ok := got.(*resp.Error); !ok {
		t.Fatalf("MSET touching a hash key = %#v; want WRONGTYPE error", got)
	}
	if db.String.Contains("a") {
		t.Fatal("MSET should not have applied the pair before the conflicting key")
	}
	if db.String.Contains("b") {
		t.Fatal("MSET should not have applied pairs after the conflicting key")
	}
}

func TestMGetMixesMissingAndWrongType(t *testing.T) {
	db := newDB()
	db.String.Set("a", "1")
	db.Hash.HSet("h", "f", "v")

	desc, _ := Lookup("MGET")
	got := Dispatch(db, desc, bargs("MGET", "a", "missing", "h"))
	arr, ok := got.(resp.Array)
	if !ok || len(arr) != 3 {
		t.Fatalf("MGET = %#v; want 3-element array", got)
	}
	if arr[0] != resp.BulkString("1") || arr[1] != resp.NullBulk || arr[2] != resp.NullBulk {
		t.Fatalf("MGET elements = %#v", arr)
	}
}

func TestSAddCountsOnlyNewMembers(t *testing.T) {
	db := newDB()
	desc, _ := Lookup("SADD")
	Dispatch(db, desc, bargs("SADD", "s", "a", "b"))
	got := Dispatch(db, desc, bargs("SADD", "s", "b", "c"))
	if got != resp.Integer(1) {
		t.Fatalf("SADD repeat = %#v; want Integer(1)", got)
	}
}

func TestLRangeNegativeIndices(t *testing.T) {
	db := newDB()
	rpush, _ := Lookup("RPUSH")
	Dispatch(db, rpush, bargs("RPUSH", "l", "a", "b", "c"))

	lrange, _ := Lookup("LRANGE")
	got := Dispatch(db, lrange, bargs("LRANGE", "l", "-2", "-1"))
	arr, ok := got.(resp.Array)
	if !ok || len(arr) != 2 || arr[0] != resp.BulkString("b") || arr[1] != resp.BulkString("c") {
		t.Fatalf("LRANGE -2 -1 = %#v", got)
	}
}

func TestDelAcrossTypes(t *testing.T) {
	db := newDB()
	db.List.LPush("l", "x")
	desc, _ := Lookup("DEL")
	got := Dispatch(db, desc, bargs("DEL", "l"))
	if got != resp.Integer(1) {
		t.Fatalf("DEL = %#v; want Integer(1)", got)
	}
	if db.Exists("l") {
		t.Fatal("DEL should have removed the list key")
	}
}

func TestArityRejectsShortSet(t *testing.T) {
	desc, _ := Lookup("SET")
	if desc.Arity(2) {
		t.Fatal("SET should require exactly 3 arguments")
	}
}

func TestArityAcceptsVariadicMSet(t *testing.T) {
	desc, _ := Lookup("MSET")
	if desc.Arity(2) || !desc.Arity(3) || desc.Arity(4) || !desc.Arity(5) {
		t.Fatal("MSET arity should require an odd count >= 3")
	}
}

func TestIsControlCommands(t *testing.T) {
	for _, name := range []string{"MULTI", "EXEC", "DISCARD"} {
		if !IsControl(name) {
			t.Fatalf("%s should be a control command", name)
		}
	}
	for _, name := range []string{"SELECT", "COMMAND", "GET"} {
		if IsControl(name) {
			t.Fatalf("%s should not be a control command", name)
		}
	}
}
