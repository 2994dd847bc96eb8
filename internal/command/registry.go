// Package command implements the command registry and dispatcher of §4.6:
// arity enforcement, type-affinity checking, and routing to the typed
// store operations of internal/store.
package command

import (
	"github.com/picoredis/picoredis/internal/database"
	"github.com/picoredis/picoredis/internal/resp"
	"github.com/picoredis/picoredis/internal/store"
)

// Handler executes a command against db (already resolved to the calling
// session's current database) and returns its reply; a *resp.Error is the
// command's user-visible wire error (§7). Persistence failures are not a
// Handler's concern — they surface from internal/executor's dbManager
// lookups, above this layer.
type Handler func(db *database.Database, args [][]byte) resp.Reply

// Descriptor is one entry of the command table in §4.6.
type Descriptor struct {
	Name     string
	Arity    func(n int) bool
	Affinity store.TypeTag // empty means ANY
	// KeyArg is the index into args of the single key this command
	// addresses, for the generic affinity check in Dispatch. -1 means the
	// command either addresses no single key (ANY-affinity keyspace
	// commands) or addresses multiple keys, in which case its own Handler
	// performs whatever affinity checking it needs.
	KeyArg int
	// Mutates is true if successful execution changes store contents,
	// used by the executor to mark a database dirty for the periodic
	// flush (§4.7, Part D item 5).
	Mutates bool
	Handler Handler
}

// controlNames are the transaction-control commands: the executor always
// runs these immediately against the session, never queueing them inside a
// MULTI (§4.8 — MULTI/EXEC/DISCARD are not themselves queueable). SELECT
// and COMMAND are NOT control commands by this definition: they queue like
// any other command inside a transaction, but still need session/dbManager
// access the generic Handler signature doesn't carry, so the executor
// dispatches them specially at execution time (immediate or at EXEC).
var controlNames = map[string]bool{
	"MULTI":   true,
	"EXEC":    true,
	"DISCARD": true,
}

// IsControl reports whether name is a transaction-control command that
// bypasses MULTI queueing entirely.
func IsControl(name string) bool {
	return controlNames[name]
}

func exactly(n int) func(int) bool {
	return func(m int) bool { return m == n }
}

func atLeast(n int) func(int) bool {
	return func(m int) bool { return m >= n }
}

func atLeastOdd(n int) func(int) bool {
	return func(m int) bool { return m >= n && m%2 == 1 }
}

func atLeastEven(n int) func(int) bool {
	return func(m int) bool { return m >= n && m%2 == 0 }
}

// registry is the immutable static command table, §4.6.
var registry = buildRegistry()

func buildRegistry() map[string]Descriptor {
	r := make(map[string]Descriptor)
	add := func(d Descriptor) { r[d.Name] = d }

	add(Descriptor{Name: "SET", Arity: exactly(3), Affinity: store.TagString, KeyArg: 1, Mutates: true, Handler: cmdSet})
	add(Descriptor{Name: "GET", Arity: exactly(2), Affinity: store.TagString, KeyArg: 1, Handler: cmdGet})
	add(Descriptor{Name: "STRLEN", Arity: exactly(2), Affinity: store.TagString, KeyArg: 1, Handler: cmdStrlen})
	add(Descriptor{Name: "INCR", Arity: exactly(2), Affinity: store.TagString, KeyArg: 1, Mutates: true, Handler: cmdIncr})
	add(Descriptor{Name: "DECR", Arity: exactly(2), Affinity: store.TagString, KeyArg: 1, Mutates: true, Handler: cmdDecr})
	add(Descriptor{Name: "APPEND", Arity: exactly(3), Affinity: store.TagString, KeyArg: 1, Mutates: true, Handler: cmdAppend})
	add(Descriptor{Name: "INCRBY", Arity: exactly(3), Affinity: store.TagString, KeyArg: 1, Mutates: true, Handler: cmdIncrBy})
	add(Descriptor{Name: "DECRBY", Arity: exactly(3), Affinity: store.TagString, KeyArg: 1, Mutates: true, Handler: cmdDecrBy})
	add(Descriptor{Name: "MSET", Arity: atLeastOdd(3), Affinity: store.TagString, KeyArg: -1, Mutates: true, Handler: cmdMSet})
	add(Descriptor{Name: "MGET", Arity: atLeast(2), Affinity: store.TagString, KeyArg: -1, Handler: cmdMGet})

	add(Descriptor{Name: "HSET", Arity: exactly(4), Affinity: store.TagHash, KeyArg: 1, Mutates: true, Handler: cmdHSet})
	add(Descriptor{Name: "HGET", Arity: exactly(3), Affinity: store.TagHash, KeyArg: 1, Handler: cmdHGet})
	add(Descriptor{Name: "HDEL", Arity: atLeast(3), Affinity: store.TagHash, KeyArg: 1, Mutates: true, Handler: cmdHDel})
	add(Descriptor{Name: "HGETALL", Arity: exactly(2), Affinity: store.TagHash, KeyArg: 1, Handler: cmdHGetAll})
	add(Descriptor{Name: "HMSET", Arity: atLeastEven(4), Affinity: store.TagHash, KeyArg: 1, Mutates: true, Handler: cmdHMSet})
	add(Descriptor{Name: "HMGET", Arity: atLeast(3), Affinity: store.TagHash, KeyArg: 1, Handler: cmdHMGet})

	add(Descriptor{Name: "LPUSH", Arity: atLeast(3), Affinity: store.TagList, KeyArg: 1, Mutates: true, Handler: cmdLPush})
	add(Descriptor{Name: "RPUSH", Arity: atLeast(3), Affinity: store.TagList, KeyArg: 1, Mutates: true, Handler: cmdRPush})
	add(Descriptor{Name: "LPOP", Arity: exactly(2), Affinity: store.TagList, KeyArg: 1, Mutates: true, Handler: cmdLPop})
	add(Descriptor{Name: "RPOP", Arity: exactly(2), Affinity: store.TagList, KeyArg: 1, Mutates: true, Handler: cmdRPop})
	add(Descriptor{Name: "LRANGE", Arity: exactly(4), Affinity: store.TagList, KeyArg: 1, Handler: cmdLRange})

	add(Descriptor{Name: "SADD", Arity: atLeast(3), Affinity: store.TagSet, KeyArg: 1, Mutates: true, Handler: cmdSAdd})
	add(Descriptor{Name: "SREM", Arity: atLeast(3), Affinity: store.TagSet, KeyArg: 1, Mutates: true, Handler: cmdSRem})
	add(Descriptor{Name: "SMEMBERS", Arity: exactly(2), Affinity: store.TagSet, KeyArg: 1, Handler: cmdSMembers})
	add(Descriptor{Name: "SISMEMBER", Arity: exactly(3), Affinity: store.TagSet, KeyArg: 1, Handler: cmdSIsMember})

	add(Descriptor{Name: "DEL", Arity: exactly(2), KeyArg: -1, Mutates: true, Handler: cmdDel})
	add(Descriptor{Name: "EXISTS", Arity: exactly(2), KeyArg: -1, Handler: cmdExists})
	add(Descriptor{Name: "KEYS", Arity: exactly(2), KeyArg: -1, Handler: cmdKeys})
	add(Descriptor{Name: "DBSIZE", Arity: exactly(1), KeyArg: -1, Handler: cmdDBSize})

	// Executor-handled commands (SELECT, COMMAND and the transaction-control
	// commands): arity only, real behavior lives in internal/executor.
	add(Descriptor{Name: "SELECT", Arity: exactly(2), KeyArg: -1})
	add(Descriptor{Name: "COMMAND", Arity: exactly(1), KeyArg: -1})
	add(Descriptor{Name: "MULTI", Arity: exactly(1), KeyArg: -1})
	add(Descriptor{Name: "EXEC", Arity: exactly(1), KeyArg: -1})
	add(Descriptor{Name: "DISCARD", Arity: exactly(1), KeyArg: -1})

	return r
}

// Lookup returns the descriptor for an already-uppercased command name.
func Lookup(name string) (Descriptor, bool) {
	d, ok := registry[name]
	return d, ok
}
