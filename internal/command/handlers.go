package command

import (
	"strconv"

	"github.com/picoredis/picoredis/internal/database"
	"github.com/picoredis/picoredis/internal/resp"
	"github.com/picoredis/picoredis/internal/store"
)

func notInteger() *resp.Error { return resp.NewError(resp.ErrNotInteger) }

func wrongType() *resp.Error { return resp.NewError(resp.ErrWrongType) }

// --- string commands ---

func cmdSet(db *database.Database, args [][]byte) resp.Reply {
	db.String.Set(string(args[1]), string(args[2]))
	return resp.SimpleString("OK")
}

func cmdGet(db *database.Database, args [][]byte) resp.Reply {
	v, ok := db.String.Get(string(args[1]))
	if !ok {
		return resp.NullBulk
	}
	return resp.BulkString(v)
}

func cmdStrlen(db *database.Database, args [][]byte) resp.Reply {
	return resp.Integer(db.String.Strlen(string(args[1])))
}

func cmdAppend(db *database.Database, args [][]byte) resp.Reply {
	n := db.String.Append(string(args[1]), string(args[2]))
	return resp.Integer(n)
}

func cmdIncr(db *database.Database, args [][]byte) resp.Reply {
	n, err := db.String.IncrBy(string(args[1]), 1)
	if err != nil {
		return notInteger()
	}
	return resp.Integer(n)
}

func cmdDecr(db *database.Database, args [][]byte) resp.Reply {
	n, err := db.String.DecrBy(string(args[1]), 1)
	if err != nil {
		return notInteger()
	}
	return resp.Integer(n)
}

func cmdIncrBy(db *database.Database, args [][]byte) resp.Reply {
	delta, err := strconv.ParseInt(string(args[2]), 10, 64)
	if err != nil {
		return notInteger()
	}
	n, err := db.String.IncrBy(string(args[1]), delta)
	if err != nil {
		return notInteger()
	}
	return resp.Integer(n)
}

func cmdDecrBy(db *database.Database, args [][]byte) resp.Reply {
	delta, err := strconv.ParseInt(string(args[2]), 10, 64)
	if err != nil {
		return notInteger()
	}
	n, err := db.String.DecrBy(string(args[1]), delta)
	if err != nil {
		return notInteger()
	}
	return resp.Integer(n)
}

// cmdMSet first checks every key's existing type: if any key holds a
// non-STRING value it replies WRONGTYPE and sets none of the pairs.
// Otherwise it applies the pairs in argument order (arity already gates the
// argument count to whole key/value pairs).
func cmdMSet(db *database.Database, args [][]byte) resp.Reply {
	pairs := args[1:]
	for i := 0; i+1 < len(pairs); i += 2 {
		if tag, ok := db.TypeOf(string(pairs[i])); ok && tag != store.TagString {
			return wrongType()
		}
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		db.String.Set(string(pairs[i]), string(pairs[i+1]))
	}
	return resp.SimpleString("OK")
}

func cmdMGet(db *database.Database, args [][]byte) resp.Reply {
	out := make(resp.Array, 0, len(args)-1)
	for _, k := range args[1:] {
		key := string(k)
		if tag, ok := db.TypeOf(key); ok && tag != store.TagString {
			out = append(out, resp.NullBulk)
			continue
		}
		v, ok := db.String.Get(key)
		if !ok {
			out = append(out, resp.NullBulk)
			continue
		}
		out = append(out, resp.BulkString(v))
	}
	return out
}

// --- hash commands ---

func cmdHSet(db *database.Database, args [][]byte) resp.Reply {
	db.Hash.HSet(string(args[1]), string(args[2]), string(args[3]))
	return resp.SimpleString("OK")
}

func cmdHGet(db *database.Database, args [][]byte) resp.Reply {
	v, ok := db.Hash.HGet(string(args[1]), string(args[2]))
	if !ok {
		return resp.NullBulk
	}
	return resp.BulkString(v)
}

func cmdHDel(db *database.Database, args [][]byte) resp.Reply {
	key := string(args[1])
	removed := 0
	for _, f := range args[2:] {
		if db.Hash.HDel(key, string(f)) {
			removed++
		}
	}
	return resp.Integer(removed)
}

func cmdHGetAll(db *database.Database, args [][]byte) resp.Reply {
	fvs := db.Hash.HGetAll(string(args[1]))
	out := make(resp.Array, 0, 2*len(fvs))
	for _, fv := range fvs {
		out = append(out, resp.BulkString(fv.Field), resp.BulkString(fv.Value))
	}
	return out
}

func cmdHMSet(db *database.Database, args [][]byte) resp.Reply {
	key := string(args[1])
	pairs := args[2:]
	for i := 0; i+1 < len(pairs); i += 2 {
		db.Hash.HSet(key, string(pairs[i]), string(pairs[i+1]))
	}
	return resp.SimpleString("OK")
}

func cmdHMGet(db *database.Database, args [][]byte) resp.Reply {
	key := string(args[1])
	out := make(resp.Array, 0, len(args)-2)
	for _, f := range args[2:] {
		v, ok := db.Hash.HGet(key, string(f))
		if !ok {
			out = append(out, resp.NullBulk)
			continue
		}
		out = append(out, resp.BulkString(v))
	}
	return out
}

// --- list commands ---

// cmdLPush reports the count of elements pushed by this call, not the
// list's resulting length (§8 scenario S4; original CmdParser.h returns
// command.size() - 2).
func cmdLPush(db *database.Database, args [][]byte) resp.Reply {
	key := string(args[1])
	for _, v := range args[2:] {
		db.List.LPush(key, string(v))
	}
	return resp.Integer(len(args) - 2)
}

// cmdRPush reports the count of elements pushed by this call, not the
// list's resulting length (§8 scenario S4; original CmdParser.h returns
// command.size() - 2).
func cmdRPush(db *database.Database, args [][]byte) resp.Reply {
	key := string(args[1])
	for _, v := range args[2:] {
		db.List.RPush(key, string(v))
	}
	return resp.Integer(len(args) - 2)
}

func cmdLPop(db *database.Database, args [][]byte) resp.Reply {
	v, ok := db.List.LPop(string(args[1]))
	if !ok {
		return resp.NullBulk
	}
	return resp.BulkString(v)
}

func cmdRPop(db *database.Database, args [][]byte) resp.Reply {
	v, ok := db.List.RPop(string(args[1]))
	if !ok {
		return resp.NullBulk
	}
	return resp.BulkString(v)
}

func cmdLRange(db *database.Database, args [][]byte) resp.Reply {
	start, err := strconv.Atoi(string(args[2]))
	if err != nil {
		return notInteger()
	}
	end, err := strconv.Atoi(string(args[3]))
	if err != nil {
		return notInteger()
	}
	elems := db.List.LRange(string(args[1]), start, end)
	out := make(resp.Array, len(elems))
	for i, e := range elems {
		out[i] = resp.BulkString(e)
	}
	return out
}

// --- set commands ---

func cmdSAdd(db *database.Database, args [][]byte) resp.Reply {
	key := string(args[1])
	added := 0
	for _, m := range args[2:] {
		if db.Set.SAdd(key, string(m)) {
			added++
		}
	}
	return resp.Integer(added)
}

func cmdSRem(db *database.Database, args [][]byte) resp.Reply {
	key := string(args[1])
	removed := 0
	for _, m := range args[2:] {
		if db.Set.SRem(key, string(m)) {
			removed++
		}
	}
	return resp.Integer(removed)
}

func cmdSMembers(db *database.Database, args [][]byte) resp.Reply {
	members := db.Set.SMembers(string(args[1]))
	out := make(resp.Array, len(members))
	for i, m := range members {
		out[i] = resp.BulkString(m)
	}
	return out
}

func cmdSIsMember(db *database.Database, args [][]byte) resp.Reply {
	if db.Set.SIsMember(string(args[1]), string(args[2])) {
		return resp.Integer(1)
	}
	return resp.Integer(0)
}

// --- keyspace commands ---

func cmdDel(db *database.Database, args [][]byte) resp.Reply {
	if db.EraseKey(string(args[1])) {
		return resp.Integer(1)
	}
	return resp.Integer(0)
}

func cmdExists(db *database.Database, args [][]byte) resp.Reply {
	if db.Exists(string(args[1])) {
		return resp.Integer(1)
	}
	return resp.Integer(0)
}

func cmdKeys(db *database.Database, args [][]byte) resp.Reply {
	keys := db.Keys(string(args[1]))
	out := make(resp.Array, len(keys))
	for i, k := range keys {
		out[i] = resp.BulkString(k)
	}
	return out
}

func cmdDBSize(db *database.Database, args [][]byte) resp.Reply {
	return resp.Integer(db.DBSize())
}
