package command

import (
	"github.com/picoredis/picoredis/internal/database"
	"github.com/picoredis/picoredis/internal/resp"
)

// Dispatch runs a command that has a Handler (everything except SELECT,
// COMMAND, MULTI, EXEC, DISCARD — the executor handles those itself) against db.
// Arity has already been checked by the caller; Dispatch still performs the
// generic single-key affinity check before calling the descriptor's
// Handler, per §4.3's "affinity mismatch at execution -> WRONGTYPE".
func Dispatch(db *database.Database, desc Descriptor, args [][]byte) resp.Reply {
	if desc.Affinity != "" && desc.KeyArg >= 0 && desc.KeyArg < len(args) {
		key := string(args[desc.KeyArg])
		if tag, ok := db.TypeOf(key); ok && tag != desc.Affinity {
			return wrongType()
		}
	}
	return desc.Handler(db, args)
}
