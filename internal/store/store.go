// Package store implements the four typed data containers PicoRedis's
// databases hold (string, hash, list, set) behind a common TypedStore
// capability, plus glob-style key matching for KEYS.
package store

import (
	"errors"
)

// TypeTag identifies which of the four typed stores a key lives in.
type TypeTag string

const (
	TagString TypeTag = "STRING"
	TagHash   TypeTag = "HASH"
	TagList   TypeTag = "LIST"
	TagSet    TypeTag = "SET"
)

// ErrNotInteger is returned by numeric string operations when the current
// value cannot be parsed as a signed decimal integer.
var ErrNotInteger = errors.New("value is not an integer or out of range")

// TypedStore is the capability every one of the four containers implements,
// per §4.2.
type TypedStore interface {
	TypeTag() TypeTag
	Serialize() []byte
	Deserialize([]byte) error
	AllKeys() []string
	MatchKeys(pattern string) []string
	Contains(key string) bool
	Erase(key string) bool
	Size() int
}

// MatchGlob reports whether name matches an anchored Redis-style glob
// pattern: '*' matches any run (including empty), '?' matches exactly one
// character, everything else is literal. An exact "*" is recognized by
// callers as a fast path to "return every key" (§4.2) but MatchGlob itself
// handles it correctly with no special case.
func MatchGlob(pattern, name string) bool {
	return matchGlob([]rune(pattern), []rune(name))
}

func matchGlob(pattern, name []rune) bool {
	// Standard greedy backtracking glob matcher over '*' and '?'.
	var pi, ni int
	starIdx, match := -1, 0
	for ni < len(name) {
		if pi < len(pattern) && (pattern[pi] == '?' || pattern[pi] == name[ni]) {
			pi++
			ni++
		} else if pi < len(pattern) && pattern[pi] == '*' {
			starIdx = pi
			match = ni
			pi++
		} else if starIdx != -1 {
			pi = starIdx + 1
			match++
			ni = match
		} else {
			return false
		}
	}
	for pi < len(pattern) && pattern[pi] == '*' {
		pi++
	}
	return pi == len(pattern)
}

// filterKeys returns the subset of keys matching pattern, short-circuiting
// to the full list for the literal "*" pattern.
func filterKeys(keys []string, pattern string) []string {
	if pattern == "*" {
		out := make([]string, len(keys))
		copy(out, keys)
		return out
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if MatchGlob(pattern, k) {
			out = append(out, k)
		}
	}
	return out
}
