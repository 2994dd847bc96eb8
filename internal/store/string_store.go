package store

import (
	"strconv"

	"github.com/picoredis/picoredis/internal/skiplist"
)

// StringStore is the ordered key->value string container, backed by a
// skip list for lexicographic key ordering per §4.2.
type StringStore struct {
	sl *skiplist.SkipList
}

// NewString returns an empty string store. seed seeds the backing skip
// list's level-promotion RNG (§4.1).
func NewString(seed int64) *StringStore {
	return &StringStore{sl: skiplist.New(seed)}
}

func (s *StringStore) TypeTag() TypeTag { return TagString }

func (s *StringStore) Set(key, value string) {
	s.sl.Insert(key, value)
}

func (s *StringStore) Get(key string) (string, bool) {
	return s.sl.Search(key)
}

// Append appends value to the current string at key (treating a missing
// key as empty) and returns the new total length.
func (s *StringStore) Append(key, value string) int {
	cur, _ := s.sl.Search(key)
	next := cur + value
	s.sl.Insert(key, next)
	return len(next)
}

// IncrBy parses the current value as a signed decimal integer (missing key
// treated as 0), adds delta, stores the decimal result, and returns it.
func (s *StringStore) IncrBy(key string, delta int64) (int64, error) {
	cur, ok := s.sl.Search(key)
	var n int64
	if ok {
		var err error
		n, err = strconv.ParseInt(cur, 10, 64)
		if err != nil {
			return 0, ErrNotInteger
		}
	}
	n += delta
	s.sl.Insert(key, strconv.FormatInt(n, 10))
	return n, nil
}

// DecrBy is IncrBy with the delta negated.
func (s *StringStore) DecrBy(key string, delta int64) (int64, error) {
	return s.IncrBy(key, -delta)
}

// Strlen returns the length of the string at key (0 if missing).
func (s *StringStore) Strlen(key string) int {
	cur, _ := s.sl.Search(key)
	return len(cur)
}

func (s *StringStore) Contains(key string) bool {
	_, ok := s.sl.Search(key)
	return ok
}

func (s *StringStore) Erase(key string) bool {
	return s.sl.Erase(key)
}

func (s *StringStore) Size() int {
	return s.sl.Size()
}

func (s *StringStore) AllKeys() []string {
	return s.sl.Keys()
}

func (s *StringStore) MatchKeys(pattern string) []string {
	return filterKeys(s.sl.Keys(), pattern)
}

// Serialize produces one key/value record pair per entry, length-prefixed
// (see frame.go), in ascending key order.
func (s *StringStore) Serialize() []byte {
	entries := s.sl.Entries()
	buf := make([]byte, 0, 64*len(entries))
	for _, e := range entries {
		buf = putField(buf, e.Key)
		buf = putField(buf, e.Value)
	}
	return buf
}

func (s *StringStore) Deserialize(data []byte) error {
	s.sl.Clear()
	r := newFieldReader(data)
	for !r.done() {
		k, err := r.next()
		if err != nil {
			return err
		}
		v, err := r.next()
		if err != nil {
			return err
		}
		s.sl.Insert(k, v)
	}
	return nil
}
