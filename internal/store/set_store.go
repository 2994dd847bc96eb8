package store

// SetStore is the key -> set-of-strings container. Unordered, members
// unique per §3/§4.2.
type SetStore struct {
	data map[string]map[string]struct{}
}

func NewSet() *SetStore {
	return &SetStore{data: make(map[string]map[string]struct{})}
}

func (s *SetStore) TypeTag() TypeTag { return TagSet }

// SAdd adds member to key's set, reporting whether it was newly added
// (§9 item 4: count newly-added members, not argument count).
func (s *SetStore) SAdd(key, member string) bool {
	inner, ok := s.data[key]
	if !ok {
		inner = make(map[string]struct{})
		s.data[key] = inner
	}
	if _, exists := inner[member]; exists {
		return false
	}
	inner[member] = struct{}{}
	return true
}

// SRem removes member from key's set, reporting whether it was present.
// If the set becomes empty, the key itself is removed.
func (s *SetStore) SRem(key, member string) bool {
	inner, ok := s.data[key]
	if !ok {
		return false
	}
	if _, exists := inner[member]; !exists {
		return false
	}
	delete(inner, member)
	if len(inner) == 0 {
		delete(s.data, key)
	}
	return true
}

func (s *SetStore) SMembers(key string) []string {
	inner, ok := s.data[key]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(inner))
	for m := range inner {
		out = append(out, m)
	}
	return out
}

func (s *SetStore) SIsMember(key, member string) bool {
	inner, ok := s.data[key]
	if !ok {
		return false
	}
	_, ok = inner[member]
	return ok
}

func (s *SetStore) Contains(key string) bool {
	_, ok := s.data[key]
	return ok
}

func (s *SetStore) Erase(key string) bool {
	if _, ok := s.data[key]; !ok {
		return false
	}
	delete(s.data, key)
	return true
}

func (s *SetStore) Size() int {
	return len(s.data)
}

func (s *SetStore) AllKeys() []string {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}

func (s *SetStore) MatchKeys(pattern string) []string {
	return filterKeys(s.AllKeys(), pattern)
}

// Serialize emits, per key, a length-prefixed key, a member count, then
// that many length-prefixed members.
func (s *SetStore) Serialize() []byte {
	buf := make([]byte, 0, 128*len(s.data))
	for key, inner := range s.data {
		buf = putField(buf, key)
		buf = putField(buf, itoa(len(inner)))
		for m := range inner {
			buf = putField(buf, m)
		}
	}
	return buf
}

func (s *SetStore) Deserialize(data []byte) error {
	s.data = make(map[string]map[string]struct{})
	r := newFieldReader(data)
	for !r.done() {
		key, err := r.next()
		if err != nil {
			return err
		}
		countStr, err := r.next()
		if err != nil {
			return err
		}
		n, err := atoi(countStr)
		if err != nil {
			return err
		}
		inner := make(map[string]struct{}, n)
		for i := 0; i < n; i++ {
			m, err := r.next()
			if err != nil {
				return err
			}
			inner[m] = struct{}{}
		}
		if len(inner) > 0 {
			s.data[key] = inner
		}
	}
	return nil
}
