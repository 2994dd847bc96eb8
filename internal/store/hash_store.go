package store

// HashStore is the key -> (field -> value) container.
type HashStore struct {
	data map[string]map[string]string
}

func NewHash() *HashStore {
	return &HashStore{data: make(map[string]map[string]string)}
}

func (h *HashStore) TypeTag() TypeTag { return TagHash }

func (h *HashStore) HSet(key, field, value string) {
	inner, ok := h.data[key]
	if !ok {
		inner = make(map[string]string)
		h.data[key] = inner
	}
	inner[field] = value
}

func (h *HashStore) HGet(key, field string) (string, bool) {
	inner, ok := h.data[key]
	if !ok {
		return "", false
	}
	v, ok := inner[field]
	return v, ok
}

// HDel removes field from key's hash, reporting whether it was present.
// If the hash becomes empty, the key itself is removed.
func (h *HashStore) HDel(key, field string) bool {
	inner, ok := h.data[key]
	if !ok {
		return false
	}
	if _, ok := inner[field]; !ok {
		return false
	}
	delete(inner, field)
	if len(inner) == 0 {
		delete(h.data, key)
	}
	return true
}

// FieldValue is a single field/value pair returned by HGetAll.
type FieldValue struct {
	Field string
	Value string
}

func (h *HashStore) HGetAll(key string) []FieldValue {
	inner, ok := h.data[key]
	if !ok {
		return nil
	}
	out := make([]FieldValue, 0, len(inner))
	for f, v := range inner {
		out = append(out, FieldValue{Field: f, Value: v})
	}
	return out
}

func (h *HashStore) Contains(key string) bool {
	_, ok := h.data[key]
	return ok
}

func (h *HashStore) Erase(key string) bool {
	if _, ok := h.data[key]; !ok {
		return false
	}
	delete(h.data, key)
	return true
}

func (h *HashStore) Size() int {
	return len(h.data)
}

func (h *HashStore) AllKeys() []string {
	keys := make([]string, 0, len(h.data))
	for k := range h.data {
		keys = append(keys, k)
	}
	return keys
}

func (h *HashStore) MatchKeys(pattern string) []string {
	return filterKeys(h.AllKeys(), pattern)
}

// Serialize emits, per key, a length-prefixed key record followed by a
// field count and that many field/value record pairs.
func (h *HashStore) Serialize() []byte {
	buf := make([]byte, 0, 128*len(h.data))
	for key, inner := range h.data {
		buf = putField(buf, key)
		buf = putField(buf, itoa(len(inner)))
		for f, v := range inner {
			buf = putField(buf, f)
			buf = putField(buf, v)
		}
	}
	return buf
}

func (h *HashStore) Deserialize(data []byte) error {
	h.data = make(map[string]map[string]string)
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
		inner := make(map[string]string, n)
		for i := 0; i < n; i++ {
			f, err := r.next()
			if err != nil {
				return err
			}
			v, err := r.next()
			if err != nil {
				return err
			}
			inner[f] = v
		}
		if len(inner) > 0 {
			h.data[key] = inner
		}
	}
	return nil
}
