package skiplist

import "testing"

func TestInsertSearch(t *testing.T) {
	s := New(1)
	s.Insert("b", "2")
	s.Insert("a", "1")
	s.Insert("c", "3")

	v, ok := s.Search("a")
	if !ok || v != "1" {
		t.Fatalf("Search(a) = %q, %v; want 1, true", v, ok)
	}
	v, ok = s.Search("z")
	if ok {
		t.Fatalf("Search(z) = %q, %v; want not found", v, ok)
	}
}

func TestInsertOverwrite(t *testing.T) {
	s := New(2)
	s.Insert("a", "1")
	s.Insert("a", "2")

	if s.Size() != 1 {
		t.Fatalf("Size() = %d; want 1 (overwrite, not duplicate)", s.Size())
	}
	v, ok := s.Search("a")
	if !ok || v != "2" {
		t.Fatalf("Search(a) = %q, %v; want 2, true", v, ok)
	}
}

func TestKeysOrdered(t *testing.T) {
	s := New(3)
	for _, k := range []string{"banana", "apple", "cherry", "date"} {
		s.Insert(k, k)
	}
	keys := s.Keys()
	want := []string{"apple", "banana", "cherry", "date"}
	if len(keys) != len(want) {
		t.Fatalf("Keys() = %v; want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("Keys()[%d] = %q; want %q", i, keys[i], want[i])
		}
	}
}

func TestEraseAndSize(t *testing.T) {
	s := New(4)
	s.Insert("a", "1")
	s.Insert("b", "2")

	if !s.Erase("a") {
		t.Fatal("Erase(a) = false; want true")
	}
	if s.Erase("a") {
		t.Fatal("Erase(a) second call = true; want false")
	}
	if s.Size() != 1 {
		t.Fatalf("Size() = %d; want 1", s.Size())
	}
	if _, ok := s.Search("a"); ok {
		t.Fatal("Search(a) found after erase")
	}
}

func TestClear(t *testing.T) {
	s := New(5)
	s.Insert("a", "1")
	s.Insert("b", "2")
	s.Clear()
	if s.Size() != 0 {
		t.Fatalf("Size() after Clear = %d; want 0", s.Size())
	}
	if len(s.Keys()) != 0 {
		t.Fatal("Keys() after Clear not empty")
	}
}

func TestEntries(t *testing.T) {
	s := New(6)
	s.Insert("x", "10")
	s.Insert("a", "20")
	entries := s.Entries()
	if len(entries) != 2 || entries[0].Key != "a" || entries[1].Key != "x" {
		t.Fatalf("Entries() = %+v; want ordered [a x]", entries)
	}
}
