package ordered

import (
	"reflect"
	"testing"
)

func TestPutKeepsFirstPositionLastValue(t *testing.T) {
	m := New[string, int]()
	m.Put("a", 1)
	m.Put("b", 2)
	m.Put("a", 3)

	if got := m.Keys(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("Keys() = %v; want [a b]", got)
	}
	if got := m.Values(); !reflect.DeepEqual(got, []int{3, 2}) {
		t.Fatalf("Values() = %v; want [3 2]", got)
	}
	if v, ok := m.Get("a"); !ok || v != 3 {
		t.Fatalf("Get(a) = %d, %v; want 3, true", v, ok)
	}
	if m.Len() != 2 {
		t.Fatalf("Len() = %d; want 2", m.Len())
	}
}

func TestEmptyMap(t *testing.T) {
	m := New[string, string]()
	if m.Len() != 0 || m.Keys() != nil || m.Values() != nil {
		t.Fatalf("empty map should have no keys/values")
	}
	if _, ok := m.Get("x"); ok {
		t.Fatal("Get on empty map should miss")
	}
}
