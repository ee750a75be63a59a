package condition

import (
	"reflect"
	"testing"
)

func TestStateAssertRevoke(t *testing.T) {
	s := NewState()
	var changes []string
	s.Watch(func(name string) { changes = append(changes, name) })

	if _, ok := s.Count("A"); ok {
		t.Fatalf("A must be undefined before declaration")
	}
	s.Declare("A")
	if n, ok := s.Count("A"); !ok || n != 0 {
		t.Fatalf("declared A = %d ok=%v, want 0 true", n, ok)
	}

	s.AssertCondition("A")
	s.AssertCondition("A")
	if !s.Active("A") {
		t.Fatalf("A should be active")
	}
	if !s.RevokeCondition("A") {
		t.Fatalf("first revoke should succeed")
	}
	if !s.Active("A") {
		t.Fatalf("A should stay active while another source asserts it")
	}
	if !s.RevokeCondition("A") {
		t.Fatalf("second revoke should succeed")
	}
	if s.Active("A") {
		t.Fatalf("A should be inactive after balanced revokes")
	}
	if want := []string{"A", "A", "A", "A"}; !reflect.DeepEqual(changes, want) {
		t.Fatalf("changes = %v, want %v", changes, want)
	}
}

func TestStateRevokeUnderflow(t *testing.T) {
	s := NewState()
	notified := 0
	s.Watch(func(string) { notified++ })

	if s.RevokeCondition("A") {
		t.Fatalf("revoking at zero must report false")
	}
	if n, _ := s.Count("A"); n != 0 {
		t.Fatalf("count must never go negative, got %d", n)
	}
	if s.Underflows() != 1 {
		t.Fatalf("underflows = %d, want 1", s.Underflows())
	}
	if notified != 0 {
		t.Fatalf("underflow must not notify watchers")
	}

	s.AssertCondition("A")
	if n, _ := s.Count("A"); n != 1 {
		t.Fatalf("count after assert = %d, want 1", n)
	}
}

func TestStateNames(t *testing.T) {
	s := NewState()
	s.Declare("b", "a")
	s.AssertCondition("c")
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(s.Names(), want) {
		t.Fatalf("Names() = %v, want %v", s.Names(), want)
	}
}
