package processor

import "testing"

func intsEqual(a, b int) bool { return a == b }
func zeroInt() int            { return -1 }

func TestPeekConsume(t *testing.T) {
	p := New([]int{1, 2, 3}, intsEqual, zeroInt)

	if !p.HasPeek(0) {
		t.Fatal("expected peek at start")
	}
	if got := p.Peek(0); got != 1 {
		t.Fatalf("Peek(0) = %d, want 1", got)
	}
	if got := p.Peek(2); got != 3 {
		t.Fatalf("Peek(2) = %d, want 3", got)
	}
	if got := p.Peek(5); got != -1 {
		t.Fatalf("Peek(5) = %d, want -1 (zero)", got)
	}

	if got := p.Consume(); got != 1 {
		t.Fatalf("Consume() = %d, want 1", got)
	}
	if got := p.Consume(); got != 2 {
		t.Fatalf("Consume() = %d, want 2", got)
	}
}

func TestTryConsume(t *testing.T) {
	p := New([]int{1, 2, 3}, intsEqual, zeroInt)

	if p.TryConsume(2) {
		t.Fatal("TryConsume(2) should fail when current is 1")
	}
	if !p.TryConsume(1) {
		t.Fatal("TryConsume(1) should succeed")
	}
	if got := p.Peek(0); got != 2 {
		t.Fatalf("after TryConsume, Peek(0) = %d, want 2", got)
	}
}

func TestDoUntilFind(t *testing.T) {
	p := New([]int{1, 2, 3, 9}, intsEqual, zeroInt)
	var collected []int
	found := p.DoUntilFind(9, func() {
		collected = append(collected, p.Consume())
	})
	if !found {
		t.Fatal("expected terminator to be found")
	}
	if len(collected) != 3 || collected[0] != 1 || collected[2] != 3 {
		t.Fatalf("collected = %v, want [1 2 3]", collected)
	}
	if p.HasPeek(0) {
		t.Fatal("expected cursor exhausted after terminator")
	}
}

func TestDoUntilFind_NotFound(t *testing.T) {
	p := New([]int{1, 2, 3}, intsEqual, zeroInt)
	found := p.DoUntilFind(9, func() { p.Consume() })
	if found {
		t.Fatal("expected terminator not found")
	}
}

func TestDoUntilFindSep(t *testing.T) {
	// Simulates parsing "1,2,3)" as a comma-separated list terminated by ')'.
	p := New([]int{1, -2, 2, -2, 3, 0}, intsEqual, zeroInt)
	var items []int
	sepErrors := 0
	found := p.DoUntilFindSep(0, -2, func() {
		items = append(items, p.Consume())
	}, func() { sepErrors++ })
	if !found {
		t.Fatal("expected terminator 0 to be found")
	}
	if sepErrors != 0 {
		t.Fatalf("unexpected separator errors: %d", sepErrors)
	}
	if len(items) != 3 || items[0] != 1 || items[1] != 2 || items[2] != 3 {
		t.Fatalf("items = %v, want [1 2 3]", items)
	}
}
