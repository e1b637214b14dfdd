package vertexdata

import (
	"testing"

	"github.com/distributed-ktruss/pkg/graph"
)

func loc(label uint64) graph.Locator {
	return graph.Locator{Label: label}
}

func TestDefaultsAndSet(t *testing.T) {
	d := NewWithDefault("round", uint32(1))
	if got := d.Get(loc(5)); got != 1 {
		t.Fatalf("unwritten entry = %d, want default 1", got)
	}
	d.Set(loc(5), 9)
	if got := d.Get(loc(5)); got != 9 {
		t.Fatalf("written entry = %d, want 9", got)
	}
	if got := d.Get(loc(6)); got != 1 {
		t.Fatalf("other entry = %d, want default 1", got)
	}
	if d.Len() != 1 {
		t.Fatalf("Len = %d, want 1", d.Len())
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	d := New[bool]("alive")
	d.Set(loc(1), true)
	d.Set(loc(2), true)
	d.Reset()
	if d.Len() != 0 {
		t.Fatalf("Len after reset = %d, want 0", d.Len())
	}
	if d.Get(loc(1)) {
		t.Fatal("entry survived reset")
	}
}

func TestZeroValueDefault(t *testing.T) {
	d := New[uint32]("in_degree")
	if got := d.Get(loc(3)); got != 0 {
		t.Fatalf("zero default = %d", got)
	}
	d.Set(loc(3), d.Get(loc(3))+1)
	d.Set(loc(3), d.Get(loc(3))+1)
	if got := d.Get(loc(3)); got != 2 {
		t.Fatalf("increment chain = %d, want 2", got)
	}
}
