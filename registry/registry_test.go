package registry

import (
	"sync"
	"testing"

	"github.com/cdl-lang/go-cdl/ir"
)

func unit(name string) *ir.Unit {
	return &ir.Unit{
		Module: "test",
		Constraints: []ir.Constraint{
			{ID: ir.HashID(name), Name: name, Confidence: 1, Priority: 50},
		},
	}
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := New()
	handle := r.Register(unit("no_panic"))

	got, err := r.Get(handle)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if got.Constraints[0].Name != "no_panic" {
		t.Errorf("unexpected unit %+v", got)
	}
}

func TestRegistry_HandlesAreUnique(t *testing.T) {
	r := New()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		h := r.Register(unit("x"))
		if seen[h] {
			t.Fatalf("duplicate handle %q", h)
		}
		seen[h] = true
	}
	if r.Len() != 100 {
		t.Errorf("expected 100 units, got %d", r.Len())
	}
}

func TestRegistry_UnknownHandle(t *testing.T) {
	r := New()
	if _, err := r.Get("nope"); err == nil {
		t.Error("expected error for unknown handle")
	}
}

func TestRegistry_Remove(t *testing.T) {
	r := New()
	h := r.Register(unit("x"))
	r.Remove(h)
	if _, err := r.Get(h); err == nil {
		t.Error("expected error after removal")
	}
	if r.Len() != 0 {
		t.Errorf("expected empty registry, got %d", r.Len())
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h := r.Register(unit("c"))
			if _, err := r.Get(h); err != nil {
				t.Errorf("get after register: %v", err)
			}
		}()
	}
	wg.Wait()
	if r.Len() != 32 {
		t.Errorf("expected 32 units, got %d", r.Len())
	}
	if len(r.List()) != 32 {
		t.Errorf("expected 32 handles")
	}
}
