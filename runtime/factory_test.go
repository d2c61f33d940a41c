package runtime

import (
	"reflect"
	"testing"
)

func factoryPtr(f Factory) uintptr {
	return reflect.ValueOf(f).Pointer()
}

func TestFactories_FirstWriterWins(t *testing.T) {
	table := NewFactories()

	var ran string
	first := func(c *Context) error { ran = "first"; return nil }
	second := func(c *Context) error { ran = "second"; return nil }

	if !table.Register("a.js", first) {
		t.Fatal("first Register should store")
	}
	if table.Register("a.js", second) {
		t.Fatal("second Register should be ignored")
	}

	f, ok := table.Lookup("a.js")
	if !ok {
		t.Fatal("Lookup failed")
	}
	if err := f(nil); err != nil {
		t.Fatalf("factory: %v", err)
	}
	if ran != "first" {
		t.Errorf("ran %q factory, want first", ran)
	}
}

func TestFactories_SharedAliases(t *testing.T) {
	table := NewFactories()
	shared := func(c *Context) error { return nil }

	e := Shared("a.js", shared, "b.js", "c.js")
	if !e.Shared() {
		t.Fatal("entry should report aliases")
	}
	if n := table.RegisterEntry(e); n != 3 {
		t.Fatalf("RegisterEntry stored %d ids, want 3", n)
	}

	fa, _ := table.Lookup("a.js")
	fb, _ := table.Lookup("b.js")
	fc, _ := table.Lookup("c.js")
	if factoryPtr(fa) != factoryPtr(fb) || factoryPtr(fb) != factoryPtr(fc) {
		t.Error("aliases do not resolve to the identical factory")
	}
}

func TestFactories_SharedKeepsExistingAlias(t *testing.T) {
	table := NewFactories()
	existing := func(c *Context) error { return nil }
	shared := func(c *Context) error { return nil }

	table.Register("b.js", existing)
	if n := table.RegisterEntry(Shared("a.js", shared, "b.js")); n != 1 {
		t.Fatalf("stored %d ids, want 1", n)
	}

	fb, _ := table.Lookup("b.js")
	if factoryPtr(fb) != factoryPtr(existing) {
		t.Error("alias overwrote an existing factory")
	}
	fa, _ := table.Lookup("a.js")
	if factoryPtr(fa) != factoryPtr(shared) {
		t.Error("primary id not registered")
	}
}

func TestFactories_InstallRemove(t *testing.T) {
	table := NewFactories()
	f := func(c *Context) error { return nil }

	n := table.Install(Contents{
		Single("a.js", f),
		Shared("b.js", f, "c.js"),
		Single("a.js", f),
	})
	if n != 3 {
		t.Errorf("Install stored %d ids, want 3", n)
	}
	if ids := table.IDs(); !reflect.DeepEqual(ids, []string{"a.js", "b.js", "c.js"}) {
		t.Errorf("IDs = %v", ids)
	}

	table.Remove("a.js", "c.js")
	if table.Len() != 1 {
		t.Errorf("Len = %d, want 1", table.Len())
	}
	if _, ok := table.Lookup("a.js"); ok {
		t.Error("removed factory still present")
	}
}

func TestEntry_IDs(t *testing.T) {
	e := Single("a.js", nil)
	if e.Shared() {
		t.Error("single entry reports aliases")
	}
	if ids := e.IDs(); !reflect.DeepEqual(ids, []string{"a.js"}) {
		t.Errorf("IDs = %v", ids)
	}
}
