package container

import (
	"errors"
	"testing"
)

func TestAddEager(t *testing.T) {
	t.Parallel()

	c := New(nil)

	dep, err := c.Add("db", "db", func() (any, error) { return "instance", nil }, true)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	value, built := dep.Instance()
	if !built {
		t.Fatal("expected an eager record to be built")
	}
	if value != "instance" {
		t.Errorf("expected instance, got %v", value)
	}
}

func TestAddLazy(t *testing.T) {
	t.Parallel()

	c := New(nil)

	calls := 0
	dep, err := c.Add("db", "db", func() (any, error) {
		calls++
		return "instance", nil
	}, false)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if _, built := dep.Instance(); built {
		t.Fatal("expected a lazy record to stay unbuilt")
	}
	if calls != 0 {
		t.Fatal("build ran before Materialize")
	}

	first, err := dep.Materialize()
	if err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}
	second, _ := dep.Materialize()
	if first != second {
		t.Error("expected the memoized instance")
	}
	if calls != 1 {
		t.Errorf("expected one build, got %d", calls)
	}
}

func TestAddExistingWins(t *testing.T) {
	t.Parallel()

	c := New(nil)

	first, _ := c.Add("db", "db", func() (any, error) { return "first", nil }, true)
	second, _ := c.Add("db", "db", func() (any, error) { return "second", nil }, true)
	if first != second {
		t.Error("expected the first record for a duplicate key")
	}

	value, _ := second.Instance()
	if value != "first" {
		t.Errorf("expected the first instance, got %v", value)
	}
	if c.Size() != 1 {
		t.Errorf("expected one record, got %d", c.Size())
	}
}

func TestAddBuildError(t *testing.T) {
	t.Parallel()

	c := New(nil)

	boom := errors.New("build boom")
	if _, err := c.Add("db", "db", func() (any, error) { return nil, boom }, true); !errors.Is(err, boom) {
		t.Fatalf("expected the build error, got %v", err)
	}
	if c.Size() != 0 {
		t.Error("a failed build must not register a record")
	}
}

func TestAddReentrantDiscardsLoser(t *testing.T) {
	t.Parallel()

	var discarded []any
	c := New(func(name string, instance any) {
		discarded = append(discarded, instance)
	})

	// The build re-enters Add for the same key, the way a constructor may
	// re-enter the injector. The inner commit wins; the outer candidate is
	// handed to the discard hook.
	var inner *Dependency
	outer, err := c.Add("db", "db", func() (any, error) {
		inner, _ = c.Add("db", "db", func() (any, error) { return "inner", nil }, true)
		return "outer", nil
	}, true)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if outer != inner {
		t.Error("expected every caller to receive the winning record")
	}
	value, _ := outer.Instance()
	if value != "inner" {
		t.Errorf("expected the inner instance to win, got %v", value)
	}
	if len(discarded) != 1 || discarded[0] != "outer" {
		t.Errorf("expected the outer candidate discarded, got %v", discarded)
	}
}

func TestInstancesOrder(t *testing.T) {
	t.Parallel()

	c := New(nil)
	for _, name := range []string{"db", "repo", "service"} {
		name := name
		if _, err := c.Add(name, name, func() (any, error) { return name, nil }, true); err != nil {
			t.Fatalf("Add %s failed: %v", name, err)
		}
	}

	forward := c.Instances(false)
	if len(forward) != 3 {
		t.Fatalf("expected 3 instances, got %d", len(forward))
	}
	if forward[0].Name != "db" || forward[2].Name != "service" {
		t.Errorf("unexpected forward order: %v", forward)
	}

	reverse := c.Instances(true)
	if reverse[0].Name != "service" || reverse[2].Name != "db" {
		t.Errorf("unexpected reverse order: %v", reverse)
	}
}

func TestInstancesSkipUnbuilt(t *testing.T) {
	t.Parallel()

	c := New(nil)
	_, _ = c.Add("eager", "eager", func() (any, error) { return 1, nil }, true)
	_, _ = c.Add("lazy", "lazy", func() (any, error) { return 2, nil }, false)

	instances := c.Instances(false)
	if len(instances) != 1 {
		t.Fatalf("expected only the built record, got %v", instances)
	}
	if instances[0].Name != "eager" {
		t.Errorf("unexpected instance: %v", instances[0])
	}
}

func TestNames(t *testing.T) {
	t.Parallel()

	c := New(nil)
	_, _ = c.Add("a", "a", func() (any, error) { return nil, nil }, false)
	_, _ = c.Add("b", "b", func() (any, error) { return nil, nil }, false)

	names := c.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("unexpected names: %v", names)
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	c := New(nil)
	if _, ok := c.Get("missing"); ok {
		t.Error("expected a miss for an unknown key")
	}

	added, _ := c.Add("db", "db", func() (any, error) { return nil, nil }, false)
	got, ok := c.Get("db")
	if !ok || got != added {
		t.Error("expected the registered record")
	}
}
