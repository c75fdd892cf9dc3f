package store

import (
	"reflect"
	"testing"
)

var useNested = Define(Definition{
	ID: "nested",
	State: func() Record {
		return Record{
			"a": Record{"b": 0, "c": 2},
			"d": 3,
		}
	},
	Getters: map[string]Getter{
		"sum": func(s *Store) any {
			return s.State().Int("a", "b") + s.State().Int("a", "c") + s.State().Int("d")
		},
	},
})

func TestPatchObject(t *testing.T) {
	s := useNested.Must(NewRegistry())

	s.Patch(Record{"a": Record{"b": 1}})

	want := Record{"a": Record{"b": 1, "c": 2}, "d": 3}
	if got := s.State().Snapshot(); !reflect.DeepEqual(got, want) {
		t.Errorf("state = %v, want %v", got, want)
	}
}

func TestPatchFunction(t *testing.T) {
	s := useNested.Must(NewRegistry())

	s.PatchFunc(func(st *State) {
		st.SetIn([]string{"a", "b"}, 10)
		st.Delete("d")
	})

	want := Record{"a": Record{"b": 10, "c": 2}}
	if got := s.State().Snapshot(); !reflect.DeepEqual(got, want) {
		t.Errorf("state = %v, want %v", got, want)
	}
}

func TestStateIdentityIsStable(t *testing.T) {
	s := useNested.Must(NewRegistry())
	st := s.State()
	root := reflect.ValueOf(st.Raw()).Pointer()

	s.Patch(Record{"d": 4})
	s.PatchFunc(func(st *State) { st.Set("d", 5) })
	s.SetState(Record{"x": 1})
	s.Reset()

	if s.State() != st {
		t.Error("state handle changed")
	}
	if reflect.ValueOf(s.State().Raw()).Pointer() != root {
		t.Error("root record was replaced")
	}
}

func TestGetterRecomputesAfterPatch(t *testing.T) {
	s := useNested.Must(NewRegistry())

	if v, _ := s.Getter("sum"); v != 5 {
		t.Fatalf("sum = %v, want 5", v)
	}
	s.Patch(Record{"a": Record{"b": 10}})
	if v, _ := s.Getter("sum"); v != 15 {
		t.Errorf("sum = %v, want 15", v)
	}

	s.PatchFunc(func(st *State) {
		st.Set("d", 0)
		// readers inside the patch see the write
		if v, _ := s.Getter("sum"); v != 12 {
			t.Errorf("sum inside patch = %v, want 12", v)
		}
	})
}

func TestUnknownGetter(t *testing.T) {
	s := useNested.Must(NewRegistry())

	if _, err := s.Getter("missing"); err == nil {
		t.Fatal("expected an error for an unknown getter")
	}
	if _, ok := GetterAs[int](s, "missing"); ok {
		t.Error("GetterAs should report false for an unknown getter")
	}
	if _, ok := GetterAs[string](s, "sum"); ok {
		t.Error("GetterAs should report false for a type mismatch")
	}
}

func TestSetState(t *testing.T) {
	s := useNested.Must(NewRegistry())
	next := Record{"x": Record{"y": 1}}

	s.SetState(next)
	next["x"].(Record)["y"] = 2

	if got := s.State().Int("x", "y"); got != 1 {
		t.Errorf("x.y = %d, want the copied value 1", got)
	}
	if _, ok := s.State().Get("d"); ok {
		t.Error("SetState must drop keys missing from the new state")
	}
}

func TestReset(t *testing.T) {
	s := useNested.Must(NewRegistry())

	s.Patch(Record{"a": Record{"b": 7}, "extra": true})
	s.Reset()

	want := Record{"a": Record{"b": 0, "c": 2}, "d": 3}
	if got := s.State().Snapshot(); !reflect.DeepEqual(got, want) {
		t.Errorf("state = %v, want %v", got, want)
	}
	if v, _ := s.Getter("sum"); v != 5 {
		t.Errorf("sum after reset = %v, want 5", v)
	}
}

func TestStateAccessors(t *testing.T) {
	s := Define(Definition{
		ID: "accessors",
		State: func() Record {
			return Record{
				"flag":  true,
				"name":  "vstore",
				"count": float64(3),
				"ratio": 1,
				"nest":  Record{"k": "v"},
			}
		},
	}).Must(NewRegistry())
	st := s.State()

	if !st.Bool("flag") {
		t.Error("Bool")
	}
	if st.String("name") != "vstore" {
		t.Error("String")
	}
	if st.Int("count") != 3 {
		t.Error("Int from float64")
	}
	if st.Float("ratio") != 1 {
		t.Error("Float from int")
	}
	if st.String("missing", "deep") != "" {
		t.Error("missing path should yield the zero value")
	}
	if st.String("name", "deeper") != "" {
		t.Error("path through a leaf should yield the zero value")
	}

	rec := st.Record("nest")
	rec["k"] = "changed"
	if st.String("nest", "k") != "v" {
		t.Error("Record must return a copy")
	}
	if st.Record("flag") != nil {
		t.Error("Record of a leaf should be nil")
	}
}

func TestSetInReplacesLeafIntermediate(t *testing.T) {
	s := useNested.Must(NewRegistry())

	s.State().SetIn([]string{"d", "e"}, 1)
	if got := s.State().Int("d", "e"); got != 1 {
		t.Errorf("d.e = %d, want 1", got)
	}

	before := s.State().Version()
	s.State().SetIn(nil, 1)
	s.State().Delete()
	s.State().Delete("nope", "nope")
	if s.State().Version() != before {
		t.Error("no-op writes must not bump the version")
	}
}

func TestFactoryStateIsNeverShared(t *testing.T) {
	shared := Record{"items": Record{"n": 1}}
	useShared := Define(Definition{
		ID:    "shared",
		State: func() Record { return shared },
	})

	s1 := useShared.Must(NewRegistry())
	s2 := useShared.Must(NewRegistry())
	s1.State().SetIn([]string{"items", "n"}, 2)

	if s2.State().Int("items", "n") != 1 {
		t.Error("instances must not share state")
	}
	if shared["items"].(Record)["n"] != 1 {
		t.Error("the factory's value must not be mutated")
	}
}

func TestGetReturnsCopies(t *testing.T) {
	useFlag := Define(Definition{
		ID: "flag",
		State: func() Record {
			return Record{"nested": Record{"on": false}, "list": []any{1}}
		},
		Getters: map[string]Getter{
			"on": func(s *Store) any { return s.State().Bool("nested", "on") },
		},
	})
	s := useFlag.Must(NewRegistry())

	if on, _ := s.Getter("on"); on != false {
		t.Fatalf("on = %v, want false", on)
	}

	v, _ := s.State().Get("nested")
	v.(Record)["on"] = true
	list, _ := s.State().Get("list")
	list.([]any)[0] = 2

	if s.State().Bool("nested", "on") {
		t.Error("writing to a value returned by Get must not change the state")
	}
	if got, _ := s.State().Get("list"); got.([]any)[0] != 1 {
		t.Errorf("list = %v, want [1]", got)
	}

	s.State().SetIn([]string{"nested", "on"}, true)
	if on, _ := s.Getter("on"); on != true {
		t.Errorf("getter = %v after SetIn, want true", on)
	}
}
