package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vstore/internal/errors"
	"github.com/vango-dev/vstore/pkg/store"
)

// Scenario declares stores and the steps to run against them.
type Scenario struct {
	Name   string      `yaml:"name"`
	Stores []StoreSpec `yaml:"stores"`
	Steps  []Step      `yaml:"steps"`
}

// StoreSpec declares one store.
type StoreSpec struct {
	ID      string                `yaml:"id"`
	State   map[string]any        `yaml:"state"`
	Getters map[string]GetterSpec `yaml:"getters"`
	Actions map[string]ActionSpec `yaml:"actions"`
}

// GetterSpec declares a getter over a dotted state path.
type GetterSpec struct {
	// Not negates the bool at the path.
	Not string `yaml:"not"`

	// Get returns the value at the path.
	Get string `yaml:"get"`
}

// ActionSpec declares an action. Its parts run in field order.
type ActionSpec struct {
	// Patch is merged into the state.
	Patch map[string]any `yaml:"patch"`

	// Toggle flips the bool at a dotted path.
	Toggle string `yaml:"toggle"`

	// Increment adds one to the number at a dotted path.
	Increment string `yaml:"increment"`

	// Calls are other actions of the same store, called in order.
	Calls []string `yaml:"calls"`

	// Fail makes the action return an error with this message.
	Fail string `yaml:"fail"`
}

// Step is one scenario step. Exactly one of Call, Patch or Reset is set.
type Step struct {
	// Call is "store.action".
	Call string `yaml:"call"`

	// Patch is a store id; With is merged into its state.
	Patch string         `yaml:"patch"`
	With  map[string]any `yaml:"with"`

	// Reset is a store id.
	Reset string `yaml:"reset"`

	// ExpectError lets the step's action fail without stopping the run.
	ExpectError bool `yaml:"expectError"`
}

// loadScenario reads and validates a scenario file.
func loadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.FromError(err, "S011").WithDetailf("Cannot read %s", path)
	}
	return parseScenario(data)
}

func parseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, errors.FromError(err, "S011").WithDetailf("Failed to parse scenario: %v", err)
	}
	if err := sc.validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc *Scenario) validate() error {
	stores := make(map[string]StoreSpec, len(sc.Stores))
	for _, spec := range sc.Stores {
		if spec.ID == "" {
			return errors.New("S011").WithDetail("A store has no id")
		}
		if _, dup := stores[spec.ID]; dup {
			return errors.New("S011").WithDetailf("Store %q is declared twice", spec.ID)
		}
		stores[spec.ID] = spec

		for name, getter := range spec.Getters {
			if (getter.Not == "") == (getter.Get == "") {
				return errors.New("S011").
					WithDetailf("Getter %s.%s needs exactly one of not or get", spec.ID, name)
			}
		}
		for name, action := range spec.Actions {
			for _, callee := range action.Calls {
				if _, ok := spec.Actions[callee]; !ok {
					return errors.New("S011").
						WithDetailf("Action %s.%s calls unknown action %q", spec.ID, name, callee)
				}
			}
		}
		if name, path := spec.callCycle(); path != nil {
			return errors.New("S011").
				WithDetailf("Action %s.%s calls itself through %v", spec.ID, name, path)
		}
	}

	for i, step := range sc.Steps {
		set := 0
		for _, s := range []string{step.Call, step.Patch, step.Reset} {
			if s != "" {
				set++
			}
		}
		if set != 1 {
			return errors.New("S011").
				WithDetailf("Step %d must set exactly one of call, patch or reset", i+1)
		}

		id := step.Patch + step.Reset
		if step.Call != "" {
			storeID, action, ok := strings.Cut(step.Call, ".")
			if !ok {
				return errors.New("S011").
					WithDetailf("Step %d: call %q is not of the form store.action", i+1, step.Call)
			}
			spec, known := stores[storeID]
			if known {
				if _, ok := spec.Actions[action]; !ok {
					return errors.New("S011").
						WithDetailf("Step %d: store %q has no action %q", i+1, storeID, action)
				}
			}
			id = storeID
		}
		if _, ok := stores[id]; !ok {
			return errors.New("S011").WithDetailf("Step %d: unknown store %q", i+1, id)
		}
	}
	return nil
}

// define turns the declared stores into store definitions.
// callCycle returns the first action, in name order, that reaches itself
// through calls, with the chain of calls that closes the loop.
func (spec StoreSpec) callCycle() (string, []string) {
	names := make([]string, 0, len(spec.Actions))
	for name := range spec.Actions {
		names = append(names, name)
	}
	sort.Strings(names)

	done := make(map[string]bool, len(names))
	var stack []string
	onStack := make(map[string]bool)
	var visit func(name string) []string
	visit = func(name string) []string {
		if onStack[name] {
			for i, n := range stack {
				if n == name {
					return append(append([]string{}, stack[i:]...), name)
				}
			}
		}
		if done[name] {
			return nil
		}
		stack = append(stack, name)
		onStack[name] = true
		for _, callee := range spec.Actions[name].Calls {
			if path := visit(callee); path != nil {
				return path
			}
		}
		stack = stack[:len(stack)-1]
		onStack[name] = false
		done[name] = true
		return nil
	}

	for _, name := range names {
		if path := visit(name); path != nil {
			return path[0], path
		}
	}
	return "", nil
}

func (sc *Scenario) define() map[string]store.Accessor {
	accessors := make(map[string]store.Accessor, len(sc.Stores))
	for _, spec := range sc.Stores {
		accessors[spec.ID] = store.Define(spec.definition())
	}
	return accessors
}

func (spec StoreSpec) definition() store.Definition {
	initial := normalize(map[string]any(spec.State)).(store.Record)

	def := store.Definition{
		ID:      spec.ID,
		State:   func() store.Record { return initial },
		Getters: make(map[string]store.Getter, len(spec.Getters)),
		Actions: make(map[string]store.Action, len(spec.Actions)),
	}
	for name, g := range spec.Getters {
		def.Getters[name] = g.getter()
	}
	for name, a := range spec.Actions {
		def.Actions[name] = a.action()
	}
	return def
}

func (g GetterSpec) getter() store.Getter {
	if g.Not != "" {
		path := splitPath(g.Not)
		return func(s *store.Store) any {
			return !s.State().Bool(path...)
		}
	}
	path := splitPath(g.Get)
	return func(s *store.Store) any {
		v, _ := s.State().Get(path...)
		return v
	}
}

func (a ActionSpec) action() store.Action {
	var partial store.Record
	if a.Patch != nil {
		partial = normalize(map[string]any(a.Patch)).(store.Record)
	}

	return func(s *store.Store, _ ...any) (any, error) {
		if partial != nil {
			s.Patch(partial)
		}
		if a.Toggle != "" {
			path := splitPath(a.Toggle)
			s.State().SetIn(path, !s.State().Bool(path...))
		}
		if a.Increment != "" {
			path := splitPath(a.Increment)
			s.State().SetIn(path, s.State().Int(path...)+1)
		}
		for _, callee := range a.Calls {
			if _, err := s.Call(callee); err != nil {
				return nil, err
			}
		}
		if a.Fail != "" {
			return nil, fmt.Errorf("%s", a.Fail)
		}
		return nil, nil
	}
}

func splitPath(p string) []string {
	return strings.Split(p, ".")
}

// StoreResult is the printed outcome for one store.
type StoreResult struct {
	State   store.Record   `json:"state"`
	Getters map[string]any `json:"getters,omitempty"`
}

// Result is the printed outcome of a scenario run.
type Result struct {
	Scenario string                 `json:"scenario,omitempty"`
	Stores   map[string]StoreResult `json:"stores"`
	Errors   []string               `json:"errors,omitempty"`
}

// run executes the steps against stores in r and collects the final states.
func (sc *Scenario) run(r *store.Registry) (*Result, error) {
	accessors := sc.define()
	res := &Result{Scenario: sc.Name, Stores: make(map[string]StoreResult, len(accessors))}

	for i, step := range sc.Steps {
		switch {
		case step.Call != "":
			storeID, action, _ := strings.Cut(step.Call, ".")
			s, err := accessors[storeID](r)
			if err != nil {
				return nil, err
			}
			if _, err := s.Call(action); err != nil {
				if !step.ExpectError {
					return nil, errors.New("S011").Wrap(err).
						WithDetailf("Step %d: %s failed: %v", i+1, step.Call, err)
				}
				res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", step.Call, err))
			}
		case step.Patch != "":
			s, err := accessors[step.Patch](r)
			if err != nil {
				return nil, err
			}
			s.Patch(normalize(map[string]any(step.With)).(store.Record))
		case step.Reset != "":
			s, err := accessors[step.Reset](r)
			if err != nil {
				return nil, err
			}
			s.Reset()
		}
	}

	for id, access := range accessors {
		s, err := access(r)
		if err != nil {
			return nil, err
		}
		out := StoreResult{State: s.State().Snapshot()}
		if names := s.Getters(); len(names) > 0 {
			out.Getters = make(map[string]any, len(names))
			for _, name := range names {
				v, err := s.Getter(name)
				if err != nil {
					return nil, err
				}
				out.Getters[name] = v
			}
		}
		res.Stores[id] = out
	}
	return res, nil
}
