package module

import (
	"reflect"
	"strings"
	"testing"

	phttp "tasker/internal/platform/net/http"
)

type Lister interface{ List() []string }

type staticList []string

func (s staticList) List() []string { return s }

type fakeModule struct {
	name  string
	ports any
}

func (m fakeModule) Name() string             { return m.name }
func (m fakeModule) Ports() any               { return m.ports }
func (m fakeModule) MountRoutes(phttp.Router) {}

func TestPortsOf(t *testing.T) {
	t.Parallel()

	type Ports struct {
		Lister Lister
		N      int
	}
	type hidden struct{ l Lister }

	tests := []struct {
		name  string
		ports any
		ok    bool
	}{
		{"nil ports", nil, false},
		{"direct", staticList{"a"}, true},
		{"struct field", Ports{Lister: staticList{"a"}}, true},
		{"pointer to struct", &Ports{Lister: staticList{"a"}}, true},
		{"nil pointer", (*Ports)(nil), false},
		{"unexported field", hidden{l: staticList{"a"}}, false},
		{"wrong type", 42, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := PortsOf[Lister](fakeModule{name: "x", ports: tc.ports})
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && !reflect.DeepEqual(got.List(), []string{"a"}) {
				t.Fatalf("got %v", got.List())
			}
		})
	}
	if _, ok := PortsOf[Lister](nil); ok {
		t.Fatal("nil module has ports")
	}
}

func TestMustPortsOf_PanicNamesModule(t *testing.T) {
	t.Parallel()

	defer func() {
		msg, _ := recover().(string)
		if !strings.Contains(msg, "tasks") || !strings.Contains(msg, "Lister") {
			t.Fatalf("panic = %q", msg)
		}
	}()
	_ = MustPortsOf[Lister](fakeModule{name: "tasks"})
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Add(
		fakeModule{name: "tasks", ports: staticList{"a"}},
		fakeModule{name: "meta"},
		nil,
	)
	if got := r.Names(); !reflect.DeepEqual(got, []string{"tasks"}) {
		t.Fatalf("Names = %v", got)
	}
	if _, ok := Lookup[Lister](r, "tasks"); !ok {
		t.Fatal("tasks lister not found")
	}
	if _, ok := Lookup[Lister](r, "meta"); ok {
		t.Fatal("meta has no ports")
	}
}
