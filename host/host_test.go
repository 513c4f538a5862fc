package host

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/treewalk/lang"
)

// Host Tests
// ============================================================================

const sceneScript = `using Scene;
using Collections;

Main() {
  var scene = host.Scene;
  scene.AddCamera(new Vector(0, 5, -10), new Vector(0, 0, 0));
  var names = new List();
  for (i, 0, 4) {
    scene.AddBox(new Vector(i * 2.0, 0, 0), Math.Max(1, i));
    names.Add("box" + i);
  }
  host.Print(names.Join(", "));
  host.Env.Prepend("PATH", "/opt/scene/bin");
  return scene.Count;
}
`

func fakeLookup(name string) (string, bool) {
	if name == "PATH" {
		return "/usr/bin::/bin", true
	}

	return "", false
}

func run(t *testing.T, app *App, src, fn string, args ...lang.Value) (lang.Value, error) {
	t.Helper()

	prog, err := lang.Parse(t.Context(), src)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	reg, err := Registry()
	if err != nil {
		t.Fatalf("Registry error: %v", err)
	}

	in, err := lang.New(prog, app, lang.WithRegistry(reg))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	return in.Invoke(t.Context(), fn, args...)
}

func TestApp_SceneScript(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	app := NewApp("test", WithOutput(&out), WithEnv(NewEnv(fakeLookup)))

	got, err := run(t, app, sceneScript, "Main")
	if err != nil {
		t.Fatalf("Invoke error: %v", err)
	}

	if got.Kind() != lang.KindInt || got.Int() != 5 {
		t.Errorf("result = %v, want 5", got)
	}

	if out.String() != "box0, box1, box2, box3\n" {
		t.Errorf("output = %q", out.String())
	}

	nodes := app.Scene.Nodes()
	if len(nodes) != 5 || nodes[0].Kind != KindCamera || nodes[0].LookAt == nil {
		t.Fatalf("nodes = %+v", nodes)
	}

	if n := nodes[3]; n.Kind != KindBox || n.Position.X != 4 || n.Size != 2 {
		t.Errorf("third box = %+v", n)
	}

	if n := nodes[1]; n.Size != 1 {
		t.Errorf("first box size = %v, want 1", n.Size)
	}

	path := app.Env.Get("PATH")
	if !strings.HasPrefix(path, "/opt/scene/bin") || !strings.Contains(path, "/usr/bin") {
		t.Errorf("PATH = %q", path)
	}

	if changes := app.Env.Changes(); len(changes) != 1 || !strings.HasPrefix(changes[0], "PATH=") {
		t.Errorf("Changes() = %v", changes)
	}
}

func TestApp_Members(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "name property", src: "f() { return host.Name; }", want: "demo"},
		{name: "string length", src: `f() { return "héllo".Length; }`, want: "5"},
		{name: "string upper", src: `f() { return "abc".Upper(); }`, want: "ABC"},
		{name: "string contains", src: `f() { return " x ".Trim().Contains("x"); }`, want: "true"},
		{name: "split count", src: `f() { return "a,b,c".Split(",").Count(); }`, want: "3"},
		{name: "split index", src: `f() { var l = "a,b,c".Split(","); return l[2]; }`, want: "c"},
		{name: "math float max", src: "f() { return Math.Max(1, 2.5); }", want: "2.5"},
		{name: "math int min", src: "f() { return Math.Min(3, 'a'); }", want: "3"},
		{name: "math clamp", src: "f() { return Math.Clamp(9, 0, 4); }", want: "4"},
		{name: "math pi", src: "f() { return Math.Floor(Math.Pi); }", want: "3"},
		{name: "vector length", src: "using Scene; f() { return new Vector(3, 4, 0).Length(); }", want: "5"},
		{name: "vector chain", src: "using Scene; f() { return new Vector(1, 0, 0).Add(new Vector(0, 1, 0)).Scale(2).Y; }", want: "2"},
		{name: "qualified type", src: "f() { var l = new Collections.List(); l.Add(1); return l.Count(); }", want: "1"},
		{name: "env has", src: `f() { return host.Env.Has("PATH") && !host.Env.Has("NOPE"); }`, want: "true"},
		{name: "env set", src: `f() { host.Env.Set("A", "1"); return host.Env.Get("A"); }`, want: "1"},
		{name: "add box by coordinates", src: "f() { host.AddBox(1, 2.5, 3); return host.Scene.Count; }", want: "1"},
		{name: "add camera by coordinates", src: "f() { host.AddCamera(0, 5, -10, 0, 0, 0); host.AddBox(0, 0, 0); return host.Scene.Count; }", want: "2"},
		{name: "scene clear", src: "f() { host.AddBox(0, 0, 0); host.Scene.Clear(); return host.Scene.Count; }", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := run(t, NewApp("demo", WithEnv(NewEnv(fakeLookup))), tt.src, "f")
			if err != nil {
				t.Fatalf("Invoke error: %v", err)
			}

			if got.String() != tt.want {
				t.Errorf("got %v, want %s", got, tt.want)
			}
		})
	}
}

func TestApp_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		err  error
	}{
		{name: "missing import", src: "f() { return new Vector(1, 2, 3); }", err: lang.ErrMissingImport},
		{name: "list out of range", src: "using Collections; f() { var l = new List(); return l[0]; }", err: lang.ErrIndex},
		{name: "list set out of range", src: "using Collections; f() { new List().Set(1, 2); }", err: lang.ErrHost},
		{name: "list index type", src: `using Collections; f() { var l = new List(); return l["x"]; }`, err: lang.ErrType},
		{name: "no string overload", src: `f() { return Math.Sqrt("x"); }`, err: lang.ErrMethodResolution},
		{name: "count is read only", src: "f() { host.Scene.Count = 1; }", err: lang.ErrAssignment},
		{name: "scene len hidden", src: "f() { return host.Scene.Len(); }", err: lang.ErrMethodResolution},
		{name: "scene nodes hidden", src: "f() { return host.Scene.Nodes(); }", err: lang.ErrMethodResolution},
		{name: "scene yaml hidden", src: "f() { host.Scene.WriteYAML(null); }", err: lang.ErrMethodResolution},
		{name: "add box arity", src: "f() { host.AddBox(1, 2); }", err: lang.ErrMethodResolution},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := run(t, NewApp("demo"), tt.src, "f")
			if !errors.Is(err, tt.err) {
				t.Errorf("error = %v, want %v", err, tt.err)
			}
		})
	}
}

func TestRecorder_WriteYAML(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	r.AddBox(NewVector(1, 2, 3), 0.5)
	r.AddCamera(NewVector(0, 0, -5), NewVector(1, 2, 3))

	var buf bytes.Buffer
	if err := r.WriteYAML(&buf); err != nil {
		t.Fatal(err)
	}

	var doc struct {
		Nodes []Node `yaml:"nodes"`
	}

	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, buf.String())
	}

	if !slices.EqualFunc(doc.Nodes, r.Nodes(), func(a, b Node) bool {
		return a.Kind == b.Kind && a.Position == b.Position && a.Size == b.Size &&
			(a.LookAt == nil) == (b.LookAt == nil)
	}) {
		t.Errorf("round trip = %+v\n%s", doc.Nodes, buf.String())
	}

	r.Clear()

	if r.Len() != 0 {
		t.Errorf("Len() after Clear = %d", r.Len())
	}
}

func TestEnv(t *testing.T) {
	t.Parallel()

	e := NewEnv(fakeLookup)

	dir := t.TempDir()

	got := e.PrependDir("PATH", dir)
	if !strings.HasPrefix(got, dir) {
		t.Errorf("PrependDir = %q", got)
	}

	if strings.Contains(got, "::") {
		t.Errorf("empty item kept: %q", got)
	}

	if e.Get("PATH") != got || e.Get("UNSET") != "" {
		t.Error("Get mismatch")
	}
}
