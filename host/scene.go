package host

import (
	"io"
	"math"
	"sync"

	"github.com/goccy/go-yaml"
)

// Vector is a point or direction in scene space.
type Vector struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
	Z float32 `yaml:"z"`
}

// NewVector returns the vector (x, y, z).
func NewVector(x, y, z float32) *Vector { return &Vector{X: x, Y: y, Z: z} }

// Add returns v + o.
func (v *Vector) Add(o *Vector) *Vector {
	return &Vector{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Scale returns v scaled by k.
func (v *Vector) Scale(k float32) *Vector {
	return &Vector{X: v.X * k, Y: v.Y * k, Z: v.Z * k}
}

// Length returns the Euclidean length of v.
func (v *Vector) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// Node kinds recorded by a [Recorder].
const (
	KindBox    = "box"
	KindCamera = "camera"
)

// Node is one object added to a scene.
type Node struct {
	LookAt   *Vector `yaml:"look_at,omitempty"`
	Kind     string  `yaml:"kind"`
	Position Vector  `yaml:"position"`
	Size     float32 `yaml:"size,omitempty"`
}

// Recorder collects the objects a script adds to a 3-D scene. It stands in
// for a rendering engine's scene graph: nodes are recorded in order and can
// be dumped as YAML for inspection.
type Recorder struct {
	nodes []Node
	mutex sync.Mutex
}

// NewRecorder returns an empty scene.
func NewRecorder() *Recorder { return &Recorder{} }

// AddBox adds a cube of edge length size centered at pos.
func (r *Recorder) AddBox(pos *Vector, size float32) {
	r.add(Node{Kind: KindBox, Position: *pos, Size: size})
}

// AddCamera adds a camera at pos facing the point at.
func (r *Recorder) AddCamera(pos, at *Vector) {
	target := *at
	r.add(Node{Kind: KindCamera, Position: *pos, LookAt: &target})
}

// Clear removes every node.
func (r *Recorder) Clear() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.nodes = nil
}

// Len returns the number of nodes.
func (r *Recorder) Len() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return len(r.nodes)
}

func (r *Recorder) add(n Node) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.nodes = append(r.nodes, n)
}

// Nodes returns a copy of the recorded nodes.
func (r *Recorder) Nodes() []Node {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	nodes := make([]Node, len(r.nodes))
	copy(nodes, r.nodes)

	return nodes
}

// WriteYAML writes the recorded nodes to w as a YAML document.
func (r *Recorder) WriteYAML(w io.Writer) error {
	doc := struct {
		Nodes []Node `yaml:"nodes"`
	}{Nodes: r.Nodes()}

	return yaml.NewEncoder(w, yaml.Indent(2)).Encode(doc)
}
