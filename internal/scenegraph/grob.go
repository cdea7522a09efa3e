// Package scenegraph is a small scene graph bound to the object model: the
// classes a shell session manipulates. Its registration code is generated
// by gomgen from the //gom: annotations.
package scenegraph

//go:generate go run ../../cmd/gomgen --dir .

import (
	"fmt"
	"strings"

	gom "github.com/podhmo/go-gom"
)

// DrawMode selects how a grob is rendered.
//
//gom:enum
type DrawMode int

const (
	DrawPlain DrawMode = iota
	DrawWireframe
	DrawSmooth
)

// Grob is a graphic object of a scene graph.
//
//gom:class
//gom:abstract
type Grob struct {
	gom.ObjectBase
	name     string
	visible  bool
	drawMode DrawMode
	graph    *SceneGraph
}

//gom:property name
func (g *Grob) Name() string { return g.name }

func (g *Grob) SetName(name string) {
	if g.graph != nil {
		g.graph.rename(g.name, name)
	}
	g.name = name
	g.Changed("name")
}

//gom:property visible
func (g *Grob) Visible() bool { return g.visible }

func (g *Grob) SetVisible(visible bool) {
	g.visible = visible
	g.Changed("visible")
}

//gom:property draw_mode
func (g *Grob) DrawMode() DrawMode { return g.drawMode }

func (g *Grob) SetDrawMode(mode DrawMode) {
	g.drawMode = mode
	g.Changed("draw_mode")
}

// SceneGraph returns the scene graph the grob belongs to, if any.
//
//gom:property scene_graph
func (g *Grob) SceneGraph() *SceneGraph { return g.graph }

// Changed is emitted when a property of the grob is modified.
//
//gom:signal
func (g *Grob) Changed(property string) {
	g.EmitSignal("changed", gom.NamedArgs("property", property))
}

func (g *Grob) grob() *Grob { return g }

// grobObject is implemented by every grob class.
type grobObject interface {
	gom.Object
	grob() *Grob
}

// MeshGrob is a grob holding a list of vertices.
//
//gom:class
//gom:attribute help "a mesh: a list of 3d vertices"
type MeshGrob struct {
	Grob
	vertices [][3]float64
}

//gom:constructor
func NewMeshGrob() *MeshGrob {
	m := &MeshGrob{}
	m.visible = true
	gom.InitObject(m)
	return m
}

// AddVertex appends a vertex and returns its index.
//
//gom:slot
func (m *MeshGrob) AddVertex(x, y, z float64) gom.Index {
	m.vertices = append(m.vertices, [3]float64{x, y, z})
	m.Changed("vertices")
	return gom.Index(len(m.vertices) - 1)
}

//gom:property nb_vertices
func (m *MeshGrob) NbVertices() gom.Index { return gom.Index(len(m.vertices)) }

// Vertex returns the coordinates of vertex i, space separated.
//
//gom:slot
func (m *MeshGrob) Vertex(i gom.Index) string {
	if int(i) >= len(m.vertices) {
		return ""
	}
	v := m.vertices[i]
	return fmt.Sprintf("%g %g %g", v[0], v[1], v[2])
}

// Translate moves every vertex. It fails when a coordinate overflows and
// floating point traps are enabled.
//
//gom:slot
//gom:default dz=0
func (m *MeshGrob) Translate(dx, dy, dz float64) bool {
	for i := range m.vertices {
		for k, d := range [3]float64{dx, dy, dz} {
			x := m.vertices[i][k] + d
			if err := gom.CheckFloat(x); err != nil {
				gom.TagLogger("MeshGrob::translate").Warn("invalid coordinate", "error", err)
				return false
			}
			m.vertices[i][k] = x
		}
	}
	m.Changed("vertices")
	return true
}

// Clear removes every vertex.
//
//gom:slot
func (m *MeshGrob) Clear() {
	m.vertices = nil
	m.Changed("vertices")
}

// Dump returns the vertices, one per line.
func (m *MeshGrob) Dump() string {
	var sb strings.Builder
	for i := range m.vertices {
		sb.WriteString(m.Vertex(gom.Index(i)))
		sb.WriteString("\n")
	}
	return sb.String()
}
