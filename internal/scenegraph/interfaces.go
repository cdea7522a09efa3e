package scenegraph

import (
	gom "github.com/podhmo/go-gom"
)

// Interface is the base of the classes that operate on a grob. They are
// found through the "I" scope of a grob by naming convention, e.g.
// grob.I.Editor is a MeshGrobEditorInterface for a MeshGrob.
//
//gom:class
//gom:abstract
type Interface struct {
	gom.ObjectBase
	target gom.Object
}

//gom:property grob
func (i *Interface) Grob() gom.Object { return i.target }

func (i *Interface) SetGrob(o gom.Object) {
	if o != nil {
		o.Ref()
	}
	if i.target != nil {
		i.target.Unref()
	}
	i.target = o
}

// Destroy releases the grob.
func (i *Interface) Destroy() {
	i.SetGrob(nil)
}

func (i *Interface) mesh() (*MeshGrob, bool) {
	m, ok := i.target.(*MeshGrob)
	return m, ok
}

// Commands is the base of interfaces whose slots are commands.
//
//gom:class
//gom:abstract
type Commands struct {
	Interface
}

// MeshGrobEditorInterface edits the vertices of a MeshGrob.
//
//gom:class
type MeshGrobEditorInterface struct {
	Interface
}

//gom:constructor
func NewMeshGrobEditorInterface() *MeshGrobEditorInterface {
	e := &MeshGrobEditorInterface{}
	gom.InitObject(e)
	return e
}

//gom:property nb_vertices
func (e *MeshGrobEditorInterface) NbVertices() gom.Index {
	m, ok := e.mesh()
	if !ok {
		return 0
	}
	return m.NbVertices()
}

// SetVertex moves vertex i.
//
//gom:slot
func (e *MeshGrobEditorInterface) SetVertex(i gom.Index, x, y, z float64) bool {
	m, ok := e.mesh()
	if !ok || int(i) >= len(m.vertices) {
		return false
	}
	m.vertices[i] = [3]float64{x, y, z}
	m.Changed("vertices")
	return true
}

// MeshGrobShapesCommands creates and smooths shapes.
//
//gom:class
type MeshGrobShapesCommands struct {
	Commands
}

//gom:constructor
func NewMeshGrobShapesCommands() *MeshGrobShapesCommands {
	c := &MeshGrobShapesCommands{}
	gom.InitObject(c)
	return c
}

// Square replaces the vertices with the corners of a square.
//
//gom:slot
//gom:default size=1
func (c *MeshGrobShapesCommands) Square(size float64) bool {
	m, ok := c.mesh()
	if !ok {
		return false
	}
	m.vertices = [][3]float64{{0, 0, 0}, {size, 0, 0}, {size, size, 0}, {0, size, 0}}
	m.Changed("vertices")
	return true
}

// Smooth moves each vertex of the closed polygon halfway towards the mean
// of its neighbours, iterations times.
//
//gom:slot
//gom:default iterations=3
func (c *MeshGrobShapesCommands) Smooth(iterations int) bool {
	m, ok := c.mesh()
	if !ok {
		return false
	}
	n := len(m.vertices)
	if n < 3 {
		return true
	}
	for it := 0; it < iterations; it++ {
		next := make([][3]float64, n)
		for i := range m.vertices {
			prev, succ := m.vertices[(i+n-1)%n], m.vertices[(i+1)%n]
			for k := 0; k < 3; k++ {
				mean := (prev[k] + succ[k]) / 2
				next[i][k] = (m.vertices[i][k] + mean) / 2
			}
		}
		m.vertices = next
	}
	m.Changed("vertices")
	return true
}
