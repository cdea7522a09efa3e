package scenegraph

import (
	"fmt"

	gom "github.com/podhmo/go-gom"
)

// SceneGraph owns named grobs. It is a Scope (grobs are resolved by name)
// and a sequence of its grobs.
//
//gom:class
type SceneGraph struct {
	gom.ObjectBase
	children []grobObject
	current  string
}

//gom:constructor
func NewSceneGraph() *SceneGraph {
	sg := &SceneGraph{}
	gom.InitObject(sg)
	return sg
}

// CreateObject creates a grob of class classname. The name is made unique
// by appending a number. The new grob becomes the current object.
//
//gom:slot
//gom:default name=""
func (sg *SceneGraph) CreateObject(classname string, name string) gom.Object {
	r := gom.Meta()
	if r == nil {
		return nil
	}
	c, ok := r.ResolveClass(classname)
	grobClass, _ := r.ResolveClass("Grob")
	if !ok || !c.IsA(grobClass) {
		gom.TagLogger("SceneGraph::create_object").Warn("not a grob class", "class", classname)
		return nil
	}
	o, ok := c.Create(gom.NewArgList()).(grobObject)
	if !ok {
		return nil
	}
	if name == "" {
		name = c.Name()
	}
	g := o.grob()
	g.name = sg.uniqueName(name)
	g.graph = sg
	o.Ref()
	sg.children = append(sg.children, o)
	sg.current = g.name
	sg.ObjectCreated(g.name)
	return o
}

func (sg *SceneGraph) uniqueName(name string) string {
	if sg.find(name) == nil {
		return name
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d", name, i)
		if sg.find(candidate) == nil {
			return candidate
		}
	}
}

func (sg *SceneGraph) find(name string) grobObject {
	for _, o := range sg.children {
		if o.grob().name == name {
			return o
		}
	}
	return nil
}

func (sg *SceneGraph) rename(from, to string) {
	if sg.current == from {
		sg.current = to
	}
}

// FindObject returns the grob called name.
//
//gom:slot
func (sg *SceneGraph) FindObject(name string) gom.Object {
	if o := sg.find(name); o != nil {
		return o
	}
	return nil
}

// DeleteObject removes the grob called name.
//
//gom:slot
func (sg *SceneGraph) DeleteObject(name string) bool {
	for i, o := range sg.children {
		if o.grob().name != name {
			continue
		}
		sg.children = append(sg.children[:i], sg.children[i+1:]...)
		o.grob().graph = nil
		if sg.current == name {
			sg.current = ""
		}
		o.Unref()
		return true
	}
	return false
}

// Clear removes every grob.
//
//gom:slot
func (sg *SceneGraph) Clear() {
	for _, o := range sg.children {
		o.grob().graph = nil
		o.Unref()
	}
	sg.children = nil
	sg.current = ""
}

//gom:property current_object
func (sg *SceneGraph) CurrentObject() string { return sg.current }

func (sg *SceneGraph) SetCurrentObject(name string) {
	if sg.find(name) == nil {
		gom.TagLogger("SceneGraph").Warn("no such object", "name", name)
		return
	}
	sg.current = name
}

// Current returns the current grob.
//
//gom:slot
func (sg *SceneGraph) Current() gom.Object {
	return sg.FindObject(sg.current)
}

//gom:property nb_children
func (sg *SceneGraph) NbChildren() gom.Index { return gom.Index(len(sg.children)) }

// ObjectCreated is emitted after a grob is created.
//
//gom:signal
func (sg *SceneGraph) ObjectCreated(name string) {
	sg.EmitSignal("object_created", gom.NamedArgs("name", name))
}

// Resolve returns the grob called name.
func (sg *SceneGraph) Resolve(name string) gom.Any {
	return gom.ObjectAny(sg.FindObject(name))
}

// ListNames returns the names of the grobs.
func (sg *SceneGraph) ListNames() []string {
	names := make([]string, 0, len(sg.children))
	for _, o := range sg.children {
		names = append(names, o.grob().name)
	}
	return names
}

func (sg *SceneGraph) NbElements() int { return len(sg.children) }

func (sg *SceneGraph) GetElement(i int) (gom.Any, bool) {
	if i < 0 || i >= len(sg.children) {
		gom.TagLogger("SceneGraph").Warn("index out of range", "index", i)
		return gom.Any{}, false
	}
	return gom.ObjectAny(sg.children[i]), true
}

// Destroy releases the grobs.
func (sg *SceneGraph) Destroy() {
	sg.Clear()
}
