package gom

import (
	"fmt"
	"strings"
)

// Connection links a signal of a source object to a Callable. Arguments
// can be filtered (IfArg) and rewritten (AddArg, RenameArg, DiscardArg)
// before the call.
type Connection struct {
	ObjectBase
	source Object
	signal string
	target Callable

	conditions []argCondition
	renamed    [][2]string
	discarded  []string
	added      *ArgList
}

type argCondition struct {
	name string
	cond string
}

// Connect connects signal of source to target. The connection holds a
// reference on target until it is removed or source is destroyed.
func Connect(source Object, signal string, target Callable) (*Connection, error) {
	c := source.MetaClass()
	if c == nil || c.FindSignal(signal) == nil {
		return nil, fmt.Errorf("signal %s of %s: %w", signal, ObjectString(source), ErrNotFound)
	}
	conn := &Connection{source: source, signal: signal, target: target, added: NewArgList()}
	InitTransient(conn)
	target.Ref()
	b := source.Base()
	b.connections = append(b.connections, conn)
	return conn, nil
}

// ConnectRequest connects the signal referenced by from (a Request on a
// signal) to target.
func ConnectRequest(from *Request, target Callable) (*Connection, error) {
	if from.Method().Kind() != SignalKind {
		return nil, fmt.Errorf("%s is not a signal: %w", from.Method().Name(), ErrNotFound)
	}
	return Connect(from.Object(), from.Method().Name(), target)
}

// Source returns the object emitting the signal.
func (c *Connection) Source() Object { return c.source }

// Signal returns the signal name.
func (c *Connection) Signal() string { return c.signal }

// Target returns the called Callable.
func (c *Connection) Target() Callable { return c.target }

// IfArg adds a condition on argument name: "==v", "!=v" or "v" (equality),
// comparing string forms. The target is called only if every condition
// holds.
func (c *Connection) IfArg(name, cond string) *Connection {
	c.conditions = append(c.conditions, argCondition{name: name, cond: cond})
	return c
}

// AddArg adds a fixed argument to every call.
func (c *Connection) AddArg(name string, v Any) *Connection {
	c.added.Set(name, v)
	return c
}

// RenameArg renames a signal argument before the call.
func (c *Connection) RenameArg(from, to string) *Connection {
	c.renamed = append(c.renamed, [2]string{from, to})
	return c
}

// DiscardArg removes a signal argument before the call.
func (c *Connection) DiscardArg(name string) *Connection {
	c.discarded = append(c.discarded, name)
	return c
}

// Remove disconnects c from its source.
func (c *Connection) Remove() {
	if c.source == nil {
		return
	}
	b := c.source.Base()
	for i, conn := range b.connections {
		if conn == c {
			b.connections = append(b.connections[:i], b.connections[i+1:]...)
			break
		}
	}
	c.release()
}

func (c *Connection) release() {
	if c.target != nil {
		c.target.Unref()
	}
	c.target = nil
	c.source = nil
}

func (c *Connection) accepts(args *ArgList) bool {
	for _, cond := range c.conditions {
		v, ok := args.Get(cond.name)
		if !ok {
			return false
		}
		s := v.AsString()
		switch {
		case strings.HasPrefix(cond.cond, "=="):
			if s != cond.cond[2:] {
				return false
			}
		case strings.HasPrefix(cond.cond, "!="):
			if s == cond.cond[2:] {
				return false
			}
		default:
			if s != cond.cond {
				return false
			}
		}
	}
	return true
}

// invoke calls the target for one emission. Filtered emissions succeed.
func (c *Connection) invoke(args *ArgList) bool {
	if c.target == nil || !c.accepts(args) {
		return true
	}
	call := args.Clone()
	for _, r := range c.renamed {
		call.Rename(r[0], r[1])
	}
	for _, name := range c.discarded {
		call.Remove(name)
	}
	for _, name := range c.added.Names() {
		v, _ := c.added.Get(name)
		call.Set(name, v)
	}
	_, ok := c.target.Call(call)
	if !ok {
		TagLogger(ObjectString(c.source)+"::"+c.signal).Warn("slot invocation failed", "target", ObjectString(c.target))
	}
	return ok
}
