package gom

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"weak"
)

// instanceTable maps live instance ids to objects. It holds weak pointers so
// that an id never keeps its object alive.
type instanceTable struct {
	mu      sync.Mutex
	next    uint64
	byID    map[uint64]weak.Pointer[ObjectBase]
	inserts int
}

var instances = &instanceTable{byID: make(map[uint64]weak.Pointer[ObjectBase])}

const instanceSweepPeriod = 1024

func (t *instanceTable) add(b *ObjectBase) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	t.byID[t.next] = weak.Make(b)
	t.inserts++
	if t.inserts%instanceSweepPeriod == 0 {
		for id, p := range t.byID {
			if p.Value() == nil {
				delete(t.byID, id)
			}
		}
	}
	return t.next
}

func (t *instanceTable) remove(id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.byID, id)
}

func (t *instanceTable) find(id uint64) Object {
	t.mu.Lock()
	p, ok := t.byID[id]
	t.mu.Unlock()
	if !ok {
		return nil
	}
	b := p.Value()
	if b == nil || b.self == nil || b.destroyed {
		return nil
	}
	return b.self
}

// FindObject returns the live object with the given instance id.
func FindObject(id uint64) (Object, bool) {
	o := instances.find(id)
	return o, o != nil
}

// LiveObjects returns the live objects of class c (or of any class when c is
// nil), ordered by id.
func LiveObjects(c *MetaClass) []Object {
	instances.mu.Lock()
	ids := make([]uint64, 0, len(instances.byID))
	for id := range instances.byID {
		ids = append(ids, id)
	}
	instances.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var objects []Object
	for _, id := range ids {
		o := instances.find(id)
		if o == nil {
			continue
		}
		if c != nil && (o.MetaClass() == nil || !o.MetaClass().IsA(c)) {
			continue
		}
		objects = append(objects, o)
	}
	return objects
}

// ResolveGlobalID resolves "@ClassName::#N" to the live instance with id N.
// The instance must be of class ClassName or of one of its subclasses.
func ResolveGlobalID(gid string) (Object, bool) {
	if !strings.HasPrefix(gid, "@") {
		return nil, false
	}
	className, num, ok := strings.Cut(gid[1:], "::#")
	if !ok {
		return nil, false
	}
	id, err := strconv.ParseUint(num, 10, 64)
	if err != nil {
		return nil, false
	}
	o, ok := FindObject(id)
	if !ok {
		return nil, false
	}
	if c := o.MetaClass(); c == nil || c.Name() != className {
		r := Meta()
		if r == nil || c == nil {
			return nil, false
		}
		want, found := r.ResolveClass(className)
		if !found || !c.IsA(want) {
			return nil, false
		}
	}
	return o, true
}
