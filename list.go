package glscene

import (
	"errors"

	"github.com/soypat/glscene/render"
)

// Handle refers to an object held by a List. The zero Handle refers
// to nothing and terminates traversal. Handles of removed objects
// become stale and resolve to nothing.
type Handle struct {
	idx uint32 // slot index plus one.
	gen uint32
}

// IsNil reports whether h is the zero Handle.
func (h Handle) IsNil() bool { return h.idx == 0 }

type listSlot struct {
	obj  Object
	next Handle
	gen  uint32
}

// List owns scene objects and threads them into a traversal order by
// each object's next link. Links may form any chain. The
// list draws the chain starting at its head.
type List struct {
	slots []listSlot
	free  []uint32
	head  Handle
}

var errStale = errors.New("glscene: stale or nil handle")

// Add stores obj in the list without linking it and returns its handle.
// A nil obj is not stored and yields the zero Handle.
func (l *List) Add(obj Object) Handle {
	if obj == nil {
		return Handle{}
	}
	var i uint32
	if n := len(l.free); n > 0 {
		i = l.free[n-1]
		l.free = l.free[:n-1]
	} else {
		l.slots = append(l.slots, listSlot{})
		i = uint32(len(l.slots) - 1)
	}
	l.slots[i].obj = obj
	l.slots[i].next = Handle{}
	return Handle{idx: i + 1, gen: l.slots[i].gen}
}

// Push adds obj and links it at the front of the traversal chain.
func (l *List) Push(obj Object) Handle {
	h := l.Add(obj)
	if h.IsNil() {
		return h
	}
	l.slots[h.idx-1].next = l.head
	l.head = h
	return h
}

func (l *List) slot(h Handle) *listSlot {
	if h.idx == 0 || int(h.idx) > len(l.slots) {
		return nil
	}
	s := &l.slots[h.idx-1]
	if s.gen != h.gen || s.obj == nil {
		return nil
	}
	return s
}

// Get returns the object referenced by h or nil if h is stale.
func (l *List) Get(h Handle) Object {
	if s := l.slot(h); s != nil {
		return s.obj
	}
	return nil
}

// SetNext links next after h. A zero next ends the chain at h.
func (l *List) SetNext(h, next Handle) error {
	s := l.slot(h)
	if s == nil || (!next.IsNil() && l.slot(next) == nil) {
		return errStale
	}
	s.next = next
	return nil
}

// Next returns the handle linked after h.
func (l *List) Next(h Handle) Handle {
	if s := l.slot(h); s != nil {
		return s.next
	}
	return Handle{}
}

// SetHead sets the first object of the traversal chain.
func (l *List) SetHead(h Handle) error {
	if !h.IsNil() && l.slot(h) == nil {
		return errStale
	}
	l.head = h
	return nil
}

func (l *List) Head() Handle { return l.head }

// Remove deletes the object of h, unlinking it from any object or head
// pointing at it. Its handle and slot generation are invalidated.
func (l *List) Remove(h Handle) error {
	s := l.slot(h)
	if s == nil {
		return errStale
	}
	next := s.next
	if l.head == h {
		l.head = next
	}
	for i := range l.slots {
		if l.slots[i].obj != nil && l.slots[i].next == h {
			l.slots[i].next = next
		}
	}
	s.obj = nil
	s.next = Handle{}
	s.gen++
	l.free = append(l.free, h.idx-1)
	return nil
}

// Len returns the number of objects held, linked or not.
func (l *List) Len() int { return len(l.slots) - len(l.free) }

// Walk calls fn for each object in chain order from the head until fn
// returns false. A chain that loops back is visited at most Len times.
func (l *List) Walk(fn func(h Handle, obj Object) bool) {
	h := l.head
	for steps := l.Len(); steps > 0; steps-- {
		s := l.slot(h)
		if s == nil || !fn(h, s.obj) {
			return
		}
		h = s.next
	}
}

// Draw draws the chain in two passes: opaque objects in chain order,
// then transparent objects in chain order.
func (l *List) Draw(dst render.Backend, fr *render.Frustum) {
	for _, transparent := range [2]bool{false, true} {
		l.Walk(func(_ Handle, obj Object) bool {
			if obj.IsTransparent() == transparent {
				obj.Draw(dst, fr)
			}
			return true
		})
	}
}

// Selected returns the handles of selected objects in chain order.
func (l *List) Selected() []Handle {
	var hs []Handle
	l.Walk(func(h Handle, obj Object) bool {
		if obj.Base().Selected() {
			hs = append(hs, h)
		}
		return true
	})
	return hs
}
