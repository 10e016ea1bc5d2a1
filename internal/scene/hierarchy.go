package scene

import (
	"cmp"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/softcore/pkg/math"
)

// SetPosition moves e relative to its parent.
func (w *World) SetPosition(e Entity, p math.Vec3) error {
	i, err := w.lookup(e)
	if err != nil {
		return err
	}
	w.transforms[i].Position = p
	w.transforms[i].dirty = true
	return nil
}

// SetRotation sets e's Euler rotation in radians.
func (w *World) SetRotation(e Entity, r math.Vec3) error {
	i, err := w.lookup(e)
	if err != nil {
		return err
	}
	w.transforms[i].Rotation = r
	w.transforms[i].dirty = true
	return nil
}

// SetScale sets e's scale.
func (w *World) SetScale(e Entity, s math.Vec3) error {
	i, err := w.lookup(e)
	if err != nil {
		return err
	}
	w.transforms[i].Scale = s
	w.transforms[i].dirty = true
	return nil
}

// SetParent attaches child to parent, or detaches it when parent is
// InvalidEntity. A parent that is child itself or one of its descendants
// is rejected.
func (w *World) SetParent(child, parent Entity) error {
	ci, err := w.lookup(child)
	if err != nil {
		return err
	}
	if parent != InvalidEntity {
		pi, err := w.lookup(parent)
		if err != nil {
			return err
		}
		for steps := 0; pi >= 0; steps++ {
			if pi == ci || steps > len(w.records) {
				return fmt.Errorf("%w: %v under %v", ErrHierarchyCycle, child, parent)
			}
			pi = w.parentIndex(pi)
		}
	}
	w.transforms[ci].Parent = parent
	w.transforms[ci].dirty = true
	return nil
}

// Children returns the direct children of e.
func (w *World) Children(e Entity) []Entity {
	var out []Entity
	for i := range w.records {
		if w.records[i].alive && w.transforms[i].Parent == e {
			out = append(out, makeEntity(i, w.records[i].gen))
		}
	}
	return out
}

// parentIndex returns the slot of i's parent, or -1 for roots and parents
// that no longer exist.
func (w *World) parentIndex(i int) int {
	p := w.transforms[i].Parent
	if p == InvalidEntity {
		return -1
	}
	pi, err := w.lookup(p)
	if err != nil {
		return -1
	}
	return pi
}

type visit uint8

const (
	unvisited visit = iota
	visiting
	resolved
	cyclic
)

// resolveScratch is reused by every UpdateTransforms call.
type resolveScratch struct {
	state   []visit
	depth   []int
	changed []bool
	stack   []int
	order   []int
}

func newResolveScratch(n int) resolveScratch {
	return resolveScratch{
		state:   make([]visit, n),
		depth:   make([]int, n),
		changed: make([]bool, n),
		stack:   make([]int, 0, n),
		order:   make([]int, 0, n),
	}
}

// UpdateTransforms rebuilds dirty local matrices, then resolves world
// matrices parents-first. A child whose ancestor changed is recomputed even
// when it is clean itself. Entities on a parent cycle, and their
// descendants, keep their old matrices, stay dirty, and are reported with
// ErrHierarchyCycle; everything else is still resolved.
func (w *World) UpdateTransforms() error {
	for i := range w.records {
		t := &w.transforms[i]
		if w.records[i].alive && t.dirty {
			t.Local = math.Compose(t.Position, t.Rotation, t.Scale)
		}
	}

	r := &w.res
	clear(r.state)
	r.order = r.order[:0]
	stuck := 0

	for i := range w.records {
		if !w.records[i].alive || r.state[i] != unvisited {
			continue
		}

		// Walk up until a root or an already classified ancestor.
		r.stack = r.stack[:0]
		cur := i
		for cur >= 0 && r.state[cur] == unvisited {
			r.state[cur] = visiting
			r.stack = append(r.stack, cur)
			cur = w.parentIndex(cur)
		}

		base, bad := -1, false
		if cur >= 0 {
			if r.state[cur] == resolved {
				base = r.depth[cur]
			} else {
				bad = true
			}
		}
		for j := len(r.stack) - 1; j >= 0; j-- {
			n := r.stack[j]
			if bad {
				r.state[n] = cyclic
				stuck++
				continue
			}
			base++
			r.depth[n] = base
			r.state[n] = resolved
			r.order = append(r.order, n)
		}
	}

	slices.SortStableFunc(r.order, func(a, b int) int {
		return cmp.Compare(r.depth[a], r.depth[b])
	})

	for _, i := range r.order {
		t := &w.transforms[i]
		p := w.parentIndex(i)
		r.changed[i] = t.dirty || (p >= 0 && r.changed[p])
		if !r.changed[i] {
			continue
		}
		if p < 0 {
			t.World = t.Local
		} else {
			t.World = w.transforms[p].World.Mul(t.Local)
		}
		t.dirty = false
	}

	if stuck > 0 {
		for i, s := range r.state {
			if s == cyclic {
				w.transforms[i].dirty = true
			}
		}
		w.log.Warn("transform hierarchy has cycles", zap.Int("entities", stuck))
		return fmt.Errorf("%w: %d entities unresolved", ErrHierarchyCycle, stuck)
	}
	return nil
}

// Position returns e's local position, or zero for a stale entity.
func (w *World) Position(e Entity) math.Vec3 {
	i, err := w.lookup(e)
	if err != nil {
		return math.Vec3{}
	}
	return w.transforms[i].Position
}

// WorldPosition returns the translation of e's world matrix.
func (w *World) WorldPosition(e Entity) math.Vec3 {
	i, err := w.lookup(e)
	if err != nil {
		return math.Vec3{}
	}
	return w.transforms[i].World.Translation()
}

// Forward returns e's world -Z axis, or (0,0,-1) for a stale entity.
func (w *World) Forward(e Entity) math.Vec3 {
	i, err := w.lookup(e)
	if err != nil {
		return math.Vec3{Z: -1}
	}
	return w.transforms[i].World.Column(2).Neg().Normalize()
}

// Right returns e's world +X axis, or (1,0,0) for a stale entity.
func (w *World) Right(e Entity) math.Vec3 {
	i, err := w.lookup(e)
	if err != nil {
		return math.Vec3{X: 1}
	}
	return w.transforms[i].World.Column(0).Normalize()
}

// Up returns e's world +Y axis, or (0,1,0) for a stale entity.
func (w *World) Up(e Entity) math.Vec3 {
	i, err := w.lookup(e)
	if err != nil {
		return math.Up
	}
	return w.transforms[i].World.Column(1).Normalize()
}
