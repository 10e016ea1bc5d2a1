// Package scene holds entities, their components and the transform
// hierarchy.
package scene

import (
	"errors"
	"fmt"
	"iter"

	"go.uber.org/zap"

	"github.com/Faultbox/softcore/internal/logger"
)

// MaxEntities is the largest world NewWorld will build.
const MaxEntities = 256

// MaxNameLen is the longest stored entity name; longer names are cut.
const MaxNameLen = 23

// Scene errors.
var (
	ErrWorldFull      = errors.New("no free entity slot")
	ErrStaleEntity    = errors.New("stale or invalid entity")
	ErrHierarchyCycle = errors.New("transform hierarchy cycle")
)

// Entity is a slot index in the low 16 bits and a generation in the high
// 16. A destroyed entity's handle never matches the slot again.
type Entity uint32

// InvalidEntity never refers to a live entity.
const InvalidEntity Entity = 0xFFFFFFFF

func makeEntity(index int, gen uint16) Entity {
	return Entity(uint32(gen)<<16 | uint32(index))
}

func (e Entity) index() int  { return int(e & 0xFFFF) }
func (e Entity) gen() uint16 { return uint16(e >> 16) }

func (e Entity) String() string {
	if e == InvalidEntity {
		return "entity(invalid)"
	}
	return fmt.Sprintf("entity(%d#%d)", e.index(), e.gen())
}

// Meta is per-entity bookkeeping.
type Meta struct {
	Name       string
	Active     bool
	Layer      uint8
	Tag        uint16
	Components Component
}

type record struct {
	Meta
	gen   uint16
	alive bool
}

// World is a fixed-size entity table with parallel component arrays. It is
// not safe for concurrent use.
type World struct {
	records    []record
	transforms []Transform
	renderers  []MeshRenderer
	cameras    []Camera
	lights     []Light
	animators  []Animator

	res resolveScratch
	log *zap.Logger
}

// NewWorld creates a world with capacity slots, clamped to 1..MaxEntities.
func NewWorld(capacity int) *World {
	capacity = min(max(capacity, 1), MaxEntities)
	w := &World{
		records:    make([]record, capacity),
		transforms: make([]Transform, capacity),
		renderers:  make([]MeshRenderer, capacity),
		cameras:    make([]Camera, capacity),
		lights:     make([]Light, capacity),
		animators:  make([]Animator, capacity),
		res:        newResolveScratch(capacity),
		log:        logger.Named("scene"),
	}
	return w
}

// Capacity returns the number of entity slots.
func (w *World) Capacity() int { return len(w.records) }

// Count returns the number of live entities.
func (w *World) Count() int {
	n := 0
	for i := range w.records {
		if w.records[i].alive {
			n++
		}
	}
	return n
}

// Create adds an entity with a Transform and default-valued components.
func (w *World) Create(name string) (Entity, error) {
	for i := range w.records {
		r := &w.records[i]
		if r.alive {
			continue
		}
		if len(name) > MaxNameLen {
			name = name[:MaxNameLen]
		}
		r.gen++
		r.alive = true
		r.Meta = Meta{Name: name, Active: true, Components: CompTransform}

		w.transforms[i] = defaultTransform()
		w.renderers[i] = defaultMeshRenderer()
		w.cameras[i] = defaultCamera()
		w.lights[i] = defaultLight()
		w.animators[i] = defaultAnimator()
		return makeEntity(i, r.gen), nil
	}
	return InvalidEntity, fmt.Errorf("%w: all %d in use", ErrWorldFull, len(w.records))
}

// Destroy removes e. Its children become roots and are marked dirty.
func (w *World) Destroy(e Entity) error {
	i, err := w.lookup(e)
	if err != nil {
		return err
	}
	for j := range w.transforms {
		if w.records[j].alive && w.transforms[j].Parent == e {
			w.transforms[j].Parent = InvalidEntity
			w.transforms[j].dirty = true
		}
	}
	w.records[i].alive = false
	w.records[i].Components = 0
	return nil
}

// Reset destroys every entity.
func (w *World) Reset() {
	for i := range w.records {
		w.records[i].alive = false
		w.records[i].Components = 0
	}
}

// Valid reports whether e refers to a live entity.
func (w *World) Valid(e Entity) bool {
	_, err := w.lookup(e)
	return err == nil
}

func (w *World) lookup(e Entity) (int, error) {
	i := e.index()
	if e == InvalidEntity || i >= len(w.records) {
		return -1, fmt.Errorf("%w: %v", ErrStaleEntity, e)
	}
	r := &w.records[i]
	if !r.alive || r.gen != e.gen() {
		return -1, fmt.Errorf("%w: %v", ErrStaleEntity, e)
	}
	return i, nil
}

// Meta returns e's bookkeeping.
func (w *World) Meta(e Entity) (Meta, error) {
	i, err := w.lookup(e)
	if err != nil {
		return Meta{}, err
	}
	return w.records[i].Meta, nil
}

// SetActive includes or excludes e from Query.
func (w *World) SetActive(e Entity, active bool) error {
	i, err := w.lookup(e)
	if err != nil {
		return err
	}
	w.records[i].Active = active
	return nil
}

// SetLayer sets e's render layer.
func (w *World) SetLayer(e Entity, layer uint8) error {
	i, err := w.lookup(e)
	if err != nil {
		return err
	}
	w.records[i].Layer = layer
	return nil
}

// SetTag sets e's user tag.
func (w *World) SetTag(e Entity, tag uint16) error {
	i, err := w.lookup(e)
	if err != nil {
		return err
	}
	w.records[i].Tag = tag
	return nil
}

// AddComponent sets component bits on e.
func (w *World) AddComponent(e Entity, c Component) error {
	i, err := w.lookup(e)
	if err != nil {
		return err
	}
	w.records[i].Components |= c
	return nil
}

// RemoveComponent clears component bits on e.
func (w *World) RemoveComponent(e Entity, c Component) error {
	i, err := w.lookup(e)
	if err != nil {
		return err
	}
	w.records[i].Components &^= c
	return nil
}

// HasComponent reports whether e has every bit in c.
func (w *World) HasComponent(e Entity, c Component) bool {
	i, err := w.lookup(e)
	return err == nil && w.records[i].Components&c == c
}

// Transform returns a copy of e's transform. Use the setters to change it.
func (w *World) Transform(e Entity) (Transform, error) {
	i, err := w.lookup(e)
	if err != nil {
		return Transform{}, err
	}
	return w.transforms[i], nil
}

// MeshRenderer returns e's renderer for in-place edits.
func (w *World) MeshRenderer(e Entity) (*MeshRenderer, error) {
	i, err := w.lookup(e)
	if err != nil {
		return nil, err
	}
	return &w.renderers[i], nil
}

// Camera returns e's camera for in-place edits.
func (w *World) Camera(e Entity) (*Camera, error) {
	i, err := w.lookup(e)
	if err != nil {
		return nil, err
	}
	return &w.cameras[i], nil
}

// Light returns e's light for in-place edits.
func (w *World) Light(e Entity) (*Light, error) {
	i, err := w.lookup(e)
	if err != nil {
		return nil, err
	}
	return &w.lights[i], nil
}

// Animator returns e's animator for in-place edits.
func (w *World) Animator(e Entity) (*Animator, error) {
	i, err := w.lookup(e)
	if err != nil {
		return nil, err
	}
	return &w.animators[i], nil
}

// FindByName returns the first live entity named name.
func (w *World) FindByName(name string) (Entity, bool) {
	for i := range w.records {
		r := &w.records[i]
		if r.alive && r.Name == name {
			return makeEntity(i, r.gen), true
		}
	}
	return InvalidEntity, false
}

// Query yields every live, active entity that has all of required, in
// slot order.
func (w *World) Query(required Component) iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for i := range w.records {
			r := &w.records[i]
			if !r.alive || !r.Active || r.Components&required != required {
				continue
			}
			if !yield(makeEntity(i, r.gen)) {
				return
			}
		}
	}
}

// PrimaryCamera returns the first active camera marked primary, or else the
// first active camera.
func (w *World) PrimaryCamera() (Entity, bool) {
	first := InvalidEntity
	for e := range w.Query(CompTransform | CompCamera) {
		if w.cameras[e.index()].Primary {
			return e, true
		}
		if first == InvalidEntity {
			first = e
		}
	}
	return first, first != InvalidEntity
}
