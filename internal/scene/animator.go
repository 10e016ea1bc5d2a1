package scene

import (
	"math"

	"github.com/Faultbox/softcore/pkg/formats"
)

// FrameDuration is the time one keyframe is shown at speed 1 (10 fps).
const FrameDuration float32 = 0.1

// Animator steps through an inclusive keyframe range.
type Animator struct {
	Current       int
	Next          int
	Interpolation float32 // Blend from Current to Next, in [0,1)
	FrameTime     float32
	Speed         float32
	Start         int
	End           int
	Playing       bool
	Looping       bool
	Clip          string
}

func defaultAnimator() Animator {
	return Animator{Speed: 1}
}

// Play starts a named MD2 clip from its first frame. Unknown names play
// "stand".
func (a *Animator) Play(name string, loop bool) {
	clip, ok := formats.LookupMD2Clip(name)
	if !ok {
		clip, ok = formats.LookupMD2Clip("stand")
	}
	if !ok {
		clip = formats.MD2Clip{Name: "stand"}
	}
	a.PlayRange(clip.Name, clip.Start, clip.End, loop)
}

// PlayRange starts an arbitrary frame range.
func (a *Animator) PlayRange(name string, start, end int, loop bool) {
	if end < start {
		end = start
	}
	a.Clip = name
	a.Start, a.End = start, end
	a.Current = start
	a.Next = min(start+1, end)
	a.FrameTime = 0
	a.Interpolation = 0
	a.Playing = true
	a.Looping = loop
}

// Advance moves the animation forward by dt seconds. Any number of whole
// keyframes elapsed in one call is applied in a single step; a non-finite
// accumulator drops the pending time and finishes a one-shot clip.
func (a *Animator) Advance(dt float32) {
	if !a.Playing {
		return
	}
	a.FrameTime += dt * a.Speed
	switch {
	case math.IsNaN(float64(a.FrameTime)):
		a.FrameTime = 0
	case math.IsInf(float64(a.FrameTime), 1):
		a.FrameTime = 0
		if !a.Looping {
			a.step(float64(a.End - a.Start + 1))
		}
	case a.FrameTime >= FrameDuration:
		steps := math.Floor(float64(a.FrameTime / FrameDuration))
		a.FrameTime -= float32(steps) * FrameDuration
		if a.FrameTime < 0 || a.FrameTime >= FrameDuration {
			a.FrameTime = 0
		}
		a.step(steps)
	}
	a.Interpolation = a.FrameTime / FrameDuration
}

// step moves Current and Next forward by n keyframes.
func (a *Animator) step(n float64) {
	if n < 1 {
		return
	}
	span := a.End - a.Start + 1
	if a.Looping {
		k := int(math.Mod(n-1, float64(span)))
		a.Current = a.Start + wrap(a.Next-a.Start+k, span)
		a.Next = a.Start + wrap(a.Current-a.Start+1, span)
		return
	}
	k := int(min(n-1, float64(span)))
	a.Current = min(a.Next+k, a.End)
	a.Next = a.Current + 1
	if a.Next > a.End {
		a.Next = a.End
		a.Playing = false
	}
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}

// UpdateAnimators advances every live animator and copies its frame pair
// and blend into the entity's MeshRenderer when it has one.
func (w *World) UpdateAnimators(dt float32) {
	for i := range w.records {
		r := &w.records[i]
		if !r.alive || r.Components&CompAnimator == 0 {
			continue
		}
		a := &w.animators[i]
		a.Advance(dt)
		if r.Components&CompMeshRenderer != 0 {
			mr := &w.renderers[i]
			mr.FrameA = a.Current
			mr.FrameB = a.Next
			mr.Lerp = a.Interpolation
		}
	}
}
