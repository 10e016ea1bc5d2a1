package scene

import (
	"math"
	"testing"
)

func TestAnimatorPlay(t *testing.T) {
	tests := []struct {
		clip       string
		wantName   string
		start, end int
	}{
		{"run", "run", 40, 45},
		{"death3", "death3", 190, 197},
		{"crstand", "crstand", 135, 153},
		{"no-such-clip", "stand", 0, 39},
	}
	for _, tt := range tests {
		t.Run(tt.clip, func(t *testing.T) {
			a := defaultAnimator()
			a.Play(tt.clip, true)
			if a.Clip != tt.wantName || a.Start != tt.start || a.End != tt.end {
				t.Errorf("clip = %s %d..%d, want %s %d..%d", a.Clip, a.Start, a.End, tt.wantName, tt.start, tt.end)
			}
			if a.Current != tt.start || a.Next != tt.start+1 || !a.Playing || !a.Looping {
				t.Errorf("state = %+v", a)
			}
		})
	}
}

func TestAnimatorAdvance(t *testing.T) {
	t.Run("interpolates", func(t *testing.T) {
		a := defaultAnimator()
		a.Play("run", true)
		a.Advance(0.05)
		if a.Current != 40 || a.Next != 41 || !near(a.Interpolation, 0.5) {
			t.Errorf("state = %+v", a)
		}
	})

	t.Run("loops", func(t *testing.T) {
		a := defaultAnimator()
		a.PlayRange("tiny", 0, 2, true)
		want := [][2]int{{1, 2}, {2, 0}, {0, 1}}
		for i, w := range want {
			a.Advance(0.1)
			if a.Current != w[0] || a.Next != w[1] {
				t.Errorf("tick %d: current %d next %d, want %v", i, a.Current, a.Next, w)
			}
		}
		if !a.Playing {
			t.Error("looping animation stopped")
		}
	})

	t.Run("stops", func(t *testing.T) {
		a := defaultAnimator()
		a.PlayRange("once", 0, 2, false)
		a.Advance(0.1)
		a.Advance(0.1)
		if a.Current != 2 || a.Next != 2 || a.Playing {
			t.Errorf("state = %+v", a)
		}
		a.Advance(1)
		if a.Current != 2 {
			t.Error("stopped animation advanced")
		}
	})

	t.Run("catches up", func(t *testing.T) {
		a := defaultAnimator()
		a.Play("stand", true)
		a.Advance(0.35)
		if a.Current != 3 || a.Next != 4 {
			t.Errorf("current %d next %d, want 3 4", a.Current, a.Next)
		}
		if a.Interpolation < 0 || a.Interpolation >= 1 {
			t.Errorf("interpolation %v out of range", a.Interpolation)
		}
	})

	t.Run("speed", func(t *testing.T) {
		a := defaultAnimator()
		a.Play("stand", true)
		a.Speed = 2
		a.Advance(0.05)
		if a.Current != 1 {
			t.Errorf("current = %d, want 1", a.Current)
		}
	})

	t.Run("many frames in one tick", func(t *testing.T) {
		a := defaultAnimator()
		a.Play("run", true)
		a.Advance(4.25)
		// 42 keyframes over a 6-frame loop lands back on the first frame.
		if a.Current != 40 || a.Next != 41 {
			t.Errorf("current %d next %d, want 40 41", a.Current, a.Next)
		}
	})

	t.Run("huge and infinite dt", func(t *testing.T) {
		for _, dt := range []float32{1e7, float32(math.Inf(1))} {
			a := defaultAnimator()
			a.Play("stand", true)
			a.Advance(dt)
			if a.Current < 0 || a.Current > 39 || a.Next < 0 || a.Next > 39 || !a.Playing {
				t.Errorf("dt %v: looping state = %+v", dt, a)
			}
			if a.Interpolation < 0 || a.Interpolation >= 1 {
				t.Errorf("dt %v: interpolation %v out of range", dt, a.Interpolation)
			}

			once := defaultAnimator()
			once.PlayRange("once", 0, 5, false)
			once.Advance(dt)
			if once.Current != 5 || once.Next != 5 || once.Playing {
				t.Errorf("dt %v: one-shot state = %+v", dt, once)
			}
		}
	})

	t.Run("single frame", func(t *testing.T) {
		a := defaultAnimator()
		a.PlayRange("still", 5, 5, true)
		a.Advance(0.25)
		if a.Current != 5 || a.Next != 5 {
			t.Errorf("current %d next %d", a.Current, a.Next)
		}
	})
}

func TestUpdateAnimators(t *testing.T) {
	w := NewWorld(4)
	e := mustCreate(t, w, "md2")
	w.AddComponent(e, CompMeshRenderer|CompAnimator)
	a, _ := w.Animator(e)
	a.Play("run", true)

	idle := mustCreate(t, w, "idle")
	w.AddComponent(idle, CompMeshRenderer)

	w.UpdateAnimators(0.05)

	mr, _ := w.MeshRenderer(e)
	if mr.FrameA != 40 || mr.FrameB != 41 || !near(mr.Lerp, 0.5) {
		t.Errorf("mesh renderer = %d %d %v", mr.FrameA, mr.FrameB, mr.Lerp)
	}
	other, _ := w.MeshRenderer(idle)
	if other.FrameA != 0 || other.FrameB != 0 || other.Lerp != 0 {
		t.Error("entity without animator was touched")
	}
}
