// Package input polls SDL2 events and maps keys to viewer actions.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// Action is a viewer command bound to a key.
type Action int

// Viewer actions.
const (
	ActionNone Action = iota
	ActionQuit
	ActionOrbitLeft
	ActionOrbitRight
	ActionOrbitUp
	ActionOrbitDown
	ActionZoomIn
	ActionZoomOut
	ActionNextClip
	ActionWireframe
	ActionSnapshot
)

var bindings = map[sdl.Scancode]Action{
	sdl.SCANCODE_ESCAPE: ActionQuit,
	sdl.SCANCODE_LEFT:   ActionOrbitLeft,
	sdl.SCANCODE_RIGHT:  ActionOrbitRight,
	sdl.SCANCODE_UP:     ActionOrbitUp,
	sdl.SCANCODE_DOWN:   ActionOrbitDown,
	sdl.SCANCODE_EQUALS: ActionZoomIn,
	sdl.SCANCODE_MINUS:  ActionZoomOut,
	sdl.SCANCODE_SPACE:  ActionNextClip,
	sdl.SCANCODE_TAB:    ActionWireframe,
	sdl.SCANCODE_F12:    ActionSnapshot,
}

// Input tracks held keys and the one-shot actions of the last Update.
type Input struct {
	pressed []Action
	held    map[Action]bool
	quit    bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		pressed: make([]Action, 0, 8),
		held:    make(map[Action]bool),
	}
}

// Update polls SDL events. It returns true once the window was closed or
// Escape was pressed.
func (i *Input) Update() bool {
	i.pressed = i.pressed[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.quit = true

		case *sdl.KeyboardEvent:
			a, ok := bindings[e.Keysym.Scancode]
			if !ok {
				continue
			}
			if e.Type == sdl.KEYDOWN {
				if e.Repeat == 0 {
					i.pressed = append(i.pressed, a)
				}
				i.held[a] = true
			} else if e.Type == sdl.KEYUP {
				i.held[a] = false
			}
			if a == ActionQuit && e.Type == sdl.KEYDOWN {
				i.quit = true
			}
		}
	}

	return i.quit
}

// Pressed reports whether a was triggered during the last Update.
func (i *Input) Pressed(a Action) bool {
	for _, p := range i.pressed {
		if p == a {
			return true
		}
	}
	return false
}

// Held reports whether a's key is currently down.
func (i *Input) Held(a Action) bool {
	return i.held[a]
}
