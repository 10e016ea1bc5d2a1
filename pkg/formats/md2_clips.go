package formats

// MD2Clip is a named, inclusive keyframe range.
type MD2Clip struct {
	Name  string
	Start int
	End   int
}

// MD2Clips lists the standard Quake 2 player animation ranges.
var MD2Clips = []MD2Clip{
	{"stand", 0, 39},
	{"run", 40, 45},
	{"attack", 46, 53},
	{"pain1", 54, 57},
	{"pain2", 58, 61},
	{"pain3", 62, 65},
	{"jump", 66, 71},
	{"flip", 72, 83},
	{"salute", 84, 94},
	{"taunt", 95, 111},
	{"wave", 112, 122},
	{"point", 123, 134},
	{"crstand", 135, 153},
	{"crwalk", 154, 159},
	{"crattack", 160, 168},
	{"crpain", 169, 172},
	{"crdeath", 173, 177},
	{"death1", 178, 183},
	{"death2", 184, 189},
	{"death3", 190, 197},
}

// LookupMD2Clip finds a clip by name. ok is false for unknown names and the
// caller picks its own fallback range.
func LookupMD2Clip(name string) (clip MD2Clip, ok bool) {
	for _, c := range MD2Clips {
		if c.Name == name {
			return c, true
		}
	}
	return MD2Clip{}, false
}

// Frames returns the number of keyframes in the clip.
func (c MD2Clip) Frames() int {
	return c.End - c.Start + 1
}
