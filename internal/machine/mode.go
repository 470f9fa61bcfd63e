package machine

type Mode uint8

const (
	Unrendered Mode = iota
	Rendering
	Paused
	Playing
)

func (m Mode) String() string {
	switch m {
	case Unrendered:
		return "unrendered"
	case Rendering:
		return "rendering"
	case Paused:
		return "rendered.paused"
	case Playing:
		return "rendered.playing.step"
	default:
		return "unknown"
	}
}

// Rendered reports whether m is a leaf of the rendered super-state.
func (m Mode) Rendered() bool {
	return m == Paused || m == Playing
}
