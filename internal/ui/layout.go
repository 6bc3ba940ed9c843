package ui

type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota
	LayoutMedium
	LayoutWide
)

func DetermineLayoutMode(cols int) LayoutMode {
	if cols <= 0 {
		return LayoutMedium
	}
	if cols < 60 {
		return LayoutNarrow
	}
	if cols >= 110 {
		return LayoutWide
	}
	return LayoutMedium
}

// wrapWidth is the markdown word-wrap column for a layout.
func (m LayoutMode) wrapWidth() int {
	switch m {
	case LayoutNarrow:
		return 48
	case LayoutWide:
		return 96
	default:
		return 78
	}
}

func (m LayoutMode) barWidth() int {
	switch m {
	case LayoutNarrow:
		return 12
	case LayoutWide:
		return 30
	default:
		return 20
	}
}
