package ui

import "testing"

func TestDetermineLayoutMode(t *testing.T) {
	cases := []struct {
		cols int
		want LayoutMode
	}{
		{140, LayoutWide},
		{100, LayoutMedium},
		{0, LayoutMedium},
		{40, LayoutNarrow},
	}
	for _, tc := range cases {
		if got := DetermineLayoutMode(tc.cols); got != tc.want {
			t.Fatalf("cols=%d: expected %v, got %v", tc.cols, tc.want, got)
		}
	}
	if LayoutNarrow.wrapWidth() >= LayoutWide.wrapWidth() {
		t.Fatalf("expected narrow layout to wrap sooner")
	}
}
