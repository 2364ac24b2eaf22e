package log

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/viewport"
)

func TestPanelHeight(t *testing.T) {
	tests := []struct {
		h    int
		want int
	}{
		{60, 15},
		{24, 8},
		{9, 3},
	}
	for _, tt := range tests {
		if got := PanelHeight(tt.h); got != tt.want {
			t.Errorf("PanelHeight(%d) = %d, want %d", tt.h, got, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	vp := viewport.New(40, 3)
	if out := Render(50, false, "*", vp); !strings.Contains(out, "initializing") {
		t.Errorf("expected initializing notice, got %q", out)
	}

	vp.SetContent("one\ntwo\nthree\nfour\nfive")
	out := Render(50, true, "*", vp)
	if !strings.Contains(out, "one") {
		t.Errorf("expected first log line, got %q", out)
	}
	if !strings.Contains(out, "pgup/pgdn") {
		t.Errorf("expected scroll hint when content overflows, got %q", out)
	}
}
