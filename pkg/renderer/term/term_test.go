package term

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/viewtree/pkg/layout"
	"github.com/go-drift/viewtree/pkg/renderer"
	"github.com/go-drift/viewtree/pkg/renderer/memory"
)

func layer(r *memory.Renderer, name, content string, lay layout.Layout, parent renderer.Layer) renderer.Layer {
	l := r.CreateLayer(renderer.LayerSpec{Name: name, Class: name})
	r.UpdateLayerContent(l, content)
	r.ApplyLayout(l, lay)
	r.AttachLayer(l, parent, nil)
	return l
}

func box(left, top, w, h float64) layout.Layout {
	return layout.Layout{Left: left, Top: top, Width: w, Height: h, Opacity: 1, Scale: 1}
}

func TestFramePlacesContent(t *testing.T) {
	r := memory.New()
	p := layer(r, "panel", "", box(1, 0, 6, 3), nil)
	layer(r, "label", "hi\nthere", box(1, 1, 3, 2), p)

	c := New(r, WithSize(8, 3), WithPlain())
	want := []string{
		"        ",
		"  hi    ",
		"  the   ",
	}
	if diff := cmp.Diff(want, strings.Split(c.Frame(), "\n")); diff != "" {
		t.Errorf("frame mismatch (-want +got):\n%s", diff)
	}
}

func TestHiddenLayersAreSkipped(t *testing.T) {
	r := memory.New()
	p := layer(r, "panel", "", box(0, 0, 4, 1), nil)
	layer(r, "label", "abcd", box(0, 0, 4, 1), p)
	r.ApplyVisibleStyle(p, false)

	c := New(r, WithSize(4, 1), WithPlain())
	if got := c.Frame(); got != "    " {
		t.Errorf("expected an empty row, got %q", got)
	}
}

func TestCellSizeAndClipping(t *testing.T) {
	r := memory.New()
	layer(r, "wide", "0123456789", box(-4, 0, 40, 2), nil)

	c := New(r, WithSize(5, 1), WithCellSize(2, 2), WithPlain())
	if got := c.Frame(); got != "01234" {
		t.Errorf("expected clipped content, got %q", got)
	}
}

func TestStyledOutputKeepsText(t *testing.T) {
	r := memory.New()
	layer(r, "label", "ok", box(0, 0, 2, 1), nil)

	c := New(r, WithSize(4, 1), WithStyle("label", lipgloss.NewStyle().Bold(true)))
	var out bytes.Buffer
	if _, err := c.WriteTo(&out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "ok") {
		t.Errorf("styled frame lost its text: %q", out.String())
	}
}

func TestResize(t *testing.T) {
	r := memory.New()
	c := New(r, WithPlain())
	c.Resize(3, 2)
	if got := c.Frame(); got != "   \n   " {
		t.Errorf("unexpected frame %q", got)
	}
}
