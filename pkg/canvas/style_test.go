package canvas

import "testing"

func TestStyleMerge(t *testing.T) {
	tests := []struct {
		name string
		base Style
		over Style
		key  string
		want any
	}{
		{
			name: "override replaces base key",
			base: Style{"color": "red", "fontsize": 12.0},
			over: Style{"color": "blue"},
			key:  "color",
			want: "blue",
		},
		{
			name: "base key survives when not overridden",
			base: Style{"color": "red", "fontsize": 12.0},
			over: Style{"color": "blue"},
			key:  "fontsize",
			want: 12.0,
		},
		{
			name: "override adds new key",
			base: Style{"color": "red"},
			over: Style{"background": "yellow"},
			key:  "background",
			want: "yellow",
		},
		{
			name: "nil base",
			base: nil,
			over: Style{"color": "blue"},
			key:  "color",
			want: "blue",
		},
		{
			name: "nil override",
			base: Style{"color": "red"},
			over: nil,
			key:  "color",
			want: "red",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.base.Merge(tt.over)
			if got[tt.key] != tt.want {
				t.Errorf("Merge()[%q] = %v, want %v", tt.key, got[tt.key], tt.want)
			}
		})
	}
}

func TestStyleMergeShallow(t *testing.T) {
	// Nested values are replaced wholesale, never merged recursively.
	base := Style{"meta": map[string]any{"a": 1, "b": 2}}
	over := Style{"meta": map[string]any{"a": 9}}

	got := base.Merge(over)
	nested, ok := got["meta"].(map[string]any)
	if !ok {
		t.Fatalf("Merge()[meta] = %T, want map[string]any", got["meta"])
	}
	if _, ok := nested["b"]; ok {
		t.Errorf("Merge() deep-merged nested map, want wholesale replacement")
	}
	if nested["a"] != 9 {
		t.Errorf("Merge()[meta][a] = %v, want 9", nested["a"])
	}
}

func TestStyleMergeDoesNotModifyInputs(t *testing.T) {
	base := Style{"color": "red"}
	over := Style{"color": "blue"}

	base.Merge(over)
	if base["color"] != "red" {
		t.Errorf("base modified: color = %v, want red", base["color"])
	}
	if over["color"] != "blue" {
		t.Errorf("override modified: color = %v, want blue", over["color"])
	}
}

func TestStyleAccessors(t *testing.T) {
	st := Style{
		"color":     "#1a6b99",
		"alpha":     0.8,
		"fontsize":  12,
		"linewidth": int64(2),
	}

	if got := st.Color("black"); got != "#1a6b99" {
		t.Errorf("Color() = %q, want %q", got, "#1a6b99")
	}
	if got := st.Alpha(1); got != 0.8 {
		t.Errorf("Alpha() = %v, want 0.8", got)
	}
	// Numeric coercion: int and int64 read back as float64.
	if got := st.FontSize(10); got != 12 {
		t.Errorf("FontSize() = %v, want 12", got)
	}
	if got := st.LineWidth(1); got != 2 {
		t.Errorf("LineWidth() = %v, want 2", got)
	}
}

func TestStyleAccessorDefaults(t *testing.T) {
	var st Style

	if got := st.Color("black"); got != "black" {
		t.Errorf("Color() on nil style = %q, want default", got)
	}
	if got := st.Alpha(1); got != 1 {
		t.Errorf("Alpha() on nil style = %v, want default", got)
	}
	if got := st.FontSize(10); got != 10 {
		t.Errorf("FontSize() on nil style = %v, want default", got)
	}
	if got := st.Background(); got != "" {
		t.Errorf("Background() on nil style = %q, want empty", got)
	}
}

func TestStyleFontSizeRejectsNonPositive(t *testing.T) {
	st := Style{"fontsize": -4.0}
	if got := st.FontSize(10); got != 10 {
		t.Errorf("FontSize() with negative value = %v, want default 10", got)
	}
}

func TestStyleWith(t *testing.T) {
	base := Style{"color": "red"}
	got := base.With("pad", 0.0025)

	if got.Pad() != 0.0025 {
		t.Errorf("With() did not set pad: got %v", got.Pad())
	}
	if _, ok := base["pad"]; ok {
		t.Errorf("With() modified the receiver")
	}
}
