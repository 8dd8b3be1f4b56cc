package canvas

// Style holds the visual attributes of a drawn item as an open key-value map.
// The map form survives JSON and TOML round-trips unchanged and lets callers
// attach attributes a particular canvas may not understand; canvases read the
// keys they know through the typed accessors and ignore the rest.
//
// Keys understood by the built-in canvases:
//
//	color      string  - text or stroke color ("#1a6b99", "red")
//	background string  - fill color of the box behind text ("" = no box)
//	edgecolor  string  - stroke color of the box behind text
//	alpha      float64 - opacity in [0, 1]
//	fontsize   float64 - font size in points
//	font       string  - font family or file name
//	pad        float64 - box padding around text, in drawing units
//	linewidth  float64 - stroke width for shapes, in points
//	dashed     bool    - dashed stroke for shapes
//
// The chart layer additionally reads "size", the diameter of markers and
// nodes as a fraction of the horizontal axis range. Canvases ignore it.
//
// Merging is shallow: a key present in the overriding style replaces the
// value wholesale, nested values are never merged recursively.
type Style map[string]any

// Merge returns a new style with o's keys laid over s. Either side may be
// nil. Neither input is modified.
func (s Style) Merge(o Style) Style {
	merged := make(Style, len(s)+len(o))
	for k, v := range s {
		merged[k] = v
	}
	for k, v := range o {
		merged[k] = v
	}
	return merged
}

// With returns a copy of s with one key set.
func (s Style) With(key string, value any) Style {
	return s.Merge(Style{key: value})
}

// Color returns the text or stroke color, or def when unset.
func (s Style) Color(def string) string {
	if v, ok := s.str("color"); ok {
		return v
	}
	return def
}

// Background returns the fill color of the box drawn behind text. An empty
// string means no box is drawn.
func (s Style) Background() string {
	v, _ := s.str("background")
	return v
}

// EdgeColor returns the stroke color of the box drawn behind text.
func (s Style) EdgeColor() string {
	v, _ := s.str("edgecolor")
	return v
}

// Alpha returns the opacity, or def when unset.
func (s Style) Alpha(def float64) float64 {
	if v, ok := s.num("alpha"); ok {
		return v
	}
	return def
}

// FontSize returns the font size in points, or def when unset or not
// positive.
func (s Style) FontSize(def float64) float64 {
	if v, ok := s.num("fontsize"); ok && v > 0 {
		return v
	}
	return def
}

// Font returns the font family or file name, or def when unset.
func (s Style) Font(def string) string {
	if v, ok := s.str("font"); ok {
		return v
	}
	return def
}

// Pad returns the padding around the text box in drawing units.
func (s Style) Pad() float64 {
	v, _ := s.num("pad")
	return v
}

// Size returns the marker or node diameter as a fraction of the axis range,
// or def when unset or not positive.
func (s Style) Size(def float64) float64 {
	if v, ok := s.num("size"); ok && v > 0 {
		return v
	}
	return def
}

// LineWidth returns the stroke width in points, or def when unset.
func (s Style) LineWidth(def float64) float64 {
	if v, ok := s.num("linewidth"); ok {
		return v
	}
	return def
}

// Dashed reports whether shapes should be stroked with a dashed pattern.
func (s Style) Dashed() bool {
	v, ok := s["dashed"].(bool)
	return ok && v
}

func (s Style) str(key string) (string, bool) {
	v, ok := s[key].(string)
	return v, ok && v != ""
}

// num coerces numeric values so styles decoded from JSON (float64), TOML
// (int64) and Go literals (int) all read back the same way.
func (s Style) num(key string) (float64, bool) {
	switch v := s[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
