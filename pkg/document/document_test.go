package document

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/notate/pkg/errors"
	"github.com/matzehuels/notate/pkg/text"
)

func TestReadJSONMinimal(t *testing.T) {
	src := `{
		"charts": [
			{"timeseries": {"x": [0, 1, 2], "y": [10, 30, 20],
			                "options": {"label": "Lyon"}}}
		]
	}`

	d, err := ReadJSON(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if len(d.Charts) != 1 {
		t.Fatalf("len(Charts) = %d, want 1", len(d.Charts))
	}
	kind, err := d.Charts[0].Kind()
	if err != nil {
		t.Fatalf("Kind() error = %v", err)
	}
	if kind != "timeseries" {
		t.Errorf("Kind() = %q, want timeseries", kind)
	}
	ts := d.Charts[0].TimeSeries
	if got := ts.X; !reflect.DeepEqual(got, []float64{0, 1, 2}) {
		t.Errorf("X = %v", got)
	}
	if ts.Options.Label != "Lyon" {
		t.Errorf("Label = %q, want Lyon", ts.Options.Label)
	}
}

func TestReadJSONRejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"malformed", `{"charts": [`},
		{"future version", `{"version": 99, "charts": []}`},
		{"kindless chart", `{"charts": [{}]}`},
		{"twin kinds", `{"charts": [{"timeseries": {"x": [1], "y": [1]},
			"slope": {"start": [1], "end": [2]}}]}`},
		{"empty xlim", `{"axes": {"xlim": [2, 2]}, "charts": []}`},
		{"inverted ylim", `{"axes": {"ylim": [5, 1]}, "charts": []}`},
		{"sideways x ticks", `{"axes": {"xtick_side": "left"}, "charts": []}`},
		{"negative fontsize", `{"config": {"fontsize": -3}, "charts": []}`},
		{"bad caption align", `{"caption": {"text": "hi", "align": "middle"}, "charts": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.src))
			if err == nil {
				t.Fatal("ReadJSON() succeeded, want error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidDocument) {
				t.Errorf("error code = %v, want %v", err, errors.ErrCodeInvalidDocument)
			}
		})
	}
}

func TestChartKind(t *testing.T) {
	c := Chart{Slope: &SlopeChart{Start: []float64{1}, End: []float64{2}}}
	kind, err := c.Kind()
	if err != nil {
		t.Fatalf("Kind() error = %v", err)
	}
	if kind != "slope" {
		t.Errorf("Kind() = %q, want slope", kind)
	}

	twin := Chart{
		Bar100:     &Bar100Chart{},
		Population: &PopulationChart{},
	}
	_, err = twin.Kind()
	if err == nil {
		t.Fatal("Kind() succeeded on a twin-kind chart")
	}
	for _, want := range []string{"bar100", "population"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not name %s", err, want)
		}
	}
}

func TestTextBlockShapes(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		texts []string
		check func(t *testing.T, b TextBlock)
	}{
		{
			name:  "bare string splits",
			src:   `"hello world"`,
			texts: []string{"hello", "world"},
		},
		{
			name:  "list promotes strings",
			src:   `["New York", {"text": "wins", "style": {"color": "crimson"}}]`,
			texts: []string{"New", "York", "wins"},
			check: func(t *testing.T, b TextBlock) {
				if got := b.Tokens[2].Style.Color(""); got != "crimson" {
					t.Errorf("token style color = %q, want crimson", got)
				}
				if b.Tokens[0].Style != nil {
					t.Errorf("promoted token carries style %v", b.Tokens[0].Style)
				}
			},
		},
		{
			name:  "object with nested string",
			src:   `{"text": "hi there", "align": "center", "style": {"color": "gray"}}`,
			texts: []string{"hi", "there"},
			check: func(t *testing.T, b TextBlock) {
				if b.Align != text.AlignCenter {
					t.Errorf("Align = %q, want center", b.Align)
				}
				if got := b.Style.Color(""); got != "gray" {
					t.Errorf("block color = %q, want gray", got)
				}
			},
		},
		{
			name:  "object with nested list",
			src:   `{"text": ["a", {"text": "b", "label": "tag"}], "va": "top"}`,
			texts: []string{"a", "b"},
			check: func(t *testing.T, b TextBlock) {
				if b.VA != text.VATop {
					t.Errorf("VA = %q, want top", b.VA)
				}
				if b.Tokens[1].Label != "tag" {
					t.Errorf("Label = %q, want tag", b.Tokens[1].Label)
				}
			},
		},
		{
			name:  "null is empty",
			src:   `null`,
			texts: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b TextBlock
			if err := b.UnmarshalJSON([]byte(tt.src)); err != nil {
				t.Fatalf("UnmarshalJSON(%s) error = %v", tt.src, err)
			}
			var texts []string
			for _, tok := range b.Tokens {
				texts = append(texts, tok.Text)
			}
			if !reflect.DeepEqual(texts, tt.texts) {
				t.Fatalf("tokens = %v, want %v", texts, tt.texts)
			}
			if tt.check != nil {
				tt.check(t, b)
			}
		})
	}
}

func TestTextBlockRejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"scalar", `5`},
		{"numeric element", `[5]`},
		{"textless element", `[{"style": {"color": "red"}}]`},
		{"bad align", `{"text": "hi", "align": "middle"}`},
		{"bad va", `{"text": "hi", "va": "floating"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b TextBlock
			err := b.UnmarshalJSON([]byte(tt.src))
			if err == nil {
				t.Fatalf("UnmarshalJSON(%s) succeeded, want error", tt.src)
			}
			if !errors.Is(err, errors.ErrCodeInvalidDocument) {
				t.Errorf("error code = %v, want %v", err, errors.ErrCodeInvalidDocument)
			}
		})
	}
}

func TestTextBlockMarshalShapes(t *testing.T) {
	plain := TextBlock{Tokens: text.Split("hello world")}
	data, err := plain.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(data) != `"hello world"` {
		t.Errorf("plain block = %s, want a bare string", data)
	}

	styled := TextBlock{Tokens: []text.Token{
		{Text: "hello"},
		{Text: "world", Label: "tag"},
	}}
	data, err = styled.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if data[0] != '[' {
		t.Errorf("token-styled block = %s, want a list", data)
	}

	aligned := TextBlock{Tokens: text.Split("hi"), Align: text.AlignRight}
	data, err = aligned.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if data[0] != '{' {
		t.Errorf("aligned block = %s, want an object", data)
	}

	for _, b := range []TextBlock{plain, styled, aligned} {
		data, err := b.MarshalJSON()
		if err != nil {
			t.Fatalf("MarshalJSON() error = %v", err)
		}
		var back TextBlock
		if err := back.UnmarshalJSON(data); err != nil {
			t.Fatalf("UnmarshalJSON(%s) error = %v", data, err)
		}
		if !reflect.DeepEqual(back.Tokens, b.Tokens) {
			t.Errorf("round trip of %s changed tokens: %v != %v", data, back.Tokens, b.Tokens)
		}
		if back.Align != b.Align || back.VA != b.VA {
			t.Errorf("round trip of %s changed alignment", data)
		}
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	src := `{
		"theme": "dark",
		"config": {"fontsize": 12},
		"title": "Annual rainfall",
		"caption": {"text": ["Wettest", {"text": "year", "style": {"color": "#1a6b99"}}],
		            "align": "left"},
		"axes": {"ylim": [0, 100], "xticks": [{"at": 0, "label": "Jan"}]},
		"charts": [
			{"timeseries": {"x": [0, 1], "y": [10, 20], "options": {"label": "Lyon"}}},
			{"annotation": {"text": "a wet month", "span": [0.2, 0.8], "y": 15}}
		]
	}`

	d, err := ReadJSON(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(d, &buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	back, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON(round trip) error = %v", err)
	}
	if !reflect.DeepEqual(back, d) {
		t.Errorf("round trip changed the document:\n got %+v\nwant %+v", back, d)
	}
	if back.Title.String() != "Annual rainfall" {
		t.Errorf("Title = %q", back.Title.String())
	}
	if back.Axes.YLim == nil || back.Axes.YLim[1] != 100 {
		t.Errorf("YLim = %v", back.Axes.YLim)
	}
}

func TestImportExportJSON(t *testing.T) {
	d := &Document{
		Theme: "default",
		Charts: []Chart{
			{Population: &PopulationChart{Count: 20, Rows: 5}},
		},
	}
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := ExportJSON(d, path); err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}
	back, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON() error = %v", err)
	}
	if !reflect.DeepEqual(back, d) {
		t.Errorf("file round trip changed the document: %+v != %+v", back, d)
	}
}

func TestImportJSONMissingFile(t *testing.T) {
	_, err := ImportJSON(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("ImportJSON() succeeded on a missing file")
	}
}
