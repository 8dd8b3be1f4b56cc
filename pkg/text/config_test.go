package text

import (
	"testing"

	"github.com/matzehuels/notate/pkg/errors"
)

func TestDrawOptionsDefaults(t *testing.T) {
	var o DrawOptions
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}

	if o.Align != AlignLeft {
		t.Errorf("Align = %q, want %q", o.Align, AlignLeft)
	}
	if o.VA != VATop {
		t.Errorf("VA = %q, want %q", o.VA, VATop)
	}
	if o.WordSpacing != DefaultWordSpacing {
		t.Errorf("WordSpacing = %v, want %v", o.WordSpacing, DefaultWordSpacing)
	}
	if o.LineHeight != DefaultLineHeight {
		t.Errorf("LineHeight = %v, want %v", o.LineHeight, DefaultLineHeight)
	}
}

func TestDrawOptionsValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    DrawOptions
		wantErr bool
	}{
		{
			name: "valid full options",
			opts: DrawOptions{WordSpacing: 0.01, LineHeight: 1.5, Align: AlignJustify, VA: VACenter, Pad: 0.1},
		},
		{
			name:    "negative word spacing",
			opts:    DrawOptions{WordSpacing: -0.01},
			wantErr: true,
		},
		{
			name:    "negative line height",
			opts:    DrawOptions{LineHeight: -1},
			wantErr: true,
		},
		{
			name:    "negative pad",
			opts:    DrawOptions{Pad: -0.5},
			wantErr: true,
		},
		{
			name: "fractional pads",
			opts: DrawOptions{LPad: 0.2, RPad: 0.3, TPad: 0.1},
		},
		{
			name:    "negative left pad",
			opts:    DrawOptions{LPad: -0.1},
			wantErr: true,
		},
		{
			name:    "negative top pad",
			opts:    DrawOptions{TPad: -0.1},
			wantErr: true,
		},
		{
			name:    "left and right pad consume the span",
			opts:    DrawOptions{LPad: 0.5, RPad: 0.5},
			wantErr: true,
		},
		{
			name:    "unknown alignment",
			opts:    DrawOptions{Align: "middle"},
			wantErr: true,
		},
		{
			name:    "unknown vertical alignment",
			opts:    DrawOptions{VA: "baseline"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAndSetDefaults() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, errors.ErrCodeInvalidArgument) {
				t.Errorf("error code = %v, want INVALID_ARGUMENT", errors.GetCode(err))
			}
		})
	}
}

func TestDrawOptionsAliases(t *testing.T) {
	tests := []struct {
		alias Align
		want  Align
	}{
		{alias: "justify-left", want: AlignJustifyStart},
		{alias: "justify-right", want: AlignJustifyEnd},
	}

	for _, tt := range tests {
		t.Run(string(tt.alias), func(t *testing.T) {
			o := DrawOptions{Align: tt.alias}
			if err := o.ValidateAndSetDefaults(); err != nil {
				t.Fatalf("ValidateAndSetDefaults() error = %v", err)
			}
			if o.Align != tt.want {
				t.Errorf("Align = %q, want %q", o.Align, tt.want)
			}
		})
	}
}

func TestDrawOptionsIdempotent(t *testing.T) {
	o := DrawOptions{WordSpacing: 0.01}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("first ValidateAndSetDefaults() error = %v", err)
	}
	first := o
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second ValidateAndSetDefaults() error = %v", err)
	}
	if o.WordSpacing != first.WordSpacing || o.LineHeight != first.LineHeight ||
		o.Align != first.Align || o.VA != first.VA {
		t.Errorf("second validation changed options: %+v -> %+v", first, o)
	}
}

func TestConfigDefaults(t *testing.T) {
	var c Config
	if err := c.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}

	if c != DefaultConfig() {
		t.Errorf("zero config validated to %+v, want %+v", c, DefaultConfig())
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "partial config keeps set values",
			config: Config{FontSize: 14},
		},
		{
			name:    "negative font size",
			config:  Config{FontSize: -1},
			wantErr: true,
		},
		{
			name:    "alpha above one",
			config:  Config{Alpha: 1.5},
			wantErr: true,
		},
		{
			name:    "negative word spacing",
			config:  Config{WordSpacing: -0.1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.ValidateAndSetDefaults()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAndSetDefaults() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
