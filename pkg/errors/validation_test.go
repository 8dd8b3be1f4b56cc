package errors

import (
	"testing"
)

func TestValidatePadding(t *testing.T) {
	tests := []struct {
		name             string
		left, right, top float64
		wantErr          bool
	}{
		{"all zero", 0, 0, 0, false},
		{"typical margins", 0.1, 0.1, 0.05, false},
		{"just under full span", 0.5, 0.49, 0, false},

		{"negative left", -0.1, 0, 0, true},
		{"negative right", 0, -0.2, 0, true},
		{"negative top", 0, 0, -0.05, true},
		{"exactly full span", 0.5, 0.5, 0, true},
		{"over full span", 0.7, 0.6, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePadding(tt.left, tt.right, tt.top)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePadding(%g, %g, %g) error = %v, wantErr %v",
					tt.left, tt.right, tt.top, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidArgument) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidArgument)
			}
		})
	}
}

func TestValidateDocumentName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "quarterly-report", false},
		{"valid with underscore", "my_chart", false},
		{"valid with dot", "report.v2", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"path traversal", "foo/../bar", true},
		{"path separator", "charts/report", true},
		{"backslash", "charts\\report", true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocumentName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDocumentName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFontName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid family", "Go Regular", false},
		{"valid file name", "DejaVuSans.ttf", false},

		{"empty", "", true},
		{"with path", "fonts/DejaVuSans.ttf", true},
		{"with backslash", "fonts\\arial.ttf", true},
		{"control char", "arial\x00.ttf", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFontName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFontName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
