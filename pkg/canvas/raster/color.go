package raster

import "strings"

// named colors the style layer accepts by keyword. Values are 0xRRGGBB.
var named = map[string]uint32{
	"black":   0x000000,
	"white":   0xFFFFFF,
	"red":     0xFF0000,
	"green":   0x008000,
	"lime":    0x00FF00,
	"blue":    0x0000FF,
	"cyan":    0x00FFFF,
	"magenta": 0xFF00FF,
	"yellow":  0xFFFF00,
	"gray":    0x808080,
	"grey":    0x808080,
	"silver":  0xC0C0C0,
	"orange":  0xFFA500,
	"purple":  0x800080,
	"brown":   0xA52A2A,
	"pink":    0xFFC0CB,
	"olive":   0x808000,
	"navy":    0x000080,
	"teal":    0x008080,
	"gold":    0xFFD700,
	"indigo":  0x4B0082,
	"violet":  0xEE82EE,
	"coral":   0xFF7F50,
	"salmon":  0xFA8072,
}

// single-letter aliases in the plotting tradition.
var letters = map[string]string{
	"b": "blue", "g": "green", "r": "red", "c": "cyan",
	"m": "magenta", "y": "yellow", "k": "black", "w": "white",
}

// parseColor turns a color keyword or hex string ("#abc" or "#aabbcc") into
// RGB components in [0, 1]. Unknown strings report ok = false; callers fall
// back to their own default.
func parseColor(s string) (r, g, b float64, ok bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if full, isLetter := letters[s]; isLetter {
		s = full
	}
	if rgb, isNamed := named[s]; isNamed {
		r, g, b = fromRGB(rgb)
		return r, g, b, true
	}
	if !strings.HasPrefix(s, "#") {
		return 0, 0, 0, false
	}
	hex := s[1:]
	switch len(hex) {
	case 3:
		var rgb uint32
		for i := 0; i < 3; i++ {
			v, good := nibble(hex[i])
			if !good {
				return 0, 0, 0, false
			}
			rgb = rgb<<8 | v*16 | v
		}
		r, g, b = fromRGB(rgb)
		return r, g, b, true
	case 6:
		var rgb uint32
		for i := 0; i < 6; i++ {
			v, good := nibble(hex[i])
			if !good {
				return 0, 0, 0, false
			}
			rgb = rgb<<4 | v
		}
		r, g, b = fromRGB(rgb)
		return r, g, b, true
	}
	return 0, 0, 0, false
}

func fromRGB(rgb uint32) (r, g, b float64) {
	return float64(rgb>>16&0xFF) / 255, float64(rgb>>8&0xFF) / 255, float64(rgb&0xFF) / 255
}

func nibble(c byte) (uint32, bool) {
	switch {
	case c >= '0' && c <= '9':
		return uint32(c - '0'), true
	case c >= 'a' && c <= 'f':
		return uint32(c-'a') + 10, true
	}
	return 0, false
}
