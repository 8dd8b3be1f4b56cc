package fonts

import (
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/notate/pkg/errors"
)

func TestNewHasEmbeddedFamily(t *testing.T) {
	l := New()
	got := l.Names()
	want := []string{"go", "go-bold", "go-bolditalic", "go-italic", "go-mono"}
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFaceEmbedded(t *testing.T) {
	l := New()
	for _, name := range []string{Regular, Bold, Italic, BoldItalic, Mono} {
		f, err := l.Face(name, 12)
		if err != nil {
			t.Errorf("Face(%q, 12) error = %v", name, err)
			continue
		}
		if f == nil {
			t.Errorf("Face(%q, 12) = nil", name)
		}
	}
}

func TestFaceCaching(t *testing.T) {
	l := New()
	a, err := l.Face(Regular, 12)
	if err != nil {
		t.Fatalf("Face() error = %v", err)
	}
	b, err := l.Face(Regular, 12)
	if err != nil {
		t.Fatalf("Face() error = %v", err)
	}
	if a != b {
		t.Errorf("same name and size returned distinct faces")
	}

	c, err := l.Face(Regular, 14)
	if err != nil {
		t.Fatalf("Face() error = %v", err)
	}
	if a == c {
		t.Errorf("different sizes share a face")
	}
}

func TestFaceCanonicalNames(t *testing.T) {
	l := New()
	a, err := l.Face("go-bold", 12)
	if err != nil {
		t.Fatalf("Face() error = %v", err)
	}
	b, err := l.Face("  Go-Bold ", 12)
	if err != nil {
		t.Fatalf("Face() error = %v", err)
	}
	if a != b {
		t.Errorf("name canonicalization did not hit the cache")
	}
}

func TestFaceInvalidSize(t *testing.T) {
	l := New()
	for _, size := range []float64{0, -3} {
		_, err := l.Face(Regular, size)
		if !errors.Is(err, errors.ErrCodeInvalidArgument) {
			t.Errorf("Face(go, %v) error = %v, want INVALID_ARGUMENT", size, err)
		}
	}
}

func TestFaceUnknownName(t *testing.T) {
	l := New()
	_, err := l.Face("definitely-not-a-real-font-name-42", 12)
	if !errors.Is(err, errors.ErrCodeFontNotFound) {
		t.Errorf("Face() error = %v, want NOT_FOUND_FONT", err)
	}
}

func TestWidth(t *testing.T) {
	l := New()
	f, err := l.Face(Regular, 12)
	if err != nil {
		t.Fatalf("Face() error = %v", err)
	}

	short := Width(f, "M")
	long := Width(f, "Memphis")
	if short <= 0 {
		t.Errorf("Width(M) = %v, want > 0", short)
	}
	if long <= short {
		t.Errorf("Width(Memphis) = %v, want > Width(M) = %v", long, short)
	}
	if got := Width(f, ""); got != 0 {
		t.Errorf("Width(\"\") = %v, want 0", got)
	}
}

func TestFaceExtents(t *testing.T) {
	l := New()
	f, err := l.Face(Regular, 12)
	if err != nil {
		t.Fatalf("Face() error = %v", err)
	}

	ext := FaceExtents(f)
	if ext.Ascent <= 0 || ext.Descent <= 0 {
		t.Errorf("extents = %+v, want positive ascent and descent", ext)
	}
	if ext.Height <= ext.Ascent {
		t.Errorf("line height %v not above ascent %v", ext.Height, ext.Ascent)
	}
}

func TestRegisterInvalidatesFaces(t *testing.T) {
	l := New()
	l.Register("custom", goregular.TTF)

	before, err := l.Face("custom", 12)
	if err != nil {
		t.Fatalf("Face() error = %v", err)
	}

	l.Register("custom", goregular.TTF)
	after, err := l.Face("custom", 12)
	if err != nil {
		t.Fatalf("Face() error = %v", err)
	}
	if before == after {
		t.Errorf("re-registering did not drop the cached face")
	}
}

func TestLoadFileMissing(t *testing.T) {
	l := New()
	err := l.LoadFile("x", "/nonexistent/path.ttf")
	if !errors.Is(err, errors.ErrCodeFontNotFound) {
		t.Errorf("LoadFile() error = %v, want NOT_FOUND_FONT", err)
	}
}

func TestDefaultShared(t *testing.T) {
	if Default() != Default() {
		t.Errorf("Default() returned distinct libraries")
	}
}
