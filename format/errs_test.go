package format

import (
	"errors"
	"io"
	"testing"
)

func TestErrorIs(t *testing.T) {
	err := Wrap(ErrIO, 4, io.ErrUnexpectedEOF, "reading %s", "x")
	err = InFile(err, "res://a.tres")
	if !errors.Is(err, ErrIO) {
		t.Errorf("expected ErrIO in %v", err)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected cause in %v", err)
	}
	want := "res://a.tres:4: io error: reading x: unexpected EOF"
	if got := err.Error(); got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestWrapKeepsInnermost(t *testing.T) {
	inner := Errorf(ErrStructure, 7, "missing parent %q", "A")
	err := Wrap(ErrDependency, 1, inner, "loading")
	if !errors.Is(err, ErrStructure) || errors.Is(err, ErrDependency) {
		t.Errorf("expected innermost kind to win: %v", err)
	}
}

func TestUnrecognizedIsFormat(t *testing.T) {
	if !errors.Is(ErrUnrecognized, ErrFormat) {
		t.Error("ErrUnrecognized should be a format error")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		err  bool
	}{
		{"t", TextFormat, false},
		{"binary", BinaryFormat, false},
		{"json", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.err {
			t.Errorf("%s: err = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %v want %v", tt.in, got, tt.want)
		}
	}
}

func TestFromSuffix(t *testing.T) {
	if f, ok := FromSuffix("res://x.tscn"); !ok || f != TextFormat {
		t.Errorf("tscn: %v %v", f, ok)
	}
	if f, ok := FromSuffix("res://x.res"); !ok || f != BinaryFormat {
		t.Errorf("res: %v %v", f, ok)
	}
	if _, ok := FromSuffix("res://x.png"); ok {
		t.Error("png should not be recognized")
	}
}
