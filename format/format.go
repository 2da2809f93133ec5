package format

import (
	"fmt"
)

type Format int

const (
	TextFormat Format = iota
	BinaryFormat
)

// Version is the highest text format version understood by this module.
const Version = 3

func ParseFormat(v string) (Format, error) {
	f, ok := map[string]Format{
		"t":      TextFormat,
		"text":   TextFormat,
		"b":      BinaryFormat,
		"binary": BinaryFormat,
	}[v]
	if ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

func (f Format) String() string {
	d, err := f.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (f Format) MarshalText() ([]byte, error) {
	switch f {
	case TextFormat:
		return []byte("text"), nil
	case BinaryFormat:
		return []byte("binary"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a format>", f)
	}
}

func (f *Format) UnmarshalText(d []byte) error {
	pf, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = pf
	return nil
}

func (f Format) IsText() bool   { return f == TextFormat }
func (f Format) IsBinary() bool { return f == BinaryFormat }

// Suffix returns the file extension for this format (including the dot).
func (f Format) Suffix(scene bool) string {
	switch {
	case f == TextFormat && scene:
		return ".tscn"
	case f == TextFormat:
		return ".tres"
	case f == BinaryFormat && scene:
		return ".scn"
	case f == BinaryFormat:
		return ".res"
	default:
		return ""
	}
}

// FromSuffix guesses the format of a file from its extension.
func FromSuffix(path string) (Format, bool) {
	for _, f := range AllFormats() {
		for _, scene := range []bool{false, true} {
			sfx := f.Suffix(scene)
			if len(path) > len(sfx) && path[len(path)-len(sfx):] == sfx {
				return f, true
			}
		}
	}
	return 0, false
}

// AllFormats returns all supported formats in preference order.
func AllFormats() []Format {
	return []Format{TextFormat, BinaryFormat}
}
