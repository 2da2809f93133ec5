package token

import (
	"github.com/signadot/tres/format"
)

func errAt(p Pos, msg string, args ...any) error {
	return format.Errorf(format.ErrFormat, p.Line, msg, args...)
}
