package token

import "fmt"

// Pos is a position in a document.  Line and Col are 1-based; Off is the
// 0-based byte offset.
type Pos struct {
	Line int
	Col  int
	Off  int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}
