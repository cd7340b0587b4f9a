package htmltext

import "fmt"

// Position locates a character in the normalized text stream.
// Offset counts bytes of normalized text; Line and Column are 1-based and
// Column counts characters since the last newline.
type Position struct {
	Offset int64
	Line   int
	Column int
}

// String formats the position as line:column.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

func startPosition() Position {
	return Position{Line: 1, Column: 1}
}
