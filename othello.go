package viamothello

import (
	"fmt"
	"strings"

	"github.com/corentings/chess/v2"
)

// BoardSize is the number of rows and columns on an Othello board.
const BoardSize = 8

// Disc is the content of one cell, and doubles as the side to move.
type Disc int8

const (
	Dark  Disc = -1
	Empty Disc = 0
	Light Disc = 1
)

// Opponent returns the other side. Empty has no opponent and maps to itself.
func (d Disc) Opponent() Disc { return -d }

func (d Disc) Format(s fmt.State, c rune) {
	switch c {
	case 's': // board rendering
		switch d {
		case Dark:
			fmt.Fprint(s, "X")
		case Light:
			fmt.Fprint(s, "O")
		default:
			fmt.Fprint(s, "·")
		}
	case 'd':
		fmt.Fprintf(s, "%d", int8(d))
	default:
		switch d {
		case Dark:
			fmt.Fprint(s, "Dark")
		case Light:
			fmt.Fprint(s, "Light")
		default:
			fmt.Fprint(s, "Empty")
		}
	}
}

// ParseSide accepts "light"/"white" and "dark"/"black".
func ParseSide(s string) (Disc, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light", "white", "o", "1":
		return Light, nil
	case "dark", "black", "x", "-1":
		return Dark, nil
	}
	return Empty, fmt.Errorf("unknown side %q", s)
}

// Move is a cell a side can play on.
type Move struct {
	Row, Col int
}

// String returns the algebraic cell name: columns a-h, rows 1-8 from the top.
func (m Move) String() string {
	if !IsOnBoard(m.Row, m.Col) {
		return fmt.Sprintf("(%d,%d)", m.Row, m.Col)
	}
	return chess.NewSquare(chess.File(m.Col), chess.Rank(m.Row)).String()
}

// ParseMove is the inverse of Move.String.
func ParseMove(s string) (Move, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 {
		return Move{}, fmt.Errorf("bad move %q", s)
	}
	m := Move{Row: int(s[1] - '1'), Col: int(s[0] - 'a')}
	if !IsOnBoard(m.Row, m.Col) {
		return Move{}, fmt.Errorf("move %q is off the board", s)
	}
	return m, nil
}

var directions = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// IsOnBoard reports whether (r, c) lies in [0,8)x[0,8).
func IsOnBoard(r, c int) bool {
	return r >= 0 && r < BoardSize && c >= 0 && c < BoardSize
}

// Board is indexed [row][col]. It is a plain array so assignment clones it.
type Board [BoardSize][BoardSize]Disc

// NewBoard returns the standard starting position.
func NewBoard() Board {
	var b Board
	mid := BoardSize / 2
	b[mid-1][mid-1], b[mid][mid] = Light, Light
	b[mid-1][mid], b[mid][mid-1] = Dark, Dark
	return b
}

// ParseBoard reads eight rows of eight cells. X/B is dark, O/W is light and
// any of . · - _ is empty. Spaces are ignored.
func ParseBoard(s string) (Board, error) {
	var b Board
	row := 0
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), "")
		if line == "" {
			continue
		}
		if row >= BoardSize {
			return b, fmt.Errorf("too many rows")
		}
		col := 0
		for _, r := range line {
			if col >= BoardSize {
				return b, fmt.Errorf("row %d has more than %d cells", row, BoardSize)
			}
			switch r {
			case 'X', 'x', 'B', 'b':
				b[row][col] = Dark
			case 'O', 'o', 'W', 'w':
				b[row][col] = Light
			case '.', '·', '-', '_':
				b[row][col] = Empty
			default:
				return b, fmt.Errorf("bad cell %q at row %d", r, row)
			}
			col++
		}
		if col != BoardSize {
			return b, fmt.Errorf("row %d has %d cells", row, col)
		}
		row++
	}
	if row != BoardSize {
		return b, fmt.Errorf("need %d rows, got %d", BoardSize, row)
	}
	return b, nil
}

func (b Board) String() string {
	var sb strings.Builder
	for r := range BoardSize {
		for c := range BoardSize {
			fmt.Fprintf(&sb, "%s", b[r][c])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Count returns the number of cells holding d.
func (b Board) Count(d Disc) int {
	n := 0
	for r := range BoardSize {
		for c := range BoardSize {
			if b[r][c] == d {
				n++
			}
		}
	}
	return n
}

// ScoreSummary is the raw disc count; Light+Dark+Empty is always 64.
type ScoreSummary struct {
	Light, Dark, Empty int
}

// Score counts both colours independent of whose turn it is.
func (b Board) Score() ScoreSummary {
	var s ScoreSummary
	for r := range BoardSize {
		for c := range BoardSize {
			switch b[r][c] {
			case Light:
				s.Light++
			case Dark:
				s.Dark++
			default:
				s.Empty++
			}
		}
	}
	return s
}

// Evaluate is the disc differential from side's point of view.
func (b Board) Evaluate(side Disc) int {
	s := b.Score()
	if side == Dark {
		return s.Dark - s.Light
	}
	return s.Light - s.Dark
}

// Full reports whether no empty cell remains.
func (b Board) Full() bool {
	return b.Count(Empty) == 0
}

// capturesFrom returns how many opponent discs side would trap walking from
// (r, c) in direction (dr, dc).
func (b Board) capturesFrom(r, c, dr, dc int, side Disc) int {
	opponent := side.Opponent()
	n := 0
	r, c = r+dr, c+dc
	for IsOnBoard(r, c) && b[r][c] == opponent {
		n++
		r, c = r+dr, c+dc
	}
	if n > 0 && IsOnBoard(r, c) && b[r][c] == side {
		return n
	}
	return 0
}

// IsValidMove reports whether side may play m.
func (b Board) IsValidMove(m Move, side Disc) bool {
	if !IsOnBoard(m.Row, m.Col) || b[m.Row][m.Col] != Empty || side == Empty {
		return false
	}
	for _, d := range directions {
		if b.capturesFrom(m.Row, m.Col, d[0], d[1], side) > 0 {
			return true
		}
	}
	return false
}

// ValidMoves lists every legal move for side in row-major order. The order
// is part of the contract: search tie-breaks depend on it.
func (b Board) ValidMoves(side Disc) []Move {
	var moves []Move
	for r := range BoardSize {
		for c := range BoardSize {
			m := Move{r, c}
			if b.IsValidMove(m, side) {
				moves = append(moves, m)
			}
		}
	}
	return moves
}

// Flips returns how many discs m would turn over.
func (b Board) Flips(m Move, side Disc) int {
	if !IsOnBoard(m.Row, m.Col) || b[m.Row][m.Col] != Empty {
		return 0
	}
	n := 0
	for _, d := range directions {
		n += b.capturesFrom(m.Row, m.Col, d[0], d[1], side)
	}
	return n
}

// Apply returns a copy of b with side's disc placed on m and every trapped
// run flipped. b is left untouched. m is expected to come from ValidMoves.
func (b Board) Apply(m Move, side Disc) Board {
	b[m.Row][m.Col] = side
	for _, d := range directions {
		n := b.capturesFrom(m.Row, m.Col, d[0], d[1], side)
		r, c := m.Row, m.Col
		for range n {
			r, c = r+d[0], c+d[1]
			b[r][c] = side
		}
	}
	return b
}
