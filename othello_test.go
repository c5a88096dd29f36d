package viamothello

import (
	"fmt"
	"testing"

	"go.viam.com/test"
)

func mustBoard(t *testing.T, s string) Board {
	t.Helper()
	b, err := ParseBoard(s)
	test.That(t, err, test.ShouldBeNil)
	return b
}

// sampleBoards is a handful of positions reached by playing the first legal
// move for whoever can move.
func sampleBoards() []Board {
	boards := []Board{{}, NewBoard()}
	b, side := NewBoard(), Dark
	for range 20 {
		moves := b.ValidMoves(side)
		if len(moves) == 0 {
			side = side.Opponent()
			moves = b.ValidMoves(side)
			if len(moves) == 0 {
				break
			}
		}
		b = b.Apply(moves[len(moves)/2], side)
		boards = append(boards, b)
		side = side.Opponent()
	}
	return boards
}

func TestStartingPosition(t *testing.T) {
	b := NewBoard()

	moves := b.ValidMoves(Dark)
	test.That(t, moves, test.ShouldResemble, []Move{{2, 3}, {3, 2}, {4, 5}, {5, 4}})
	test.That(t, b.ValidMoves(Light), test.ShouldResemble, []Move{{2, 4}, {3, 5}, {4, 2}, {5, 3}})
	test.That(t, b.Evaluate(Dark), test.ShouldEqual, 0)
	test.That(t, b.Evaluate(Light), test.ShouldEqual, 0)
	test.That(t, b.Score(), test.ShouldResemble, ScoreSummary{Light: 2, Dark: 2, Empty: 60})
}

func TestApplySingleFlip(t *testing.T) {
	b := NewBoard()
	m := Move{2, 3}
	test.That(t, b.Flips(m, Dark), test.ShouldEqual, 1)

	after := b.Apply(m, Dark)
	test.That(t, after.Count(Dark), test.ShouldEqual, b.Count(Dark)+2)
	test.That(t, after.Count(Light), test.ShouldEqual, b.Count(Light)-1)
	test.That(t, after[3][3], test.ShouldEqual, Dark)

	// the input board is untouched
	test.That(t, b, test.ShouldResemble, NewBoard())
}

func TestApplyMultipleDirections(t *testing.T) {
	b := mustBoard(t, `
		X . X . X . . .
		. O O O . . . .
		X O . O X . . .
		. O O O . . . .
		X . X . X . . .
		. . . . . . . .
		. . . . . . . .
		. . . . . . . .
	`)
	m := Move{2, 2}
	test.That(t, b.IsValidMove(m, Dark), test.ShouldBeTrue)
	test.That(t, b.Flips(m, Dark), test.ShouldEqual, 8)

	after := b.Apply(m, Dark)
	test.That(t, after.Count(Light), test.ShouldEqual, 0)
	test.That(t, after.Count(Dark), test.ShouldEqual, b.Count(Dark)+9)
}

func TestRunEndingAtEdgeDoesNotFlip(t *testing.T) {
	b := mustBoard(t, `
		. O O X . . . .
		. . . . . . . .
		. . . . . . . .
		. . . . . . . .
		. . . . . . . .
		. . . . . . . .
		. . . . . . . .
		. . . . . . O O
	`)
	test.That(t, b.IsValidMove(Move{0, 0}, Dark), test.ShouldBeTrue)
	test.That(t, b.Flips(Move{0, 0}, Dark), test.ShouldEqual, 2)
	// nothing beyond (7,7) to close the run
	test.That(t, b.IsValidMove(Move{7, 5}, Dark), test.ShouldBeFalse)
	test.That(t, b.ValidMoves(Dark), test.ShouldResemble, []Move{{0, 0}})
}

func TestFullBoardHasNoMoves(t *testing.T) {
	var b Board
	for r := range BoardSize {
		for c := range BoardSize {
			b[r][c] = Light
			if (r+c)%2 == 0 {
				b[r][c] = Dark
			}
		}
	}
	test.That(t, b.Full(), test.ShouldBeTrue)
	test.That(t, b.ValidMoves(Dark), test.ShouldBeEmpty)
	test.That(t, b.ValidMoves(Light), test.ShouldBeEmpty)
	test.That(t, b.ValidMoves(Empty), test.ShouldBeEmpty)
}

func TestBoardProperties(t *testing.T) {
	for i, b := range sampleBoards() {
		t.Run(fmt.Sprintf("board%d", i), func(t *testing.T) {
			s := b.Score()
			test.That(t, s.Light+s.Dark+s.Empty, test.ShouldEqual, 64)
			test.That(t, b.Evaluate(Light), test.ShouldEqual, -b.Evaluate(Dark))

			for _, side := range []Disc{Light, Dark} {
				for _, m := range b.ValidMoves(side) {
					test.That(t, b[m.Row][m.Col], test.ShouldEqual, Empty)
					after := b.Apply(m, side)
					test.That(t, after.Count(side.Opponent()), test.ShouldBeLessThan, b.Count(side.Opponent()))
				}
			}
		})
	}
}

func TestParseBoard(t *testing.T) {
	b, err := ParseBoard(NewBoard().String())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, b, test.ShouldResemble, NewBoard())

	_, err = ParseBoard("XO\n")
	test.That(t, err, test.ShouldNotBeNil)

	_, err = ParseBoard("........\n........\n........\n...OX...\n...XO...\n........\n........\n.......?\n")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestMoveNames(t *testing.T) {
	test.That(t, Move{2, 3}.String(), test.ShouldEqual, "d3")
	test.That(t, Move{0, 0}.String(), test.ShouldEqual, "a1")
	test.That(t, Move{7, 7}.String(), test.ShouldEqual, "h8")

	m, err := ParseMove("d3")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m, test.ShouldResemble, Move{2, 3})

	_, err = ParseMove("z9")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSides(t *testing.T) {
	test.That(t, Light.Opponent(), test.ShouldEqual, Dark)
	test.That(t, Dark.Opponent(), test.ShouldEqual, Light)
	test.That(t, fmt.Sprintf("%v", Dark), test.ShouldEqual, "Dark")
	test.That(t, fmt.Sprintf("%s", Light), test.ShouldEqual, "O")

	side, err := ParseSide("white")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, side, test.ShouldEqual, Light)
	_, err = ParseSide("green")
	test.That(t, err, test.ShouldNotBeNil)
}
