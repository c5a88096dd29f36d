package viamothello

import (
	"context"
	"errors"
	"testing"

	"go.viam.com/test"
)

func TestMinimaxDepthZero(t *testing.T) {
	b := NewBoard().Apply(Move{2, 3}, Dark)
	test.That(t, b.ValidMoves(Light), test.ShouldNotBeEmpty)

	score, m, found := Minimax(b, 0, -Infinity, Infinity, true, Light)
	test.That(t, found, test.ShouldBeFalse)
	test.That(t, m, test.ShouldResemble, Move{})
	test.That(t, score, test.ShouldEqual, b.Evaluate(Light))
}

func TestMinimaxTieBreak(t *testing.T) {
	// all four opening moves are symmetric, so the first one wins
	for depth := 1; depth <= 4; depth++ {
		_, m, found := Minimax(NewBoard(), depth, -Infinity, Infinity, true, Dark)
		test.That(t, found, test.ShouldBeTrue)
		test.That(t, m, test.ShouldResemble, Move{2, 3})
	}

	score, _, _ := Minimax(NewBoard(), 1, -Infinity, Infinity, true, Dark)
	test.That(t, score, test.ShouldEqual, 3)
}

func TestMinimaxDeterministic(t *testing.T) {
	for _, b := range sampleBoards() {
		for _, side := range []Disc{Light, Dark} {
			s1, m1, f1 := Minimax(b, 3, -Infinity, Infinity, true, side)
			s2, m2, f2 := Minimax(b, 3, -Infinity, Infinity, true, side)
			test.That(t, s1, test.ShouldEqual, s2)
			test.That(t, m1, test.ShouldResemble, m2)
			test.That(t, f1, test.ShouldEqual, f2)
		}
	}
}

// fullMinimax is plain minimax without pruning.
func fullMinimax(b Board, depth int, maximizing bool, side, root Disc) int {
	moves := b.ValidMoves(side)
	if depth == 0 || len(moves) == 0 {
		return b.Evaluate(root)
	}
	best := Infinity
	if maximizing {
		best = -Infinity
	}
	for _, m := range moves {
		v := fullMinimax(b.Apply(m, side), depth-1, !maximizing, side.Opponent(), root)
		if maximizing {
			best = max(best, v)
		} else {
			best = min(best, v)
		}
	}
	return best
}

func TestPruningMatchesFullSearch(t *testing.T) {
	for _, b := range sampleBoards() {
		for _, side := range []Disc{Light, Dark} {
			score, _, _ := Minimax(b, 3, -Infinity, Infinity, true, side)
			test.That(t, score, test.ShouldEqual, fullMinimax(b, 3, true, side, side))
		}
	}
}

func TestBestMoveTakesMoreDiscs(t *testing.T) {
	b := mustBoard(t, `
		X O O O O O . .
		O . . . . . . .
		. . . . . . . .
		. . . . . . . .
		. . . . . . . .
		. . . . . . . .
		. . . . . . . .
		. . . . . . . .
	`)
	test.That(t, b.ValidMoves(Dark), test.ShouldResemble, []Move{{0, 6}, {2, 0}})

	cfg := DefaultSearchConfig()
	cfg.Depth = 1
	res, err := BestMove(context.Background(), b, Dark, cfg)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Found, test.ShouldBeTrue)
	test.That(t, res.Move, test.ShouldResemble, Move{0, 6})
	test.That(t, res.Score, test.ShouldEqual, 6)

	// light cannot trap a corner disc
	res, err = BestMove(context.Background(), b, Light, cfg)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Found, test.ShouldBeFalse)
	test.That(t, res.Score, test.ShouldEqual, 5)
}

func TestBestMoves(t *testing.T) {
	light, dark, err := BestMoves(context.Background(), NewBoard(), DefaultSearchConfig())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, light.Side, test.ShouldEqual, Light)
	test.That(t, dark.Side, test.ShouldEqual, Dark)
	test.That(t, light.Found, test.ShouldBeTrue)
	test.That(t, dark.Found, test.ShouldBeTrue)
	test.That(t, dark.Move, test.ShouldResemble, Move{2, 3})
	test.That(t, light.Move, test.ShouldResemble, Move{2, 4})
}

func TestBestMoveBudget(t *testing.T) {
	cfg := DefaultSearchConfig()
	cfg.MaxNodes = 5
	_, err := BestMove(context.Background(), NewBoard(), Dark, cfg)
	test.That(t, errors.Is(err, ErrSearchAborted), test.ShouldBeTrue)
	test.That(t, ErrorCode(err), test.ShouldEqual, "minimax_failed")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = BestMove(ctx, NewBoard(), Dark, DefaultSearchConfig())
	test.That(t, errors.Is(err, ErrSearchAborted), test.ShouldBeTrue)
	test.That(t, errors.Is(err, context.Canceled), test.ShouldBeTrue)

	_, err = BestMove(context.Background(), NewBoard(), Empty, DefaultSearchConfig())
	test.That(t, err, test.ShouldNotBeNil)
}
