package viamothello

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Infinity bounds every reachable disc differential.
const Infinity = 1 << 20

// ctxCheckInterval is how many nodes are visited between context checks.
const ctxCheckInterval = 256

// SearchResult is the outcome of a root search for one side.
type SearchResult struct {
	Side  Disc
	Score int
	Move  Move
	// Found is false when side had no legal move or depth was 0.
	Found bool
	Nodes int
}

type searcher struct {
	ctx      context.Context
	maxNodes int
	nodes    int
}

// Minimax is depth-limited minimax with alpha-beta pruning. side is the side
// to move at this node; leaves are scored from the point of view of whoever
// is maximizing. The first move reaching the best score wins ties, and moves
// are tried in row-major order, so the result is deterministic.
func Minimax(b Board, depth, alpha, beta int, maximizing bool, side Disc) (int, Move, bool) {
	s := &searcher{ctx: context.Background()}
	score, m, found, _ := s.minimax(b, depth, alpha, beta, maximizing, side)
	return score, m, found
}

func (s *searcher) minimax(b Board, depth, alpha, beta int, maximizing bool, side Disc) (int, Move, bool, error) {
	s.nodes++
	if s.maxNodes > 0 && s.nodes > s.maxNodes {
		return 0, Move{}, false, fmt.Errorf("%w: node budget of %d exhausted", ErrSearchAborted, s.maxNodes)
	}
	if s.nodes%ctxCheckInterval == 0 {
		if err := s.ctx.Err(); err != nil {
			return 0, Move{}, false, fmt.Errorf("%w: %w", ErrSearchAborted, err)
		}
	}

	moves := b.ValidMoves(side)
	if depth == 0 || len(moves) == 0 {
		perspective := side
		if !maximizing {
			perspective = side.Opponent()
		}
		return b.Evaluate(perspective), Move{}, false, nil
	}

	var best Move
	found := false

	if maximizing {
		value := -Infinity
		for _, m := range moves {
			score, _, _, err := s.minimax(b.Apply(m, side), depth-1, alpha, beta, false, side.Opponent())
			if err != nil {
				return 0, Move{}, false, err
			}
			if score > value {
				value, best, found = score, m, true
			}
			alpha = max(alpha, score)
			if beta <= alpha {
				break
			}
		}
		return value, best, found, nil
	}

	value := Infinity
	for _, m := range moves {
		score, _, _, err := s.minimax(b.Apply(m, side), depth-1, alpha, beta, true, side.Opponent())
		if err != nil {
			return 0, Move{}, false, err
		}
		if score < value {
			value, best, found = score, m, true
		}
		beta = min(beta, score)
		if beta <= alpha {
			break
		}
	}
	return value, best, found, nil
}

// BestMove searches for side's best move as the maximizing player. The
// search is cut short with ErrSearchAborted when ctx is done, the configured
// timeout passes or the node budget runs out.
func BestMove(ctx context.Context, b Board, side Disc, cfg SearchConfig) (SearchResult, error) {
	res := SearchResult{Side: side}
	if side != Light && side != Dark {
		return res, fmt.Errorf("cannot search for side %v", side)
	}
	if cfg.TimeoutSec > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout())
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return res, fmt.Errorf("%w: %w", ErrSearchAborted, err)
	}

	s := &searcher{ctx: ctx, maxNodes: cfg.MaxNodes}
	score, m, found, err := s.minimax(b, cfg.Depth, -Infinity, Infinity, true, side)
	res.Nodes = s.nodes
	if err != nil {
		return res, err
	}
	res.Score, res.Move, res.Found = score, m, found
	return res, nil
}

// BestMoves runs independent searches for both sides concurrently. Each
// search works on its own copy of b.
func BestMoves(ctx context.Context, b Board, cfg SearchConfig) (light, dark SearchResult, err error) {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		light, err = BestMove(ctx, b, Light, cfg)
		return err
	})
	g.Go(func() error {
		var err error
		dark, err = BestMove(ctx, b, Dark, cfg)
		return err
	})
	err = g.Wait()
	return light, dark, err
}
