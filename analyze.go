package viamothello

import (
	"context"
	"image"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/samber/lo"

	"go.viam.com/rdk/logging"
	"go.viam.com/utils/trace"
)

// Recommendation is the best move found for one side.
type Recommendation struct {
	Side  Disc
	Move  Move
	Score int
	// Point is where Move lies in the analysed image. It is the zero point
	// when the board did not come from an image.
	Point r2.Point
}

// Analysis is everything learned from one photo.
type Analysis struct {
	Corners []r2.Point
	Board   Board
	Coords  CoordinateMap
	Score   ScoreSummary

	LightMoves []Move
	DarkMoves  []Move

	// Light and Dark are nil when that side has no legal move.
	Light *Recommendation
	Dark  *Recommendation

	Outcome string
}

// Analyzer runs photo -> corners -> board -> recommendations.
type Analyzer struct {
	cfg    Config
	logger logging.Logger
}

func NewAnalyzer(cfg Config, logger logging.Logger) *Analyzer {
	if logger == nil {
		logger = logging.NewLogger("othello")
	}
	return &Analyzer{cfg: cfg, logger: logger}
}

// Config returns the configuration the analyzer was built with.
func (a *Analyzer) Config() Config { return a.cfg }

// WithDepth returns a copy that searches depth plies.
func (a *Analyzer) WithDepth(depth int) *Analyzer {
	cp := *a
	cp.cfg.Search.Depth = depth
	return &cp
}

// Analyze reads the board in img and recommends a move for each side.
func (a *Analyzer) Analyze(ctx context.Context, img image.Image) (*Analysis, error) {
	ctx, span := trace.StartSpan(ctx, "othello::Analyze")
	defer span.End()

	r := NewRaster(img)

	_, cornerSpan := trace.StartSpan(ctx, "othello::detectCorners")
	det, err := detectCorners(r, a.cfg.Detector)
	cornerSpan.End()
	a.logger.Debugf("segments: %d families: %d/%d points: %d hull: %d polygon: %d",
		len(det.Segments), len(det.Families[0]), len(det.Families[1]),
		len(det.Points), len(det.Hull), len(det.Polygon))
	if err != nil {
		a.logger.Warnf("can't find board: %v", err)
		return nil, err
	}

	extractCtx, extractSpan := trace.StartSpan(ctx, "othello::extractBoard")
	board, coords, err := extractBoard(extractCtx, r, det.Corners, a.cfg.Classifier)
	extractSpan.End()
	if err != nil {
		a.logger.Warnf("can't read pieces: %v", err)
		return nil, err
	}

	res, err := a.AnalyzeBoard(ctx, board)
	if err != nil {
		return nil, err
	}
	res.Corners = det.Corners
	res.Coords = coords
	for _, rec := range []*Recommendation{res.Light, res.Dark} {
		if rec != nil {
			rec.Point = coords.At(rec.Move)
		}
	}
	return res, nil
}

// AnalyzeBoard scores board and searches for both sides' best moves.
func (a *Analyzer) AnalyzeBoard(ctx context.Context, board Board) (*Analysis, error) {
	ctx, span := trace.StartSpan(ctx, "othello::AnalyzeBoard")
	defer span.End()

	res := &Analysis{
		Board:      board,
		Score:      board.Score(),
		LightMoves: board.ValidMoves(Light),
		DarkMoves:  board.ValidMoves(Dark),
	}
	res.Outcome = Outcome(res.Score.Light, res.Score.Dark, res.LightMoves, res.DarkMoves)

	light, dark, err := BestMoves(ctx, board, a.cfg.Search)
	if err != nil {
		a.logger.Warnf("search failed: %v", err)
		return nil, err
	}
	res.Light = recommendation(light)
	res.Dark = recommendation(dark)

	for _, rec := range []*Recommendation{res.Light, res.Dark} {
		if rec == nil {
			continue
		}
		a.logger.Infof("%v best move %v (score %d)", rec.Side, rec.Move, rec.Score)
	}
	if res.Light == nil {
		a.logger.Infof("Light has no valid moves")
	}
	if res.Dark == nil {
		a.logger.Infof("Dark has no valid moves")
	}
	return res, nil
}

func recommendation(sr SearchResult) *Recommendation {
	if !sr.Found {
		return nil
	}
	return &Recommendation{Side: sr.Side, Move: sr.Move, Score: sr.Score}
}

// ToMap renders the analysis as a DoCommand style document.
func (a *Analysis) ToMap() map[string]interface{} {
	rows := strings.Split(strings.TrimSuffix(a.Board.String(), "\n"), "\n")
	return map[string]interface{}{
		"light_score": a.Score.Light,
		"dark_score":  a.Score.Dark,
		"lead":        a.Outcome,
		"light_move":  a.Light.toMap(),
		"dark_move":   a.Dark.toMap(),
		"light_moves": moveNames(a.LightMoves),
		"dark_moves":  moveNames(a.DarkMoves),
		"corners": lo.Map(a.Corners, func(p r2.Point, _ int) interface{} {
			return map[string]interface{}{"x": p.X, "y": p.Y}
		}),
		"board": lo.Map(rows, func(s string, _ int) interface{} { return s }),
	}
}

func (rec *Recommendation) toMap() interface{} {
	if rec == nil {
		return nil
	}
	return map[string]interface{}{
		"row":   rec.Move.Row,
		"col":   rec.Move.Col,
		"name":  rec.Move.String(),
		"score": rec.Score,
		"x":     rec.Point.X,
		"y":     rec.Point.Y,
	}
}

func moveNames(moves []Move) []interface{} {
	return lo.Map(moves, func(m Move, _ int) interface{} { return m.String() })
}
