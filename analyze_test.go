package viamothello

import (
	"context"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/rdk/logging"
	"go.viam.com/test"
)

// pipelineBoard keeps discs apart so none of them lines up into a long edge.
const pipelineBoard = `
	. . . . . . . .
	. . . . . . O .
	. . . . . . . .
	. . . O X . . .
	. . . X O . . .
	. . . . . . . .
	. X . . . . . .
	. . . . . . . .
`

var pipelineQuad = []r2.Point{{X: 40, Y: 40}, {X: 200, Y: 40}, {X: 200, Y: 200}, {X: 40, Y: 200}}

// pipelineConfig shrinks the mask blur so the 240px test image keeps sharp
// board edges.
func pipelineConfig() Config {
	cfg := DefaultConfig()
	cfg.Detector.MaskBlurFraction = 0.05
	return cfg
}

func TestAnalyze(t *testing.T) {
	want := mustBoard(t, pipelineBoard)
	img := renderBoard(t, 240, pipelineQuad, want)

	a := NewAnalyzer(pipelineConfig(), logging.NewTestLogger(t))
	res, err := a.Analyze(context.Background(), img)
	test.That(t, err, test.ShouldBeNil)

	pointsNear(t, res.Corners, pipelineQuad, 3)
	test.That(t, res.Board.String(), test.ShouldEqual, want.String())
	test.That(t, res.Score, test.ShouldResemble, ScoreSummary{Light: 3, Dark: 3, Empty: 58})
	test.That(t, res.Outcome, test.ShouldEqual, "Tied")
	test.That(t, res.LightMoves, test.ShouldResemble, want.ValidMoves(Light))
	test.That(t, res.DarkMoves, test.ShouldResemble, want.ValidMoves(Dark))

	for _, rec := range []*Recommendation{res.Light, res.Dark} {
		test.That(t, rec, test.ShouldNotBeNil)
		test.That(t, want.IsValidMove(rec.Move, rec.Side), test.ShouldBeTrue)
		pointsNear(t, []r2.Point{rec.Point}, []r2.Point{cellCenter(pipelineQuad, rec.Move.Row, rec.Move.Col)}, 3)
	}

	expected, _, _ := Minimax(want, 3, -Infinity, Infinity, true, Dark)
	test.That(t, res.Dark.Score, test.ShouldEqual, expected)
}

func TestAnalyzeNoBoard(t *testing.T) {
	img := renderBoard(t, 120, []r2.Point{{X: -10, Y: -10}, {X: -5, Y: -10}, {X: -5, Y: -5}, {X: -10, Y: -5}}, Board{})

	_, err := NewAnalyzer(DefaultConfig(), nil).Analyze(context.Background(), img)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, ErrorCode(err), test.ShouldEqual, "corner_detection_failed")
}

func TestAnalyzeBoard(t *testing.T) {
	a := NewAnalyzer(DefaultConfig(), logging.NewTestLogger(t))

	res, err := a.AnalyzeBoard(context.Background(), Board{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Outcome, test.ShouldEqual, "No pieces on the board yet")
	test.That(t, res.Light, test.ShouldBeNil)
	test.That(t, res.Dark, test.ShouldBeNil)

	m := res.ToMap()
	test.That(t, m["light_move"], test.ShouldBeNil)
	test.That(t, m["dark_move"], test.ShouldBeNil)
	test.That(t, m["light_score"], test.ShouldEqual, 0)

	res, err = a.WithDepth(1).AnalyzeBoard(context.Background(), NewBoard())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Dark.Move, test.ShouldResemble, Move{2, 3})
	test.That(t, res.Dark.Score, test.ShouldEqual, 3)

	m = res.ToMap()
	test.That(t, m["lead"], test.ShouldEqual, "Tied")
	test.That(t, m["dark_score"], test.ShouldEqual, 2)
	dark, ok := m["dark_move"].(map[string]interface{})
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, dark["name"], test.ShouldEqual, "d3")
	test.That(t, dark["row"], test.ShouldEqual, 2)
	test.That(t, dark["col"], test.ShouldEqual, 3)
	test.That(t, m["dark_moves"], test.ShouldResemble, []interface{}{"d3", "c4", "f5", "e6"})
	test.That(t, m["board"], test.ShouldHaveLength, 8)

	// the original analyzer keeps its depth
	test.That(t, a.Config().Search.Depth, test.ShouldEqual, 3)
}
