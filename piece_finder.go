package viamothello

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/golang/geo/r2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// CoordinateMap holds, for every cell, the original-image point at the
// centre of the region that was sampled for it.
type CoordinateMap [BoardSize][BoardSize]r2.Point

// At returns the image point for m.
func (cm *CoordinateMap) At(m Move) r2.Point { return cm[m.Row][m.Col] }

// boardSampler rectifies the board once. After construction it is only
// read, so cells can be classified from several goroutines.
type boardSampler struct {
	cfg    ClassifierConfig
	toImg  *Homography
	warped *Raster
}

func newBoardSampler(r *Raster, corners []r2.Point, cfg ClassifierConfig) (*boardSampler, error) {
	if len(corners) != 4 {
		return nil, errors.Errorf("need 4 corners, got %d", len(corners))
	}
	for _, c := range corners {
		if math.IsNaN(c.X) || math.IsNaN(c.Y) || math.IsInf(c.X, 0) || math.IsInf(c.Y, 0) {
			return nil, errors.Errorf("corner %v is not finite", c)
		}
	}

	if math.Abs(polygonArea(corners)) < 1 {
		return nil, errors.Errorf("corners %v enclose no area", corners)
	}

	edge := float64(cfg.CanonicalSize - 1)
	square := []r2.Point{{X: 0, Y: 0}, {X: edge, Y: 0}, {X: edge, Y: edge}, {X: 0, Y: edge}}
	toSquare, err := NewHomography(corners, square)
	if err != nil {
		return nil, err
	}
	toImg, err := toSquare.Inverse()
	if err != nil {
		return nil, err
	}

	warped := warpPerspective(r, toImg, cfg.CanonicalSize).blur(cfg.BlurKernel, cfg.BlurSigma)
	return &boardSampler{cfg: cfg, toImg: toImg, warped: warped}, nil
}

// cellRegion is the inner part of a cell in canonical space, inset by a
// quarter of the cell on every side.
func (s *boardSampler) cellRegion(row, col int) image.Rectangle {
	scale := s.cfg.CanonicalSize / BoardSize
	margin := scale / s.cfg.MarginDivisor
	return image.Rect(
		scale*col+margin, scale*row+margin,
		scale*col+scale-margin, scale*row+scale-margin,
	)
}

func (s *boardSampler) classify(row, col int) (Disc, r2.Point, error) {
	if !IsOnBoard(row, col) {
		return Empty, r2.Point{}, errors.Errorf("cell (%d, %d) is off the board", row, col)
	}
	region := s.cellRegion(row, col)
	avg, ok := s.warped.meanColor(region)
	if !ok {
		return Empty, r2.Point{}, errors.Errorf("empty sample region %v", region)
	}

	x1, y1 := float64(region.Min.X), float64(region.Min.Y)
	x2, y2 := float64(region.Max.X), float64(region.Max.Y)
	var center r2.Point
	for _, p := range []r2.Point{{X: x1, Y: y1}, {X: x2, Y: y1}, {X: x2, Y: y2}, {X: x1, Y: y2}} {
		center = center.Add(s.toImg.Apply(p))
	}
	center = center.Mul(0.25)
	if math.IsNaN(center.X) || math.IsNaN(center.Y) || math.IsInf(center.X, 0) || math.IsInf(center.Y, 0) {
		return Empty, r2.Point{}, errors.New("cell centre maps to infinity")
	}

	return classifyColor(avg, s.cfg), center, nil
}

// classifyColor picks the nearest reference colour. The board colour wins
// every tie.
func classifyColor(c colorful.Color, cfg ClassifierConfig) Disc {
	best, bestDist := Empty, sqDist(c, rgb(cfg.Board))
	if d := sqDist(c, rgb(cfg.Light)); d < bestDist {
		best, bestDist = Light, d
	}
	if d := sqDist(c, rgb(cfg.Dark)); d < bestDist {
		best = Dark
	}
	return best
}

// ClassifyCell reports what is on cell (row, col) of the board bounded by
// corners, plus where the cell's centre lies in img. Corners go top-left,
// top-right, bottom-right, bottom-left. Any failure is a
// *PieceDetectionError.
func ClassifyCell(img image.Image, corners []r2.Point, row, col int, cfg ClassifierConfig) (Disc, r2.Point, error) {
	s, err := newBoardSampler(NewRaster(img), corners, cfg)
	if err != nil {
		return Empty, r2.Point{}, &PieceDetectionError{Row: row, Col: col, Err: err}
	}
	d, p, err := s.classify(row, col)
	if err != nil {
		return Empty, r2.Point{}, &PieceDetectionError{Row: row, Col: col, Err: err}
	}
	return d, p, nil
}

// ExtractBoard classifies all 64 cells in parallel. It returns either a
// fully populated board or a *PieceDetectionError, never a partial board.
func ExtractBoard(ctx context.Context, img image.Image, corners []r2.Point, cfg ClassifierConfig) (Board, CoordinateMap, error) {
	return extractBoard(ctx, NewRaster(img), corners, cfg)
}

func extractBoard(ctx context.Context, r *Raster, corners []r2.Point, cfg ClassifierConfig) (Board, CoordinateMap, error) {
	var (
		board  Board
		coords CoordinateMap
	)

	s, err := newBoardSampler(r, corners, cfg)
	if err != nil {
		return Board{}, CoordinateMap{}, &PieceDetectionError{Row: -1, Col: -1, Err: err}
	}

	g, ctx := errgroup.WithContext(ctx)
	for row := range BoardSize {
		g.Go(func() (err error) {
			col := 0
			defer func() {
				if p := recover(); p != nil {
					err = &PieceDetectionError{Row: row, Col: col, Err: fmt.Errorf("panic: %v", p)}
				}
			}()
			for ; col < BoardSize; col++ {
				if ctx.Err() != nil {
					return &PieceDetectionError{Row: row, Col: col, Err: ctx.Err()}
				}
				d, p, err := s.classify(row, col)
				if err != nil {
					return &PieceDetectionError{Row: row, Col: col, Err: err}
				}
				board[row][col], coords[row][col] = d, p
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Board{}, CoordinateMap{}, err
	}
	return board, coords, nil
}
