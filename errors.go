package viamothello

import (
	"errors"
	"fmt"
)

var (
	// ErrCornerDetectionFailed is returned when the outline of the playing
	// surface does not reduce to a quadrilateral.
	ErrCornerDetectionFailed = errors.New("corner detection failed")

	// ErrPieceDetectionFailed matches every *PieceDetectionError via errors.Is.
	ErrPieceDetectionFailed = errors.New("piece detection failed")

	// ErrSearchAborted is returned when a search runs out of budget or its
	// context is done before the tree is exhausted.
	ErrSearchAborted = errors.New("search aborted")
)

// PieceDetectionError carries the cell that could not be classified and why.
type PieceDetectionError struct {
	Row, Col int
	Err      error
}

func (e *PieceDetectionError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("%v: %v", ErrPieceDetectionFailed, e.Err)
	}
	return fmt.Sprintf("%v at (%d, %d): %v", ErrPieceDetectionFailed, e.Row, e.Col, e.Err)
}

func (e *PieceDetectionError) Unwrap() error { return e.Err }

func (e *PieceDetectionError) Is(target error) bool { return target == ErrPieceDetectionFailed }

// ErrorCode maps err to the short code used in result documents.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCornerDetectionFailed):
		return "corner_detection_failed"
	case errors.Is(err, ErrPieceDetectionFailed):
		return "piece_detection_failed"
	case errors.Is(err, ErrSearchAborted):
		return "minimax_failed"
	}
	return "internal_error"
}
