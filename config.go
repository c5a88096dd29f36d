package viamothello

import (
	"fmt"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/multierr"
)

// DetectorConfig holds the tuning constants of the corner detector.
// Lengths given as fractions are multiplied by the image height.
type DetectorConfig struct {
	ChromaKey        [3]float64 `json:"chroma_key" mapstructure:"chroma_key"`
	ChromaThreshold  float64    `json:"chroma_threshold" mapstructure:"chroma_threshold"`
	MaskBlurSigma    float64    `json:"mask_blur_sigma" mapstructure:"mask_blur_sigma"`
	MaskBlurFraction float64    `json:"mask_blur_fraction" mapstructure:"mask_blur_fraction"`
	EdgeBlurKernel   int        `json:"edge_blur_kernel" mapstructure:"edge_blur_kernel"`
	CannyLow         float64    `json:"canny_low" mapstructure:"canny_low"`
	CannyHigh        float64    `json:"canny_high" mapstructure:"canny_high"`

	HoughVoteFraction      float64 `json:"hough_vote_fraction" mapstructure:"hough_vote_fraction"`
	HoughMinLengthFraction float64 `json:"hough_min_length_fraction" mapstructure:"hough_min_length_fraction"`
	HoughMaxGapFraction    float64 `json:"hough_max_gap_fraction" mapstructure:"hough_max_gap_fraction"`

	AngleEpsilon     float64 `json:"angle_epsilon" mapstructure:"angle_epsilon"`
	FamilyDot        float64 `json:"family_dot" mapstructure:"family_dot"`
	GridPoints       int     `json:"grid_points" mapstructure:"grid_points"`
	PolygonTolerance float64 `json:"polygon_tolerance" mapstructure:"polygon_tolerance"`
	BoundsMargin     float64 `json:"bounds_margin" mapstructure:"bounds_margin"`

	// Seed drives the Hough point order and k-means initialisation.
	Seed int64 `json:"seed" mapstructure:"seed"`
}

// DefaultDetectorConfig returns the empirically tuned detector constants.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		ChromaKey:              [3]float64{0, 1, 0},
		ChromaThreshold:        0.95,
		MaskBlurSigma:          10,
		MaskBlurFraction:       0.1,
		EdgeBlurKernel:         5,
		CannyLow:               25,
		CannyHigh:              75,
		HoughVoteFraction:      0.1,
		HoughMinLengthFraction: 0.25,
		HoughMaxGapFraction:    0.1,
		AngleEpsilon:           0.1,
		FamilyDot:              0.95,
		GridPoints:             81,
		PolygonTolerance:       0.02,
		BoundsMargin:           50,
		Seed:                   1337,
	}
}

func (cfg DetectorConfig) Validate() error {
	var err error
	if cfg.ChromaThreshold <= 0 {
		err = multierr.Append(err, fmt.Errorf("chroma_threshold must be positive, got %v", cfg.ChromaThreshold))
	}
	if cfg.MaskBlurSigma <= 0 || cfg.MaskBlurFraction <= 0 {
		err = multierr.Append(err, fmt.Errorf("mask blur needs a positive sigma and kernel fraction"))
	}
	if cfg.EdgeBlurKernel < 1 {
		err = multierr.Append(err, fmt.Errorf("edge_blur_kernel must be at least 1, got %d", cfg.EdgeBlurKernel))
	}
	if cfg.CannyLow <= 0 || cfg.CannyHigh < cfg.CannyLow {
		err = multierr.Append(err, fmt.Errorf("bad canny thresholds %v/%v", cfg.CannyLow, cfg.CannyHigh))
	}
	if cfg.HoughVoteFraction <= 0 || cfg.HoughMinLengthFraction <= 0 || cfg.HoughMaxGapFraction < 0 {
		err = multierr.Append(err, fmt.Errorf("hough fractions must be positive"))
	}
	if cfg.AngleEpsilon <= 0 {
		err = multierr.Append(err, fmt.Errorf("angle_epsilon must be positive, got %v", cfg.AngleEpsilon))
	}
	if cfg.FamilyDot <= 0 || cfg.FamilyDot > 1 {
		err = multierr.Append(err, fmt.Errorf("family_dot must be in (0, 1], got %v", cfg.FamilyDot))
	}
	if cfg.GridPoints < 4 {
		err = multierr.Append(err, fmt.Errorf("grid_points must be at least 4, got %d", cfg.GridPoints))
	}
	if cfg.PolygonTolerance <= 0 || cfg.PolygonTolerance >= 1 {
		err = multierr.Append(err, fmt.Errorf("polygon_tolerance must be in (0, 1), got %v", cfg.PolygonTolerance))
	}
	return err
}

// ClassifierConfig controls how each cell is sampled and labelled.
type ClassifierConfig struct {
	CanonicalSize int     `json:"canonical_size" mapstructure:"canonical_size"`
	BlurKernel    int     `json:"blur_kernel" mapstructure:"blur_kernel"`
	BlurSigma     float64 `json:"blur_sigma" mapstructure:"blur_sigma"`
	// MarginDivisor trims cellSize/MarginDivisor from every side of a cell.
	MarginDivisor int `json:"margin_divisor" mapstructure:"margin_divisor"`

	Dark  [3]float64 `json:"dark" mapstructure:"dark"`
	Light [3]float64 `json:"light" mapstructure:"light"`
	// Board is deliberately darker than pure green; photographed felt rarely
	// reaches full saturation.
	Board [3]float64 `json:"board" mapstructure:"board"`
}

func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		CanonicalSize: 400,
		BlurKernel:    5,
		BlurSigma:     3,
		MarginDivisor: 4,
		Dark:          [3]float64{0, 0, 0},
		Light:         [3]float64{1, 1, 1},
		Board:         [3]float64{0, 0.8, 0},
	}
}

func (cfg ClassifierConfig) Validate() error {
	var err error
	if cfg.CanonicalSize < BoardSize*4 {
		err = multierr.Append(err, fmt.Errorf("canonical_size too small: %d", cfg.CanonicalSize))
	}
	if cfg.BlurKernel < 1 || cfg.BlurSigma <= 0 {
		err = multierr.Append(err, fmt.Errorf("bad blur kernel %d / sigma %v", cfg.BlurKernel, cfg.BlurSigma))
	}
	if cfg.MarginDivisor < 3 {
		err = multierr.Append(err, fmt.Errorf("margin_divisor must be at least 3, got %d", cfg.MarginDivisor))
	}
	return err
}

// SearchConfig bounds the move search.
type SearchConfig struct {
	Depth      int     `json:"depth" mapstructure:"depth"`
	MaxNodes   int     `json:"max_nodes" mapstructure:"max_nodes"`
	TimeoutSec float64 `json:"timeout_sec" mapstructure:"timeout_sec"`
}

func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		Depth:      3,
		MaxNodes:   1_000_000,
		TimeoutSec: 10,
	}
}

func (cfg SearchConfig) Validate() error {
	var err error
	if cfg.Depth < 0 {
		err = multierr.Append(err, fmt.Errorf("depth cannot be negative, got %d", cfg.Depth))
	}
	if cfg.MaxNodes < 0 {
		err = multierr.Append(err, fmt.Errorf("max_nodes cannot be negative, got %d", cfg.MaxNodes))
	}
	if cfg.TimeoutSec < 0 {
		err = multierr.Append(err, fmt.Errorf("timeout_sec cannot be negative, got %v", cfg.TimeoutSec))
	}
	return err
}

func (cfg SearchConfig) timeout() time.Duration {
	return time.Duration(cfg.TimeoutSec * float64(time.Second))
}

// Config bundles all three stages.
type Config struct {
	Detector   DetectorConfig   `json:"detector" mapstructure:"detector"`
	Classifier ClassifierConfig `json:"classifier" mapstructure:"classifier"`
	Search     SearchConfig     `json:"search" mapstructure:"search"`
}

func DefaultConfig() Config {
	return Config{
		Detector:   DefaultDetectorConfig(),
		Classifier: DefaultClassifierConfig(),
		Search:     DefaultSearchConfig(),
	}
}

func (cfg Config) Validate() error {
	return multierr.Combine(
		cfg.Detector.Validate(),
		cfg.Classifier.Validate(),
		cfg.Search.Validate(),
	)
}

// DecodeConfig applies overrides, shaped like the json form of Config, on
// top of DefaultConfig. Unknown keys are an error.
func DecodeConfig(overrides map[string]interface{}) (Config, error) {
	cfg := DefaultConfig()
	if len(overrides) == 0 {
		return cfg, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &cfg,
		ErrorUnused: true,
	})
	if err != nil {
		return cfg, err
	}
	if err := dec.Decode(overrides); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func rgb(c [3]float64) colorful.Color {
	return colorful.Color{R: c[0], G: c[1], B: c[2]}
}
