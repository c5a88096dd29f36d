package viamothello

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"go.viam.com/rdk/components/camera"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/resource"
	generic "go.viam.com/rdk/services/generic"
)

var OthelloModel = family.WithModel("othello")

func init() {
	resource.RegisterService(generic.API, OthelloModel,
		resource.Registration[resource.Resource, *OthelloConfig]{
			Constructor: newOthelloService,
		},
	)
}

type OthelloConfig struct {
	// Camera is optional; without it only best-move queries work.
	Camera string `json:"camera,omitempty"`

	Tuning map[string]interface{} `json:"tuning,omitempty"`
}

func (cfg *OthelloConfig) Validate(path string) ([]string, []string, error) {
	if _, err := DecodeConfig(cfg.Tuning); err != nil {
		return nil, nil, fmt.Errorf("bad tuning: %w", err)
	}
	if cfg.Camera == "" {
		return nil, nil, nil
	}
	return []string{cfg.Camera}, nil, nil
}

type othelloService struct {
	resource.AlwaysRebuild
	resource.TriviallyCloseable

	name resource.Name

	logger logging.Logger
	conf   *OthelloConfig

	cam      camera.Camera
	analyzer *Analyzer
}

func newOthelloService(ctx context.Context, deps resource.Dependencies, rawConf resource.Config, logger logging.Logger) (resource.Resource, error) {
	conf, err := resource.NativeConfig[*OthelloConfig](rawConf)
	if err != nil {
		return nil, err
	}

	return NewOthello(ctx, deps, rawConf.ResourceName(), conf, logger)
}

func NewOthello(ctx context.Context, deps resource.Dependencies, name resource.Name, conf *OthelloConfig, logger logging.Logger) (resource.Resource, error) {
	var cam camera.Camera
	if conf.Camera != "" {
		var err error
		cam, err = camera.FromProvider(deps, conf.Camera)
		if err != nil {
			return nil, err
		}
	}
	return newOthelloWithCamera(name, conf, cam, logger)
}

func newOthelloWithCamera(name resource.Name, conf *OthelloConfig, cam camera.Camera, logger logging.Logger) (*othelloService, error) {
	cfg, err := DecodeConfig(conf.Tuning)
	if err != nil {
		return nil, err
	}
	return &othelloService{
		name:     name,
		logger:   logger,
		conf:     conf,
		cam:      cam,
		analyzer: NewAnalyzer(cfg, logger),
	}, nil
}

func (s *othelloService) Name() resource.Name {
	return s.name
}

// ----

type AnalyzeCmd struct {
	Depth *int
}

type BestMoveCmd struct {
	Board string
	// Side is light or dark; empty searches for both.
	Side  string
	Depth *int
}

type cmdStruct struct {
	Analyze  *AnalyzeCmd
	BestMove *BestMoveCmd `mapstructure:"best-move"`
}

func (s *othelloService) DoCommand(ctx context.Context, cmdMap map[string]interface{}) (map[string]interface{}, error) {
	var cmd cmdStruct
	err := mapstructure.Decode(cmdMap, &cmd)
	if err != nil {
		return nil, err
	}

	switch {
	case cmd.Analyze != nil:
		return s.analyze(ctx, s.withDepth(cmd.Analyze.Depth))
	case cmd.BestMove != nil:
		return s.bestMove(ctx, s.withDepth(cmd.BestMove.Depth), cmd.BestMove)
	}

	return nil, fmt.Errorf("bad cmd %v", cmdMap)
}

func (s *othelloService) withDepth(depth *int) *Analyzer {
	if depth == nil {
		return s.analyzer
	}
	return s.analyzer.WithDepth(*depth)
}

func (s *othelloService) analyze(ctx context.Context, a *Analyzer) (map[string]interface{}, error) {
	if s.cam == nil {
		return nil, fmt.Errorf("no camera configured")
	}

	ni, _, err := s.cam.Images(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	if len(ni) == 0 {
		return nil, fmt.Errorf("no images returned from camera %s", s.conf.Camera)
	}
	img, err := ni[0].Image(ctx)
	if err != nil {
		return nil, err
	}

	res, err := a.Analyze(ctx, img)
	if err != nil {
		if code := ErrorCode(err); code != "internal_error" {
			return map[string]interface{}{"error": code, "detail": err.Error()}, nil
		}
		return nil, err
	}
	return res.ToMap(), nil
}

func (s *othelloService) bestMove(ctx context.Context, a *Analyzer, cmd *BestMoveCmd) (map[string]interface{}, error) {
	board, err := ParseBoard(cmd.Board)
	if err != nil {
		return nil, err
	}

	if cmd.Side == "" {
		res, err := a.AnalyzeBoard(ctx, board)
		if err != nil {
			return nil, err
		}
		return res.ToMap(), nil
	}

	side, err := ParseSide(cmd.Side)
	if err != nil {
		return nil, err
	}
	sr, err := BestMove(ctx, board, side, a.Config().Search)
	if err != nil {
		return nil, err
	}
	s.logger.Infof("%v best move %v found %v (score %d, %d nodes)", side, sr.Move, sr.Found, sr.Score, sr.Nodes)

	return map[string]interface{}{
		"side":        fmt.Sprintf("%v", side),
		"move":        recommendation(sr).toMap(),
		"score":       sr.Score,
		"nodes":       sr.Nodes,
		"valid_moves": moveNames(board.ValidMoves(side)),
	}, nil
}
