package viamothello

import (
	"context"
	"fmt"
	"image"

	"go.viam.com/rdk/components/camera"
	"go.viam.com/rdk/data"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/pointcloud"
	"go.viam.com/rdk/resource"
	"go.viam.com/rdk/spatialmath"
)

var OthelloCameraModel = family.WithModel("othello-camera")

func init() {
	resource.RegisterComponent(camera.API, OthelloCameraModel,
		resource.Registration[camera.Camera, *OthelloCameraConfig]{
			Constructor: newOthelloCamera,
		},
	)
}

type OthelloCameraConfig struct {
	Input string `json:"input"`

	// Tuning overrides DefaultConfig, keyed like Config's json form.
	Tuning map[string]interface{} `json:"tuning,omitempty"`
}

func (cfg *OthelloCameraConfig) Validate(path string) ([]string, []string, error) {
	if cfg.Input == "" {
		return nil, nil, fmt.Errorf("need an input")
	}
	if _, err := DecodeConfig(cfg.Tuning); err != nil {
		return nil, nil, fmt.Errorf("bad tuning: %w", err)
	}
	return []string{cfg.Input}, nil, nil
}

func newOthelloCamera(ctx context.Context, deps resource.Dependencies, rawConf resource.Config, logger logging.Logger) (camera.Camera, error) {
	conf, err := resource.NativeConfig[*OthelloCameraConfig](rawConf)
	if err != nil {
		return nil, err
	}

	return NewOthelloCamera(ctx, deps, rawConf.ResourceName(), conf, logger)
}

func NewOthelloCamera(ctx context.Context, deps resource.Dependencies, name resource.Name, conf *OthelloCameraConfig, logger logging.Logger) (camera.Camera, error) {
	input, err := camera.FromProvider(deps, conf.Input)
	if err != nil {
		return nil, err
	}
	return newOthelloCameraFromInput(name, conf, input, logger)
}

func newOthelloCameraFromInput(name resource.Name, conf *OthelloCameraConfig, input camera.Camera, logger logging.Logger) (*OthelloCamera, error) {
	cfg, err := DecodeConfig(conf.Tuning)
	if err != nil {
		return nil, err
	}

	return &OthelloCamera{
		name:     name,
		conf:     conf,
		logger:   logger,
		input:    input,
		analyzer: NewAnalyzer(cfg, logger),
	}, nil
}

// OthelloCamera passes through its input camera with the detected board and
// both sides' best moves drawn on top.
type OthelloCamera struct {
	resource.AlwaysRebuild
	resource.TriviallyCloseable

	name   resource.Name
	conf   *OthelloCameraConfig
	logger logging.Logger

	input    camera.Camera
	analyzer *Analyzer
}

func (oc *OthelloCamera) Image(ctx context.Context, mimeType string, extra map[string]interface{}) ([]byte, camera.ImageMetadata, error) {
	return camera.GetImageFromGetImages(ctx, nil, oc, extra, nil)
}

// Images supports extra {"view": "mask" | "hue"} for tuning the chroma key.
func (oc *OthelloCamera) Images(ctx context.Context, filterSourceNames []string, extra map[string]interface{}) ([]camera.NamedImage, resource.ResponseMetadata, error) {
	ni, rm, err := oc.input.Images(ctx, nil, extra)
	if err != nil {
		return nil, rm, err
	}

	if len(ni) == 0 {
		return nil, rm, fmt.Errorf("no images returned from input camera")
	}

	srcImg, err := ni[0].Image(ctx)
	if err != nil {
		return nil, rm, err
	}

	view, _ := extra["view"].(string)
	dst, err := oc.render(ctx, srcImg, view)
	if err != nil {
		return nil, rm, err
	}

	result, err := camera.NamedImageFromImage(dst, ni[0].SourceName, "", data.Annotations{})
	if err != nil {
		return nil, rm, err
	}
	return []camera.NamedImage{result}, rm, nil
}

func (oc *OthelloCamera) render(ctx context.Context, srcImg image.Image, view string) (image.Image, error) {
	switch view {
	case "mask":
		return MaskImage(srcImg, oc.analyzer.Config().Detector), nil
	case "hue":
		return HueImage(srcImg), nil
	case "":
	default:
		return nil, fmt.Errorf("unknown view %q", view)
	}

	a, err := oc.analyzer.Analyze(ctx, srcImg)
	if err != nil {
		// a frame without a readable board is still a frame
		oc.logger.Debugf("showing raw frame: %v", err)
		return srcImg, nil
	}
	return Annotate(srcImg, a), nil
}

func (oc *OthelloCamera) DoCommand(ctx context.Context, cmd map[string]interface{}) (map[string]interface{}, error) {
	return nil, fmt.Errorf("DoCommand not supported")
}

func (oc *OthelloCamera) NextPointCloud(ctx context.Context, extra map[string]interface{}) (pointcloud.PointCloud, error) {
	return nil, fmt.Errorf("NextPointCloud not supported")
}

func (oc *OthelloCamera) Properties(ctx context.Context) (camera.Properties, error) {
	return camera.Properties{}, nil
}

func (oc *OthelloCamera) Geometries(ctx context.Context, extra map[string]interface{}) ([]spatialmath.Geometry, error) {
	return nil, nil
}

func (oc *OthelloCamera) Name() resource.Name {
	return oc.name
}
