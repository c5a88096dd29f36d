package viamothello

import (
	"context"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/rdk/components/camera"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/resource"
	"go.viam.com/test"
)

func TestOthelloCameraConfigValidate(t *testing.T) {
	_, _, err := (&OthelloCameraConfig{}).Validate("")
	test.That(t, err, test.ShouldNotBeNil)

	deps, _, err := (&OthelloCameraConfig{Input: "webcam"}).Validate("")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, deps, test.ShouldResemble, []string{"webcam"})
}

func TestOthelloCameraImages(t *testing.T) {
	ctx := context.Background()
	img := renderBoard(t, 240, pipelineQuad, mustBoard(t, pipelineBoard))
	input := &fakeCamera{img: img}

	oc, err := newOthelloCameraFromInput(
		resource.NewName(camera.API, "othello-cam"),
		&OthelloCameraConfig{Input: "webcam", Tuning: pipelineTuning},
		input,
		logging.NewTestLogger(t),
	)
	test.That(t, err, test.ShouldBeNil)

	for _, view := range []string{"", "mask", "hue"} {
		ni, _, err := oc.Images(ctx, nil, map[string]interface{}{"view": view})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, len(ni), test.ShouldEqual, 1)
		out, err := ni[0].Image(ctx)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out.Bounds().Dx(), test.ShouldEqual, 240)
	}

	_, _, err = oc.Images(ctx, nil, map[string]interface{}{"view": "x-ray"})
	test.That(t, err, test.ShouldNotBeNil)

	// no board in view still yields a frame
	input.img = renderBoard(t, 240, []r2.Point{{X: -10, Y: -10}, {X: -5, Y: -10}, {X: -5, Y: -5}, {X: -10, Y: -5}}, Board{})
	ni, _, err := oc.Images(ctx, nil, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(ni), test.ShouldEqual, 1)
}
