package viamothello

import (
	"testing"

	"go.viam.com/test"
)

func TestDefaultConfigValid(t *testing.T) {
	test.That(t, DefaultConfig().Validate(), test.ShouldBeNil)
}

func TestConfigValidateCollectsAll(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Detector.FamilyDot = 2
	cfg.Classifier.MarginDivisor = 1
	cfg.Search.Depth = -1

	err := cfg.Validate()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "family_dot")
	test.That(t, err.Error(), test.ShouldContainSubstring, "margin_divisor")
	test.That(t, err.Error(), test.ShouldContainSubstring, "depth")
}

func TestDecodeConfig(t *testing.T) {
	cfg, err := DecodeConfig(nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg, test.ShouldResemble, DefaultConfig())

	cfg, err = DecodeConfig(map[string]interface{}{
		"search":   map[string]interface{}{"depth": 5.0},
		"detector": map[string]interface{}{"chroma_key": []interface{}{0.1, 0.9, 0.2}},
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Search.Depth, test.ShouldEqual, 5)
	test.That(t, cfg.Search.MaxNodes, test.ShouldEqual, DefaultSearchConfig().MaxNodes)
	test.That(t, cfg.Detector.ChromaKey, test.ShouldResemble, [3]float64{0.1, 0.9, 0.2})
	test.That(t, cfg.Detector.ChromaThreshold, test.ShouldEqual, 0.95)

	_, err = DecodeConfig(map[string]interface{}{"serch": map[string]interface{}{}})
	test.That(t, err, test.ShouldNotBeNil)

	_, err = DecodeConfig(map[string]interface{}{"search": map[string]interface{}{"depth": -2}})
	test.That(t, err, test.ShouldNotBeNil)
}
