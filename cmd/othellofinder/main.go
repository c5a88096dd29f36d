package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/rimage"

	"viamothello"
)

var envKeys = []string{
	"search.depth",
	"search.max_nodes",
	"search.timeout_sec",
	"detector.chroma_threshold",
	"detector.seed",
}

func main() {
	configFile := flag.String("config", "", "yaml or json tuning file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [--config file] <input.jpg> [output.jpg]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  If output is not specified, it will be <input>_output.jpg\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	err := realMain(*configFile, flag.Arg(0), flag.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if code := viamothello.ErrorCode(err); code != "internal_error" {
			fmt.Fprintf(os.Stderr, "Code: %s\n", code)
		}
		os.Exit(1)
	}
}

func loadConfig(configFile string) (viamothello.Config, error) {
	v := viper.New()
	v.SetEnvPrefix("OTHELLO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, k := range envKeys {
		if err := v.BindEnv(k); err != nil {
			return viamothello.Config{}, err
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return viamothello.Config{}, err
		}
	}

	cfg := viamothello.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func realMain(configFile, inputFile, outputFile string) error {
	logger := logging.NewLogger("othellofinder")

	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	if outputFile == "" {
		ext := filepath.Ext(inputFile)
		outputFile = strings.TrimSuffix(inputFile, ext) + "_output" + ext
	}

	input, err := rimage.ReadImageFromFile(inputFile)
	if err != nil {
		return fmt.Errorf("reading image: %w", err)
	}

	fmt.Printf("Image size: %dx%d\n", input.Bounds().Dx(), input.Bounds().Dy())

	res, err := viamothello.NewAnalyzer(cfg, logger).Analyze(context.Background(), input)
	if err != nil {
		return err
	}

	fmt.Printf("Found corners:\n")
	for i, name := range []string{"Top-left", "Top-right", "Bottom-right", "Bottom-left"} {
		fmt.Printf("  %-13s (%.1f, %.1f)\n", name+":", res.Corners[i].X, res.Corners[i].Y)
	}

	fmt.Printf("\n%s\n", res.Board)
	fmt.Printf("Light: %d  Dark: %d\n", res.Score.Light, res.Score.Dark)
	fmt.Printf("%s\n", res.Outcome)

	for _, side := range []viamothello.Disc{viamothello.Light, viamothello.Dark} {
		rec := res.Light
		if side == viamothello.Dark {
			rec = res.Dark
		}
		if rec == nil {
			fmt.Printf("%v has no valid moves\n", side)
			continue
		}
		fmt.Printf("%v best move: %v (score %d) at (%.1f, %.1f)\n", side, rec.Move, rec.Score, rec.Point.X, rec.Point.Y)
	}

	err = rimage.WriteImageToFile(outputFile, viamothello.Annotate(input, res))
	if err != nil {
		return fmt.Errorf("writing output image: %w", err)
	}

	fmt.Printf("Saved output image to %s\n", outputFile)
	return nil
}
