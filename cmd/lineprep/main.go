package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/menta2k/lineprep/internal/config"
	"github.com/menta2k/lineprep/internal/utils"
	"github.com/menta2k/lineprep/pkg/canvas"
	"github.com/menta2k/lineprep/pkg/cropper"
	"github.com/menta2k/lineprep/pkg/imageio"
)

// Exit codes
const (
	exitOK       = 0
	exitError    = 1
	exitBlank    = 2
	exitTooLarge = 3
)

const usage = `usage: lineprep <command> [flags]

commands:
  crop       crop an image to its non-white content
  normalize  center an image on the fixed-size training canvas

run "lineprep <command> -h" for the flags of a command
`

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// commonFlags are shared by every command
type commonFlags struct {
	in, out    string
	configPath string
	logMode    string
	quality    int
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.in, "in", "", "input image path")
	fs.StringVar(&c.out, "out", "", "output image path (default: derived from -in and the output config)")
	fs.StringVar(&c.configPath, "config", "", "config file (.json, .yaml or .yml)")
	fs.StringVar(&c.logMode, "log-mode", "", "development or release (overrides config)")
	fs.IntVar(&c.quality, "quality", 0, "jpg/webp output quality 1-100 (overrides config)")
}

// load reads the config file if given, applies flag overrides and the
// command's own overrides, validates the result and starts the logger
func (c *commonFlags) load(override func(*config.Config)) (*config.Config, error) {
	cfg := config.Default()
	if c.configPath != "" {
		var err error
		if cfg, err = config.LoadFromFile(c.configPath); err != nil {
			return nil, err
		}
	}
	if c.logMode != "" {
		cfg.Logging.Mode = c.logMode
	}
	if c.quality != 0 {
		cfg.Cropper.OutputQuality = c.quality
	}
	if override != nil {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if err := utils.InitLogger(cfg.Logging.Mode); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if c.in == "" {
		return nil, errors.New("-in is required")
	}
	if c.out == "" {
		c.out = utils.GenerateOutputFilename(c.in, cfg.Output.OutputDir,
			cfg.Output.Prefix, cfg.Output.Suffix, cfg.Output.DefaultFormat)
	}
	return cfg, nil
}

func run(args []string, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return exitError
	}
	defer utils.Sync()

	switch args[0] {
	case "crop":
		return runCrop(args[1:], stderr)
	case "normalize":
		return runNormalize(args[1:], stderr)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stderr, usage)
		return exitOK
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return exitError
	}
}

func runCrop(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("crop", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonFlags
	var debugPath string
	common.register(fs)
	fs.StringVar(&debugPath, "debug", "", "write the source with the content box outlined to this path")
	if err := fs.Parse(args); err != nil {
		return exitError
	}

	cfg, err := common.load(nil)
	if err != nil {
		fmt.Fprintf(stderr, "crop: %v\n", err)
		return exitError
	}
	log := utils.Logger.With(zap.String("in", common.in), zap.String("out", common.out))

	if utils.SamePath(common.in, common.out) {
		log.Warn("output path equals input, the source will be replaced")
	}
	if err := utils.EnsureDir(filepath.Dir(common.out)); err != nil {
		log.Error("failed to create output directory", zap.Error(err))
		return exitError
	}

	c := cropper.NewWithConfig(cropper.CropConfig{OutputQuality: cfg.Cropper.OutputQuality})
	box, err := c.CropAndPad(common.in, common.out)
	if errors.Is(err, cropper.ErrBlankImage) {
		log.Warn("input image is blank, nothing written")
		return exitBlank
	}
	if err != nil {
		log.Error("crop failed", zap.Error(err))
		return exitError
	}
	log.Info("cropped",
		zap.Int("x_min", box.XMin), zap.Int("y_min", box.YMin),
		zap.Int("x_max", box.XMax), zap.Int("y_max", box.YMax),
		zap.Int("width", box.Width()), zap.Int("height", box.Height()))

	if debugPath != "" {
		src, err := imageio.Load(common.in)
		if err == nil {
			err = imageio.Save(cropper.DrawOverlay(src, box), debugPath, cfg.Cropper.OutputQuality)
		}
		if err != nil {
			log.Error("debug overlay save failed", zap.Error(err))
		} else {
			log.Info("wrote debug overlay", zap.String("path", debugPath))
		}
	}
	return exitOK
}

func runNormalize(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("normalize", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonFlags
	var augment bool
	var seed uint64
	var width, height int
	var filter string
	common.register(fs)
	fs.BoolVar(&augment, "augment", false, "randomly shrink the image before pasting (half of the time)")
	fs.Uint64Var(&seed, "seed", 0, "seed for augmentation, 0 for a random seed")
	fs.IntVar(&width, "width", 0, "canvas width (overrides config)")
	fs.IntVar(&height, "height", 0, "canvas height (overrides config)")
	fs.StringVar(&filter, "filter", "", "resample filter: nearest|box|linear|catmullrom|lanczos")
	if err := fs.Parse(args); err != nil {
		return exitError
	}

	conf, err := common.load(func(cfg *config.Config) {
		if width != 0 {
			cfg.Canvas.Width = width
		}
		if height != 0 {
			cfg.Canvas.Height = height
		}
		if filter != "" {
			cfg.Canvas.Filter = filter
		}
		if augment {
			cfg.Canvas.Augment = true
		}
		if seed != 0 {
			cfg.Canvas.Seed = seed
		}
	})
	if err != nil {
		fmt.Fprintf(stderr, "normalize: %v\n", err)
		return exitError
	}
	log := utils.Logger.With(zap.String("in", common.in), zap.String("out", common.out))

	resample, _ := canvas.FilterByName(conf.Canvas.Filter)
	opts := []canvas.Option{canvas.WithLogger(log), canvas.WithFilter(resample)}
	if conf.Canvas.Seed != 0 {
		opts = append(opts, canvas.WithRand(rand.New(rand.NewPCG(conf.Canvas.Seed, conf.Canvas.Seed))))
	}
	n := canvas.NewWithConfig(conf.CanvasSize(), opts...)

	img, err := imageio.Load(common.in)
	if err != nil {
		log.Error("failed to load image", zap.Error(err))
		return exitError
	}

	result, err := n.Normalize(img, conf.Canvas.Augment)
	if err != nil {
		log.Error("normalization failed", zap.Error(err))
		return exitError
	}
	if result.TooLarge() {
		return exitTooLarge
	}

	if err := utils.EnsureDir(filepath.Dir(common.out)); err != nil {
		log.Error("failed to create output directory", zap.Error(err))
		return exitError
	}
	if err := imageio.Save(result.Canvas, common.out, conf.Cropper.OutputQuality); err != nil {
		log.Error("failed to save canvas", zap.Error(err))
		return exitError
	}
	log.Info("normalized",
		zap.Bool("shrunk", result.Shrunk),
		zap.Float64("scale", result.Scale),
		zap.Int("x", result.Placement.Min.X), zap.Int("y", result.Placement.Min.Y),
		zap.Int("width", result.Placement.Dx()), zap.Int("height", result.Placement.Dy()))
	return exitOK
}
