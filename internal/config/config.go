// Package config resolves runtime settings from defaults, an optional env
// file, SQUISHY_* environment variables and command-line flags, in that
// order of increasing precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivier-w/squishy/internal/blob"
)

// EnvPrefix prefixes every environment variable name.
const EnvPrefix = "SQUISHY_"

// Config holds every tunable.
type Config struct {
	// Body
	Particles      int
	Radius         float64
	TimeStep       float64
	SubSteps       int
	PerimeterIters int
	Relax          float64
	Gravity        float64
	PointerRadius  float64

	// View
	Scale       float64
	Supersample int
	FPS         int
	Stars       bool
	Braille     bool
	Seed        int64
	Texture     string
	MoonTexture string

	// Sound
	Music   string
	Volume  float64
	Cues    bool
	NoAudio bool

	// Output
	Record       string
	RecordFrames int
	LogFile      string
	EnvFile      string
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Particles:      blob.DefaultParticles,
		Radius:         blob.DefaultRadius,
		TimeStep:       blob.DefaultTimeStep,
		SubSteps:       blob.DefaultSubSteps,
		PerimeterIters: blob.DefaultPerimeterIters,
		Relax:          blob.DefaultRelax,
		Gravity:        blob.DefaultGravity,
		PointerRadius:  blob.DefaultPointerRadius,
		Scale:          10,
		Supersample:    5,
		FPS:            60,
		Stars:          true,
		Seed:           1,
		Volume:         0.8,
		Cues:           true,
		RecordFrames:   300,
		EnvFile:        ".env",
	}
}

func (c *Config) flagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("squishy", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.IntVar(&c.Particles, "particles", c.Particles, "number of particles on the ring")
	fs.Float64Var(&c.Radius, "radius", c.Radius, "rest radius in simulation units")
	fs.Float64Var(&c.TimeStep, "dt", c.TimeStep, "fixed sub-step time in seconds")
	fs.IntVar(&c.SubSteps, "substeps", c.SubSteps, "sub-steps per frame")
	fs.IntVar(&c.PerimeterIters, "iterations", c.PerimeterIters, "perimeter solver passes")
	fs.Float64Var(&c.Relax, "relax", c.Relax, "perimeter relaxation factor in (0, 1]")
	fs.Float64Var(&c.Gravity, "gravity", c.Gravity, "downward acceleration")
	fs.Float64Var(&c.PointerRadius, "pointer-radius", c.PointerRadius, "repulsor radius in simulation units")

	fs.Float64Var(&c.Scale, "scale", c.Scale, "raster pixels per simulation unit")
	fs.IntVar(&c.Supersample, "supersample", c.Supersample, "raster pixels per cell column")
	fs.IntVar(&c.FPS, "fps", c.FPS, "frames per second")
	fs.BoolVar(&c.Stars, "stars", c.Stars, "draw the starfield")
	fs.BoolVar(&c.Braille, "braille", c.Braille, "draw with braille dots instead of blocks")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for stars and procedural textures")
	fs.StringVar(&c.Texture, "texture", c.Texture, "image wrapped on the blob (PNG, JPEG, GIF)")
	fs.StringVar(&c.MoonTexture, "moon", c.MoonTexture, "image drawn at the pointer")

	fs.StringVar(&c.Music, "music", c.Music, "looping soundtrack (mp3, wav, flac, ogg)")
	fs.Float64Var(&c.Volume, "volume", c.Volume, "initial volume 0..1")
	fs.BoolVar(&c.Cues, "cues", c.Cues, "play a sound when the pointer hits the blob")
	fs.BoolVar(&c.NoAudio, "no-audio", c.NoAudio, "disable audio output")

	fs.StringVar(&c.Record, "record", c.Record, "write frames to this GIF on quit")
	fs.IntVar(&c.RecordFrames, "record-frames", c.RecordFrames, "maximum recorded frames")
	fs.StringVar(&c.LogFile, "log", c.LogFile, "append logs to this file")
	fs.StringVar(&c.EnvFile, "env", c.EnvFile, "env file with SQUISHY_* settings")
	return fs
}

// EnvName returns the environment variable for a flag name.
func EnvName(flagName string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}

// Load resolves the configuration for args (without the program name).
func Load(args []string) (Config, error) {
	return load(args, os.LookupEnv)
}

func load(args []string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if v, ok := lookup(EnvName("env")); ok {
		cfg.EnvFile = v
	}
	if v, ok := envFileArg(args); ok {
		cfg.EnvFile = v
	}

	fileVars := map[string]string{}
	if cfg.EnvFile != "" {
		vars, err := godotenv.Read(cfg.EnvFile)
		switch {
		case err == nil:
			fileVars = vars
		case !errors.Is(err, fs.ErrNotExist):
			return cfg, fmt.Errorf("reading env file %s: %w", cfg.EnvFile, err)
		}
	}

	set := cfg.flagSet()
	var envErr error
	set.VisitAll(func(f *flag.Flag) {
		if envErr != nil || f.Name == "env" {
			return
		}
		key := EnvName(f.Name)
		v, ok := lookup(key)
		if !ok {
			v, ok = fileVars[key]
		}
		if !ok {
			return
		}
		if err := set.Set(f.Name, v); err != nil {
			envErr = fmt.Errorf("%s: %w", key, err)
		}
	})
	if envErr != nil {
		return cfg, envErr
	}

	if err := set.Parse(args); err != nil {
		return cfg, err
	}
	if set.NArg() > 0 {
		return cfg, fmt.Errorf("unexpected argument: %s", set.Arg(0))
	}
	return cfg, cfg.Validate()
}

// envFileArg finds -env in args before the full parse so the file can
// supply values that flags then override.
func envFileArg(args []string) (string, bool) {
	for i, a := range args {
		if a == "--" {
			break
		}
		name, value, hasValue := strings.Cut(strings.TrimLeft(a, "-"), "=")
		if !strings.HasPrefix(a, "-") || name != "env" {
			continue
		}
		if hasValue {
			return value, true
		}
		if i+1 < len(args) {
			return args[i+1], true
		}
	}
	return "", false
}

// Usage writes flag help to w.
func Usage(w io.Writer) {
	cfg := Default()
	set := cfg.flagSet()
	set.SetOutput(w)
	fmt.Fprintln(w, "Usage: squishy [flags]")
	fmt.Fprintln(w)
	set.PrintDefaults()
	fmt.Fprintf(w, "\nEvery flag can also be set as %s<NAME> in the environment or the env file.\n", EnvPrefix)
}

// Validate rejects settings the simulation cannot run with.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	check(c.Particles >= 3, "particles must be at least 3, got %d", c.Particles)
	check(c.Radius > 0, "radius must be positive, got %g", c.Radius)
	check(c.TimeStep > 0, "dt must be positive, got %g", c.TimeStep)
	check(c.SubSteps >= 1, "substeps must be at least 1, got %d", c.SubSteps)
	check(c.PerimeterIters >= 0, "iterations must not be negative, got %d", c.PerimeterIters)
	check(c.Relax > 0 && c.Relax <= 1, "relax must be in (0, 1], got %g", c.Relax)
	check(c.PointerRadius > 0, "pointer-radius must be positive, got %g", c.PointerRadius)
	check(c.Scale > 0, "scale must be positive, got %g", c.Scale)
	check(c.Supersample >= 1, "supersample must be at least 1, got %d", c.Supersample)
	check(c.FPS >= 1 && c.FPS <= 240, "fps must be in [1, 240], got %d", c.FPS)
	check(c.Volume >= 0 && c.Volume <= 1, "volume must be in [0, 1], got %g", c.Volume)
	check(c.RecordFrames >= 1, "record-frames must be at least 1, got %d", c.RecordFrames)
	return errors.Join(errs...)
}

// BlobParams converts the body settings for the simulation.
func (c Config) BlobParams() blob.Params {
	return blob.Params{
		Particles:      c.Particles,
		Radius:         c.Radius,
		TimeStep:       c.TimeStep,
		PerimeterIters: c.PerimeterIters,
		Relax:          c.Relax,
		Gravity:        r2.Vec{Y: c.Gravity},
		PointerRadius:  c.PointerRadius,
	}
}

// Summary is a one-line description for the log.
func (c Config) Summary() string {
	return fmt.Sprintf("particles=%d radius=%g dt=%g substeps=%d iters=%d relax=%g gravity=%g pointer=%g scale=%g ss=%d fps=%d",
		c.Particles, c.Radius, c.TimeStep, c.SubSteps, c.PerimeterIters, c.Relax,
		c.Gravity, c.PointerRadius, c.Scale, c.Supersample, c.FPS)
}
