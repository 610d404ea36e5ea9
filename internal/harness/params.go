package harness

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"introsplice/internal/intro"
)

// Parameter file keys.
const (
	KeyDirectory         = "DIRECTORY"
	KeyNames             = "NAMES"
	KeyDuration          = "DURATION"
	KeyStyle             = "ANIMATION_STYLE"
	KeyZoomMax           = "ZOOM_MAX"
	KeyPaddingColor      = "PADDING_COLOR"
	KeyTransitionSeconds = "TRANSITION_SECONDS"
	KeyOutputDir         = "OUTPUT_DIR"
)

// DefaultNames is the clip list used when neither the file nor the caller names any.
var DefaultNames = []string{
	"hoangyell", "mouse", "buff", "tiger", "cat", "dragon", "kingcobra",
	"horse", "goat", "monkey", "chicken", "dog", "pig",
}

// Params describes one batch.
type Params struct {
	Directory    string
	Names        []string
	IntroSeconds float64
	Transition   intro.TransitionSpec
	OutputDir    string
}

// DefaultParams returns the batch defaults: every default name, a half-second
// intro and the default transition.
func DefaultParams() Params {
	return Params{
		Names:        append([]string(nil), DefaultNames...),
		IntroSeconds: intro.DefaultIntroSeconds,
		Transition:   intro.DefaultTransition(),
	}
}

// LoadParams reads a parameter file on top of base. Keys absent from the file
// keep the base value.
func LoadParams(path string, base Params) (Params, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return Params{}, fmt.Errorf("read params %s: %w", path, err)
	}
	return ApplyValues(base, values)
}

// ApplyValues overlays parsed key/value pairs onto base.
func ApplyValues(base Params, values map[string]string) (Params, error) {
	p := base
	p.Names = append([]string(nil), base.Names...)

	if v, ok := lookup(values, KeyDirectory); ok {
		p.Directory = v
	}
	if v, ok := lookup(values, KeyOutputDir); ok {
		p.OutputDir = v
	}
	if v, ok := lookup(values, KeyNames); ok {
		p.Names = SplitNames(v)
	}
	if v, ok := lookup(values, KeyDuration); ok {
		seconds, err := parseFloat(KeyDuration, v)
		if err != nil {
			return Params{}, err
		}
		p.IntroSeconds = seconds
	}
	if v, ok := lookup(values, KeyTransitionSeconds); ok {
		seconds, err := parseFloat(KeyTransitionSeconds, v)
		if err != nil {
			return Params{}, err
		}
		p.Transition.DurationSeconds = seconds
	}
	if v, ok := lookup(values, KeyZoomMax); ok {
		zoom, err := parseFloat(KeyZoomMax, v)
		if err != nil {
			return Params{}, err
		}
		p.Transition.ZoomMax = zoom
	}
	if v, ok := lookup(values, KeyStyle); ok {
		style, err := intro.ParseStyle(v)
		if err != nil {
			return Params{}, err
		}
		p.Transition.Style = style
	}
	if v, ok := lookup(values, KeyPaddingColor); ok {
		color, err := intro.ParsePaddingColor(v)
		if err != nil {
			return Params{}, err
		}
		p.Transition.PaddingColor = color
	}
	return p, nil
}

// SplitNames parses a comma separated name list, dropping blanks.
func SplitNames(value string) []string {
	var names []string
	for _, part := range strings.Split(value, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Validate reports batch-level problems. Per-job checks happen in the pipeline.
func (p Params) Validate() error {
	if strings.TrimSpace(p.Directory) == "" {
		return &intro.InvalidParameterError{Name: "directory", Value: p.Directory, Reason: "must be set"}
	}
	if len(p.Names) == 0 {
		return &intro.InvalidParameterError{Name: "names", Value: "", Reason: "at least one name is required"}
	}
	return nil
}

// VideoPath returns the main video for name.
func (p Params) VideoPath(name string) string {
	return filepath.Join(p.Directory, name+".mp4")
}

// ImagePath returns the intro image for name.
func (p Params) ImagePath(name string) string {
	return filepath.Join(p.Directory, name+"_main.png")
}

// Jobs expands the parameters into one render job per name, in order.
func (p Params) Jobs() []NamedJob {
	jobs := make([]NamedJob, 0, len(p.Names))
	for _, name := range p.Names {
		jobs = append(jobs, NamedJob{
			Name: name,
			Job: intro.RenderJob{
				VideoPath:    p.VideoPath(name),
				ImagePath:    p.ImagePath(name),
				IntroSeconds: p.IntroSeconds,
				Transition:   p.Transition,
				OutputDir:    p.OutputDir,
			},
		})
	}
	return jobs
}

func lookup(values map[string]string, key string) (string, bool) {
	v, ok := values[key]
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func parseFloat(key, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, &intro.InvalidParameterError{Name: strings.ToLower(key), Value: value, Reason: "not a number"}
	}
	return f, nil
}
