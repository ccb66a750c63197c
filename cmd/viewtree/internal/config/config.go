package config

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/viewtree/pkg/animation"
	"github.com/go-drift/viewtree/pkg/layout"
	"github.com/go-drift/viewtree/pkg/transition"
	"github.com/go-drift/viewtree/pkg/view"
)

// FileName is the scene file LoadOptional looks for.
const FileName = "viewtree.yaml"

// CurrentVersion is the newest scene format this build understands.
const CurrentVersion = "v1.0.0"

// Config represents a viewtree.yaml scene file.
type Config struct {
	Version   string        `yaml:"version,omitempty"`
	Debug     *bool         `yaml:"debug,omitempty"`
	FrameRate int           `yaml:"frameRate,omitempty"`
	Watchdog  time.Duration `yaml:"watchdog,omitempty"`
	Defaults  Defaults      `yaml:"defaults"`
	Surface   Surface       `yaml:"surface"`
	Nodes     []Node        `yaml:"nodes"`
	Script    []Step        `yaml:"script"`
}

// Defaults apply to every transition in the scene.
type Defaults struct {
	Duration time.Duration `yaml:"duration,omitempty"`
	Curve    string        `yaml:"curve,omitempty"`
}

// Surface is the display size in layout units.
type Surface struct {
	Width  int `yaml:"width,omitempty"`
	Height int `yaml:"height,omitempty"`
}

// Node describes one view and its children.
type Node struct {
	Name      string        `yaml:"name"`
	Class     string        `yaml:"class,omitempty"`
	Content   string        `yaml:"content,omitempty"`
	Hidden    bool          `yaml:"hidden,omitempty"`
	Layout    layout.Layout `yaml:"layout"`
	In        string        `yaml:"in,omitempty"`
	Out       string        `yaml:"out,omitempty"`
	Show      string        `yaml:"show,omitempty"`
	Hide      string        `yaml:"hide,omitempty"`
	Direction string        `yaml:"direction,omitempty"`
	Children  []Node        `yaml:"children,omitempty"`
}

// UnmarshalYAML starts from the default layout so omitted opacity and
// scale stay at 1.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	type plain Node
	p := plain{Layout: layout.Default()}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*n = Node(p)
	return nil
}

// Step is one scripted action, run At after the scene starts. Durations
// are written as strings such as "250ms".
type Step struct {
	At      time.Duration      `yaml:"at"`
	Action  string             `yaml:"action"`
	Node    string             `yaml:"node"`
	Content string             `yaml:"content,omitempty"`
	To      map[string]float64 `yaml:"to,omitempty"`
}

// Actions lists the verbs a Step may use.
var Actions = []string{
	"render", "attach", "detach", "detach-now", "show", "hide",
	"destroy", "content", "animate", "remove", "release",
}

var layoutKeys = map[string]layout.Key{
	"left":    layout.KeyLeft,
	"top":     layout.KeyTop,
	"width":   layout.KeyWidth,
	"height":  layout.KeyHeight,
	"opacity": layout.KeyOpacity,
	"scale":   layout.KeyScale,
}

// Target converts To into a layout merged over base and the keys it sets.
func (s Step) Target(base layout.Layout) (layout.Layout, layout.Key, error) {
	var keys layout.Key
	for name, v := range s.To {
		k, ok := layoutKeys[name]
		if !ok {
			return base, 0, fmt.Errorf("unknown layout property %q", name)
		}
		base.Set(k, v)
		keys |= k
	}
	return base, keys, nil
}

// Resolved contains validated configuration with defaults applied.
type Resolved struct {
	Version       string
	Debug         bool
	FrameInterval time.Duration
	Watchdog      time.Duration
	Duration      time.Duration
	Curve         animation.Curve
	Width         int
	Height        int
	Nodes         []Node
	Script        []Step
}

// LoadOptional reads viewtree.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	return cfg, err
}

// Load reads and parses a scene file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// Parse decodes a scene from yaml.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Resolve validates cfg and fills in defaults.
func (cfg *Config) Resolve() (*Resolved, error) {
	version, err := checkVersion(cfg.Version)
	if err != nil {
		return nil, err
	}

	frameRate := cfg.FrameRate
	if frameRate == 0 {
		frameRate = 60
	}
	if frameRate < 1 || frameRate > 240 {
		return nil, fmt.Errorf("frameRate %d out of range [1, 240]", frameRate)
	}
	if cfg.Watchdog < 0 {
		return nil, fmt.Errorf("watchdog must not be negative, got %s", cfg.Watchdog)
	}

	duration := cfg.Defaults.Duration
	if duration == 0 {
		duration = transition.DefaultDuration
	}
	if duration < 0 {
		return nil, fmt.Errorf("defaults.duration must not be negative, got %s", duration)
	}
	curve, err := animation.CurveByName(cfg.Defaults.Curve)
	if err != nil {
		return nil, fmt.Errorf("defaults.curve: %w", err)
	}

	width, height := cfg.Surface.Width, cfg.Surface.Height
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("surface size must be positive, got %dx%d", width, height)
	}

	names := make(map[string]bool)
	if err := validateNodes(cfg.Nodes, names); err != nil {
		return nil, err
	}
	script := slices.Clone(cfg.Script)
	slices.SortStableFunc(script, func(a, b Step) int {
		return cmp.Compare(a.At, b.At)
	})
	for i, step := range script {
		if err := validateStep(step, names); err != nil {
			return nil, fmt.Errorf("script[%d]: %w", i, err)
		}
	}

	debug := true
	if cfg.Debug != nil {
		debug = *cfg.Debug
	}

	return &Resolved{
		Version:       version,
		Debug:         debug,
		FrameInterval: time.Second / time.Duration(frameRate),
		Watchdog:      cfg.Watchdog,
		Duration:      duration,
		Curve:         curve,
		Width:         width,
		Height:        height,
		Nodes:         cfg.Nodes,
		Script:        script,
	}, nil
}

// checkVersion accepts any v1 version not newer than CurrentVersion. A
// missing version means CurrentVersion.
func checkVersion(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return CurrentVersion, nil
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", fmt.Errorf("invalid version %q", v)
	}
	if semver.Major(v) != semver.Major(CurrentVersion) {
		return "", fmt.Errorf("unsupported scene version %s (want %s.x)", v, semver.Major(CurrentVersion))
	}
	if semver.Compare(v, CurrentVersion) > 0 {
		return "", fmt.Errorf("scene version %s is newer than supported %s", v, CurrentVersion)
	}
	return semver.Canonical(v), nil
}

func validateNodes(nodes []Node, names map[string]bool) error {
	for _, n := range nodes {
		if n.Name == "" {
			return errors.New("node without a name")
		}
		if names[n.Name] {
			return fmt.Errorf("duplicate node name %q", n.Name)
		}
		names[n.Name] = true
		for _, name := range []string{n.In, n.Out, n.Show, n.Hide} {
			if name == "" {
				continue
			}
			if _, _, err := transition.Lookup(name); err != nil {
				return fmt.Errorf("node %q: %w", n.Name, err)
			}
		}
		if n.Direction != "" {
			if _, ok := view.ParseDirection(n.Direction); !ok {
				return fmt.Errorf("node %q: unknown direction %q", n.Name, n.Direction)
			}
		}
		if err := validateNodes(n.Children, names); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(s Step, names map[string]bool) error {
	if !slices.Contains(Actions, s.Action) {
		return fmt.Errorf("unknown action %q (known: %s)", s.Action, strings.Join(Actions, ", "))
	}
	if !names[s.Node] {
		return fmt.Errorf("unknown node %q", s.Node)
	}
	if s.At < 0 {
		return fmt.Errorf("negative time %s", s.At)
	}
	if s.Action == "animate" {
		if _, keys, err := s.Target(layout.Default()); err != nil {
			return err
		} else if keys == 0 {
			return errors.New("animate needs at least one property in to")
		}
	}
	return nil
}
