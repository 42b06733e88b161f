// Package preset defines the YAML scene presets that parameterize the backdrop:
// particle distribution and palette, shape set, motion ranges, camera, fog, counters and glitch.
package preset

import (
	"embed"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/counter"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/model"
)

//go:embed presets/*.yaml
var builtins embed.FS

// Preset is one complete scene configuration.
type Preset struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	// Seed fixes the random source; 0 seeds from the wall clock.
	Seed int64 `yaml:"seed,omitempty"`

	Particles ParticleConfig `yaml:"particles"`
	Shapes    ShapeSetConfig `yaml:"shapes"`
	// Anchored selects the bounded, absolute motion formulas instead of the incremental ones.
	Anchored bool `yaml:"anchored"`

	Camera   CameraConfig  `yaml:"camera"`
	Fog      FogConfig     `yaml:"fog"`
	Counters CounterConfig `yaml:"counters"`
	Glitch   GlitchConfig  `yaml:"glitch"`
	Audio    AudioConfig   `yaml:"audio"`
}

// ParticleConfig describes the point cloud.
type ParticleConfig struct {
	Count        int                `yaml:"count"`
	Distribution DistributionConfig `yaml:"distribution"`
	Palette      PaletteConfig      `yaml:"palette"`
	Size         float32            `yaml:"size"`
	Opacity      float32            `yaml:"opacity"`
	Additive     bool               `yaml:"additive"`
	// Spin is added to the cloud rotation every frame, in radians.
	Spin [3]float32 `yaml:"spin"`
	Wave WaveConfig `yaml:"wave"`
	// PointerNudge scales how much a pointer move rotates the cloud.
	PointerNudge float32 `yaml:"pointerNudge"`
}

// DistributionConfig is either a cube ("cube", Half) or a spherical shell ("shell", Inner, Depth).
type DistributionConfig struct {
	Kind  string  `yaml:"kind"`
	Half  float64 `yaml:"half,omitempty"`
	Inner float64 `yaml:"inner,omitempty"`
	Depth float64 `yaml:"depth,omitempty"`
}

// PaletteConfig is a two-color mix; Mix is the probability of Primary.
type PaletteConfig struct {
	Primary   common.Hex `yaml:"primary"`
	Secondary common.Hex `yaml:"secondary"`
	Mix       float64    `yaml:"mix"`
}

// WaveConfig drives y += sin(t + x*Frequency)*Amplitude.
type WaveConfig struct {
	Frequency float64 `yaml:"frequency"`
	Amplitude float64 `yaml:"amplitude"`
	// AnchoredAmplitude is the wave height in anchored mode.
	AnchoredAmplitude float64 `yaml:"anchoredAmplitude,omitempty"`
}

// ShapeSetConfig lists the shapes and the ranges their motion parameters are drawn from.
type ShapeSetConfig struct {
	Items []ShapeConfig `yaml:"items"`

	Spread      float64 `yaml:"spread"`
	Depth       float64 `yaml:"depth"`
	DepthOffset float64 `yaml:"depthOffset"`

	RotationSpeed RangeConfig `yaml:"rotationSpeed"`
	FloatSpeed    RangeConfig `yaml:"floatSpeed"`

	FloatAmplitude         float64 `yaml:"floatAmplitude"`
	AnchoredFloatAmplitude float64 `yaml:"anchoredFloatAmplitude,omitempty"`

	Drift       bool    `yaml:"drift"`
	DriftRate   float64 `yaml:"driftRate,omitempty"`
	DriftStep   float64 `yaml:"driftStep,omitempty"`
	DriftRadius float64 `yaml:"driftRadius,omitempty"`
}

// ShapeConfig is one wireframe solid. A set Position pins the shape instead of scattering it.
type ShapeConfig struct {
	Kind     model.Kind  `yaml:"kind"`
	Size     float32     `yaml:"size"`
	Detail   int         `yaml:"detail,omitempty"`
	Color    common.Hex  `yaml:"color"`
	Opacity  float32     `yaml:"opacity"`
	Position *[3]float32 `yaml:"position,omitempty"`
}

// RangeConfig is a half-open interval [Min, Max).
type RangeConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// CameraConfig holds the perspective and follow settings. Fov is in degrees.
type CameraConfig struct {
	Fov         float32 `yaml:"fov"`
	Near        float32 `yaml:"near"`
	Far         float32 `yaml:"far"`
	Distance    float32 `yaml:"distance"`
	FollowScale float32 `yaml:"followScale"`
	Smoothing   float32 `yaml:"smoothing"`
}

// FogConfig is exponential-squared fog.
type FogConfig struct {
	Color   common.Hex `yaml:"color"`
	Density float32    `yaml:"density"`
}

// CounterConfig configures the stat counters.
type CounterConfig struct {
	Strategy string        `yaml:"strategy"`
	Duration time.Duration `yaml:"duration"`
	Interval time.Duration `yaml:"interval"`
	Steps    int           `yaml:"steps"`
	Stats    []StatConfig  `yaml:"stats"`
}

// StatConfig is one counter; Target is the raw data-target text.
type StatConfig struct {
	Label  string `yaml:"label"`
	Target string `yaml:"target"`
}

// GlitchConfig configures the glitch pulse.
type GlitchConfig struct {
	Interval time.Duration `yaml:"interval"`
	Hold     time.Duration `yaml:"hold"`
}

// AudioConfig configures the counter completion cue.
type AudioConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Frequency float64       `yaml:"frequency"`
	Length    time.Duration `yaml:"length"`
}

// Load reads, defaults and validates a preset file.
//
// Parameters:
//   - filepath: path to the YAML file
//
// Returns:
//   - *Preset: the loaded preset
//   - error: if the file cannot be read, parsed or validated
func Load(filepath string) (*Preset, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset file %s: %w", filepath, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("preset %s: %w", filepath, err)
	}
	return p, nil
}

// Parse decodes YAML, applies defaults and validates the result.
//
// Parameters:
//   - data: YAML document
//
// Returns:
//   - *Preset: the parsed preset
//   - error: if decoding or validation fails
func Parse(data []byte) (*Preset, error) {
	var p Preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse preset YAML: %w", err)
	}
	p.applyDefaults()
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid preset: %w", err)
	}
	return &p, nil
}

// Marshal encodes the preset back to YAML.
func (p *Preset) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal preset %q: %w", p.Name, err)
	}
	return data, nil
}

// Builtin returns one of the embedded presets by name.
//
// Parameters:
//   - name: preset name, e.g. "neural" or "gold"
//
// Returns:
//   - *Preset: the preset
//   - error: if no built-in has that name
func Builtin(name string) (*Preset, error) {
	data, err := builtins.ReadFile(path.Join("presets", strings.ToLower(name)+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("unknown preset %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return Parse(data)
}

// Names lists the embedded presets in sorted order.
func Names() []string {
	entries, err := builtins.ReadDir("presets")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if n, ok := strings.CutSuffix(e.Name(), ".yaml"); ok {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

// Resolve treats ref as a built-in name first and as a file path otherwise.
func Resolve(ref string) (*Preset, error) {
	if ref == "" {
		ref = "neural"
	}
	for _, n := range Names() {
		if strings.EqualFold(n, ref) {
			return Builtin(n)
		}
	}
	return Load(ref)
}

// applyDefaults fills zero-valued tunables with the neural backdrop's constants.
func (p *Preset) applyDefaults() {
	p.Particles.Size = common.Coalesce(p.Particles.Size, 0.5)
	p.Particles.Opacity = common.Coalesce(p.Particles.Opacity, 0.8)
	p.Particles.Wave.Frequency = common.Coalesce(p.Particles.Wave.Frequency, 0.05)
	p.Particles.Wave.Amplitude = common.Coalesce(p.Particles.Wave.Amplitude, 0.02)
	p.Particles.Wave.AnchoredAmplitude = common.Coalesce(p.Particles.Wave.AnchoredAmplitude, 1)
	p.Particles.PointerNudge = common.Coalesce(p.Particles.PointerNudge, 0.001)

	p.Shapes.FloatAmplitude = common.Coalesce(p.Shapes.FloatAmplitude, 0.02)
	p.Shapes.AnchoredFloatAmplitude = common.Coalesce(p.Shapes.AnchoredFloatAmplitude, 1)
	p.Shapes.DriftRate = common.Coalesce(p.Shapes.DriftRate, 0.1)
	p.Shapes.DriftStep = common.Coalesce(p.Shapes.DriftStep, 0.05)
	p.Shapes.DriftRadius = common.Coalesce(p.Shapes.DriftRadius, 20)
	for i := range p.Shapes.Items {
		p.Shapes.Items[i].Kind = model.Kind(strings.ToLower(string(p.Shapes.Items[i].Kind)))
	}

	p.Camera.Fov = common.Coalesce(p.Camera.Fov, 75)
	p.Camera.Near = common.Coalesce(p.Camera.Near, 0.1)
	p.Camera.Far = common.Coalesce(p.Camera.Far, 1000)
	p.Camera.Distance = common.Coalesce(p.Camera.Distance, 50)
	p.Camera.FollowScale = common.Coalesce(p.Camera.FollowScale, 10)
	p.Camera.Smoothing = common.Coalesce(p.Camera.Smoothing, 0.05)

	p.Counters.Duration = common.Coalesce(p.Counters.Duration, 2*time.Second)
	p.Counters.Interval = common.Coalesce(p.Counters.Interval, 30*time.Millisecond)
	p.Counters.Steps = common.Coalesce(p.Counters.Steps, 50)

	p.Glitch.Interval = common.Coalesce(p.Glitch.Interval, 5*time.Second)
	p.Glitch.Hold = common.Coalesce(p.Glitch.Hold, 100*time.Millisecond)

	p.Audio.Frequency = common.Coalesce(p.Audio.Frequency, 880)
	p.Audio.Length = common.Coalesce(p.Audio.Length, 50*time.Millisecond)
}

// Validate checks every field for values the scene cannot use.
//
// Returns:
//   - error: a descriptive error for the first invalid field, or nil
func (p *Preset) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}

	pc := p.Particles
	if pc.Count < 0 {
		return fmt.Errorf("particles.count cannot be negative, got %d", pc.Count)
	}
	switch pc.Distribution.Kind {
	case "cube":
		if pc.Distribution.Half <= 0 {
			return fmt.Errorf("particles.distribution.half must be positive, got %v", pc.Distribution.Half)
		}
	case "shell":
		if pc.Distribution.Inner < 0 || pc.Distribution.Depth < 0 {
			return fmt.Errorf("particles.distribution inner and depth cannot be negative")
		}
	default:
		return fmt.Errorf("particles.distribution.kind must be one of: cube, shell, got %q", pc.Distribution.Kind)
	}
	if pc.Palette.Mix < 0 || pc.Palette.Mix > 1 {
		return fmt.Errorf("particles.palette.mix must be between 0 and 1, got %v", pc.Palette.Mix)
	}
	if pc.Size <= 0 {
		return fmt.Errorf("particles.size must be positive, got %v", pc.Size)
	}
	if pc.Opacity < 0 || pc.Opacity > 1 {
		return fmt.Errorf("particles.opacity must be between 0 and 1, got %v", pc.Opacity)
	}

	sc := p.Shapes
	for i, s := range sc.Items {
		switch s.Kind {
		case model.KindIcosahedron, model.KindOctahedron, model.KindTetrahedron, model.KindSphere:
		default:
			return fmt.Errorf("shapes.items[%d]: unknown kind %q", i, s.Kind)
		}
		if s.Size <= 0 {
			return fmt.Errorf("shapes.items[%d]: size must be positive, got %v", i, s.Size)
		}
		if s.Opacity < 0 || s.Opacity > 1 {
			return fmt.Errorf("shapes.items[%d]: opacity must be between 0 and 1, got %v", i, s.Opacity)
		}
		if s.Detail < 0 {
			return fmt.Errorf("shapes.items[%d]: detail cannot be negative", i)
		}
	}
	if sc.RotationSpeed.Min > sc.RotationSpeed.Max {
		return fmt.Errorf("shapes.rotationSpeed: min %v exceeds max %v", sc.RotationSpeed.Min, sc.RotationSpeed.Max)
	}
	if len(sc.Items) > 0 && (sc.FloatSpeed.Min <= 0 || sc.FloatSpeed.Min > sc.FloatSpeed.Max) {
		return fmt.Errorf("shapes.floatSpeed must satisfy 0 < min <= max, got [%v, %v]", sc.FloatSpeed.Min, sc.FloatSpeed.Max)
	}
	if sc.Spread < 0 || sc.Depth < 0 {
		return fmt.Errorf("shapes spread and depth cannot be negative")
	}

	c := p.Camera
	if c.Fov <= 0 || c.Fov >= 180 {
		return fmt.Errorf("camera.fov must be between 0 and 180 degrees, got %v", c.Fov)
	}
	if c.Near <= 0 || c.Far <= c.Near {
		return fmt.Errorf("camera planes must satisfy 0 < near < far, got near %v far %v", c.Near, c.Far)
	}
	if c.Smoothing <= 0 || c.Smoothing >= 1 {
		return fmt.Errorf("camera.smoothing must be between 0 and 1 exclusive, got %v", c.Smoothing)
	}

	if p.Fog.Density < 0 {
		return fmt.Errorf("fog.density cannot be negative, got %v", p.Fog.Density)
	}

	if _, err := counter.ParseStrategy(p.Counters.Strategy); err != nil {
		return fmt.Errorf("counters: %w", err)
	}
	if p.Counters.Steps < 1 || p.Counters.Interval <= 0 || p.Counters.Duration < 0 {
		return fmt.Errorf("counters need steps >= 1, a positive interval and a non-negative duration")
	}
	for i, s := range p.Counters.Stats {
		if _, _, err := counter.ParseTarget(s.Target); err != nil {
			return fmt.Errorf("counters.stats[%d] (%s): %w", i, s.Label, err)
		}
	}

	if p.Glitch.Interval <= 0 || p.Glitch.Hold < 0 {
		return fmt.Errorf("glitch needs a positive interval and a non-negative hold")
	}
	if p.Audio.Frequency <= 0 {
		return fmt.Errorf("audio.frequency must be positive, got %v", p.Audio.Frequency)
	}
	return nil
}
