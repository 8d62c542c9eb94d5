package backdrop

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// ErrUnknownPreset is returned for preset names that are not built in.
var ErrUnknownPreset = errors.New("backdrop: unknown preset")

var presets = map[string]func() Config{
	"micro":         DefaultConfig,
	"drift":         driftConfig,
	"constellation": constellationConfig,
}

// PresetNames returns the built-in preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Preset returns a fresh copy of the named built-in configuration.
func Preset(name string) (Config, error) {
	fn, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return fn(), nil
}

// driftConfig is free-floating particles pulled toward the pointer and
// respawned when they leave the surface.
func driftConfig() Config {
	blue := Color{R: 0x3b / 255.0, G: 0x82 / 255.0, B: 0xf6 / 255.0, A: 1}
	return Config{
		Count:              50,
		Colors:             []Color{blue},
		MinSize:            1,
		MaxSize:            5,
		Speed:              1,
		SpawnVelocity:      0.25,
		Opacity:            Range{0.1, 0.5},
		Life:               Range{100, 300},
		LifeDecay:          1,
		FadeWindow:         0.2,
		Interactive:        true,
		Interaction:        InteractAttract,
		InteractionRadius:  100,
		InteractionForce:   0.15,
		Friction:           0.99,
		RespawnOutOfBounds: true,
		ConnectParticles:   true,
		ConnectDistance:    150,
		ConnectOpacity:     0.2,
		ConnectWidth:       0.5,
		ConnectColor:       blue,
		BlendMode:          BlendNormal,
		Shape:              ShapeCircle,
	}
}

// constellationConfig is drift at a larger scale, using the grid index.
func constellationConfig() Config {
	c := driftConfig()
	c.Count = 400
	c.ConnectDistance = 90
	c.ConnectIndex = ConnectGrid
	c.MaxSize = 2.5
	c.Opacity = Range{0.3, 0.8}
	return c
}

// --- YAML preset files ---

type yamlRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// presetFile is the on-disk form of a Config. Absent keys keep the value
// from the base preset.
type presetFile struct {
	Base string `yaml:"base,omitempty"`

	Count         *int       `yaml:"count,omitempty"`
	Colors        []string   `yaml:"colors,omitempty"`
	Size          *yamlRange `yaml:"size,omitempty"`
	Speed         *float64   `yaml:"speed,omitempty"`
	SpawnVelocity *float64   `yaml:"spawnVelocity,omitempty"`
	Opacity       *yamlRange `yaml:"opacity,omitempty"`
	Life          *yamlRange `yaml:"life,omitempty"`
	LifeDecay     *float64   `yaml:"lifeDecay,omitempty"`
	FadeWindow    *float64   `yaml:"fadeWindow,omitempty"`

	Interactive       *bool    `yaml:"interactive,omitempty"`
	Interaction       string   `yaml:"interaction,omitempty"`
	InteractionRadius *float64 `yaml:"interactionRadius,omitempty"`
	InteractionForce  *float64 `yaml:"interactionForce,omitempty"`

	Noise              *float64 `yaml:"noise,omitempty"`
	Spring             *float64 `yaml:"spring,omitempty"`
	Friction           *float64 `yaml:"friction,omitempty"`
	RespawnOutOfBounds *bool    `yaml:"respawnOutOfBounds,omitempty"`

	Connect         *bool    `yaml:"connect,omitempty"`
	ConnectDistance *float64 `yaml:"connectDistance,omitempty"`
	ConnectOpacity  *float64 `yaml:"connectOpacity,omitempty"`
	ConnectWidth    *float64 `yaml:"connectWidth,omitempty"`
	ConnectColor    string   `yaml:"connectColor,omitempty"`
	ConnectIndex    string   `yaml:"connectIndex,omitempty"`

	Blend string `yaml:"blend,omitempty"`
	Shape string `yaml:"shape,omitempty"`

	Glow        *bool    `yaml:"glow,omitempty"`
	GlowRadius  *float64 `yaml:"glowRadius,omitempty"`
	GlowColor   string   `yaml:"glowColor,omitempty"`
	GlowOpacity *float64 `yaml:"glowOpacity,omitempty"`

	FadeIn string  `yaml:"fadeIn,omitempty"`
	Seed   *uint64 `yaml:"seed,omitempty"`
}

// LoadPresetFile reads and parses a YAML preset file.
func LoadPresetFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read preset %s: %w", path, err)
	}
	cfg, err := ParsePreset(data)
	if err != nil {
		return Config{}, fmt.Errorf("preset %s: %w", path, err)
	}
	return cfg, nil
}

// ParsePreset decodes a YAML preset. Keys override the preset named by
// "base" (micro when absent), and the result is validated.
func ParsePreset(data []byte) (Config, error) {
	var f presetFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode preset: %w", err)
	}
	base := f.Base
	if base == "" {
		base = "micro"
	}
	cfg, err := Preset(base)
	if err != nil {
		return Config{}, err
	}
	if err := f.apply(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (f *presetFile) apply(c *Config) error {
	setInt(&c.Count, f.Count)
	setFloat(&c.Speed, f.Speed)
	setFloat(&c.SpawnVelocity, f.SpawnVelocity)
	setFloat(&c.LifeDecay, f.LifeDecay)
	setFloat(&c.FadeWindow, f.FadeWindow)
	setFloat(&c.InteractionRadius, f.InteractionRadius)
	setFloat(&c.InteractionForce, f.InteractionForce)
	setFloat(&c.NoiseIntensity, f.Noise)
	setFloat(&c.SpringConstant, f.Spring)
	setFloat(&c.Friction, f.Friction)
	setFloat(&c.ConnectDistance, f.ConnectDistance)
	setFloat(&c.ConnectOpacity, f.ConnectOpacity)
	setFloat(&c.ConnectWidth, f.ConnectWidth)
	setFloat(&c.GlowRadius, f.GlowRadius)
	setFloat(&c.GlowOpacity, f.GlowOpacity)
	setBool(&c.Interactive, f.Interactive)
	setBool(&c.RespawnOutOfBounds, f.RespawnOutOfBounds)
	setBool(&c.ConnectParticles, f.Connect)
	setBool(&c.MouseGlow, f.Glow)
	if f.Seed != nil {
		c.Seed = *f.Seed
	}
	if f.Size != nil {
		c.MinSize, c.MaxSize = f.Size.Min, f.Size.Max
	}
	if f.Opacity != nil {
		c.Opacity = Range(*f.Opacity)
	}
	if f.Life != nil {
		c.Life = Range(*f.Life)
	}

	if len(f.Colors) > 0 {
		c.Colors = c.Colors[:0:0]
		for _, s := range f.Colors {
			col, err := ParseHexColor(s)
			if err != nil {
				return err
			}
			c.Colors = append(c.Colors, col)
		}
	}
	var err error
	if f.ConnectColor != "" {
		if c.ConnectColor, err = ParseHexColor(f.ConnectColor); err != nil {
			return err
		}
	}
	if f.GlowColor != "" {
		if c.GlowColor, err = ParseHexColor(f.GlowColor); err != nil {
			return err
		}
	}
	if f.Interaction != "" {
		if c.Interaction, err = ParseInteraction(f.Interaction); err != nil {
			return err
		}
	}
	if f.ConnectIndex != "" {
		if c.ConnectIndex, err = ParseConnectIndex(f.ConnectIndex); err != nil {
			return err
		}
	}
	if f.Blend != "" {
		if c.BlendMode, err = ParseBlendMode(f.Blend); err != nil {
			return err
		}
	}
	if f.Shape != "" {
		if c.Shape, err = ParseShape(f.Shape); err != nil {
			return err
		}
	}
	if f.FadeIn != "" {
		if c.FadeIn, err = time.ParseDuration(f.FadeIn); err != nil {
			return fmt.Errorf("fadeIn: %w", err)
		}
	}
	return nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// MarshalPreset encodes cfg as a complete YAML preset. DrawFunc is not
// representable and is dropped.
func MarshalPreset(cfg Config) ([]byte, error) {
	f := presetFile{
		Count:              &cfg.Count,
		Size:               &yamlRange{cfg.MinSize, cfg.MaxSize},
		Speed:              &cfg.Speed,
		SpawnVelocity:      &cfg.SpawnVelocity,
		Opacity:            (*yamlRange)(&cfg.Opacity),
		Life:               (*yamlRange)(&cfg.Life),
		LifeDecay:          &cfg.LifeDecay,
		FadeWindow:         &cfg.FadeWindow,
		Interactive:        &cfg.Interactive,
		Interaction:        cfg.Interaction.String(),
		InteractionRadius:  &cfg.InteractionRadius,
		InteractionForce:   &cfg.InteractionForce,
		Noise:              &cfg.NoiseIntensity,
		Spring:             &cfg.SpringConstant,
		Friction:           &cfg.Friction,
		RespawnOutOfBounds: &cfg.RespawnOutOfBounds,
		Connect:            &cfg.ConnectParticles,
		ConnectDistance:    &cfg.ConnectDistance,
		ConnectOpacity:     &cfg.ConnectOpacity,
		ConnectWidth:       &cfg.ConnectWidth,
		ConnectIndex:       cfg.ConnectIndex.String(),
		Blend:              cfg.BlendMode.String(),
		Shape:              cfg.Shape.String(),
		Glow:               &cfg.MouseGlow,
		GlowRadius:         &cfg.GlowRadius,
		GlowOpacity:        &cfg.GlowOpacity,
		FadeIn:             cfg.FadeIn.String(),
	}
	if cfg.Seed != 0 {
		f.Seed = &cfg.Seed
	}
	for _, c := range cfg.Colors {
		f.Colors = append(f.Colors, c.Hex())
	}
	if cfg.ConnectColor != (Color{}) {
		f.ConnectColor = cfg.ConnectColor.Hex()
	}
	if cfg.GlowColor != (Color{}) {
		f.GlowColor = cfg.GlowColor.Hex()
	}
	out, err := yaml.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("encode preset: %w", err)
	}
	return out, nil
}

// ParseHexColor parses "#rgb", "#rrggbb" or "#rrggbbaa".
func ParseHexColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	alpha := 1.0
	if len(s) == 9 && s[0] == '#' {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("color %q: bad alpha", s)
		}
		alpha = float64(a) / 255
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	return Color{R: c.R, G: c.G, B: c.B, A: alpha}, nil
}

// Hex formats c as "#rrggbb", or "#rrggbbaa" when it is not opaque.
func (c Color) Hex() string {
	h := colorful.Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B)}.Hex()
	if c.A >= 1 {
		return h
	}
	return fmt.Sprintf("%s%02x", h, uint8(clamp01(c.A)*255+0.5))
}
