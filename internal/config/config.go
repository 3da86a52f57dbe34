package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultHeight      = 5
	DefaultWidth       = 5
	DefaultProbability = 0.25
	DefaultAddr        = ":8080"
	DefaultDataDir     = ".lightsout"

	MaxSide = 20
)

type Config struct {
	Height               int     `yaml:"height" validate:"min=1,max=20"`
	Width                int     `yaml:"width" validate:"min=1,max=20"`
	InitialOnProbability float64 `yaml:"initial_on_probability" validate:"gte=0,lte=1"`
	// Seed 0 means seed from the clock.
	Seed           int64  `yaml:"seed"`
	EnsureSolvable bool   `yaml:"ensure_solvable"`
	Addr           string `yaml:"addr"`
	// DataDir is where won games are recorded. Empty disables recording.
	DataDir string `yaml:"data_dir"`
	Theme   string `yaml:"theme" validate:"omitempty,oneof=classic retro ocean sunset"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func DefaultConfig() *Config {
	return &Config{
		Height:               DefaultHeight,
		Width:                DefaultWidth,
		InitialOnProbability: DefaultProbability,
		Addr:                 DefaultAddr,
		DataDir:              DefaultDataDir,
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of base, so keys missing from the file keep
// base's values. base is modified and returned.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, base); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := base.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return base, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects out of range settings with a message naming each bad
// field. Values are never clamped.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return &ValidationError{Problems: msgs}
}

type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid config: " + strings.Join(e.Problems, "; ")
}

func describe(fe validator.FieldError) string {
	name := fieldName(fe.Field())
	switch fe.Field() {
	case "Height", "Width":
		return fmt.Sprintf("%s must be between 1 and %d, got %v", name, MaxSide, fe.Value())
	case "InitialOnProbability":
		return fmt.Sprintf("%s must be within [0,1], got %v", name, fe.Value())
	case "Theme":
		return fmt.Sprintf("%s must be one of %s, got %q", name, fe.Param(), fe.Value())
	}
	return fmt.Sprintf("%s failed %q", name, fe.Tag())
}

func fieldName(field string) string {
	switch field {
	case "Height":
		return "height"
	case "Width":
		return "width"
	case "InitialOnProbability":
		return "initial_on_probability"
	}
	return strings.ToLower(field)
}
