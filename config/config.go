// Package config holds the settings of a dataset conversion run,
// read from defaults, an optional YAML file, flags and operator prompts.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jackvalmadre/vocify/split"
	"github.com/jackvalmadre/vocify/voc"
)

// Config is the full configuration of a conversion run.
type Config struct {
	// Root of the classification dataset, one directory per class.
	Dataset string `yaml:"dataset"`
	// Root of the VOCdevkit directory.
	Devkit string `yaml:"devkit"`
	Year   int    `yaml:"year"`
	// Nil until known; the operator is asked when unset.
	PreSplit *bool `yaml:"pre_split"`
	// Create the Annotations and ImageSets/Main directories if missing.
	CreateDirs bool             `yaml:"create_dirs"`
	Split      SplitConfig      `yaml:"split"`
	Annotation AnnotationConfig `yaml:"annotation"`
}

// SplitConfig controls the train/val/test partition.
type SplitConfig struct {
	Train float64 `yaml:"train"`
	Val   float64 `yaml:"val"`
	Seed  uint64  `yaml:"seed"`
}

// AnnotationConfig holds the free-text fields of every annotation.
type AnnotationConfig struct {
	Annotator string `yaml:"annotator"`
	Database  string `yaml:"database"`
	Image     string `yaml:"image"`
	Pose      string `yaml:"pose"`
}

// Default returns a configuration for the current year.
func Default() *Config {
	return &Config{
		Year: time.Now().Year(),
		Split: SplitConfig{
			Train: split.DefaultTrainRatio,
			Val:   split.DefaultValRatio,
		},
		Annotation: AnnotationConfig{
			Annotator: voc.Unknown,
			Database:  voc.Unknown,
			Image:     voc.Unknown,
			Pose:      voc.Unspecified,
		},
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Clean makes the dataset and devkit paths absolute.
func (c *Config) Clean() error {
	for _, p := range []*string{&c.Dataset, &c.Devkit} {
		if *p == "" {
			continue
		}
		abs, err := filepath.Abs(*p)
		if err != nil {
			return err
		}
		*p = filepath.ToSlash(abs)
	}
	return nil
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if c.Dataset == "" {
		return fmt.Errorf("dataset is required")
	}
	if c.Devkit == "" {
		return fmt.Errorf("devkit is required")
	}
	if c.Year <= 0 {
		return fmt.Errorf("year must be > 0")
	}
	if c.Split.Train < 0 || c.Split.Val < 0 {
		return fmt.Errorf("split ratios must be >= 0")
	}
	if c.Split.Train+c.Split.Val > 1 {
		return fmt.Errorf("split.train + split.val must be <= 1, got %g", c.Split.Train+c.Split.Val)
	}
	return nil
}

// Dir returns <devkit>/VOC<year>.
func (c *Config) Dir() string {
	return voc.Dir(c.Devkit, c.Year)
}

// AnnotationsDir returns <devkit>/VOC<year>/Annotations.
func (c *Config) AnnotationsDir() string {
	return voc.AnnotationsDir(c.Dir())
}

// ManifestDir returns <devkit>/VOC<year>/ImageSets/Main.
func (c *Config) ManifestDir() string {
	return voc.ManifestDir(c.Dir())
}

// IsPreSplit reports whether the dataset was declared as already split.
func (c *Config) IsPreSplit() bool {
	return c.PreSplit != nil && *c.PreSplit
}
