package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	validator "github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	SizeConfig struct {
		Width  float64 `yaml:"width" validate:"gte=0"`
		Height float64 `yaml:"height" validate:"gte=0"`
	}

	RectConfig struct {
		X      float64 `yaml:"x"`
		Y      float64 `yaml:"y"`
		Width  float64 `yaml:"width" validate:"gte=0"`
		Height float64 `yaml:"height" validate:"gte=0"`
	}

	// ElementConfig describes element which could be measured with width(),
	// height(), x() and y() queries. Closest elements are ancestors of the
	// current element, listed nearest first.
	ElementConfig struct {
		Selector string     `yaml:"selector" validate:"required"`
		Closest  bool       `yaml:"closest"`
		Rect     RectConfig `yaml:"rect"`
	}

	EnvironmentConfig struct {
		BaseURL      string            `yaml:"base_url" validate:"omitempty,url"`
		Viewport     SizeConfig        `yaml:"viewport"`
		FontSize     float64           `yaml:"font_size" validate:"gt=0"`
		RootFontSize float64           `yaml:"root_font_size" validate:"gt=0"`
		Element      RectConfig        `yaml:"element"`
		Index        int               `yaml:"index" validate:"gte=0,ltfield=Length"`
		Length       int               `yaml:"length" validate:"gte=1"`
		Elements     []ElementConfig   `yaml:"elements" validate:"dive"`
		Vars         map[string]string `yaml:"vars" validate:"dive,keys,startswith=--,endkeys"`
	}

	EvaluationConfig struct {
		Normalize bool `yaml:"normalize"`
		// Seed makes rand() reproducible when not 0.
		Seed uint64 `yaml:"seed"`
		// StylesheetVars adds custom properties declared in processed
		// stylesheets to configured variables.
		StylesheetVars bool `yaml:"stylesheet_vars"`
	}

	Config struct {
		Version     int               `yaml:"version" validate:"eq=1"`
		Environment EnvironmentConfig `yaml:"environment"`
		Evaluation  EvaluationConfig  `yaml:"evaluation"`
		Logging     LoggingConfig     `yaml:"logging"`
		Reporting   ReporterConfig    `yaml:"reporting"`
	}
)

// checkElements makes sure element lookups are not ambiguous.
func checkElements(sl validator.StructLevel) {
	cfg, ok := sl.Current().Interface().(Config)
	if !ok {
		return
	}
	type key struct {
		selector string
		closest  bool
	}
	seen := make(map[key]bool, len(cfg.Environment.Elements))
	for i, e := range cfg.Environment.Elements {
		k := key{selector: e.Selector, closest: e.Closest}
		if seen[k] {
			name := fmt.Sprintf("Environment.Elements[%d].Selector", i)
			sl.ReportError(e.Selector, name, "Selector", "unique", "")
		}
		seen[k] = true
	}
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("failed to sanitize configuration: %w", err)
		}
		if err := gencfg.Validate(cfg, gencfg.WithAdditionalChecks(checkElements)); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration tamplate to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
