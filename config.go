package csvresponse

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Heading formats selectable from a Config.
const (
	HeadingFormatDefault = "default"
	HeadingFormatNone    = "none"
)

// Config holds Encoder settings that can be loaded from YAML or the
// environment. Formatter functions other than the default cannot be
// expressed here; set them on the Encoder.
type Config struct {
	Glue          string `yaml:"glue" envconfig:"GLUE" default:"," validate:"glue"`
	OutputCharset string `yaml:"output_charset" envconfig:"OUTPUT_CHARSET" default:"utf-8" validate:"required"`
	ContentType   string `yaml:"content_type" envconfig:"CONTENT_TYPE" default:"text/csv" validate:"required"`
	Filename      string `yaml:"filename" envconfig:"FILENAME" default:"output.csv"`
	Heading       bool   `yaml:"heading" envconfig:"HEADING" default:"true"`
	BOM           bool   `yaml:"bom" envconfig:"BOM" default:"false"`
	HeadingFormat string `yaml:"heading_format" envconfig:"HEADING_FORMAT" default:"default" validate:"oneof=default none"`
}

// DefaultConfig returns the settings [New] starts from, with a heading row
// and the default output filename.
func DefaultConfig() Config {
	return Config{
		Glue:          Comma,
		OutputCharset: DefaultCharset,
		ContentType:   DefaultContentType,
		Filename:      DefaultFilename,
		Heading:       true,
		HeadingFormat: HeadingFormatDefault,
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("glue", func(fl validator.FieldLevel) bool {
		return validateGlue(fl.Field().String()) == nil
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// ParseConfig reads YAML on top of [DefaultConfig] and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads the configuration from environment variables named
// <prefix>_GLUE, <prefix>_OUTPUT_CHARSET and so on.
func LoadConfig(prefix string) (Config, error) {
	var cfg Config
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewFromConfig creates an Encoder for data using cfg.
func NewFromConfig(data any, cfg Config) (*Encoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e, err := New(data, cfg.Filename, cfg.Heading, cfg.BOM)
	if err != nil {
		return nil, err
	}
	return e.Apply(cfg), nil
}

// Apply copies glue, charset, content type and heading format from cfg.
// The filename and the heading and BOM flags are fixed at construction.
func (e *Encoder) Apply(cfg Config) *Encoder {
	e.SetGlue(cfg.Glue).
		SetOutputCharset(cfg.OutputCharset).
		SetContentType(cfg.ContentType)
	switch cfg.HeadingFormat {
	case HeadingFormatNone:
		e.SetHeadingFormatter(nil)
	case HeadingFormatDefault, "":
		e.SetHeadingFormatter(FirstUpperNoUnderscores)
	}
	return e
}
