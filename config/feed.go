package config

import (
	"time"

	"github.com/kbukum/itemfeed/errors"
	"github.com/kbukum/itemfeed/validation"
)

// FeedConfig holds every setting of the item reader and its CLI.
type FeedConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	LineEnding      string        `yaml:"line_ending" mapstructure:"line_ending" validate:"omitempty,byte"`
	Read0           bool          `yaml:"read0" mapstructure:"read0"`
	ANSI            bool          `yaml:"ansi" mapstructure:"ansi"`
	Delimiter       string        `yaml:"delimiter" mapstructure:"delimiter" validate:"omitempty,regexp"`
	WithNth         string        `yaml:"with_nth" mapstructure:"with_nth"`
	Nth             string        `yaml:"nth" mapstructure:"nth"`
	ShowError       bool          `yaml:"show_error" mapstructure:"show_error"`
	Shell           string        `yaml:"shell" mapstructure:"shell"`
	ChannelCapacity int           `yaml:"channel_capacity" mapstructure:"channel_capacity" validate:"min=0"`
	Header          string        `yaml:"header" mapstructure:"header"`
	HeaderLines     int           `yaml:"header_lines" mapstructure:"header_lines" validate:"min=0"`
	DefaultCommand  string        `yaml:"default_command" mapstructure:"default_command"`
	Metrics         MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// MetricsConfig configures the OTLP metric exporter.
type MetricsConfig struct {
	Enabled        bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint       string        `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure       bool          `yaml:"insecure" mapstructure:"insecure"`
	ExportInterval time.Duration `yaml:"export_interval" mapstructure:"export_interval"`
}

// ApplyDefaults fills unset fields.
func (c *FeedConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	if c.LineEnding == "" {
		c.LineEnding = `\n`
	}
	if c.Metrics.Endpoint == "" {
		c.Metrics.Endpoint = "localhost:4318"
	}
	if c.Metrics.ExportInterval == 0 {
		c.Metrics.ExportInterval = 10 * time.Second
	}
}

// Validate checks struct tags and the cross-field rules.
func (c *FeedConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return errors.InvalidConfig("service", err.Error()).WithCause(err)
	}
	if err := validation.Validate(c); err != nil {
		return err
	}
	if c.Read0 {
		if b, ok := validation.ParseByte(c.LineEnding); ok && b != 0 && b != '\n' {
			return errors.InvalidConfig("read0", "read0 conflicts with line_ending "+c.LineEnding)
		}
	}
	return nil
}

// LineEndingByte returns the item terminator. Read0 selects NUL.
func (c *FeedConfig) LineEndingByte() byte {
	if c.Read0 {
		return 0
	}
	if b, ok := validation.ParseByte(c.LineEnding); ok {
		return b
	}
	return '\n'
}
