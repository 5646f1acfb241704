package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/itemfeed/errors"
)

type sampleConfig struct {
	Delimiter  string `mapstructure:"delimiter" validate:"omitempty,regexp"`
	LineEnding string `mapstructure:"line_ending" validate:"omitempty,byte"`
	Capacity   int    `mapstructure:"channel_capacity" validate:"min=0"`
	Shell      string `validate:"required"`
}

func TestStructValidateValid(t *testing.T) {
	cfg := sampleConfig{Delimiter: `[\t ]+`, LineEnding: `\0`, Shell: "sh"}
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestStructValidateInvalid(t *testing.T) {
	cfg := sampleConfig{Delimiter: "[", LineEnding: "ab", Capacity: -1}
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeInvalidConfig {
		t.Errorf("expected INVALID_CONFIG, got %s", appErr.Code)
	}
	for _, want := range []string{
		"delimiter: must be a valid regular expression",
		"line_ending: must be a single byte",
		"channel_capacity: must be at least 0",
		"shell: is required",
	} {
		if !strings.Contains(appErr.Message, want) {
			t.Errorf("expected message to contain %q, got %q", want, appErr.Message)
		}
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 4 {
		t.Errorf("expected 4 field errors in details, got %v", appErr.Details["fields"])
	}
}

func TestParseByte(t *testing.T) {
	tests := []struct {
		in   string
		want byte
		ok   bool
	}{
		{`\0`, 0, true},
		{"\x00", 0, true},
		{`\n`, '\n', true},
		{`\t`, '\t', true},
		{`\r`, '\r', true},
		{";", ';', true},
		{"", 0, false},
		{"ab", 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseByte(tc.in)
			if ok != tc.ok || got != tc.want {
				t.Errorf("ParseByte(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestValidatorCustom(t *testing.T) {
	v := New()
	v.Custom(true, "ok", "never")
	v.Custom(false, "read0", "conflicts with line_ending")
	if !v.HasErrors() {
		t.Fatal("expected error")
	}
	if len(v.Errors()) != 1 || v.Errors()[0].Field != "read0" {
		t.Errorf("unexpected errors %v", v.Errors())
	}
}

func TestValidatorChaining(t *testing.T) {
	v := New().Min("header_lines", -1, 0).OneOf("format", "xml", []string{"json", "console"})
	appErr := v.Validate()
	if appErr == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(appErr.Message, "header_lines: must be at least 0") {
		t.Errorf("unexpected message %q", appErr.Message)
	}
	if !strings.Contains(appErr.Message, "format: must be one of: json, console") {
		t.Errorf("unexpected message %q", appErr.Message)
	}
}

func TestValidatorNoErrors(t *testing.T) {
	v := New().Min("n", 3, 0).OneOf("format", "", []string{"json"})
	if v.Validate() != nil {
		t.Error("expected nil for valid input")
	}
}

func TestToSnakeCase(t *testing.T) {
	if got := toSnakeCase("ChannelCapacity"); got != "channel_capacity" {
		t.Errorf("expected channel_capacity, got %q", got)
	}
}
