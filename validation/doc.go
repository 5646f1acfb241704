// Package validation validates feed configuration.
//
// Struct tag validation uses go-playground/validator with two extra tags:
// "regexp" accepts strings that compile as Go regular expressions and
// "byte" accepts strings that encode exactly one byte (escapes such as "\0"
// and "\n" are understood). Field names in messages come from mapstructure
// tags so they match the configuration keys.
//
//	type FeedConfig struct {
//	    Delimiter string `mapstructure:"delimiter" validate:"omitempty,regexp"`
//	}
//	err := validation.Validate(cfg)
//
// Cross-field checks use the collecting Validator:
//
//	v := validation.New()
//	v.Custom(!(read0 && lineEnding != ""), "read0", "conflicts with line_ending")
//	return v.Validate()
package validation
