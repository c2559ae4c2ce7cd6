// Package validation validates configuration and command input.
//
// Struct tags go through go-playground/validator with two extra tags:
// "prefix" (empty or ending in "/") and "letter" (exactly one ASCII
// letter). Field names in messages come from the mapstructure tag.
//
//	type Config struct {
//	    InputPrefix string `mapstructure:"input_prefix" validate:"prefix"`
//	}
//	err := validation.Validate(cfg)
//
// The fluent Validator covers checks that depend on runtime values:
//
//	v := validation.New()
//	v.Required("ref", ref).Positive("width", width)
//	err := v.Validate()
package validation
