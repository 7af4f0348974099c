// Package validation provides input validation for savvy configuration.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Both report failures as an
// *errors.AppError with code INVALID_INPUT and the offending fields under
// Details["fields"].
//
// # Struct Tag Validation
//
//	type Config struct {
//	    BaseURL string `mapstructure:"base_url" validate:"required,url"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	err := validation.New().
//	    Min("buffer_size", cfg.BufferSize, 0).
//	    Err()
package validation
