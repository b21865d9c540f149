package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidFormat indicates an unsupported structure output format.
	ErrInvalidFormat = errors.New("invalid structure format")

	// ErrInvalidDebounce indicates a non-positive debounce window.
	ErrInvalidDebounce = errors.New("invalid debounce window")

	// ErrInvalidEstimate indicates a non-positive throughput estimate.
	ErrInvalidEstimate = errors.New("invalid parse-throughput estimate")
)

// Validate checks that the configuration is usable.
func Validate(cfg *Config) error {
	var errs []error

	format := strings.ToLower(cfg.Structure.Format)
	if format != "xml" && format != "tree" {
		errs = append(errs, fmt.Errorf("%w: must be 'xml' or 'tree', got %q", ErrInvalidFormat, cfg.Structure.Format))
	}

	if cfg.Watch.Debounce <= 0 {
		errs = append(errs, fmt.Errorf("%w: must be positive, got %s", ErrInvalidDebounce, cfg.Watch.Debounce))
	}

	if cfg.Indexing.EstimateBytesPerSec <= 0 {
		errs = append(errs, fmt.Errorf("%w: must be positive, got %d", ErrInvalidEstimate, cfg.Indexing.EstimateBytesPerSec))
	}

	return errors.Join(errs...)
}
