package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrInvalidSortMode indicates an unsupported bundle sort mode.
	ErrInvalidSortMode = errors.New("invalid sort mode")

	// ErrInvalidGuideMode indicates an unsupported usage guide verbosity.
	ErrInvalidGuideMode = errors.New("invalid guide mode")

	// ErrInvalidByteCap indicates a non-positive byte budget.
	ErrInvalidByteCap = errors.New("invalid byte cap")

	// ErrInvalidBatchSize indicates a batch size below one.
	ErrInvalidBatchSize = errors.New("invalid batch size")

	// ErrInvalidIDPrefix indicates a malformed id prefix.
	ErrInvalidIDPrefix = errors.New("invalid id prefix")

	// ErrEmptyOutput indicates a missing output path.
	ErrEmptyOutput = errors.New("empty output path")
)

var alnumRe = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateBundle(&cfg.Bundle); err != nil {
		errs = append(errs, err)
	}
	if err := validateKnowledge(&cfg.Knowledge); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func validateBundle(cfg *BundleConfig) error {
	var errs []error

	switch cfg.Sort {
	case "path", "size", "ext":
	default:
		errs = append(errs, fmt.Errorf("%w: must be 'path', 'size', or 'ext', got %q", ErrInvalidSortMode, cfg.Sort))
	}
	switch cfg.Guide {
	case "none", "short", "verbose":
	default:
		errs = append(errs, fmt.Errorf("%w: must be 'none', 'short', or 'verbose', got %q", ErrInvalidGuideMode, cfg.Guide))
	}
	if cfg.MaxFileBytes <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_file_bytes must be positive, got %d", ErrInvalidByteCap, cfg.MaxFileBytes))
	}
	if cfg.MaxTotalBytes <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_total_bytes must be positive, got %d", ErrInvalidByteCap, cfg.MaxTotalBytes))
	}
	if !alnumRe.MatchString(cfg.IDPrefix) {
		errs = append(errs, fmt.Errorf("%w: must be alphanumeric, got %q", ErrInvalidIDPrefix, cfg.IDPrefix))
	}
	if strings.TrimSpace(cfg.Output) == "" {
		errs = append(errs, fmt.Errorf("%w: bundle output is required", ErrEmptyOutput))
	}
	return errors.Join(errs...)
}

func validateKnowledge(cfg *KnowledgeConfig) error {
	var errs []error

	if cfg.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("%w: batch_size must be at least 1, got %d", ErrInvalidBatchSize, cfg.BatchSize))
	}
	if !alnumRe.MatchString(cfg.IDPrefix) {
		errs = append(errs, fmt.Errorf("%w: must be alphanumeric, got %q", ErrInvalidIDPrefix, cfg.IDPrefix))
	}
	if strings.TrimSpace(cfg.BaseName) == "" {
		errs = append(errs, fmt.Errorf("%w: knowledge base_name is required", ErrEmptyOutput))
	}
	return errors.Join(errs...)
}

// SanitizeDocIDPrefix strips non-alphanumeric characters and upper-cases the
// rest, falling back to "DOC" when nothing survives.
func SanitizeDocIDPrefix(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	out := strings.ToUpper(b.String())
	if out == "" {
		return "DOC"
	}
	return out
}
