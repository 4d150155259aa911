package hxfacet

import (
	"errors"
	"fmt"

	"github.com/pthm/hxfacet/lib/encoding"
	"github.com/pthm/hxfacet/lib/rules"
)

// Sentinel errors for component and facet operations.
var (
	ErrUnsupportedRule    = errors.New("hxfacet: unsupported rule type")
	ErrInvalidConfig      = errors.New("hxfacet: invalid component config")
	ErrClassExists        = errors.New("hxfacet: component class already registered")
	ErrUnknownClass       = errors.New("hxfacet: unknown component class")
	ErrInvalidMarkup      = errors.New("hxfacet: invalid component markup")
	ErrMissingPlaceholder = errors.New("hxfacet: template has no placeholder")
	ErrRuleFailed         = errors.New("hxfacet: rule function failed")
	ErrInvalidClass       = errors.New("hxfacet: class name contains whitespace")
	ErrFacetClosed        = errors.New("hxfacet: facet closed")
	ErrInvalidModel       = errors.New("hxfacet: invalid model document")
	ErrUnsupportedBinding = errors.New("hxfacet: unsupported binding direction")
	ErrInvalidFormat      = errors.New("hxfacet: invalid state format")
	ErrSignatureInvalid   = errors.New("hxfacet: signature verification failed")
	ErrDecryptFailed      = errors.New("hxfacet: state decryption failed")
)

// IsConfigError reports whether err was caused by a malformed component
// class configuration.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrUnsupportedRule) || errors.Is(err, ErrInvalidConfig)
}

// IsResolveError reports whether err came from resolving a rule against a
// model value.
func IsResolveError(err error) bool {
	return errors.Is(err, ErrRuleFailed) ||
		errors.Is(err, ErrMissingPlaceholder) ||
		errors.Is(err, ErrInvalidClass)
}

// IsDecodeError checks if err is a state token decoding or verification
// error.
func IsDecodeError(err error) bool {
	return errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrDecryptFailed) ||
		errors.Is(err, ErrSignatureInvalid)
}

// wrapRuleError tags a rules package error with the matching hxfacet
// sentinel while keeping the original chain.
func wrapRuleError(path string, err error) error {
	if err == nil {
		return nil
	}
	var sentinel error
	switch {
	case errors.Is(err, rules.ErrMissingPlaceholder):
		sentinel = ErrMissingPlaceholder
	case errors.Is(err, rules.ErrRuleFailed):
		sentinel = ErrRuleFailed
	case errors.Is(err, rules.ErrInvalidClass):
		sentinel = ErrInvalidClass
	case errors.Is(err, rules.ErrUnsupportedRule):
		sentinel = ErrUnsupportedRule
	default:
		return fmt.Errorf("%s: %w", path, err)
	}
	if path == "" {
		return fmt.Errorf("%w: %w", sentinel, err)
	}
	return fmt.Errorf("%w: %s: %w", sentinel, path, err)
}

// wrapEncodingError maps encoding package errors to hxfacet sentinels.
func wrapEncodingError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, encoding.ErrInvalidFormat) {
		return ErrInvalidFormat
	}
	if errors.Is(err, encoding.ErrSignatureInvalid) {
		return ErrSignatureInvalid
	}
	if errors.Is(err, encoding.ErrDecryptFailed) {
		return ErrDecryptFailed
	}
	return err
}
