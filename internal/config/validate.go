package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jackzampolin/sheetindex/internal/providers"
)

var (
	// ErrUnknownSetting is returned for keys no part of sheetindex reads.
	ErrUnknownSetting = errors.New("unknown setting")

	// ErrInvalidValue is returned when a value has the wrong type or range.
	ErrInvalidValue = errors.New("invalid setting value")
)

type valueKind int

const (
	kindString valueKind = iota
	kindBool
	kindNumber
	kindWhole
)

func (k valueKind) String() string {
	switch k {
	case kindBool:
		return "a boolean"
	case kindNumber:
		return "a number"
	case kindWhole:
		return "a whole number"
	default:
		return "a string"
	}
}

// valueRule constrains one setting.
type valueRule struct {
	kind valueKind
	min  float64
	// oneOf, when set, must accept string values.
	oneOf func(string) bool
}

var pipelineRules = map[string]valueRule{
	"defaults.detector":       {kind: kindString},
	"defaults.reader":         {kind: kindString},
	"defaults.max_workers":    {kind: kindWhole, min: 0},
	"identify.retry_attempts": {kind: kindWhole, min: 1},
	"identify.retry_delay_ms": {kind: kindNumber, min: 0},
	"identify.dpi":            {kind: kindNumber, min: 1},
}

// Fields under providers.<name>.
var providerRules = map[string]valueRule{
	"type":          {kind: kindString, oneOf: providers.KnownType},
	"model":         {kind: kindString},
	"api_key":       {kind: kindString},
	"rate_limit":    {kind: kindNumber, min: 0},
	"crop_max_side": {kind: kindWhole, min: 0},
	"enabled":       {kind: kindBool},
}

// IsProviderKey reports whether key configures a provider.
func IsProviderKey(key string) bool {
	return strings.HasPrefix(key, "providers.")
}

// CheckValue reports whether value may be stored under key. Numbers may
// arrive as any Go numeric type or json.Number.
func CheckValue(key string, value any) error {
	rule, err := ruleFor(key)
	if err != nil {
		return err
	}

	switch rule.kind {
	case kindString:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %s must be %s, got %T", ErrInvalidValue, key, rule.kind, value)
		}
		if rule.oneOf != nil && !rule.oneOf(s) {
			return fmt.Errorf("%w: %s does not accept %q", ErrInvalidValue, key, s)
		}
	case kindBool:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("%w: %s must be %s, got %T", ErrInvalidValue, key, rule.kind, value)
		}
	case kindNumber, kindWhole:
		n, ok := asFloat(value)
		if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
			return fmt.Errorf("%w: %s must be %s, got %v", ErrInvalidValue, key, rule.kind, value)
		}
		if rule.kind == kindWhole && n != math.Trunc(n) {
			return fmt.Errorf("%w: %s must be %s, got %v", ErrInvalidValue, key, rule.kind, n)
		}
		if n < rule.min {
			return fmt.Errorf("%w: %s must be at least %g, got %v", ErrInvalidValue, key, rule.min, n)
		}
	}
	return nil
}

func ruleFor(key string) (valueRule, error) {
	if rule, ok := pipelineRules[key]; ok {
		return rule, nil
	}
	if IsProviderKey(key) {
		parts := strings.SplitN(strings.TrimPrefix(key, "providers."), ".", 2)
		if len(parts) == 2 && parts[0] != "" {
			if rule, ok := providerRules[parts[1]]; ok {
				return rule, nil
			}
		}
	}
	return valueRule{}, fmt.Errorf("%w: %s", ErrUnknownSetting, key)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
