package config

import (
	"fmt"
	"strings"

	"github.com/core-tools/hsu-autorun/pkg/errors"
)

var (
	trueValues  = []string{"1", "true", "yes", "ok", "on"}
	falseValues = []string{"0", "false", "no", "ko", "off"}
)

// ParseBoolean parses the boolean vocabulary accepted in recipe options.
// Matching is case-insensitive.
func ParseBoolean(value string) (bool, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, v := range trueValues {
		if normalized == v {
			return true, nil
		}
	}
	for _, v := range falseValues {
		if normalized == v {
			return false, nil
		}
	}
	return false, errors.NewInvalidConfigurationError(
		fmt.Sprintf("invalid value for bool %q, must be in %s", value, acceptedBooleans()),
		nil,
	).WithContext("value", value)
}

func acceptedBooleans() string {
	all := make([]string, 0, len(trueValues)+len(falseValues))
	all = append(all, trueValues...)
	all = append(all, falseValues...)
	return "[" + strings.Join(all, ", ") + "]"
}
