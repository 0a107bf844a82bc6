package main

import (
	"fmt"
	"strings"
)

// flagValue represents a flag name and its current value for validation.
type flagValue struct {
	name  string
	value string
}

// requireExactlyOne returns an error if not exactly one of the given flags is set (non-empty).
func requireExactlyOne(flags ...flagValue) error {
	var set []string
	for _, f := range flags {
		if f.value != "" {
			set = append(set, f.name)
		}
	}

	names := make([]string, len(flags))
	for i, f := range flags {
		names[i] = f.name
	}
	flagList := strings.Join(names, ", ")

	if len(set) == 0 {
		return fmt.Errorf("one of %s is required", flagList)
	}
	if len(set) > 1 {
		return fmt.Errorf("only one of %s can be specified", flagList)
	}
	return nil
}

// requirePositive returns an error for a negative numeric flag.
func requirePositive(name string, v int) error {
	if v < 0 {
		return fmt.Errorf("%s must not be negative", name)
	}
	return nil
}
