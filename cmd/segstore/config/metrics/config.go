package metricsconfig

import (
	"github.com/nspcc-dev/segstore/cmd/segstore/config"
)

const (
	subsection = "metrics"

	// AddressDefault is a default value for metrics HTTP service endpoint.
	AddressDefault = "localhost:9090"
)

// Enabled returns the value of "enabled" config parameter
// from "metrics" section.
//
// Returns false if the value is missing or invalid.
func Enabled(c *config.Config) bool {
	return config.BoolSafe(c.Sub(subsection), "enabled")
}

// Address returns the value of "address" config parameter
// from "metrics" section.
//
// Returns AddressDefault if the value is not set.
func Address(c *config.Config) string {
	v := config.StringSafe(c.Sub(subsection), "address")
	if v != "" {
		return v
	}

	return AddressDefault
}
