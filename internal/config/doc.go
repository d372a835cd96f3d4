// Package config loads and validates the YAML configuration for wstap.
//
// Config files support ${VAR} environment variable expansion. Durations
// are integer milliseconds; omitted values fall back to defaults.
package config
