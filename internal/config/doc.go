// Package config loads, parses, and validates application settings from
// defaults, an optional config file, and SCRY_ prefixed environment variables.
package config
