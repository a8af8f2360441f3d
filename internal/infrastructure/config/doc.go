// Package config loads service configuration from environment variables
// with an optional YAML overlay file for simulation tuning.
package config
