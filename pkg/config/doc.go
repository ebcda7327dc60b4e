// Package config loads service configuration from environment variables.
//
// All variables carry the AMS_ prefix. Every field has a sensible default
// so a bare environment yields a runnable in-memory configuration.
package config
