// Package config loads envspace configuration from a YAML file with
// environment-variable overrides, and can watch the file for changes.
package config
