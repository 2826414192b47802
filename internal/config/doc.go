// Package config handles YAML configuration loading with environment variable substitution.
//
// Every field has a default baked into this package, so the collector runs without
// a config file. A file only overrides the values it sets. Configuration files
// support ${VAR} syntax for environment variable interpolation.
package config
