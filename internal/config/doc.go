// Package config provides the configuration of logpuzzle: built-in defaults,
// an optional YAML configuration file and the validation of the merged result.
package config
