// Package file provides file-based implementations of configuration
// storage using TOML.
package file
