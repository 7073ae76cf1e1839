// Package file provides the TOML-backed configuration store. Settings
// live under the deepscout config directory and are flattened to
// dot-notation keys on load.
package file
