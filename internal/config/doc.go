// Package config loads and merges prismfold configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (PRISMFOLD_SELECTORS, PRISMFOLD_DEBOUNCE_MS, etc.)
//  3. Config file ($XDG_CONFIG_HOME/prismfold/config.json, or --config, which
//     may also be YAML)
//  4. Built-in defaults
//
// The configuration carries the comment vocabulary (selectors, severity
// marker and icons, folder icon, section labels) and the host page chrome
// used for badge placement, plus the page digest cache and report redaction
// settings. Use [Load] to obtain a merged [Config], [Save] to
// write the config file and [SetField] to update a single key.
package config
