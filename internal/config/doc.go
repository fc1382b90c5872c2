// Package config loads and merges lumen configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (LUMEN_AI_PROVIDER, LUMEN_API_KEY, LUMEN_AI_MODEL,
//     LUMEN_REDACT_SECRETS)
//  3. Config file ($XDG_CONFIG_HOME/lumen/config.toml)
//  4. Built-in defaults
//
// Use [Load] to obtain a merged [Config], [SetField] and [Save] to update
// the config file.
package config
