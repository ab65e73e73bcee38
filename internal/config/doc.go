// Package config loads, normalizes, and validates the TOML configuration
// for the verbatim pipeline.
//
// Load starts from repository defaults, overlays the user's config file when
// one exists, applies environment overrides, expands ~ paths, and validates
// the result. The embedded sample_config.toml documents every setting and is
// what `verbatim config init` writes.
package config
