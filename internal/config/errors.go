package config

import "errors"

// ErrConfigMissing is returned when the configuration file cannot be
// read (spec.md §7: ConfigMissing, fatal at start-up).
var ErrConfigMissing = errors.New("config: file missing or unreadable")

// ErrConfigParse is returned when a recognised key's value is not a
// well-formed number (spec.md §7: ConfigParseError, fatal at start-up).
var ErrConfigParse = errors.New("config: malformed numeric value")
