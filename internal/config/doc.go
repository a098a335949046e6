// Package config defines the application configuration structure and the
// loader that populates it from the environment and an optional config file.
package config
