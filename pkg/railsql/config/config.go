// Package config defines how the module reads application settings and ships
// a dotenv-backed loader for them.
package config

// Config provides string-keyed access to application settings.
type Config interface {
	Get(key string) string
	GetOrDefault(key, defaultValue string) string
}
