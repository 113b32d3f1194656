// Package utils bundles shared infrastructure for the repoforge CLI:
// structured logger construction, Viper-backed configuration loading, and
// helpers for propagating command-scoped values through contexts.
package utils
