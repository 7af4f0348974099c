// Package config loads host configuration for savvy applications.
//
// Values come from three layers, later layers winning: a config.yml found
// next to the service (or given explicitly), a .env file, and SAVVY_*
// environment variables. Nested keys map to underscores, so
// SAVVY_CLIENT_BASE_URL sets client.base_url.
//
// # Usage
//
//	cfg, err := config.Load[MyConfig]("savvyctl")
//
// Load applies the ApplyDefaults/Validate convention after unmarshalling.
// File access goes through an afero-backed FileSystem so tests can run
// against an in-memory tree.
package config
