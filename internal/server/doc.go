// Package server exposes the vynix HTTP API: chat generation plus
// administrative cache and usage endpoints. The cache endpoints back
// operational introspection (stats) and reset (clear, cleanup); none of the
// routes perform authentication.
package server
