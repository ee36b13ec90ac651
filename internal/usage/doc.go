// Package usage records token usage per generation in a SQLite database and
// answers aggregate queries for the usage CLI command and admin endpoint.
package usage
