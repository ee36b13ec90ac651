// Package output renders chat results for the CLI in text or JSON form.
package output
