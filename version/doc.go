// Package version exposes build version information for the library.
package version
