// Package fixturetest provides test support for fixture-driven database
// tests: an in-memory SQLite component, row-count helpers, and the shared
// Author/Book example models used across the engine's own tests.
package fixturetest
