// Package loggerspy provides a spy implementation of the gateway Logger
// interface that captures log calls for assertions in tests.
package loggerspy
