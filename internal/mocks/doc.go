// Package mocks contains hand-maintained testify mocks for the model and handler interfaces.
package mocks
