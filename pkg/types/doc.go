// Package types defines the stage vocabulary, configuration, and standard
// error values shared by the crops record, query, and CLI packages.
package types
