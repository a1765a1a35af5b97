// Package types defines the entity types, the record store interfaces and
// the standard errors shared by the secondbrain tracking core, its storage
// backend and its outer surfaces (CLI, HTTP).
package types
