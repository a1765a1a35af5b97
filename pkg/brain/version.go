// Package brain holds build metadata for the secondbrain module.
package brain

// Version is the release version. Builds override it with
// -ldflags "-X github.com/mesh-intelligence/secondbrain/pkg/brain.Version=...".
var Version = "0.1.0"
