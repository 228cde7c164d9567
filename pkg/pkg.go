//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the jamal module embedded at build time.
// It is printed by the CLI when users pass --version.
var Version = strings.TrimSpace(version)

const (
	// Name is the canonical command and module identifier used across the
	// project. It appears in help text, default config paths and the
	// environment variable prefix.
	Name = "jamal"
	// Description is a short, human-readable summary of the project used in
	// help output and documentation.
	Description = "String manipulation-focused scripting language"
	// Extension is the conventional file extension of JAMAL source files.
	Extension = ".jml"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	// Name is the author's preferred name or handle.
	Name string
	// Email is the author's contact email address.
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
//
//nolint:gochecknoglobals
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}

// EnvPrefix returns the prefix of environment variables read by the CLI,
// e.g. "JAMAL_" for JAMAL_PATH.
func EnvPrefix() string {
	return strings.ToUpper(Name) + "_"
}
