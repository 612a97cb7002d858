package model

import "strings"

// Version is the release version, overridden at build time via -ldflags.
var Version = "dev"

const (
	// GitHubHost is the only HostName we manage. Blocks routing anywhere
	// else are parsed structurally and then ignored.
	GitHubHost = "github.com"

	// DefaultAlias is the unprefixed alias for the primary identity.
	// `ssh git@github.com` should keep working without a rewritten remote.
	DefaultAlias = "github.com"

	// AliasPrefix is stripped from an alias to obtain the account name.
	AliasPrefix = "github-"

	// DefaultName is the account name of the DefaultAlias block.
	DefaultName = "default"

	// UnknownEmail is the sentinel for accounts whose email could not be
	// read from an ownership comment or a public key file.
	UnknownEmail = "unknown"
)

// SourceMode says which physical representation a block lives in.
type SourceMode int

const (
	Unified SourceMode = iota
	Split
)

func (m SourceMode) String() string {
	if m == Split {
		return "split"
	}
	return "unified"
}

// AccountRecord is the canonical view of one managed (or discovered) identity.
// Records are volatile: the parser rebuilds the full set from disk on every
// read, there is no index beyond the config text itself.
type AccountRecord struct {
	Name       string     `json:"name" yaml:"name"`
	Email      string     `json:"email" yaml:"email"`
	Alias      string     `json:"alias" yaml:"alias"`
	KeyPath    string     `json:"key_path" yaml:"key_path"`
	SourceMode SourceMode `json:"-" yaml:"-"`
	Managed    bool       `json:"managed" yaml:"managed"`

	// Source renders SourceMode for export consumers.
	Source string `json:"source" yaml:"source"`
}

// AccountName derives the logical name from a host alias. The derivation is
// pure: the same alias always maps to the same name.
func AccountName(alias string) string {
	if alias == DefaultAlias {
		return DefaultName
	}
	if rest, ok := strings.CutPrefix(alias, AliasPrefix); ok && rest != "" {
		return rest
	}
	// Hand-written alias without our prefix: the alias is the name.
	return alias
}

// AliasFor is the inverse of AccountName for names this tool creates.
func AliasFor(name string) string {
	if name == DefaultName {
		return DefaultAlias
	}
	return AliasPrefix + name
}
