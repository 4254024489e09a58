package stub

import (
	"github.com/creasty/defaults"
	"time"
)

const (
	DefaultMaxAllowedTTL = uint32(60 * 60 * 48) // 48 hours

	// DefaultMaxChainDepth bounds the number of CNAME/delegation hops a single Validate call
	// will follow, distinct from the teacher's MaxQueriesPerRequest (a raw query count): this
	// bounds chain depth specifically, per spec.
	DefaultMaxChainDepth = 32

	DefaultKeyCacheSize = 4096

	DefaultSuppressBogusResponseSections = true

	DefaultRemoveAuthoritySectionForPositiveAnswers  = true
	DefaultRemoveAdditionalSectionForPositiveAnswers = true

	DefaultNegativeTTL = 30 * time.Second
)

var (
	MaxAllowedTTL = DefaultMaxAllowedTTL

	MaxChainDepth = DefaultMaxChainDepth

	KeyCacheSize = DefaultKeyCacheSize

	// SuppressBogusResponseSections removes the Answer, Authority and Extra sections of a
	// Bogus response, per RFC 4035 section 5.5.
	SuppressBogusResponseSections = DefaultSuppressBogusResponseSections

	RemoveAuthoritySectionForPositiveAnswers  = DefaultRemoveAuthoritySectionForPositiveAnswers
	RemoveAdditionalSectionForPositiveAnswers = DefaultRemoveAdditionalSectionForPositiveAnswers

	// NegativeTTL is not read by the key cache: a KeyEntryBad verdict is cached for one hour when
	// the DS step fails, or for the DS/DNSKEY RRset TTL when the DNSKEY step fails.
	NegativeTTL = DefaultNegativeTTL
)

// Config is a struct form of the package-level config vars above, populated via
// github.com/creasty/defaults for cmd/dnssec-stub and other struct-config callers. Library
// callers may keep setting the package vars directly, as with the teacher.
type Config struct {
	UpstreamAddr string `yaml:"upstreamAddr"`

	MaxAllowedTTL uint32 `yaml:"maxAllowedTTL" default:"172800"`
	MaxChainDepth int    `yaml:"maxChainDepth" default:"32"`
	KeyCacheSize  int    `yaml:"keyCacheSize" default:"4096"`

	SuppressBogusResponseSections             bool `yaml:"suppressBogusResponseSections" default:"true"`
	RemoveAuthoritySectionForPositiveAnswers  bool `yaml:"removeAuthoritySectionForPositiveAnswers" default:"true"`
	RemoveAdditionalSectionForPositiveAnswers bool `yaml:"removeAdditionalSectionForPositiveAnswers" default:"true"`
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Apply pushes a Config's values into stub's own package-level vars.
func (c *Config) Apply() {
	MaxAllowedTTL = c.MaxAllowedTTL
	MaxChainDepth = c.MaxChainDepth
	KeyCacheSize = c.KeyCacheSize
	SuppressBogusResponseSections = c.SuppressBogusResponseSections
	RemoveAuthoritySectionForPositiveAnswers = c.RemoveAuthoritySectionForPositiveAnswers
	RemoveAdditionalSectionForPositiveAnswers = c.RemoveAdditionalSectionForPositiveAnswers
}
