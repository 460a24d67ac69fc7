package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

type Clock interface {
	Now() time.Time
}

type defaultClock struct{}

func (c *defaultClock) Now() time.Time {
	return time.Now()
}

func NewTagger(opts ...TaggerOption) *Tagger {
	var cfg TaggerConfig

	cfg.Option(opts...)
	cfg.Default()

	return &Tagger{cfg: cfg}
}

// Tagger derives image tags for inner-loop builds. Tags embed the UTC build
// time so repeated builds never collide.
type Tagger struct {
	cfg TaggerConfig
}

// DevTag returns a tag of the form dev-YYYYMMDD-HHMMSS, with revision
// appended when given. revision is expected to be a short commit hash.
func (t *Tagger) DevTag(revision string) string {
	tag := "dev-" + t.cfg.Clock.Now().UTC().Format("20060102-150405")
	if revision != "" {
		tag += "-" + revision
	}

	return tag
}

type TaggerConfig struct {
	Clock Clock
}

func (c *TaggerConfig) Option(opts ...TaggerOption) {
	for _, opt := range opts {
		opt.ConfigureTagger(c)
	}
}

func (c *TaggerConfig) Default() {
	if c.Clock == nil {
		c.Clock = &defaultClock{}
	}
}

type TaggerOption interface {
	ConfigureTagger(*TaggerConfig)
}

// ReleaseTag normalizes version to a v-prefixed MAJOR.MINOR.PATCH tag. A
// leading "v" on the input is accepted. Anything short of three numeric
// parts, or carrying prerelease or build metadata, fails with
// ErrInvalidVersion. There is no default: release flows must name a version.
func ReleaseTag(version string) (string, error) {
	trimmed := strings.TrimPrefix(version, "v")
	if trimmed == "" {
		return "", fmt.Errorf("%w: version must not be empty", ErrInvalidVersion)
	}

	parsed, err := semver.StrictNewVersion(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrInvalidVersion, version, err)
	}
	if parsed.Prerelease() != "" || parsed.Metadata() != "" {
		return "", fmt.Errorf(
			"%w: %q: prerelease and build metadata are not allowed", ErrInvalidVersion, version,
		)
	}

	return "v" + parsed.String(), nil
}
