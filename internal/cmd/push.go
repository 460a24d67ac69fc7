package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-logr/logr"
	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/google/go-containerregistry/pkg/authn/github"
	"github.com/google/go-containerregistry/pkg/crane"
	"github.com/google/go-containerregistry/pkg/name"
	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/tarball"
)

func NewPusher(opts ...PusherOption) *Pusher {
	var cfg PusherConfig

	cfg.Option(opts...)
	cfg.Default()

	return &Pusher{cfg: cfg}
}

// Pusher publishes a locally built image archive to a registry. Building the
// archive is someone else's job; the pusher only moves bytes.
type Pusher struct {
	cfg PusherConfig
}

// Load reads an OCI image from a tarball on disk, as produced by the build
// step.
func (p *Pusher) Load(archivePath string) (v1.Image, error) {
	image, err := tarball.ImageFromPath(archivePath, nil)
	if err != nil {
		return nil, fmt.Errorf("loading image archive %s: %w", archivePath, err)
	}

	return image, nil
}

// Push uploads image to reference. Registry credentials come from the
// configured keychain chain, tried in order.
func (p *Pusher) Push(ctx context.Context, reference string, image v1.Image) error {
	ref, err := name.ParseReference(reference)
	if err != nil {
		return fmt.Errorf("%w: parsing reference %q: %w", ErrInvalidArgs, reference, err)
	}

	opts := []crane.Option{
		crane.WithContext(ctx),
		crane.WithAuthFromKeychain(p.cfg.Keychain),
	}
	if p.cfg.Transport != nil {
		opts = append(opts, crane.WithTransport(p.cfg.Transport))
	}

	p.cfg.Log.V(1).Info("pushing image", "reference", ref.String())
	if err := crane.Push(image, ref.String(), opts...); err != nil {
		return fmt.Errorf("push: %w", err)
	}

	return nil
}

type PusherConfig struct {
	Log       logr.Logger
	Keychain  authn.Keychain
	Transport http.RoundTripper
}

func (c *PusherConfig) Option(opts ...PusherOption) {
	for _, opt := range opts {
		opt.ConfigurePusher(c)
	}
}

func (c *PusherConfig) Default() {
	if c.Log.GetSink() == nil {
		c.Log = logr.Discard()
	}
	if c.Keychain == nil {
		// Docker config first, then ambient GitHub Actions credentials.
		c.Keychain = authn.NewMultiKeychain(authn.DefaultKeychain, github.Keychain)
	}
}

type PusherOption interface {
	ConfigurePusher(*PusherConfig)
}
