package cmd

import (
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/go-containerregistry/pkg/authn"
)

type WithClock struct{ Clock Clock }

func (w WithClock) ConfigureTagger(c *TaggerConfig) {
	c.Clock = w.Clock
}

func (w WithClock) ConfigurePromoter(c *PromoterConfig) {
	c.Clock = w.Clock
}

type WithKeychain struct{ Keychain authn.Keychain }

func (w WithKeychain) ConfigurePusher(c *PusherConfig) {
	c.Keychain = w.Keychain
}

type WithLog struct{ Log logr.Logger }

func (w WithLog) ConfigurePromoter(c *PromoterConfig) {
	c.Log = w.Log
}

func (w WithLog) ConfigurePusher(c *PusherConfig) {
	c.Log = w.Log
}

type WithPollInterval time.Duration

func (w WithPollInterval) ConfigurePromoter(c *PromoterConfig) {
	c.PollInterval = time.Duration(w)
}

type WithTransport struct{ Transport http.RoundTripper }

func (w WithTransport) ConfigurePusher(c *PusherConfig) {
	c.Transport = w.Transport
}
