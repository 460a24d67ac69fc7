package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/apimachinery/pkg/util/wait"

	kargov1alpha1 "github.com/vpittamp/backstage-app/apis/kargo/v1alpha1"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultWaitTimeout  = 5 * time.Minute
)

func NewPromoter(client *Client, opts ...PromoterOption) *Promoter {
	var cfg PromoterConfig

	cfg.Option(opts...)
	cfg.Default()

	return &Promoter{
		client: client,
		cfg:    cfg,
	}
}

// Promoter drives a pushed image through the Kargo pipeline: it refreshes
// the subscribed warehouses and, when asked to, waits until the freight
// minted for the image is live, healthy and verified on the target stage.
type Promoter struct {
	client *Client
	cfg    PromoterConfig
}

type PromoterConfig struct {
	Log          logr.Logger
	Clock        Clock
	PollInterval time.Duration
}

func (c *PromoterConfig) Option(opts ...PromoterOption) {
	for _, opt := range opts {
		opt.ConfigurePromoter(c)
	}
}

func (c *PromoterConfig) Default() {
	if c.Log.GetSink() == nil {
		c.Log = logr.Discard()
	}
	if c.Clock == nil {
		c.Clock = &defaultClock{}
	}
	if c.PollInterval == 0 {
		c.PollInterval = defaultPollInterval
	}
}

type PromoterOption interface {
	ConfigurePromoter(*PromoterConfig)
}

// PromoteRequest describes one promotion run. RepoURL and Tag must name the
// exact image that was pushed; Tag must not be regenerated between the push
// and this call.
type PromoteRequest struct {
	// Project is the namespace holding the Kargo resources.
	Project string
	// RepoURL is the image repository that was pushed to.
	RepoURL string
	// Tag is the pushed image tag.
	Tag string
	// Warehouse bypasses discovery when set: only this warehouse is
	// refreshed, whether or not it subscribes to RepoURL.
	Warehouse string
	// Stage is the stage to wait on. Required when Wait is set.
	Stage string
	// Wait enables waiting for the freight to appear and the stage to
	// converge on it.
	Wait bool
	// Timeout bounds the combined freight and stage wait. Defaults to 5m.
	Timeout time.Duration
}

// PromoteResult reports what a promotion run did.
type PromoteResult struct {
	// Warehouses are the warehouse names that were resolved, in the order
	// they were refreshed.
	Warehouses []string
	// Refreshed records per warehouse whether the refresh trigger succeeded.
	Refreshed map[string]bool
	// FreightName is the freight that was located. Empty unless waiting.
	FreightName string
	// Stage is the stage that converged. Empty unless waiting.
	Stage string
}

// Promote runs the orchestration sequence: resolve subscribed warehouses,
// trigger a refresh on each, then optionally wait for freight and stage
// convergence under one shared deadline.
func (p *Promoter) Promote(ctx context.Context, req PromoteRequest) (*PromoteResult, error) {
	// Configuration errors fail before any cluster interaction.
	if req.Wait && req.Stage == "" {
		return nil, ErrMissingStage
	}
	if req.Timeout == 0 {
		req.Timeout = defaultWaitTimeout
	}

	warehouses, err := p.resolveWarehouses(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &PromoteResult{
		Warehouses: warehouses,
		Refreshed:  map[string]bool{},
	}

	if len(warehouses) == 0 {
		if req.Wait {
			// Waiting would only burn the deadline: without a subscriber no
			// freight will ever reference the pushed image.
			return nil, fmt.Errorf("%w: %s in project %s", ErrNoWarehouses, req.RepoURL, req.Project)
		}
		// Not fatal otherwise: the repository may simply not be wired into
		// the pipeline yet.
		p.cfg.Log.Info("no warehouse subscribes to repository",
			"repository", req.RepoURL, "project", req.Project)
	}

	token := p.cfg.Clock.Now().UTC().Format(time.RFC3339)
	for _, name := range warehouses {
		err := p.client.RefreshWarehouse(ctx, req.Project, name, token)
		result.Refreshed[name] = err == nil
		if err != nil {
			// Best-effort fan-out: one failed trigger must not abort the run.
			p.cfg.Log.Error(err, "refreshing warehouse", "warehouse", name)
			continue
		}
		p.cfg.Log.Info("refreshed warehouse", "warehouse", name, "token", token)
	}

	if !req.Wait {
		return result, nil
	}

	// One deadline bounds both waits: slow freight materialization shrinks
	// the time left for the stage to converge.
	waitCtx, cancel := context.WithTimeout(ctx, req.Timeout)
	defer cancel()

	freight, err := p.locateFreight(waitCtx, req)
	if err != nil {
		return nil, err
	}
	result.FreightName = freight.Name
	p.cfg.Log.Info("located freight",
		"freight", freight.Name, "alias", freight.Alias,
		"warehouse", freight.Warehouse, "tag", req.Tag)

	if err := p.watchPromotion(waitCtx, req, freight.Name); err != nil {
		return nil, err
	}
	result.Stage = req.Stage

	return result, nil
}

func (p *Promoter) resolveWarehouses(ctx context.Context, req PromoteRequest) ([]string, error) {
	if req.Warehouse != "" {
		// Explicit override bypasses discovery entirely.
		return []string{req.Warehouse}, nil
	}

	return p.client.WarehousesSubscribedTo(ctx, req.Project, req.RepoURL)
}

// locateFreight polls until some freight references the pushed image. Query
// failures are logged and retried up to the deadline rather than aborting;
// they are never conflated with "no match yet".
func (p *Promoter) locateFreight(
	ctx context.Context, req PromoteRequest,
) (*kargov1alpha1.Freight, error) {
	start := p.cfg.Clock.Now()

	var found *kargov1alpha1.Freight
	err := wait.PollUntilContextCancel(ctx, p.cfg.PollInterval, true,
		func(ctx context.Context) (bool, error) {
			freight, ok, err := p.client.FindFreight(ctx, req.Project, req.RepoURL, req.Tag)
			if err != nil {
				p.cfg.Log.Error(err, "freight query failed, retrying until deadline")
				return false, nil
			}
			if !ok {
				return false, nil
			}
			found = freight
			return true, nil
		})
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, fmt.Errorf("%w: waiting for freight: %w", ErrInterrupted, ctx.Err())
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &FreightTimeoutError{
				RepoURL: req.RepoURL,
				Tag:     req.Tag,
				Elapsed: p.cfg.Clock.Now().Sub(start),
				Timeout: req.Timeout,
			}
		}
		return nil, fmt.Errorf("waiting for freight: %w", err)
	}

	return found, nil
}

// watchPromotion polls the stage until it serves freightName while ready,
// healthy and verified, all observed in one snapshot per iteration.
func (p *Promoter) watchPromotion(ctx context.Context, req PromoteRequest, freightName string) error {
	start := p.cfg.Clock.Now()

	// Existence check up front so a mistyped stage name fails right away
	// instead of eating the wait budget.
	if _, err := p.client.GetStage(ctx, req.Project, req.Stage); err != nil {
		return err
	}

	var last *kargov1alpha1.StageStatus
	err := wait.PollUntilContextCancel(ctx, p.cfg.PollInterval, true,
		func(ctx context.Context) (bool, error) {
			stage, err := p.client.GetStage(ctx, req.Project, req.Stage)
			if err != nil {
				p.cfg.Log.Error(err, "stage query failed, retrying until deadline")
				return false, nil
			}
			last = &stage.Status
			return stageConverged(stage, freightName), nil
		})
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return fmt.Errorf("%w: waiting for promotion: %w", ErrInterrupted, ctx.Err())
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return &PromotionTimeoutError{
				Stage:      req.Stage,
				Freight:    freightName,
				Elapsed:    p.cfg.Clock.Now().Sub(start),
				Timeout:    req.Timeout,
				LastStatus: last,
			}
		}
		return fmt.Errorf("waiting for promotion: %w", err)
	}

	return nil
}

// stageConverged evaluates the convergence predicate against one stage
// snapshot: current freight matches AND Ready AND Healthy AND Verified.
func stageConverged(stage *kargov1alpha1.Stage, freightName string) bool {
	return stage.Status.FreightSummary == freightName &&
		stage.Status.Health == kargov1alpha1.StageHealthStateHealthy &&
		meta.IsStatusConditionTrue(stage.Status.Conditions, kargov1alpha1.StageConditionReady) &&
		meta.IsStatusConditionTrue(stage.Status.Conditions, kargov1alpha1.StageConditionVerified)
}
