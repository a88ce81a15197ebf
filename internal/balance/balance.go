// Package balance is a Monte Carlo runner for tower balance: it plays many
// automated runs and aggregates how far they get and where they fall.
package balance

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lawnchairsociety/relictower/internal/game"
	"github.com/lawnchairsociety/relictower/internal/gametime"
)

// ErrUnknownPolicy is returned for a policy name NewPolicy does not know.
var ErrUnknownPolicy = errors.New("unknown policy")

// Policy names accepted by NewPolicy.
const (
	PolicyGreedy = "greedy"
	PolicyRandom = "random"
)

// Config describes a batch of automated runs.
type Config struct {
	Runs      int
	Workers   int     // Concurrent runs; 0 means one per run
	Seed      int64   // Run i is seeded with Seed+i; 0 seeds from the clock
	MaxFloors int     // Abandon a run after clearing this many floors; 0 means no cap
	FrameMs   float64 // Clock step per frame; 0 uses gametime.DefaultFrameMs
	Policy    string
	Options   game.Options

	// OnRun is called once per finished run. Calls are serialized.
	OnRun func(game.RunSummary) error
}

// NewPolicy returns the named reward policy. rng backs the random policy.
func NewPolicy(name string, rng *rand.Rand) (game.Policy, error) {
	switch strings.ToLower(name) {
	case "", PolicyGreedy:
		return game.GreedyPolicy{}, nil
	case PolicyRandom:
		return game.RandomPolicy{Rand: rng}, nil
	}
	return nil, fmt.Errorf("%q: %w", name, ErrUnknownPolicy)
}

// RunBatch plays cfg.Runs runs over a bounded worker pool and summarizes them.
// The first failing run cancels the rest.
func RunBatch(ctx context.Context, cat *game.Catalog, cfg Config) (*Report, error) {
	if _, err := NewPolicy(cfg.Policy, nil); err != nil {
		return nil, err
	}
	if cfg.Runs <= 0 {
		return Summarize(nil), nil
	}

	base := cfg.Seed
	if base == 0 {
		base = time.Now().UnixNano()
	}

	g, ctx := errgroup.WithContext(ctx)
	if cfg.Workers > 0 {
		g.SetLimit(cfg.Workers)
	}

	summaries := make([]game.RunSummary, cfg.Runs)
	var mu sync.Mutex

	for i := 0; i < cfg.Runs; i++ {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			sum, err := playRun(ctx, cat, cfg, base+int64(i))
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			summaries[i] = sum

			if cfg.OnRun == nil {
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			return cfg.OnRun(sum)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Summarize(summaries), nil
}

func playRun(ctx context.Context, cat *game.Catalog, cfg Config, seed int64) (game.RunSummary, error) {
	if seed == 0 {
		seed = 1
	}
	opts := cfg.Options
	opts.Seed = seed

	policy, err := NewPolicy(cfg.Policy, rand.New(rand.NewSource(seed)))
	if err != nil {
		return game.RunSummary{}, err
	}

	clock := gametime.NewManualClock(0)
	s := game.NewSession(cat, clock, opts)
	return game.Autoplay(ctx, s, clock, policy, game.AutoplayConfig{
		FrameMs:   cfg.FrameMs,
		MaxFloors: cfg.MaxFloors,
	})
}
