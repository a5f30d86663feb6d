package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/zeusync/toyfacade/internal/config"
	"github.com/zeusync/toyfacade/internal/core/events/bus"
	"github.com/zeusync/toyfacade/internal/core/observability/log"
	"github.com/zeusync/toyfacade/internal/core/toys"
	"github.com/zeusync/toyfacade/internal/scene"
	"github.com/zeusync/toyfacade/internal/server"
	"golang.org/x/sync/errgroup"
)

// App is the demo host: one scene, its registry and factory, and the
// replication feed.
type App struct {
	Config   config.Config
	Logger   log.Log
	Bus      bus.EventBus
	Scene    *scene.Scene
	Registry *toys.Registry
	Factory  *toys.Factory
	Feed     *server.Feed
}

func New(
	cfg config.Config,
	logger log.Log,
	b bus.EventBus,
	s *scene.Scene,
	registry *toys.Registry,
	factory *toys.Factory,
	feed *server.Feed,
) *App {
	return &App{
		Config:   cfg,
		Logger:   logger,
		Bus:      b,
		Scene:    s,
		Registry: registry,
		Factory:  factory,
		Feed:     feed,
	}
}

// PlaceTargets creates the configured targets. It must run before Run or
// through Scene.Do.
func (a *App) PlaceTargets() ([]*toys.ShootingTarget, error) {
	placed := make([]*toys.ShootingTarget, 0, len(a.Config.Targets))
	for i, spec := range a.Config.Targets {
		st, err := a.Factory.Create(spec.Type, spec.Options()...)
		if err != nil {
			return placed, fmt.Errorf("targets[%d]: %w", i, err)
		}
		if err = applySync(st, spec); err != nil {
			return placed, fmt.Errorf("targets[%d]: %w", i, err)
		}
		placed = append(placed, st)
		a.Logger.Info("Target placed",
			log.Uint64("id", uint64(st.ID())),
			log.Stringer("type", st.Type()),
			log.Bool("synced", spec.Synced))
	}
	return placed, nil
}

func applySync(st *toys.ShootingTarget, spec config.TargetSpec) error {
	if !spec.Synced {
		return nil
	}
	if err := st.SetSynced(true); err != nil {
		return err
	}
	if spec.MaxHealth > 0 {
		if err := st.SetMaxHealth(spec.MaxHealth); err != nil {
			return err
		}
		if err := st.SetHealth(float32(spec.MaxHealth)); err != nil {
			return err
		}
	}
	if spec.AutoResetTime != 0 {
		return st.SetAutoResetTime(spec.AutoResetTime)
	}
	return nil
}

// Run ticks the scene and serves the feed until ctx is done or either fails.
func (a *App) Run(ctx context.Context) error {
	watch := newDeliveryWatch(a.Logger)
	a.Bus.AddObserver(watch)
	defer func() {
		a.Bus.RemoveObserver(watch)
		watch.summarize(a.Bus.GetMetrics())
	}()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Scene.Run(ctx, a.Config.TickRate)
	})
	g.Go(func() error {
		return a.Feed.Run(ctx)
	})

	err := g.Wait()
	if detachErr := a.Registry.Detach(); detachErr != nil {
		err = errors.Join(err, detachErr)
	}
	return err
}
