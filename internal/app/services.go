package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"sigs.k8s.io/controller-runtime/pkg/client"

	"docsync/internal/api"
	kubeclient "docsync/internal/client"
	"docsync/internal/config"
	"docsync/internal/events"
	"docsync/internal/reconciler"
	"docsync/internal/resolver"
	"docsync/internal/server"
	"docsync/internal/session"
	"docsync/internal/source"
	"docsync/pkg/logging"
)

// Services holds everything the reconcile loop needs, wired from config.
type Services struct {
	Source    api.ConfigurationSource
	Registry  *resolver.Registry
	Store     api.SessionStore
	Snapshots api.SnapshotReader
	Loop      *reconciler.Loop

	// Watcher is set in disk mode when watching is enabled.
	Watcher *source.Watcher

	// Events is set in kubernetes mode when event recording is enabled.
	Events *events.EventGenerator

	// Server is nil when the status server is disabled.
	Server *server.Server

	closers []io.Closer
}

// Option customises InitializeServices.
type Option func(*serviceOptions)

type serviceOptions struct {
	kubeClient client.Client
}

// WithKubeClient uses c instead of detecting a cluster from the environment.
func WithKubeClient(c client.Client) Option {
	return func(o *serviceOptions) {
		o.kubeClient = c
	}
}

// InitializeServices builds the source, resolvers, store and loop described
// by cfg. The Kubernetes client is only created when something needs it: the
// kubernetes source mode or the first configmap route.
func InitializeServices(ctx context.Context, cfg config.DocsyncConfig, opts ...Option) (*Services, error) {
	var o serviceOptions
	for _, opt := range opts {
		opt(&o)
	}

	kube := sync.OnceValues(func() (client.Client, error) {
		if o.kubeClient != nil {
			return o.kubeClient, nil
		}
		return kubeclient.NewKubernetesClient(nil)
	})

	s := &Services{}

	src, err := newSource(ctx, cfg.Source, kube)
	if err != nil {
		return nil, err
	}
	s.Source = src

	s.Registry = resolver.DefaultRegistry(resolver.Dependencies{
		Namespace: cfg.Source.Kubernetes.Namespace,
		NewKubeClient: func() (client.Reader, error) {
			return kube()
		},
	})

	store, err := newStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	s.Store = store
	if r, ok := store.(api.SnapshotReader); ok {
		s.Snapshots = r
	}
	if c, ok := store.(io.Closer); ok {
		s.closers = append(s.closers, c)
	}

	loopCfg := reconciler.LoopConfig{
		Source:   s.Source,
		Registry: s.Registry,
		Store:    s.Store,
		Interval: cfg.Interval,
	}
	if cfg.Source.Mode == config.SourceModeKubernetes && cfg.Source.Kubernetes.Events {
		// Memoised: the kubernetes source already created the client.
		if c, err := kube(); err == nil {
			s.Events = events.NewEventGenerator(c)
			loopCfg.OnTick = s.Events.ObserveTick
		}
	}

	loop, err := reconciler.NewLoop(loopCfg)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to create reconcile loop: %w", err)
	}
	s.Loop = loop

	if cfg.Source.Mode == config.SourceModeDisk && cfg.Source.Disk.Watch {
		s.Watcher = source.NewWatcher(cfg.Source.Disk.Path, loop, source.DefaultDebounce)
	}

	if cfg.Server.Enabled {
		s.Server = server.New(server.Config{Host: cfg.Server.Host, Port: cfg.Server.Port}, loop, s.Snapshots)
	}

	logging.Info("Services", "Initialized source %s with %s store", s.Source.Name(), cfg.Store.Type)
	return s, nil
}

func newSource(ctx context.Context, cfg config.SourceConfig, kube func() (client.Client, error)) (api.ConfigurationSource, error) {
	switch cfg.Mode {
	case config.SourceModeDisk:
		return source.NewDiskSource(cfg.Disk.Path), nil
	case config.SourceModeStatic:
		return source.NewStaticSource(cfg.Routes), nil
	case config.SourceModeKubernetes:
		c, err := kube()
		if err != nil {
			return nil, fmt.Errorf("kubernetes source: %w", err)
		}
		if err := kubeclient.ValidateCRDs(ctx, c, cfg.Kubernetes.Namespace); err != nil {
			logging.Warn("Services", "%v; routes will be empty until the CRD is installed", err)
		}
		return source.NewKubernetesSource(c, cfg.Kubernetes.Namespace), nil
	default:
		return nil, fmt.Errorf("unknown source mode %q", cfg.Mode)
	}
}

func newStore(ctx context.Context, cfg config.StoreConfig) (api.SessionStore, error) {
	switch cfg.Type {
	case config.StoreTypeMemory, "":
		return session.NewMemoryStore(), nil
	case config.StoreTypeRedis:
		rc, err := session.NewRedisClient(ctx, session.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, err
		}
		return session.NewRedisStore(rc, cfg.Redis.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown store type %q", cfg.Type)
	}
}

// Close releases the store connection.
func (s *Services) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
