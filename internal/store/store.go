// Package store selects the interaction backend and decorates it with
// event publishing.
package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/aicrm/internal/config"
	"github.com/gosuda/aicrm/internal/domain"
	"github.com/gosuda/aicrm/internal/store/postgres"
	"github.com/gosuda/aicrm/internal/store/sqlite"
)

// Backend is a connected interaction store.
type Backend interface {
	Interactions() domain.InteractionRepository
	Ping(ctx context.Context) error
	Close() error
}

// Open connects to the configured driver and applies the schema.
func Open(ctx context.Context, cfg config.DatabaseConfig) (Backend, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pg, err := postgres.New(ctx, cfg.DSN(), int32(cfg.MaxConns)) //nolint:gosec // bounded by config.validate
		if err != nil {
			return nil, fmt.Errorf("store.Open: %w", err)
		}
		if err := pg.Migrate(ctx); err != nil {
			_ = pg.Close()
			return nil, fmt.Errorf("store.Open: %w", err)
		}
		return pg, nil
	case config.DriverSQLite:
		lite, err := sqlite.New(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("store.Open: %w", err)
		}
		return lite, nil
	default:
		return nil, fmt.Errorf("store.Open: unsupported driver %q", cfg.Driver)
	}
}

// WithEvents wraps b so that every successful create or update publishes an
// InteractionEvent. Publish failures are logged and never fail the write.
func WithEvents(b Backend, pub domain.InteractionEventPublisher) Backend {
	if pub == nil {
		return b
	}
	return &eventedBackend{
		Backend: b,
		repo:    &eventedRepo{InteractionRepository: b.Interactions(), pub: pub},
	}
}

type eventedBackend struct {
	Backend
	repo *eventedRepo
}

func (b *eventedBackend) Interactions() domain.InteractionRepository { return b.repo }

type eventedRepo struct {
	domain.InteractionRepository
	pub domain.InteractionEventPublisher
}

func (r *eventedRepo) Create(ctx context.Context, f *domain.InteractionFields) (*domain.Interaction, error) {
	it, err := r.InteractionRepository.Create(ctx, f)
	if err != nil {
		return nil, err
	}
	r.publish(ctx, domain.InteractionCreated, it)
	return it, nil
}

func (r *eventedRepo) Update(ctx context.Context, id int64, patch domain.InteractionPatch) (*domain.Interaction, error) {
	it, err := r.InteractionRepository.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	r.publish(ctx, domain.InteractionUpdated, it)
	return it, nil
}

func (r *eventedRepo) publish(ctx context.Context, kind domain.InteractionEventKind, it *domain.Interaction) {
	ev := domain.NewInteractionEvent(kind, it)
	if err := r.pub.PublishInteraction(ctx, ev); err != nil {
		log.Warn().Err(err).Int64("interaction_id", it.ID).Str("kind", string(kind)).
			Msg("store: publish interaction event failed")
	}
}
