package game

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sopra-fs21-group-4/sopra-server/domain"
)

const SchedulerInterval = 200 * time.Millisecond

type SummaryWriter interface {
	SaveGameSummary(ctx context.Context, summary domain.GameSummary) error
}

type ChannelReleaser interface {
	Release(channelId string)
}

// Scheduler is the periodic driver: every interval it ticks all live
// games and reaps the dead ones. Summary persistence happens after the
// game's lock is released; a tick pass never fails, storage errors are
// only logged.
type Scheduler struct {
	registry *Registry
	service  *Service
	store    SummaryWriter
	channels ChannelReleaser
	interval time.Duration
}

func NewScheduler(registry *Registry, service *Service, store SummaryWriter, channels ChannelReleaser) *Scheduler {
	return &Scheduler{
		registry: registry,
		service:  service,
		store:    store,
		channels: channels,
		interval: SchedulerInterval,
	}
}

func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			s.pass(ctx, now)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) pass(ctx context.Context, now time.Time) {
	for _, g := range s.registry.Games() {
		switch g.Tick(now) {
		case TickDead:
			summary := g.Summary()
			s.registry.Remove(g.Id())
			if s.service != nil {
				s.service.forgetGame(g.Id())
			}
			if s.channels != nil {
				s.channels.Release(g.ChatId())
			}
			if err := s.store.SaveGameSummary(ctx, summary); err != nil {
				log.Error().Err(err).Int64("game_id", g.Id()).Msg("failed to persist game summary")
				continue
			}
			log.Info().Int64("game_id", g.Id()).Int("rounds", len(summary.Rounds)).Msg("game finished")
		case TickUpdated:
			log.Debug().Int64("game_id", g.Id()).Stringer("phase", g.Phase()).Msg("game advanced")
		}
	}
}
