package scheduler

import (
	"context"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"Rebalancer/internal/model"
	"Rebalancer/internal/notifier"
	"Rebalancer/internal/planner"
)

// Planner computes trade plans. *planner.Service implements it.
type Planner interface {
	Plan(ctx context.Context, opts planner.Options) (*planner.Result, error)
	Quotes(ctx context.Context) ([]model.Quote, error)
}

// Sender delivers messages. *notifier.TelegramNotifier implements it.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the rebalance job on a cron schedule and answers chat commands.
type Scheduler struct {
	Cron     *cron.Cron
	Planner  Planner
	Notifier Sender
	Ctx      context.Context

	log zerolog.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, p Planner, n Sender, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Planner:  p,
		Notifier: n,
		Ctx:      ctx,
		log:      log.With().Str("component", "scheduler").Logger(),
	}
}

// Register adds the rebalance job with a six-field (seconds first) cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.planTask); err != nil {
		return fmt.Errorf("register plan task: %w", err)
	}
	s.log.Info().Str("cron", spec).Msg("plan task registered")
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunNow executes the rebalance job immediately.
func (s *Scheduler) RunNow() {
	s.planTask()
}

func (s *Scheduler) planTask() {
	s.log.Info().Msg("running plan task")
	res, err := s.Planner.Plan(s.Ctx, planner.Options{})
	if err != nil {
		s.log.Error().Err(err).Msg("plan task failed")
		s.trySend(fmt.Sprintf("❌ Rebalance plan failed: %v", err))
		return
	}
	s.trySend(notifier.FormatPlan(res.Plan, res.GeneratedAt))
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	// Commands may carry a bot suffix in groups: /plan@my_bot.
	name, _, _ := strings.Cut(fields[0], "@")

	switch name {
	case "/plan":
		res, err := s.Planner.Plan(ctx, planner.Options{})
		if err != nil {
			return fmt.Sprintf("❌ Rebalance plan failed: %v", err)
		}
		return notifier.FormatPlan(res.Plan, res.GeneratedAt)
	case "/prices":
		quotes, err := s.Planner.Quotes(ctx)
		if err != nil {
			return fmt.Sprintf("❌ Price lookup failed: %v", err)
		}
		return notifier.FormatQuotes(quotes)
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.log.Error().Err(err).Msg("send notification failed")
	}
}
