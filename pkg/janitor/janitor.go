// Package janitor removes state that outlived its session on a cron
// schedule.
package janitor

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const (
	DefaultSchedule    = "*/15 * * * *"
	DefaultGracePeriod = time.Hour
)

type SessionCleaner interface {
	DeleteExpiredSessions(ctx context.Context, grace time.Duration) (int64, error)
}

type GenerationPruner interface {
	Prune(idle time.Duration) int
}

// Leader decides whether this replica owns the shared session table.
type Leader interface {
	IsLeader(ctx context.Context) (bool, error)
}

type alwaysLeader struct{}

func (alwaysLeader) IsLeader(context.Context) (bool, error) { return true, nil }

type Janitor struct {
	schedule    string
	grace       time.Duration
	sessionTTL  time.Duration
	sessions    SessionCleaner
	generations GenerationPruner
	leader      Leader
	errs        *prometheus.CounterVec
	log         zerolog.Logger
}

// Run schedules the cleanup and blocks until ctx is done, waiting for a run
// in progress to finish.
func (j *Janitor) Run(ctx context.Context) error {
	c := cron.New()

	_, err := c.AddFunc(j.schedule, func() {
		j.Sweep(ctx)
	})
	if err != nil {
		return err
	}

	c.Start()
	j.log.Info().Str("schedule", j.schedule).Msg("janitor started")

	<-ctx.Done()

	<-c.Stop().Done()

	return nil
}

// Sweep runs the cleanup once.
// Generations are kept per replica and are always pruned, the session
// table is shared and only the leader cleans it.
func (j *Janitor) Sweep(ctx context.Context) {
	leader, err := j.leader.IsLeader(ctx)
	if err != nil {
		j.log.Error().Err(err).Msg("checking leadership")
		j.errs.WithLabelValues("janitor.IsLeader").Inc()
	}

	if leader {
		j.deleteExpiredSessions(ctx)
	}

	pruned := j.generations.Prune(j.sessionTTL)
	j.log.Debug().Int("sessions", pruned).Msg("pruned search generations")
}

func (j *Janitor) deleteExpiredSessions(ctx context.Context) {
	removed, err := j.sessions.DeleteExpiredSessions(ctx, j.grace)
	if err != nil {
		j.log.Error().Err(err).Msg("deleting expired sessions")
		j.errs.WithLabelValues("janitor.DeleteExpiredSessions").Inc()

		return
	}

	j.log.Info().Int64("sessions", removed).Msg("deleted expired sessions")
}

// WithLeader restricts session cleanup to the replica leader picks.
func (j *Janitor) WithLeader(leader Leader) *Janitor {
	j.leader = leader

	return j
}

func New(
	schedule string,
	grace time.Duration,
	sessionTTL time.Duration,
	sessions SessionCleaner,
	generations GenerationPruner,
	errs *prometheus.CounterVec,
	log zerolog.Logger,
) *Janitor {
	if schedule == "" {
		schedule = DefaultSchedule
	}

	if grace <= 0 {
		grace = DefaultGracePeriod
	}

	return &Janitor{
		schedule:    schedule,
		grace:       grace,
		sessionTTL:  sessionTTL,
		sessions:    sessions,
		generations: generations,
		leader:      alwaysLeader{},
		errs:        errs,
		log:         log,
	}
}
