// Package stats computes daily aggregate statistics on a cron schedule.
package stats

import (
	"time"

	"github.com/EluvK/ai-sketch/internal/database"
	"github.com/EluvK/ai-sketch/internal/database/model"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const dateLayout = "2006-01-02"

// activeWindow is how recently a user must have logged in to count as
// active.
const activeWindow = 24 * time.Hour

type Monitor struct {
	db   database.DbDriver
	cron *cron.Cron
}

func NewMonitor(db database.DbDriver) *Monitor {
	return &Monitor{
		db:   db,
		cron: cron.New(),
	}
}

// Start schedules the daily statistics job. The schedule uses standard cron
// syntax, e.g. "5 0 * * *" for five past midnight.
func (m *Monitor) Start(schedule string) error {
	_, err := m.cron.AddFunc(schedule, func() {
		if err := m.CollectUserStatistics(time.Now().UTC()); err != nil {
			log.Error().Err(err).Msg("stats: failed to collect user statistics")
		}
	})
	if err != nil {
		return err
	}

	m.cron.Start()
	log.Debug().Str("schedule", schedule).Msg("stats: monitor started")
	return nil
}

func (m *Monitor) Stop() {
	m.cron.Stop()
}

// CollectUserStatistics computes the user statistic row for the day
// containing now and stores it, overwriting any earlier run for that day.
func (m *Monitor) CollectUserStatistics(now time.Time) error {
	users, err := m.db.GetUsers()
	if err != nil {
		return err
	}

	date := now.Format(dateLayout)
	dayStart := now.Truncate(24 * time.Hour)

	stat := &model.DailyStatistic{
		Date: date,
		Type: model.StatisticTypeUser,
		Time: now,
	}

	for _, user := range users {
		if user.IsDeleted {
			continue
		}
		stat.Total++
		if !user.CreatedAt.Before(dayStart) {
			stat.Increment++
		}
		if user.LastLoginAt != nil && now.Sub(*user.LastLoginAt) <= activeWindow {
			stat.Active++
		}
	}

	log.Debug().
		Str("date", date).
		Int64("total", stat.Total).
		Int64("active", stat.Active).
		Msg("stats: collected user statistics")

	return m.db.SaveDailyStatistic(stat)
}
