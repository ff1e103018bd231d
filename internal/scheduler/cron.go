package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSweepSpec — каденция обхода очереди по умолчанию.
const DefaultSweepSpec = "@every 60s"

// sweepParser — парсер cron-выражений для каденции обхода.
// Поддерживает стандартные 5 полей и дескрипторы (@every, @hourly).
var sweepParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// SweepSchedule возвращает расписание обхода из переменной окружения
// SCHED_CRON. Пустое значение — дефолтные 60 секунд.
func SweepSchedule() (cron.Schedule, error) {
	spec := os.Getenv("SCHED_CRON")
	if spec == "" {
		spec = DefaultSweepSpec
	}

	schedule, err := sweepParser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parse sweep spec %q: %w", spec, err)
	}
	return schedule, nil
}

// Run запускает итеративный цикл планировщика: следующий тик начинается
// только после завершения текущего, перекрывающихся обходов не бывает.
// Выход — по отмене контекста.
func (s *Scheduler) Run(ctx context.Context, schedule cron.Schedule) error {
	for {
		if err := s.Tick(ctx); err != nil {
			s.logger.Error("scheduler tick failed", "error", err)
		}

		next := schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
