package service

import (
	"context"
	"sync"
	"time"

	"shift-planner-bot/internal/models"

	"github.com/sirupsen/logrus"
)

// NotifyFunc получает новые сообщения входящих после опроса
type NotifyFunc func(messages []*models.InboxMessage)

// SchedulerConfig - интервалы фоновых задач
type SchedulerConfig struct {
	AutoCloseEvery time.Duration
	InboxPoll      time.Duration
}

// Scheduler запускает автоматическое закрытие смен и опрос входящих
type Scheduler struct {
	clocking *ClockingService
	inbox    *InboxService
	notify   NotifyFunc
	cfg      SchedulerConfig

	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger *logrus.Logger
}

func NewScheduler(clocking *ClockingService, inbox *InboxService, notify NotifyFunc, cfg SchedulerConfig) *Scheduler {
	if cfg.AutoCloseEvery <= 0 {
		cfg.AutoCloseEvery = time.Minute
	}
	if cfg.InboxPoll <= 0 {
		cfg.InboxPoll = time.Minute
	}
	return &Scheduler{
		clocking: clocking,
		inbox:    inbox,
		notify:   notify,
		cfg:      cfg,
		logger:   newLogger(),
	}
}

// Start запускает задачи. Они работают до отмены ctx или вызова Stop.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(2)
	go s.every(ctx, s.cfg.AutoCloseEvery, s.RunAutoClose)
	go s.every(ctx, s.cfg.InboxPoll, s.RunInboxPoll)

	s.logger.WithFields(logrus.Fields{
		"auto_close_every": s.cfg.AutoCloseEvery.String(),
		"inbox_poll":       s.cfg.InboxPoll.String(),
	}).Info("Scheduler started")
}

// Stop останавливает задачи и ждет их завершения
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) every(ctx context.Context, interval time.Duration, run func()) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			run()
		}
	}
}

// RunAutoClose выполняет один проход автоматического закрытия смен
func (s *Scheduler) RunAutoClose() {
	closed, err := s.clocking.AutoClockOut()
	if err != nil {
		s.logger.WithError(err).Error("Auto clock-out failed")
		return
	}
	if closed > 0 {
		s.logger.WithField("closed", closed).Info("Auto clock-out pass finished")
	}
}

// RunInboxPoll выполняет один опрос входящих
func (s *Scheduler) RunInboxPoll() {
	messages, err := s.inbox.Refresh()
	if err != nil {
		s.logger.WithError(err).Error("Inbox poll failed")
		return
	}
	if len(messages) > 0 && s.notify != nil {
		s.notify(messages)
	}
}
