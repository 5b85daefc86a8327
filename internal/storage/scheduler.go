package storage

import (
	"sync"
	"time"

	"github.com/roylee0704/gron"

	"guildcloner/internal/providers"
	"guildcloner/internal/storage/interfaces"
)

// Scheduler runs a job at a fixed interval. A tick that fires while the
// previous run is still busy is dropped.
type Scheduler struct {
	logger providers.Logger
	cron   *gron.Cron
	opsMu  sync.Mutex
}

func (s *Scheduler) Init(interval time.Duration, job func() error) {
	s.cron = gron.New()
	s.cron.AddFunc(gron.Every(interval), func() {
		if !s.opsMu.TryLock() {
			s.logger.Warnf(providers.TypeStorage, "Previous scheduled run still in progress, skipping")
			return
		}
		defer s.opsMu.Unlock()

		if err := job(); err != nil {
			s.logger.Errorf(providers.TypeStorage, "Scheduled run failed: %s", err)
			return
		}
		s.logger.Infof(providers.TypeStorage, "Scheduled run finished, next in %s", interval)
	})
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	// Wait for an in-flight run.
	s.opsMu.Lock()
	s.opsMu.Unlock()
}

func NewScheduler(logger providers.Logger) interfaces.SchedulerInterface {
	return &Scheduler{logger: logger}
}
