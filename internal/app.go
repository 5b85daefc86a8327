package internal

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"guildcloner/internal/controllers"
	"guildcloner/internal/models"
	"guildcloner/internal/providers"
	"guildcloner/internal/services"
	"guildcloner/internal/storage/interfaces"
	"guildcloner/internal/structures"
)

// Job is one engine invocation as requested on the command line.
type Job struct {
	Source  string
	Target  string
	Delay   time.Duration
	Options models.Options
}

type App struct {
	// StatusServer is nil unless the status server is enabled.
	StatusServer *http.Server

	engine    services.EngineInterface
	tracker   *services.Tracker
	scheduler interfaces.SchedulerInterface
	conf      *structures.Config
	logger    providers.Logger
}

func NewApp(engine services.EngineInterface, tracker *services.Tracker, scheduler interfaces.SchedulerInterface, healthController *controllers.HealthController, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) *App {
	app := &App{
		engine:    engine,
		tracker:   tracker,
		scheduler: scheduler,
		conf:      conf,
		logger:    logger,
	}
	if !conf.Status.Enabled {
		return app
	}

	// Outer mux: infrastructure + instrumented status routes
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", router.Handler(metrics))

	app.StatusServer = &http.Server{
		Addr:         conf.Status.Host + ":" + strconv.Itoa(conf.Status.Port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return app
}

func (a *App) Config() *structures.Config {
	return a.conf
}

func (a *App) Close() {
	a.logger.Close()
}

func (a *App) startStatus() {
	if a.StatusServer == nil {
		return
	}
	go func() {
		a.logger.Infof(providers.TypeStatus, "Listening HTTP clients on %s", a.StatusServer.Addr)
		if err := a.StatusServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Errorf(providers.TypeStatus, "Status server error: %s", err)
		}
	}()
}

func (a *App) stopStatus() {
	if a.StatusServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.StatusServer.Shutdown(ctx); err != nil {
		a.logger.Errorf(providers.TypeStatus, "Status server shutdown: %s", err)
	}
}

func (a *App) runOnce(job Job) (*models.ReplicationReport, error) {
	a.tracker.Reset()
	report, err := a.engine.Run(job.Source, job.Target, job.Delay, job.Options)
	if err != nil {
		return nil, err
	}
	a.summarize(report)
	return report, nil
}

func (a *App) summarize(report *models.ReplicationReport) {
	if report.BackupFile != "" {
		a.logger.Infof(providers.TypeApp, "Snapshot written to %s", report.BackupFile)
	}
	if report.TargetID != "" {
		a.logger.Infof(providers.TypeApp, "Target server: %s", report.TargetID)
	}
	a.logger.Infof(providers.TypeApp, "Roles %d/%d, channels %d/%d, emoji %d/%d, %d cleared, %d warnings",
		report.Roles.Succeeded, report.Roles.Attempts(),
		report.Channels.Succeeded, report.Channels.Attempts(),
		report.Emoji.Succeeded, report.Emoji.Attempts(),
		report.Cleared.Succeeded, len(report.Warnings))
	for _, w := range report.Warnings {
		a.logger.Debugf(providers.TypeApp, "warning: %s", w)
	}
}

// Run executes job once.
func (a *App) Run(job Job) (*models.ReplicationReport, error) {
	a.logger.Infof(providers.TypeApp, "Starting %s", a.conf.AppName)
	a.startStatus()
	defer a.stopStatus()

	return a.runOnce(job)
}

// RunEvery executes job immediately and then at every interval until ctx is
// done. Only a failure of the first run is returned; later failures are
// logged and retried at the next tick.
func (a *App) RunEvery(ctx context.Context, interval time.Duration, job Job) error {
	a.logger.Infof(providers.TypeApp, "Starting %s, running every %s", a.conf.AppName, interval)
	a.startStatus()
	defer a.stopStatus()

	if _, err := a.runOnce(job); err != nil {
		return err
	}

	a.scheduler.Init(interval, func() error {
		_, err := a.runOnce(job)
		return err
	})
	<-ctx.Done()
	a.logger.Infof(providers.TypeApp, "Shutdown signal received")
	a.scheduler.Stop()

	a.logger.Infof(providers.TypeApp, "gracefully stopped")
	return nil
}
