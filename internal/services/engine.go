package services

import (
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"

	"guildcloner/internal/models"
	"guildcloner/internal/pacer"
	"guildcloner/internal/platform"
	"guildcloner/internal/providers"
	"guildcloner/internal/storage"
)

type EngineInterface interface {
	// Run replicates source onto target. With opts.Restore the snapshot is
	// read from opts.BackupPath instead of the source guild; an empty
	// target makes the run backup-only. With opts.NewTarget a guild of that
	// name is created once the snapshot is in hand and replaced into.
	Run(sourceID, targetID string, delay time.Duration, opts models.Options) (*models.ReplicationReport, error)
}

type Engine struct {
	platform platform.PlatformInterface
	store    storage.SnapshotStoreInterface
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
	reporter ProgressReporterInterface
	clock    clock.Clock
}

func NewEngine(p platform.PlatformInterface, store storage.SnapshotStoreInterface, logger providers.Logger, metrics providers.MetricsProviderInterface, reporter ProgressReporterInterface, clk clock.Clock) EngineInterface {
	if clk == nil {
		clk = clock.WallClock
	}
	return &Engine{
		platform: p,
		store:    store,
		logger:   logger,
		metrics:  metrics,
		reporter: reporter,
		clock:    clk,
	}
}

func validateRun(sourceID, targetID string, opts models.Options) error {
	switch {
	case opts.Backup && opts.Restore:
		return errors.NotValidf("backup and restore in the same run")
	case targetID != "" && opts.NewTarget != "":
		return errors.NotValidf("both a target guild and a new target")
	case opts.Restore && !opts.HasTarget(targetID):
		return errors.NotValidf("restore without a target guild")
	case opts.Restore && opts.BackupPath == "":
		return errors.NotValidf("restore without a snapshot path")
	case !opts.Restore && sourceID == "":
		return errors.NotValidf("empty source guild")
	case !opts.Backup && !opts.HasTarget(targetID):
		return errors.NotValidf("empty target guild")
	}
	return nil
}

func (e *Engine) Run(sourceID, targetID string, delay time.Duration, opts models.Options) (*models.ReplicationReport, error) {
	if err := validateRun(sourceID, targetID, opts); err != nil {
		return nil, err
	}
	started := e.clock.Now()

	snap, warnings, err := e.snapshot(sourceID, opts)
	if err != nil {
		return nil, err
	}

	backupFile := ""
	if opts.Backup {
		backupFile, err = e.store.Save(snap, opts.BackupPath)
		if err != nil {
			if targetID == "" {
				return nil, errors.Annotate(err, "backup")
			}
			warnings = append(warnings, "Unable to write backup: "+err.Error())
			e.logger.Warnf(providers.TypeStorage, "Unable to write backup: %s", err)
		} else {
			e.logger.Infof(providers.TypeStorage, "Backup created successfully: %s", backupFile)
		}
	}

	if opts.NewTarget != "" {
		if targetID, err = e.createTarget(opts.NewTarget); err != nil {
			return nil, err
		}
	}

	var report *models.ReplicationReport
	if targetID == "" {
		report = models.NewReplicationReport(started)
		report.FinishedAt = e.clock.Now()
	} else {
		replicator := NewReplicator(e.platform, pacer.NewPacer(e.clock, delay), e.logger, e.metrics, e.reporter, e.clock)
		report, err = replicator.Replicate(targetID, snap, opts)
		if err != nil {
			return nil, err
		}
		report.StartedAt = started
	}
	report.Warnings = append(warnings, report.Warnings...)
	report.BackupFile = backupFile
	report.TargetID = targetID

	e.reporter.Finish(report)
	return report, nil
}

// createTarget creates the guild a run replicates into. The account owns it,
// so clearing may remove every role.
func (e *Engine) createTarget(name string) (string, error) {
	g, err := e.platform.CreateGuild(name)
	if err != nil {
		return "", errors.Annotate(err, "create target guild")
	}
	e.logger.Infof(providers.TypeReplicate, "Created server %s (%s)", g.Name, g.ID)
	return g.ID, nil
}

// snapshot produces the run's snapshot from the backup file or the source.
func (e *Engine) snapshot(sourceID string, opts models.Options) (*models.Snapshot, []string, error) {
	e.reporter.Phase(models.PhaseFetching, 0)
	start := e.clock.Now()
	defer func() { e.metrics.ObservePhaseDuration(string(models.PhaseFetching), e.clock.Now().Sub(start)) }()

	if opts.Restore {
		snap, err := e.store.Load(opts.BackupPath)
		if err != nil {
			return nil, nil, errors.Annotate(err, "restore")
		}
		if snap.Version > models.SnapshotVersion {
			e.logger.Warnf(providers.TypeStorage, "Snapshot version %d is newer than supported %d", snap.Version, models.SnapshotVersion)
		}
		return snap, nil, nil
	}

	fetcher := NewFetcher(e.platform, e.logger, e.clock)
	return fetcher.Fetch(sourceID, opts)
}
