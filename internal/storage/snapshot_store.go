package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/juju/clock"
	"github.com/juju/errors"

	"guildcloner/internal/models"
	"guildcloner/internal/providers"
	"guildcloner/internal/storage/interfaces"
	"guildcloner/internal/structures"
)

const (
	snapshotExt   = ".json"
	compressedExt = ".json.zst"
	stampLayout   = "20060102-150405"
)

type SnapshotStoreInterface interface {
	// Save writes snap into dir and returns the written path.
	Save(snap *models.Snapshot, dir string) (string, error)
	// Load reads a snapshot file. A directory yields its newest snapshot.
	Load(path string) (*models.Snapshot, error)
}

type SnapshotStore struct {
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
	clock      clock.Clock
	compress   bool
}

func NewSnapshotStore(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger, metrics providers.MetricsProviderInterface, clk clock.Clock) SnapshotStoreInterface {
	return &SnapshotStore{
		compressor: compressor,
		logger:     logger,
		metrics:    metrics,
		clock:      clk,
		compress:   conf.Backup.Compress,
	}
}

func (s *SnapshotStore) observe(start time.Time) {
	s.metrics.ObservePersistenceDuration(s.clock.Now().Sub(start))
}

// FileName is the deterministic file name of snap.
func FileName(snap *models.Snapshot, compressed bool) string {
	name := slug(snap.Name) + "-" + snap.CreatedAt.UTC().Format(stampLayout)
	if compressed {
		return name + compressedExt
	}
	return name + snapshotExt
}

func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "guild"
	}
	return s
}

func (s *SnapshotStore) Save(snap *models.Snapshot, dir string) (string, error) {
	defer s.observe(s.clock.Now())

	data, err := models.Encode(snap)
	if err != nil {
		return "", err
	}
	if s.compress {
		if data, err = s.compressor.Compress(data); err != nil {
			return "", errors.Annotate(err, "compress snapshot")
		}
	}

	if dir == "" {
		dir = models.DefaultBackupPath
	}
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Annotatef(err, "create backup directory %s", dir)
	}
	fileName := filepath.Join(dir, FileName(snap, s.compress))
	if err = writeAtomic(fileName, data); err != nil {
		return "", errors.Annotatef(err, "write snapshot %s", fileName)
	}

	s.logger.Infof(providers.TypeStorage, "Saved snapshot of %s to %s (%d bytes)", snap.Name, fileName, len(data))
	return fileName, nil
}

func writeAtomic(fileName string, data []byte) error {
	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (s *SnapshotStore) Load(path string) (*models.Snapshot, error) {
	defer s.observe(s.clock.Now())

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("snapshot %s", path)
		}
		return nil, errors.Trace(err)
	}
	if info.IsDir() {
		if path, err = newest(path); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Annotatef(err, "read snapshot %s", path)
	}
	if isCompressed(data) {
		if data, err = s.compressor.Decompress(data); err != nil {
			return nil, errors.NewNotValid(err, fmt.Sprintf("corrupt compressed snapshot %s", path))
		}
	}

	snap, err := models.Decode(data)
	if err != nil {
		return nil, errors.Annotatef(err, "snapshot %s", path)
	}
	s.logger.Infof(providers.TypeStorage, "Loaded snapshot of %s from %s", snap.Name, path)
	return snap, nil
}

// newest picks the most recently modified snapshot file in dir.
func newest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", errors.Annotatef(err, "read backup directory %s", dir)
	}
	var (
		best    string
		bestMod time.Time
	)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !(strings.HasSuffix(name, snapshotExt) || strings.HasSuffix(name, compressedExt)) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if best == "" || info.ModTime().After(bestMod) || (info.ModTime().Equal(bestMod) && name > filepath.Base(best)) {
			best = filepath.Join(dir, name)
			bestMod = info.ModTime()
		}
	}
	if best == "" {
		return "", errors.NotFoundf("snapshot in %s", dir)
	}
	return best, nil
}

func (s *SnapshotStore) Close() {
	s.compressor.Close()
}
