package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"access-log-backend/config"
	"access-log-backend/internal/filestate"
	"access-log-backend/internal/kafka"
	"access-log-backend/internal/model"
	"access-log-backend/internal/parser"

	"github.com/rs/zerolog/log"
)

type LogProducerService interface {
	ProcessLogs(ctx context.Context) error
}

// ShipStats summarizes one file of a processing cycle.
type ShipStats struct {
	LinesRead    int64
	RecordsSent  int64
	LinesSkipped int64
}

type logProducerService struct {
	parser      parser.Parser
	producer    kafka.RecordProducer
	cfg         *config.LogProcessorConfig
	stateMgr    filestate.Manager
	processLock sync.Mutex
}

func NewLogProducerService(
	cfg *config.Config,
	stateMgr filestate.Manager,
	p parser.Parser,
	producer kafka.RecordProducer,
) LogProducerService {
	return &logProducerService{
		cfg:      &cfg.LogProcessor,
		stateMgr: stateMgr,
		parser:   p,
		producer: producer,
	}
}

// ProcessLogs ships every complete line appended to the watched log files since the last
// cycle. A file's offset only moves past lines whose batch reached Kafka.
func (s *logProducerService) ProcessLogs(ctx context.Context) error {
	if !s.processLock.TryLock() {
		log.Warn().Msg("Log processing already in progress, skipping run.")
		return nil
	}
	defer s.processLock.Unlock()

	log.Info().Msg("Starting log processing cycle...")
	startTime := time.Now()

	currentState, err := s.stateMgr.LoadState()
	if err != nil {
		return fmt.Errorf("failed to load file state: %w", err)
	}
	newState := currentState.Clone()

	logFiles, err := s.findLogFiles()
	if err != nil {
		log.Error().Err(err).Msg("Failed to find log files")
		return fmt.Errorf("failed to find log files: %w", err)
	}
	log.Debug().Int("file_count", len(logFiles)).Msg("Found log files to process")

	var total ShipStats
	for _, filePath := range logFiles {
		stats, offset, err := s.shipFile(ctx, filePath, currentState[filePath])
		newState[filePath] = offset
		total.LinesRead += stats.LinesRead
		total.RecordsSent += stats.RecordsSent
		total.LinesSkipped += stats.LinesSkipped
		if err != nil {
			log.Error().Err(err).Str("file", filePath).Msg("Failed to process file")
			if ctx.Err() != nil {
				break
			}
			continue
		}
		if stats.LinesRead > 0 {
			log.Debug().Str("file", filePath).
				Int64("lines_read", stats.LinesRead).
				Int64("records_sent", stats.RecordsSent).
				Int64("lines_skipped", stats.LinesSkipped).
				Msg("Processed file")
		}
	}

	if err := s.stateMgr.SaveState(newState); err != nil {
		log.Error().Err(err).Msg("Failed to save final file state")
		return fmt.Errorf("failed to save final file state: %w", err)
	}

	log.Info().
		Int64("lines_read", total.LinesRead).
		Int64("records_sent", total.RecordsSent).
		Int64("lines_skipped", total.LinesSkipped).
		Int("files_processed", len(logFiles)).
		Dur("duration", time.Since(startTime)).
		Msg("Finished log processing cycle.")
	return ctx.Err()
}

// findLogFiles walks the log directory recursively and returns the files carrying the
// configured suffix, sorted for a stable processing order.
func (s *logProducerService) findLogFiles() ([]string, error) {
	var logFiles []string
	err := filepath.WalkDir(s.cfg.LogDirectory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == s.cfg.LogDirectory {
				return err
			}
			log.Warn().Err(err).Str("path", path).Msg("Skipping unreadable path")
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), s.cfg.FileSuffix) {
			logFiles = append(logFiles, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load log directory: %w", err)
	}
	sort.Strings(logFiles)
	return logFiles, nil
}

func (s *logProducerService) sourceName(filePath string) string {
	rel, err := filepath.Rel(s.cfg.LogDirectory, filePath)
	if err != nil {
		return filePath
	}
	return filepath.ToSlash(rel)
}

// shipFile returns the offset up to which lines were delivered. A trailing line with no
// newline is left for the next cycle.
func (s *logProducerService) shipFile(ctx context.Context, filePath string, lastOffset int64) (ShipStats, int64, error) {
	var stats ShipStats

	file, err := os.Open(filePath)
	if err != nil {
		return stats, lastOffset, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return stats, lastOffset, fmt.Errorf("failed to stat file %s: %w", filePath, err)
	}
	if info.Size() < lastOffset {
		log.Warn().Str("file", filePath).Int64("last_offset", lastOffset).Int64("current_size", info.Size()).Msg("File truncated or rotated? Resetting offset.")
		lastOffset = 0
	}
	if _, err = file.Seek(lastOffset, io.SeekStart); err != nil {
		return stats, lastOffset, fmt.Errorf("failed to seek file %s to offset %d: %w", filePath, lastOffset, err)
	}

	source := s.sourceName(filePath)
	reader := bufio.NewReader(file)
	committed := lastOffset
	readOffset := lastOffset
	batch := make([]model.ShippedRecord, 0, s.cfg.BatchSize)

	flush := func() error {
		if len(batch) > 0 {
			if err := s.sendBatch(ctx, batch); err != nil {
				return err
			}
			stats.RecordsSent += int64(len(batch))
			batch = batch[:0]
		}
		committed = readOffset
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return stats, committed, err
		}

		line, err := reader.ReadString('\n')
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, committed, fmt.Errorf("error reading file %s: %w", filePath, err)
		}
		readOffset += int64(len(line))
		stats.LinesRead++

		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, perr := s.parser.Parse(line)
		if perr != nil {
			stats.LinesSkipped++
			log.Debug().Err(perr).Str("file", filePath).Msg("Skipping unparsable line")
			continue
		}
		batch = append(batch, model.ShippedRecord{Record: rec, SourceFile: source, Raw: line})

		if len(batch) >= s.cfg.BatchSize {
			if err := flush(); err != nil {
				return stats, committed, err
			}
		}
	}

	if err := flush(); err != nil {
		return stats, committed, err
	}
	return stats, committed, nil
}

func (s *logProducerService) sendBatch(ctx context.Context, batch []model.ShippedRecord) error {
	log.Debug().Int("batch_size", len(batch)).Msg("Sending batch to Kafka...")
	if err := s.producer.Produce(ctx, batch); err != nil {
		return fmt.Errorf("kafka produce error: %w", err)
	}
	return nil
}
