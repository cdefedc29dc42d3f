// Package filestate persists how far each access log file has been shipped.
package filestate

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

// Offsets maps a log file path to the byte offset after the last shipped line.
type Offsets map[string]int64

// Clone returns an independent copy of o.
func (o Offsets) Clone() Offsets {
	out := make(Offsets, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

type Manager interface {
	LoadState() (Offsets, error)
	SaveState(state Offsets) error
	GetStateFilePath() string
}

type fileStateManager struct {
	filePath string
	mu       sync.RWMutex
}

func NewManager(filePath string) Manager {
	return &fileStateManager{
		filePath: filePath,
	}
}

// LoadState returns an empty state when the file is missing or empty.
func (m *fileStateManager) LoadState() (Offsets, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := os.ReadFile(m.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warn().Str("file", m.filePath).Msg("State file not found, starting fresh.")
			return make(Offsets), nil
		}
		log.Error().Err(err).Str("file", m.filePath).Msg("Failed to read state file")
		return nil, err
	}

	if len(data) == 0 {
		log.Warn().Str("file", m.filePath).Msg("State file is empty, starting fresh.")
		return make(Offsets), nil
	}
	state := make(Offsets)
	if err := json.Unmarshal(data, &state); err != nil {
		log.Error().Err(err).Str("file", m.filePath).Msg("Failed to unmarshal state file")
		return nil, err
	}

	log.Debug().Str("file", m.filePath).Int("files_tracked", len(state)).Msg("Loaded file state")
	return state, nil
}

// SaveState writes through a temporary file and a rename so a crash never leaves a
// half written state behind.
func (m *fileStateManager) SaveState(state Offsets) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal state")
		return err
	}

	if dir := filepath.Dir(m.filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tempFilePath := m.filePath + ".tmp"
	if err := os.WriteFile(tempFilePath, data, 0o644); err != nil {
		log.Error().Err(err).Str("file", tempFilePath).Msg("Failed to write temporary state file")
		return err
	}

	if err := os.Rename(tempFilePath, m.filePath); err != nil {
		log.Error().Err(err).Str("from", tempFilePath).Str("to", m.filePath).Msg("Failed to rename state file")
		_ = os.Remove(tempFilePath)
		return err
	}
	log.Debug().Str("file", m.filePath).Int("files_tracked", len(state)).Msg("Saved file state")
	return nil
}

func (m *fileStateManager) GetStateFilePath() string {
	return m.filePath
}
