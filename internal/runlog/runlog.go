// Package runlog appends finished-run records to a JSON-lines file under the
// user's XDG data directory.
package runlog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// FileName is the log file inside the run log directory.
const FileName = "runs.jsonl"

// Record is one finished run.
type Record struct {
	RunID          uuid.UUID      `json:"runId"`
	LevelID        uuid.UUID      `json:"levelId"`
	Seed           int64          `json:"seed"`
	EndedAt        time.Time      `json:"endedAt"`
	Victory        bool           `json:"victory"`
	StageReached   int            `json:"stageReached"`
	PlayerLevel    int            `json:"playerLevel"`
	ElapsedMs      int64          `json:"elapsedMs"`
	DamageTaken    int            `json:"damageTaken"`
	TrapsTriggered int            `json:"trapsTriggered"`
	WallsBroken    int            `json:"wallsBroken"`
	EnemiesKilled  map[string]int `json:"enemiesKilled"`
	ItemsCollected map[string]int `json:"itemsCollected"`
}

// Dir returns the directory where run logs are stored.
// Uses the XDG data directory: $XDG_DATA_HOME/ipne,
// defaulting to ~/.local/share/ipne.
func Dir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "ipne"), nil
}

// Append writes rec as a single JSON line to dir/runs.jsonl, creating the
// directory when needed.
func Append(dir string, rec Record) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create run log dir: %w", err)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode run record: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, FileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open run log: %w", err)
	}
	_, werr := f.Write(append(data, '\n'))
	return errors.Join(werr, f.Close())
}

// ReadAll returns every record in dir/runs.jsonl, oldest first. A missing
// file yields no records.
func ReadAll(dir string) ([]Record, error) {
	f, err := os.Open(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []Record
	sc := bufio.NewScanner(f)
	for line := 1; sc.Scan(); line++ {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			return out, fmt.Errorf("run log line %d: %w", line, err)
		}
		out = append(out, rec)
	}
	return out, sc.Err()
}
