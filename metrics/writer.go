package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Writer appends simulation records to CSV files under a timestamped
// run directory.
type Writer struct {
	baseDir string
}

// NewWriter creates a run directory named by the current timestamp
// under dir.
func NewWriter(dir string) (*Writer, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339)
	baseDir := filepath.Join(dir, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	path := filepath.Join(w.baseDir, "game_records.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create game records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"id", "seed", "players", "winner", "rounds", "turns", "start_time", "end_time", "duration"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write game records header: %w", err)
	}

	for _, record := range records {
		row := []string{
			record.ID.String(),
			strconv.FormatUint(record.Seed, 10),
			strconv.Itoa(record.NumPlayers),
			record.Winner,
			strconv.Itoa(record.Rounds),
			strconv.Itoa(record.Turns),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write game record row: %w", err)
		}
	}

	return nil
}

func (w *Writer) WritePlayerRecords(records []PlayerRecord) error {
	path := filepath.Join(w.baseDir, "player_records.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create player records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"game", "player", "name", "strategy", "survived", "won", "territories", "armies", "captures", "eliminations"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write player records header: %w", err)
	}

	for _, record := range records {
		row := []string{
			record.Game.String(),
			strconv.Itoa(record.Player),
			record.Name,
			record.Strategy,
			strconv.FormatBool(record.Survived),
			strconv.FormatBool(record.Won),
			strconv.Itoa(record.Territories),
			strconv.Itoa(record.Armies),
			strconv.Itoa(record.Captures),
			strconv.Itoa(record.Eliminations),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write player record row: %w", err)
		}
	}

	return nil
}

func (w *Writer) WriteTurnRecords(records []TurnRecord) error {
	path := filepath.Join(w.baseDir, "turn_records.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create turn records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"game", "turn", "round", "player", "territories"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write turn records header: %w", err)
	}

	for _, record := range records {
		counts := make([]string, len(record.Territories))
		for i, c := range record.Territories {
			counts[i] = strconv.Itoa(c)
		}
		row := []string{
			record.Game.String(),
			strconv.Itoa(record.Turn),
			strconv.Itoa(record.Round),
			strconv.Itoa(record.Player),
			strings.Join(counts, "|"),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write turn record row: %w", err)
		}
	}

	return nil
}
