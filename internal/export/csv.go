package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"go-padel-watcher/internal/model"
)

// header shared by the raw and filtered dumps
var header = []string{"date", "court", "player_a0", "player_a1", "player_b0", "player_b1"}

// WriteMatches dumps one CSV row per match to path, creating parent
// directories as needed and overwriting any prior file.
func WriteMatches(path string, matches []model.Match) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}
	for i := range matches {
		m := &matches[i]
		row := []string{
			m.Start.Format("2006-01-02 15:04"),
			m.Court,
			m.TeamA[0].Name, m.TeamA[1].Name,
			m.TeamB[0].Name, m.TeamB[1].Name,
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
