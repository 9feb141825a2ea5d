package dataset

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sales-dashboard/internal/models"
)

const cacheVersion = "v1"

type snapshot struct {
	Source  string
	BuiltAt time.Time
	Records []models.SalesRecord
}

func cacheFilename(cacheDir, csvPath string) string {
	name := strings.NewReplacer("/", "_", "\\", "_", " ", "_").Replace(csvPath)
	return filepath.Join(cacheDir, fmt.Sprintf("%s_%s.gob", name, cacheVersion))
}

func saveSnapshot(cacheDir, csvPath string, records []models.SalesRecord) error {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return err
	}

	file, err := os.Create(cacheFilename(cacheDir, csvPath))
	if err != nil {
		return err
	}
	defer file.Close()

	return gob.NewEncoder(file).Encode(snapshot{
		Source:  csvPath,
		BuiltAt: time.Now(),
		Records: records,
	})
}

func loadSnapshot(cacheDir, csvPath string) (*snapshot, error) {
	file, err := os.Open(cacheFilename(cacheDir, csvPath))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var snap snapshot
	if err := gob.NewDecoder(file).Decode(&snap); err != nil {
		return nil, err
	}
	if snap.Source != csvPath {
		return nil, fmt.Errorf("cache belongs to %q", snap.Source)
	}
	return &snap, nil
}
