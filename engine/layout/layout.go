// Package layout serializes the persistent world state: which buildings
// exist and where. The blob is round-tripped through the layout REST
// endpoint at session start/end and mirrored to a local zstd snapshot.
package layout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/unarmedpuppy/command-grid/engine/core"
	"github.com/unarmedpuppy/command-grid/engine/grid"
)

// Version of the layout blob format.
const Version = 1

// PlacedBuilding is one persisted building.
type PlacedBuilding struct {
	Type core.BuildingType `json:"type"`
	Name string            `json:"name"`
	Cell grid.Cell         `json:"cell"`
}

// Layout is the serialized world state.
type Layout struct {
	Version   int              `json:"version"`
	GridSize  int              `json:"grid_size"`
	Buildings []PlacedBuilding `json:"buildings"`
}

// FromBuildings captures the current building set.
func FromBuildings(gridSize int, buildings []*core.Building) Layout {
	l := Layout{Version: Version, GridSize: gridSize}
	for _, b := range buildings {
		l.Buildings = append(l.Buildings, PlacedBuilding{Type: b.Type, Name: b.Name, Cell: b.Cell})
	}
	return l
}

// EncodeJSON serializes the layout blob.
func (l Layout) EncodeJSON() ([]byte, error) {
	return json.Marshal(l)
}

// DecodeJSON parses a layout blob, rejecting unknown versions.
func DecodeJSON(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("decode layout: %w", err)
	}
	if l.Version != Version {
		return Layout{}, fmt.Errorf("unsupported layout version %d", l.Version)
	}
	return l, nil
}

// SaveSnapshot writes the layout as a zstd-compressed JSON file, creating
// parent directories as needed. The write goes through a temp file and
// rename so a crash never leaves a torn snapshot.
func SaveSnapshot(path string, l Layout) error {
	data, err := l.EncodeJSON()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		f.Close()
		return err
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		f.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadSnapshot reads a zstd-compressed layout snapshot.
func LoadSnapshot(path string) (Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return Layout{}, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return Layout{}, err
	}
	defer dec.Close()
	data, err := io.ReadAll(dec)
	if err != nil {
		return Layout{}, err
	}
	return DecodeJSON(data)
}
