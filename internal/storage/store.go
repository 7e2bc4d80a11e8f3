package storage

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ravik-m/ivpsim/internal/ivp"
)

// Store keeps one directory per run (metadata.json + trajectory.csv)
// under baseDir, with a sqlite index of run metadata for listing.
type Store struct {
	baseDir string
	idx     *index
}

type RunMetadata struct {
	ID         string    `json:"id"`
	Model      string    `json:"model"`
	Stepper    string    `json:"stepper"`
	T0         float64   `json:"t0"`
	TEnd       float64   `json:"t_end"`
	Steps      int       `json:"steps"`
	Seed       int64     `json:"seed"`
	Trials     int       `json:"trials,omitempty"`
	Created    time.Time `json:"created"`
	FinalState []float64 `json:"final_state"`
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init(ctx context.Context) error {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return err
	}
	idx, err := openIndex(ctx, filepath.Join(s.baseDir, "index.db"))
	if err != nil {
		return err
	}
	s.idx = idx
	return nil
}

func (s *Store) Close() error {
	if s.idx == nil {
		return nil
	}
	return s.idx.close()
}

// SaveRun writes the trajectory and metadata to a fresh run directory
// and records the run in the index. The generated run ID is returned.
func (s *Store) SaveRun(ctx context.Context, meta RunMetadata, traj *ivp.Trajectory) (string, error) {
	meta.ID = fmt.Sprintf("%s_%s", meta.Model, uuid.NewString()[:8])
	meta.Created = time.Now().UTC()
	if traj.Len() > 0 {
		_, final := traj.Final()
		meta.FinalState = final
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeMetadata(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeTrajectory(filepath.Join(runDir, "trajectory.csv"), traj); err != nil {
		return "", err
	}
	if err := s.idx.insert(ctx, meta); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func (s *Store) Meta(ctx context.Context, id string) (RunMetadata, error) {
	return s.idx.get(ctx, id)
}

func (s *Store) List(ctx context.Context) ([]RunMetadata, error) {
	return s.idx.list(ctx)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.idx.delete(ctx, id); err != nil {
		return err
	}
	return os.RemoveAll(filepath.Join(s.baseDir, id))
}

// RunSize reports the on-disk size of a run directory in bytes.
func (s *Store) RunSize(id string) int64 {
	var size int64
	filepath.Walk(filepath.Join(s.baseDir, id), func(_ string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size
}

func (s *Store) LoadTrajectory(id string) (*ivp.Trajectory, error) {
	f, err := os.Open(filepath.Join(s.baseDir, id, "trajectory.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("run %s: empty trajectory", id)
	}

	traj := &ivp.Trajectory{
		Times:  make([]float64, 0, len(rows)-1),
		States: make([]ivp.State, 0, len(rows)-1),
	}
	for _, row := range rows[1:] {
		t, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, err
		}
		x := make(ivp.State, len(row)-1)
		for i, cell := range row[1:] {
			if x[i], err = strconv.ParseFloat(cell, 64); err != nil {
				return nil, err
			}
		}
		traj.Times = append(traj.Times, t)
		traj.States = append(traj.States, x)
	}
	return traj, nil
}

func writeMetadata(path string, meta RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writeTrajectory(path string, traj *ivp.Trajectory) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := make([]string, traj.Dim()+1)
	header[0] = "t"
	for i := 1; i < len(header); i++ {
		header[i] = "x" + strconv.Itoa(i-1)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for j := 0; j < traj.Len(); j++ {
		t, x := traj.At(j)
		row[0] = strconv.FormatFloat(t, 'g', -1, 64)
		for i, v := range x {
			row[i+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
