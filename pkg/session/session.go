// Package session owns the state of one stitching run: the root folder,
// the tile sets loaded from it, and the persisted alignment tasks. A
// Session replaces any global state; callers create one per root folder
// and are responsible for running at most one stitch per task name at a
// time.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/gonum/mat"

	"elementalscope/internal/models"
	"elementalscope/pkg/config"
	"elementalscope/pkg/register"
)

// OutputDir is the subfolder of the root that holds stitched results and
// task records. It is never scanned for input tile sets.
const OutputDir = "Output"

// Store persists tile sets outside the session, typically as HDF5 files.
// A nil store disables caching and HDF5 output.
type Store interface {
	ReadAll(path string) (*models.TileSet, error)
	WriteAll(path string, ts *models.TileSet) error
}

// FolderLoader loads one raw scan folder into a tile set. It exists so
// tests can substitute synthetic data; the default is element.ReadFolder.
type FolderLoader func(path string) (*models.TileSet, error)

// Session holds everything loaded from one root folder.
type Session struct {
	root     string
	cfg      *config.Config
	store    Store
	loader   FolderLoader
	tilesets map[string]*models.TileSet
	tasks    map[string]models.Task
}

// New creates a session rooted at the given folder. The loader reads raw
// scan folders; the store, when non-nil, caches them as HDF5.
func New(root string, cfg *config.Config, store Store, loader FolderLoader) *Session {
	return &Session{
		root:     root,
		cfg:      cfg,
		store:    store,
		loader:   loader,
		tilesets: make(map[string]*models.TileSet),
		tasks:    make(map[string]models.Task),
	}
}

// TileSet returns a loaded tile set by folder name.
func (s *Session) TileSet(name string) (*models.TileSet, bool) {
	ts, ok := s.tilesets[name]
	return ts, ok
}

// TileSetNames lists the loaded tile sets, sorted.
func (s *Session) TileSetNames() []string {
	names := make([]string, 0, len(s.tilesets))
	for name := range s.tilesets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Task returns a persisted task by name.
func (s *Session) Task(name string) (models.Task, bool) {
	t, ok := s.tasks[name]
	return t, ok
}

// TaskNames lists the persisted tasks, sorted.
func (s *Session) TaskNames() []string {
	names := make([]string, 0, len(s.tasks))
	for name := range s.tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load scans the root folder and loads every scan folder concurrently,
// preferring a cached <name>.h5 over raw element files. Folders that fail
// to load are reported in the returned map by name; a failure in one
// folder never aborts the others. Saved task records are read afterwards.
func (s *Session) Load() (map[string]error, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("reading root %s: %w", s.root, err)
	}
	if err := os.MkdirAll(filepath.Join(s.root, OutputDir), 0755); err != nil {
		return nil, fmt.Errorf("creating output folder: %w", err)
	}

	var folders []string
	for _, e := range entries {
		if e.IsDir() && e.Name() != OutputDir {
			folders = append(folders, e.Name())
		}
	}

	workers := s.cfg.Processing.NumWorkers
	if workers < 1 {
		workers = 1
	}

	// Fan the folder loads out to a bounded set of goroutines and gather
	// the results on a channel.
	type loadResult struct {
		name string
		ts   *models.TileSet
		err  error
	}
	resultChan := make(chan loadResult)
	sem := make(chan struct{}, workers)
	for _, name := range folders {
		go func(name string) {
			sem <- struct{}{}
			defer func() { <-sem }()
			ts, err := s.loadFolder(name)
			resultChan <- loadResult{name: name, ts: ts, err: err}
		}(name)
	}

	failures := make(map[string]error)
	for range folders {
		res := <-resultChan
		if res.err != nil {
			failures[res.name] = res.err
			continue
		}
		s.tilesets[res.name] = res.ts
		if s.cfg.Output.Verbose {
			fmt.Printf("Loaded %s (%d channels)\n", res.name, len(res.ts.Channels))
		}
	}

	if err := s.readTasks(); err != nil {
		return failures, err
	}
	return failures, nil
}

// loadFolder loads one scan folder, from its HDF5 cache when present,
// otherwise from the raw element files (writing the cache back when a
// store is configured).
func (s *Session) loadFolder(name string) (*models.TileSet, error) {
	h5Path := filepath.Join(s.root, name, name+".h5")
	if s.store != nil {
		if _, err := os.Stat(h5Path); err == nil {
			return s.store.ReadAll(h5Path)
		}
	}

	ts, err := s.loader(filepath.Join(s.root, name))
	if err != nil {
		return nil, err
	}
	if s.store != nil && s.cfg.Output.WriteHDF5 {
		if err := s.store.WriteAll(h5Path, ts); err != nil {
			return nil, err
		}
	}
	return ts, nil
}

// readTasks loads every Output/<task>/<task>.json record.
func (s *Session) readTasks() error {
	outputPath := filepath.Join(s.root, OutputDir)
	entries, err := os.ReadDir(outputPath)
	if err != nil {
		return fmt.Errorf("reading output folder: %w", err)
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		recordPath := filepath.Join(outputPath, e.Name(), e.Name()+".json")
		raw, err := os.ReadFile(recordPath)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("reading task %s: %w", e.Name(), err)
		}
		var task models.Task
		if err := json.Unmarshal(raw, &task); err != nil {
			return fmt.Errorf("parsing task %s: %w", e.Name(), err)
		}
		s.tasks[task.Name] = task
	}
	return nil
}

// SaveTask persists one task record under Output/<name>/.
func (s *Session) SaveTask(task models.Task) error {
	dir := filepath.Join(s.root, OutputDir, task.Name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating task folder: %w", err)
	}
	raw, err := json.MarshalIndent(task, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding task %s: %w", task.Name, err)
	}
	path := filepath.Join(dir, task.Name+".json")
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("writing task %s: %w", task.Name, err)
	}
	s.tasks[task.Name] = task
	return nil
}

// comparable preconditions one element channel of both tile sets onto
// fresh canvases and reports the display offset applied to the right one.
func (s *Session) comparable(left, right, element string, off register.Offset) (lout, rout *mat.Dense, dx, dy int, err error) {
	lts, ok := s.tilesets[left]
	if !ok {
		return nil, nil, 0, 0, fmt.Errorf("unknown tile set %q", left)
	}
	rts, ok := s.tilesets[right]
	if !ok {
		return nil, nil, 0, 0, fmt.Errorf("unknown tile set %q", right)
	}
	lt, ok := lts.Channels[element]
	if !ok {
		return nil, nil, 0, 0, fmt.Errorf("tile set %q has no channel %q", left, element)
	}
	rt, ok := rts.Channels[element]
	if !ok {
		return nil, nil, 0, 0, fmt.Errorf("tile set %q has no channel %q", right, element)
	}

	ltile := off.Oriented(lt)
	rtile := off.Oriented(rt)
	rows, cols := ltile.Dims()

	lout, err = register.PreconditionLeft(ltile)
	if err != nil {
		return nil, nil, 0, 0, err
	}
	rout, dx, dy, err = register.PreconditionRight(rtile, rows, cols, off)
	if err != nil {
		return nil, nil, 0, 0, err
	}
	return lout, rout, dx, dy, nil
}
