// Package hdf5io persists tile sets as HDF5 files: one float64 dataset
// per channel plus the resolution scalar.
package hdf5io

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/hdf5"

	"elementalscope/internal/models"
)

// Store adapts this package to the session's storage interface.
type Store struct{}

// ReadAll implements session.Store.
func (Store) ReadAll(path string) (*models.TileSet, error) { return ReadAll(path) }

// WriteAll implements session.Store.
func (Store) WriteAll(path string, ts *models.TileSet) error { return WriteAll(path, ts) }

// ReadAll loads every top-level dataset of an HDF5 file into a tile set.
// Two-dimensional datasets become channels; a single-element dataset named
// "resolution" becomes the pixel size. Non-dataset objects are skipped.
func ReadAll(path string) (*models.TileSet, error) {
	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	n, err := f.NumObjects()
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", path, err)
	}

	ts := models.NewTileSet()
	for i := uint(0); i < n; i++ {
		name := f.ObjectNameByIndex(i)
		dset, err := f.OpenDataset(name)
		if err != nil {
			continue
		}

		space := dset.Space()
		dims, _, err := space.SimpleExtentDims()
		space.Close()
		if err != nil {
			dset.Close()
			return nil, fmt.Errorf("reading %s:%s: %w", path, name, err)
		}

		size := 1
		for _, d := range dims {
			size *= int(d)
		}
		data := make([]float64, size)
		if err := dset.Read(&data); err != nil {
			dset.Close()
			return nil, fmt.Errorf("reading %s:%s: %w", path, name, err)
		}
		dset.Close()

		switch {
		case len(dims) == 2:
			ts.Channels[name] = mat.NewDense(int(dims[0]), int(dims[1]), data)
		case size == 1 && name == models.ResolutionKey:
			ts.Resolution = data[0]
		}
	}
	return ts, nil
}

// WriteAll creates (or truncates) an HDF5 file holding every channel of
// the tile set plus its resolution scalar.
func WriteAll(path string, ts *models.TileSet) error {
	f, err := hdf5.CreateFile(path, hdf5.F_ACC_TRUNC)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	for _, name := range ts.ChannelNames() {
		m := ts.Channels[name]
		rows, cols := m.Dims()
		data := make([]float64, 0, rows*cols)
		for r := 0; r < rows; r++ {
			data = append(data, m.RawRowView(r)...)
		}
		if err := writeDataset(f, name, []uint{uint(rows), uint(cols)}, data); err != nil {
			return fmt.Errorf("writing %s:%s: %w", path, name, err)
		}
	}

	res := []float64{ts.Resolution}
	if err := writeDataset(f, models.ResolutionKey, []uint{1}, res); err != nil {
		return fmt.Errorf("writing %s:%s: %w", path, models.ResolutionKey, err)
	}
	return nil
}

func writeDataset(f *hdf5.File, name string, dims []uint, data []float64) error {
	space, err := hdf5.CreateSimpleDataspace(dims, nil)
	if err != nil {
		return err
	}
	defer space.Close()

	dset, err := f.CreateDataset(name, hdf5.T_NATIVE_DOUBLE, space)
	if err != nil {
		return err
	}
	defer dset.Close()

	return dset.Write(&data)
}
