// Package element reads and writes the per-element CSV (and Grey TIFF)
// files produced by EDS instruments, one folder per scan field.
package element

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"elementalscope/internal/models"
	"elementalscope/pkg/grid"
)

// ErrMissingData reports a folder without any usable element CSV files.
var ErrMissingData = errors.New("no element data found")

// An instrument CSV starts with a header row and four metadata rows
// before the numeric grid.
const gridSkipRows = 5

// ReadFolder loads every element map of one scan folder. The
// alphabetically first CSV (the summary map) supplies the pixel size; each
// remaining CSV becomes a despeckled channel named after its element. When
// no Grey CSV exists, a *Grey*.tif electron image is used instead.
func ReadFolder(path string) (*models.TileSet, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading folder %s: %w", path, err)
	}

	var csvFiles []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".csv") || strings.Contains(name, "Point") {
			continue
		}
		csvFiles = append(csvFiles, name)
	}
	if len(csvFiles) == 0 {
		return nil, fmt.Errorf("%w: folder %s", ErrMissingData, path)
	}

	resolution, err := readResolution(filepath.Join(path, csvFiles[0]))
	if err != nil {
		return nil, err
	}

	ts := models.NewTileSet()
	ts.Resolution = resolution
	for _, name := range csvFiles[1:] {
		data, err := readGrid(filepath.Join(path, name))
		if err != nil {
			return nil, err
		}
		grid.RemoveIsolated(data)
		ts.Channels[elementName(name)] = data
	}

	if _, ok := ts.Channels[models.GreyChannel]; !ok {
		for _, e := range entries {
			name := e.Name()
			if strings.HasSuffix(name, ".tif") && strings.Contains(name, models.GreyChannel) {
				grey, err := readGreyTIFF(filepath.Join(path, name))
				if err != nil {
					return nil, err
				}
				ts.Channels[models.GreyChannel] = grey
				break
			}
		}
	}
	return ts, nil
}

// elementName extracts the element symbol from an instrument file name
// such as "Sample atom__Fe K.csv".
func elementName(fileName string) string {
	parts := strings.Split(fileName, "_")
	tail := parts[len(parts)-1]
	tail = strings.Split(tail, ".")[0]
	return strings.Split(tail, " ")[0]
}

// readResolution parses the pixel size from the fourth line of an
// instrument CSV, e.g. "Pixel Size,0.125um". Sizes in nm convert to µm.
func readResolution(path string) (float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	lines := strings.Split(string(raw), "\n")
	if len(lines) < 4 {
		return 0, fmt.Errorf("%w: %s has no metadata rows", ErrMissingData, path)
	}
	line := lines[3]

	_, after, found := strings.Cut(line, "Size,")
	if !found {
		return 0, fmt.Errorf("%w: no pixel size in %s", ErrMissingData, path)
	}
	if value, _, ok := strings.Cut(after, "um"); ok {
		res, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, fmt.Errorf("parsing pixel size in %s: %w", path, err)
		}
		return res, nil
	}
	value, _, _ := strings.Cut(after, "nm")
	res, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing pixel size in %s: %w", path, err)
	}
	return res / 1000, nil
}

// readGrid parses the numeric grid that follows the metadata rows.
func readGrid(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(records) <= gridSkipRows {
		return nil, fmt.Errorf("%w: %s has no grid rows", ErrMissingData, path)
	}
	records = records[gridSkipRows:]

	rows := len(records)
	cols := len(records[0])
	data := mat.NewDense(rows, cols, nil)
	for i, record := range records {
		if len(record) != cols {
			return nil, fmt.Errorf("%s: row %d has %d columns, want %d",
				path, i+gridSkipRows, len(record), cols)
		}
		for j, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("%s row %d: %w", path, i+gridSkipRows, err)
			}
			data.Set(i, j, v)
		}
	}
	return data, nil
}

// WriteAtom writes one stitched element channel in the instrument's atom
// CSV format: a header row, four metadata rows, then the raw grid.
func WriteAtom(taskPath, taskName, element string, resolution float64, data *mat.Dense) error {
	name := fmt.Sprintf("%s atom__%s K.csv", taskName, element)
	f, err := os.Create(filepath.Join(taskPath, name))
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	defer f.Close()

	rows, cols := data.Dims()
	w := csv.NewWriter(f)
	records := [][]string{
		{"Image Name", element + " K"},
		{"Number X Pixels", strconv.Itoa(cols)},
		{"Number Y Pixels", strconv.Itoa(rows)},
		{"Pixel Size", fmt.Sprintf("%.6f um", resolution)},
		{"Data Type", "AT% x 100"},
	}
	for r := 0; r < rows; r++ {
		record := make([]string, cols)
		for c := 0; c < cols; c++ {
			record[c] = strconv.FormatFloat(data.At(r, c), 'g', -1, 64)
		}
		records = append(records, record)
	}
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
