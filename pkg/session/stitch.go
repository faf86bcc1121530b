package session

import (
	"fmt"
	"os"
	"path/filepath"

	"elementalscope/internal/models"
	"elementalscope/pkg/element"
	"elementalscope/pkg/grid"
	"elementalscope/pkg/register"
)

// CompareResult carries everything needed to present one comparison: the
// falsecolor composite, the display offset actually applied, and the
// margin/zoom-framed view bounds.
type CompareResult struct {
	Composite *register.Composite
	DX, DY    int
	View      grid.Bounds
}

// StitchResult names the written outputs of one stitch.
type StitchResult struct {
	Task    models.Task
	TileSet *models.TileSet
	Dir     string
}

// Compare preconditions one element channel of both tile sets at the given
// offset and builds the visual comparison composite.
func (s *Session) Compare(left, right, element string, off register.Offset) (*CompareResult, error) {
	lout, rout, dx, dy, err := s.comparable(left, right, element, off)
	if err != nil {
		return nil, err
	}

	comp := register.Compare(lout, rout)
	view, err := register.ViewBounds(comp, s.cfg.Processing.MarginPercent, s.cfg.Processing.ZoomPercent)
	if err != nil {
		return nil, err
	}
	return &CompareResult{Composite: comp, DX: dx, DY: dy, View: view}, nil
}

// Stitch merges every channel shared by the two tile sets at the given
// offset, cropped to the content boundary of the chosen element's
// comparison composite. The task record, the stitched HDF5 file (when a
// store is configured) and the per-element atom CSVs are all written under
// Output/<task>/; the stitched tile set also joins the session so it can
// be aligned against further fields.
func (s *Session) Stitch(left, right, elem string, off register.Offset) (*StitchResult, error) {
	name, err := register.TaskName(left, right)
	if err != nil {
		return nil, err
	}

	// The crop boundary comes from the channel the user aligned with.
	lout, rout, dx, dy, err := s.comparable(left, right, elem, off)
	if err != nil {
		return nil, err
	}
	comp := register.Compare(lout, rout)
	bounds, err := comp.Boundary(s.cfg.Processing.BoundaryThreshold)
	if err != nil {
		return nil, err
	}
	if bounds.Left < 0 || bounds.Top < 0 {
		return nil, fmt.Errorf("comparison of %q and %q has no content above threshold", left, right)
	}

	lts := s.tilesets[left]
	rts := s.tilesets[right]
	out := models.NewTileSet()
	out.Resolution = lts.Resolution

	for _, field := range models.SharedElements(lts, rts) {
		fl, fr, _, _, err := s.comparable(left, right, field, off)
		if err != nil {
			return nil, err
		}
		out.Channels[field] = register.Crop(register.Merge(fl, fr), bounds)
	}

	task := models.Task{
		Name:      name,
		Element:   elem,
		Left:      left,
		Right:     right,
		AddX:      dx,
		AddY:      dy,
		Transpose: off.Transpose,
	}
	if err := s.SaveTask(task); err != nil {
		return nil, err
	}
	s.tilesets[name] = out

	dir := filepath.Join(s.root, OutputDir, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating task folder: %w", err)
	}
	if s.store != nil && s.cfg.Output.WriteHDF5 {
		if err := s.store.WriteAll(filepath.Join(dir, name+".h5"), out); err != nil {
			return nil, err
		}
	}
	for field, data := range out.Channels {
		if err := element.WriteAtom(dir, name, field, out.Resolution, data); err != nil {
			return nil, err
		}
	}
	return &StitchResult{Task: task, TileSet: out, Dir: dir}, nil
}
