// Package models holds the shared data records of the stitching pipeline.
package models

import (
	"elementalscope/pkg/register"
)

// Task is one persisted alignment: which two tile sets to join, at what
// offset, and the element channel that was displayed while the offset was
// chosen. Tasks are stored one JSON file each under Output/<name>/.
type Task struct {
	Name      string `json:"name"`
	Element   string `json:"element"`
	Left      string `json:"left"`
	Right     string `json:"right"`
	AddX      int    `json:"addX"`
	AddY      int    `json:"addY"`
	Transpose bool   `json:"transpose"`
}

// Offset converts the persisted record back into a registration offset: a
// centered coarse placement with the stored pixel nudge reapplied, which
// reproduces the original embedding center exactly.
func (t Task) Offset() register.Offset {
	return register.Offset{
		PercentX:  0.5,
		PercentY:  0.5,
		DX:        t.AddX,
		DY:        t.AddY,
		Transpose: t.Transpose,
	}
}
