package register

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAmbiguousTask reports a left/right selection naming the same tile
// set; there is nothing to align.
var ErrAmbiguousTask = errors.New("left and right tile sets are identical")

// TaskName derives the stitched output's name from its two source tile
// sets: the longest common prefix followed by both distinct suffixes,
// joined with an underscore. Identical names fail with ErrAmbiguousTask.
func TaskName(left, right string) (string, error) {
	if left == right {
		return "", fmt.Errorf("%w: %q", ErrAmbiguousTask, left)
	}
	common := commonPrefix(left, right)
	return common + strings.TrimPrefix(left, common) + "_" + strings.TrimPrefix(right, common), nil
}

// commonPrefix returns the longest prefix shared by both strings.
func commonPrefix(a, b string) string {
	i := 0
	for i < len(a) && i < len(b) && a[i] == b[i] {
		i++
	}
	return a[:i]
}
