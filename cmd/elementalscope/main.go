package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"elementalscope/internal/models"
	"elementalscope/pkg/config"
	"elementalscope/pkg/element"
	"elementalscope/pkg/hdf5io"
	"elementalscope/pkg/register"
	"elementalscope/pkg/session"
)

func main() {
	// Parse command line arguments
	root := flag.String("root", "", "Root folder containing one subfolder per scan field")
	configPath := flag.String("config", "elementalscope.yaml", "YAML configuration file")
	list := flag.Bool("list", false, "List loaded tile sets and saved tasks, then exit")
	taskName := flag.String("task", "", "Saved task to restore as the starting offset")
	left := flag.String("left", "", "Left (reference) tile set")
	right := flag.String("right", "", "Right (moving) tile set")
	elem := flag.String("element", models.GreyChannel, "Element channel used for comparison")
	px := flag.Float64("px", 0.5, "Coarse horizontal placement in [0,1]")
	py := flag.Float64("py", 0.5, "Coarse vertical placement in [0,1]")
	dx := flag.Int("dx", 0, "Horizontal pixel nudge")
	dy := flag.Int("dy", 0, "Vertical pixel nudge")
	transpose := flag.Bool("transpose", false, "Transpose both tiles before aligning")
	stitch := flag.Bool("stitch", false, "Write the stitched output instead of only comparing")
	flag.Parse()

	// Validate inputs
	if *root == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	sess := session.New(*root, cfg, hdf5io.Store{}, element.ReadFolder)

	fmt.Println("Loading scan folders...")
	startTime := time.Now()
	failures, err := sess.Load()
	if err != nil {
		log.Fatalf("Loading failed: %v", err)
	}
	for name, ferr := range failures {
		fmt.Printf("Warning: skipped %s: %v\n", name, ferr)
	}
	fmt.Printf("Loaded %d tile sets in %.2f seconds\n",
		len(sess.TileSetNames()), time.Since(startTime).Seconds())

	if *list {
		fmt.Println("\nTile sets:")
		for _, name := range sess.TileSetNames() {
			ts, _ := sess.TileSet(name)
			fmt.Printf("  %s (%d channels, %.6f um/px)\n", name, len(ts.Channels), ts.Resolution)
		}
		fmt.Println("\nSaved tasks:")
		for _, name := range sess.TaskNames() {
			task, _ := sess.Task(name)
			fmt.Printf("  %s: %s + %s @ (%d, %d) element %s\n",
				name, task.Left, task.Right, task.AddX, task.AddY, task.Element)
		}
		return
	}

	off := register.Offset{
		PercentX:  *px,
		PercentY:  *py,
		DX:        *dx,
		DY:        *dy,
		Transpose: *transpose,
	}
	if *taskName != "" {
		task, ok := sess.Task(*taskName)
		if !ok {
			log.Fatalf("Unknown task: %s", *taskName)
		}
		off = task.Offset()
		*left = task.Left
		*right = task.Right
		*elem = task.Element
	}
	if *left == "" || *right == "" {
		log.Fatalf("Both -left and -right are required (or -task)")
	}

	if *stitch {
		fmt.Printf("Stitching %s + %s...\n", *left, *right)
		result, err := sess.Stitch(*left, *right, *elem, off)
		if err != nil {
			log.Fatalf("Stitching failed: %v", err)
		}
		fmt.Printf("Stitched %d channels into %s\n", len(result.TileSet.Channels), result.Task.Name)
		fmt.Printf("Output written to: %s\n", result.Dir)
		return
	}

	result, err := sess.Compare(*left, *right, *elem, off)
	if err != nil {
		log.Fatalf("Comparison failed: %v", err)
	}
	fmt.Printf("Comparison done, (dx, dy) = (%d, %d)\n", result.DX, result.DY)
	fmt.Printf("View window: cols %d-%d, rows %d-%d\n",
		result.View.Left, result.View.Right, result.View.Top, result.View.Bottom)
	fmt.Println("Run again with -stitch to write the merged output.")
}
