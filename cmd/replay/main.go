// Command replay feeds a scripted sequence of recognizer updates
// through the merge engine directly and prints the resulting
// transcript snapshot after each one. Useful for exercising the
// aligner/planner without standing up the HTTP surface.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"transcript-merge-engine/internal/merge"
)

func main() {
	path := flag.String("updates", "", "path to a JSON file containing an array of updates")
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "usage: replay -updates updates.json")
		os.Exit(1)
	}

	data, err := os.ReadFile(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", *path, err)
		os.Exit(1)
	}

	var updates []merge.Update
	if err := json.Unmarshal(data, &updates); err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse updates: %v\n", err)
		os.Exit(1)
	}

	engine := merge.NewEngine(merge.DefaultEngineConfig(), zerolog.New(os.Stderr))

	for i, u := range updates {
		if err := engine.Ingest(u); err != nil {
			fmt.Fprintf(os.Stderr, "update %d rejected: %v\n", i, err)
			continue
		}
		engine.Drain()

		snap := engine.Snapshot()
		out, _ := json.Marshal(snap)
		fmt.Printf("after update %d: %s\n", i, out)
	}
}
