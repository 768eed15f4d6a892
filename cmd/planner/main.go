// Command planner loads a previously built map, plans a tour across its
// POIs (or tarns given in a fixed order), and writes the per-leg and GPX
// output artifacts.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/thepurplepot/prettypath/pkg/config"
	"github.com/thepurplepot/prettypath/pkg/mapload"
	"github.com/thepurplepot/prettypath/pkg/pathwriter"
	"github.com/thepurplepot/prettypath/pkg/tourplanner"
)

// progressBarWidth matches the original tool's bar, cell for cell.
const progressBarWidth = 50

// renderProgressBar redraws a "[====>     ] NN%" bar on the same line of
// stderr, the way the original redrew its bar with a bare '\r'.
func renderProgressBar(done, total int) {
	pct := done * 100 / total
	pos := progressBarWidth * pct / 100

	var bar strings.Builder
	bar.WriteByte('[')
	for p := 0; p < progressBarWidth; p++ {
		switch {
		case p < pos:
			bar.WriteByte('=')
		case p == pos:
			bar.WriteByte('>')
		default:
			bar.WriteByte(' ')
		}
	}
	bar.WriteByte(']')

	fmt.Fprintf(os.Stderr, "\r%s %d%%", bar.String(), pct)
	if done == total {
		fmt.Fprintln(os.Stderr)
	}
}

func main() {
	configPath := pflag.StringP("config", "c", "", "Path to the planner's JSON configuration file")
	pflag.Parse()

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: planner -c <config_file>")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}

	log.Println("loading map artifacts...")
	g, pois, err := mapload.Load(cfg.Filenames.MapNodes, cfg.Filenames.MapEdges, cfg.Filenames.MapTarns)
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}
	log.Printf("loaded %d graph nodes, %d candidate POIs", g.NumNodes(), len(pois))

	log.Println("building distance matrix...")
	var lastReported int
	progress := func(done, total int) {
		pct := done * 100 / total
		if pct != lastReported || done == total {
			lastReported = pct
			renderProgressBar(done, total)
		}
	}

	result, err := tourplanner.Plan(g, pois, cfg, tourplanner.Options{Progress: progress})
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}
	log.Printf("planned tour: %d stops", len(result.Legs))

	log.Printf("writing output to %s...", cfg.Filenames.OutputDir)
	if err := pathwriter.Write(g, result, cfg.Filenames.OutputDir, cfg.Filenames.GPX); err != nil {
		log.Println(err)
		os.Exit(1)
	}

	log.Println("done")
}
