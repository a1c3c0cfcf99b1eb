// Package main provides the entry point for vr4300sim, a cycle-stepping
// driver for the VR4300 instruction-execution pipeline.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cen64sim/vr4300/bus"
	"github.com/cen64sim/vr4300/config"
	"github.com/cen64sim/vr4300/decode"
	"github.com/cen64sim/vr4300/loader"
	"github.com/cen64sim/vr4300/opcodes"
	"github.com/cen64sim/vr4300/segment"
	"github.com/cen64sim/vr4300/vr4300"
)

var (
	configPath = flag.String("config", "", "Path to a JSON configuration file")
	cycles     = flag.Uint64("cycles", 1_000_000, "Maximum number of pipeline ticks to run")
	cached     = flag.Bool("cached", false, "Route data accesses through the Akita-backed L1 cache model")
	memSize    = flag.Int("mem", 8*1024*1024, "Backing store size in bytes")
	verbose    = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: vr4300sim [options] <image.bin>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	imagePath := flag.Arg(0)
	img, err := loader.Load(imagePath, cfg.DefaultSegment.Start, loader.DefaultEntryOffset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading image: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Loaded: %s (%d bytes)\n", imagePath, len(img.Data))
		fmt.Printf("Entry point: %#x\n", img.EntryPoint)
	}

	flatBus := bus.NewFlatBus(*memSize)
	img.WriteTo(flatBus)

	var busImpl bus.Bus = flatBus
	var cachedBus *bus.CachedBus
	if *cached {
		cachedBus = bus.NewCachedBus(bus.DefaultL1DConfig(), flatBus)
		busImpl = cachedAdapter{cachedBus}
	}

	defaultSeg := &segment.Segment{
		Start:  cfg.DefaultSegment.Start,
		Length: cfg.DefaultSegment.Length,
		Offset: cfg.DefaultSegment.Offset,
		Cached: cfg.DefaultSegment.Cached,
	}
	segMap := segment.NewMap()
	segMap.Add(defaultSeg)

	cpu := vr4300.New(busImpl, segMap, decode.NewMIPSIII(), opcodes.Table())
	cpu.Init(defaultSeg)
	cpu.ExceptionHistoryThreshold = cfg.ExceptionHistoryThreshold
	cpu.ICRF.PC = img.EntryPoint

	var ticks uint64
	for ticks = 0; ticks < *cycles; ticks++ {
		cpu.Cycle()
	}

	if *verbose {
		reads, writes := flatBus.Stats()
		fmt.Printf("Ticks run: %d\n", ticks)
		fmt.Printf("Bus reads: %d, writes: %d\n", reads, writes)
		if cachedBus != nil {
			_, _, hits, misses := cachedBus.Stats()
			fmt.Printf("Cache hits: %d, misses: %d\n", hits, misses)
		}
	}
}

// cachedAdapter satisfies bus.Bus on top of bus.CachedBus's Access method,
// which reports per-access latency/hit information the pipeline's Bus
// contract has no room for.
type cachedAdapter struct {
	c *bus.CachedBus
}

func (a cachedAdapter) ReadWord(address uint64, size int) (uint64, error) {
	stats := a.c.Access(address, size, false, 0)
	return stats.Data, nil
}

func (a cachedAdapter) WriteWord(address uint64, word uint64, dqm uint64) error {
	a.c.Access(address, 8, true, word)
	return nil
}
