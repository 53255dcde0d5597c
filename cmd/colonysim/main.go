// Command colonysim runs the bacterial colony simulator. Its CLI shape
// (flag parsing, signal handling, profiling hooks, periodic stats
// reporting) is grounded on 0x5844/physics-2d's main()/parseFlags().
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/0x5844/colonysim/internal/config"
	"github.com/0x5844/colonysim/internal/output"
	"github.com/0x5844/colonysim/internal/sim"
)

// Build information (set by build script).
var (
	Version   = "dev"
	BuildTime = "unknown"
)

type cliConfig struct {
	ConfigPath    string
	OutDir        string
	Workers       int
	Ticks         int
	Seed          int64
	Verbose       bool
	Quiet         bool
	StatsInterval float64
	ProfileCPU    string
	ProfileMem    string
}

func parseFlags() *cliConfig {
	c := &cliConfig{}

	flag.StringVar(&c.ConfigPath, "config", "", "path to INI configuration file")
	flag.StringVar(&c.OutDir, "out-dir", ".", "directory for simulation_output_part_NNN.csv files")
	flag.IntVar(&c.Workers, "workers", runtime.NumCPU(), "number of worker goroutines per phase")
	flag.IntVar(&c.Ticks, "ticks", 0, "override num_ticks from the config file (0 = use config)")
	flag.Int64Var(&c.Seed, "seed", 1, "root PRNG seed")
	flag.BoolVar(&c.Verbose, "verbose", false, "verbose logging")
	flag.BoolVar(&c.Quiet, "quiet", false, "minimal output")
	flag.Float64Var(&c.StatsInterval, "stats-interval", 2.0, "statistics reporting interval in seconds")
	flag.StringVar(&c.ProfileCPU, "profile-cpu", "", "CPU profile output file")
	flag.StringVar(&c.ProfileMem, "profile-mem", "", "memory profile output file")

	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "colonysim - individual-based bacterial colony simulator\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s --config colony.ini --out-dir ./runs\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --config colony.ini --ticks 200 --verbose\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nVersion: %s\n", Version)
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("colonysim version %s (%s)\n", Version, BuildTime)
		os.Exit(0)
	}

	if c.Workers < 1 {
		log.Fatalf("Invalid configuration: workers must be at least 1")
	}
	return c
}

func main() {
	cli := parseFlags()

	if cli.Quiet {
		log.SetOutput(io.Discard)
	} else if cli.Verbose {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	if cli.ProfileCPU != "" {
		f, err := os.Create(cli.ProfileCPU)
		if err != nil {
			log.Fatal("Could not create CPU profile:", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("Could not start CPU profile:", err)
		}
		defer pprof.StopCPUProfile()
	}

	var params config.Params
	if cli.ConfigPath != "" {
		var err error
		params, err = config.Load(cli.ConfigPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	} else {
		log.Printf("config: no --config given, using built-in defaults")
		params = config.Defaults()
	}
	if cli.Ticks > 0 {
		params.NumTicks = cli.Ticks
	}

	sink, err := output.New(cli.OutDir)
	if err != nil {
		log.Fatalf("Failed to open output sink: %v", err)
	}
	defer sink.Close()

	driver := sim.New(params, sink, cli.Seed, cli.Workers)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			if !cli.Quiet {
				log.Println("Shutting down gracefully...")
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	if !cli.Quiet {
		go reportStats(ctx, driver, cli.StatsInterval)
		log.Printf("Starting colonysim v%s (workers=%d, ticks=%d, seed=%d)", Version, cli.Workers, params.NumTicks, cli.Seed)
	}

	for t := 0; t < params.NumTicks; t++ {
		select {
		case <-ctx.Done():
			if !cli.Quiet {
				log.Printf("Simulation cancelled at tick %d", t)
			}
			return
		default:
		}
		if err := driver.Tick(ctx); err != nil {
			log.Fatalf("Simulation error at tick %d: %v", t, err)
		}
	}

	if cli.ProfileMem != "" {
		f, err := os.Create(cli.ProfileMem)
		if err != nil {
			log.Printf("Could not create memory profile: %v", err)
		} else {
			defer f.Close()
			runtime.GC()
			if err := pprof.WriteHeapProfile(f); err != nil {
				log.Printf("Could not write memory profile: %v", err)
			}
		}
	}

	if !cli.Quiet {
		log.Printf("Simulation completed: ticks=%d population=%d", driver.TickNumber(), driver.Population())
	}
}

func reportStats(ctx context.Context, driver *sim.Driver, interval float64) {
	ticker := time.NewTicker(time.Duration(interval * float64(time.Second)))
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			log.Printf("tick=%d population=%d mean_nutrient=%.3f", driver.TickNumber(), driver.Population(), driver.MeanConcentration())
		case <-ctx.Done():
			return
		}
	}
}
