package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		now := uint64(time.Now().UnixNano())
		return rand.New(rand.NewPCG(now, now>>17|1))
	}
	return rand.New(rand.NewPCG(seed, seed))
}

// openStoreOrMemory falls back to an in-memory store so the dashboard stays
// usable when the configured one cannot be opened.
func openStoreOrMemory(cfg StoreConfig, log *slog.Logger) KVStore {
	store, err := openStore(cfg.Backend, cfg.Path)
	if err != nil {
		log.Warn("store unavailable, using memory", "backend", cfg.Backend, "path", cfg.Path, "error", err)
		return newMemoryStore()
	}
	return store
}

func printReport(w io.Writer, s Snapshot) {
	fmt.Fprintln(w, "GodAI Genesis stats")
	fmt.Fprintln(w, strings.Repeat("-", 30))
	fmt.Fprintf(w, "%-12s | %s\n", "Stat", "Value")
	fmt.Fprintln(w, strings.Repeat("-", 30))
	for _, st := range allStats {
		fmt.Fprintf(w, "%-12s | %s\n", st.Label(), st.Format(s.Value(st)))
	}
	fmt.Fprintln(w, strings.Repeat("-", 30))
	mode := "manual"
	if s.AutoMode {
		mode = "auto"
	}
	fmt.Fprintf(w, "%-12s | %s\n", "Mode", mode)
}

// applySet handles -set key=value.
func applySet(stats *Stats, arg string) (string, error) {
	parts := strings.SplitN(arg, "=", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid format %q, use key=value", arg)
	}
	name, raw := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if strings.EqualFold(name, keyAutoMode) {
		on, err := strconv.ParseBool(raw)
		if err != nil {
			return "", fmt.Errorf("invalid autoMode value: %w", err)
		}
		if stats.AutoMode() != on {
			stats.ToggleAuto()
		}
		return fmt.Sprintf("%s=%t", keyAutoMode, on), nil
	}
	st, ok := statByKey(name)
	if !ok {
		return "", fmt.Errorf("unknown stat %q", name)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return "", fmt.Errorf("invalid number for %s: %w", st.Key(), err)
	}
	stats.SetValue(st, n)
	return fmt.Sprintf("%s=%d", st.Key(), stats.Get(st)), nil
}

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	storeFlag := flag.String("store", "", "store backend: json|sqlite|memory")
	file := flag.String("file", "", "path to the store file")
	debugFile := flag.String("debug", "", "write debug logs to this file")
	seed := flag.Uint64("seed", 0, "random seed for the simulation (0 = time based)")
	reportFlag := flag.Bool("report", false, "print current stats and exit")
	resetFlag := flag.Bool("reset", false, "reset stats to defaults and exit")
	setFlag := flag.String("set", "", "set a value and exit, e.g. energy=50 or autoMode=false")

	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	if err := applyEnv(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, "env:", err)
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "store":
			cfg.Store.Backend = *storeFlag
		case "file":
			cfg.Store.Path = *file
		case "debug":
			cfg.LogFile = *debugFile
		case "seed":
			cfg.Seed = *seed
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, logCloser, err := newLogger(cfg.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "debug log:", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	store := openStoreOrMemory(cfg.Store, log)
	defer store.Close()
	stats := LoadStats(store, log)

	switch {
	case *setFlag != "":
		out, err := applySet(stats, *setFlag)
		if err != nil {
			fmt.Fprintln(os.Stderr, "set:", err)
			os.Exit(1)
		}
		fmt.Println("Updated:", out)
		return
	case *resetFlag:
		stats.Reset()
		fmt.Println("Stats reset.")
		return
	case *reportFlag:
		printReport(os.Stdout, stats.Snapshot())
		return
	}

	m := newDashboardModel(stats, newRand(cfg.Seed), cfg.TickInterval, log)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running dashboard: %v\n", err)
		os.Exit(1)
	}
}
