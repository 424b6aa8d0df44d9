package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/gridresize/internal/config"
	"github.com/1broseidon/gridresize/internal/mcp"
	"github.com/1broseidon/gridresize/internal/platform"
	"github.com/1broseidon/gridresize/internal/tiling"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		if len(os.Args) > 2 && isHelp(os.Args[2]) {
			fmt.Fprintln(os.Stdout, "Usage: gridresize daemon")
			os.Exit(0)
		}
		if len(os.Args) > 2 {
			fmt.Fprintln(os.Stderr, "daemon takes no arguments")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Usage: gridresize daemon")
			os.Exit(2)
		}
		os.Exit(runDaemon())
	case "edges":
		os.Exit(runEdges(os.Args[2:]))
	case "tile":
		os.Exit(runTile(os.Args[2:]))
	case "undo":
		os.Exit(runUndo(os.Args[2:]))
	case "session":
		os.Exit(runSession(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func isHelp(arg string) bool {
	return arg == "help" || arg == "-h" || arg == "--help"
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gridresize <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the gridresize daemon (foreground)")
	fmt.Fprintln(w, "  edges               Show shared edges and dividers on the active display")
	fmt.Fprintln(w, "  tile <preset>       Tile the active display (grid, halves, thirds, quarters, columns, rows)")
	fmt.Fprintln(w, "  undo                Restore the layout from before the last tile (daemon)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  session start       Start a grid session in the running daemon")
	fmt.Fprintln(w, "  session stop        End the daemon's grid session")
	fmt.Fprintln(w, "  session toggle      Start or end the daemon's grid session")
	fmt.Fprintln(w, "  session status      Show whether a grid session is running")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'gridresize <command> --help' for command-specific options.")
}

// connect loads the config and opens the display it names.
func connect() (*config.Config, *platform.LinuxBackend, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Display != "" {
		os.Setenv("DISPLAY", cfg.Display)
	}
	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		return nil, nil, err
	}
	return cfg, backend, nil
}

func runEdges(args []string) int {
	fs := flag.NewFlagSet("edges", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print JSON (default when stdout is not a terminal)")
	all := fs.Bool("all", false, "Also list every pairwise shared edge")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: gridresize edges [--json] [--all]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show the dividers a grid session would offer on the active display.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	cfg, backend, err := connect()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer backend.Disconnect()

	report, err := mcp.Report(cfg, platform.NewDesktop(backend, int(cfg.MinWindowSize), nil), *all)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *asJSON || !stdoutIsTerminal() {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	fmt.Fprint(os.Stdout, renderEdgeReport(report))
	return 0
}

func runTile(args []string) int {
	fs := flag.NewFlagSet("tile", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: gridresize tile <preset>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Presets: grid, halves, thirds, quarters, columns, rows")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	preset, err := tiling.ParsePreset(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	// A running daemon owns undo history and any grid session; let it tile.
	if client, err := daemonClient(); err == nil && client.Ping() == nil {
		data, err := client.Tile(string(preset))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("tiled %d window(s) with %s\n", data.Placed, preset)
		return 0
	}

	cfg, backend, err := connect()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer backend.Disconnect()

	placed, err := tiling.NewTiler(backend, cfg.GapSize, nil).Tile(preset)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("tiled %d window(s) with %s\n", placed, preset)
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 || isHelp(args[0]) {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  gridresize config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  gridresize config print [--path PATH] [--defaults]")
		return 2
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/gridresize/config.yaml)")
	printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}

	load := func() (*config.LoadResult, error) {
		p := *path
		if p == "" {
			var err error
			if p, err = config.DefaultConfigPath(); err != nil {
				return nil, err
			}
		}
		return config.LoadFromPath(p)
	}

	switch args[0] {
	case "validate":
		if _, err := load(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		var cfg *config.Config
		if *printDefaults {
			cfg = config.DefaultConfig()
		} else {
			res, err := load()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			cfg = res.Config
			for _, f := range res.Files {
				fmt.Printf("# loaded: %s\n", f)
			}
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config command: %s\n", args[0])
		return 2
	}
}
