package main

import (
	"fmt"
	"io"
	"os"

	"github.com/1broseidon/gridresize/internal/ipc"
	"github.com/1broseidon/gridresize/internal/runtimepath"
)

func daemonClient() (*ipc.Client, error) {
	socket, err := runtimepath.SocketPath()
	if err != nil {
		return nil, err
	}
	return ipc.NewClient(socket), nil
}

func printSessionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gridresize session <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  start     Start a grid session on the active display")
	fmt.Fprintln(w, "  stop      End the running grid session")
	fmt.Fprintln(w, "  toggle    Start or end the grid session")
	fmt.Fprintln(w, "  status    Show the daemon's session state")
}

func runSession(args []string) int {
	if len(args) != 1 {
		printSessionUsage(os.Stderr)
		return 2
	}
	if isHelp(args[0]) {
		printSessionUsage(os.Stdout)
		return 0
	}

	client, err := daemonClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	var status *ipc.StatusData
	switch args[0] {
	case "start":
		status, err = client.StartSession()
	case "stop":
		status, err = client.StopSession()
	case "toggle":
		status, err = client.ToggleSession()
	case "status":
		status, err = client.GetStatus()
	default:
		fmt.Fprintf(os.Stderr, "Unknown session command: %s\n\n", args[0])
		printSessionUsage(os.Stderr)
		return 2
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(formatStatus(status))
	return 0
}

func runUndo(args []string) int {
	if len(args) > 0 {
		if isHelp(args[0]) {
			fmt.Fprintln(os.Stdout, "Usage: gridresize undo")
			return 0
		}
		fmt.Fprintln(os.Stderr, "undo takes no arguments")
		return 2
	}
	client, err := daemonClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := client.Undo(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("layout restored")
	return 0
}

func formatStatus(s *ipc.StatusData) string {
	if !s.SessionActive {
		return fmt.Sprintf("session: idle (daemon up %ds)", s.UptimeSeconds)
	}
	return fmt.Sprintf("session: active %s, %d divider(s) (daemon up %ds)", s.SessionID, s.Dividers, s.UptimeSeconds)
}
