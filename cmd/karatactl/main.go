// Command karatactl is the Karata terminal client: it dials a
// karatasrv, then hands control to the Bubbletea lobby/game model.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sixpeteunder/Karata/pkg/client"
	"github.com/sixpeteunder/Karata/pkg/logging"
	"github.com/sixpeteunder/Karata/pkg/ui"
)

func main() {
	var (
		serverAddr string
		playerID   string
		debugLevel string
	)
	flag.StringVar(&serverAddr, "server", "127.0.0.1:50051", "Karata server address")
	flag.StringVar(&playerID, "player", "", "Player ID to connect as (required)")
	flag.StringVar(&debugLevel, "debuglevel", "warn", "Logging level: trace, debug, info, warn, error")
	flag.Parse()

	if playerID == "" {
		fmt.Fprintln(os.Stderr, "-player is required")
		os.Exit(1)
	}

	logBackend, err := logging.New(logging.Config{DebugLevel: debugLevel})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logging: %v\n", err)
		os.Exit(1)
	}

	c, err := client.Dial(serverAddr, playerID, logBackend.Logger("CLIENT"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to %s: %v\n", serverAddr, err)
		os.Exit(1)
	}
	defer c.Close()

	ctx := context.Background()
	m := ui.New(ctx, c)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "ui error: %v\n", err)
		os.Exit(1)
	}
}
