// Command gridtui scrolls a grid scenario in the terminal.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"lazygrid/pkg/scenario"
)

func main() {
	os.Exit(run())
}

func run() int {
	logPath := flag.String("log", "", "write grid diagnostics to this file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: gridtui [flags] <scenario.toml>\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		return 2
	}

	sc, err := scenario.Load(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "gridtui: %v\n", err)
		return 1
	}

	var opts []scenario.Option
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "gridtui: %v\n", err)
			return 1
		}
		defer f.Close()
		opts = append(opts, scenario.WithLogger(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}

	session, err := scenario.NewSession(sc, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gridtui: %v\n", err)
		return 1
	}

	p := tea.NewProgram(newModel(session), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "gridtui: %v\n", err)
		return 1
	}
	return 0
}
