package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"itemshelf/internal/tui"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "base URL of the itemshelf API")
	flag.Parse()

	client := tui.NewClient(*server)
	p := tea.NewProgram(tui.NewModel(client), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
