package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	apiURL := flag.String("api", "http://localhost:8080", "base URL of the fieldserve API")
	token := flag.String("token", os.Getenv("FIELDSERVE_TOKEN"), "bearer token (defaults to FIELDSERVE_TOKEN)")
	impersonateID := flag.String("impersonate-id", "", "view the board as this entity (admins only)")
	impersonateType := flag.String("impersonate-type", "", "entity type for -impersonate-id: worker, contractor, or customer")
	flag.Parse()

	if *token == "" {
		fmt.Fprintln(os.Stderr, "boardctl: a bearer token is required (-token or FIELDSERVE_TOKEN)")
		os.Exit(1)
	}
	if (*impersonateID == "") != (*impersonateType == "") {
		fmt.Fprintln(os.Stderr, "boardctl: -impersonate-id and -impersonate-type must be used together")
		os.Exit(1)
	}

	client := NewClient(*apiURL, *token, *impersonateID, *impersonateType)
	app := NewApp(client)

	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "boardctl: %v\n", err)
		os.Exit(1)
	}
}
