// Command console is a terminal client for playing a session against a
// running API instance.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	baseURL := getEnv("API_BASE_URL", "http://localhost:8080")

	client := newAPIClient(baseURL, &http.Client{Timeout: 30 * time.Second})

	if err := client.health(); err != nil {
		fmt.Fprintf(os.Stderr, "Could not connect to API at %s: %v\nPlease ensure the API is running.\n", baseURL, err)
		os.Exit(1)
	}

	sess, err := client.createSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create session: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(newConsoleUI(client, sess), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
