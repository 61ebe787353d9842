// Package cli implements the agent-recall CLI commands.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rcliao/agent-recall/internal/store"
	"github.com/spf13/cobra"
)

var dbPath string

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "agent-recall",
	Short: "Persistent memory for AI agents",
	Long:  "A small persistent memory store for AI agents. Remember facts, recall them by relevance, link them, and let the stale ones fade. SQLite-backed, single binary.",
}

func init() {
	// Best-effort .env so AGENT_RECALL_DB can live next to the agent
	godotenv.Load()

	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $AGENT_RECALL_DB or ~/.agent-recall/memory.db)")
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("AGENT_RECALL_DB"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".agent-recall", "memory.db")
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(getDBPath())
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
