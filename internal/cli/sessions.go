package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List sessions with memory counts",
		Run:   runSessions,
	}

	RootCmd.AddCommand(cmd)
}

func runSessions(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	sessions, err := s.Sessions(cmd.Context())
	if err != nil {
		exitErr("sessions", err)
	}

	b, _ := json.MarshalIndent(sessions, "", "  ")
	fmt.Println(string(b))
}
