package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "consolidate",
		Short: "Prune stale short-term memories",
		Long:  "Remove short-term memories not accessed within the TTL, along with their links. Long-term memories are never touched.",
		Run:   runConsolidate,
	}

	cmd.Flags().Int("ttl-days", 7, "Days a short-term memory survives without access")

	RootCmd.AddCommand(cmd)
}

func runConsolidate(cmd *cobra.Command, args []string) {
	ttlDays, _ := cmd.Flags().GetInt("ttl-days")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	pruned, err := s.Consolidate(cmd.Context(), ttlDays)
	if err != nil {
		exitErr("consolidate", err)
	}

	fmt.Printf("Consolidation complete. Pruned %d stale memories.\n", pruned)
}
