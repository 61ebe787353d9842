package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "recall [query]",
		Short: "Recall relevant memories",
		Long:  "Recall up to five memories ranked for the query. Recall counts as access: it bumps counters and can promote a memory to long-term.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runRecall,
	}

	cmd.Flags().StringP("session", "s", "", "Bias ranking toward this session")

	RootCmd.AddCommand(cmd)
}

func runRecall(cmd *cobra.Command, args []string) {
	session, _ := cmd.Flags().GetString("session")
	query := strings.Join(args, " ")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	results, err := s.Recall(cmd.Context(), query, session)
	if err != nil {
		exitErr("recall", err)
	}

	if len(results) == 0 {
		fmt.Println("[]")
		return
	}

	b, _ := json.MarshalIndent(results, "", "  ")
	fmt.Println(string(b))
}
