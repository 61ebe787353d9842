package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "summarize [content]",
		Short: "Summarize a session",
		Long:  "Store a long-term summary memory for a session, linked to every fact in it with a derives relation.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSummarize,
	}

	cmd.Flags().StringP("session", "s", "", "Session id (required)")
	cmd.MarkFlagRequired("session")

	RootCmd.AddCommand(cmd)
}

func runSummarize(cmd *cobra.Command, args []string) {
	session, _ := cmd.Flags().GetString("session")
	summary := strings.Join(args, " ")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	id, err := s.SummarizeSession(cmd.Context(), session, summary)
	if err != nil {
		exitErr("summarize", err)
	}

	fmt.Printf(`{"id":%q}`+"\n", id)
}
