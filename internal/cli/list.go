package cli

import (
	"encoding/json"
	"fmt"

	"github.com/rcliao/agent-recall/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List memories",
		Run:   runList,
	}

	cmd.Flags().StringP("session", "s", "", "Filter by session")
	cmd.Flags().StringP("type", "t", "", "Filter by type")
	cmd.Flags().Bool("latest", false, "Only memories not yet superseded")
	cmd.Flags().IntP("limit", "l", 20, "Max results")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	session, _ := cmd.Flags().GetString("session")
	memType, _ := cmd.Flags().GetString("type")
	latest, _ := cmd.Flags().GetBool("latest")
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	memories, err := s.List(cmd.Context(), store.ListParams{
		Type:       memType,
		SessionID:  session,
		LatestOnly: latest,
		Limit:      limit,
	})
	if err != nil {
		exitErr("list", err)
	}

	if len(memories) == 0 {
		fmt.Println("[]")
		return
	}

	b, _ := json.MarshalIndent(memories, "", "  ")
	fmt.Println(string(b))
}
