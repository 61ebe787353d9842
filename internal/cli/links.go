package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "links [memory-id]",
		Short: "List relationships for a memory",
		Long:  "List every link where the memory is source or target.",
		Args:  cobra.ExactArgs(1),
		Run:   runLinks,
	}

	RootCmd.AddCommand(cmd)
}

func runLinks(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	links, err := s.ListRelationships(cmd.Context(), args[0])
	if err != nil {
		exitErr("links", err)
	}

	b, _ := json.MarshalIndent(links, "", "  ")
	fmt.Println(string(b))
}
