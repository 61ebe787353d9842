package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get [memory-id]",
		Short: "Retrieve a memory by id",
		Long:  "Direct lookup by id. Unlike recall, this does not touch access counters.",
		Args:  cobra.ExactArgs(1),
		Run:   runGet,
	}

	RootCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	m, err := s.Get(cmd.Context(), args[0])
	if err != nil {
		exitErr("get", err)
	}

	b, _ := json.MarshalIndent(m, "", "  ")
	fmt.Println(string(b))
}
