package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rcliao/agent-recall/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "remember [content]",
		Short: "Save a new fact to memory",
		Long:  "Save a new fact or observation. Content can be a positional arg or piped via stdin.",
		Run:   runRemember,
	}

	cmd.Flags().StringP("citation", "c", "", "Provenance for the fact (file, URL, conversation)")
	cmd.Flags().StringP("meta", "m", "", "JSON metadata")
	cmd.Flags().Float64P("importance", "i", 1.0, "Importance; 5.0 or higher is long-term from creation")
	cmd.Flags().String("relation-to", "", "Existing memory id this one relates to")
	cmd.Flags().StringP("relation", "r", "", "Relation: updates, extends, derives")
	cmd.Flags().StringP("session", "s", "", "Session id")
	cmd.Flags().StringP("type", "t", "fact", "Memory type: fact, reasoning, summary")

	RootCmd.AddCommand(cmd)
}

func runRemember(cmd *cobra.Command, args []string) {
	citation, _ := cmd.Flags().GetString("citation")
	metaStr, _ := cmd.Flags().GetString("meta")
	importance, _ := cmd.Flags().GetFloat64("importance")
	relationTo, _ := cmd.Flags().GetString("relation-to")
	relation, _ := cmd.Flags().GetString("relation")
	session, _ := cmd.Flags().GetString("session")
	memType, _ := cmd.Flags().GetString("type")

	// Get content: positional arg first, then check stdin
	var content string
	if len(args) > 0 {
		content = strings.Join(args, " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			content = string(b)
		}
	}

	if strings.TrimSpace(content) == "" {
		exitErr("remember", fmt.Errorf("content is required (positional arg or stdin)"))
	}

	var meta map[string]any
	if metaStr != "" {
		if err := json.Unmarshal([]byte(metaStr), &meta); err != nil {
			exitErr("parse meta", err)
		}
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	id, err := s.Remember(cmd.Context(), store.RememberParams{
		Content:      strings.TrimSpace(content),
		Citation:     citation,
		Metadata:     meta,
		Importance:   importance,
		RelationTo:   relationTo,
		RelationType: relation,
		SessionID:    session,
		Type:         memType,
	})
	if err != nil {
		exitErr("remember", err)
	}

	fmt.Printf(`{"id":%q}`+"\n", id)
}
