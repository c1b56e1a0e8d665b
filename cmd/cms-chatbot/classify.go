package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AdityaMalani1302/cms/internal/chatbot"
	"github.com/AdityaMalani1302/cms/internal/config"
	"github.com/AdityaMalani1302/cms/internal/nlp"
	"github.com/AdityaMalani1302/cms/internal/responder"
	"github.com/AdityaMalani1302/cms/internal/store"
)

func newClassifyCmd() *cobra.Command {
	var explain bool
	cmd := &cobra.Command{
		Use:   "classify [message]",
		Short: "Show how a message is preprocessed, classified and what entities it carries",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromViper(v)
			rules, err := nlp.LoadRuleSet(cfg.RulesFile)
			if err != nil {
				return err
			}
			engine := chatbot.NewEngine(rules, responder.New(nil, nil), store.NewMemoryStore(), zap.NewNop())
			a := engine.Analyze(strings.Join(args, " "))
			if !explain {
				a.Scores = nil
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(a); err != nil {
				return fmt.Errorf("failed to write analysis: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&explain, "explain", false, "include the per-intent score breakdown")
	return cmd
}
