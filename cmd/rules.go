// Package cmd — rules command.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amehdaoui/coursepipe/rules"
)

var flagListRulesDB string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List taught conversion rules",
	Args:  cobra.NoArgs,
	RunE:  runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)

	rulesCmd.Flags().StringVar(&flagListRulesDB, "rules", "rules.db", "Conversion rules database")
}

func runRules(cmd *cobra.Command, args []string) error {
	store, err := rules.OpenStore(flagListRulesDB)
	if err != nil {
		return fmt.Errorf("opening rules database: %w", err)
	}
	defer store.Close()

	list, err := store.List(context.Background())
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(os.Stdout, "No rules taught yet")
		return nil
	}

	for _, r := range list {
		line := r.Signature
		if r.AddonID != "" {
			line += " (addon: " + r.AddonID + ")"
		}
		fmt.Fprintf(os.Stdout, "%s  taught %s\n", line, r.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
