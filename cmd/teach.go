// Package cmd — teach command.
// Stores a conversion rule: a structural signature mapped to an HTML
// template. Later conversions render matching modules through the rule.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amehdaoui/coursepipe/core"
	"github.com/amehdaoui/coursepipe/core/signature"
	"github.com/amehdaoui/coursepipe/rules"
)

var (
	flagTeachRulesDB   string
	flagTeachTemplate  string
	flagTeachSignature string
	flagTeachProps     string
	flagTeachAddon     string
)

var teachCmd = &cobra.Command{
	Use:   "teach",
	Short: "Teach a conversion rule for an unrecognized module shape",
	Long: `Teach stores an HTML template for a structural signature. Signatures
appear in conversion output next to unrecognized modules, e.g.
"struct:Back|Front"; alternatively, pass the module's properties as a
JSON file and the signature is computed from its field names. Template
placeholders like {{Front}} are replaced with property values at
conversion time.

Examples:
  coursepipe teach --signature "struct:Back|Front" --template card.html --rules rules.db
  coursepipe teach --props module.json --template card.html --addon Flashcards_Custom --rules rules.db`,
	Args: cobra.NoArgs,
	RunE: runTeach,
}

func init() {
	rootCmd.AddCommand(teachCmd)

	teachCmd.Flags().StringVar(&flagTeachTemplate, "template", "", "HTML template file (required)")
	teachCmd.Flags().StringVar(&flagTeachSignature, "signature", "", "Structural signature to teach")
	teachCmd.Flags().StringVar(&flagTeachProps, "props", "", "JSON property file to compute the signature from")
	teachCmd.Flags().StringVar(&flagTeachAddon, "addon", "", "Also match modules by this addon identifier")
	teachCmd.Flags().StringVar(&flagTeachRulesDB, "rules", "rules.db", "Conversion rules database")
}

func runTeach(cmd *cobra.Command, args []string) error {
	if flagTeachTemplate == "" {
		return fmt.Errorf("--template is required")
	}
	sig, err := teachSignature()
	if err != nil {
		return err
	}

	template, err := os.ReadFile(flagTeachTemplate)
	if err != nil {
		return fmt.Errorf("reading template: %w", err)
	}

	store, err := rules.OpenStore(flagTeachRulesDB)
	if err != nil {
		return fmt.Errorf("opening rules database: %w", err)
	}
	defer store.Close()

	rule, err := store.Upsert(context.Background(), sig, flagTeachAddon, string(template))
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "✓ Taught: %s\n", rule.Signature)
	return nil
}

// teachSignature resolves the signature to teach from --signature or
// --props (exactly one must be given).
func teachSignature() (string, error) {
	sig := strings.TrimSpace(flagTeachSignature)
	switch {
	case sig != "" && flagTeachProps != "":
		return "", fmt.Errorf("--signature and --props are mutually exclusive")
	case sig != "":
		return sig, nil
	case flagTeachProps != "":
		data, err := os.ReadFile(flagTeachProps)
		if err != nil {
			return "", fmt.Errorf("reading properties: %w", err)
		}
		var props core.Properties
		if err := json.Unmarshal(data, &props); err != nil {
			return "", fmt.Errorf("parsing properties: %w", err)
		}
		return signature.Struct(props), nil
	default:
		return "", fmt.Errorf("one of --signature or --props is required")
	}
}
