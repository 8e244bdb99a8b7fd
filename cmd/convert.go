// Package cmd — convert command.
// This is the main command that orchestrates the pipeline:
// open package → resolve pages → extract → export → render → write.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amehdaoui/coursepipe/core"
	"github.com/amehdaoui/coursepipe/core/assets"
	"github.com/amehdaoui/coursepipe/core/export"
	"github.com/amehdaoui/coursepipe/core/output"
	"github.com/amehdaoui/coursepipe/core/pipeline"
	"github.com/amehdaoui/coursepipe/core/render"
	"github.com/amehdaoui/coursepipe/rules"
)

// Flag variables.
var (
	flagJSON      bool
	flagExchange  bool
	flagMarkdown  bool
	flagPDF       bool
	flagPage      int
	flagOutputDir string
	flagRulesDB   string
	flagAssetsDir string
	flagStrict    bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <package.zip>",
	Short: "Convert a content package to the specified output format",
	Long: `Convert opens a zipped content package, resolves its pages, extracts
each page's activities, and renders the specified output format.

Examples:
  coursepipe convert lesson.zip --json
  coursepipe convert lesson.zip --markdown --output_dir ./out
  coursepipe convert lesson.zip --json --rules rules.db --assets_dir ./out/assets`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	// Output format flags (mutually exclusive).
	convertCmd.Flags().BoolVar(&flagJSON, "json", false, "Output structured JSON")
	convertCmd.Flags().BoolVar(&flagExchange, "exchange", false, "Output standalone exchange documents")
	convertCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Output Markdown review sheets")
	convertCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Output PDF conversion reports")

	convertCmd.Flags().IntVar(&flagPage, "page", 0, "Convert only the Nth resolved page (1-based; default: all)")
	convertCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
	convertCmd.Flags().StringVar(&flagRulesDB, "rules", "", "Conversion rules database (enables learned shapes)")
	convertCmd.Flags().StringVar(&flagAssetsDir, "assets_dir", "", "Copy page assets into this directory")
	convertCmd.Flags().BoolVar(&flagStrict, "strict", false, "Fail on pages that do not validate")
}

func runConvert(cmd *cobra.Command, args []string) error {
	pkgPath := args[0]

	renderer, err := selectRenderer()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(pkgPath)
	if err != nil {
		return fmt.Errorf("reading package: %w", err)
	}

	writer, err := output.New(flagOutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	var opts []pipeline.Option
	if flagRulesDB != "" {
		store, err := rules.OpenStore(flagRulesDB)
		if err != nil {
			return fmt.Errorf("opening rules database: %w", err)
		}
		defer store.Close()
		opts = append(opts, pipeline.WithRuleStore(store))
	}
	if flagAssetsDir != "" {
		uploader, err := assets.NewDirUploader(flagAssetsDir)
		if err != nil {
			return err
		}
		opts = append(opts, pipeline.WithUploader(uploader))
	}

	ctx := context.Background()
	results, err := pipeline.New(opts...).ConvertPackage(ctx, data)
	if err != nil {
		return err
	}

	if flagPage > 0 {
		if flagPage > len(results) {
			return fmt.Errorf("page %d requested but package has %d pages", flagPage, len(results))
		}
		results = results[flagPage-1 : flagPage]
	}

	fmt.Fprintf(os.Stdout, "Found %d pages to process\n", len(results))

	var errCount int
	for i, res := range results {
		fmt.Fprintf(os.Stdout, "[%d/%d] Processing %s\n", i+1, len(results), res.Page.Name)

		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "  ✗ Error: %v\n", res.Err)
			errCount++
			continue
		}
		if err := validateResult(res); err != nil {
			if flagStrict {
				return err
			}
			fmt.Fprintf(os.Stderr, "  ! Validation: %v\n", err)
		}

		rendered, err := renderer.Render(res.Converted, res.Doc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  ✗ Render error: %v\n", err)
			errCount++
			continue
		}

		path, err := writer.WritePage(res.Page, rendered, renderer.Extension())
		if err != nil {
			fmt.Fprintf(os.Stderr, "  ✗ Write error: %v\n", err)
			errCount++
			continue
		}
		fmt.Fprintf(os.Stdout, "  ✓ Written: %s\n", path)
	}

	if errCount > 0 {
		fmt.Fprintf(os.Stderr, "\n%d/%d pages failed\n", errCount, len(results))
	}
	return nil
}

func validateResult(res pipeline.PageResult) error {
	if err := export.ValidatePage(res.Converted); err != nil {
		return err
	}
	return export.Validate(res.Doc)
}

// selectRenderer creates the appropriate Renderer based on flags.
func selectRenderer() (core.Renderer, error) {
	formatCount := 0
	for _, f := range []bool{flagJSON, flagExchange, flagMarkdown, flagPDF} {
		if f {
			formatCount++
		}
	}
	if formatCount == 0 {
		return nil, fmt.Errorf("exactly one output format is required: --json, --exchange, --markdown, or --pdf")
	}
	if formatCount > 1 {
		return nil, fmt.Errorf("only one output format allowed per run (got %d)", formatCount)
	}

	switch {
	case flagExchange:
		return render.NewExchangeRenderer(), nil
	case flagMarkdown:
		return render.NewMarkdownRenderer(), nil
	case flagPDF:
		return render.NewPDFRenderer(), nil
	default:
		return render.NewJSONRenderer(), nil
	}
}
