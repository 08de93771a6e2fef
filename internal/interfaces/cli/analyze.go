package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/turtacn/PharmaLens/pkg/errors"
	types "github.com/turtacn/PharmaLens/pkg/types/compound"
)

// newAnalyzeCommand creates `pharmalens analyze <query>`.
func newAnalyzeCommand(opts *RootOptions, deps Dependencies) *cobra.Command {
	var (
		asName      bool
		asStructure bool
		nameHint    string
	)

	cmd := &cobra.Command{
		Use:   "analyze <query>",
		Short: "Run the full analysis pipeline for a compound name or structure notation",
		Long:  "Analyze resolves the compound, generates a dossier, validates the name\nagainst vocabulary and regulatory sources, and scores its descriptors.\nThe input kind is classified automatically unless --name or --structure\nforces one flow.",
		Example: `  pharmalens analyze aspirin
  pharmalens analyze --structure "CC(=O)OC1=CC=CC=C1C(=O)O"
  pharmalens analyze --name ibuprofen -o text`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if asName && asStructure {
				return apperrors.New(apperrors.ErrCodeBadRequest, "--name and --structure are mutually exclusive")
			}

			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			logger, err := newCLILogger(opts)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			svc, cleanup, err := deps.BuildService(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			var result *types.AnalysisResult
			switch {
			case asName:
				result, err = svc.AnalyzeByName(ctx, args[0])
			case asStructure:
				result, err = svc.AnalyzeByStructure(ctx, args[0], nameHint)
			default:
				result, err = svc.Analyze(ctx, args[0])
			}
			if err != nil {
				return err
			}

			if strings.ToLower(opts.Output) == "text" {
				printSummary(cmd, result)
				return nil
			}
			return printJSON(cmd, result)
		},
	}

	cmd.Flags().BoolVar(&asName, "name", false, "treat the input as a compound name")
	cmd.Flags().BoolVar(&asStructure, "structure", false, "treat the input as a structure notation")
	cmd.Flags().StringVar(&nameHint, "hint", "", "compound name hint for a structure input")

	return cmd
}

// printSummary renders the human-readable digest of an analysis.
func printSummary(cmd *cobra.Command, result *types.AnalysisResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Compound:    %s\n", result.ActiveCompound.Name)
	if result.ActiveCompound.DrugClass != "" {
		fmt.Fprintf(out, "Drug class:  %s\n", result.ActiveCompound.DrugClass)
	}
	if result.Structure != nil {
		fmt.Fprintf(out, "Formula:     %s\n", result.Structure.Formula)
	}
	fmt.Fprintf(out, "Confidence:  %.2f\n", result.Confidence)
	if result.Safety != nil {
		fmt.Fprintf(out, "Risk:        %s\n", result.Safety.OverallRisk)
	}
	fmt.Fprintf(out, "Request ID:  %s\n", result.RequestID)
	if len(result.Warnings) > 0 {
		fmt.Fprintln(out, "Warnings:")
		for _, w := range result.Warnings {
			fmt.Fprintf(out, "  - %s\n", w)
		}
	}
}
