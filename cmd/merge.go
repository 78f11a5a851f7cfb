package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"datafusion/core/config"
	"datafusion/core/export"
	"datafusion/core/logger"
	"datafusion/core/merge"
	"datafusion/core/reader"
	"datafusion/core/table"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the merge command
	mergeMethod     string
	mergeKey        string
	mergeJoin       string
	mergeIgnoreCase bool
	mergeFuzzy      bool
	mergeThreshold  float64
	mergeDropDupes  bool
	mergeOutput     string
	mergeDelimiter  string
)

// mergeCmd merges files from disk without starting the server.
var mergeCmd = &cobra.Command{
	Use:   "merge [files...]",
	Short: "Merge tabular files from disk",
	Long: `Merge CSV, Excel and JSON files into a single table and write the result.

The output format follows the output file's extension (.csv, .xlsx, .json).

Examples:
  # Stack two files on top of each other
  merge north.csv south.csv -o combined.csv

  # Join on a key column
  merge orders.csv customers.xlsx --method join --key customer_id --join left -o joined.xlsx

  # Fuzzy column matching with duplicate cleanup
  merge a.csv b.csv --match-columns --ignore-case --drop-duplicates -o merged.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVar(&mergeMethod, "method", "", "Merge method: append, join, or smart (default from config)")
	mergeCmd.Flags().StringVar(&mergeKey, "key", "", "Join key column")
	mergeCmd.Flags().StringVar(&mergeJoin, "join", "", "Join type: outer, inner, or left")
	mergeCmd.Flags().BoolVar(&mergeIgnoreCase, "ignore-case", false, "Case-insensitive column matching")
	mergeCmd.Flags().BoolVar(&mergeFuzzy, "match-columns", false, "Fuzzy column matching")
	mergeCmd.Flags().Float64Var(&mergeThreshold, "threshold", 0, "Fuzzy match similarity threshold (0-1)")
	mergeCmd.Flags().BoolVar(&mergeDropDupes, "drop-duplicates", false, "Remove duplicate rows after merging")
	mergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "merged.csv", "Output file")
	mergeCmd.Flags().StringVar(&mergeDelimiter, "delimiter", "", "CSV delimiter override")

	RootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Read the input files
	r := reader.New(cfg.Reader)
	opts := reader.Options{}
	if mergeDelimiter != "" {
		opts.Delimiter = []rune(mergeDelimiter)[0]
	}

	files := table.NewFileSet()
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		t, err := r.Read(filepath.Base(path), data, opts)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if err := files.Add(filepath.Base(path), t); err != nil {
			return err
		}
		l.Info("File loaded",
			zap.String("file", path),
			zap.Int("rows", t.NumRows()),
			zap.Int("cols", t.NumCols()),
		)
	}

	// Build and run the merge
	reqSpec := merge.Spec{
		Method:         merge.Method(mergeMethod),
		Key:            mergeKey,
		Join:           merge.JoinType(mergeJoin),
		MatchColumns:   mergeFuzzy,
		MatchThreshold: mergeThreshold,
		DropDuplicates: mergeDropDupes,
	}
	// Leave IgnoreCase unset unless the flag was given, so the
	// configured default applies.
	if cmd.Flags().Changed("ignore-case") {
		reqSpec.IgnoreCase = &mergeIgnoreCase
	}
	spec := cfg.Merge.ApplyDefaults(reqSpec)

	result, err := merge.Merge(files, spec)
	if err != nil {
		return fmt.Errorf("merge failed: %w", err)
	}
	l.Info("Merge completed",
		zap.String("method", string(result.Method)),
		zap.Int("rows", result.Table.NumRows()),
		zap.Int("cols", result.Table.NumCols()),
		zap.Int("duplicates_dropped", result.DuplicatesDropped),
	)

	// Write the output in the format matching the extension
	format, err := outputFormat(mergeOutput)
	if err != nil {
		return err
	}
	out, err := os.Create(mergeOutput)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", mergeOutput, err)
	}
	defer out.Close()

	if err := export.New(cfg.Export).Write(out, format, result.Table); err != nil {
		return fmt.Errorf("failed to write %s: %w", mergeOutput, err)
	}
	l.Info("Output written", zap.String("file", mergeOutput))
	return nil
}

func outputFormat(path string) (export.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return export.FormatCSV, nil
	case ".xlsx":
		return export.FormatXLSX, nil
	case ".json":
		return export.FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported output extension %q", filepath.Ext(path))
	}
}
