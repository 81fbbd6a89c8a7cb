// Package main provides the CLI entry point for xlstream-go.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/ukaji3/xlstream-go/pkg/xlstream"
	"github.com/ukaji3/xlstream-go/pkg/xlstream/output"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	outputPath   string
	pretty       bool
	verbose      bool
	sheetName    string
	sheetIndex   int
	valuesOnly   bool
	noFormatting bool
	formatsPath  string
	resolvePaths bool
	limit        int
	dateFormat   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "xlstream",
		Short: "Stream rows out of Excel workbooks",
		Long: `xlstream-go reads .xlsx workbooks row by row and writes the rows
as newline-delimited JSON.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.PersistentFlags().BoolVar(&resolvePaths, "resolve-paths", false, "Locate sheets through workbook relationships")

	sheetsCmd := &cobra.Command{
		Use:   "sheets [input.xlsx]",
		Short: "List the sheets of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE:  runSheets,
	}
	sheetsCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	rowsCmd := &cobra.Command{
		Use:   "rows [input.xlsx]",
		Short: "Stream the rows of one or all sheets as NDJSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runRows,
	}
	rowsCmd.Flags().StringVar(&sheetName, "sheet", "", "Sheet name (default: all sheets)")
	rowsCmd.Flags().IntVar(&sheetIndex, "index", 0, "1-based sheet position, used when --sheet is empty")
	rowsCmd.Flags().BoolVar(&valuesOnly, "values", false, "Write bare cell values instead of full cells")
	rowsCmd.Flags().BoolVar(&noFormatting, "no-formatting", false, "Skip font, fill and border attributes")
	rowsCmd.Flags().StringVar(&formatsPath, "formats", "", "YAML file mapping format codes to value types")
	rowsCmd.Flags().IntVar(&limit, "limit", 0, "Stop after this many rows per sheet (0: no limit)")
	rowsCmd.Flags().StringVar(&dateFormat, "date-format", "", `Date pattern such as "YYYY-MM-DD hh:mm" (default: RFC 3339)`)

	stringsCmd := &cobra.Command{
		Use:   "strings [input.xlsx]",
		Short: "Print the shared-string table",
		Args:  cobra.ExactArgs(1),
		RunE:  runStrings,
	}
	stringsCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	linksCmd := &cobra.Command{
		Use:   "links [input.xlsx]",
		Short: "List external workbook links",
		Args:  cobra.ExactArgs(1),
		RunE:  runLinks,
	}
	linksCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	rootCmd.AddCommand(sheetsCmd, rowsCmd, stringsCmd, linksCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openWorkbook validates the input and opens it with the flag-derived options.
func openWorkbook(inputPath string, logger *zap.Logger) (*xlstream.Workbook, error) {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s", inputPath)
	}

	formatting := !noFormatting
	opts := xlstream.Options{
		IncludeFormatting: &formatting,
		ResolveSheetPaths: &resolvePaths,
		Logger:            logger,
	}
	if formatsPath != "" {
		overrides, err := xlstream.LoadFormatOverrides(formatsPath)
		if err != nil {
			return nil, err
		}
		opts.FormatOverrides = overrides
	}

	wb, err := xlstream.Open(inputPath, opts)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return wb, nil
}

func newLogger() (*zap.Logger, func(), error) {
	if verbose {
		return xlstream.SetupLogger("xlstream", zapcore.DebugLevel, true)
	}
	return xlstream.SetupLogger("xlstream", zapcore.WarnLevel, false)
}

// outputWriter returns the destination for command output and its closer.
func outputWriter() (io.Writer, func() error, error) {
	if outputPath == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output: %w", err)
	}
	return f, f.Close, nil
}

// writeJSON serializes v to the command output.
func writeJSON(v any) error {
	data, err := output.ToJSON(v, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	w, closeOut, err := outputWriter()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		_ = closeOut()
		return fmt.Errorf("failed to write output: %w", err)
	}
	return closeOut()
}

func runSheets(cmd *cobra.Command, args []string) error {
	logger, sync, err := newLogger()
	if err != nil {
		return err
	}
	defer sync()

	wb, err := openWorkbook(args[0], logger)
	if err != nil {
		return err
	}
	defer wb.Close()

	sheets, err := wb.SheetList()
	if err != nil {
		return err
	}
	return writeJSON(sheets)
}

func runStrings(cmd *cobra.Command, args []string) error {
	logger, sync, err := newLogger()
	if err != nil {
		return err
	}
	defer sync()

	wb, err := openWorkbook(args[0], logger)
	if err != nil {
		return err
	}
	defer wb.Close()

	sst, err := wb.SharedStrings()
	if err != nil {
		return err
	}
	return writeJSON(sst)
}

func runLinks(cmd *cobra.Command, args []string) error {
	logger, sync, err := newLogger()
	if err != nil {
		return err
	}
	defer sync()

	wb, err := openWorkbook(args[0], logger)
	if err != nil {
		return err
	}
	defer wb.Close()

	links, err := wb.ExternalLinks()
	if err != nil {
		return err
	}
	return writeJSON(links)
}

func runRows(cmd *cobra.Command, args []string) error {
	logger, sync, err := newLogger()
	if err != nil {
		return err
	}
	defer sync()

	wb, err := openWorkbook(args[0], logger)
	if err != nil {
		return err
	}
	defer wb.Close()

	sheets, err := selectSheets(wb)
	if err != nil {
		return err
	}

	w, closeOut, err := outputWriter()
	if err != nil {
		return err
	}
	rw := output.NewRowWriter(w, valuesOnly)
	rw.SetDateFormat(dateFormat)
	for _, sheet := range sheets {
		if err := streamSheet(rw, sheet); err != nil {
			_ = rw.Flush()
			_ = closeOut()
			return err
		}
	}
	if err := rw.Flush(); err != nil {
		_ = closeOut()
		return fmt.Errorf("failed to write output: %w", err)
	}
	logger.Debug("rows written", zap.Int("rows", rw.Written()))
	return closeOut()
}

func selectSheets(wb *xlstream.Workbook) ([]*xlstream.Sheet, error) {
	if sheetName != "" {
		s, err := wb.Sheet(sheetName)
		if err != nil {
			return nil, err
		}
		return []*xlstream.Sheet{s}, nil
	}
	sheets, err := wb.Sheets()
	if err != nil {
		return nil, err
	}
	if sheetIndex == 0 {
		return sheets, nil
	}
	if sheetIndex < 1 || sheetIndex > len(sheets) {
		return nil, fmt.Errorf("sheet index %d out of range (workbook has %d sheets)", sheetIndex, len(sheets))
	}
	return sheets[sheetIndex-1 : sheetIndex], nil
}

func streamSheet(rw *output.RowWriter, sheet *xlstream.Sheet) error {
	rows, err := sheet.Rows()
	if err != nil {
		return err
	}
	n := 0
	for row, err := range rows.All() {
		if err != nil {
			return err
		}
		n++
		if err := rw.WriteRow(sheet.Name(), n, row); err != nil {
			return err
		}
		if limit > 0 && n >= limit {
			break
		}
	}
	return nil
}
