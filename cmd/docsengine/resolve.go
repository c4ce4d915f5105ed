package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"docsengine/internal/engine"
	"docsengine/internal/errinfo"
	"docsengine/internal/locate"
)

var (
	resolveDocument   string
	resolveTab        string
	resolveText       string
	resolveOccurrence int
	resolveStart      int64
	resolveEnd        int64
	resolveIndex      int64
	resolveTableStart int64
	resolveRow        int
	resolveCol        int
	resolveHeading    string
	resolveJSON       bool
	logLevel          string
)

var (
	labelColor = color.New(color.FgCyan)
	rangeColor = color.New(color.FgGreen, color.Bold)
	errorColor = color.New(color.FgRed, color.Bold)
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve one target and print its index range",
	Long: `Fetches the document once and resolves exactly one target. Pick the
target with --text, --start/--end, --index, --table-start/--row/--col or
--heading.`,
	Example: `docsengine resolve -d DOC_ID --text "Test" --occurrence 3
docsengine resolve -d DOC_ID --table-start 42 --row 1 --col 0
docsengine resolve -d DOC_ID --heading "Summary" --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := targetFromFlags(cmd)
		if err != nil {
			return err
		}
		eng, closeFn, err := newCLIEngine()
		if err != nil {
			return err
		}
		defer closeFn()
		params, err := json.Marshal(map[string]any{
			"document_id": resolveDocument,
			"tab_id":      resolveTab,
			"target":      target,
		})
		if err != nil {
			return err
		}
		out, errInfo := eng.DocsResolveTarget(cmd.Context(), params)
		if errInfo != nil {
			return reportError(cmd.ErrOrStderr(), errInfo)
		}
		if resolveJSON {
			return writeJSON(cmd.OutOrStdout(), out)
		}
		result, ok := out.(engine.ResolveResult)
		if !ok {
			return fmt.Errorf("unexpected resolve result %T", out)
		}
		printResolution(cmd.OutOrStdout(), result.Resolution, result.Content)
		return nil
	},
}

var textCmd = &cobra.Command{
	Use:   "text",
	Short: "Print the visible text of a document",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, closeFn, err := newCLIEngine()
		if err != nil {
			return err
		}
		defer closeFn()
		params, err := json.Marshal(map[string]any{
			"document_id":      resolveDocument,
			"tab_id":           resolveTab,
			"include_segments": resolveJSON,
		})
		if err != nil {
			return err
		}
		out, errInfo := eng.DocsGetText(cmd.Context(), params)
		if errInfo != nil {
			return reportError(cmd.ErrOrStderr(), errInfo)
		}
		if resolveJSON {
			return writeJSON(cmd.OutOrStdout(), out)
		}
		result, ok := out.(engine.TextResult)
		if !ok {
			return fmt.Errorf("unexpected text result %T", out)
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), result.Text)
		return err
	},
}

func newCLIEngine() (*engine.Engine, func() error, error) {
	env, err := setup(false, logLevel)
	if err != nil {
		return nil, nil, err
	}
	eng, err := engine.New(engine.WithLogger(env.logger), engine.WithDataDir(env.dataDir))
	if err != nil {
		env.close()
		return nil, nil, err
	}
	return eng, env.close, nil
}

func targetFromFlags(cmd *cobra.Command) (map[string]any, error) {
	changed := cmd.Flags().Changed
	var targets []map[string]any
	if changed("text") {
		targets = append(targets, map[string]any{"type": "text", "text": resolveText, "occurrence": resolveOccurrence})
	}
	if changed("start") || changed("end") {
		targets = append(targets, map[string]any{"type": "range", "start": resolveStart, "end": resolveEnd})
	}
	if changed("index") {
		targets = append(targets, map[string]any{"type": "position", "index": resolveIndex})
	}
	if changed("table-start") {
		targets = append(targets, map[string]any{"type": "table_cell", "table_start": resolveTableStart, "row": resolveRow, "col": resolveCol})
	}
	if changed("heading") {
		targets = append(targets, map[string]any{"type": "section", "heading": resolveHeading})
	}
	switch len(targets) {
	case 0:
		return nil, errors.New("no target given: use --text, --start/--end, --index, --table-start or --heading")
	case 1:
		return targets[0], nil
	default:
		return nil, errors.New("only one target may be given")
	}
}

func printResolution(w io.Writer, res locate.Resolution, content string) {
	r := res.Range
	labelColor.Fprint(w, "range    ")
	rangeColor.Fprintf(w, "[%d, %d)", r.Start, r.End)
	fmt.Fprintf(w, " %s\n", r.Kind)
	if r.BlockEnd != r.End {
		labelColor.Fprint(w, "block    ")
		fmt.Fprintf(w, "[%d, %d)\n", r.Start, r.BlockEnd)
	}
	if res.Cell != nil {
		labelColor.Fprint(w, "cell     ")
		fmt.Fprintf(w, "[%d, %d)", res.Cell.Cell.Start, res.Cell.Cell.End)
		if res.Cell.Empty() {
			fmt.Fprint(w, " empty")
		}
		fmt.Fprintln(w)
	}
	if res.Section != nil {
		labelColor.Fprint(w, "section  ")
		fmt.Fprintf(w, "level %d, ends at %d\n", res.Section.Level, res.Section.SectionEnd)
	}
	labelColor.Fprint(w, "content  ")
	fmt.Fprintln(w, strconv.Quote(content))
}

func reportError(w io.Writer, info *errinfo.ErrorInfo) error {
	errorColor.Fprint(w, info.ErrorCode)
	if info.Phase != "" {
		fmt.Fprintf(w, " (%s)", info.Phase)
	}
	fmt.Fprintln(w)
	if info.Detail != "" {
		fmt.Fprintln(w, "  "+info.Detail)
	}
	if info.Retryable {
		fmt.Fprintln(w, "  retryable")
	}
	return fmt.Errorf("%s failed", info.ErrorCode)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	for _, c := range []*cobra.Command{resolveCmd, textCmd} {
		c.Flags().StringVarP(&resolveDocument, "document", "d", "", "Document id")
		c.Flags().StringVar(&resolveTab, "tab", "", "Tab id or title (default: settings default_tab_id, then the first tab)")
		c.Flags().BoolVar(&resolveJSON, "json", false, "Print the raw result as JSON")
		c.Flags().StringVar(&logLevel, "log-level", "warn", "Log level written to stderr")
		_ = c.MarkFlagRequired("document")
	}
	resolveCmd.Flags().StringVar(&resolveText, "text", "", "Case-sensitive text to find")
	resolveCmd.Flags().IntVar(&resolveOccurrence, "occurrence", 1, "1-based occurrence of --text")
	resolveCmd.Flags().Int64Var(&resolveStart, "start", 0, "Explicit range start index")
	resolveCmd.Flags().Int64Var(&resolveEnd, "end", 0, "Explicit range end index (exclusive)")
	resolveCmd.Flags().Int64Var(&resolveIndex, "index", 0, "Index whose containing paragraph is the target")
	resolveCmd.Flags().Int64Var(&resolveTableStart, "table-start", 0, "Start index of the table")
	resolveCmd.Flags().IntVar(&resolveRow, "row", 0, "Zero-based table row")
	resolveCmd.Flags().IntVar(&resolveCol, "col", 0, "Zero-based table column")
	resolveCmd.Flags().StringVar(&resolveHeading, "heading", "", "Heading text of the section")
}
