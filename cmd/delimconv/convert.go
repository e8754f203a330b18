package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/oleg578/delimconv"
	"github.com/oleg578/delimconv/pkg/config"
	"github.com/oleg578/delimconv/pkg/logger"
)

type convertFlags struct {
	from          string
	fromCustom    string
	to            string
	toCustom      string
	encoding      string
	output        string
	dedupe        bool
	stripNewlines bool
	quote         string
	wrapOpen      string
	wrapClose     string
	interval      int
	crlf          bool
	swap          bool
}

func newConvertCmd() *cobra.Command {
	var f convertFlags

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Re-serialize delimited text with another delimiter",
		Long: `Reads delimited text from file (or stdin), parses it with the source
delimiter and writes it back with the target delimiter, quoting fields where
needed. Delimiters are names (comma, semicolon, pipe, tab, space, newline),
literals, or "custom" together with --from-custom / --to-custom.

The result is followed by one newline, both on stdout and with --output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.from, "from", "", "source delimiter selection")
	flags.StringVar(&f.fromCustom, "from-custom", "", "source delimiter literal when --from=custom")
	flags.StringVar(&f.to, "to", "", "target delimiter selection")
	flags.StringVar(&f.toCustom, "to-custom", "", "target delimiter literal when --to=custom")
	flags.StringVar(&f.encoding, "encoding", "utf-8", "input character encoding (utf-8, windows-1252, iso-8859-1, ...)")
	flags.StringVarP(&f.output, "output", "o", "", "write output to file instead of stdout")
	flags.BoolVar(&f.dedupe, "dedupe", false, "drop rows equal to an earlier row")
	flags.BoolVar(&f.stripNewlines, "strip-newlines", false, "remove line breaks from the output")
	flags.StringVar(&f.quote, "quote", "", "quote style: auto, none, double or single")
	flags.StringVar(&f.wrapOpen, "wrap-open", "", "text added before every field")
	flags.StringVar(&f.wrapClose, "wrap-close", "", "text added after every field")
	flags.IntVar(&f.interval, "interval", 0, "insert an empty row after every N rows")
	flags.BoolVar(&f.crlf, "crlf", false, "separate output rows with \\r\\n")
	flags.BoolVar(&f.swap, "swap", false, "exchange source and target before converting")

	return cmd
}

func runConvert(cmd *cobra.Command, args []string, f convertFlags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := newCLILogger(cmd, cfg).WithComponent("convert")

	session := &delimconv.Session{
		Source:  cfg.Defaults.Source,
		Target:  cfg.Defaults.Target,
		Options: cfg.Defaults.Options,
	}
	if cmd.Flags().Changed("from") || cmd.Flags().Changed("from-custom") {
		session.Source = delimconv.Selection{Value: f.from, Custom: f.fromCustom}
	}
	if cmd.Flags().Changed("to") || cmd.Flags().Changed("to-custom") {
		session.Target = delimconv.Selection{Value: f.to, Custom: f.toCustom}
	}
	if f.dedupe {
		session.Options.RemoveDuplicateRows = true
	}
	if f.stripNewlines {
		session.Options.StripNewlines = true
	}
	if f.crlf {
		session.Options.CRLF = true
	}
	if cmd.Flags().Changed("quote") {
		session.Options.Quote = f.quote
	}
	if cmd.Flags().Changed("wrap-open") {
		session.Options.WrapOpen = f.wrapOpen
	}
	if cmd.Flags().Changed("wrap-close") {
		session.Options.WrapClose = f.wrapClose
	}
	if cmd.Flags().Changed("interval") {
		session.Options.Interval = f.interval
	}

	text, source, err := readInput(cmd, args, f.encoding, cfg.MaxInputBytes)
	if err != nil {
		return err
	}
	session.Text = text

	var res delimconv.Result
	if f.swap {
		res, _, err = session.Swap()
	} else {
		res, err = session.Convert()
	}
	if err != nil {
		log.Error("conversion failed", "input", source, "error", err)
		return err
	}

	if err := writeOutput(cmd, f.output, res.Output); err != nil {
		return err
	}

	log.Info("conversion completed",
		"input", source,
		"source_delimiter", fmt.Sprintf("%q", session.Source.Resolve()),
		"target_delimiter", fmt.Sprintf("%q", session.Target.Resolve()),
		"rows", res.Rows,
		"columns", res.Columns,
	)
	return nil
}

// readInput returns the decoded input text and a name for it.
func readInput(cmd *cobra.Command, args []string, encoding string, maxBytes int64) (string, string, error) {
	var (
		src  io.Reader = cmd.InOrStdin()
		name           = "stdin"
	)
	if len(args) == 1 && args[0] != "-" {
		file, err := os.Open(args[0])
		if err != nil {
			return "", "", fmt.Errorf("opening input: %w", err)
		}
		defer file.Close()
		src, name = file, args[0]
	}

	decoded, err := decodeInput(src, encoding)
	if err != nil {
		return "", "", err
	}

	data, err := io.ReadAll(io.LimitReader(decoded, maxBytes+1))
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", name, err)
	}
	if int64(len(data)) > maxBytes {
		return "", "", fmt.Errorf("input %s exceeds %d bytes", name, maxBytes)
	}
	return string(data), name, nil
}

// writeOutput writes output and a final newline to path, or to stdout when
// path is empty.
func writeOutput(cmd *cobra.Command, path, output string) error {
	if path == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), output)
		return err
	}
	if err := os.WriteFile(path, []byte(output+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func newCLILogger(cmd *cobra.Command, cfg *config.Config) *logger.Logger {
	level := cfg.LogLevel
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		level = v
	}
	return logger.NewWithWriter(cmd.ErrOrStderr(), logger.ParseLevel(level), cfg.LogJSON)
}
