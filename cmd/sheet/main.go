// Command sheet is a thin line-oriented driver over the evaluation
// core: it owns argument parsing, terminal detection, optional config,
// and an optional live-update broadcast, none of which the core itself
// knows about.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vogtb/sheetcore/internal/driver"
	"github.com/vogtb/sheetcore/internal/sheet"
)

func main() {
	root := &cobra.Command{
		Use:   "sheet [rows cols]",
		Short: "Run the terminal spreadsheet evaluation core over stdin commands",
		Long: "Run the terminal spreadsheet evaluation core over stdin commands.\n" +
			"rows and cols may be omitted to fall back to the rows/cols configured " +
			"in ~/.sheetrc.yaml (or the built-in default of 100x26).",
		Args: dimensionArgs,
		RunE: run,
	}
	root.SilenceUsage = true

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "sheet:", err)
		os.Exit(1)
	}
}

// dimensionArgs accepts either zero positional args (dimensions come
// from config) or exactly two (rows, cols given on the command line).
func dimensionArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 0 && len(args) != 2 {
		return fmt.Errorf("accepts either 0 or 2 args (rows, cols), received %d", len(args))
	}
	return nil
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := driver.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading ~/.sheetrc.yaml: %w", err)
	}

	rows, cols := cfg.Rows, cfg.Cols
	if len(args) == 2 {
		rows, cols, err = parseDimensions(args[0], args[1])
		if err != nil {
			return err
		}
	}

	sh, err := sheet.NewSheet(rows, cols)
	if err != nil {
		return err
	}

	session := driver.NewSession()
	fmt.Fprintf(cmd.OutOrStdout(), "session %s: sheet %dx%d ready\n", session.ID, rows, cols)

	var broadcaster *driver.Broadcaster
	if cfg.Live {
		broadcaster, err = driver.Dial("ws://localhost:8080/sheet")
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "live broadcast disabled:", err)
		} else {
			defer broadcaster.Close()
		}
	}

	fd := int(os.Stdin.Fd())
	interactive := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	if interactive {
		// Learn the viewport size for the status line only; no raw-mode
		// editor or rendering is implemented here.
		if w, h, err := term.GetSize(fd); err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "terminal %dx%d\n", w, h)
		}
		fmt.Fprint(cmd.OutOrStdout(), "> ")
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		status := sh.Set(line)
		fmt.Fprintln(cmd.OutOrStdout(), status)

		if status == sheet.StatusOk {
			printTargetValue(cmd.OutOrStdout(), sh, line)
		}
		if broadcaster != nil && status == sheet.StatusOk {
			publishChange(broadcaster, session, sh, line)
		}
		if interactive {
			fmt.Fprint(cmd.OutOrStdout(), "> ")
		}
	}
	return scanner.Err()
}

// printTargetValue prints the command's target cell, rendered with
// Value.Describe so a division-by-zero or propagated error shows its
// specific cause instead of the bare ERR marker.
func printTargetValue(w io.Writer, sh *sheet.Sheet, line string) {
	cell, _, found := splitCommand(line)
	if !found {
		return
	}
	v, err := sh.GetRef(cell)
	if err != nil {
		return
	}
	fmt.Fprintln(w, v.Describe())
}

func publishChange(b *driver.Broadcaster, session driver.Session, sh *sheet.Sheet, line string) {
	cell, _, found := splitCommand(line)
	if !found {
		return
	}
	v, err := sh.GetRef(cell)
	if err != nil {
		return
	}
	_ = b.Publish(driver.ChangeEvent{SessionID: session.ID, Cell: cell, Value: v.String()})
}

func splitCommand(line string) (cell, expr string, ok bool) {
	for i := 0; i < len(line); i++ {
		if line[i] == '=' {
			return line[:i], line[i+1:], true
		}
	}
	return "", "", false
}

func parseDimensions(rowsArg, colsArg string) (rows, cols int, err error) {
	rows, err = parsePositiveInt(rowsArg)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid rows %q: %w", rowsArg, err)
	}
	cols, err = parsePositiveInt(colsArg)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid cols %q: %w", colsArg, err)
	}
	return rows, cols, nil
}

func parsePositiveInt(s string) (int, error) {
	n := 0
	if s == "" {
		return 0, fmt.Errorf("empty dimension")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("not a positive integer")
		}
		n = n*10 + int(s[i]-'0')
	}
	if n == 0 {
		return 0, fmt.Errorf("must be positive")
	}
	return n, nil
}
