package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"marlin/internal/diag"
	"marlin/internal/driver"
	"marlin/internal/project"
	"marlin/internal/sema"
	"marlin/internal/semafmt"
	"marlin/internal/treeio"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] [tree.json|tree.msgpack ...]",
	Short: "Run semantic analysis over parsed syntax trees",
	Long:  `Analyze decorates each raw tree with types, folded constants and symbol references, and prints the symbol table, diagnostics and decorated tree. With no arguments a JSON tree is read from stdin.`,
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("format", "", "output format (text|json), overrides config")
	analyzeCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	analyzeCmd.Flags().Int("max-diagnostics", -1, "cap diagnostics per file (-1=config value, 0=no limit)")
	analyzeCmd.Flags().Int("max-depth", 0, "recursion limit for tree traversal (0=default)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format == "" {
		format = cfg.Format
	}
	switch format {
	case "", "text":
		format = "text"
	case "json":
	default:
		return fmt.Errorf("unknown format %q (want text or json)", format)
	}

	opts := driver.Options{
		Jobs:           cfg.Jobs,
		MaxDiagnostics: cfg.MaxDiagnostics,
		MaxDepth:       cfg.MaxDepth,
	}
	if jobs, _ := cmd.Flags().GetInt("jobs"); jobs > 0 {
		opts.Jobs = jobs
	}
	if maxDiag, _ := cmd.Flags().GetInt("max-diagnostics"); maxDiag >= 0 {
		opts.MaxDiagnostics = maxDiag
	}
	if maxDepth, _ := cmd.Flags().GetInt("max-depth"); maxDepth > 0 {
		opts.MaxDepth = maxDepth
	}

	useColor, err := resolveColor(cmd)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		root, err := treeio.DecodeJSON(os.Stdin)
		if err != nil {
			return err
		}
		res := driver.AnalyzeTree(root, opts)
		if err := renderResult(os.Stdout, "<stdin>", res, format, useColor); err != nil {
			return err
		}
		if res.Bag.HasErrors() {
			os.Exit(1)
		}
		return nil
	}

	results, err := driver.AnalyzeFiles(context.Background(), args, opts)
	if err != nil {
		return err
	}

	failed := false
	for _, fr := range results {
		if fr.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", fr.Path, fr.Err)
			failed = true
			continue
		}
		if err := renderResult(os.Stdout, fr.Path, fr.Res, format, useColor); err != nil {
			return err
		}
		if fr.Res.Bag.HasErrors() {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
	return nil
}

func renderResult(w *os.File, path string, res sema.Result, format string, useColor bool) error {
	if format == "json" {
		return semafmt.WriteResultJSON(w, res)
	}

	header := color.New(color.Bold)
	if !useColor {
		header.DisableColor()
	}

	header.Fprintf(w, "== %s: symbol table ==\n", path)
	if err := semafmt.SymbolTable(w, res.Symbols); err != nil {
		return err
	}
	header.Fprintf(w, "== %s: diagnostics ==\n", path)
	if err := writeDiagnostics(w, res, useColor); err != nil {
		return err
	}
	header.Fprintf(w, "== %s: decorated tree ==\n", path)
	return semafmt.Tree(w, res.Tree)
}

func writeDiagnostics(w *os.File, res sema.Result, useColor bool) error {
	if !useColor {
		return semafmt.Diagnostics(w, res.Bag)
	}
	errColor := color.New(color.FgRed, color.Bold)
	warnColor := color.New(color.FgYellow)
	if res.Bag.Len() == 0 {
		_, err := fmt.Fprintln(w, "(no diagnostics)")
		return err
	}
	for _, d := range res.Bag.Items() {
		line := d.Format()
		var err error
		if d.Severity == diag.SevError {
			_, err = errColor.Fprintln(w, line)
		} else {
			_, err = warnColor.Fprintln(w, line)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func loadConfig(cmd *cobra.Command) (project.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return project.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path == "" {
		path = project.DefaultConfigName
	}
	return project.Load(path)
}

// resolveColor maps the persistent --color flag to a concrete choice.
func resolveColor(cmd *cobra.Command) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch mode {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		fi, err := os.Stdout.Stat()
		if err != nil {
			return false, nil
		}
		return fi.Mode()&os.ModeCharDevice != 0, nil
	}
	return false, fmt.Errorf("unknown color mode %q (want auto|on|off)", mode)
}
