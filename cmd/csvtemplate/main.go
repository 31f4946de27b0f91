package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"course-bulk/internal/config"
	"course-bulk/internal/importer"
	"course-bulk/internal/logger"
)

func main() {
	var (
		combos  = flag.String("combos", "", "level/session combinations, e.g. L1:Beginner/S1:Fall,:/ (overrides import.combos)")
		outPath = flag.String("out", "bulk-courses-template.csv", "output csv path ('-' for stdout)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	lg, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer lg.Sync()

	comboList := *combos
	if comboList == "" {
		comboList = cfg.Import.Combos
	}
	n, err := writeTemplate(*outPath, comboList, os.Stdout)
	if err != nil {
		lg.Fatal("template failed", "error", err)
	}
	lg.Info("template written", "path", *outPath, "combinations", n)
}

// writeTemplate writes the template to outPath, or to stdout for "-", and
// returns the number of combinations it covers.
func writeTemplate(outPath, comboList string, stdout io.Writer) (int, error) {
	combos, err := importer.ParseCombinations(comboList)
	if err != nil {
		return 0, err
	}
	if outPath == "-" {
		return len(combos), importer.WriteTemplate(stdout, combos)
	}

	if dir := filepath.Dir(outPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, err
		}
	}
	f, err := os.Create(outPath)
	if err != nil {
		return 0, err
	}
	if err := importer.WriteTemplate(f, combos); err != nil {
		f.Close()
		return 0, err
	}
	return len(combos), f.Close()
}
