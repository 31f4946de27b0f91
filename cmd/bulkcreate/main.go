package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"course-bulk/internal/backend"
	"course-bulk/internal/config"
	"course-bulk/internal/defaults"
	"course-bulk/internal/domain"
	"course-bulk/internal/draft"
	"course-bulk/internal/importer"
	"course-bulk/internal/logger"
	"course-bulk/internal/report"
	"course-bulk/internal/sftpclient"
	"course-bulk/internal/sources"
)

var (
	errSubmitBlocked = errors.New("submit skipped: dry run reported failures")
	errItemsFailed   = errors.New("some courses failed")
)

type options struct {
	csvPath      string
	sftpFile     string
	combos       string
	defaultsPath string
	reportPath   string
	submit       bool
	uploadReport bool
}

func main() {
	var opts options
	flag.StringVar(&opts.csvPath, "csv", "", "local CSV file to import")
	flag.StringVar(&opts.sftpFile, "sftp-file", "", "CSV file name in the SFTP inbound directory")
	flag.StringVar(&opts.combos, "combos", "", "level/session combinations, e.g. L1:Beginner/S1:Fall (overrides import.combos)")
	flag.StringVar(&opts.defaultsPath, "defaults", "", "global defaults YAML profile (overrides import.defaults_path)")
	flag.BoolVar(&opts.submit, "submit", false, "create the courses after a clean dry run")
	flag.StringVar(&opts.reportPath, "report", "", "write per-course results CSV to this path")
	flag.BoolVar(&opts.uploadReport, "upload-report", false, "upload the results CSV to the SFTP outbound directory")
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = run(ctx, opts, cfg, lg)
	stop()
	if err != nil {
		lg.Error("bulk create failed", "error", err)
		lg.Sync()
		os.Exit(1)
	}
	lg.Sync()
}

func run(ctx context.Context, opts options, cfg *config.Config, lg *logger.Logger) error {
	comboList := firstNonEmpty(opts.combos, cfg.Import.Combos)
	combos, err := importer.ParseCombinations(comboList)
	if err != nil {
		return err
	}

	var g domain.GlobalDefaults
	if p := firstNonEmpty(opts.defaultsPath, cfg.Import.DefaultsPath); p != "" {
		if g, err = defaults.Load(p); err != nil {
			return err
		}
		lg.Info("defaults loaded", "path", p, "enabled", g.Enabled, "batches", len(g.Batches))
	}

	src, err := pickSource(opts, cfg, lg)
	if err != nil {
		return err
	}
	res, err := importCSV(ctx, src, combos)
	if err != nil {
		return err
	}
	lg.Info("csv imported", "source", src.Name(), "courses", len(res.Courses), "skipped", len(res.Skipped))
	if len(res.Skipped) > 0 {
		lg.Warn("rows without a course name were skipped", "lines", res.Skipped)
	}
	for _, is := range res.Issues {
		lg.Warn("csv cell ignored", "line", is.Line, "column", is.Column, "problem", is.Message)
	}
	if len(res.Courses) == 0 {
		return fmt.Errorf("no courses found in %s", src.Name())
	}

	d := draft.FromCourses(res.Courses, g)
	if !d.Validate() {
		for _, e := range d.Errors() {
			lg.Error("validation", "row", e.RowIndex, "field", e.Field, "message", e.Message)
		}
		return domain.ValidationErrors(d.Errors())
	}
	for _, p := range d.Preview() {
		lg.Debug("preview",
			"course", p.Name,
			"batches", len(p.Batches),
			"batch_source", string(p.BatchSource),
			"payment_shadowed", p.PaymentShadowed,
			"inventory_shadowed", p.InventoryShadowed,
		)
	}

	client := backend.New(cfg.Backend, lg)
	final, err := client.DryRun(ctx, d.Request(true))
	if err != nil {
		return fmt.Errorf("dry run: %s: %w", backend.ErrorMessage(err), err)
	}
	logOutcome(lg, "dry run", final)

	var runErr error
	switch {
	case !opts.submit:
	case final.FailureCount > 0:
		runErr = errSubmitBlocked
	default:
		submitted, err := client.Submit(ctx, d.Request(false))
		if err != nil {
			runErr = fmt.Errorf("submit: %s: %w", backend.ErrorMessage(err), err)
		}
		if submitted != nil {
			final = submitted
			logOutcome(lg, "submit", final)
		}
	}
	if runErr == nil && final.FailureCount > 0 {
		runErr = fmt.Errorf("%w: %d of %d", errItemsFailed, final.FailureCount, final.TotalRequested)
	}

	if err := writeReport(ctx, opts, cfg, lg, final); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

func pickSource(opts options, cfg *config.Config, lg *logger.Logger) (sources.Source, error) {
	switch {
	case opts.csvPath != "" && opts.sftpFile != "":
		return nil, errors.New("use either -csv or -sftp-file, not both")
	case opts.csvPath != "":
		return sources.File{Path: opts.csvPath}, nil
	case opts.sftpFile != "":
		return sources.SFTP{
			Client: sftpclient.New(cfg.SFTP, lg),
			Dir:    cfg.SFTP.InboundDir,
			File:   opts.sftpFile,
		}, nil
	default:
		return nil, errors.New("one of -csv or -sftp-file is required")
	}
}

func importCSV(ctx context.Context, src sources.Source, combos []importer.Combination) (*importer.Result, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return importer.Parse(rc, combos)
}

func writeReport(ctx context.Context, opts options, cfg *config.Config, lg *logger.Logger, resp *backend.CreationResponse) error {
	if opts.reportPath == "" && !opts.uploadReport {
		return nil
	}
	var buf bytes.Buffer
	if err := report.WriteResultsCSV(&buf, resp); err != nil {
		return err
	}

	name := reportName(opts.reportPath, time.Now())
	if opts.reportPath != "" {
		if dir := filepath.Dir(opts.reportPath); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		if err := os.WriteFile(opts.reportPath, buf.Bytes(), 0o644); err != nil {
			return err
		}
		lg.Info("report written", "path", opts.reportPath, "rows", len(resp.Results))
	}

	if opts.uploadReport {
		upCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
		defer cancel()
		if _, err := sftpclient.New(cfg.SFTP, lg).Upload(upCtx, cfg.SFTP.OutboundDir, name, &buf); err != nil {
			return err
		}
	}
	return nil
}

func reportName(reportPath string, now time.Time) string {
	if reportPath != "" {
		return filepath.Base(reportPath)
	}
	return "bulk-create-results-" + now.UTC().Format("20060102T150405Z") + ".csv"
}

func logOutcome(lg *logger.Logger, phase string, resp *backend.CreationResponse) {
	lg.Info(phase+" finished",
		"requested", resp.TotalRequested,
		"success", resp.SuccessCount,
		"failure", resp.FailureCount,
	)
	for _, f := range resp.Failures() {
		lg.Warn(phase+" failure", "index", f.Index, "course", f.CourseName, "message", f.ErrorMessage)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
