package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-pick/archive"
	"github.com/cwbudde/algo-pick/dsp/buffer"
	"github.com/cwbudde/algo-pick/internal/progress"
	"github.com/cwbudde/algo-pick/preprocess"
	"github.com/cwbudde/algo-pick/report"
	"github.com/cwbudde/algo-pick/scan"
	"github.com/cwbudde/algo-pick/traceio"
)

type scanFlags struct {
	archives string
	dir      string
	start    string
	progress bool
}

func newScanCmd(a *app) *cobra.Command {
	var f scanFlags
	cmd := &cobra.Command{
		Use:   "scan [file ...]",
		Short: "Scan channel groups and append picks to the output file",
		Long: `Scan loads one channel group per archive line (or the files given as
arguments), conditions the traces, scores sliding windows with the remote
classifier and appends one line per accepted pick to the output file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.scan(cmd, f, args)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.archives, "archives", "", "archive list: one group of channel files per line")
	fl.StringVar(&f.dir, "dir", "", "directory relative archive entries are resolved against")
	fl.StringVar(&f.start, "start", "", "recording start time, RFC 3339 (default file modification time)")
	fl.BoolVar(&f.progress, "progress", false, "draw a progress bar on stderr")
	fl.String("output", "", "file picks are appended to")
	fl.Float64("threshold", 0, "minimum peak probability")
	fl.String("model-url", "", "classifier base URL")
	fl.Int("batch-size", 0, "windows per classifier request")
	for flag, key := range map[string]string{
		"output":     "report.output",
		"threshold":  "peak.threshold",
		"model-url":  "model.url",
		"batch-size": "model.batch_size",
	} {
		_ = a.v.BindPFlag(key, fl.Lookup(flag))
	}
	return cmd
}

type groupResult struct {
	name       string
	traces     int
	detections []scan.Detection
	err        error
}

func (a *app) scan(cmd *cobra.Command, f scanFlags, args []string) error {
	groups, err := groupsOf(f, args)
	if err != nil {
		return err
	}

	var start time.Time
	if f.start != "" {
		if start, err = time.Parse(time.RFC3339Nano, f.start); err != nil {
			return fmt.Errorf("--start: %w", err)
		}
	}

	scorer, err := a.cfg.Scorer()
	if err != nil {
		return err
	}
	classes, err := a.cfg.ClassSet()
	if err != nil {
		return err
	}
	sc, err := a.cfg.ScanConfig()
	if err != nil {
		return err
	}

	opts := []scan.Option{scan.WithLogger(a.log), scan.WithPool(buffer.NewPool())}
	var bar *progress.Printer
	if f.progress {
		bar = progress.NewPrinter(cmd.ErrOrStderr(), progress.DefaultBar())
		opts = append(opts, scan.WithProgress(bar.Update))
	}
	scanner, err := scan.New(scorer, classes, sc, opts...)
	if err != nil {
		return err
	}

	results := make([]groupResult, 0, len(groups))
	for _, paths := range groups {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		res := a.scanGroup(cmd, scanner, paths, start)
		if bar != nil {
			bar.Done()
		}
		results = append(results, res)
	}

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
		}
	}
	if err := printSummary(cmd.OutOrStdout(), results); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d groups failed", failed, len(results))
	}
	return nil
}

func (a *app) scanGroup(cmd *cobra.Command, scanner *scan.Scanner, paths []string, start time.Time) groupResult {
	res := groupResult{name: paths[0]}
	log := a.log.WithField("group", res.name)

	if start.IsZero() {
		start = modTime(paths[0])
	}
	traces, err := traceio.LoadGroup(paths, start)
	if err == nil {
		res.traces = len(traces)
		traces, err = preprocess.ApplyAll(traces, a.cfg.PreprocessConfig())
	}
	if err == nil {
		res.detections, err = scanner.Scan(cmd.Context(), traces...)
	}
	if err == nil {
		err = report.AppendFile(a.cfg.Report.Output, a.cfg.Formatter(), res.detections)
	}
	if err != nil {
		res.err = err
		log.WithError(err).Error("group failed")
		return res
	}

	log.WithFields(logrus.Fields{
		"traces":     res.traces,
		"detections": len(res.detections),
		"output":     a.cfg.Report.Output,
	}).Info("group done")
	return res
}

func groupsOf(f scanFlags, args []string) ([][]string, error) {
	switch {
	case f.archives != "" && len(args) > 0:
		return nil, errors.New("give either --archives or files, not both")
	case f.archives != "":
		groups, err := archive.ParseFile(f.archives, f.dir)
		if err != nil {
			return nil, err
		}
		if len(groups) == 0 {
			return nil, fmt.Errorf("archive list %s is empty", f.archives)
		}
		return groups, nil
	case len(args) > 0:
		return [][]string{args}, nil
	default:
		return nil, errors.New("no input: give files or --archives")
	}
}

func printSummary(w io.Writer, results []groupResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Group\tTraces\tPicks\tStatus\n"); err != nil {
		return err
	}
	for _, r := range results {
		status := "ok"
		if r.err != nil {
			status = r.err.Error()
		}
		if _, err := fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", r.name, r.traces, len(r.detections), status); err != nil {
			return err
		}
	}
	return tw.Flush()
}
