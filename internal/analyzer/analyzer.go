// Package analyzer orchestrates a full analysis: load a CNF variability
// model, compute its global backbone, extract all strong transitive requires
// and excludes relationships in parallel, and write the result files.
package analyzer

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/strongraph/strongraph/internal/backbone"
	"github.com/strongraph/strongraph/internal/dimacs"
	"github.com/strongraph/strongraph/internal/extract"
	"github.com/strongraph/strongraph/internal/pajek"
)

// Config describes one analysis run.
type Config struct {
	// Input is the path of the DIMACS CNF file to analyze.
	Input string

	// OutputDir is where result files are written. Empty means the input
	// file's directory.
	OutputDir string

	// Threads is the number of parallel workers. Zero means one.
	Threads int

	// Detector selects the backbone detector by name; empty selects the
	// default (see the backbone package).
	Detector string

	// OnProgress, if non-nil, receives periodic progress updates during
	// edge extraction. Periodic calls come from a dedicated goroutine; the
	// final call comes from the goroutine running Analyze. Calls never
	// overlap.
	OnProgress func(done, total int)
}

// Result is the outcome of a successful analysis.
type Result struct {
	// Variables and Clauses describe the loaded formula.
	Variables int
	Clauses   int

	// Backbone is the global backbone as a vector indexed by variable:
	// +v core, -v dead, 0 unconstrained. Index 0 is unused.
	Backbone []int

	// Core and Dead list the non-auxiliary variables forced true (resp.
	// false) in every configuration, in ascending order.
	Core []int
	Dead []int

	// Requires holds the directed requires edges, Excludes the unordered
	// excludes pairs (smaller endpoint first). Both are deterministically
	// ordered.
	Requires []extract.Edge
	Excludes []extract.Edge

	// Files lists the written output files: requires graph, excludes graph,
	// core list, dead list.
	Files []string

	Elapsed time.Duration
}

// Analyze runs a complete analysis and writes the four output files. Every
// returned error carries a Kind (see ExitCode).
func Analyze(cfg Config) (*Result, error) {
	start := time.Now()
	if cfg.Threads == 0 {
		cfg.Threads = 1
	}

	// Reject unknown detector names before doing any work.
	if _, err := backbone.NewDetector(cfg.Detector, nil); err != nil {
		return nil, wrapKind(KindConfig, err)
	}

	inst, err := dimacs.Load(cfg.Input)
	if err != nil {
		return nil, wrapKind(KindLoad, err)
	}
	logrus.WithFields(logrus.Fields{
		"file":      cfg.Input,
		"variables": inst.Variables,
		"clauses":   len(inst.Clauses),
	}).Info("loaded formula")

	newDetector := func() (backbone.Detector, error) {
		solver, err := backbone.NewSolver(inst)
		if err != nil {
			return nil, err
		}
		return backbone.NewDetector(cfg.Detector, solver)
	}

	logrus.Info("computing core and dead features")
	det, err := newDetector()
	if err != nil {
		return nil, wrapKind(KindAnalysis, err)
	}
	globalBB, err := det.Backbone(nil)
	if err != nil {
		if errors.Is(err, backbone.ErrRefuted) {
			return nil, wrapKind(KindLoad, errors.Errorf("formula %s is unsatisfiable", cfg.Input))
		}
		return nil, wrapKind(KindAnalysis, errors.Wrap(err, "global backbone"))
	}

	res := &Result{
		Variables: inst.Variables,
		Clauses:   len(inst.Clauses),
		Backbone:  globalBB,
	}
	for v := 1; v <= inst.Variables; v++ {
		if inst.IsAux(v) {
			continue
		}
		switch {
		case globalBB[v] > 0:
			res.Core = append(res.Core, v)
		case globalBB[v] < 0:
			res.Dead = append(res.Dead, v)
		}
	}

	candidates := extract.Candidates(inst, globalBB)
	logrus.WithFields(logrus.Fields{
		"core":       len(res.Core),
		"dead":       len(res.Dead),
		"candidates": len(candidates),
	}).Info("extracting edges")

	edges, err := extract.Run(inst, globalBB, candidates, newDetector, extract.Config{
		Workers:    cfg.Threads,
		OnProgress: cfg.OnProgress,
	})
	if err != nil {
		if errors.Is(err, extract.ErrBadWorkerCount) {
			return nil, wrapKind(KindConfig, err)
		}
		return nil, wrapKind(KindAnalysis, err)
	}
	res.Requires = edges.Requires
	res.Excludes = edges.Excludes

	// All edges are aggregated: only now touch the filesystem.
	if err := writeOutputs(cfg, inst, res); err != nil {
		return nil, wrapKind(KindOutput, err)
	}

	res.Elapsed = time.Since(start)
	logrus.WithFields(logrus.Fields{
		"requires": len(res.Requires),
		"excludes": len(res.Excludes),
		"elapsed":  res.Elapsed.Round(time.Millisecond),
	}).Info("analysis complete")
	return res, nil
}

// BaseName returns the input path's file name with the directory and the
// .cnf/.dimacs extension (and a trailing .gz) stripped. Output files are
// named after it.
func BaseName(input string) string {
	name := filepath.Base(input)
	name = strings.TrimSuffix(name, ".gz")
	name = strings.TrimSuffix(name, ".cnf")
	name = strings.TrimSuffix(name, ".dimacs")
	return name
}

func writeOutputs(cfg Config, inst *dimacs.Instance, res *Result) error {
	outDir := cfg.OutputDir
	if outDir == "" {
		outDir = filepath.Dir(cfg.Input)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.Wrapf(err, "could not create output directory %s", outDir)
	}

	base := filepath.Join(outDir, BaseName(cfg.Input))
	outputs := []struct {
		path  string
		write func(io.Writer) error
	}{
		{base + "__requires.net", func(w io.Writer) error { return pajek.WriteArcs(w, inst, res.Requires) }},
		{base + "__excludes.net", func(w io.Writer) error { return pajek.WriteEdges(w, inst, res.Excludes) }},
		{base + "__core.txt", func(w io.Writer) error { return pajek.WriteFeatures(w, inst, res.Core) }},
		{base + "__dead.txt", func(w io.Writer) error { return pajek.WriteFeatures(w, inst, res.Dead) }},
	}

	for _, out := range outputs {
		logrus.WithField("file", out.path).Debug("writing")
		if err := writeFile(out.path, out.write); err != nil {
			return errors.Wrapf(err, "could not write %s", out.path)
		}
		res.Files = append(res.Files, out.path)
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
