package analysis

import (
	"errors"
	"path/filepath"

	"github.com/apex/log"
	"github.com/google/uuid"
)

// Report is the complete result of one scaling analysis run.
type Report struct {
	RunID      string
	Name       string
	Total      int
	Valid      int
	Predicate  Predicate
	Partitions []PartitionReport
	Pivot      *Pivot
	Verdict    Verdict
}

// ValidPct is the share of rows that passed the convergence filter.
func (r *Report) ValidPct() float64 {
	if r.Total == 0 {
		return 0
	}
	return 100 * float64(r.Valid) / float64(r.Total)
}

// Analyze loads path, filters converged trials and computes every summary.
// Fatal conditions are returned as typed errors and no report is produced.
func Analyze(path string, opt Options) (*Report, error) {
	ds, err := Load(path, opt)
	if err != nil {
		return nil, err
	}
	return AnalyzeDataset(filepath.Base(path), ds, opt)
}

// AnalyzeDataset runs the analysis on an already loaded dataset.
func AnalyzeDataset(name string, ds Dataset, opt Options) (*Report, error) {
	pred := opt.Predicate
	if pred == "" {
		pred = MeanStepsPositive
	}
	valid, err := FilterValid(ds, pred)
	if err != nil {
		var nv *NoValidDataError
		if errors.As(err, &nv) {
			nv.Path = name
		}
		return nil, err
	}
	log.WithFields(log.Fields{"filter": pred.Describe(), "valid": len(valid), "total": len(ds)}).Debug("filtered dataset")

	rep := &Report{
		RunID:     uuid.NewString(),
		Name:      name,
		Total:     len(ds),
		Valid:     len(valid),
		Predicate: pred,
	}
	for _, p := range GroupByMagnitude(valid) {
		log.WithFields(log.Fields{"magnitude": p.Magnitude, "points": len(p.Records)}).Debug("analyzing partition")
		rep.Partitions = append(rep.Partitions, AnalyzePartition(p, opt.MinPoints))
	}
	rep.Pivot = CrossPartitionSummary(valid)
	rep.Verdict = OverallVerdict(rep.Partitions)
	return rep, nil
}
