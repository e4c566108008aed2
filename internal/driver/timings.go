package driver

import (
	"encoding/json"
	"fmt"

	"jsonerr/internal/diag"
	"jsonerr/internal/observ"
	"jsonerr/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// appendTimingDiagnostic adds an OBS7001 info entry carrying the report as
// JSON in its note. It bypasses the bag limit, timings are never dropped.
func appendTimingDiagnostic(bag *diag.Bag, id source.FileID, path string, report observ.Report) {
	if bag == nil {
		return
	}
	payload := timingPayload{Kind: "file", Path: path, TotalMS: report.TotalMS, Phases: report.Phases}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	sp := source.Span{File: id}
	entry := diag.New(diag.SevInfo, diag.ObsTimings, sp, msg).WithNote(sp, string(data))

	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(0)
	overflow.Add(entry)
	bag.Merge(overflow)
}
