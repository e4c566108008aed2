package driver

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"jsonerr/internal/attr"
	"jsonerr/internal/codegen"
	"jsonerr/internal/diag"
	"jsonerr/internal/ir"
	"jsonerr/internal/lower/docs"
	"jsonerr/internal/lower/response"
	"jsonerr/internal/observ"
	"jsonerr/internal/project"
	"jsonerr/internal/scan"
	"jsonerr/internal/source"
	"jsonerr/jsonresp/openapi"
)

// Options configure a compilation run.
type Options struct {
	Config project.Config
	// Jobs limits parallel files; <= 0 means GOMAXPROCS.
	Jobs    int
	DryRun  bool
	Cache   *DiskCache
	Sink    ProgressSink
	Timings bool
	// BaseDir is used for relative paths in diagnostics.
	BaseDir string
}

// FileResult is the outcome of compiling one source file.
type FileResult struct {
	Path    string
	FileID  source.FileID
	Package string
	Bag     *diag.Bag
	Units   []*ir.Unit
	Tables  []*response.Table
	Code    []byte
	Docs    *openapi.Fragment

	CodePath string
	DocsPath string
	Cached   bool
	Written  bool
	Timing   *observ.Report
}

// Failed reports whether the file has errors; failed files produce no output.
func (r *FileResult) Failed() bool {
	return r.Bag.HasErrors()
}

// HasOutput reports whether there is anything to write.
func (r *FileResult) HasOutput() bool {
	return !r.Failed() && len(r.Units) > 0
}

// Unit looks up a compiled unit by name.
func (r *FileResult) Unit(name string) (*ir.Unit, *response.Table, bool) {
	for i, u := range r.Units {
		if u.Name == name {
			return u, r.Tables[i], true
		}
	}
	return nil, nil, false
}

// OutputPaths returns where the generated code and docs of path are written.
func OutputPaths(path string, cfg project.GenerateConfig) (code, docsPath string) {
	stem := strings.TrimSuffix(path, ".go")
	return stem + cfg.Suffix, stem + cfg.DocsSuffix
}

// CompileFile compiles one loaded file. Units are compiled one after another,
// each with its own Bag. The returned error is reserved for defects (e.g.
// generated code that does not format); user mistakes are diagnostics.
func CompileFile(fs *source.FileSet, id source.FileID, opts Options) (*FileResult, error) {
	file := fs.Get(id)
	cfg := opts.Config
	res := &FileResult{
		Path:   file.Path,
		FileID: id,
		Bag:    diag.NewBag(cfg.Diagnostics.Max),
	}
	res.CodePath, res.DocsPath = OutputPaths(file.Path, cfg.Generate)

	timer := observ.NewTimer()
	timer.OnEnd = func(p observ.Phase) {
		log.Debug().Str("file", file.Path).Str("phase", p.Name).Dur("elapsed", p.Dur).Msg("phase done")
	}
	defer func() {
		if opts.Timings {
			report := timer.Report()
			res.Timing = &report
			appendTimingDiagnostic(res.Bag, id, file.Path, report)
		}
	}()

	key := CacheKey(file.Hash, cfg.Digest())
	if opts.Cache != nil {
		hit := false
		var err error
		timer.Measure("cache", func() string {
			hit, err = restoreFromCache(opts.Cache, key, res, cfg)
			if hit {
				return "hit"
			}
			return "miss"
		})
		if err != nil {
			log.Warn().Err(err).Str("file", file.Path).Msg("ignoring unreadable cache entry")
		}
		if hit {
			return res, nil
		}
	}

	emit(opts.Sink, Event{File: file.Path, Stage: StageScan, Status: StatusWorking})
	var scanned *scan.File
	timer.Measure(string(StageScan), func() string {
		scanned = scan.Scan(fs, id, diag.BagReporter{Bag: res.Bag})
		if scanned == nil {
			return "go syntax error"
		}
		return fmt.Sprintf("%d units", len(scanned.Units))
	})
	if scanned == nil || len(scanned.Units) == 0 {
		return res, nil
	}
	res.Package = scanned.Package

	emit(opts.Sink, Event{File: file.Path, Stage: StageCompile, Status: StatusWorking})
	irOpts := ir.Options{
		Attr:                attr.Options{ReportMissingAfterTypeError: cfg.Diagnostics.ReportMissingAfterTypeError},
		DefaultInternalCode: cfg.Generate.InternalCode,
	}
	timer.Measure(string(StageCompile), func() string {
		failed := 0
		for _, su := range scanned.Units {
			ub := diag.NewBag(cfg.Diagnostics.Max)
			u, err := ir.FromScan(file, scanned.Package, su, irOpts, ub)
			res.Bag.Merge(ub)
			if err != nil {
				failed++
				log.Debug().Err(err).Str("file", file.Path).Msg("unit failed")
				continue
			}
			res.Units = append(res.Units, u)
		}
		checkSharedInternal(res.Units, diag.BagReporter{Bag: res.Bag})
		return fmt.Sprintf("%d failed", failed)
	})
	if res.Failed() {
		res.Units, res.Tables = nil, nil
		return res, nil
	}

	emit(opts.Sink, Event{File: file.Path, Stage: StageLower, Status: StatusWorking})
	var genErr error
	timer.Measure(string(StageLower), func() string {
		genErr = lower(res, cfg)
		return ""
	})
	if genErr != nil {
		return res, genErr
	}

	if opts.Cache != nil && res.Bag.Len() == 0 {
		if err := storeInCache(opts.Cache, key, res); err != nil {
			log.Warn().Err(err).Str("file", file.Path).Msg("failed to store cache entry")
		}
	}
	return res, nil
}

// checkSharedInternal reports units whose internal cases would document the
// file-wide InternalError artifact with a different code than an earlier unit.
func checkSharedInternal(units []*ir.Unit, rep diag.Reporter) {
	var first *ir.Unit
	var firstSpan source.Span
	for _, u := range units {
		sp, ok := firstInternalSpan(u)
		if !ok {
			continue
		}
		if first == nil {
			first, firstSpan = u, sp
			continue
		}
		if u.Config.InternalCode == first.Config.InternalCode {
			continue
		}
		diag.ReportError(rep, diag.DclInternalClash, sp,
			fmt.Sprintf("unit %s uses internal code %q but unit %s in the same file uses %q; both document %s",
				u.Name, u.Config.InternalCode, first.Name, first.Config.InternalCode, ir.InternalErrorName)).
			WithNote(firstSpan, fmt.Sprintf("internal case of %s", first.Name)).
			Emit()
	}
}

func firstInternalSpan(u *ir.Unit) (source.Span, bool) {
	for _, c := range u.Cases {
		if c.IsInternal() {
			return c.Span, true
		}
	}
	return source.Span{}, false
}

// lower fills tables, code and docs of res from its units.
func lower(res *FileResult, cfg project.Config) error {
	ropts := response.Options{Log: cfg.Generate.Log}
	res.Tables = make([]*response.Table, len(res.Units))
	res.Docs = openapi.NewFragment()
	units := make([]codegen.Unit, len(res.Units))
	for i, u := range res.Units {
		res.Tables[i] = response.Lower(u, ropts)
		res.Docs.Merge(docs.Fragment(u))
		units[i] = codegen.Unit{IR: u, Table: res.Tables[i]}
	}
	code, err := codegen.Generate(codegen.File{
		Package: res.Package,
		Source:  source.BaseName(res.Path),
		Runtime: cfg.Generate.Runtime,
		Units:   units,
	})
	if err != nil {
		return err
	}
	res.Code = code
	return nil
}

func storeInCache(c *DiskCache, key project.Digest, res *FileResult) error {
	docsJSON, err := json.Marshal(res.Docs)
	if err != nil {
		return err
	}
	payload := &DiskPayload{
		Path:    res.Path,
		Package: res.Package,
		Code:    res.Code,
		Docs:    docsJSON,
		Units:   make([]ir.Snapshot, len(res.Units)),
	}
	for i, u := range res.Units {
		payload.Units[i] = u.Snapshot()
	}
	return c.Put(key, payload)
}

func restoreFromCache(c *DiskCache, key project.Digest, res *FileResult, cfg project.Config) (bool, error) {
	var payload DiskPayload
	ok, err := c.Get(key, &payload)
	if err != nil || !ok {
		return false, err
	}
	units := make([]*ir.Unit, 0, len(payload.Units))
	for _, snap := range payload.Units {
		u, err := snap.Restore()
		if err != nil {
			return false, err
		}
		// позиции не кешируются, указываем на начало файла
		for i := range u.Cases {
			u.Cases[i].Span = source.Span{File: res.FileID}
		}
		units = append(units, u)
	}
	frag := openapi.NewFragment()
	if err := json.Unmarshal(payload.Docs, frag); err != nil {
		return false, err
	}
	ropts := response.Options{Log: cfg.Generate.Log}
	res.Package = payload.Package
	res.Units = units
	res.Tables = make([]*response.Table, len(units))
	for i, u := range units {
		res.Tables[i] = response.Lower(u, ropts)
	}
	res.Code = payload.Code
	res.Docs = frag
	res.Cached = true
	return true, nil
}
