package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"jsonerr/internal/diag"
	"jsonerr/internal/project"
	"jsonerr/internal/source"
	"jsonerr/jsonresp/openapi"
)

// Result is the outcome of a compilation run.
type Result struct {
	FileSet *source.FileSet
	Files   []*FileResult
	// Bag holds diagnostics not tied to a single file.
	Bag *diag.Bag
}

// HasErrors reports whether any file or the run itself failed.
func (r *Result) HasErrors() bool {
	if r.Bag.HasErrors() {
		return true
	}
	for _, f := range r.Files {
		if f != nil && f.Failed() {
			return true
		}
	}
	return false
}

// Diagnostics merges all bags into one, files in path order.
func (r *Result) Diagnostics() *diag.Bag {
	out := diag.NewBag(0)
	for _, f := range r.Files {
		if f != nil {
			out.Merge(f.Bag)
		}
	}
	out.Merge(r.Bag)
	return out
}

// File returns the result of the file at path.
func (r *Result) File(path string) (*FileResult, bool) {
	for _, f := range r.Files {
		if f.Path == path {
			return f, true
		}
	}
	return nil, false
}

// ExpandPaths turns files and directories into the sorted list of Go files to
// compile. Directories are walked recursively; generated files, tests,
// vendor, testdata and hidden directories are skipped.
func ExpandPaths(paths []string, cfg project.GenerateConfig) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		p = filepath.Clean(p)
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		listed, err := listGoFiles(p, cfg.Suffix)
		if err != nil {
			return nil, err
		}
		for _, f := range listed {
			add(f)
		}
	}
	sort.Strings(files)
	return files, nil
}

// listGoFiles возвращает отсортированный список исходников директории
func listGoFiles(dir, generatedSuffix string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != dir && (name == "vendor" || name == "testdata" ||
				strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".go") && !strings.HasSuffix(path, "_test.go") &&
			!strings.HasSuffix(path, generatedSuffix) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Compile compiles every Go file under paths. Files are compiled in parallel;
// combinations from the manifest are applied afterwards and outputs are
// written unless opts.DryRun is set. A combination with mismatching statuses
// aborts the run with an error wrapping openapi.ErrStatusMismatch.
func Compile(ctx context.Context, paths []string, opts Options) (*Result, error) {
	files, err := ExpandPaths(paths, opts.Config.Generate)
	if err != nil {
		return nil, err
	}

	fileSet := source.NewFileSetWithBase(opts.BaseDir)
	res := &Result{
		FileSet: fileSet,
		Files:   make([]*FileResult, len(files)),
		Bag:     diag.NewBag(opts.Config.Diagnostics.Max),
	}
	if len(files) == 0 {
		return res, nil
	}

	// FileSet не потокобезопасен на запись, загружаем заранее
	fileIDs := make([]source.FileID, len(files))
	loadErrors := make(map[int]error)
	for i, path := range files {
		emit(opts.Sink, Event{File: path, Stage: StageScan, Status: StatusQueued})
		id, loadErr := fileSet.Load(path)
		if loadErr != nil {
			loadErrors[i] = loadErr
			continue
		}
		fileIDs[i] = id
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			if loadErr, failed := loadErrors[i]; failed {
				bag := diag.NewBag(opts.Config.Diagnostics.Max)
				bag.Add(diag.Detached(diag.IOLoadFileError, "failed to load file: %v", loadErr))
				res.Files[i] = &FileResult{Path: path, Bag: bag}
				emit(opts.Sink, Event{File: path, Stage: StageScan, Status: StatusError, Err: loadErr})
				return nil
			}

			fr, err := CompileFile(fileSet, fileIDs[i], opts)
			res.Files[i] = fr
			if err != nil {
				emit(opts.Sink, Event{File: path, Stage: StageLower, Status: StatusError, Err: err})
				return fmt.Errorf("%s: %w", path, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}

	if err := applyCombines(res, opts.Config.Docs.Combine); err != nil {
		return res, err
	}

	for _, fr := range res.Files {
		finish(fr, opts)
	}
	return res, nil
}

// finish writes the outputs of fr and reports its final status.
func finish(fr *FileResult, opts Options) {
	switch {
	case fr.Failed():
		emit(opts.Sink, Event{File: fr.Path, Stage: StageWrite, Status: StatusError, Err: fr.Bag.Err()})
		return
	case !fr.HasOutput() || opts.DryRun:
	default:
		emit(opts.Sink, Event{File: fr.Path, Stage: StageWrite, Status: StatusWorking})
		if err := writeOutputs(fr); err != nil {
			fr.Bag.Add(diag.Errorf(diag.IOWriteFileError, source.Span{File: fr.FileID}, "%v", err))
			emit(opts.Sink, Event{File: fr.Path, Stage: StageWrite, Status: StatusError, Err: err})
			return
		}
	}
	status := StatusDone
	if fr.Cached {
		status = StatusCached
	}
	emit(opts.Sink, Event{File: fr.Path, Stage: StageWrite, Status: status})
}

func writeOutputs(fr *FileResult) error {
	docsJSON, err := fr.Docs.Marshal()
	if err != nil {
		return fmt.Errorf("encode docs for %s: %w", fr.Path, err)
	}
	if err := os.WriteFile(fr.CodePath, fr.Code, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", fr.CodePath, err)
	}
	if err := os.WriteFile(fr.DocsPath, docsJSON, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", fr.DocsPath, err)
	}
	fr.Written = true
	log.Debug().Str("code", fr.CodePath).Str("docs", fr.DocsPath).Msg("outputs written")
	return nil
}

// applyCombines adds the combined artifacts requested by the manifest to the
// fragment of the file declaring the unit.
func applyCombines(res *Result, rules []project.CombineRule) error {
	anyFailed := false
	for _, f := range res.Files {
		if f.Failed() {
			anyFailed = true
		}
	}
	for _, rule := range rules {
		fr, found := findUnitFile(res, rule.Unit)
		if !found {
			if anyFailed {
				// юнит мог не собраться, об этом уже есть диагностика
				continue
			}
			res.Bag.Add(diag.Detached(diag.ProjCombineUnknown, "[[docs.combine]]: unit %s is not declared", rule.Unit))
			continue
		}
		u, _, _ := fr.Unit(rule.Unit)
		arts := make([]openapi.Artifact, 0, 2)
		for _, name := range rule.Cases {
			c, ok := u.Case(name)
			if !ok {
				fr.Bag.Add(diag.Errorf(diag.ProjCombineUnknown, source.Span{File: fr.FileID},
					"[[docs.combine]]: unit %s has no case %s", rule.Unit, name))
				continue
			}
			if c.IsInternal() {
				fr.Bag.Add(diag.Errorf(diag.ProjCombineNotClient, c.Span,
					"[[docs.combine]]: %s.%s is internal and has no artifact of its own", rule.Unit, name))
				continue
			}
			if a, ok := fr.Docs.Artifact(name); ok {
				arts = append(arts, a)
			}
		}
		if len(arts) != 2 {
			continue
		}
		combined, err := openapi.Combine(arts[0], arts[1])
		if err != nil {
			return fmt.Errorf("[[docs.combine]] %s: %w", rule.Unit, err)
		}
		fr.Docs.Add(combined)
	}
	return nil
}

func findUnitFile(res *Result, unit string) (*FileResult, bool) {
	for _, f := range res.Files {
		if f == nil || f.Failed() {
			continue
		}
		if _, _, ok := f.Unit(unit); ok {
			return f, true
		}
	}
	return nil, false
}

// IsStatusMismatch reports whether err came from a combination of artifacts
// with different statuses.
func IsStatusMismatch(err error) bool {
	return errors.Is(err, openapi.ErrStatusMismatch)
}
