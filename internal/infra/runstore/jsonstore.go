// Package runstore persists run artifacts as JSON files under the
// project's runs directory.
package runstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/precept-tool/precept/internal/domain"
	"github.com/precept-tool/precept/internal/ports"
)

const defaultRunsDir = ".precept/runs"
const indexFile = "index.jsonl"

type JSONStore struct {
	rootDir     string
	runsDirName string
	writeIndex  bool
	now         func() time.Time
}

type Option func(*JSONStore)

// WithIndex enables a simple JSONL index: runs/index.jsonl
func WithIndex(enabled bool) Option {
	return func(s *JSONStore) { s.writeIndex = enabled }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *JSONStore) { s.now = now }
}

func NewJSONStore(root string, settings domain.Settings, opts ...Option) *JSONStore {
	runsDir := settings.Paths.RunsDir
	if strings.TrimSpace(runsDir) == "" {
		runsDir = defaultRunsDir
	}

	s := &JSONStore{
		rootDir:     root,
		runsDirName: runsDir,
		writeIndex:  true,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.ArtifactStore = (*JSONStore)(nil)

func (s *JSONStore) SaveRun(run domain.RunResult) (string, error) {
	dir := s.runsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &domain.OpError{
			Op:   "runstore.mkdir",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	ts := run.StartedAt
	if ts.IsZero() {
		ts = s.now()
	}
	ts = ts.UTC()

	toSave := run
	if toSave.StartedAt.IsZero() {
		toSave.StartedAt = ts
	}

	slug := slugify(string(run.Stage))
	if slug == "" {
		slug = "run"
	}

	base := fmt.Sprintf("%s_%s", ts.Format("20060102T150405Z"), slug)
	id := base
	for n := 2; ; n++ {
		if _, err := os.Stat(filepath.Join(dir, id+".json")); os.IsNotExist(err) {
			break
		}
		id = fmt.Sprintf("%s_%d", base, n)
	}
	filename := id + ".json"
	path := filepath.Join(dir, filename)

	b, err := json.MarshalIndent(toSave, "", "  ")
	if err != nil {
		return "", &domain.OpError{
			Op:   "runstore.marshal",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	// Atomic-ish write: tmp then rename.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return "", &domain.OpError{
			Op:   "runstore.write",
			Kind: domain.KindExecution,
			Path: tmp,
			Err:  err,
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", &domain.OpError{
			Op:   "runstore.rename",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	if s.writeIndex {
		_ = s.appendIndex(dir, id, filename, toSave)
	}

	return id, nil
}

func (s *JSONStore) ListRuns() ([]domain.RunRef, error) {
	dir := s.runsDir()

	refs, err := s.readIndex(dir)
	if err == nil && refs != nil {
		return refs, nil
	}

	// No index: fall back to scanning artifact files.
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &domain.OpError{
			Op:   "runstore.list",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	var out []domain.RunRef
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || name == indexFile {
			continue
		}
		id := strings.TrimSuffix(name, ".json")
		run, err := s.LoadRun(id)
		if err != nil {
			continue
		}
		out = append(out, domain.RunRef{
			ID:        id,
			File:      name,
			Stage:     run.Stage,
			StartedAt: run.StartedAt,
			Failures:  run.Failures(),
		})
	}
	sortRefs(out)
	return out, nil
}

func (s *JSONStore) LoadRun(id string) (domain.RunResult, error) {
	path := filepath.Join(s.runsDir(), id+".json")

	b, err := os.ReadFile(path)
	if err != nil {
		kind := domain.KindExecution
		if os.IsNotExist(err) {
			kind = domain.KindNotFound
		}
		return domain.RunResult{}, &domain.OpError{
			Op:   "runstore.load",
			Kind: kind,
			Path: path,
			Err:  err,
		}
	}

	var run domain.RunResult
	if err := json.Unmarshal(b, &run); err != nil {
		return domain.RunResult{}, &domain.OpError{
			Op:   "runstore.unmarshal",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}
	return run, nil
}

func (s *JSONStore) runsDir() string {
	if filepath.IsAbs(s.runsDirName) {
		return s.runsDirName
	}
	return filepath.Join(s.rootDir, filepath.FromSlash(s.runsDirName))
}

type indexEntry struct {
	ID        string    `json:"id"`
	File      string    `json:"file"`
	Stage     string    `json:"stage"`
	StartedAt time.Time `json:"started_at"`
	Failures  int       `json:"failures"`
}

func (s *JSONStore) appendIndex(dir, id, filename string, run domain.RunResult) error {
	line, err := json.Marshal(indexEntry{
		ID:        id,
		File:      filename,
		Stage:     string(run.Stage),
		StartedAt: run.StartedAt,
		Failures:  run.Failures(),
	})
	if err != nil {
		return err
	}

	indexPath := filepath.Join(dir, indexFile)
	f, err := os.OpenFile(indexPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, _ = f.Write(append(line, '\n'))
	return nil
}

// readIndex returns nil refs (without error) when the index is absent.
func (s *JSONStore) readIndex(dir string) ([]domain.RunRef, error) {
	b, err := os.ReadFile(filepath.Join(dir, indexFile))
	if err != nil {
		return nil, err
	}

	var out []domain.RunRef
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e indexEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		out = append(out, domain.RunRef{
			ID:        e.ID,
			File:      e.File,
			Stage:     domain.Stage(e.Stage),
			StartedAt: e.StartedAt,
			Failures:  e.Failures,
		})
	}
	sortRefs(out)
	return out, nil
}

// sortRefs orders newest first.
func sortRefs(refs []domain.RunRef) {
	sort.Slice(refs, func(i, j int) bool {
		return refs[i].StartedAt.After(refs[j].StartedAt)
	})
}

// slugify produces a safe filename component.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))

	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
			lastDash = false
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}
