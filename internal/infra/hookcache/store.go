// Package hookcache materializes pinned hook repositories into a local
// content-addressed cache and reads their manifests.
package hookcache

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/precept-tool/precept/internal/domain"
	"github.com/precept-tool/precept/internal/infra/yamlconfig"
	"github.com/precept-tool/precept/internal/ports"
)

const reposDirName = "repos"
const metaFileName = "meta.json"

// Cloner fetches url at rev into dir. Swappable for tests.
type Cloner func(ctx context.Context, url, rev, dir string) error

type Store struct {
	cacheDir   string
	cloner     Cloner
	writeIndex bool
	now        func() time.Time
}

type Option func(*Store)

// WithCloner replaces the git cloner (useful for tests).
func WithCloner(c Cloner) Option {
	return func(s *Store) { s.cloner = c }
}

// WithIndex toggles the JSONL index (repos.jsonl at the cache root),
// written on every clone. On by default.
func WithIndex(enabled bool) Option {
	return func(s *Store) { s.writeIndex = enabled }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore builds a store rooted at cacheDir. An empty cacheDir resolves
// to the platform user cache dir.
func NewStore(cacheDir string, opts ...Option) *Store {
	if strings.TrimSpace(cacheDir) == "" {
		if base, err := os.UserCacheDir(); err == nil {
			cacheDir = filepath.Join(base, "precept")
		} else {
			cacheDir = filepath.Join(os.TempDir(), "precept-cache")
		}
	}

	s := &Store{
		cacheDir:   cacheDir,
		cloner:     gitClone,
		writeIndex: true,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.RepoStore = (*Store)(nil)

type repoMeta struct {
	URL       string    `json:"url"`
	Rev       string    `json:"rev"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Store) Ensure(ctx context.Context, url, rev string) (ports.MaterializedRepo, error) {
	dir := filepath.Join(s.cacheDir, reposDirName, cacheKey(url, rev))

	meta, err := readMeta(dir)
	if err == nil && meta.URL == url && meta.Rev == rev {
		return s.materialized(url, rev, dir)
	}

	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return ports.MaterializedRepo{}, &domain.OpError{
			Op:   "hookcache.mkdir",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	// Clone into a tmp dir, then rename. A crashed clone never becomes a hit.
	tmp := dir + ".tmp"
	_ = os.RemoveAll(tmp)

	if err := s.cloner(ctx, url, rev, tmp); err != nil {
		_ = os.RemoveAll(tmp)
		return ports.MaterializedRepo{}, &domain.OpError{
			Op:   "hookcache.clone",
			Kind: domain.KindGit,
			Path: url,
			Err:  err,
		}
	}

	if err := writeMeta(tmp, repoMeta{URL: url, Rev: rev, CreatedAt: s.now().UTC()}); err != nil {
		_ = os.RemoveAll(tmp)
		return ports.MaterializedRepo{}, err
	}

	_ = os.RemoveAll(dir)
	if err := os.Rename(tmp, dir); err != nil {
		_ = os.RemoveAll(tmp)
		return ports.MaterializedRepo{}, &domain.OpError{
			Op:   "hookcache.rename",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	if s.writeIndex {
		_ = s.appendIndex(url, rev, dir)
	}

	return s.materialized(url, rev, dir)
}

func (s *Store) materialized(url, rev, dir string) (ports.MaterializedRepo, error) {
	manifest, err := yamlconfig.LoadManifest(dir)
	if err != nil {
		return ports.MaterializedRepo{}, err
	}
	return ports.MaterializedRepo{
		URL:      url,
		Rev:      rev,
		Dir:      dir,
		Manifest: manifest,
	}, nil
}

func (s *Store) Clean() error {
	dir := filepath.Join(s.cacheDir, reposDirName)
	if err := os.RemoveAll(dir); err != nil {
		return &domain.OpError{
			Op:   "hookcache.clean",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}
	_ = os.Remove(filepath.Join(s.cacheDir, "repos.jsonl"))
	return nil
}

func (s *Store) GC(keep []domain.HookRef) (int, error) {
	wanted := map[string]bool{}
	for _, ref := range keep {
		if ref.RepoURL == domain.RepoLocal || ref.RepoURL == domain.RepoMeta {
			continue
		}
		wanted[cacheKey(ref.RepoURL, ref.Rev)] = true
	}

	dir := filepath.Join(s.cacheDir, reposDirName)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, &domain.OpError{
			Op:   "hookcache.gc",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	removed := 0
	for _, e := range entries {
		if !e.IsDir() || wanted[e.Name()] {
			continue
		}
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return removed, &domain.OpError{
				Op:   "hookcache.gc",
				Kind: domain.KindExecution,
				Path: filepath.Join(dir, e.Name()),
				Err:  err,
			}
		}
		removed++
	}
	return removed, nil
}

func (s *Store) appendIndex(url, rev, dir string) error {
	type idx struct {
		URL       string    `json:"url"`
		Rev       string    `json:"rev"`
		Dir       string    `json:"dir"`
		CreatedAt time.Time `json:"created_at"`
	}
	line, err := json.Marshal(idx{URL: url, Rev: rev, Dir: dir, CreatedAt: s.now().UTC()})
	if err != nil {
		return err
	}

	indexPath := filepath.Join(s.cacheDir, "repos.jsonl")
	f, err := os.OpenFile(indexPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, _ = f.Write(append(line, '\n'))
	return nil
}

func cacheKey(url, rev string) string {
	sum := sha1.Sum([]byte(url + "@" + rev))
	return hex.EncodeToString(sum[:])[:12]
}

func readMeta(dir string) (repoMeta, error) {
	b, err := os.ReadFile(filepath.Join(dir, metaFileName))
	if err != nil {
		return repoMeta{}, err
	}
	var m repoMeta
	if err := json.Unmarshal(b, &m); err != nil {
		return repoMeta{}, err
	}
	return m, nil
}

func writeMeta(dir string, m repoMeta) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return &domain.OpError{
			Op:   "hookcache.meta",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}
	if err := os.WriteFile(filepath.Join(dir, metaFileName), b, 0o644); err != nil {
		return &domain.OpError{
			Op:   "hookcache.meta",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}
	return nil
}

func gitClone(ctx context.Context, url, rev, dir string) error {
	steps := [][]string{
		{"clone", "--quiet", url, dir},
		{"-C", dir, "checkout", "--quiet", rev},
	}
	for _, args := range steps {
		cmd := exec.CommandContext(ctx, "git", args...)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
		}
	}
	return nil
}
