package hookrunner

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/precept-tool/precept/internal/domain"
)

// runPygrep implements the pygrep language: the entry is a regex and any
// matching line fails the hook, printed grep-style as path:line:text.
func (r *Runner) runPygrep(hook domain.Hook, files []string, out *boundedBuffer) (int, error) {
	pattern, err := regexp.Compile(hook.Entry)
	if err != nil {
		return 0, &domain.OpError{
			Op:   "hookrunner.pygrep",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("hook %q entry: %w", hook.ID, err),
		}
	}

	exitCode := 0
	for _, f := range files {
		matched, err := grepFile(filepath.Join(r.repoRoot, filepath.FromSlash(f)), f, pattern, out)
		if err != nil {
			return 0, err
		}
		if matched {
			exitCode = 1
		}
	}
	return exitCode, nil
}

func grepFile(path, display string, pattern *regexp.Regexp, out *boundedBuffer) (bool, error) {
	fh, err := os.Open(path)
	if err != nil {
		return false, &domain.OpError{
			Op:   "hookrunner.pygrep",
			Kind: domain.KindExecution,
			Path: display,
			Err:  err,
		}
	}
	defer fh.Close()

	matched := false
	sc := bufio.NewScanner(fh)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := sc.Text()
		if pattern.MatchString(line) {
			matched = true
			fmt.Fprintf(out, "%s:%d:%s\n", display, lineno, line)
		}
	}
	if err := sc.Err(); err != nil {
		return matched, &domain.OpError{
			Op:   "hookrunner.pygrep",
			Kind: domain.KindExecution,
			Path: display,
			Err:  err,
		}
	}
	return matched, nil
}
