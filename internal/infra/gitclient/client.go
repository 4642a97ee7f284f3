// Package gitclient shells out to the git binary for index and tree queries.
package gitclient

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/precept-tool/precept/internal/domain"
	"github.com/precept-tool/precept/internal/ports"
)

type Client struct {
	root   string
	gitBin string
}

type Option func(*Client)

// WithGitBin overrides the git executable (useful for tests).
func WithGitBin(bin string) Option {
	return func(c *Client) { c.gitBin = bin }
}

func New(root string, opts ...Option) *Client {
	c := &Client{
		root:   root,
		gitBin: "git",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ ports.GitClient = (*Client)(nil)

func (c *Client) StagedFiles(ctx context.Context) ([]string, error) {
	// ACMR: skip deletions, a hook cannot run on a file that is going away.
	out, err := c.run(ctx, "diff", "--cached", "--name-only", "--diff-filter=ACMR", "-z")
	if err != nil {
		return nil, err
	}
	return splitZ(out), nil
}

func (c *Client) AllFiles(ctx context.Context) ([]string, error) {
	out, err := c.run(ctx, "ls-files", "-z")
	if err != nil {
		return nil, err
	}
	return splitZ(out), nil
}

func (c *Client) HasUnmergedPaths(ctx context.Context) (bool, error) {
	out, err := c.run(ctx, "ls-files", "--unmerged", "-z")
	if err != nil {
		return false, err
	}
	return len(bytes.TrimSpace(out)) > 0, nil
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.gitBin, append([]string{"-C", c.root}, args...)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &domain.OpError{
			Op:   "gitclient." + args[0],
			Kind: domain.KindGit,
			Path: c.root,
			Err:  fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String())),
		}
	}
	return stdout.Bytes(), nil
}

func splitZ(out []byte) []string {
	var files []string
	for _, f := range bytes.Split(out, []byte{0}) {
		if len(f) == 0 {
			continue
		}
		files = append(files, string(f))
	}
	return files
}
