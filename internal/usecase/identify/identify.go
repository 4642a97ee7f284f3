// Package identify assigns type tags to files, the vocabulary used by
// hook filters (types/types_or/exclude_types).
package identify

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
)

// Core tags derived from file mode and content.
const (
	TagFile       = "file"
	TagDirectory  = "directory"
	TagSymlink    = "symlink"
	TagExecutable = "executable"
	TagText       = "text"
	TagBinary     = "binary"
)

// extensionTags maps lowercase extensions to type tags.
var extensionTags = map[string][]string{
	".py":    {"python"},
	".pyi":   {"python", "pyi"},
	".ipynb": {"jupyter"},
	".go":    {"go"},
	".c":     {"c"},
	".h":     {"c", "header"},
	".cc":    {"c++"},
	".cpp":   {"c++"},
	".hpp":   {"c++", "header"},
	".rs":    {"rust"},
	".js":    {"javascript"},
	".ts":    {"ts"},
	".sh":    {"shell"},
	".bash":  {"shell", "bash"},
	".zsh":   {"shell", "zsh"},
	".yaml":  {"yaml"},
	".yml":   {"yaml"},
	".json":  {"json"},
	".toml":  {"toml"},
	".ini":   {"ini"},
	".cfg":   {"ini"},
	".md":    {"markdown"},
	".rst":   {"rst"},
	".txt":   {"plain-text"},
	".html":  {"html"},
	".css":   {"css"},
	".xml":   {"xml"},
	".proto": {"proto"},
	".sql":   {"sql"},
	".csv":   {"csv"},
	".svg":   {"svg", "xml"},
	".png":   {"png", "image"},
	".jpg":   {"jpeg", "image"},
	".jpeg":  {"jpeg", "image"},
	".gif":   {"gif", "image"},
	".pdf":   {"pdf"},
	".zip":   {"zip"},
	".gz":    {"gzip"},
}

// nameTags maps exact (lowercase) base names to tags.
var nameTags = map[string][]string{
	"dockerfile": {"dockerfile"},
	"makefile":   {"makefile"},
	"go.mod":     {"go-mod"},
	"go.sum":     {"go-sum"},
	".gitignore": {"gitignore"},
}

// shebangTags maps interpreter names found on a #! line to tags.
var shebangTags = map[string][]string{
	"python":  {"python"},
	"python3": {"python"},
	"sh":      {"shell"},
	"bash":    {"shell", "bash"},
	"zsh":     {"shell", "zsh"},
	"perl":    {"perl"},
	"ruby":    {"ruby"},
	"node":    {"javascript"},
}

var knownTags = buildKnownTags()

func buildKnownTags() map[string]bool {
	out := map[string]bool{
		TagFile: true, TagDirectory: true, TagSymlink: true,
		TagExecutable: true, "non-executable": true,
		TagText: true, TagBinary: true,
	}
	for _, tags := range extensionTags {
		for _, t := range tags {
			out[t] = true
		}
	}
	for _, tags := range nameTags {
		for _, t := range tags {
			out[t] = true
		}
	}
	for _, tags := range shebangTags {
		for _, t := range tags {
			out[t] = true
		}
	}
	return out
}

// KnownTag reports whether tag belongs to the identify vocabulary.
func KnownTag(tag string) bool {
	return knownTags[tag]
}

// Tags classifies the file at root/path (path is repo-relative, as git
// reports it). Unreadable or vanished files still get name-based tags.
func Tags(root, path string) []string {
	full := filepath.Join(root, filepath.FromSlash(path))

	set := map[string]bool{}
	add := func(tags ...string) {
		for _, t := range tags {
			set[t] = true
		}
	}

	info, err := os.Lstat(full)
	switch {
	case err != nil:
		add(TagFile)
	case info.Mode()&os.ModeSymlink != 0:
		add(TagSymlink)
	case info.IsDir():
		add(TagDirectory)
	default:
		add(TagFile)
		if info.Mode().Perm()&0o111 != 0 {
			add(TagExecutable)
		} else {
			add("non-executable")
		}
	}

	base := strings.ToLower(filepath.Base(path))
	if tags, ok := nameTags[base]; ok {
		add(tags...)
	}
	if tags, ok := extensionTags[strings.ToLower(filepath.Ext(path))]; ok {
		add(tags...)
	}

	if set[TagFile] && err == nil {
		if text, interp := probeContent(full); text {
			add(TagText)
			if tags, ok := shebangTags[interp]; ok {
				add(tags...)
			}
		} else {
			add(TagBinary)
		}
	}

	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	return out
}

// probeContent reads a bounded prefix to decide text vs binary and to
// sniff a shebang interpreter.
func probeContent(full string) (text bool, interpreter string) {
	f, err := os.Open(full)
	if err != nil {
		return true, ""
	}
	defer f.Close()

	buf := make([]byte, 1024)
	n, _ := f.Read(buf)
	buf = buf[:n]

	if n == 0 {
		return true, ""
	}
	if bytes.IndexByte(buf, 0) >= 0 {
		return false, ""
	}

	return true, sniffShebang(buf)
}

func sniffShebang(buf []byte) string {
	if !bytes.HasPrefix(buf, []byte("#!")) {
		return ""
	}

	line, _, _ := bufio.NewReader(bytes.NewReader(buf[2:])).ReadLine()
	fields := strings.Fields(string(line))
	if len(fields) == 0 {
		return ""
	}

	interp := filepath.Base(fields[0])
	// "#!/usr/bin/env python" names the interpreter in the next field.
	if interp == "env" && len(fields) > 1 {
		interp = filepath.Base(fields[1])
	}
	// Strip trailing versions like python3.11 down to python3.
	if i := strings.IndexByte(interp, '.'); i > 0 {
		interp = interp[:i]
	}
	return interp
}
