package filter

import (
	"os"
	"path/filepath"
	"strings"

	"fls/internal/log"

	ignore "github.com/sabhiram/go-gitignore"
)

// gitignoreCache compiles each directory's rule chain once per run.
type gitignoreCache struct {
	files  map[string]*ignore.GitIgnore
	chains map[string]*gitignoreMatcher
}

func newGitignoreCache() *gitignoreCache {
	return &gitignoreCache{
		files:  make(map[string]*ignore.GitIgnore),
		chains: make(map[string]*gitignoreMatcher),
	}
}

// ignored reports whether name inside dir is excluded by a .gitignore in
// dir or any ancestor up to the repository root.
func (c *gitignoreCache) ignored(dir, name string, isDir bool) bool {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	m, ok := c.chains[abs]
	if !ok {
		m = c.build(abs)
		c.chains[abs] = m
	}
	rel := name
	if m.dirPrefix != "" {
		rel = m.dirPrefix + "/" + name
	}
	return m.isIgnored(rel, isDir)
}

// gitignoreMatcher holds the .gitignore rules that apply below one root.
type gitignoreMatcher struct {
	// dirPrefix is the listed directory relative to the root.
	dirPrefix string
	matchers  []scopedMatcher
}

type scopedMatcher struct {
	dirPrefix string
	ignore    *ignore.GitIgnore
}

// build walks from dir toward the filesystem root, stopping at the first
// directory that holds .git, and collects every .gitignore on the way.
func (c *gitignoreCache) build(dir string) *gitignoreMatcher {
	var chain []string
	root := dir
	for d := dir; ; {
		chain = append(chain, d)
		if _, err := os.Stat(filepath.Join(d, ".git")); err == nil {
			root = d
			break
		}
		parent := filepath.Dir(d)
		if parent == d {
			// No repository: only the listed directory's own rules apply.
			chain = chain[:1]
			root = dir
			break
		}
		d = parent
	}

	m := &gitignoreMatcher{}
	if rel, err := filepath.Rel(root, dir); err == nil && rel != "." {
		m.dirPrefix = filepath.ToSlash(rel)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		gi := c.load(chain[i])
		if gi == nil {
			continue
		}
		rel, err := filepath.Rel(root, chain[i])
		if err != nil {
			continue
		}
		if rel == "." {
			rel = ""
		}
		m.matchers = append(m.matchers, scopedMatcher{dirPrefix: filepath.ToSlash(rel), ignore: gi})
	}
	log.LogWithFields(log.F("dir", dir), log.F("root", root), log.F("rules", len(m.matchers))).Debug("gitignore chain")
	return m
}

func (c *gitignoreCache) load(dir string) *ignore.GitIgnore {
	if gi, ok := c.files[dir]; ok {
		return gi
	}
	var gi *ignore.GitIgnore
	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	if err == nil {
		gi = ignore.CompileIgnoreLines(strings.Split(string(data), "\n")...)
	}
	c.files[dir] = gi
	return gi
}

func (m *gitignoreMatcher) isIgnored(relPath string, isDir bool) bool {
	if m == nil || len(m.matchers) == 0 {
		return false
	}

	checkPath := relPath
	if isDir {
		checkPath = relPath + "/"
	}

	for _, sm := range m.matchers {
		var pathToCheck string
		if sm.dirPrefix == "" {
			pathToCheck = checkPath
		} else {
			prefix := sm.dirPrefix + "/"
			if !strings.HasPrefix(relPath, prefix) {
				continue
			}
			pathToCheck = strings.TrimPrefix(checkPath, prefix)
		}

		if sm.ignore.MatchesPath(pathToCheck) {
			return true
		}
	}
	return false
}
