package jobs

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// resolveExecutable finds the absolute or relative path that should
// be exec'd for name, given the PATH variable's current value.
//
// Grounded on find_executable in original_source/src/lang/exec.rs and
// original_source/src/shell/exec.rs, supplemented with the
// short-circuit those functions' callers rely on upstream: a name
// that is already absolute, or explicitly relative (`./`, `../`), is
// used verbatim without consulting PATH, matching how a POSIX shell
// never searches PATH for a name containing a slash.
func resolveExecutable(name string, path string) (string, error) {
	if strings.ContainsRune(name, '/') {
		if _, err := os.Stat(name); err != nil {
			return "", &MissingExecutableError{Name: name}
		}
		return name, nil
	}

	for _, dir := range strings.Split(path, ":") {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", &MissingExecutableError{Name: name, Suggestion: suggestExecutable(name, path)}
}

// suggestExecutable scans every PATH directory's entries and returns
// the closest match to name by edit distance, for a "did you mean"
// hint on a failed lookup. Only entries that contain name's characters
// in order (case-insensitively) are ranked, so a transposed name such
// as "gti" never matches "git". Returns "" when no ranked entry is
// close enough to be worth suggesting.
func suggestExecutable(name string, path string) string {
	var candidates []string
	for _, dir := range strings.Split(path, ":") {
		if dir == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() {
				candidates = append(candidates, e.Name())
			}
		}
	}
	if len(candidates) == 0 {
		return ""
	}

	ranks := fuzzy.RankFindNormalizedFold(name, candidates)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	best := ranks[0]
	if best.Distance > len(name)/2+2 {
		return ""
	}
	return best.Target
}
