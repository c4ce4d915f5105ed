package envfile

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	EnvPathVar = "DOCSENGINE_ENV_PATH"
	fileName   = ".env"
)

// Result describes which .env file was applied. Variables already present in
// the environment always win over file entries.
type Result struct {
	Path   string
	Loaded bool
	Keys   int
	Err    error
}

type Entry struct {
	Key   string
	Value string
}

// Load applies DOCSENGINE_ENV_PATH when set, otherwise the nearest .env found
// walking up from the working directory.
func Load() Result {
	if override := strings.TrimSpace(os.Getenv(EnvPathVar)); override != "" {
		return LoadPath(override)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return Result{Err: err}
	}
	path, ok := nearest(cwd)
	if !ok {
		return Result{}
	}
	return LoadPath(path)
}

func LoadPath(path string) Result {
	res := Result{Path: path}
	file, err := os.Open(path)
	if err != nil {
		res.Err = err
		return res
	}
	defer file.Close()
	res.Loaded = true

	entries, err := Parse(file)
	for _, entry := range entries {
		if _, set := os.LookupEnv(entry.Key); set {
			continue
		}
		if err := os.Setenv(entry.Key, entry.Value); err != nil {
			res.Err = err
			return res
		}
		res.Keys++
	}
	res.Err = err
	return res
}

// Parse reads KEY=VALUE lines. Blank lines, comments and lines without a key
// are skipped; an "export " prefix and matching outer quotes are dropped.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		key, value, found := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			continue
		}
		entries = append(entries, Entry{Key: key, Value: unquote(strings.TrimSpace(value))})
	}
	return entries, scanner.Err()
}

func unquote(value string) string {
	if len(value) >= 2 {
		if q := value[0]; (q == '"' || q == '\'') && value[len(value)-1] == q {
			return value[1 : len(value)-1]
		}
	}
	return value
}

func nearest(dir string) (string, bool) {
	for {
		candidate := filepath.Join(dir, fileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
