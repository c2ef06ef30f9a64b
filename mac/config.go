// Package mac implements the MAC label engine: extended-attribute
// backed configuration labels with validate/apply/verify/remove/show
// operations, atomic-application semantics, and bounded ERANGE retry.
package mac

import (
	"encoding/json"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/freebsdkit/capkit/ferr"
	"github.com/freebsdkit/capkit/internal/xattrutil"
)

// MaxConfigSize is the hard size limit on a label configuration
// document.
const MaxConfigSize = 10 * 1024 * 1024

// Label names one filesystem object (or a "dir/*" recursive pattern)
// and the attribute key/value pairs to apply to it.
type Label struct {
	Path       string            `json:"path"`
	Attributes map[string]string `json:"attributes"`
}

// Config is the parsed label configuration document.
type Config struct {
	AttributeName string  `json:"attributeName"`
	Labels        []Label `json:"labels"`
}

// appFs is swappable in tests via afero.NewMemMapFs, following the
// same pattern capkit/jail/profile uses for its loader.
var appFs afero.Fs = afero.NewOsFs()

// LoadConfig reads and parses a label configuration document from
// path, enforcing the hard size limit before attempting to unmarshal.
func LoadConfig(path string) (Config, error) {
	info, err := appFs.Stat(path)
	if err != nil {
		return Config{}, ferr.New(ferr.NotFound, "mac.load_config", path)
	}
	if info.Size() > MaxConfigSize {
		return Config{}, ferr.New(ferr.InvalidArgument, "mac.load_config", path)
	}
	data, err := afero.ReadFile(appFs, path)
	if err != nil {
		return Config{}, ferr.New(ferr.IO, "mac.load_config", path)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, ferr.New(ferr.MalformedLabel, "mac.load_config", path)
	}
	return cfg, nil
}

// expandedLabel is one fully-resolved target path with its final,
// last-wins-deduplicated attribute map.
type expandedLabel struct {
	path  string
	attrs map[string]string
}

// expand resolves every label's path (following "/*" recursive
// patterns into every regular file under the named directory) and
// applies last-wins deduplication across the whole label list, in
// document order, deterministically.
func expand(cfg Config) ([]expandedLabel, error) {
	order := make([]string, 0, len(cfg.Labels))
	byPath := make(map[string]map[string]string)

	addPath := func(path string, attrs map[string]string) {
		if _, seen := byPath[path]; !seen {
			order = append(order, path)
		}
		byPath[path] = attrs
	}

	for _, label := range cfg.Labels {
		if strings.HasSuffix(label.Path, "/*") {
			dir := strings.TrimSuffix(label.Path, "/*")
			info, err := appFs.Stat(dir)
			if err != nil {
				return nil, ferr.New(ferr.NotFound, "mac.expand", dir)
			}
			if !info.IsDir() {
				return nil, ferr.New(ferr.InvalidArgument, "mac.expand", dir)
			}
			files, err := walkRegularFiles(dir)
			if err != nil {
				return nil, err
			}
			sort.Strings(files)
			for _, f := range files {
				addPath(f, label.Attributes)
			}
			continue
		}
		if _, err := appFs.Stat(label.Path); err != nil {
			return nil, ferr.New(ferr.NotFound, "mac.expand", label.Path)
		}
		addPath(label.Path, label.Attributes)
	}

	out := make([]expandedLabel, 0, len(order))
	for _, p := range order {
		out = append(out, expandedLabel{path: p, attrs: byPath[p]})
	}
	return out, nil
}

func walkRegularFiles(dir string) ([]string, error) {
	var files []string
	var walk func(string) error
	walk = func(p string) error {
		entries, err := afero.ReadDir(appFs, p)
		if err != nil {
			return ferr.New(ferr.IO, "mac.expand", p)
		}
		for _, entry := range entries {
			child := filepath.Join(p, entry.Name())
			if entry.IsDir() {
				if err := walk(child); err != nil {
					return err
				}
				continue
			}
			if entry.Mode().IsRegular() {
				files = append(files, child)
			}
		}
		return nil
	}
	if err := walk(dir); err != nil {
		return nil, err
	}
	return files, nil
}

// ValidateAll checks every path (or pattern directory) exists and
// every attribute key/value is well-formed, signaling the first
// violation encountered and never partially applying anything.
func ValidateAll(cfg Config) error {
	if err := xattrutil.ValidateAttributeName(cfg.AttributeName); err != nil {
		return err
	}
	expanded, err := expand(cfg)
	if err != nil {
		return err
	}
	for _, l := range expanded {
		if _, err := xattrutil.Encode(l.attrs); err != nil {
			return err
		}
	}
	return nil
}
