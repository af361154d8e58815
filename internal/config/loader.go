package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceBuiltin SourceKind = "builtin"
	SourceFile    SourceKind = "file"
)

// Source records where an effective value came from.
type Source struct {
	Kind   SourceKind
	Name   string // for builtin/default
	File   string
	Line   int
	Column int
}

type LoadResult struct {
	Config      *Config
	Sources     map[string]Source // YAML-path -> last writer source (file only)
	LayoutBases map[string]string // layout name -> builtin base name
	Files       []string          // all loaded files, in load order
}

// ConfigPathEnv overrides the default config location when set.
const ConfigPathEnv = "FRAMEWM_CONFIG"

// DefaultConfigPath resolves $FRAMEWM_CONFIG, then
// $XDG_CONFIG_HOME/framewm/config.yaml, then ~/.config/framewm/config.yaml.
func DefaultConfigPath() (string, error) {
	if p := os.Getenv(ConfigPathEnv); p != "" {
		return p, nil
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); filepath.IsAbs(dir) {
		return filepath.Join(dir, "framewm", "config.yaml"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "framewm", "config.yaml"), nil
}

// Load reads the merged configuration from the standard location and returns an
// effective config ready for use by the window manager.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources loads config and returns file-level sources for introspection.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads path and its includes. A missing file yields the
// defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	l := &loader{
		seen:    map[string]bool{},
		sources: map[string]Source{},
	}
	raw := RawConfig{}
	if _, err := os.Stat(path); err == nil {
		if raw, err = l.load(path); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg, layoutBases, err := BuildEffectiveConfig(raw)
	if err != nil {
		return nil, attachSourceContext(err, l.sources)
	}
	if err := cfg.Validate(); err != nil {
		return nil, attachSourceContext(err, l.sources)
	}

	return &LoadResult{
		Config:      cfg,
		Sources:     l.sources,
		LayoutBases: layoutBases,
		Files:       l.files,
	}, nil
}

// loader walks a config file and its includes depth first. Includes are
// merged before the file that names them, so the including file wins.
type loader struct {
	seen    map[string]bool
	stack   []string
	sources map[string]Source
	files   []string
}

// include is one entry of an include list and where it was written.
type include struct {
	value string
	at    Source
}

func (l *loader) load(path string) (RawConfig, error) {
	canon, err := canonicalPath(path)
	if err != nil {
		return RawConfig{}, err
	}
	if i := indexOf(l.stack, canon); i >= 0 {
		chain := append(append([]string{}, l.stack[i:]...), canon)
		return RawConfig{}, fmt.Errorf("include cycle detected: %s", strings.Join(chain, " -> "))
	}
	if l.seen[canon] {
		// Already merged through another include.
		return RawConfig{}, nil
	}
	l.seen[canon] = true

	data, err := os.ReadFile(canon)
	if err != nil {
		return RawConfig{}, fmt.Errorf("%s: failed to read: %w", canon, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return RawConfig{}, fmt.Errorf("%s: failed to parse yaml: %w", canon, err)
	}
	var own RawConfig
	if err := decodeStrict(data, &own); err != nil {
		return RawConfig{}, fmt.Errorf("%s: %w", canon, err)
	}
	sources, includes := scan(&doc, canon)

	l.stack = append(l.stack, canon)
	merged := RawConfig{}
	for _, inc := range includes {
		paths, err := expandInclude(canon, inc.value)
		if err != nil {
			return RawConfig{}, fmt.Errorf("%s:%d:%d: include %q: %w", inc.at.File, inc.at.Line, inc.at.Column, inc.value, err)
		}
		for _, p := range paths {
			raw, err := l.load(p)
			if err != nil {
				return RawConfig{}, err
			}
			merged = merged.merge(raw)
		}
	}
	l.stack = l.stack[:len(l.stack)-1]

	for key, src := range sources {
		l.sources[key] = src
	}
	l.files = append(l.files, canon)
	return merged.merge(own), nil
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real, nil
	}
	return abs, nil
}

// expandInclude resolves one include entry relative to the including file.
// A directory yields its *.yaml and *.yml files, a glob its matches, both
// in sorted order. A glob that matches nothing is not an error.
func expandInclude(baseFile, entry string) ([]string, error) {
	path, err := resolvePath(baseFile, entry)
	if err != nil {
		return nil, err
	}

	if strings.ContainsAny(path, "*?[") {
		matches, err := filepath.Glob(path)
		if err != nil {
			return nil, err
		}
		return yamlFiles(matches), nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, ent := range entries {
		if !ent.IsDir() {
			names = append(names, filepath.Join(path, ent.Name()))
		}
	}
	return yamlFiles(names), nil
}

func yamlFiles(paths []string) []string {
	var out []string
	for _, p := range paths {
		switch strings.ToLower(filepath.Ext(p)) {
		case ".yaml", ".yml":
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

func resolvePath(baseFile, p string) (string, error) {
	if p == "" {
		return "", fmt.Errorf("path is empty")
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		p = filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
	}
	if filepath.IsAbs(p) {
		return p, nil
	}
	return filepath.Join(filepath.Dir(baseFile), p), nil
}

// scan records the position of every mapping key path in doc and collects
// the top-level include list.
func scan(doc *yaml.Node, file string) (map[string]Source, []include) {
	sources := map[string]Source{}
	root := doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return sources, nil
		}
		root = root.Content[0]
	}
	at := func(n *yaml.Node) Source {
		return Source{Kind: SourceFile, File: file, Line: n.Line, Column: n.Column}
	}

	var walk func(n *yaml.Node, prefix string)
	walk = func(n *yaml.Node, prefix string) {
		switch n.Kind {
		case yaml.MappingNode:
			for i := 0; i+1 < len(n.Content); i += 2 {
				key, val := n.Content[i].Value, n.Content[i+1]
				if prefix != "" {
					key = prefix + "." + key
				}
				sources[key] = at(val)
				walk(val, key)
			}
		case yaml.SequenceNode:
			if prefix != "" {
				sources[prefix] = at(n)
			}
		}
	}
	walk(root, "")

	var includes []include
	if root.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(root.Content); i += 2 {
			if root.Content[i].Value != "include" {
				continue
			}
			val := root.Content[i+1]
			items := []*yaml.Node{val}
			if val.Kind == yaml.SequenceNode {
				items = val.Content
			}
			for _, item := range items {
				if item.Kind == yaml.ScalarNode {
					includes = append(includes, include{value: item.Value, at: at(item)})
				}
			}
		}
	}
	return sources, includes
}

// attachSourceContext points a validation error at the file position of its
// path, or of the nearest enclosing key when the path itself was not written.
func attachSourceContext(err error, sources map[string]Source) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path == "" {
		return err
	}
	for p := verr.Path; p != ""; {
		if src, ok := sources[p]; ok {
			verr.Source = src
			break
		}
		i := strings.LastIndex(p, ".")
		if i < 0 {
			break
		}
		p = p[:i]
	}
	return verr
}
