package bcd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tidwall/gjson"

	"github.com/custodia-labs/specmap/internal/core/domain"
	"github.com/custodia-labs/specmap/internal/core/ports/driven"
	"github.com/custodia-labs/specmap/internal/logger"
)

const compatKey = "__compat"

// Ensure Source implements the interface.
var _ driven.BCDSource = (*Source)(nil)

// Source is a driven.BCDSource over a directory tree.
type Source struct {
	root      string
	filenames bool
	files     *lru.Cache[string, []byte]
}

// Option configures a Source.
type Option func(*Source)

// WithoutFilenames reports nodes with an empty Filename.
// Local feature trees use it since their files are not part of BCD.
func WithoutFilenames() Option {
	return func(s *Source) { s.filenames = false }
}

// NewSource creates a source rooted at root keeping up to cacheSize
// files for support_from lookups.
func NewSource(root string, cacheSize int, opts ...Option) (*Source, error) {
	if cacheSize < 1 {
		cacheSize = domain.DefaultParsedFileLRU
	}
	files, err := lru.New[string, []byte](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating file cache: %w", err)
	}
	s := &Source{root: root, filenames: true, files: files}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Root returns the directory the source reads from.
func (s *Source) Root() string {
	return s.root
}

// Walk visits every feature node under path, relative to the root.
// A missing path is skipped; unparseable JSON is returned as an error.
func (s *Source) Walk(ctx context.Context, path string, fn driven.WalkFunc) error {
	start := filepath.Join(s.root, path)
	info, err := os.Stat(start)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("%s: not found, skipped", start)
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		if filepath.Ext(start) != ".json" {
			return nil
		}
		return s.walkFile(ctx, start, fn)
	}

	return filepath.WalkDir(start, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(p) != ".json" {
			return nil
		}
		return s.walkFile(ctx, p, fn)
	})
}

func (s *Source) walkFile(ctx context.Context, path string, fn driven.WalkFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logger.Info("Processing %s", path)

	data, err := s.read(path)
	if err != nil {
		return err
	}
	filename := ""
	if s.filenames {
		filename = s.relative(path)
	}
	return visit(gjson.ParseBytes(data), nil, filename, fn)
}

// visit reports the nodes below value before value itself.
func visit(value gjson.Result, keys []string, filename string, fn driven.WalkFunc) error {
	if !value.IsObject() {
		return nil
	}
	var err error
	value.ForEach(func(key, child gjson.Result) bool {
		if key.String() == compatKey {
			return true
		}
		err = visit(child, append(keys, key.String()), filename, fn)
		return err == nil
	})
	if err != nil {
		return err
	}

	compat := value.Get(compatKey)
	if !compat.Exists() || len(keys) == 0 {
		return nil
	}
	name := strings.Join(keys, ".")
	node, err := decodeNode(name, filename, compat)
	if err != nil {
		logger.Error("%s: %v", name, err)
		return nil
	}
	return fn(node)
}

func decodeNode(name, filename string, compat gjson.Result) (domain.FeatureNode, error) {
	node := domain.FeatureNode{Name: name, Filename: filename}
	if !compat.IsObject() {
		return node, fmt.Errorf("__compat is not an object: %w", domain.ErrInvalidInput)
	}
	if err := json.Unmarshal([]byte(compat.Raw), &node.Compat); err != nil {
		return node, err
	}
	if c := compat.Get("caniuse"); c.IsObject() && c.Get("feature").String() != "" {
		node.Compat.Caniuse = &domain.CaniuseEntry{
			Feature: c.Get("feature").String(),
			Title:   c.Get("title").String(),
		}
	}
	return node, nil
}

// SupportFrom returns the support block at featurePath in filename.
func (s *Source) SupportFrom(_ context.Context, filename, featurePath string) (domain.Support, error) {
	data, err := s.read(filepath.Join(s.root, filepath.FromSlash(filename)))
	if err != nil {
		return nil, err
	}
	result := gjson.GetBytes(data, supportPath(featurePath))
	if !result.Exists() {
		return nil, fmt.Errorf("%s: no support at %s: %w", filename, featurePath, domain.ErrNotFound)
	}
	var support domain.Support
	if err := json.Unmarshal([]byte(result.Raw), &support); err != nil {
		return nil, fmt.Errorf("%s: %s: %w", filename, featurePath, err)
	}
	return support, nil
}

// supportPath builds the gjson path of a dotted feature's support block.
func supportPath(featurePath string) string {
	parts := strings.Split(featurePath, ".")
	for i, p := range parts {
		parts[i] = gjson.Escape(p)
	}
	return strings.Join(append(parts, compatKey, "support"), ".")
}

// read returns a validated file, from cache when possible.
func (s *Source) read(path string) ([]byte, error) {
	if data, ok := s.files.Get(path); ok {
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%s: invalid JSON: %w", path, domain.ErrInvalidInput)
	}
	s.files.Add(path, data)
	return data, nil
}

func (s *Source) relative(path string) string {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
