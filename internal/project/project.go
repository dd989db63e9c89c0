// Package project builds and queries a project-wide index of parsed source
// files. It walks a root directory, parses every file a language adapter
// supports, and implements code.Resolver so the discoverer can map type
// references to classes and search subclasses.
package project

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/xonecas/codescope/internal/code"
	"github.com/xonecas/codescope/internal/lang"
	"github.com/xonecas/codescope/internal/store"
)

// maxFileSize skips files larger than 1MB.
const maxFileSize = 1 << 20

// parseCacheSize bounds the in-memory parse cache.
const parseCacheSize = 512

// Project holds the parsed model of every supported file under a root.
type Project struct {
	root string

	mu          sync.RWMutex
	files       map[string]*code.File // rel path -> model
	byQualified map[string]code.ClassRef
	bySimple    map[string][]code.ClassRef
	subs        map[string][]code.ClassRef // qualified -> direct subclasses

	cache *lru.Cache[string, cacheEntry]
	store *store.Cache
	langs map[string]bool // empty means every registered adapter
}

type cacheEntry struct {
	mtime int64
	size  int64
	file  *code.File
}

// Option configures a Project.
type Option func(*Project)

// WithStore attaches a persistent parse cache consulted before the parser.
func WithStore(s *store.Cache) Option {
	return func(p *Project) { p.store = s }
}

// WithLanguages restricts indexing to the named adapters. An empty list
// enables every registered adapter.
func WithLanguages(names []string) Option {
	return func(p *Project) {
		for _, n := range names {
			p.langs[n] = true
		}
	}
}

// New creates an empty project rooted at dir.
func New(root string, opts ...Option) *Project {
	cache, _ := lru.New[string, cacheEntry](parseCacheSize)
	p := &Project{
		root:  root,
		files: make(map[string]*code.File),
		cache: cache,
		langs: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Root returns the project root directory.
func (p *Project) Root() string {
	return p.root
}

// Build walks the project tree, parsing every supported file.
// Respects .gitignore and skips .git and oversized files.
func (p *Project) Build() error {
	gi := loadGitignore(p.root)

	p.mu.Lock()
	defer p.mu.Unlock()

	err := filepath.WalkDir(p.root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		rel, err := filepath.Rel(p.root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			if gi != nil && rel != "." && gi.MatchesPath(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}
		if !p.supported(rel) {
			return nil
		}

		info, err := d.Info()
		if err != nil || info.Size() > maxFileSize {
			return nil
		}

		f, err := p.parseFile(rel, path, info)
		if err != nil {
			log.Warn().Err(err).Str("path", rel).Msg("parse failed")
			return nil
		}
		if f != nil && len(f.Classes) > 0 {
			p.files[rel] = f
		}
		return nil
	})
	if err != nil {
		return err
	}

	p.buildLookup()
	return nil
}

// UpdateFile re-parses a single file and refreshes the index.
func (p *Project) UpdateFile(absPath string) {
	rel, err := filepath.Rel(p.root, absPath)
	if err != nil || !p.supported(rel) {
		return
	}
	rel = filepath.ToSlash(rel)
	info, err := os.Stat(absPath)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		delete(p.files, rel)
		p.cache.Remove(rel)
		p.store.Delete(rel)
		p.buildLookup()
		return
	}
	p.cache.Remove(rel)
	f, err := p.parseFile(rel, absPath, info)
	if err != nil || f == nil || len(f.Classes) == 0 {
		delete(p.files, rel)
	} else {
		p.files[rel] = f
	}
	p.buildLookup()
}

// parseFile parses one file, consulting the in-memory and persistent caches
// first. Caller holds p.mu.
func (p *Project) parseFile(rel, abs string, info fs.FileInfo) (*code.File, error) {
	if ent, ok := p.cache.Get(rel); ok &&
		ent.mtime == info.ModTime().UnixNano() && ent.size == info.Size() {
		return ent.file, nil
	}

	src, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(src)
	hash := hex.EncodeToString(sum[:])

	f, ok := p.store.Get(rel, hash)
	if !ok {
		ad := lang.ForPath(rel)
		if ad == nil {
			return nil, nil
		}
		f, err = ad.Parse(rel, src)
		if err != nil {
			return nil, err
		}
		p.store.Put(rel, hash, f)
	}

	p.cache.Add(rel, cacheEntry{
		mtime: info.ModTime().UnixNano(),
		size:  info.Size(),
		file:  f,
	})
	return f, nil
}

// supported reports whether an adapter handles the path and is enabled.
func (p *Project) supported(rel string) bool {
	ad := lang.ForPath(rel)
	if ad == nil {
		return false
	}
	return len(p.langs) == 0 || p.langs[ad.Name()]
}

// buildLookup rebuilds the qualified-name, simple-name and subclass indexes.
// Caller holds p.mu.
func (p *Project) buildLookup() {
	p.byQualified = make(map[string]code.ClassRef)
	p.bySimple = make(map[string][]code.ClassRef)
	p.subs = make(map[string][]code.ClassRef)

	rels := make([]string, 0, len(p.files))
	for rel := range p.files {
		rels = append(rels, rel)
	}
	sort.Strings(rels)

	for _, rel := range rels {
		f := p.files[rel]
		for i := range f.Classes {
			ref := code.ClassRef{File: f, ID: code.ClassID(i)}
			c := &f.Classes[i]
			if _, dup := p.byQualified[c.Qualified]; !dup {
				p.byQualified[c.Qualified] = ref
			}
			p.bySimple[c.Name] = append(p.bySimple[c.Name], ref)
		}
	}

	// Subclass index: resolve each declared supertype name in the context of
	// its own file. Unresolvable supertypes (library classes) contribute
	// nothing.
	for _, rel := range rels {
		f := p.files[rel]
		for i := range f.Classes {
			c := &f.Classes[i]
			for _, superName := range c.Supers {
				super, ok := p.resolveType(superName, f)
				if !ok {
					continue
				}
				q := super.Class().Qualified
				p.subs[q] = append(p.subs[q], code.ClassRef{File: f, ID: code.ClassID(i)})
			}
		}
	}
}

// ResolveType implements code.Resolver. Resolution order: classes of the
// referencing file (including a package-qualified sibling), exact qualified
// name, then a project-wide unique simple name. Anything else misses.
func (p *Project) ResolveType(name string, from *code.File) (code.ClassRef, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.resolveType(name, from)
}

func (p *Project) resolveType(name string, from *code.File) (code.ClassRef, bool) {
	if name == "" {
		return code.ClassRef{}, false
	}
	base := name
	if i := strings.LastIndex(name, "."); i >= 0 {
		base = name[i+1:]
	}

	if from != nil {
		for i := range from.Classes {
			if from.Classes[i].Name == base {
				return code.ClassRef{File: from, ID: code.ClassID(i)}, true
			}
		}
		if from.Package != "" {
			if ref, ok := p.byQualified[from.Package+"."+name]; ok {
				return ref, true
			}
		}
	}
	if ref, ok := p.byQualified[name]; ok {
		return ref, true
	}
	if refs := p.bySimple[base]; len(refs) == 1 {
		return refs[0], true
	}
	return code.ClassRef{}, false
}

// Subclasses implements code.Resolver.
func (p *Project) Subclasses(qualified string) []code.ClassRef {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]code.ClassRef(nil), p.subs[qualified]...)
}

// File returns the parsed model for a project-relative path, or nil.
func (p *Project) File(rel string) *code.File {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.files[filepath.ToSlash(rel)]
}

// Files returns the indexed project-relative paths, sorted.
func (p *Project) Files() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	paths := make([]string, 0, len(p.files))
	for rel := range p.files {
		paths = append(paths, rel)
	}
	sort.Strings(paths)
	return paths
}

// ClassByQualifiedName returns the project class with the given qualified
// name.
func (p *Project) ClassByQualifiedName(qualified string) (code.ClassRef, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ref, ok := p.byQualified[qualified]
	return ref, ok
}

// Outline renders the compact project outline.
func (p *Project) Outline() string {
	p.mu.RLock()
	snap := make(map[string]*code.File, len(p.files))
	for rel, f := range p.files {
		snap[rel] = f
	}
	p.mu.RUnlock()
	return code.FormatOutline(snap)
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}
