// codescope answers two questions about a source file in a project: what
// class/method/line surrounds a caret offset, and which other classes are
// structurally interesting to the class under the caret.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/xonecas/codescope/internal/code"
	"github.com/xonecas/codescope/internal/config"
	"github.com/xonecas/codescope/internal/discover"
	"github.com/xonecas/codescope/internal/project"
	runner "github.com/xonecas/codescope/internal/run"
	"github.com/xonecas/codescope/internal/store"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("codescope", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		rootDir     string
		file        string
		offset      int
		depth       int
		cfgPath     string
		outline     bool
		verbose     bool
		showVersion bool
	)

	fs.StringVar(&rootDir, "root", ".", "project root directory")
	fs.StringVar(&file, "file", "", "source file to inspect")
	fs.IntVar(&offset, "offset", -1, "caret byte offset within -file")
	fs.IntVar(&depth, "depth", -1, "polymorphism depth (overrides config)")
	fs.StringVar(&cfgPath, "config", "", "config file path")
	fs.BoolVar(&outline, "outline", false, "print the project outline and exit")
	fs.BoolVar(&verbose, "v", false, "debug logging")
	fs.BoolVar(&showVersion, "version", false, "show version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if showVersion {
		fmt.Fprintf(stdout, "codescope %s\n", version)
		return nil
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: stderr}).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if depth < 0 {
		depth = cfg.Discover.PolyDepth
	}

	root, err := filepath.Abs(rootDir)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", root)
	}

	var st *store.Cache
	if cfg.Index.Cache {
		dir, err := config.EnsureDataDir()
		if err == nil {
			ttl := time.Duration(cfg.Index.TTLOrDefault()) * time.Hour
			st, err = store.Open(filepath.Join(dir, "index.db"), ttl)
			if err != nil {
				log.Warn().Err(err).Msg("index cache unavailable")
			}
		}
	}
	defer st.Close()

	p := project.New(root,
		project.WithStore(st),
		project.WithLanguages(cfg.Languages.Enabled))
	if err := p.Build(); err != nil {
		return fmt.Errorf("indexing project: %w", err)
	}

	if outline {
		fmt.Fprint(stdout, p.Outline())
		return nil
	}

	if file == "" {
		return errors.New("-file is required (or use -outline)")
	}
	rel := file
	if filepath.IsAbs(file) {
		if rel, err = filepath.Rel(root, file); err != nil {
			return fmt.Errorf("resolving file: %w", err)
		}
	}
	f := p.File(rel)
	if f == nil {
		return fmt.Errorf("%s: not an indexed source file", rel)
	}

	labels := code.ContextLabels(f, offset)
	if len(labels) == 0 {
		fmt.Fprintln(stdout, "no code construct at caret")
	}
	for _, l := range labels {
		fmt.Fprintln(stdout, l)
	}

	var interesting []code.ClassRef
	if mid, ok := f.SurroundingMethod(offset); ok {
		cid, _ := f.SurroundingClass(offset)
		interesting = discover.ForMethod(p,
			code.ClassRef{File: f, ID: cid},
			code.MethodRef{File: f, ID: mid},
			depth)
	} else {
		var seeds []code.ClassRef
		for _, cid := range code.ClassesToTest(f, offset) {
			seeds = append(seeds, code.ClassRef{File: f, ID: cid})
		}
		interesting = discover.Classes(p, seeds, depth)
	}

	if len(interesting) > 0 {
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "interesting classes:")
		for _, ref := range interesting {
			fmt.Fprintf(stdout, "  %s\n", ref.Class().Qualified)
		}
	}

	// Trailing arguments are a follow-up command to run in the project root,
	// e.g. a compile check over freshly generated tests.
	if rest := fs.Args(); len(rest) > 0 {
		out, err := runner.Run(context.Background(), root, rest)
		if err != nil {
			return err
		}
		fmt.Fprint(stdout, out)
	}
	return nil
}
