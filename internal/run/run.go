// Package run executes external commands through an in-process POSIX shell
// interpreter. It is pure glue for callers that need tool output: one
// blocking call, combined stdout/stderr, no streaming.
package run

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Run executes the command tokens in dir and returns combined stdout/stderr
// as one string, blocking until the process exits. A non-zero exit status is
// not an error; only failures to parse or launch the command propagate.
// An empty dir runs in the current working directory.
func Run(ctx context.Context, dir string, tokens []string) (string, error) {
	if len(tokens) == 0 {
		return "", errors.New("run: empty command")
	}

	quoted := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		q, err := syntax.Quote(tok, syntax.LangPOSIX)
		if err != nil {
			return "", fmt.Errorf("run: quote %q: %w", tok, err)
		}
		quoted = append(quoted, q)
	}
	command := strings.Join(quoted, " ")

	parsed, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return "", fmt.Errorf("run: parse command: %w", err)
	}

	var out bytes.Buffer
	runner, err := interp.New(
		interp.StdIO(nil, &out, &out),
		interp.Interactive(false),
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.Dir(dir),
	)
	if err != nil {
		return "", fmt.Errorf("run: create interpreter: %w", err)
	}

	if err := runner.Run(ctx, parsed); err != nil {
		var exit interp.ExitStatus
		if !errors.As(err, &exit) {
			return out.String(), err
		}
	}
	return out.String(), nil
}
