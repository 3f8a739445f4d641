package format

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// ErrNotFound is returned by Resolve when no prettier executable exists.
var ErrNotFound = errors.New("prettier not found")

// Prettier formats source by running the prettier CLI over stdin/stdout.
type Prettier struct {
	// Path is the prettier executable.
	Path  string
	Style Style
}

// Args returns the command line for formatting path.
func (p *Prettier) Args(path string) ([]string, error) {
	parser, err := ParserFor(path)
	if err != nil {
		return nil, err
	}
	args := []string{
		"--stdin-filepath", path,
		"--parser", parser,
		"--trailing-comma", p.Style.TrailingComma,
		"--print-width", strconv.Itoa(p.Style.PrintWidth),
		"--tab-width", strconv.Itoa(p.Style.TabWidth),
		// Only the compiled-in style applies, whatever the project configures.
		"--no-config",
		"--no-editorconfig",
	}
	if !p.Style.Semi {
		args = append(args, "--no-semi")
	}
	if p.Style.SingleQuote {
		args = append(args, "--single-quote")
	}
	return args, nil
}

// Format pipes src through prettier and returns its output. It returns only
// after the process has exited.
func (p *Prettier) Format(ctx context.Context, path string, src []byte) ([]byte, error) {
	args, err := p.Args(path)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, p.Path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", p.Path, err)
	}

	// Feed stdin while draining stdout; prettier may start writing before it
	// has read all of a large file.
	var out bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		defer stdin.Close()
		if _, err := stdin.Write(src); err != nil {
			return fmt.Errorf("write stdin: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if _, err := io.Copy(&out, stdout); err != nil {
			return fmt.Errorf("read stdout: %w", err)
		}
		return nil
	})
	pipeErr := g.Wait()

	if err := cmd.Wait(); err != nil {
		if msg := firstLine(stderr.Bytes()); msg != "" {
			return nil, fmt.Errorf("%s: %w", msg, err)
		}
		return nil, err
	}
	if pipeErr != nil {
		return nil, pipeErr
	}
	return out.Bytes(), nil
}

func firstLine(b []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		if line := bytes.TrimSpace(sc.Bytes()); len(line) > 0 {
			return string(line)
		}
	}
	return ""
}

// Resolve locates prettier: explicit wins, then $PATH, then the project's
// node_modules/.bin under root.
func Resolve(root, explicit string) (string, error) {
	if explicit != "" {
		path, err := exec.LookPath(explicit)
		if err != nil {
			return "", fmt.Errorf("prettier %q: %w", explicit, err)
		}
		return path, nil
	}
	if path, err := exec.LookPath("prettier"); err == nil {
		return path, nil
	}

	local := filepath.Join(root, "node_modules", ".bin", "prettier")
	if info, err := os.Stat(local); err == nil && !info.IsDir() && info.Mode()&0o111 != 0 {
		return local, nil
	}
	slog.Debug("prettier lookup failed", "root", root, "local", local)
	return "", ErrNotFound
}
