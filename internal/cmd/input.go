package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readInputSource reads content from a file path or stdin when source is "-".
func readInputSource(source string, stdin io.Reader) (string, error) {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return "", fmt.Errorf("empty input source")
	}

	raw, err := readRaw(trimmed, stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

func readRaw(source string, stdin io.Reader) (string, error) {
	var r io.Reader
	if source == "-" {
		r = stdin
		if r == nil {
			r = os.Stdin
		}
	} else {
		file, err := os.Open(source)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", source, err)
		}
		defer file.Close()
		r = file
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

func inputHasData(r io.Reader) bool {
	if r == nil {
		r = os.Stdin
	}
	if file, ok := r.(*os.File); ok {
		stat, err := file.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) == 0
	}
	return true
}

// outlineFlags are the ways an outline can be passed to a command.
type outlineFlags struct {
	file     string
	text     string
	markdown bool
}

func (f *outlineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Read the outline from a file (use - for stdin)")
	cmd.Flags().StringVarP(&f.text, "text", "t", "", "Outline text (lines separated by newlines)")
	cmd.Flags().BoolVar(&f.markdown, "markdown", false, "Read the outline from Markdown headings and bullet lists")
}

var errNoOutline = errors.New("no outline provided (use --file, --text, or pipe it on stdin)")

// readOutline returns the outline text, keeping its leading indentation.
// Sources in order: --text, --file, piped stdin. With --markdown the input is
// converted to an indented outline first.
func (f *outlineFlags) readOutline(ctx context.Context) (string, error) {
	text, err := f.readSource(ctx)
	if err != nil || !f.markdown {
		return text, err
	}
	return markdownToOutline(text), nil
}

func (f *outlineFlags) readSource(ctx context.Context) (string, error) {
	switch {
	case f.text != "":
		return f.text, nil
	case strings.TrimSpace(f.file) != "":
		return readRaw(strings.TrimSpace(f.file), stdinFromContext(ctx))
	}

	in := stdinFromContext(ctx)
	if !inputHasData(in) {
		return "", errNoOutline
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

// promptString prompts for a string input
func promptString(ctx context.Context, prompt string) (string, error) {
	fmt.Fprint(stderrFromContext(ctx), prompt)
	reader := bufio.NewReader(stdinFromContext(ctx))
	input, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// promptSecret prompts for a secret input (no echo)
func promptSecret(ctx context.Context, prompt string) (string, error) {
	in := stdinFromContext(ctx)
	if file, ok := in.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		fmt.Fprint(stderrFromContext(ctx), prompt)
		password, err := term.ReadPassword(int(file.Fd()))
		fmt.Fprintln(stderrFromContext(ctx))
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(password)), nil
	}
	return promptString(ctx, prompt)
}

// confirm asks a yes/no question on stderr. --yes and non-interactive stdin
// both count as yes.
func confirm(ctx context.Context, yes bool, question string) (bool, error) {
	if yes {
		return true, nil
	}
	file, ok := stdinFromContext(ctx).(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return true, nil
	}
	answer, err := promptString(ctx, question+" [y/N]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
