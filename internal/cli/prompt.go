package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vietddude/crosspay/internal/core/send"
)

// promptConfirmer asks on the terminal before a risky payment is committed.
type promptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func newPromptConfirmer(in *bufio.Reader, out io.Writer) *promptConfirmer {
	return &promptConfirmer{in: in, out: out}
}

func (p *promptConfirmer) Confirm(ctx context.Context, q send.Quote) (bool, error) {
	printWarning(p.out, q)
	return p.ask("Proceed anyway? [y/N]: ")
}

func (p *promptConfirmer) ask(question string) (bool, error) {
	_, _ = fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
