package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/dmitrijs2005/garage/internal/controller"
	"golang.org/x/term"
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// Console is one operator terminal. Views share it; only one of them reads
// at a time.
type Console struct {
	out   io.Writer
	outMu sync.Mutex
	lines *lineReader

	fd       int
	terminal bool
	restore  func()

	// pendingPW is a hidden read abandoned by a cancelled AskPassword.
	pwMu      sync.Mutex
	pendingPW chan passwordResult
}

// NewConsole attaches to in and out. When in is a terminal, passwords are
// read without echo and Close restores the terminal state.
func NewConsole(in *os.File, out io.Writer) *Console {
	fd := int(in.Fd())
	c := newConsole(in, out, fd, isTerminal(fd))
	if c.terminal {
		if st, err := term.GetState(fd); err == nil {
			c.restore = func() { _ = term.Restore(fd, st) }
		}
	}
	return c
}

// NewConsoleFrom reads from r, which is not a terminal. Passwords are read as
// ordinary lines.
func NewConsoleFrom(r io.Reader, out io.Writer) *Console {
	return newConsole(r, out, -1, false)
}

func newConsole(r io.Reader, out io.Writer, fd int, terminal bool) *Console {
	return &Console{
		out:      out,
		lines:    newLineReader(r),
		fd:       fd,
		terminal: terminal,
	}
}

// Close puts the terminal back the way it was found.
func (c *Console) Close() error {
	if c.restore != nil {
		c.restore()
	}
	return nil
}

func (c *Console) Printf(format string, args ...any) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	_, _ = fmt.Fprintf(c.out, format, args...)
}

func (c *Console) Println(args ...any) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	_, _ = fmt.Fprintln(c.out, args...)
}

// Ask prints prompt and reads one trimmed line.
//
//	Prompt text
//	> _
func (c *Console) Ask(ctx context.Context, prompt string) (string, error) {
	c.Printf("%s\n> ", prompt)
	if ch := c.takePendingPassword(); ch != nil {
		line, err := c.awaitPassword(ctx, ch)
		return strings.TrimSpace(line), err
	}
	line, err := c.lines.ReadLine(ctx)
	if err != nil {
		return "", inputError(err)
	}
	return strings.TrimSpace(line), nil
}

// AskPassword prints prompt and reads a password. On a terminal the input
// is not echoed. The value is returned untrimmed.
func (c *Console) AskPassword(ctx context.Context, prompt string) (string, error) {
	c.Printf("%s: ", prompt)
	if !c.terminal {
		line, err := c.lines.ReadLine(ctx)
		if err != nil {
			return "", inputError(err)
		}
		return line, nil
	}

	// A read abandoned by a cancelled prompt still owns the descriptor, so
	// its answer is taken instead of starting a second reader.
	ch := c.takePendingPassword()
	if ch == nil && c.lines.Pending() {
		line, err := c.lines.ReadLine(ctx)
		if err != nil {
			return "", inputError(err)
		}
		return line, nil
	}
	if ch == nil {
		ch = make(chan passwordResult, 1)
		go func() {
			pw, err := readPassword(c.fd)
			ch <- passwordResult{pw, err}
		}()
	}
	return c.awaitPassword(ctx, ch)
}

// awaitPassword waits for the hidden read in flight. term.ReadPassword
// cannot be interrupted, so when ctx ends first the read stays pending and
// the next prompt, hidden or not, takes its result.
func (c *Console) awaitPassword(ctx context.Context, ch chan passwordResult) (string, error) {
	select {
	case r := <-ch:
		c.Println()
		if r.err != nil {
			return "", inputError(r.err)
		}
		return string(r.pw), nil
	case <-ctx.Done():
		c.pwMu.Lock()
		c.pendingPW = ch
		c.pwMu.Unlock()
		c.Println()
		return "", ctx.Err()
	}
}

func (c *Console) takePendingPassword() chan passwordResult {
	c.pwMu.Lock()
	defer c.pwMu.Unlock()
	ch := c.pendingPW
	c.pendingPW = nil
	return ch
}

type passwordResult struct {
	pw  []byte
	err error
}

// inputError maps end of input to operator cancellation.
func inputError(err error) error {
	if errors.Is(err, io.EOF) {
		return controller.ErrCancelled
	}
	return err
}

// lineReader owns the only goroutine reading the input stream. A line that
// was requested but abandoned because ctx ended is handed to the next
// ReadLine call instead of being lost.
type lineReader struct {
	br   *bufio.Reader
	req  chan struct{}
	resp chan lineResult
	once sync.Once

	mu      sync.Mutex
	pending bool
}

type lineResult struct {
	line string
	err  error
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{
		br:   bufio.NewReader(r),
		req:  make(chan struct{}, 1),
		resp: make(chan lineResult),
	}
}

func (l *lineReader) loop() {
	for range l.req {
		line, err := l.br.ReadString('\n')
		if errors.Is(err, io.EOF) && line != "" {
			err = nil
		}
		l.resp <- lineResult{line: strings.TrimRight(line, "\r\n"), err: err}
	}
}

func (l *lineReader) ReadLine(ctx context.Context) (string, error) {
	l.once.Do(func() { go l.loop() })

	l.mu.Lock()
	if !l.pending {
		l.pending = true
		l.req <- struct{}{}
	}
	l.mu.Unlock()

	select {
	case r := <-l.resp:
		l.mu.Lock()
		l.pending = false
		l.mu.Unlock()
		return r.line, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Pending reports whether a line read is in flight.
func (l *lineReader) Pending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending
}
