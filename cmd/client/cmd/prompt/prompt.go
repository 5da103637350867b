package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter читает ответы пользователя. Секреты читаются без эха,
// если ввод идет с терминала.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
	tty bool
}

func New(in *os.File, out io.Writer) *Prompter {
	fd := int(in.Fd())
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
		fd:  fd,
		tty: term.IsTerminal(fd),
	}
}

// NewFromReader создает Prompter без терминала, например для тестов и пайпов
func NewFromReader(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, fd: -1}
}

func (p *Prompter) Line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("ошибка чтения ввода: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *Prompter) Secret(label string) (string, error) {
	if !p.tty {
		return p.Line(label)
	}

	fmt.Fprint(p.out, label)
	b, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("ошибка чтения пароля: %w", err)
	}
	return string(b), nil
}

// NewSecret запрашивает секрет дважды и сверяет ввод
func (p *Prompter) NewSecret(label, confirmLabel string) (string, error) {
	first, err := p.Secret(label)
	if err != nil {
		return "", err
	}
	second, err := p.Secret(confirmLabel)
	if err != nil {
		return "", err
	}
	if first != second {
		return "", fmt.Errorf("пароли не совпадают")
	}
	return first, nil
}
