package iocli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Stdio реализует IO поверх потоков процесса
// Потоки инжектируются, чтобы ReadInput был тестируемым
type Stdio struct {
	in  *os.File
	out io.Writer
}

func NewStdio() IO {
	return &Stdio{in: os.Stdin, out: os.Stdout}
}

func (s *Stdio) Println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}

// ReadInput читает строку ввода, обрезая пробелы и перевод строки
func (s *Stdio) ReadInput(prompt string) (string, error) {
	s.Printf("%s", prompt)
	input, err := bufio.NewReader(s.in).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// ReadPassword читает пароль без отображения на экране
func (s *Stdio) ReadPassword(prompt string) (string, error) {
	s.Printf("%s", prompt)
	pwBytes, err := term.ReadPassword(int(s.in.Fd()))
	s.Println()
	if err != nil {
		return "", err
	}
	return string(pwBytes), nil
}
