package iocli

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStdio(t *testing.T) {
	stdio := NewStdio()
	assert.NotNil(t, stdio)
}

func TestPrintlnAndPrintf(t *testing.T) {
	var out strings.Builder
	stdio := &Stdio{in: os.Stdin, out: &out}

	stdio.Println("hello", "world")
	stdio.Printf("test %d %s", 1, "abc")

	assert.Equal(t, "hello world\ntest 1 abc", out.String())
}

func TestReadInput(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)

	// Пишем в pipe в отдельной горутине, имитируя ввод пользователя
	go func() {
		_, _ = w.Write([]byte("  ada@example.com  \n"))
		_ = w.Close()
	}()

	var out strings.Builder
	stdio := &Stdio{in: r, out: &out}

	result, err := stdio.ReadInput("Email: ")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", result)
	assert.Equal(t, "Email: ", out.String())
}
