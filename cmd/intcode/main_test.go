package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"go.creack.net/intcode/assets"
	"go.creack.net/intcode/cli"
	"go.creack.net/intcode/vm"
)

func testRun(t *testing.T, cells []int64, in vm.Input, dump bool) (string, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var buf bytes.Buffer
	err := run(ctx, &cli.App{Logger: zap.NewNop()}, cells, in, &buf, dump)
	return buf.String(), err
}

func TestRunQuine(t *testing.T) {
	cells, err := assets.Load("quine")
	if err != nil {
		t.Fatalf("load: %s", err)
	}
	out, err := testRun(t, cells, &stdinInput{}, false)
	if err != nil {
		t.Fatalf("run: %s", err)
	}
	want := "109\n1\n204\n-1\n1001\n100\n1\n100\n1008\n100\n16\n101\n1006\n101\n0\n99\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestRunDump(t *testing.T) {
	out, err := testRun(t, []int64{1, 0, 0, 0, 99}, &stdinInput{}, true)
	if err != nil {
		t.Fatalf("run: %s", err)
	}
	if out != "2,0,0,0,99\n" {
		t.Errorf("output = %q", out)
	}
}

func TestRunStdin(t *testing.T) {
	in := &stdinInput{
		values:  vm.Values{7},
		scanner: bufio.NewScanner(strings.NewReader("\nnope\n8\n")),
	}
	out, err := testRun(t, []int64{3, 0, 4, 0, 3, 0, 4, 0, 99}, in, false)
	if err != nil {
		t.Fatalf("run: %s", err)
	}
	if out != "7\n8\n" {
		t.Errorf("output = %q", out)
	}
}

func TestRunMissingInput(t *testing.T) {
	if _, err := testRun(t, []int64{3, 0, 99}, &stdinInput{}, false); !errors.Is(err, vm.ErrMissingInput) {
		t.Fatalf("got %v, want %v", err, vm.ErrMissingInput)
	}
}
