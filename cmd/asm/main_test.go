package main

import (
	"bytes"
	"errors"
	"testing"

	"go.uber.org/zap"

	"go.creack.net/intcode/asm"
	"go.creack.net/intcode/cli"
)

func TestRun(t *testing.T) {
	app := &cli.App{Logger: zap.NewNop()}
	src := "loop: out #7\njz #0, #loop\n"

	var buf bytes.Buffer
	if err := run(app, "loop.ic", src, &buf, false); err != nil {
		t.Fatalf("run: %s", err)
	}
	if want := "104,7,1106,0,0\n"; buf.String() != want {
		t.Errorf("image = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	if err := run(app, "loop.ic", src, &buf, true); err != nil {
		t.Fatalf("run pretty: %s", err)
	}
	if want := "0000  out   #7\n0002  jz    #0, #0\n"; buf.String() != want {
		t.Errorf("listing = %q, want %q", buf.String(), want)
	}

	if err := run(app, "bad.ic", "nop", &buf, false); !errors.Is(err, asm.ErrUnknownInstruction) {
		t.Errorf("err = %v, want %v", err, asm.ErrUnknownInstruction)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"prog.ic", "prog.txt"},
		{"dir.v2/prog", "dir.v2/prog.txt"},
		{"a/b.c.ic", "a/b.c.txt"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.in); got != tt.want {
			t.Errorf("outputPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
