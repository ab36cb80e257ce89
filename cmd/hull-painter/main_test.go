package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"go.creack.net/intcode/cli"
)

func TestRun(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Paint what the camera sees inverted, turn right, three times.
	// in @100; eq @100 #0 -> @100; out @100; out #1.
	step := []int64{3, 100, 1008, 100, 0, 100, 4, 100, 104, 1}
	var program []int64
	for range 3 {
		program = append(program, step...)
	}
	program = append(program, 99)

	var buf bytes.Buffer
	if err := run(ctx, &cli.App{Logger: zap.NewNop()}, program, &buf); err != nil {
		t.Fatalf("run: %s", err)
	}
	// From black: origin, (1,0) and (1,-1) turn white. From white the
	// origin turns black.
	want := "Number of panels painted at least once: 3\n" +
		" #\n" +
		" #\n"
	if buf.String() != want {
		t.Errorf("output:\n%q\nwant:\n%q", buf.String(), want)
	}
}
