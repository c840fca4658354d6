package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func captureOutput(t *testing.T) (out, errOut *bytes.Buffer) {
	t.Helper()
	out, errOut = new(bytes.Buffer), new(bytes.Buffer)
	prevOut, prevErr := stdout, stderr
	stdout, stderr = out, errOut
	t.Cleanup(func() { stdout, stderr = prevOut, prevErr })
	return out, errOut
}

func TestSpinnerStop(t *testing.T) {
	_, errOut := captureOutput(t)

	s := startSpinner(context.Background(), "Scanning")
	time.Sleep(120 * time.Millisecond)
	s.stop()
	s.stop()

	if !strings.Contains(errOut.String(), "Scanning") {
		t.Errorf("spinner output %q missing message", errOut.String())
	}
}

func TestSpinnerContextCancel(t *testing.T) {
	captureOutput(t)

	ctx, cancel := context.WithCancel(context.Background())
	s := startSpinner(ctx, "Fetching")
	cancel()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner did not stop after context cancellation")
	}
	if !s.cancelled() {
		t.Error("cancelled() = false after parent context ended")
	}
	s.stop()
}

func TestSpinnerSuccessAndFail(t *testing.T) {
	out, _ := captureOutput(t)

	startSpinner(context.Background(), "one").success("built %d", 3)
	startSpinner(context.Background(), "two").fail("broke")

	got := out.String()
	if !strings.Contains(got, "built 3") || !strings.Contains(got, "broke") {
		t.Errorf("output = %q", got)
	}
}
