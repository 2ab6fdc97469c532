package ui

import (
	"bytes"
	"context"
	"testing"
)

func TestTerminal_SplitsStreams(t *testing.T) {
	var out, errOut bytes.Buffer
	u := NewWriters(&out, &errOut, false)
	ctx := context.Background()

	u.PrintDocument(ctx, "1 Alien (1979)")
	u.PrintInfo(ctx, "info")
	u.PrintError(ctx, "Invalid viewing")

	if out.String() != "1 Alien (1979)\n" {
		t.Errorf("stdout = %q", out.String())
	}
	if errOut.String() != "info\nInvalid viewing\n" {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestTerminal_Quiet(t *testing.T) {
	var out, errOut bytes.Buffer
	u := NewWriters(&out, &errOut, true)
	u.PrintInfo(context.Background(), "hidden")
	u.PrintError(context.Background(), "shown")
	if errOut.String() != "shown\n" {
		t.Errorf("stderr = %q", errOut.String())
	}
}
