package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vcd-tools/go-vcd-client/core"
)

func TestConfirmModeFromFlags(t *testing.T) {
	tests := []struct {
		name    string
		force   bool
		decline bool
		want    core.ConfirmMode
	}{
		{name: "neither flag prompts", want: core.ConfirmRequired},
		{name: "force auto-approves", force: true, want: core.ConfirmAutoApprove},
		{name: "decline always declines", decline: true, want: core.ConfirmAlwaysDecline},
		{name: "decline wins over force", force: true, decline: true, want: core.ConfirmAlwaysDecline},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := confirmModeFromFlags(tt.force, tt.decline); got != tt.want {
				t.Errorf("confirmModeFromFlags(%v, %v) = %v, want %v", tt.force, tt.decline, got, tt.want)
			}
		})
	}
}

func TestAskConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "yes word", input: "yes\n", want: true},
		{name: "uppercase yes", input: "Y\n", want: true},
		{name: "no", input: "n\n", want: false},
		{name: "empty defaults to no", input: "\n", want: false},
		{name: "eof defaults to no", input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var prompt bytes.Buffer
			fn := askConfirm(strings.NewReader(tt.input), &prompt)
			if got := fn("action/removeAllSnapshots", "db1"); got != tt.want {
				t.Errorf("askConfirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if !strings.Contains(prompt.String(), "db1") {
				t.Errorf("prompt missing entity name: %q", prompt.String())
			}
		})
	}
}
