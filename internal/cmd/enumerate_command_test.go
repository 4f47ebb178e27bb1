package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/salmonumbrella/subtags/internal/tagpath"
)

const sampleOutline = "Main Tag\n    Sub One\n    Sub Two\nSecond Main\n"

func TestEnumerateText(t *testing.T) {
	out, errOut, err := runCLI(t, cliRun{}, "--output", "text", "enumerate", "--text", sampleOutline)
	if err != nil {
		t.Fatalf("enumerate failed: %v", err)
	}

	want := "01_Main_Tag\n01_Main_Tag::01_Sub_One\n01_Main_Tag::02_Sub_Two\n02_Second_Main\n"
	if out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
	if !strings.Contains(errOut, "Each line is enumerated at its indentation level") {
		t.Errorf("expected explanation on stderr, got %q", errOut)
	}
}

func TestEnumerateQuietHidesExplanation(t *testing.T) {
	_, errOut, err := runCLI(t, cliRun{}, "--output", "text", "--quiet", "enumerate", "--text", "A")
	if err != nil {
		t.Fatalf("enumerate failed: %v", err)
	}
	if errOut != "" {
		t.Errorf("expected no stderr with --quiet, got %q", errOut)
	}
}

func TestEnumerateJSONWithParentAndLeaves(t *testing.T) {
	out, _, err := runCLI(t, cliRun{}, "-o", "json", "enumerate", "--text", sampleOutline, "--parent", "Med School", "--leaves")
	if err != nil {
		t.Fatalf("enumerate failed: %v", err)
	}

	var got enumerateResult
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("parse output: %v\n%s", err, out)
	}
	want := []string{
		"Med_School::01_Main_Tag::01_Sub_One",
		"Med_School::01_Main_Tag::02_Sub_Two",
		"Med_School::02_Second_Main",
	}
	if got.Parent != "Med_School" || got.Count != 3 || strings.Join(got.Results, ",") != strings.Join(want, ",") {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestEnumerateParentFromConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("parent_tag: Deck\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, _, err := runCLI(t, cliRun{}, "--config", cfgPath, "-o", "json", "--query", ".paths[]", "enumerate", "--text", "A")
	if err != nil {
		t.Fatalf("enumerate failed: %v", err)
	}
	if strings.TrimSpace(out) != `"Deck::01_A"` {
		t.Errorf("stdout = %q", out)
	}
}

func TestEnumerateFlagParentOverridesEnv(t *testing.T) {
	env := map[string]string{envParentTag: "FromEnv"}
	out, _, err := runCLI(t, cliRun{env: env}, "-o", "json", "--query", ".parent", "enumerate", "--text", "A", "--parent", "FromFlag")
	if err != nil {
		t.Fatalf("enumerate failed: %v", err)
	}
	if strings.TrimSpace(out) != `"FromFlag"` {
		t.Errorf("stdout = %q", out)
	}
}

func TestEnumerateFromStdin(t *testing.T) {
	out, _, err := runCLI(t, cliRun{stdin: "Topic\n\tChild\n"}, "-o", "ndjson", "--query", ".paths[]", "enumerate")
	if err != nil {
		t.Fatalf("enumerate failed: %v", err)
	}
	if out != "\"01_Topic\"\n\"01_Topic::01_Child\"\n" {
		t.Errorf("stdout = %q", out)
	}
}

func TestEnumerateFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outline.txt")
	if err := os.WriteFile(path, []byte(sampleOutline), 0o644); err != nil {
		t.Fatalf("write outline: %v", err)
	}

	out, _, err := runCLI(t, cliRun{}, "-o", "json", "--query", ".count", "enumerate", "--file", path)
	if err != nil {
		t.Fatalf("enumerate failed: %v", err)
	}
	if strings.TrimSpace(out) != "4" {
		t.Errorf("stdout = %q", out)
	}
}

func TestEnumerateResultLimit(t *testing.T) {
	out, _, err := runCLI(t, cliRun{}, "--output", "text", "--quiet", "--result-limit", "2", "enumerate", "--text", sampleOutline)
	if err != nil {
		t.Fatalf("enumerate failed: %v", err)
	}
	if out != "01_Main_Tag\n01_Main_Tag::01_Sub_One\n" {
		t.Errorf("stdout = %q", out)
	}
}

func TestEnumerateTrace(t *testing.T) {
	out, _, err := runCLI(t, cliRun{}, "-o", "json", "enumerate", "--trace", "--text", "A\n\n    B")
	if err != nil {
		t.Fatalf("enumerate failed: %v", err)
	}

	var entries []tagpath.Entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("parse output: %v\n%s", err, out)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].Level != 1 || entries[1].Path != "01_A::01_B" || !entries[1].Leaf || entries[0].Leaf {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestEnumerateTraceUsesParentAndLeaves(t *testing.T) {
	run := cliRun{env: map[string]string{"SUBTAGS_PARENT_TAG": "Deck"}}
	out, _, err := runCLI(t, run, "-o", "json", "enumerate", "--trace", "--leaves", "--text", "A\n    B\nC")
	if err != nil {
		t.Fatalf("enumerate failed: %v", err)
	}

	var entries []tagpath.Entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("parse output: %v\n%s", err, out)
	}
	var got []string
	for _, e := range entries {
		got = append(got, e.Path)
	}
	want := []string{"Deck::01_A::01_B", "Deck::02_C"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("trace paths = %v, want %v", got, want)
	}

	paths, _, err := runCLI(t, run, "--output", "text", "enumerate", "--leaves", "--text", "A\n    B\nC")
	if err != nil {
		t.Fatalf("enumerate failed: %v", err)
	}
	if paths != "Deck::01_A::01_B\nDeck::02_C\n" {
		t.Errorf("trace disagrees with enumerate output %q", paths)
	}
}

func TestEnumerateBlankOutline(t *testing.T) {
	out, errOut, err := runCLI(t, cliRun{}, "--output", "text", "enumerate", "--text", "   \n\t\n")
	if err != nil {
		t.Fatalf("enumerate failed: %v", err)
	}
	if out != "" {
		t.Errorf("expected no paths, got %q", out)
	}
	if !strings.Contains(errOut, "No tags") {
		t.Errorf("expected notice on stderr, got %q", errOut)
	}
}
