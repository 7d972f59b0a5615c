package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestCatalogValidate_Embedded(t *testing.T) {
	out, err := run(t, "catalog", "validate")
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if !strings.HasPrefix(out, "ok: 3 lessons, 9 challenges, 3 questions") {
		t.Errorf("output = %q", out)
	}
}

func TestCatalogValidate_File(t *testing.T) {
	good := writeFile(t, "good.yaml", `
lessons:
  - title: Only
    challenges:
      - text: "Add a <p>"
        pattern: '<p>'
`)
	out, err := run(t, "catalog", "validate", "--file", good)
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if !strings.Contains(out, "ok: 1 lessons, 1 challenges, 0 questions") || !strings.Contains(out, "warning:") {
		t.Errorf("output = %q", out)
	}

	bad := writeFile(t, "bad.yaml", "lessons: []\n")
	if _, err := run(t, "catalog", "validate", "--file", bad); err == nil {
		t.Error("validate should reject a catalog without lessons")
	}
}

func TestCatalogCheck(t *testing.T) {
	pass := writeFile(t, "pass.html", "<!DOCTYPE html>\n<html></html>")
	fail := writeFile(t, "fail.html", "<html></html>")

	out, err := run(t, "catalog", "check", "--lesson", "1", "--challenge", "1", pass)
	if err != nil || !strings.HasPrefix(out, "PASS") {
		t.Errorf("check pass = %q, %v", out, err)
	}

	out, err = run(t, "catalog", "check", "--lesson", "1", "--challenge", "1", fail)
	if !errors.Is(err, errCheckFailed) || !strings.HasPrefix(out, "FAIL") {
		t.Errorf("check fail = %q, %v", out, err)
	}

	if _, err := run(t, "catalog", "check", "--lesson", "9", pass); err == nil {
		t.Error("out-of-range lesson should fail")
	}
	if _, err := run(t, "catalog", "check", "--lesson", "1", "--challenge", "0", pass); err == nil {
		t.Error("out-of-range challenge should fail")
	}
}
