package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunExtractWritesPOT(t *testing.T) {
	tmp := t.TempDir()
	srcDir := filepath.Join(tmp, "src")
	if err := os.Mkdir(srcDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(srcDir, "a.go"), []byte("package p\nfunc f() {\n\tT(\"hello\")\n}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	outPath := filepath.Join(tmp, "out.pot")
	prevRoot := rootDir
	rootDir = tmp
	defer func() { rootDir = prevRoot }()

	fl := extractFlags{
		keywords:      []string{"T"},
		noDefaultKeys: true,
		output:        outPath,
	}
	if code, err := runExtract([]string{srcDir}, fl); err != nil || code != 0 {
		t.Fatalf("unexpected result: code=%d err=%v", code, err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("expected output file at %s: %v", outPath, err)
	}
	if !strings.Contains(string(data), `msgid "hello"`) {
		t.Fatalf("expected msgid in output, got:\n%s", data)
	}
}

func TestRunExtractOmitHeader(t *testing.T) {
	tmp := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmp, "a.go"), []byte("package p\nfunc f() {\n\tT(\"hi\")\n}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	outPath := filepath.Join(tmp, "out.pot")
	prevRoot := rootDir
	rootDir = tmp
	defer func() { rootDir = prevRoot }()

	fl := extractFlags{
		keywords:      []string{"T"},
		noDefaultKeys: true,
		omitHeader:    true,
		output:        outPath,
	}
	if code, err := runExtract([]string{tmp}, fl); err != nil || code != 0 {
		t.Fatalf("unexpected result: code=%d err=%v", code, err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "SOME DESCRIPTIVE TITLE") {
		t.Fatalf("expected header to be omitted, got:\n%s", data)
	}
}

func TestRunExtractNonzeroExitOnFatalDiagnostic(t *testing.T) {
	tmp := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmp, "bad.c"), []byte("void f() {\n  T(\"oops);\n}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	outPath := filepath.Join(tmp, "out.pot")
	prevRoot := rootDir
	rootDir = tmp
	defer func() { rootDir = prevRoot }()

	fl := extractFlags{keywords: []string{"T"}, noDefaultKeys: true, output: outPath}
	code, err := runExtract([]string{tmp}, fl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code == 0 {
		t.Fatalf("expected a non-zero exit code for a fatal lexical error")
	}
}

func TestNewRootCmdHasVersionSubcommand(t *testing.T) {
	root := newRootCmd()
	found := false
	for _, c := range root.Commands() {
		if c.Name() == "version" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a version subcommand")
	}
}
