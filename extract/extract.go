// Package extract discovers source files and drives the extraction engine
// across them into a single catalogue: it owns the scan and per-file
// dispatch directly via langgo/langc plus the framework packages, emitting
// into a catalog.Catalog that a PO writer (pofile) serializes.
package extract

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/l10ntools/xtract/catalog"
	"github.com/l10ntools/xtract/flagctx"
	"github.com/l10ntools/xtract/keyword"
	"github.com/l10ntools/xtract/langc"
	"github.com/l10ntools/xtract/langgo"
)

// SupportedExtensions maps file extensions to language names recognized by
// this extractor's two drivers (Go via go/ast, everything else via the
// generic C-like tokeniser).
var SupportedExtensions = map[string]string{
	".go":   "Go",
	".c":    "C",
	".h":    "C",
	".cc":   "C++",
	".cpp":  "C++",
	".cxx":  "C++",
	".hh":   "C++",
	".hpp":  "C++",
	".m":    "ObjectiveC",
	".java": "Java",
	".cs":   "C#",
	".js":   "JavaScript",
	".jsx":  "JavaScript",
	".ts":   "JavaScript",
	".tsx":  "JavaScript",
	".sh":   "Shell",
	".bash": "Shell",
}

// shellShebangs are interpreter prefixes that identify a file as a shell
// script when it has no recognized extension.
var shellShebangs = []string{
	"#!/bin/bash",
	"#!/bin/sh",
	"#!/usr/bin/env bash",
	"#!/usr/bin/env sh",
}

// skipDirs contains directory names to skip during source file scanning.
var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"__pycache__":  true,
	".tox":         true,
	".venv":        true,
	"venv":         true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	".eggs":        true,
}

// detectShebang reads the first line of a file and returns the language name
// if the shebang line matches a known interpreter. Returns "" if not
// recognized.
func detectShebang(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return ""
	}
	line := scanner.Text()
	if !strings.HasPrefix(line, "#!") {
		return ""
	}

	for _, prefix := range shellShebangs {
		if strings.HasPrefix(line, prefix) {
			return "Shell"
		}
	}
	return ""
}

// FindSources recursively finds all source files with known extensions in
// dirs. Also detects extensionless files by shebang. Skips common
// non-source directories and nested git repositories.
func FindSources(dirs []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	for _, dir := range dirs {
		absDir, _ := filepath.Abs(dir)
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil // skip unreadable entries
			}
			if info.IsDir() {
				if skipDirs[info.Name()] {
					return filepath.SkipDir
				}
				absPath, _ := filepath.Abs(path)
				if absPath != absDir {
					if _, err := os.Stat(filepath.Join(path, ".git")); err == nil {
						return filepath.SkipDir
					}
				}
				return nil
			}
			if seen[path] {
				return nil
			}
			ext := filepath.Ext(path)
			if _, ok := SupportedExtensions[ext]; ok {
				seen[path] = true
				files = append(files, path)
				return nil
			}
			if ext == "" && info.Mode().IsRegular() && info.Size() > 0 && info.Size() < 10*1024*1024 {
				if lang := detectShebang(path); lang != "" {
					seen[path] = true
					files = append(files, path)
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", dir, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// FileLanguage returns the language for a source file, checking the
// extension first and falling back to shebang detection.
func FileLanguage(path string) string {
	ext := filepath.Ext(path)
	if lang, ok := SupportedExtensions[ext]; ok {
		return lang
	}
	return detectShebang(path)
}

// SplitGoFiles separates Go files from non-Go files in a file list.
func SplitGoFiles(files []string) (goFiles, otherFiles []string) {
	for _, f := range files {
		if FileLanguage(f) == "Go" {
			goFiles = append(goFiles, f)
		} else {
			otherFiles = append(otherFiles, f)
		}
	}
	return
}

// DetectedLanguages returns the set of languages found in the file list.
func DetectedLanguages(files []string) []string {
	langSet := make(map[string]bool)
	for _, f := range files {
		if lang := FileLanguage(f); lang != "" {
			langSet[lang] = true
		}
	}
	var langs []string
	for lang := range langSet {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// FilesByLanguage groups source files by their detected language.
func FilesByLanguage(files []string) map[string][]string {
	result := make(map[string][]string)
	for _, f := range files {
		if lang := FileLanguage(f); lang != "" {
			result[lang] = append(result[lang], f)
		}
	}
	return result
}

// DescribeFiles returns a human-readable summary of the source files found,
// e.g. "12 Go, 3 C".
func DescribeFiles(files []string) string {
	byLang := FilesByLanguage(files)
	var langs []string
	for lang := range byLang {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	var parts []string
	for _, lang := range langs {
		parts = append(parts, fmt.Sprintf("%d %s", len(byLang[lang]), lang))
	}
	return strings.Join(parts, ", ")
}

// FlagSpec is one "(name:argnum:lang-format)" annotation from the driver
// configuration table.
type FlagSpec struct {
	Name   string
	Argnum int
	Lang   string
	// PassThrough marks a flag_spec as "this argument's region passes
	// through unchanged" rather than naming a format language.
	PassThrough bool
}

// ParseFlagSpec parses one "NAME:ARGNUM:LANG" or "NAME:ARGNUM:pass-through"
// flag spec string into a FlagSpec. ok is false for a malformed spec, which
// callers should silently ignore, matching keyword.Parse's "malformed specs
// are silently ignored" convention.
func ParseFlagSpec(spec string) (fs FlagSpec, ok bool) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) != 3 {
		return FlagSpec{}, false
	}
	var argnum int
	if _, err := fmt.Sscanf(parts[1], "%d", &argnum); err != nil || argnum < 1 {
		return FlagSpec{}, false
	}
	if parts[2] == "pass-through" {
		return FlagSpec{Name: parts[0], Argnum: argnum, PassThrough: true}, true
	}
	return FlagSpec{Name: parts[0], Argnum: argnum, Lang: parts[2]}, true
}

// Config is the driver's configuration table.
type Config struct {
	// Dirs are the source directories to scan.
	Dirs []string
	// KeywordSpecs are additional "NAME[:ARG,...]" keyword specs.
	KeywordSpecs []string
	// DisableDefaultKeywords suppresses keyword.DefaultGettextKeywords
	// even when KeywordSpecs is non-empty.
	DisableDefaultKeywords bool
	// FlagSpecs are additional flag/context registrations.
	FlagSpecs []FlagSpec
	// ExcludeCatalogue is a path to a PO file whose keys are excluded.
	ExcludeCatalogue string
	// OmitHeader skips header synthesis.
	OmitHeader bool

	MsgstrPrefix string
	MsgstrSuffix string

	Package         string
	Version         string
	BugsAddress     string
	CopyrightHolder string
}

// Diagnostic is one `FILE:LINE: severity: message` line of the error
// channel.
type Diagnostic struct {
	File     string
	Line     int
	Severity string // "warning", "error", "fatal-error"
	Message  string
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s:%d: %s: %s", d.File, d.Line, d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.File, d.Severity, d.Message)
}

// Result is the outcome of a Driver run.
type Result struct {
	SourceFiles []string
	Languages   []string
	Catalog     *catalog.Catalog
	Diagnostics []Diagnostic
}

// ExitCode returns 0 if no error/fatal-error diagnostics were recorded,
// non-zero otherwise.
func (r *Result) ExitCode() int {
	for _, d := range r.Diagnostics {
		if d.Severity == "error" || d.Severity == "fatal-error" {
			return 1
		}
	}
	return 0
}

// Driver runs the extraction engine over a Config's source directories,
// initialising the keyword table and flag registry once and reusing them
// across every file.
type Driver struct {
	cfg Config

	keywords *keyword.Table
	flags    *flagctx.Registry
	cat      *catalog.Catalog

	diagnostics []Diagnostic
	excludeKeys []excludeKey
}

// NewDriver builds a Driver from cfg, registering keywords and flags once.
func NewDriver(cfg Config) *Driver {
	kw := keyword.New()
	if !cfg.DisableDefaultKeywords {
		kw.AddDefault(keyword.DefaultGettextKeywords)
	}
	kw.AddDefault(cfg.KeywordSpecs)

	fl := flagctx.New()
	for _, fs := range cfg.FlagSpecs {
		if fs.PassThrough {
			fl.AddPassThrough(fs.Name, fs.Argnum)
		} else {
			fl.AddPass(fs.Name, fs.Argnum, fs.Lang)
		}
	}

	cat := catalog.New(cfg.MsgstrPrefix, cfg.MsgstrSuffix)

	return &Driver{cfg: cfg, keywords: kw, flags: fl, cat: cat}
}

// Catalog returns the driver's catalogue, populated incrementally as Run or
// ExtractFile are called.
func (d *Driver) Catalog() *catalog.Catalog {
	return d.cat
}

// Run discovers source files under the configured directories and extracts
// every one into the driver's catalogue, returning a Result.
func (d *Driver) Run() (*Result, error) {
	if d.cfg.ExcludeCatalogue != "" {
		if err := d.loadExclusions(d.cfg.ExcludeCatalogue); err != nil {
			return nil, fmt.Errorf("loading exclusion catalogue: %w", err)
		}
	}

	files, err := FindSources(d.cfg.Dirs)
	if err != nil {
		return nil, err
	}

	for _, path := range files {
		d.ExtractFile(path)
	}

	return &Result{
		SourceFiles: files,
		Languages:   DetectedLanguages(files),
		Catalog:     d.cat,
		Diagnostics: d.Diagnostics(),
	}, nil
}

// ExtractFile extracts one file, appending any diagnostic produced to the
// driver's accumulated list: the driver is the single point that maps
// per-file failures to user-visible output.
func (d *Driver) ExtractFile(path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		d.diagnostics = append(d.diagnostics, Diagnostic{File: path, Severity: "error", Message: err.Error()})
		return
	}

	switch lang := FileLanguage(path); lang {
	case "Go":
		e := langgo.New(d.keywords, d.flags, d.cat)
		if err := e.ExtractFile(path, raw); err != nil {
			d.diagnostics = append(d.diagnostics, Diagnostic{File: path, Severity: "fatal-error", Message: err.Error()})
		}
	case "":
		// Unrecognized language: nothing to extract, not an error.
	default:
		e := langc.New(d.keywords, d.flags, d.cat)
		err := e.ExtractFile(path, raw)
		for _, diag := range e.Diagnostics {
			sev := "warning"
			if diag.Fatal {
				sev = "fatal-error"
			}
			d.diagnostics = append(d.diagnostics, Diagnostic{File: path, Line: diag.Pos.Line, Severity: sev, Message: diag.Message})
		}
		if err != nil && len(e.Diagnostics) == 0 {
			// A failure before the tokeniser produced any lexical
			// diagnostic (e.g. srcreader construction) has no line to
			// report.
			d.diagnostics = append(d.diagnostics, Diagnostic{File: path, Severity: "fatal-error", Message: err.Error()})
		}
	}
}

// Diagnostics returns every accumulated diagnostic, including catalogue-
// level semantic errors and warnings folded in as `error`/`warning`
// severity lines.
func (d *Driver) Diagnostics() []Diagnostic {
	out := append([]Diagnostic(nil), d.diagnostics...)
	for _, msg := range d.cat.Errors {
		out = append(out, Diagnostic{Severity: "error", Message: msg})
	}
	for _, msg := range d.cat.Warnings {
		out = append(out, Diagnostic{Severity: "warning", Message: msg})
	}
	return out
}

// HeaderOptions builds catalog.HeaderOptions from the driver configuration.
func (d *Driver) HeaderOptions() catalog.HeaderOptions {
	return catalog.HeaderOptions{
		Package:         d.cfg.Package,
		Version:         d.cfg.Version,
		BugsAddress:     d.cfg.BugsAddress,
		CopyrightHolder: d.cfg.CopyrightHolder,
		OmitHeader:      d.cfg.OmitHeader,
	}
}
