// Package config auto-detects project settings (package name, version,
// source directories) and loads the optional on-disk keyword/flag list
// consumed by the extractor driver.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Project holds auto-detected project configuration feeding the driver's
// header-synthesis fields and default source directories.
type Project struct {
	// Name is the project/package name.
	Name string
	// Version from debian/changelog, or a fallback.
	Version string
	// SourceDirs are directories to scan for translatable source files.
	SourceDirs []string
	// BugsEmail for the POT header's Report-Msgid-Bugs-To.
	BugsEmail string
	// CopyrightHolder for the POT header's Copyright line.
	CopyrightHolder string
	// POTFile is the default output path for the generated template.
	POTFile string
}

// Detect auto-detects project settings from the working directory: the
// package name/version from debian/changelog (falling back to the
// directory name and "0.0.0"), and any of the conventional source
// directories that exist.
func Detect(rootDir string) *Project {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		absRoot = rootDir
	}

	p := &Project{
		BugsEmail:       "support@minios.dev",
		CopyrightHolder: "MiniOS Linux",
		POTFile:         filepath.Join(absRoot, "po", "messages.pot"),
	}

	if name, version, err := parseChangelog(filepath.Join(absRoot, "debian", "changelog")); err == nil {
		p.Name = name
		p.Version = version
	}
	if p.Name == "" {
		p.Name = filepath.Base(absRoot)
	}
	if p.Version == "" {
		p.Version = "0.0.0"
	}

	for _, candidate := range []string{"client", "src", "lib", "cmd"} {
		dir := filepath.Join(absRoot, candidate)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			p.SourceDirs = append(p.SourceDirs, dir)
		}
	}
	if len(p.SourceDirs) == 0 {
		p.SourceDirs = []string{absRoot}
	}

	return p
}

// changelogRe matches a debian/changelog's first line: "name (version) ...".
var changelogRe = regexp.MustCompile(`^(\S+)\s+\(([^)]+)\)`)

// parseChangelog extracts the package name and version from the first line
// of a debian/changelog file.
func parseChangelog(path string) (name, version string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if scanner.Scan() {
		if matches := changelogRe.FindStringSubmatch(scanner.Text()); len(matches) >= 3 {
			return matches[1], matches[2], nil
		}
	}
	return "", "", os.ErrNotExist
}

// KeywordFile is the on-disk shape of an optional YAML file supplying
// keyword and flag specs beyond what was passed on the command line.
type KeywordFile struct {
	// Keywords are "NAME[:ARG,...]" keyword specs, xgettext syntax.
	Keywords []string `yaml:"keywords"`
	// Flags are "NAME:ARGNUM:LANG" or "NAME:ARGNUM:pass-through" entries.
	Flags []string `yaml:"flags"`
}

// LoadKeywordFile parses a YAML keyword/flag list from path.
func LoadKeywordFile(path string) (*KeywordFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading keyword file: %w", err)
	}
	var kf KeywordFile
	if err := yaml.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parsing keyword file %s: %w", path, err)
	}
	return &kf, nil
}
