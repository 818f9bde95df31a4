// xtract — a translatable-string extractor for Go, C-family, and shell
// sources, emitting a gettext PO template.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/l10ntools/xtract/config"
	"github.com/l10ntools/xtract/extract"
	"github.com/l10ntools/xtract/pofile"
	"github.com/spf13/cobra"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[0;33m"
	colorBlue   = "\033[0;34m"
	colorCyan   = "\033[0;36m"
	colorDim    = "\033[2m"
	colorBold   = "\033[1m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorCyan+"  → "+colorReset+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"  ✓ "+colorReset+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"  ⚠ "+colorReset+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"  ✗ "+colorReset+format+"\n", args...)
}

// sectionHeader prints a styled section header.
func sectionHeader(title string) {
	fmt.Fprintf(os.Stderr, "\n%s%s %s %s%s\n", colorBold, colorBlue, title, colorReset, "")
	fmt.Fprintln(os.Stderr, colorDim+"  "+strings.Repeat("─", 58)+colorReset)
}

// keyVal prints a key-value pair with consistent alignment.
func keyVal(key, value string) {
	fmt.Fprintf(os.Stderr, "  %s%-14s%s %s\n", colorDim, key, colorReset, value)
}

// ---------------------------------------------------------------------------
// Global flag
// ---------------------------------------------------------------------------

var rootDir string

// extractFlags collects the extractor's configuration table as command-line
// flags, bound directly onto a cobra.Command's flag set.
type extractFlags struct {
	keywords        []string
	noDefaultKeys   bool
	flags           []string
	keywordFile     string
	exclude         string
	omitHeader      bool
	msgstrPrefix    string
	msgstrSuffix    string
	packageName     string
	packageVersion  string
	bugsAddress     string
	copyrightHolder string
	output          string
}

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	var fl extractFlags

	root := &cobra.Command{
		Use:   "xtract [dirs...]",
		Short: "Extract translatable strings into a gettext PO template",
		Long: `xtract scans source directories for translatable strings and writes a
gettext-style PO template (.pot).

Supported source languages:
  Go          via go/ast, parsed with the standard library parser
  C-family    C, C++, Objective-C, Java, C#, JavaScript/TypeScript, shell
              scripts, via a hand-rolled tokeniser

Keyword specs name the functions that mark translatable strings, in the
same "NAME[:ARGSPEC]" syntax as GNU xgettext, e.g. "gettext",
"ngettext:1,2", "pgettext:1c,2". Flag specs mark which arguments of a
call receive a particular format-string language, e.g.
"printf:1:c-format" or "wrap:2:pass-through".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := runExtract(args, fl)
			if err != nil {
				return err
			}
			exitCode = code
			return nil
		},
	}

	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")

	root.Flags().StringArrayVarP(&fl.keywords, "keyword", "k", nil, "additional keyword spec (NAME[:ARGSPEC]), repeatable")
	root.Flags().BoolVar(&fl.noDefaultKeys, "no-default-keywords", false, "disable the built-in gettext/ngettext/pgettext keyword set")
	root.Flags().StringArrayVar(&fl.flags, "flag", nil, "flag spec (NAME:ARGNUM:LANG or NAME:ARGNUM:pass-through), repeatable")
	root.Flags().StringVar(&fl.keywordFile, "keyword-file", "", "YAML file of additional keywords/flags (see config.KeywordFile)")
	root.Flags().StringVar(&fl.exclude, "exclude-catalogue", "", "PO file whose (msgctxt, msgid) keys are excluded from output")
	root.Flags().BoolVar(&fl.omitHeader, "omit-header", false, "don't emit the header entry")
	root.Flags().StringVar(&fl.msgstrPrefix, "msgstr-prefix", "", "prefix applied to every generated msgstr template")
	root.Flags().StringVar(&fl.msgstrSuffix, "msgstr-suffix", "", "suffix applied to every generated msgstr template")
	root.Flags().StringVar(&fl.packageName, "package-name", "", "Project-Id-Version package name (default: auto-detected)")
	root.Flags().StringVar(&fl.packageVersion, "package-version", "", "Project-Id-Version version (default: auto-detected)")
	root.Flags().StringVar(&fl.bugsAddress, "msgid-bugs-address", "", "Report-Msgid-Bugs-To address")
	root.Flags().StringVar(&fl.copyrightHolder, "copyright-holder", "", "Copyright header holder")
	root.Flags().StringVarP(&fl.output, "output", "o", "", "output .pot path (default: auto-detected po/messages.pot)")

	root.AddCommand(newVersionCmd())

	return root
}

// exitCode carries the extraction exit status from runExtract's RunE
// closure out to main, since cobra's Execute() only reports Go errors, not
// application-level exit codes.
var exitCode int

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("xtract version %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built:  %s\n", date)
		},
	}
	return cmd
}

// ---------------------------------------------------------------------------
// extract (root command body)
// ---------------------------------------------------------------------------

// runExtract wires the CLI flags onto extract.Config, runs the driver, and
// writes the resulting catalogue as a PO template. The returned int is the
// process exit code; the returned error is a genuine operational failure
// (bad flags, I/O), distinct from diagnostics recorded during extraction.
func runExtract(args []string, fl extractFlags) (int, error) {
	proj := config.Detect(rootDir)

	cfg := extract.Config{
		Dirs:                   args,
		KeywordSpecs:           append([]string(nil), fl.keywords...),
		DisableDefaultKeywords: fl.noDefaultKeys,
		ExcludeCatalogue:       fl.exclude,
		OmitHeader:             fl.omitHeader,
		MsgstrPrefix:           fl.msgstrPrefix,
		MsgstrSuffix:           fl.msgstrSuffix,
		Package:                fl.packageName,
		Version:                fl.packageVersion,
		BugsAddress:            fl.bugsAddress,
		CopyrightHolder:        fl.copyrightHolder,
	}
	if len(cfg.Dirs) == 0 {
		cfg.Dirs = proj.SourceDirs
	}
	if cfg.Package == "" {
		cfg.Package = proj.Name
	}
	if cfg.Version == "" {
		cfg.Version = proj.Version
	}
	if cfg.BugsAddress == "" {
		cfg.BugsAddress = proj.BugsEmail
	}
	if cfg.CopyrightHolder == "" {
		cfg.CopyrightHolder = proj.CopyrightHolder
	}

	for _, spec := range fl.flags {
		if fs, ok := extract.ParseFlagSpec(spec); ok {
			cfg.FlagSpecs = append(cfg.FlagSpecs, fs)
		} else {
			logWarning("ignoring malformed flag spec %q", spec)
		}
	}

	if fl.keywordFile != "" {
		kf, err := config.LoadKeywordFile(fl.keywordFile)
		if err != nil {
			return 0, err
		}
		cfg.KeywordSpecs = append(cfg.KeywordSpecs, kf.Keywords...)
		for _, spec := range kf.Flags {
			if fs, ok := extract.ParseFlagSpec(spec); ok {
				cfg.FlagSpecs = append(cfg.FlagSpecs, fs)
			} else {
				logWarning("ignoring malformed flag spec %q in %s", spec, fl.keywordFile)
			}
		}
	}

	logInfo("scanning %s", strings.Join(cfg.Dirs, ", "))

	driver := extract.NewDriver(cfg)
	result, err := driver.Run()
	if err != nil {
		return 0, err
	}

	for _, diag := range result.Diagnostics {
		switch diag.Severity {
		case "warning":
			logWarning("%s", diag.String())
		default:
			logError("%s", diag.String())
		}
	}

	header := driver.Catalog().SynthesizeHeader(driver.HeaderOptions(), time.Now())
	file := pofile.FromCatalog(result.Catalog.Messages(), header)

	outPath := fl.output
	if outPath == "" {
		outPath = proj.POTFile
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return 0, err
	}
	if err := file.WriteFile(outPath); err != nil {
		return 0, err
	}

	sectionHeader("Extraction")
	keyVal("Sources", extract.DescribeFiles(result.SourceFiles))
	keyVal("Languages", strings.Join(result.Languages, ", "))
	keyVal("Messages", fmt.Sprintf("%d", result.Catalog.Len()))
	keyVal("Output", outPath)
	fmt.Fprintln(os.Stderr)

	if code := result.ExitCode(); code != 0 {
		logError("extraction finished with errors")
		return code, nil
	}
	logSuccess("wrote %d messages to %s", result.Catalog.Len(), outPath)
	return 0, nil
}
