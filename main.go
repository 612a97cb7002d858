package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"ghkeys/internal/backup"
	"ghkeys/internal/diag"
	"ghkeys/internal/keys"
	"ghkeys/internal/model"
	"ghkeys/internal/sshconf"
	"ghkeys/internal/tui"
	"ghkeys/internal/web"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// colorize gates lipgloss styling on stdout being a terminal, so piping
// output stays clean.
func colorize(style lipgloss.Style, s string) string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return s
	}
	return style.Render(s)
}

func checkUpdate(currentVer string) {
	githubTag := &latest.GithubTag{
		Owner:      "ghkeys",
		Repository: "ghkeys",
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		return // Silently fail
	}

	if res.Outdated {
		fmt.Printf("\n✨ A new version is available: %s (you have %s)\n", res.Current, currentVer)
		fmt.Println("👉 Download it from https://github.com/ghkeys/ghkeys/releases")
	} else if pflag.Lookup("update").Changed {
		fmt.Printf("✅ You are using the latest version: %s\n", currentVer)
	}
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ghkeys [options] [command]\n\n")
		fmt.Fprintf(os.Stderr, "ghkeys manages multiple GitHub SSH identities in your SSH config.\n")
		fmt.Fprintf(os.Stderr, "Each account is a generated key pair plus a Host block routing to github.com.\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  list                      List accounts\n")
		fmt.Fprintf(os.Stderr, "  add <name> <email>        Generate a key and write the Host block\n")
		fmt.Fprintf(os.Stderr, "  remove <name>             Delete the block and its key pair\n")
		fmt.Fprintf(os.Stderr, "  set-email <name> <email>  Rewrite the account's ownership comment\n")
		fmt.Fprintf(os.Stderr, "  export                    Dump accounts (--format json|yaml)\n")
		fmt.Fprintf(os.Stderr, "  split | merge             Move blocks to per-account files and back\n")
		fmt.Fprintf(os.Stderr, "  split-mode on|off         Toggle the Include directive only\n")
		fmt.Fprintf(os.Stderr, "  test <name>               Probe authentication against github.com\n")
		fmt.Fprintf(os.Stderr, "  backup | backups          Snapshot state / list snapshots\n")
		fmt.Fprintf(os.Stderr, "  restore <stamp>           Copy a snapshot back into place\n")
		fmt.Fprintf(os.Stderr, "  doctor                    Diagnostic report (same as --report)\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  ghkeys                      # Start TUI account browser\n")
		fmt.Fprintf(os.Stderr, "  ghkeys add work w@co.com    # New identity, alias github-work\n")
		fmt.Fprintf(os.Stderr, "  ghkeys --report -o r.txt    # Save diagnostic report to file\n")
		fmt.Fprintf(os.Stderr, "  ghkeys list --json          # Output account list as JSON\n")
	}

	jsonFlag := pflag.BoolP("json", "j", false, "Output data as JSON")
	reportFlag := pflag.BoolP("report", "r", false, "Generate a detailed diagnostic report (CLI mode)")
	outputFlag := pflag.StringP("output", "o", "", "Save report/export to the specified file")
	verboseFlag := pflag.BoolP("verbose", "v", false, "Include key details in the report")
	formatFlag := pflag.StringP("format", "f", "json", "Export format: json or yaml")
	webFlag := pflag.BoolP("web", "w", false, "Start the JSON API server on http://localhost:8080")
	portFlag := pflag.String("port", "8080", "Port for --web")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check for latest version")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("ghkeys version %s\n", model.Version)
		return
	}

	if *updateFlag {
		checkUpdate(model.Version)
		return
	}

	paths, err := model.DefaultPaths()
	if err != nil {
		fatal(err)
	}

	if *webFlag {
		if err := web.StartServer(paths, *portFlag); err != nil {
			fatal(err)
		}
		return
	}

	if *reportFlag {
		runReport(paths, *outputFlag, *verboseFlag)
		return
	}

	args := pflag.Args()
	if len(args) == 0 {
		if *jsonFlag {
			runList(paths, true)
			return
		}
		runTuiMode(paths)
		return
	}

	switch args[0] {
	case "list":
		runList(paths, *jsonFlag)
	case "add":
		requireArgs(args, 3, "add <name> <email>")
		runAdd(paths, args[1], args[2])
	case "remove", "rm":
		requireArgs(args, 2, "remove <name>")
		runRemove(paths, args[1])
	case "set-email":
		requireArgs(args, 3, "set-email <name> <email>")
		runSetEmail(paths, args[1], args[2])
	case "export":
		runExport(paths, *formatFlag, *outputFlag)
	case "split":
		runSplit(paths)
	case "merge":
		runMerge(paths)
	case "split-mode":
		requireArgs(args, 2, "split-mode on|off")
		runSplitMode(paths, args[1])
	case "test":
		requireArgs(args, 2, "test <name>")
		runTest(paths, args[1])
	case "backup":
		runBackup(paths)
	case "backups":
		runBackups(paths)
	case "restore":
		requireArgs(args, 2, "restore <stamp>")
		runRestore(paths, args[1])
	case "doctor":
		runReport(paths, *outputFlag, *verboseFlag)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", args[0])
		pflag.Usage()
		os.Exit(2)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "%s %v\n", colorize(errStyle, "Error:"), err)
	os.Exit(1)
}

func requireArgs(args []string, n int, usage string) {
	if len(args) < n {
		fmt.Fprintf(os.Stderr, "Usage: ghkeys %s\n", usage)
		os.Exit(2)
	}
}

// snapshot takes the automatic pre-mutation backup. A failed backup aborts
// the whole operation.
func snapshot(p model.Paths) {
	if _, err := backup.Snapshot(p); err != nil {
		fatal(fmt.Errorf("backup before mutation: %w", err))
	}
}

func activeMode(p model.Paths) model.SourceMode {
	enabled, err := sshconf.SplitEnabled(p)
	if err != nil {
		fatal(err)
	}
	if enabled {
		return model.Split
	}
	return model.Unified
}

func runList(p model.Paths, asJSON bool) {
	dir, err := sshconf.Load(p)
	if err != nil {
		fatal(err)
	}
	records := dir.List()

	if asJSON {
		if records == nil {
			records = []model.AccountRecord{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(records)
		return
	}

	if len(records) == 0 {
		fmt.Println("No accounts found. Create one with: ghkeys add <name> <email>")
		return
	}
	fmt.Printf("%-16s %-28s %-24s %-8s %s\n", "NAME", "EMAIL", "ALIAS", "SOURCE", "MANAGED")
	for _, rec := range records {
		managed := "yes"
		if !rec.Managed {
			managed = colorize(warnStyle, "no")
		}
		fmt.Printf("%-16s %-28s %-24s %-8s %s\n", rec.Name, rec.Email, rec.Alias, rec.Source, managed)
	}
}

func runAdd(p model.Paths, name, email string) {
	if err := sshconf.ValidateName(name); err != nil {
		fatal(err)
	}
	if err := sshconf.ValidateEmail(email); err != nil {
		fatal(err)
	}

	dir, err := sshconf.Load(p)
	if err != nil {
		fatal(err)
	}
	if _, exists := dir.Find(name); exists {
		fatal(fmt.Errorf("%s: %w", name, sshconf.ErrConflict))
	}
	alias := model.AliasFor(name)
	for _, a := range dir.AllAliases() {
		if a == alias {
			fatal(fmt.Errorf("alias %s: %w", alias, sshconf.ErrConflict))
		}
	}
	keyPath := p.KeyPath(name)
	if _, err := os.Stat(keyPath); err == nil {
		fatal(fmt.Errorf("key path %s: %w", keyPath, sshconf.ErrConflict))
	}

	snapshot(p)

	if _, err := keys.Generate(p, name, email); err != nil {
		fatal(err)
	}
	if err := sshconf.WriteBlock(p, name, email, keyPath, activeMode(p)); err != nil {
		fatal(err)
	}
	if err := keys.AgentAdd(keyPath, email); err != nil {
		fmt.Fprintf(os.Stderr, "%s could not add key to ssh-agent: %v\n", colorize(warnStyle, "Warning:"), err)
	}

	fmt.Printf("%s Account %q created (alias %s)\n", colorize(okStyle, "✓"), name, alias)
	fmt.Printf("\nAdd the public key to GitHub:\n  %s.pub\n", keyPath)
	fmt.Printf("\nThen clone with:\n  git clone git@%s:owner/repo.git\n", alias)
}

func runRemove(p model.Paths, name string) {
	dir, err := sshconf.Load(p)
	if err != nil {
		fatal(err)
	}
	rec, found := dir.Find(name)
	if !found {
		fatal(fmt.Errorf("%s: %w", name, sshconf.ErrNotFound))
	}

	snapshot(p)

	if err := sshconf.RemoveBlock(p, name); err != nil {
		fatal(err)
	}
	// Only reap key material we created; hand-managed keys referenced by a
	// discovered block stay put.
	if rec.Managed && rec.KeyPath == p.KeyPath(name) {
		if err := keys.AgentRemove(rec.KeyPath); err != nil {
			fmt.Fprintf(os.Stderr, "%s could not remove key from ssh-agent: %v\n", colorize(warnStyle, "Warning:"), err)
		}
		if err := keys.Remove(rec.KeyPath); err != nil {
			fatal(err)
		}
	}
	fmt.Printf("%s Account %q removed\n", colorize(okStyle, "✓"), name)
}

func runSetEmail(p model.Paths, name, email string) {
	snapshot(p)
	err := sshconf.SetEmail(p, name, email)
	switch {
	case errors.Is(err, sshconf.ErrUnmanaged):
		fatal(fmt.Errorf("account %q exists but is hand-written; edit its block directly", name))
	case err != nil:
		fatal(err)
	}
	fmt.Printf("%s Email for %q set to %s\n", colorize(okStyle, "✓"), name, email)
}

func runExport(p model.Paths, format, outputFile string) {
	dir, err := sshconf.Load(p)
	if err != nil {
		fatal(err)
	}
	records := dir.List()
	if records == nil {
		records = []model.AccountRecord{}
	}

	var data []byte
	switch strings.ToLower(format) {
	case "json":
		data, err = json.MarshalIndent(records, "", "  ")
		data = append(data, '\n')
	case "yaml", "yml":
		data, err = yaml.Marshal(records)
	default:
		fatal(fmt.Errorf("unknown export format %q (want json or yaml)", format))
	}
	if err != nil {
		fatal(err)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, data, 0644); err != nil {
			fatal(err)
		}
		fmt.Printf("Export saved to %s\n", outputFile)
		return
	}
	os.Stdout.Write(data)
}

func runSplit(p model.Paths) {
	snapshot(p)
	moved, err := sshconf.SplitAll(p)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("%s Moved %d block(s) to %s and enabled split mode\n", colorize(okStyle, "✓"), moved, p.SplitDir)
}

func runMerge(p model.Paths) {
	snapshot(p)
	merged, err := sshconf.MergeAll(p)
	if err != nil {
		fatal(err)
	}
	if merged == 0 {
		fmt.Println("Nothing to merge; split mode disabled.")
		return
	}
	fmt.Printf("%s Merged %d block(s) back into %s and disabled split mode\n", colorize(okStyle, "✓"), merged, p.ConfigFile)
}

func runSplitMode(p model.Paths, arg string) {
	switch arg {
	case "on":
		changed, err := sshconf.EnableSplit(p)
		if err != nil {
			fatal(err)
		}
		if changed {
			fmt.Printf("%s Split mode enabled\n", colorize(okStyle, "✓"))
		} else {
			fmt.Println("Split mode was already enabled.")
		}
	case "off":
		changed, err := sshconf.DisableSplit(p)
		if err != nil {
			fatal(err)
		}
		if changed {
			fmt.Printf("%s Split mode disabled\n", colorize(okStyle, "✓"))
		} else {
			fmt.Println("Split mode was already disabled.")
		}
	default:
		fmt.Fprintln(os.Stderr, "Usage: ghkeys split-mode on|off")
		os.Exit(2)
	}
}

func runTest(p model.Paths, name string) {
	dir, err := sshconf.Load(p)
	if err != nil {
		fatal(err)
	}
	rec, found := dir.Find(name)
	if !found {
		fatal(fmt.Errorf("%s: %w", name, sshconf.ErrNotFound))
	}

	fmt.Printf("Probing git@%s ...\n", rec.Alias)
	ok, output := keys.TestAuth(rec.Alias)
	if output != "" {
		fmt.Println(output)
	}
	if ok {
		fmt.Printf("%s Authentication works for %q\n", colorize(okStyle, "✓"), name)
	} else {
		fmt.Printf("%s Authentication failed for %q\n", colorize(errStyle, "✗"), name)
		os.Exit(1)
	}
}

func runBackup(p model.Paths) {
	dir, err := backup.Snapshot(p)
	if err != nil {
		fatal(err)
	}
	if dir == "" {
		fmt.Println("Nothing to back up yet.")
		return
	}
	fmt.Printf("%s Snapshot saved to %s\n", colorize(okStyle, "✓"), dir)
}

func runBackups(p model.Paths) {
	stamps, err := backup.List(p)
	if err != nil {
		fatal(err)
	}
	if len(stamps) == 0 {
		fmt.Println("No snapshots found.")
		return
	}
	for _, s := range stamps {
		fmt.Println(s)
	}
}

func runRestore(p model.Paths, stamp string) {
	snapshot(p)
	if err := backup.Restore(p, stamp); err != nil {
		fatal(err)
	}
	fmt.Printf("%s Restored snapshot %s\n", colorize(okStyle, "✓"), stamp)
}

func runReport(p model.Paths, outputFile string, verbose bool) {
	res, err := diag.Run(p)
	if err != nil {
		fatal(err)
	}
	report := diag.GenerateReport(res, verbose)

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(report), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report to %s: %v\n", outputFile, err)
			os.Exit(1)
		}
		fmt.Printf("Report saved to %s\n", outputFile)
	} else {
		fmt.Println(report)
	}
}

func runTuiMode(p model.Paths) {
	prog := tea.NewProgram(tui.InitialModel(p), tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
