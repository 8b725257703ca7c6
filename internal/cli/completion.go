package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// All shell completion functions generate from this registry, so adding
// a new flag only requires appending to flagRegistry.
type FlagCompletion struct {
	Long      string   // long flag name without "--" (e.g., "help")
	Short     string   // short flag without "-" (e.g., "h")
	Help      string   // description text
	Section   string   // fish comment section the flag is listed under
	Values    []string // suggested completion values (nil = boolean/no suggestions)
	ValueName string   // label for the value in zsh (e.g., "number", "duration")
	IsFile    bool     // true if the flag takes a file path
}

// flagRegistry is the central list of all CLI flags for completion generation.
var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message", Section: "Help and version"},
	{Long: "version", Short: "V", Help: "Show version information", Section: "Help and version"},
	{Long: "population", Short: "N", Help: "Total population", Section: "Model", ValueName: "number"},
	{Long: "initial-infected", Help: "Infected people at day 0", Section: "Model", ValueName: "number"},
	{Long: "days", Help: "Simulated horizon in days", Section: "Model", Values: []string{"80", "160", "365"}, ValueName: "days"},
	{Long: "samples", Help: "Number of report times", Section: "Model", ValueName: "number"},
	{Long: "place", Help: "Place named in chart titles", Section: "Model", ValueName: "name"},
	{Long: "plague-beta", Help: "Plague transmission rate", Section: "Diseases", ValueName: "rate"},
	{Long: "plague-gamma", Help: "Plague recovery rate", Section: "Diseases", ValueName: "rate"},
	{Long: "plague-fatality", Help: "Plague fatality ratio", Section: "Diseases", ValueName: "ratio"},
	{Long: "covid-beta", Help: "COVID-19 transmission rate", Section: "Diseases", ValueName: "rate"},
	{Long: "covid-gamma", Help: "COVID-19 recovery rate", Section: "Diseases", ValueName: "rate"},
	{Long: "covid-fatality", Help: "COVID-19 fatality ratio", Section: "Diseases", ValueName: "ratio"},
	{Long: "rtol", Help: "Solver relative tolerance", Section: "Solver", Values: []string{"1e-3", "1e-6", "1e-9"}, ValueName: "tolerance"},
	{Long: "atol", Help: "Solver absolute tolerance", Section: "Solver", Values: []string{"1e-6", "1e-9", "1e-12"}, ValueName: "tolerance"},
	{Long: "max-step", Help: "Largest solver step in days", Section: "Solver", ValueName: "days"},
	{Long: "workers", Help: "Scenarios simulated concurrently", Section: "Solver", Values: []string{"1", "2"}, ValueName: "number"},
	{Long: "timeout", Help: "Maximum execution time", Section: "Solver", Values: []string{"10s", "1m", "5m"}, ValueName: "duration"},
	{Long: "plot", Help: "Chart output file", Section: "Output", IsFile: true, ValueName: "file"},
	{Long: "series-csv", Help: "Series CSV output file", Section: "Output", IsFile: true, ValueName: "file"},
	{Long: "metrics-file", Help: "Prometheus textfile output", Section: "Output", IsFile: true, ValueName: "file"},
	{Long: "interactive", Help: "Open the interactive viewer", Section: "Output"},
	{Long: "details", Short: "d", Help: "Show model and solver details", Section: "Output"},
	{Long: "quiet", Short: "q", Help: "Quiet mode for scripts", Section: "Output"},
	{Long: "verbose", Short: "v", Help: "Debug logging", Section: "Output"},
	{Long: "no-color", Help: "Disable colored output", Section: "Output"},
	{Long: "completion", Help: "Generate completion script", Section: "Completion", Values: []string{"bash", "zsh", "fish"}, ValueName: "shell"},
}

// GenerateCompletion writes a completion script for shell ("bash", "zsh"
// or "fish") to out.
func GenerateCompletion(out io.Writer, shell string) error {
	switch shell {
	case "bash":
		return generateBashCompletion(out)
	case "zsh":
		return generateZshCompletion(out)
	case "fish":
		return generateFishCompletion(out)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish)", shell)
	}
}

// generateBashCompletion generates a Bash completion script.
func generateBashCompletion(out io.Writer) error {
	var opts, filePatterns []string
	for _, f := range flagRegistry {
		if f.Long != "" {
			opts = append(opts, "--"+f.Long)
		}
		if f.Short != "" {
			opts = append(opts, "-"+f.Short)
		}
		if f.IsFile {
			filePatterns = append(filePatterns, "--"+f.Long)
		}
	}

	var caseBody strings.Builder
	writeCase := func(patterns []string, body string) {
		caseBody.WriteString("        ")
		caseBody.WriteString(strings.Join(patterns, "|"))
		caseBody.WriteString(")\n            ")
		caseBody.WriteString(body)
		caseBody.WriteString("\n            return 0\n            ;;\n")
	}
	if len(filePatterns) > 0 {
		writeCase(filePatterns, `COMPREPLY=( $(compgen -f -- "${cur}") )`)
	}
	for _, f := range flagRegistry {
		if !f.IsFile && len(f.Values) > 0 {
			writeCase([]string{"--" + f.Long}, fmt.Sprintf(`COMPREPLY=( $(compgen -W "%s" -- "${cur}") )`, strings.Join(f.Values, " ")))
		}
	}

	script := fmt.Sprintf(`# Bash completion script for sircompare
# Add this to your ~/.bashrc or ~/.bash_completion

_sircompare_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    opts="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _sircompare_completions sircompare
`, strings.Join(opts, " "), caseBody.String())

	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion bash generation failed: %w", err)
	}
	return nil
}

// generateZshCompletion generates a Zsh completion script.
func generateZshCompletion(out io.Writer) error {
	args := make([]string, 0, len(flagRegistry))
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f))
	}

	script := fmt.Sprintf(`#compdef sircompare

# Zsh completion script for sircompare
# Add this to your ~/.zshrc or place in $fpath

_sircompare() {
    _arguments -s \
%s
}

_sircompare "$@"
`, strings.Join(args, " \\\n"))

	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion zsh generation failed: %w", err)
	}
	return nil
}

// zshArgEntry formats a single FlagCompletion as a zsh _arguments entry.
func zshArgEntry(f FlagCompletion) string {
	valueSuffix := ""
	switch {
	case f.IsFile:
		valueSuffix = fmt.Sprintf(":%s:_files", f.ValueName)
	case len(f.Values) > 0:
		valueSuffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	case f.ValueName != "":
		valueSuffix = fmt.Sprintf(":%s:", f.ValueName)
	}

	if f.Short != "" {
		return fmt.Sprintf("        '(-%s --%s)'{-%s,--%s}'[%s]%s'",
			f.Short, f.Long, f.Short, f.Long, f.Help, valueSuffix)
	}
	return fmt.Sprintf("        '--%s[%s]%s'", f.Long, f.Help, valueSuffix)
}

// generateFishCompletion generates a Fish completion script.
func generateFishCompletion(out io.Writer) error {
	lines := []string{
		"# Fish completion script for sircompare",
		"# Add this to ~/.config/fish/completions/sircompare.fish",
		"",
		"# Disable file completion by default",
		"complete -c sircompare -f",
	}

	section := ""
	for _, f := range flagRegistry {
		if f.Section != section {
			section = f.Section
			lines = append(lines, "", "# "+section)
		}
		lines = append(lines, fishCompleteLine(f))
	}
	lines = append(lines, "")

	if _, err := fmt.Fprint(out, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("completion fish generation failed: %w", err)
	}
	return nil
}

// fishCompleteLine formats a single FlagCompletion as a fish complete command.
func fishCompleteLine(f FlagCompletion) string {
	parts := []string{"complete -c sircompare"}
	if f.Short != "" {
		parts = append(parts, "-s "+f.Short)
	}
	parts = append(parts, "-l "+f.Long, fmt.Sprintf("-d '%s'", f.Help))

	switch {
	case f.IsFile:
		parts = append(parts, "-rF")
	case len(f.Values) > 0:
		parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
	case f.ValueName != "":
		parts = append(parts, "-x")
	}
	return strings.Join(parts, " ")
}
