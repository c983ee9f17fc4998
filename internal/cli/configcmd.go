package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexander-akhmetov/llmc/internal/config"
	"github.com/alexander-akhmetov/llmc/internal/dirs"
	"github.com/alexander-akhmetov/llmc/internal/git"
	"github.com/alexander-akhmetov/llmc/internal/llm"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage llmc configuration",
	Long:  `View and manage llmc configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show resolved configuration with source annotations",
	Long: `Show the fully resolved configuration with annotations indicating
where each value came from.

Configuration is loaded from multiple sources with the following precedence:
  1. Embedded defaults (built into binary)
  2. Global config (~/.config/llmc/config.yaml)
  3. .env in the repository root (never overrides set variables)
  4. Environment variables (LLMC_PROVIDER, LLMC_MODEL, ...)
  5. Project config (llmc.toml in the repository root)
  6. CLI flags (highest precedence)`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func init() {
	configShowCmd.Flags().StringVarP(&commitWorkingDir, "dir", "d", "", "Repository directory (default: current directory)")
	configCmd.AddCommand(configShowCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	dir, err := resolveWorkingDir(commitWorkingDir)
	if err != nil {
		return err
	}

	cfg, err := config.LoadWithDirs(dirs.ConfigDir(), projectRoot(dir))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	isTTY := stdoutIsTerminal()
	width := 0
	if isTTY {
		width, _, _ = term.GetSize(int(os.Stdout.Fd()))
	}
	NewWriter(cmd.OutOrStdout(), isTTY, width).Markdown(configMarkdown(cfg))
	return nil
}

// configMarkdown describes cfg as a markdown document.
func configMarkdown(cfg *config.Config) string {
	var b strings.Builder

	b.WriteString("# llmc Configuration\n\n")

	b.WriteString("## Sources (in order of precedence)\n\n")
	for _, src := range cfg.Sources() {
		fmt.Fprintf(&b, "- `%s`\n", src)
	}
	b.WriteString("\n")

	b.WriteString("## Directories\n\n")
	fmt.Fprintf(&b, "- Global config: `%s`\n", cfg.ConfigDir())
	if cfg.ProjectDir() != "" {
		fmt.Fprintf(&b, "- Project: `%s`\n", cfg.ProjectDir())
	} else {
		b.WriteString("- Project: (none detected)\n")
	}
	b.WriteString("\n")

	b.WriteString("## Provider\n\n")
	fmt.Fprintf(&b, "- provider: `%s`\n", cfg.Provider)
	model := cfg.ToProviderSettings().ResolvedModel()
	switch {
	case cfg.Model != "":
		fmt.Fprintf(&b, "- model: `%s`\n", cfg.Model)
	case model != "":
		fmt.Fprintf(&b, "- model: `%s` (provider default)\n", model)
	default:
		b.WriteString("- model: (provider default)\n")
	}
	fmt.Fprintf(&b, "- temperature: %v\n", cfg.Temperature)
	fmt.Fprintf(&b, "- max_tokens: %d\n", cfg.MaxTokens)
	if cfg.Timeout > 0 {
		fmt.Fprintf(&b, "- timeout: %ds\n", cfg.Timeout)
	} else {
		b.WriteString("- timeout: (none)\n")
	}
	if cfg.BaseURL != "" {
		fmt.Fprintf(&b, "- base_url: `%s`\n", cfg.BaseURL)
	}
	b.WriteString("\n")

	b.WriteString("## API Key\n\n")
	b.WriteString(apiKeyLine(cfg))
	b.WriteString("\n")

	b.WriteString("## Prompt\n\n")
	if strings.TrimSpace(cfg.Prompt) != "" {
		b.WriteString("- source: inline `prompt`\n")
	} else {
		b.WriteString("- source: prompt file chain (`.llmc/prompt.md`, global `prompts/commit.md`, built-in)\n")
	}
	fmt.Fprintf(&b, "- length: %d characters\n", len(cfg.PromptTemplate))

	return b.String()
}

func apiKeyLine(cfg *config.Config) string {
	info, ok := llm.LookupProvider(cfg.Provider)
	switch {
	case cfg.APIKey != "":
		return "- api_key: (set in config)\n"
	case !ok:
		return "- api_key: (unknown provider)\n"
	case info.KeyEnv == "" && cfg.APIKeyName == "":
		return "- api_key: (not required)\n"
	}

	if _, err := llm.ResolveAPIKey(cfg.ToProviderSettings()); err != nil {
		return fmt.Sprintf("- api_key: (not set) %s\n", err)
	}
	name := cfg.APIKeyName
	if name == "" || os.Getenv(name) == "" {
		name = info.KeyEnv
	}
	return fmt.Sprintf("- api_key: (set via `%s`)\n", name)
}

// projectRoot returns the repository root containing dir, or dir itself.
func projectRoot(dir string) string {
	if root, err := git.Open(dir).Root(); err == nil {
		return root
	}
	return dir
}
