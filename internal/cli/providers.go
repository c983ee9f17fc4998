package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/llmc/internal/llm"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List supported LLM providers",
	Long: `List supported LLM providers with their default models and the
environment variable each one reads its API key from.`,
	Args: cobra.NoArgs,
	RunE: runProviders,
}

func runProviders(cmd *cobra.Command, _ []string) error {
	writeProviders(NewWriter(cmd.OutOrStdout(), stdoutIsTerminal(), 0))
	return nil
}

func writeProviders(w *Writer) {
	nameWidth := 0
	for _, name := range llm.ProviderNames() {
		nameWidth = max(nameWidth, len(name))
	}

	w.Line(w.styleBold(colorCyan, "Providers"))
	for _, name := range llm.ProviderNames() {
		info, _ := llm.LookupProvider(name)

		padded := name + strings.Repeat(" ", nameWidth-len(name))
		key := w.dim("no API key")
		if info.KeyEnv != "" {
			color := colorRed
			if os.Getenv(info.KeyEnv) != "" {
				color = colorGreen
			}
			key = w.style(color, info.KeyEnv)
		}

		model := info.DefaultModel
		if model == "" {
			model = "(tool default)"
		}

		w.Line(fmt.Sprintf("  %s  %s  %s", w.style(colorCyan, padded), key, w.dim(model)))
	}
}
