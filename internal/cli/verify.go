package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mkoval/citehound/internal/courtlistener"
	"github.com/mkoval/citehound/internal/doctext"
	"github.com/mkoval/citehound/internal/llm"
	"github.com/mkoval/citehound/internal/model"
	"github.com/mkoval/citehound/internal/pipeline"
	"github.com/mkoval/citehound/internal/store"
	"github.com/spf13/cobra"
)

var (
	passTimeout   time.Duration
	baseURL       string
	storeDriver   string
	fetchOpinions bool
	noCache       bool
	llmProvider   string
	llmModel      string
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <file>",
	Short: "Verify the citations in a document",
	Long: `Verify runs one validation pass over a document:
- Split the text into lines
- Extract a candidate citation and/or case name per line
- Verify against the case-law lookup service with layered fallbacks
- Persist one record per line with derived validity statuses

Pass "-" to read from stdin. Supported documents: .txt, .md, .html.

Example:
  citehound verify brief.txt
  echo "Brown v. Board of Education, 347 U.S. 483 (1954)" | citehound verify -
  citehound verify brief.txt --fetch-opinions --llm openai`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().DurationVar(&passTimeout, "timeout", 5*time.Minute, "overall pass timeout")
	verifyCmd.Flags().StringVar(&baseURL, "base-url", "", "verification service base URL")
	verifyCmd.Flags().StringVar(&storeDriver, "store", "", "store driver (disk, postgres, memory)")
	verifyCmd.Flags().BoolVar(&fetchOpinions, "fetch-opinions", false, "fetch full opinion text for confirmed matches")
	verifyCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the response cache")

	verifyCmd.Flags().StringVar(&llmProvider, "llm", "", "generate a pass brief with this LLM provider (openai, ollama)")
	verifyCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "alias for --llm")
	verifyCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), passTimeout)
	defer cancel()

	cfg := loadConfig()
	applyVerifyFlags(cfg)

	text, err := doctext.ExtractText(args[0])
	if err != nil {
		return fmt.Errorf("extract text: %w", err)
	}

	client, err := buildClient(cfg)
	if err != nil {
		return err
	}
	records, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}

	result, err := runPass(ctx, cfg, client, records, text)
	if err != nil {
		return err
	}

	printPass(result)

	if cfg.LLM.Provider != "" {
		if err := printBrief(ctx, cfg, result); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: brief generation failed: %v\n", err)
		}
	}
	return nil
}

func applyVerifyFlags(cfg *model.Config) {
	if baseURL != "" {
		cfg.API.BaseURL = baseURL
	}
	if storeDriver != "" {
		cfg.Store.Driver = storeDriver
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	// The credential comes from the environment whether the provider was
	// chosen by flag or by config file; the key is never read from disk.
	if cfg.LLM.Provider != "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if v := os.Getenv("OLLAMA_BASE_URL"); v != "" {
			cfg.LLM.BaseURL = v
		}
	}
}

// runPass wires one pipeline over a shared client and store and processes
// the text through it. Callers build the client and store once; batch runs
// many passes against the same pair so one limiter governs the whole batch
// and all commits go through one store instance.
func runPass(ctx context.Context, cfg *model.Config, client *courtlistener.Client, records store.Store, text string) (*pipeline.PassResult, error) {
	p := pipeline.NewPipeline(client, records)
	p.FetchOpinions = fetchOpinions
	if cfg.Output.Verbose {
		p.Log = os.Stderr
	}

	result, err := p.Run(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("validation pass: %w", err)
	}
	return result, nil
}

// printPass writes the per-record summary to stdout.
func printPass(result *pipeline.PassResult) {
	for _, r := range result.Records {
		fmt.Printf("%s\n", r.OriginalText)
		fmt.Printf("  citation: %-7s  case name: %s\n", r.CitationStatus.Label(), r.CaseNameStatus.Label())
		if r.NormalizedCitation != "" {
			fmt.Printf("  normalized: %s\n", r.NormalizedCitation)
		}
		if r.CaseIdentifier != "" {
			fmt.Printf("  match: %s  %s\n", r.CaseIdentifier, r.ExternalURL)
		}
		if r.Notes != "" {
			fmt.Printf("  notes: %s\n", r.Notes)
		}
	}
	fmt.Printf("\n%d line(s) processed, %d record(s) stored\n", result.Lines, len(result.Records))
}

// printBrief generates and prints the optional LLM brief.
func printBrief(ctx context.Context, cfg *model.Config, result *pipeline.PassResult) error {
	provider, err := llm.NewProvider(llm.Config{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
	})
	if err != nil || provider == nil {
		return err
	}

	resp, err := provider.Brief(ctx, llm.BriefRequest{Records: result.Records})
	if err != nil {
		return err
	}
	fmt.Printf("\n--- Brief (%s/%s) ---\n%s\n", provider.Name(), resp.Model, resp.Brief)
	return nil
}
