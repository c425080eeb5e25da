package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mkoval/citehound/internal/courtlistener"
	"github.com/mkoval/citehound/internal/doctext"
	"github.com/mkoval/citehound/internal/model"
	"github.com/mkoval/citehound/internal/pipeline"
	"github.com/mkoval/citehound/internal/store"
	"github.com/mkoval/citehound/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <files...>",
	Short: "Verify multiple documents in parallel",
	Long: `Batch runs one validation pass per document. Documents are
processed concurrently; the lines within each document stay strictly
sequential so results are deterministic per file.

Example:
  citehound batch brief1.txt brief2.txt
  citehound batch *.txt --concurrency 8`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent documents (default from config)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total batch timeout")
	batchCmd.Flags().StringVar(&baseURL, "base-url", "", "verification service base URL")
	batchCmd.Flags().StringVar(&storeDriver, "store", "", "store driver (disk, postgres, memory)")
	batchCmd.Flags().BoolVar(&fetchOpinions, "fetch-opinions", false, "fetch full opinion text for confirmed matches")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the response cache")
}

// passJob runs one document through its own validation pass. The client and
// store are shared by every job in the batch: one limiter governs the total
// request rate, and one store instance serializes commits so concurrent
// documents never clobber each other's records.
type passJob struct {
	path    string
	cfg     *model.Config
	ctx     context.Context
	client  *courtlistener.Client
	records store.Store
}

// passResult is the outcome of one document.
type passResult struct {
	path   string
	result *pipeline.PassResult
	err    error
}

// GetError returns the job error.
func (r *passResult) GetError() error {
	return r.err
}

// Execute extracts the document text and runs the pass.
func (j *passJob) Execute(_ context.Context) worker.Result {
	text, err := doctext.ExtractText(j.path)
	if err != nil {
		return &passResult{path: j.path, err: fmt.Errorf("extract text: %w", err)}
	}

	result, err := runPass(j.ctx, j.cfg, j.client, j.records, text)
	return &passResult{path: j.path, result: result, err: err}
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg := loadConfig()
	applyVerifyFlags(cfg)

	workers := concurrency
	if workers <= 0 {
		workers = cfg.Workers.Concurrency
	}

	client, err := buildClient(cfg)
	if err != nil {
		return err
	}
	records, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}

	pool := worker.NewPool(workers)
	pool.Start()
	for _, path := range args {
		pool.Submit(&passJob{path: path, cfg: cfg, ctx: ctx, client: client, records: records})
	}
	results := pool.Wait()

	failed := 0
	for _, res := range results {
		pr := res.(*passResult)
		if pr.err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", pr.path, pr.err)
			continue
		}
		fmt.Printf("✓ %s: %d line(s), %d record(s)\n", pr.path, pr.result.Lines, len(pr.result.Records))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d document(s) failed", failed, len(results))
	}
	return nil
}
