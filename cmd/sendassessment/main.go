package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/wczubal1/GreenAgentWitty/internal/domain/models"
	"github.com/wczubal1/GreenAgentWitty/internal/service/classify"
	"github.com/wczubal1/GreenAgentWitty/pkg/util"
)

// sendassessment submits an assessment request to a running green agent and
// prints the verdict JSON. Symbols come from an explicit flag, a single
// symbol, or a sampled CSV universe.
type options struct {
	greenURL  string
	purpleURL string

	symbol     string
	symbols    string
	symbolsCSV string
	sampleSize int
	randomSeed int64
	seedSet    bool

	settlementDate string
	targetMonth    int
	monthSet       bool

	issueName        string
	question         string
	datasetGroupEval string
	datasetNameEval  string

	finraClientID     string
	finraClientSecret string

	timeout     int
	timeoutSet  bool
	httpTimeout int
}

func main() {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "sendassessment",
		Short:        "Send a lookup assessment request to the green agent",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.seedSet = cmd.Flags().Changed("random-seed")
			opts.monthSet = cmd.Flags().Changed("target-month")
			opts.timeoutSet = cmd.Flags().Changed("timeout")
			return run(opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.greenURL, "green-url", "http://127.0.0.1:9009", "Green agent base URL.")
	flags.StringVar(&opts.purpleURL, "purple-url", "http://127.0.0.1:9010", "Purple agent base URL.")
	flags.StringVar(&opts.symbol, "symbol", "", "Symbol to query.")
	flags.StringVar(&opts.symbols, "symbols", "", "Comma separated list of symbols to evaluate.")
	flags.StringVar(&opts.symbolsCSV, "symbols-csv", "SP500symbols.csv", "Path to a CSV file containing SP500 symbols.")
	flags.IntVar(&opts.sampleSize, "sample-size", 10, "How many symbols to sample from the CSV.")
	flags.Int64Var(&opts.randomSeed, "random-seed", 0, "Seed for reproducible sampling.")
	flags.StringVar(&opts.settlementDate, "settlement-date", "", "Settlement date (YYYY-MM-DD or MM/DD/YYYY).")
	flags.IntVar(&opts.targetMonth, "target-month", 0, "Target month (1-12) for random day selection.")
	flags.StringVar(&opts.issueName, "issue-name", "", "Issue name filter.")
	flags.StringVar(&opts.question, "question", "", "Question to drive dataset selection.")
	flags.StringVar(&opts.datasetGroupEval, "dataset-group-eval", "", "Dataset group for evaluation only.")
	flags.StringVar(&opts.datasetNameEval, "dataset-name-eval", "", "Dataset name for evaluation only.")
	flags.StringVar(&opts.finraClientID, "finra-client-id", "", "FINRA client id.")
	flags.StringVar(&opts.finraClientSecret, "finra-client-secret", "", "FINRA client secret.")
	flags.IntVar(&opts.timeout, "timeout", 0, "Timeout (seconds) to pass to the purple agent call.")
	flags.IntVar(&opts.httpTimeout, "http-timeout", 300, "HTTP timeout (seconds) for the green agent call.")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(opts *options) error {
	// .env is optional; real env vars win either way
	_ = godotenv.Load()

	if opts.symbol != "" && opts.symbols != "" {
		return fmt.Errorf("use --symbol or --symbols, not both")
	}

	var symbols []string
	if treasuryRequest(opts) {
		// treasury aggregate questions are bucket-keyed, not symbol-keyed
		if opts.symbol != "" || opts.symbols != "" {
			return fmt.Errorf("treasury questions take no --symbol or --symbols")
		}
	} else {
		var err error
		symbols, err = resolveSymbols(opts)
		if err != nil {
			return err
		}
		if len(symbols) == 0 && opts.symbol == "" {
			return fmt.Errorf("provide --symbol or symbols via --symbols/--symbols-csv")
		}
	}

	if opts.settlementDate != "" {
		opts.settlementDate = util.NormalizeDateInput(opts.settlementDate)
	}
	if opts.settlementDate == "" && !opts.monthSet {
		return fmt.Errorf("provide --settlement-date or --target-month")
	}

	payload := buildPayload(opts, symbols)
	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "request: %s\n", raw)

	client := resty.New().
		SetTimeout(time.Duration(opts.httpTimeout) * time.Second).
		SetHeader("Content-Type", "application/json")

	resp, err := client.R().
		SetBody(payload).
		Post(opts.greenURL + "/api/assessments")
	if err != nil {
		return fmt.Errorf("green agent call: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("green agent returned status %d: %s", resp.StatusCode(), resp.String())
	}

	var pretty interface{}
	if err := json.Unmarshal(resp.Body(), &pretty); err != nil {
		fmt.Println(resp.String())
		return nil
	}
	out, _ := json.MarshalIndent(pretty, "", "  ")
	fmt.Println(string(out))
	return nil
}

// treasuryRequest reports whether the flags describe a Treasury daily
// aggregates question. Those requests are keyed by maturity bucket, so the
// green agent rejects them when a symbol is attached.
func treasuryRequest(opts *options) bool {
	if classify.IsTreasuryName(opts.datasetNameEval) {
		return true
	}
	cls := classify.New(classify.DefaultConfig()).Classify(models.AssessmentRequest{
		Config: map[string]interface{}{
			"question":           opts.question,
			"dataset_group_eval": opts.datasetGroupEval,
			"dataset_name_eval":  opts.datasetNameEval,
		},
	})
	return cls.Kind == models.DatasetTreasuryAggregate
}

func resolveSymbols(opts *options) ([]string, error) {
	if opts.symbols != "" {
		symbols := util.NormalizeSymbols(opts.symbols)
		if len(symbols) == 0 {
			return nil, fmt.Errorf("--symbols must include at least one symbol")
		}
		return symbols, nil
	}
	if opts.symbol != "" {
		return nil, nil
	}

	universe, err := util.LoadSymbolsCSV(opts.symbolsCSV)
	if err != nil {
		return nil, err
	}
	var seed *int64
	if opts.seedSet {
		seed = &opts.randomSeed
	}
	return util.SampleSymbols(universe, opts.sampleSize, seed)
}

func buildPayload(opts *options, symbols []string) map[string]interface{} {
	config := map[string]interface{}{}
	if opts.settlementDate != "" {
		config["settlement_date"] = opts.settlementDate
	}
	if opts.monthSet {
		config["target_month"] = opts.targetMonth
	}
	if opts.seedSet {
		config["random_seed"] = opts.randomSeed
	}
	switch {
	case len(symbols) > 0:
		config["symbols"] = symbols
	case opts.symbol != "":
		config["symbol"] = opts.symbol
	}
	if opts.issueName != "" {
		config["issue_name"] = opts.issueName
	}
	if opts.question != "" {
		config["question"] = opts.question
	}
	if opts.datasetGroupEval != "" {
		config["dataset_group_eval"] = opts.datasetGroupEval
	}
	if opts.datasetNameEval != "" {
		config["dataset_name_eval"] = opts.datasetNameEval
	}

	clientID := opts.finraClientID
	if clientID == "" {
		clientID = os.Getenv("FINRA_CLIENT_ID")
	}
	clientSecret := opts.finraClientSecret
	if clientSecret == "" {
		clientSecret = os.Getenv("FINRA_CLIENT_SECRET")
	}
	if clientID != "" {
		config["finra_client_id"] = clientID
	}
	if clientSecret != "" {
		config["finra_client_secret"] = clientSecret
	}
	if opts.timeoutSet {
		config["timeout"] = opts.timeout
	}

	return map[string]interface{}{
		"participants": map[string]string{"purple": opts.purpleURL},
		"config":       config,
	}
}
