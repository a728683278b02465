package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"clinsearch/models"
	"clinsearch/services/clinvar"
	"clinsearch/services/validator"
	"clinsearch/utils"
)

var (
	variantFlag string
	buildFlag   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinsearch",
		Short: "Validate an HGVS variant and fetch its ClinVar classifications",
		Long: "clinsearch validates an HGVS variant against VariantValidator\n" +
			"(RefSeq first, Ensembl as fallback), then queries NCBI ClinVar for the\n" +
			"variant's clinical classifications and prints a consolidated summary.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	rootCmd.Flags().StringVar(&variantFlag, "variant", "", "HGVS variant to check (prompted for when omitted)")
	rootCmd.Flags().StringVar(&buildFlag, "build", "", "genome build, GRCh38 or GRCh37 (prompted for when omitted)")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Gather environment variables; a local .env is optional
	_ = godotenv.Load()

	var cfg models.Config
	if err := envconfig.Process("", &cfg); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	logger := utils.CreateSessionLogger(&cfg).With("run_id", uuid.NewString())
	logger.Debug("using configuration",
		"vv_refseq_url", cfg.VariantValidator.RefSeqUrl,
		"vv_ensembl_url", cfg.VariantValidator.EnsemblUrl,
		"clinvar_esearch_url", cfg.ClinVar.ESearchUrl,
		"clinvar_esummary_url", cfg.ClinVar.ESummaryUrl,
		"log_path", cfg.Log.Path)

	httpClient := &http.Client{}

	s := &session{
		logger:     logger,
		validation: validator.NewValidationService(httpClient, &cfg, logger),
		clinvar:    clinvar.NewClinVarService(httpClient, &cfg, logger),
		in:         bufio.NewReader(os.Stdin),
		out:        os.Stdout,
	}
	return s.run(ctx, variantFlag, buildFlag)
}
