package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	assemblyId "clinsearch/models/constants/assembly-id"
	"clinsearch/output"
	"clinsearch/services/clinvar"
	"clinsearch/services/validator"
)

// session drives one interactive validate-then-lookup pass. Reader and
// writer are injected so the whole flow can be exercised in tests.
type session struct {
	logger     *slog.Logger
	validation *validator.ValidationService
	clinvar    *clinvar.ClinVarService
	in         *bufio.Reader
	out        io.Writer
}

func (s *session) run(ctx context.Context, variantArg string, buildArg string) (err error) {
	s.logger.Info("starting clinvar search session")
	defer s.logger.Info("clinvar search session completed")

	// no stage is allowed to crash the process
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("unexpected error", "panic", r)
			fmt.Fprintf(s.out, "An unexpected error occurred: %v\n", r)
			err = fmt.Errorf("unexpected error: %v", r)
		}
	}()

	hgvsVariant, readErr := s.collectInput(ctx, variantArg, "Enter the HGVS variant (e.g., NM_000518.5:c.92+1G>A): ")
	if readErr != nil {
		return s.readFailed(ctx, readErr)
	}
	buildInput, readErr := s.collectInput(ctx, buildArg, "Enter the genome build (GRCh38 or GRCh37): ")
	if readErr != nil {
		return s.readFailed(ctx, readErr)
	}

	s.logger.Info("user input", "variant", hgvsVariant, "genome_build", buildInput)

	// reject bad input before any network call is made
	if hgvsVariant == "" {
		return s.inputError("No HGVS variant provided")
	}
	build := assemblyId.CastToAssemblyId(buildInput)
	if build == assemblyId.Unknown {
		return s.inputError("Genome build must be GRCh38 or GRCh37")
	}

	validationResult, validationErr := s.validation.Validate(ctx, hgvsVariant, build)
	if validationErr != nil {
		if ctx.Err() != nil {
			return s.interrupted()
		}
		s.logger.Error("validation failed", "variant", hgvsVariant)
		fmt.Fprintf(s.out, "Error: The entered variant '%s' is not valid according to VariantValidator.\n", hgvsVariant)
		return nil
	}

	s.logger.Info("validation successful", "variant", hgvsVariant)
	fmt.Fprintf(s.out, "HGVS variant '%s' validated successfully for %s. Proceeding to ClinVar search...\n", hgvsVariant, build)

	geneSymbol := s.reportGeneSymbol(hgvsVariant, validationResult)

	outcome, lookupErr := s.clinvar.LookupByHGVS(ctx, hgvsVariant)
	if lookupErr != nil {
		return s.inputError(lookupErr.Error())
	}

	switch outcome.Status {
	case clinvar.StatusFound:
		summary := output.FormatResults(geneSymbol, *outcome.Record)
		output.PrettyPrint(s.out, summary)
		s.logger.Info("successfully displayed clinvar results", "variant", hgvsVariant)
	case clinvar.StatusNotFound:
		fmt.Fprintf(s.out, "No results found for HGVS variant '%s' in ClinVar.\n", hgvsVariant)
	case clinvar.StatusFailed:
		if ctx.Err() != nil {
			return s.interrupted()
		}
		fmt.Fprintf(s.out, "Error: ClinVar lookup failed for '%s'. See the log for details.\n", hgvsVariant)
	}

	return nil
}

func (s *session) reportGeneSymbol(hgvsVariant string, result *validator.ValidationResult) string {
	geneSymbol := output.ExtractGeneSymbol(result.Raw)
	if geneSymbol == "" {
		s.logger.Warn("no gene symbol found", "variant", hgvsVariant)
		fmt.Fprintln(s.out, "Gene Symbol: Not available — the variant may be intronic or unrecognized by transcript")
		return "N/A"
	}

	s.logger.Info("extracted gene symbol", "variant", hgvsVariant, "gene_symbol", geneSymbol)
	fmt.Fprintf(s.out, "Gene Symbol: %s\n", geneSymbol)
	return geneSymbol
}

// collectInput prefers a flag-provided value and prompts otherwise. EOF with
// a partial line still yields the line; the empty-input case is handled by
// the caller's input validation.
func (s *session) collectInput(ctx context.Context, provided string, prompt string) (string, error) {
	if strings.TrimSpace(provided) != "" {
		return strings.TrimSpace(provided), nil
	}

	fmt.Fprint(s.out, prompt)
	line, err := s.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (s *session) inputError(message string) error {
	s.logger.Error("input error", "error", message)
	fmt.Fprintf(s.out, "Input error: %s\n", message)
	return errors.New(message)
}

func (s *session) readFailed(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return s.interrupted()
	}
	s.logger.Error("reading user input failed", "error", err)
	fmt.Fprintf(s.out, "An unexpected error occurred: %v\n", err)
	return err
}

func (s *session) interrupted() error {
	s.logger.Info("program terminated by user")
	fmt.Fprintln(s.out, "\nProgram terminated by user.")
	return nil
}
