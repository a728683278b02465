package validator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/Jeffail/gabs"

	"clinsearch/models"
	"clinsearch/models/constants"
	annotationSource "clinsearch/models/constants/annotation-source"
	"clinsearch/utils"
)

// ErrValidationFailed signals that neither the RefSeq nor the Ensembl
// endpoint produced a usable, non-error response for the variant.
var ErrValidationFailed = errors.New("variant could not be validated by RefSeq or Ensembl")

type (
	// ValidationResult is the response of the first successful
	// VariantValidator attempt. Raw preserves the body byte-for-byte so
	// downstream gene-symbol extraction can honour payload field order.
	ValidationResult struct {
		Raw    []byte
		Flag   string
		Source constants.AnnotationSource
	}

	ValidationService struct {
		HttpClient     *http.Client
		RefSeqBaseUrl  string
		EnsemblBaseUrl string
		RequestTimeout time.Duration
		Logger         *slog.Logger
	}
)

func NewValidationService(httpClient *http.Client, cfg *models.Config, logger *slog.Logger) *ValidationService {
	return &ValidationService{
		HttpClient:     httpClient,
		RefSeqBaseUrl:  cfg.VariantValidator.RefSeqUrl,
		EnsemblBaseUrl: cfg.VariantValidator.EnsemblUrl,
		RequestTimeout: time.Duration(cfg.VariantValidator.TimeoutSeconds) * time.Second,
		Logger:         logger,
	}
}

// Validate runs the two-endpoint fallback sequence: RefSeq first, then
// Ensembl with identical parameters when RefSeq fails or flags the variant
// as an error. The Ensembl endpoint is never contacted when RefSeq returns
// a non-error response.
func (s *ValidationService) Validate(ctx context.Context, variant string, assembly constants.AssemblyId) (*ValidationResult, error) {
	s.Logger.Info("starting validation", "variant", variant, "assembly_id", string(assembly))

	result, err := s.attempt(ctx, annotationSource.RefSeq, s.RefSeqBaseUrl, variant, assembly)
	if err == nil && result.Flag != "error" {
		s.Logger.Info("variant validated", "variant", variant, "source", string(result.Source))
		return result, nil
	}

	s.Logger.Info("refseq validation failed or invalid, attempting ensembl", "variant", variant)
	result, err = s.attempt(ctx, annotationSource.Ensembl, s.EnsemblBaseUrl, variant, assembly)
	if err == nil && result.Flag != "error" {
		s.Logger.Info("variant validated", "variant", variant, "source", string(result.Source))
		return result, nil
	}

	s.Logger.Warn("variant could not be validated by refseq or ensembl", "variant", variant)
	return nil, ErrValidationFailed
}

// attempt performs a single endpoint call bounded by the configured timeout.
// A timeout is treated like any other failed attempt, not escalated.
func (s *ValidationService) attempt(ctx context.Context, source constants.AnnotationSource, baseUrl string, variant string, assembly constants.AssemblyId) (*ValidationResult, error) {
	requestUrl := fmt.Sprintf("%s/%s/%s/all?%s",
		baseUrl, assembly, url.PathEscape(variant),
		url.Values{"content-type": []string{"application/json"}}.Encode())

	s.Logger.Info("validation attempt",
		"source", string(source), "variant", variant, "assembly_id", string(assembly))

	attemptCtx, cancel := context.WithTimeout(ctx, s.RequestTimeout)
	defer cancel()

	body, err := utils.GetRequestReturnBody(attemptCtx, s.HttpClient, requestUrl)
	if err != nil {
		s.Logger.Error("validation attempt failed",
			"source", string(source), "variant", variant,
			"kind", utils.FailureKind(err), "error", err)
		return nil, err
	}

	parsed, parseErr := gabs.ParseJSON(body)
	if parseErr != nil {
		s.Logger.Error("validation attempt failed",
			"source", string(source), "variant", variant,
			"kind", "malformed_body", "error", parseErr)
		return nil, fmt.Errorf("decoding %s validation response: %w", source, parseErr)
	}

	// a response without the status flag is not a usable validation
	if !parsed.Exists("flag") {
		s.Logger.Error("validation attempt failed",
			"source", string(source), "variant", variant,
			"kind", "malformed_body", "error", "response missing flag field")
		return nil, fmt.Errorf("%s validation response missing flag field", source)
	}

	flag, _ := parsed.Path("flag").Data().(string)
	s.Logger.Info("validation attempt succeeded",
		"source", string(source), "variant", variant, "flag", flag)

	return &ValidationResult{Raw: body, Flag: flag, Source: source}, nil
}
