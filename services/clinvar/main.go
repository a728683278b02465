package clinvar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Jeffail/gabs"
	"github.com/mitchellh/mapstructure"

	"clinsearch/models"
	"clinsearch/models/dtos"
	"clinsearch/utils"
)

// Fallback messages substituted for classification fields absent from the
// ClinVar summary record, so extracted records are always fully populated.
const (
	NoGermlineMessage       = "No germline classification available"
	NoClinicalImpactMessage = "No clinical impact classification available"
	NoOncogenicityMessage   = "No oncogenicity classification available"
)

// ErrEmptyVariant is returned before any network call when the lookup
// argument is empty or whitespace-only.
var ErrEmptyVariant = errors.New("HGVS variant must be a non-empty string")

type LookupStatus string

const (
	StatusFound    LookupStatus = "found"
	StatusNotFound LookupStatus = "not-found"
	StatusFailed   LookupStatus = "failed"
)

type (
	// LookupOutcome distinguishes a genuine zero-match result from an
	// infrastructure failure instead of collapsing both into one absent
	// value. Record is set only when Status is StatusFound; Cause only
	// when Status is StatusFailed.
	LookupOutcome struct {
		Status LookupStatus
		Record *dtos.ClassificationRecord
		Cause  error
	}

	ClinVarService struct {
		HttpClient     *http.Client
		ESearchUrl     string
		ESummaryUrl    string
		RequestTimeout time.Duration
		Logger         *slog.Logger
	}
)

func NewClinVarService(httpClient *http.Client, cfg *models.Config, logger *slog.Logger) *ClinVarService {
	return &ClinVarService{
		HttpClient:     httpClient,
		ESearchUrl:     cfg.ClinVar.ESearchUrl,
		ESummaryUrl:    cfg.ClinVar.ESummaryUrl,
		RequestTimeout: time.Duration(cfg.ClinVar.TimeoutSeconds) * time.Second,
		Logger:         logger,
	}
}

// LookupByHGVS runs the two-phase ClinVar query: an exact-match eSearch that
// retains server-side history, then an eSummary scoped by the returned
// WebEnv/QueryKey token pair. Only the first matching uid is extracted, even
// when several match.
//
// The returned error is non-nil only for an invalid argument; timeouts,
// transport errors and malformed bodies are logged and reported as a
// StatusFailed outcome.
func (s *ClinVarService) LookupByHGVS(ctx context.Context, hgvsVariant string) (LookupOutcome, error) {
	trimmed := strings.TrimSpace(hgvsVariant)
	if trimmed == "" {
		s.Logger.Error("hgvs variant must be a non-empty string")
		return LookupOutcome{}, ErrEmptyVariant
	}

	s.Logger.Info("searching clinvar", "variant", trimmed)

	searchParams := url.Values{
		"db":         []string{"clinvar"},
		"term":       []string{fmt.Sprintf("\"%s\"[hgvs]", trimmed)},
		"retmode":    []string{"json"},
		"retmax":     []string{"1"},
		"usehistory": []string{"y"},
	}

	searchData, err := s.get(ctx, s.ESearchUrl, searchParams)
	if err != nil {
		return s.failed(trimmed, "esearch", err), nil
	}
	s.Logger.Debug("clinvar esearch response", "variant", trimmed, "body", searchData.String())

	if !searchData.Exists("esearchresult") {
		return s.failed(trimmed, "esearch", errors.New("response missing esearchresult container")), nil
	}

	count, countErr := toInt(searchData.Path("esearchresult.count").Data())
	if countErr != nil {
		return s.failed(trimmed, "esearch", fmt.Errorf("unreadable result count: %w", countErr)), nil
	}
	if count == 0 {
		s.Logger.Info("no clinvar results", "variant", trimmed)
		return LookupOutcome{Status: StatusNotFound}, nil
	}

	// session token pair scoping the follow-up summary fetch
	webEnv, _ := searchData.Path("esearchresult.webenv").Data().(string)
	queryKey, _ := searchData.Path("esearchresult.querykey").Data().(string)
	if webEnv == "" || queryKey == "" {
		s.Logger.Info("clinvar search returned no history token pair", "variant", trimmed)
		return LookupOutcome{Status: StatusNotFound}, nil
	}
	s.Logger.Debug("clinvar history tokens", "webenv", webEnv, "query_key", queryKey)

	summaryParams := url.Values{
		"db":        []string{"clinvar"},
		"query_key": []string{queryKey},
		"WebEnv":    []string{webEnv},
		"retmode":   []string{"json"},
		"retmax":    []string{"1"},
	}

	summaryData, err := s.get(ctx, s.ESummaryUrl, summaryParams)
	if err != nil {
		return s.failed(trimmed, "esummary", err), nil
	}
	s.Logger.Debug("clinvar esummary response", "variant", trimmed, "body", summaryData.String())

	if !summaryData.Exists("result") {
		return s.failed(trimmed, "esummary", errors.New("response missing result container")), nil
	}

	uidChildren, _ := summaryData.Search("result", "uids").Children()
	if len(uidChildren) == 0 {
		s.Logger.Info("no clinvar results", "variant", trimmed)
		return LookupOutcome{Status: StatusNotFound}, nil
	}

	uid := toString(uidChildren[0].Data())
	resultData, _ := summaryData.Search("result", uid).Data().(map[string]interface{})

	record := s.ExtractClassifications(resultData, uid)
	s.Logger.Info("retrieved clinvar data", "variant", trimmed, "uid", uid)

	return LookupOutcome{Status: StatusFound, Record: &record}, nil
}

// ExtractClassifications maps a single summary record into a
// ClassificationRecord, substituting the literal fallback message for each
// classification field absent from the source record.
func (s *ClinVarService) ExtractClassifications(resultData map[string]interface{}, uid string) dtos.ClassificationRecord {
	s.Logger.Info("extracting classifications", "uid", uid)

	var fields struct {
		ClinicalSignificance         map[string]interface{} `mapstructure:"clinical_significance"`
		GermlineClassification       interface{}            `mapstructure:"germline_classification"`
		ClinicalImpactClassification interface{}            `mapstructure:"clinical_impact_classification"`
		OncogenicityClassification   interface{}            `mapstructure:"oncogenicity_classification"`
	}
	if err := mapstructure.Decode(resultData, &fields); err != nil {
		// fall through with zero values; the defaults below keep the
		// record fully populated
		s.Logger.Warn("classification fields could not be decoded", "uid", uid, "error", err)
	}

	record := dtos.ClassificationRecord{
		Uid:                          uid,
		ClinicalSignificance:         fields.ClinicalSignificance,
		GermlineClassification:       fields.GermlineClassification,
		ClinicalImpactClassification: fields.ClinicalImpactClassification,
		OncogenicityClassification:   fields.OncogenicityClassification,
	}
	if record.ClinicalSignificance == nil {
		record.ClinicalSignificance = map[string]interface{}{}
	}
	if record.GermlineClassification == nil {
		record.GermlineClassification = NoGermlineMessage
	}
	if record.ClinicalImpactClassification == nil {
		record.ClinicalImpactClassification = NoClinicalImpactMessage
	}
	if record.OncogenicityClassification == nil {
		record.OncogenicityClassification = NoOncogenicityMessage
	}

	s.Logger.Debug("classifications extracted", "uid", uid)
	return record
}

func (s *ClinVarService) get(ctx context.Context, baseUrl string, params url.Values) (*gabs.Container, error) {
	requestCtx, cancel := context.WithTimeout(ctx, s.RequestTimeout)
	defer cancel()

	body, err := utils.GetRequestReturnBody(requestCtx, s.HttpClient, baseUrl+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	parsed, parseErr := gabs.ParseJSON(body)
	if parseErr != nil {
		return nil, fmt.Errorf("decoding response: %w", parseErr)
	}
	return parsed, nil
}

func (s *ClinVarService) failed(variant string, phase string, cause error) LookupOutcome {
	s.Logger.Error("clinvar lookup failed",
		"variant", variant, "phase", phase,
		"kind", utils.FailureKind(cause), "error", cause)
	return LookupOutcome{Status: StatusFailed, Cause: cause}
}

// toInt reads the eutils count field, which arrives as a JSON string
// (e.g. "0") but is tolerated here as a bare number as well.
func toInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case string:
		return strconv.Atoi(v)
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("unexpected count type %T", value)
	}
}

func toString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", value)
	}
}
