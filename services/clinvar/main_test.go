package clinvar

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinsearch/models"
)

const testVariant = "NM_000518.5:c.92+1G>A"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeEutils stands in for both eutils endpoints and counts the calls
// reaching each one.
type fakeEutils struct {
	server        *httptest.Server
	searchBody    string
	summaryBody   string
	searchCalls   int32
	summaryCalls  int32
	summaryParams map[string]string
}

func newFakeEutils(t *testing.T) *fakeEutils {
	f := &fakeEutils{summaryParams: map[string]string{}}
	mux := http.NewServeMux()
	mux.HandleFunc("/esearch", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.searchCalls, 1)
		assert.Equal(t, "clinvar", r.URL.Query().Get("db"))
		assert.Equal(t, fmt.Sprintf("\"%s\"[hgvs]", testVariant), r.URL.Query().Get("term"))
		assert.Equal(t, "json", r.URL.Query().Get("retmode"))
		assert.Equal(t, "1", r.URL.Query().Get("retmax"))
		assert.Equal(t, "y", r.URL.Query().Get("usehistory"))
		fmt.Fprint(w, f.searchBody)
	})
	mux.HandleFunc("/esummary", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.summaryCalls, 1)
		f.summaryParams["query_key"] = r.URL.Query().Get("query_key")
		f.summaryParams["WebEnv"] = r.URL.Query().Get("WebEnv")
		fmt.Fprint(w, f.summaryBody)
	})
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeEutils) service() *ClinVarService {
	return &ClinVarService{
		HttpClient:     http.DefaultClient,
		ESearchUrl:     f.server.URL + "/esearch",
		ESummaryUrl:    f.server.URL + "/esummary",
		RequestTimeout: 2 * time.Second,
		Logger:         testLogger(),
	}
}

func TestLookupByHGVS(t *testing.T) {
	t.Run("empty variant is an input error with no network call", func(t *testing.T) {
		f := newFakeEutils(t)
		s := f.service()

		for _, bad := range []string{"", "   ", "\t\n"} {
			outcome, err := s.LookupByHGVS(context.Background(), bad)
			assert.ErrorIs(t, err, ErrEmptyVariant)
			assert.Equal(t, LookupOutcome{}, outcome)
		}
		assert.Equal(t, int32(0), atomic.LoadInt32(&f.searchCalls))
		assert.Equal(t, int32(0), atomic.LoadInt32(&f.summaryCalls))
	})

	t.Run("zero matches returns not-found after exactly one call", func(t *testing.T) {
		f := newFakeEutils(t)
		f.searchBody = `{"esearchresult":{"count":"0"}}`
		s := f.service()

		outcome, err := s.LookupByHGVS(context.Background(), testVariant)

		assert.NoError(t, err)
		assert.Equal(t, StatusNotFound, outcome.Status)
		assert.Nil(t, outcome.Record)
		assert.Equal(t, int32(1), atomic.LoadInt32(&f.searchCalls))
		assert.Equal(t, int32(0), atomic.LoadInt32(&f.summaryCalls))
	})

	t.Run("missing history token pair returns not-found without a summary call", func(t *testing.T) {
		f := newFakeEutils(t)
		f.searchBody = `{"esearchresult":{"count":"1"}}`
		s := f.service()

		outcome, err := s.LookupByHGVS(context.Background(), testVariant)

		assert.NoError(t, err)
		assert.Equal(t, StatusNotFound, outcome.Status)
		assert.Equal(t, int32(0), atomic.LoadInt32(&f.summaryCalls))
	})

	t.Run("found record carries defaults for absent classification fields", func(t *testing.T) {
		f := newFakeEutils(t)
		f.searchBody = `{"esearchresult":{"count":"1","webenv":"NCID_1_123","querykey":"1"}}`
		f.summaryBody = `{"result":{"uids":["12345"],"12345":{"title":"Variant Data","germline_classification":{"description":"Pathogenic"}}}}`
		s := f.service()

		outcome, err := s.LookupByHGVS(context.Background(), testVariant)

		require.NoError(t, err)
		require.Equal(t, StatusFound, outcome.Status)
		require.NotNil(t, outcome.Record)

		assert.Equal(t, "12345", outcome.Record.Uid)
		assert.Equal(t,
			map[string]interface{}{"description": "Pathogenic"},
			outcome.Record.GermlineClassification)
		assert.Equal(t, NoClinicalImpactMessage, outcome.Record.ClinicalImpactClassification)
		assert.Equal(t, NoOncogenicityMessage, outcome.Record.OncogenicityClassification)
		assert.Equal(t, map[string]interface{}{}, outcome.Record.ClinicalSignificance)

		// summary call was scoped by the search's token pair
		assert.Equal(t, "1", f.summaryParams["query_key"])
		assert.Equal(t, "NCID_1_123", f.summaryParams["WebEnv"])
	})

	t.Run("summary without a result container is a failure outcome", func(t *testing.T) {
		f := newFakeEutils(t)
		f.searchBody = `{"esearchresult":{"count":"1","webenv":"NCID_1_123","querykey":"1"}}`
		f.summaryBody = `{"header":{"type":"esummary"}}`
		s := f.service()

		outcome, err := s.LookupByHGVS(context.Background(), testVariant)

		assert.NoError(t, err)
		assert.Equal(t, StatusFailed, outcome.Status)
		assert.Nil(t, outcome.Record)
		assert.Error(t, outcome.Cause)
	})

	t.Run("empty uids list is a not-found outcome", func(t *testing.T) {
		f := newFakeEutils(t)
		f.searchBody = `{"esearchresult":{"count":"1","webenv":"NCID_1_123","querykey":"1"}}`
		f.summaryBody = `{"result":{"uids":[]}}`
		s := f.service()

		outcome, err := s.LookupByHGVS(context.Background(), testVariant)

		assert.NoError(t, err)
		assert.Equal(t, StatusNotFound, outcome.Status)
	})

	t.Run("transport failure is reported as a failure outcome, not an error", func(t *testing.T) {
		f := newFakeEutils(t)
		s := f.service()
		f.server.Close()

		outcome, err := s.LookupByHGVS(context.Background(), testVariant)

		assert.NoError(t, err)
		assert.Equal(t, StatusFailed, outcome.Status)
		assert.Error(t, outcome.Cause)
	})

	t.Run("malformed search body is a failure outcome", func(t *testing.T) {
		f := newFakeEutils(t)
		f.searchBody = "<!doctype html>"
		s := f.service()

		outcome, err := s.LookupByHGVS(context.Background(), testVariant)

		assert.NoError(t, err)
		assert.Equal(t, StatusFailed, outcome.Status)
	})

	t.Run("search timeout is a failure outcome", func(t *testing.T) {
		slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
			fmt.Fprint(w, `{"esearchresult":{"count":"0"}}`)
		}))
		defer slow.Close()

		s := &ClinVarService{
			HttpClient:     http.DefaultClient,
			ESearchUrl:     slow.URL,
			ESummaryUrl:    slow.URL,
			RequestTimeout: 50 * time.Millisecond,
			Logger:         testLogger(),
		}

		outcome, err := s.LookupByHGVS(context.Background(), testVariant)

		assert.NoError(t, err)
		assert.Equal(t, StatusFailed, outcome.Status)
	})
}

func TestExtractClassifications(t *testing.T) {
	s := &ClinVarService{Logger: testLogger()}

	t.Run("all fields present pass through", func(t *testing.T) {
		resultData := map[string]interface{}{
			"clinical_significance":          map[string]interface{}{"description": "Pathogenic"},
			"germline_classification":        map[string]interface{}{"description": "Pathogenic"},
			"clinical_impact_classification": map[string]interface{}{"description": "Moderate"},
			"oncogenicity_classification":    map[string]interface{}{"description": "Likely oncogenic"},
		}

		record := s.ExtractClassifications(resultData, "7890")

		assert.Equal(t, "7890", record.Uid)
		assert.Equal(t, map[string]interface{}{"description": "Pathogenic"}, record.ClinicalSignificance)
		assert.Equal(t, map[string]interface{}{"description": "Pathogenic"}, record.GermlineClassification)
		assert.Equal(t, map[string]interface{}{"description": "Moderate"}, record.ClinicalImpactClassification)
		assert.Equal(t, map[string]interface{}{"description": "Likely oncogenic"}, record.OncogenicityClassification)
	})

	t.Run("absent fields are substituted with default messages", func(t *testing.T) {
		record := s.ExtractClassifications(map[string]interface{}{"title": "Variant Data"}, "12345")

		assert.Equal(t, "12345", record.Uid)
		assert.Equal(t, map[string]interface{}{}, record.ClinicalSignificance)
		assert.Equal(t, NoGermlineMessage, record.GermlineClassification)
		assert.Equal(t, NoClinicalImpactMessage, record.ClinicalImpactClassification)
		assert.Equal(t, NoOncogenicityMessage, record.OncogenicityClassification)
	})

	t.Run("nil record data still yields a fully populated record", func(t *testing.T) {
		record := s.ExtractClassifications(nil, "12345")

		assert.Equal(t, NoGermlineMessage, record.GermlineClassification)
		assert.Equal(t, NoClinicalImpactMessage, record.ClinicalImpactClassification)
		assert.Equal(t, NoOncogenicityMessage, record.OncogenicityClassification)
	})
}

func TestNewClinVarService(t *testing.T) {
	var cfg models.Config
	cfg.ClinVar.ESearchUrl = "http://esearch.local"
	cfg.ClinVar.ESummaryUrl = "http://esummary.local"
	cfg.ClinVar.TimeoutSeconds = 10

	s := NewClinVarService(http.DefaultClient, &cfg, testLogger())

	assert.Equal(t, "http://esearch.local", s.ESearchUrl)
	assert.Equal(t, "http://esummary.local", s.ESummaryUrl)
	assert.Equal(t, 10*time.Second, s.RequestTimeout)
}
