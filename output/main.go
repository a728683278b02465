package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	linq "github.com/ahmetb/go-linq"

	"clinsearch/models/dtos"
)

// Partially-failed validations carry their gene info under a fixed warning
// key instead of under the HGVS string itself.
const validationWarningKey = "validation_warning_1"

// ExtractGeneSymbol scans the top-level mapping of a VariantValidator
// response for the first value carrying a non-empty gene_symbol field,
// then falls back to the first-validation-warning block. The raw body is
// walked with a json.Decoder so "first" means first in payload field order,
// which plain map deserialization would not preserve.
//
// An empty return means the symbol is unknown (e.g. an intronic variant);
// callers render that as "N/A".
func ExtractGeneSymbol(rawValidation []byte) string {
	decoder := json.NewDecoder(bytes.NewReader(rawValidation))

	opening, err := decoder.Token()
	if err != nil {
		return ""
	}
	if delim, ok := opening.(json.Delim); !ok || delim != '{' {
		return ""
	}

	var warningBlock json.RawMessage
	for decoder.More() {
		keyToken, keyErr := decoder.Token()
		if keyErr != nil {
			return ""
		}
		key, _ := keyToken.(string)

		var value json.RawMessage
		if decodeErr := decoder.Decode(&value); decodeErr != nil {
			return ""
		}

		if symbol := geneSymbolOf(value); symbol != "" {
			return symbol
		}
		if key == validationWarningKey {
			warningBlock = value
		}
	}

	return geneSymbolOf(warningBlock)
}

func geneSymbolOf(value json.RawMessage) string {
	if value == nil {
		return ""
	}
	var record struct {
		GeneSymbol string `json:"gene_symbol"`
	}
	// non-object values (the status flag, plain strings) simply don't match
	if err := json.Unmarshal(value, &record); err != nil {
		return ""
	}
	return record.GeneSymbol
}

// FormatResults projects the gene symbol and extracted classifications into
// the final summary structure. Pure projection, no failure modes.
func FormatResults(geneSymbol string, record dtos.ClassificationRecord) dtos.ResultSummary {
	return dtos.ResultSummary{
		Gene:           geneSymbol,
		VariantUid:     record.Uid,
		Germline:       record.GermlineClassification,
		ClinicalImpact: record.ClinicalImpactClassification,
		Oncogenicity:   record.OncogenicityClassification,
	}
}

// PrettyPrint renders the fixed-format report for a result summary.
func PrettyPrint(w io.Writer, summary dtos.ResultSummary) {
	fmt.Fprintf(w, "\nClinical Variant Summary\n")
	fmt.Fprintln(w, strings.Repeat("=", 40))
	fmt.Fprintf(w, "Gene: %s\n", summary.Gene)
	fmt.Fprintf(w, "Variant UID: %s\n\n", summary.VariantUid)

	printSection(w, "Germline Classification", summary.Germline)
	printSection(w, "Clinical Impact Classification", summary.ClinicalImpact)
	printSection(w, "Oncogenicity Classification", summary.Oncogenicity)
}

// printSection writes one classification block. Anything that is not a
// populated mapping (notably the literal fallback message strings) renders
// as a no-data note instead of a field table.
func printSection(w io.Writer, title string, data interface{}) {
	fmt.Fprintln(w, title)

	fields, ok := data.(map[string]interface{})
	if !ok || len(fields) == 0 {
		fmt.Fprintf(w, "  No data available.\n\n")
		return
	}

	fmt.Fprintln(w, "  Field                    Value")
	fmt.Fprintln(w, "  ------------------------- ------------------------------------------------------------")

	// stable display order for a server-provided mapping
	var keys []string
	linq.From(fields).
		SelectT(func(kv linq.KeyValue) string { return kv.Key.(string) }).
		SortT(func(a string, b string) bool { return a < b }).
		ToSlice(&keys)

	for _, key := range keys {
		fmt.Fprintf(w, "  %-25s %v\n", formatLabel(key), fields[key])
	}
	fmt.Fprintln(w)
}

func formatLabel(field string) string {
	label := strings.ReplaceAll(field, "_", " ")
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
