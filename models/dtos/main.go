package dtos

// ClassificationRecord carries the classification fields extracted from a
// single ClinVar summary record. The three classification fields hold either
// the structured mapping returned by ClinVar or, when the source record lacks
// the field, a literal "not available" message string, so the record is
// always fully populated.
type ClassificationRecord struct {
	Uid                          string                 `json:"uid"`
	ClinicalSignificance         map[string]interface{} `json:"clinical_significance"`
	GermlineClassification       interface{}            `json:"germline_classification"`
	ClinicalImpactClassification interface{}            `json:"clinical_impact_classification"`
	OncogenicityClassification   interface{}            `json:"oncogenicity_classification"`
}

// ResultSummary is the final rendering structure combining the
// VariantValidator gene symbol with the ClinVar classifications.
type ResultSummary struct {
	Gene           string      `json:"gene"`
	VariantUid     string      `json:"variant_uid"`
	Germline       interface{} `json:"germline"`
	ClinicalImpact interface{} `json:"clinical_impact"`
	Oncogenicity   interface{} `json:"oncogenicity"`
}
