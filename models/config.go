package models

type Config struct {
	Debug bool `envconfig:"CLINSEARCH_DEBUG" default:"false"`

	VariantValidator struct {
		RefSeqUrl      string `envconfig:"CLINSEARCH_VV_REFSEQ_URL" default:"https://rest.variantvalidator.org/VariantValidator/variantvalidator"`
		EnsemblUrl     string `envconfig:"CLINSEARCH_VV_ENSEMBL_URL" default:"https://rest.variantvalidator.org/VariantValidator/variantvalidator_ensembl"`
		TimeoutSeconds int    `envconfig:"CLINSEARCH_VV_TIMEOUT_SECONDS" default:"10"`
	}

	ClinVar struct {
		ESearchUrl     string `envconfig:"CLINSEARCH_CLINVAR_ESEARCH_URL" default:"https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"`
		ESummaryUrl    string `envconfig:"CLINSEARCH_CLINVAR_ESUMMARY_URL" default:"https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esummary.fcgi"`
		TimeoutSeconds int    `envconfig:"CLINSEARCH_CLINVAR_TIMEOUT_SECONDS" default:"10"`
	}

	Log struct {
		Path       string `envconfig:"CLINSEARCH_LOG_PATH" default:"clinvar_validation.log"`
		MaxSizeMb  int    `envconfig:"CLINSEARCH_LOG_MAX_SIZE_MB" default:"5"`
		MaxBackups int    `envconfig:"CLINSEARCH_LOG_MAX_BACKUPS" default:"3"`
	}
}
