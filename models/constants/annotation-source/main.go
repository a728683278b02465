package annotationSource

import (
	"clinsearch/models/constants"
)

const (
	Unknown constants.AnnotationSource = "Unknown"

	RefSeq  constants.AnnotationSource = "RefSeq"
	Ensembl constants.AnnotationSource = "Ensembl"
)
