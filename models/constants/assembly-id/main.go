package assemblyId

import (
	"clinsearch/models/constants"
	"strings"
)

const (
	Unknown constants.AssemblyId = "Unknown"

	GRCh38 constants.AssemblyId = "GRCh38"
	GRCh37 constants.AssemblyId = "GRCh37"
)

func CastToAssemblyId(text string) constants.AssemblyId {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "grch38":
		return GRCh38
	case "grch37":
		return GRCh37
	default:
		return Unknown
	}
}

func IsKnownAssemblyId(text string) bool {
	// attempt to cast to assemblyId and
	// return if unknown assemblyId
	return CastToAssemblyId(text) != Unknown
}
