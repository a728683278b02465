package constants

/*
	Defines a set of base level
	constants and enums to be used
	throughout clinsearch and the
	remote services it talks to.
*/
type AssemblyId string
type AnnotationSource string
