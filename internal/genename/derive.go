package genename

import (
	"regexp"
	"strconv"
	"strings"
)

// NoData marks Adaptive names for genes Adaptive does not capture (constant region).
const NoData = "NoData"

// alleleLen is the length of the IMGT allele suffix, e.g. "*01".
const alleleLen = 3

// TenXRules flatten dual-locus genes for the 10X convention. They run on
// names whose allele has already been removed.
var TenXRules = geneRules("dual-locus", dualLocusPairs(func(g DualLocusGene) string { return g.TenX }))

// AdaptiveRules turn an IMGT name into an Adaptive name.
var AdaptiveRules = append(
	geneRules("dual-locus", dualLocusPairs(func(g DualLocusGene) string { return g.Adaptive })),
	Rule{Name: "prefix", Pattern: regexp.MustCompile(`^TR`), Replace: "TCR"},
	Rule{Name: "dash-zero", Literal: "-", Replace: "-0"},
	Rule{Name: "orphan", Pattern: regexp.MustCompile(`/OR(\d)-0(\d)`), Replace: "-or0${1}_0${2}"},
	addDashOneRule,
	padSingleDigitRule,
)

var (
	addDashOneRule     = Rule{Name: "add-dash-one", Literal: "*", Replace: "-01*", Unless: "-"}
	padSingleDigitRule = Rule{Name: "pad-single-digit", Pattern: regexp.MustCompile(`([A-Za-z]+)(\d)([-*])`), Replace: "${1}0${2}${3}"}
)

// SplitAllele splits "TRAV1*01" into "TRAV1" and "*01". Names without an
// allele return an empty allele.
func SplitAllele(name string) (gene, allele string) {
	if i := strings.LastIndexByte(name, '*'); i >= 0 {
		return name[:i], name[i:]
	}
	return name, ""
}

// StripAllele removes the trailing allele marker, which IMGT always writes
// as three characters.
func StripAllele(name string) string {
	if len(name) < alleleLen {
		return name
	}
	return name[:len(name)-alleleLen]
}

// AlleleNumber returns the numeric allele of a name, or -1 if it has none.
func AlleleNumber(name string) int {
	_, allele := SplitAllele(name)
	if allele == "" {
		return -1
	}
	n, err := strconv.Atoi(allele[1:])
	if err != nil {
		return -1
	}
	return n
}

// CompareAlleles orders two names by allele number, so "*09" sorts before
// "*10" regardless of zero padding. Names with equal alleles compare as strings.
func CompareAlleles(a, b string) int {
	na, nb := AlleleNumber(a), AlleleNumber(b)
	switch {
	case na < nb:
		return -1
	case na > nb:
		return 1
	}
	return strings.Compare(a, b)
}

// IsConstant reports whether an IMGT name is a constant-region gene (TRAC, TRBC1, ...).
func IsConstant(name string) bool {
	return len(name) > 3 && strings.HasPrefix(name, "TR") && name[3] == 'C'
}

// SegmentLetter returns the segment letter (V, D, J or C) of an IMGT, 10X
// or Adaptive name, or 0 when the name is not a TR gene.
func SegmentLetter(name string) byte {
	var c byte
	switch {
	case strings.HasPrefix(name, "TCR") && len(name) > 4:
		c = name[4]
	case strings.HasPrefix(name, "TR") && len(name) > 3:
		c = name[3]
	}
	switch c {
	case 'V', 'D', 'J', 'C':
		return c
	}
	return 0
}

// DerivePlatformA returns the 10X name for an IMGT name.
func DerivePlatformA(name string) string {
	return TenXRules.Apply(StripAllele(name))
}

// DerivePlatformB returns the Adaptive and Adaptive v2 names for an IMGT
// name. Both are NoData for constant-region genes.
func DerivePlatformB(name string) (string, string) {
	if IsConstant(name) {
		return NoData, NoData
	}
	adaptive := AdaptiveRules.Apply(name)
	return adaptive, adaptive
}

// AddDashOne adds the default "-01" gene designation to names without one.
// "TRBV2*01" becomes "TRBV2-01*01".
func AddDashOne(name string) string {
	return addDashOneRule.Apply(name)
}

// PadSingleDigit zero-pads a single-digit number that follows letters and
// precedes "-" or "*". "TCRBV1-2" becomes "TCRBV01-2".
func PadSingleDigit(name string) string {
	return padSingleDigitRule.Apply(name)
}

// Subgroup returns the part of an Adaptive name before the gene number,
// e.g. "TCRBV15" for "TCRBV15-01". It returns "" when there is no gene number.
func Subgroup(adaptive string) string {
	gene, _ := SplitAllele(adaptive)
	i := strings.IndexByte(gene, '-')
	if i <= 0 {
		return ""
	}
	return gene[:i]
}
