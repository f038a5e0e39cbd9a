// Package genename derives 10X and Adaptive TCR gene names from IMGT names.
//
// Every transformation is expressed as an ordered list of Rules so that
// new dual-locus or orphan exceptions are added as data.
package genename

import (
	"regexp"
	"strings"
)

// Rule rewrites a gene name. Exactly one of Gene, Literal or Pattern is set.
type Rule struct {
	Name string

	// Gene matches the allele-free part of the name exactly; the allele
	// suffix (if any) is carried over unchanged.
	Gene string
	// Literal replaces every occurrence of a substring.
	Literal string
	// Pattern replaces every regexp match, expanding $n in Replace.
	Pattern *regexp.Regexp

	Replace string

	// Unless skips the rule when the name already contains this substring.
	Unless string
}

// Apply returns name rewritten by r.
func (r Rule) Apply(name string) string {
	if r.Unless != "" && strings.Contains(name, r.Unless) {
		return name
	}

	switch {
	case r.Gene != "":
		gene, allele := SplitAllele(name)
		if gene != r.Gene {
			return name
		}
		return r.Replace + allele
	case r.Literal != "":
		return strings.ReplaceAll(name, r.Literal, r.Replace)
	case r.Pattern != nil:
		return r.Pattern.ReplaceAllString(name, r.Replace)
	}
	return name
}

// RuleSet is an ordered list of rules applied in sequence.
type RuleSet []Rule

// Apply runs every rule over name in order.
func (rs RuleSet) Apply(name string) string {
	for _, r := range rs {
		name = r.Apply(name)
	}
	return name
}

// Named returns the rule with the given name.
func (rs RuleSet) Named(name string) (Rule, bool) {
	for _, r := range rs {
		if r.Name == name {
			return r, true
		}
	}
	return Rule{}, false
}

// geneRules builds exact-match rules from a gene -> replacement table.
// The result is ordered as the input slice.
func geneRules(prefix string, pairs [][2]string) RuleSet {
	rs := make(RuleSet, 0, len(pairs))
	for _, p := range pairs {
		rs = append(rs, Rule{
			Name:    prefix + ":" + p[0],
			Gene:    p[0],
			Replace: p[1],
		})
	}
	return rs
}
