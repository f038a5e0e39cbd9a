package genename

import (
	"regexp"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddDashOne(t *testing.T) {
	assert.Equal(t, "TRBV2-01*01", AddDashOne("TRBV2*01"))
	assert.Equal(t, "TRBV1-01*01", AddDashOne("TRBV1-01*01"))
	assert.Equal(t, "TRBV1-1*01", AddDashOne("TRBV1-1*01"))
}

func TestPadSingleDigit(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"TCRBV1-2", "TCRBV01-2"},
		{"TCRBV11-2", "TCRBV11-2"},
		{"TCRBD1*01", "TCRBD01*01"},
		{"TCRBVA-or09_02*01", "TCRBVA-or09_02*01"},
		{"TCRGJP-01*01", "TCRGJP-01*01"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, PadSingleDigit(tt.in))
		})
	}
}

func TestPadSingleDigit_NoOpWithoutMatch(t *testing.T) {
	re := regexp.MustCompile(`[A-Za-z]\d[-*]`)
	for _, s := range []string{"TCRBV12-03*01", "TRAC", "TCRAJ16-01*01", "abc", ""} {
		require.False(t, re.MatchString(s), s)
		assert.Equal(t, s, PadSingleDigit(s))
	}
}

func TestDerivePlatformA(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"TRAV1*01", "TRAV1"},
		{"TRAV14/DV4*01", "TRAV14DV4"},
		{"TRAV38-2/DV8*01", "TRAV38-2DV8"},
		{"TRAV15D-1/DV6D-1*02", "TRAV15D-1DV6D-1"},
		{"TRBV29/OR9-2*01", "TRBV29/OR9-2"},
		{"TRBC2*01", "TRBC2"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, DerivePlatformA(tt.in))
		})
	}
}

func TestDerivePlatformA_StripsThreeOutsideExceptions(t *testing.T) {
	exceptions := make(map[string]bool)
	for _, g := range DualLocusGenes {
		exceptions[g.IMGT] = true
	}

	for _, name := range []string{"TRAV1-2*02", "TRBV7-9*10", "TRGJP1*01", "TRDC*01", "TRBVA/OR9-2*01"} {
		require.False(t, exceptions[StripAllele(name)])
		assert.Equal(t, name[:len(name)-3], DerivePlatformA(name))
	}
}

func TestDerivePlatformB(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"TRAV1*01", "TCRAV01-01*01"},
		{"TRAV14/DV4*01", "TCRAV14-01*01"},
		{"TRAV38-2/DV8*01", "TCRAV38-02*01"},
		{"TRBV29/OR9-2*01", "TCRBV29-or09_02*01"},
		{"TRBVA/OR9-2*01", "TCRBVA-or09_02*01"},
		{"TRBV15*01", "TCRBV15-01*01"},
		{"TRBD1*01", "TCRBD01-01*01"},
		{"TRBJ2-5*01", "TCRBJ02-05*01"},
		{"TRAJ16*01", "TCRAJ16-01*01"},
		{"TRAV12-1*01", "TCRAV12-01*01"},
		{"TRAV4-4/DV10*01", "TCRAV04-04*01"},
		{"TRAV16D/DV11*01", "TCRAV16D-01*01"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			a, a2 := DerivePlatformB(tt.in)
			assert.Equal(t, tt.want, a)
			assert.Equal(t, a, a2)
		})
	}
}

func TestDerivePlatformB_Constant(t *testing.T) {
	for _, name := range []string{"TRAC*01", "TRBC1*01", "TRBC2*03", "TRGC1*01", "TRDC*01"} {
		a, a2 := DerivePlatformB(name)
		assert.Equal(t, NoData, a, name)
		assert.Equal(t, NoData, a2, name)
	}
}

func TestRule_EachAdaptiveStep(t *testing.T) {
	steps := []struct {
		rule string
		in   string
		want string
	}{
		{"dual-locus:TRAV29/DV5", "TRAV29/DV5*01", "TRAV29-1*01"},
		{"prefix", "TRBV2*01", "TCRBV2*01"},
		{"dash-zero", "TCRBV6-5*01", "TCRBV6-05*01"},
		{"orphan", "TCRBV20/OR9-02*01", "TCRBV20-or09_02*01"},
		{"add-dash-one", "TCRBV2*01", "TCRBV2-01*01"},
		{"pad-single-digit", "TCRBV2-01*01", "TCRBV02-01*01"},
	}

	for _, s := range steps {
		t.Run(s.rule, func(t *testing.T) {
			r, ok := AdaptiveRules.Named(s.rule)
			require.True(t, ok)
			assert.Equal(t, s.want, r.Apply(s.in))
		})
	}
}

func TestRule_GeneMatchIsExact(t *testing.T) {
	r := Rule{Gene: "TRAV14/DV4", Replace: "TRAV14-1"}
	assert.Equal(t, "TRAV14-1*02", r.Apply("TRAV14/DV4*02"))
	assert.Equal(t, "TRAV14-1", r.Apply("TRAV14/DV4"))
	assert.Equal(t, "TRAV14D-3/DV8*01", r.Apply("TRAV14D-3/DV8*01"))
}

func TestCompareAlleles_Numeric(t *testing.T) {
	names := []string{"TRBV7-9*10", "TRBV7-9*2", "TRBV7-9*09", "TRBV7-9*01"}
	sort.Slice(names, func(i, j int) bool { return CompareAlleles(names[i], names[j]) < 0 })
	assert.Equal(t, []string{"TRBV7-9*01", "TRBV7-9*2", "TRBV7-9*09", "TRBV7-9*10"}, names)
}

func TestCompareAlleles_Pairs(t *testing.T) {
	assert.Negative(t, CompareAlleles("TRBV7-9*1", "TRBV7-9*09"))
	assert.Negative(t, CompareAlleles("TRBV7-9*09", "TRBV7-9*10"))
	assert.Positive(t, CompareAlleles("TRBV7-9*10", "TRBV7-9*9"))
	assert.Zero(t, CompareAlleles("TRAV1*01", "TRAV1*01"))
	assert.Negative(t, CompareAlleles("TRAV1*01", "TRAV2*01"))
}

func TestSegmentLetter(t *testing.T) {
	tests := []struct {
		name string
		want byte
	}{
		{"TRAV14/DV4*01", 'V'},
		{"TRBJ2-7", 'J'},
		{"TRBD1*01", 'D'},
		{"TRAC*01", 'C'},
		{"TCRBJ02-07*02", 'J'},
		{"TCRAV12-01", 'V'},
		{"TCRBD01", 'D'},
		{"CASSGF", 0},
		{"TRX", 0},
		{"", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SegmentLetter(tt.name), tt.name)
	}
}

func TestSplitAllele(t *testing.T) {
	g, a := SplitAllele("TRAV14/DV4*01")
	assert.Equal(t, "TRAV14/DV4", g)
	assert.Equal(t, "*01", a)

	g, a = SplitAllele("TRAV1")
	assert.Equal(t, "TRAV1", g)
	assert.Empty(t, a)

	assert.Equal(t, -1, AlleleNumber("TRAV1"))
	assert.Equal(t, 10, AlleleNumber("TRAV1*10"))
}

func TestSubgroup(t *testing.T) {
	assert.Equal(t, "TCRBV15", Subgroup("TCRBV15-01"))
	assert.Equal(t, "TCRBV29", Subgroup("TCRBV29-or09_02*01"))
	assert.Equal(t, "", Subgroup("TCRBV15"))
}
