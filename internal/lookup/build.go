package lookup

import (
	"sort"

	"github.com/inodb/tcrconvert/internal/genename"
)

// Build derives the three lookup tables from a list of IMGT names.
// Names are sorted first; duplicate names are kept once.
func Build(names []string) (*TableSet, error) {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	records, err := buildRecords(sorted)
	if err != nil {
		return nil, err
	}

	return &TableSet{
		IMGT:     &Table{Kind: KindIMGT, Records: records},
		TenX:     &Table{Kind: KindTenX, Records: fromTenX(records)},
		Adaptive: &Table{Kind: KindAdaptive, Records: fromAdaptive(records)},
	}, nil
}

// NewRecord derives every convention's name from an IMGT name.
func NewRecord(imgt string) Record {
	adaptive, adaptiveV2 := genename.DerivePlatformB(imgt)
	return Record{
		IMGT:       imgt,
		TenX:       genename.DerivePlatformA(imgt),
		Adaptive:   adaptive,
		AdaptiveV2: adaptiveV2,
	}
}

type alleleKey struct {
	tenx, allele string
}

func buildRecords(names []string) ([]Record, error) {
	records := make([]Record, 0, len(names))
	seen := make(map[string]bool, len(names))
	byAllele := make(map[alleleKey]string, len(names))

	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		r := NewRecord(name)
		_, allele := genename.SplitAllele(name)
		k := alleleKey{r.TenX, allele}
		if prev, ok := byAllele[k]; ok {
			return nil, &CollisionError{TenX: r.TenX, Allele: allele, First: prev, Second: name}
		}
		byAllele[k] = name

		records = append(records, r)
	}
	return records, nil
}

// representatives groups records by key and keeps the lowest allele of each
// group. The result is ordered by key.
func representatives(records []Record, key func(Record) string) ([]string, map[string]Record) {
	best := make(map[string]Record)
	for _, r := range records {
		k := key(r)
		cur, ok := best[k]
		if !ok || genename.CompareAlleles(r.IMGT, cur.IMGT) < 0 {
			best[k] = r
		}
	}

	keys := make([]string, 0, len(best))
	for k := range best {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, best
}

func fromTenX(records []Record) []Record {
	keys, best := representatives(records, func(r Record) string { return r.TenX })
	out := make([]Record, 0, len(keys))
	for _, k := range keys {
		out = append(out, best[k])
	}
	return out
}

func fromAdaptive(records []Record) []Record {
	var captured []Record
	for _, r := range records {
		if r.Adaptive != genename.NoData {
			captured = append(captured, r)
		}
	}

	out := make([]Record, 0, 2*len(captured))
	out = append(out, captured...)

	// Allele-free names resolve to the lowest allele.
	keys, best := representatives(captured, func(r Record) string { return genename.StripAllele(r.Adaptive) })
	for _, k := range keys {
		out = append(out, withAdaptive(best[k], k))
	}

	// Subgroup-only names are kept when the subgroup has a single gene.
	genes := make(map[string][]string)
	for _, k := range keys {
		if sg := genename.Subgroup(k); sg != "" {
			genes[sg] = append(genes[sg], k)
		}
	}
	subgroups := make([]string, 0, len(genes))
	for sg, ks := range genes {
		if len(ks) == 1 {
			subgroups = append(subgroups, sg)
		}
	}
	sort.Strings(subgroups)
	for _, sg := range subgroups {
		out = append(out, withAdaptive(best[genes[sg][0]], sg))
	}

	return dedupe(out)
}

func withAdaptive(r Record, name string) Record {
	r.Adaptive = name
	r.AdaptiveV2 = name
	return r
}

func dedupe(records []Record) []Record {
	seen := make(map[Record]bool, len(records))
	out := records[:0]
	for _, r := range records {
		if seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}
