package genename

// DualLocusGene is an IMGT gene assigned to both the alpha and delta loci.
type DualLocusGene struct {
	IMGT     string // e.g. TRAV14/DV4
	TenX     string // e.g. TRAV14DV4
	Adaptive string // single-locus IMGT-style name before the Adaptive rules, e.g. TRAV14-1
}

// DualLocusGenes lists the dual-locus genes found across the human, mouse
// and rhesus IMGT references.
var DualLocusGenes = []DualLocusGene{
	{IMGT: "TRAV14/DV4", TenX: "TRAV14DV4", Adaptive: "TRAV14-1"},
	{IMGT: "TRAV23/DV6", TenX: "TRAV23DV6", Adaptive: "TRAV23-1"},
	{IMGT: "TRAV29/DV5", TenX: "TRAV29DV5", Adaptive: "TRAV29-1"},
	{IMGT: "TRAV36/DV7", TenX: "TRAV36DV7", Adaptive: "TRAV36-1"},
	{IMGT: "TRAV38-2/DV8", TenX: "TRAV38-2DV8", Adaptive: "TRAV38-2"},
	{IMGT: "TRAV4-4/DV10", TenX: "TRAV4-4DV10", Adaptive: "TRAV4-4"},
	{IMGT: "TRAV6-7/DV9", TenX: "TRAV6-7DV9", Adaptive: "TRAV6-7"},
	{IMGT: "TRAV13-4/DV7", TenX: "TRAV13-4DV7", Adaptive: "TRAV13-4"},
	{IMGT: "TRAV14D-3/DV8", TenX: "TRAV14D-3DV8", Adaptive: "TRAV14D-3"},
	{IMGT: "TRAV15D-1/DV6D-1", TenX: "TRAV15D-1DV6D-1", Adaptive: "TRAV15D-1"},
	{IMGT: "TRAV15-1/DV6-1", TenX: "TRAV15-1DV6-1", Adaptive: "TRAV15-1"},
	{IMGT: "TRAV16D/DV11", TenX: "TRAV16DDV11", Adaptive: "TRAV16D-1"},
	{IMGT: "TRAV21/DV12", TenX: "TRAV21DV12", Adaptive: "TRAV21-1"},
	{IMGT: "TRAV15-2/DV6-2", TenX: "TRAV15-2DV6-2", Adaptive: "TRAV15-2"},
	{IMGT: "TRAV15D-2/DV6D-2", TenX: "TRAV15D-2DV6D-2", Adaptive: "TRAV15D-2"},
}

func dualLocusPairs(to func(DualLocusGene) string) [][2]string {
	pairs := make([][2]string, len(DualLocusGenes))
	for i, g := range DualLocusGenes {
		pairs[i] = [2]string{g.IMGT, to(g)}
	}
	return pairs
}
