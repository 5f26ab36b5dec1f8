package domain

// RankGroup is one labelled group of the rank selector.
type RankGroup struct {
	Label string
	Ranks []string
}

// RankGroups is the rank catalogue offered for personnel and user forms.
var RankGroups = []RankGroup{
	{Label: "นายทหารสัญญาบัตร (ชาย)", Ranks: []string{"น.อ.(พ)", "น.อ.หม่อมหลวง", "น.อ.", "น.ท.", "น.ต.", "ร.อ.", "ร.ท.", "ร.ต."}},
	{Label: "นายทหารสัญญาบัตร (หญิง)", Ranks: []string{"น.อ.(พ).หญิง", "น.อ.หญิง", "น.ท.หญิง", "น.ต.หญิง", "ร.อ.หญิง", "ร.ท.หญิง", "ร.ต.หญิง"}},
	{Label: "นายทหารประทวน (ชาย)", Ranks: []string{"พ.อ.อ.(พ)", "พ.อ.อ.", "พ.อ.ท.", "พ.อ.ต.", "จ.อ.", "จ.ท.", "จ.ต."}},
	{Label: "นายทหารประทวน (หญิง)", Ranks: []string{"พ.อ.อ.หญิง", "พ.อ.ท.หญิง", "พ.อ.ต.หญิง", "จ.อ.หญิง", "จ.ท.หญิง", "จ.ต.หญิง"}},
	{Label: "พลเรือน", Ranks: []string{"นาย", "นาง", "นางสาว"}},
}

// KnownRank reports whether rank appears in RankGroups.
func KnownRank(rank string) bool {
	for _, g := range RankGroups {
		for _, r := range g.Ranks {
			if r == rank {
				return true
			}
		}
	}
	return false
}
