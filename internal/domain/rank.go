package domain

import "github.com/shopspring/decimal"

type Rank string

const (
	RankDong     Rank = "Đồng"
	RankBac      Rank = "Bạc"
	RankVang     Rank = "Vàng"
	RankBachKim  Rank = "Bạch Kim"
	RankRuby     Rank = "Ruby"
	RankKimCuong Rank = "Kim Cương"
)

// RankTier is one row of the static rank table.
type RankTier struct {
	Name           Rank
	KeepPercentage decimal.Decimal
	MinLots        decimal.Decimal
}

// rankTable is ordered from the lowest tier to the highest.
var rankTable = []RankTier{
	{Name: RankDong, KeepPercentage: decimal.NewFromInt(70), MinLots: decimal.Zero},
	{Name: RankBac, KeepPercentage: decimal.NewFromInt(75), MinLots: decimal.NewFromInt(50)},
	{Name: RankVang, KeepPercentage: decimal.NewFromInt(80), MinLots: decimal.NewFromInt(200)},
	{Name: RankBachKim, KeepPercentage: decimal.NewFromInt(85), MinLots: decimal.NewFromInt(500)},
	{Name: RankRuby, KeepPercentage: decimal.NewFromInt(88), MinLots: decimal.NewFromInt(1000)},
	{Name: RankKimCuong, KeepPercentage: decimal.NewFromInt(90), MinLots: decimal.NewFromInt(2000)},
}

// RankTiers returns a copy of the rank table, lowest tier first.
func RankTiers() []RankTier {
	tiers := make([]RankTier, len(rankTable))
	copy(tiers, rankTable)
	return tiers
}

func (r Rank) Valid() bool {
	return r.level() >= 0
}

func (r Rank) level() int {
	for i, tier := range rankTable {
		if tier.Name == r {
			return i
		}
	}
	return -1
}

// Above reports whether r is a strictly higher tier than other.
// Unknown ranks sit below every known tier.
func (r Rank) Above(other Rank) bool {
	return r.level() > other.level()
}

// KeepPercentage returns the share of a reward a partner of rank r keeps.
func KeepPercentage(r Rank) (decimal.Decimal, bool) {
	if i := r.level(); i >= 0 {
		return rankTable[i].KeepPercentage, true
	}
	return decimal.Zero, false
}

// KeepPercentageFor resolves the keep percentage of a partner record. An
// unknown rank falls back to the override stored on the record and then to
// the lowest tier.
func KeepPercentageFor(r Rank, override *decimal.Decimal) decimal.Decimal {
	if keep, ok := KeepPercentage(r); ok {
		return keep
	}
	if override != nil {
		return *override
	}
	return rankTable[0].KeepPercentage
}

// RankForLots returns the highest tier whose lot threshold is met.
func RankForLots(lots decimal.Decimal) Rank {
	rank := rankTable[0].Name
	for _, tier := range rankTable {
		if lots.GreaterThanOrEqual(tier.MinLots) {
			rank = tier.Name
		}
	}
	return rank
}

// NextTier returns the tier directly above r. It is false at the top tier.
// An unknown rank is followed by the lowest tier.
func NextTier(r Rank) (RankTier, bool) {
	next := r.level() + 1
	if next >= len(rankTable) {
		return RankTier{}, false
	}
	return rankTable[next], true
}
