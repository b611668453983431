package rating

import "github.com/vytor/ringside/internal/models"

type tierBand struct {
	min  int
	tier models.Tier
}

// Highest threshold first; a rating on a boundary belongs to the higher band.
var tierBands = []tierBand{
	{1500, models.Tier{Name: "CAMPEÓN", Category: "gold"}},
	{1300, models.Tier{Name: "CONTENDIENTE", Category: "purple"}},
	{1100, models.Tier{Name: "ESTABLECIDO", Category: "blue"}},
	{900, models.Tier{Name: "PROMETEDOR", Category: "green"}},
}

var novice = models.Tier{Name: "NOVATO", Category: "gray"}

// TierFromRating maps a rating onto its display tier.
func TierFromRating(r int) models.Tier {
	for _, b := range tierBands {
		if r >= b.min {
			return b.tier
		}
	}
	return novice
}
