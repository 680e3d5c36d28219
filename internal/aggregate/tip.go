package aggregate

type Tip string

const (
	TipRestLiver Tip = "rest-liver"
	TipCutDown   Tip = "cut-down"
	TipKeepGoing Tip = "keep-going"
)

const (
	restLiverDays = 4
	cutDownMl     = 2000
)

// TipFor picks the health tip shown under the stats for a window.
func TipFor(agg WeeklyAggregate) Tip {
	switch {
	case agg.DistinctDrinkingDays >= restLiverDays:
		return TipRestLiver
	case agg.TotalVolumeMl > cutDownMl:
		return TipCutDown
	default:
		return TipKeepGoing
	}
}
