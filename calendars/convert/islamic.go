package convert

import (
	"github.com/warp/period-engine/calendars"
	"github.com/warp/period-engine/period"
)

const islamicEpochRD = 227015 // 622-07-16 Julian

// Islamic returns the tabular (arithmetic) Hijri converter: a 30-year
// cycle with 11 leap years of 355 days.
func Islamic() calendars.Converter { return islamic{} }

type islamic struct{}

func (islamic) rd(y, m, d int) int {
	return islamicEpochRD - 1 +
		354*(y-1) + floorDiv(3+11*y, 30) +
		29*(m-1) + m/2 + d
}

func (c islamic) ToGregorian(year, month, day int) period.Date {
	return dateFromRD(c.rd(year, month, day))
}

func (c islamic) FromGregorian(d period.Date) (int, int, int) {
	rd := rdFromDate(d)
	year := floorDiv(30*(rd-islamicEpochRD)+10646, 10631)
	month := 1
	for month < 12 && rd >= c.rd(year, month+1, 1) {
		month++
	}
	day := rd - c.rd(year, month, 1) + 1
	return year, month, day
}

func (islamic) MonthsInYear(int) int { return 12 }
