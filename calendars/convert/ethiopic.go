package convert

import (
	"github.com/warp/period-engine/calendars"
	"github.com/warp/period-engine/period"
)

// The Ethiopian and Coptic calendars share one structure: twelve 30-day
// months plus a 5-day epagomenal month (6 days when the year ordinal is
// congruent to 3 mod 4). Only the epochs differ.

const (
	copticEpochRD   = 103605 // 284-08-29 Julian
	ethiopicEpochRD = 2796   // 8-08-29 Julian
)

// Ethiopian returns the Amete Mihret era converter.
func Ethiopian() calendars.Converter { return epagomenal{epoch: ethiopicEpochRD} }

// Coptic returns the Anno Martyrum era converter.
func Coptic() calendars.Converter { return epagomenal{epoch: copticEpochRD} }

type epagomenal struct {
	epoch int
}

func (c epagomenal) rd(y, m, d int) int {
	return c.epoch - 1 + 365*(y-1) + floorDiv(y, 4) + 30*(m-1) + d
}

func (c epagomenal) ToGregorian(year, month, day int) period.Date {
	return dateFromRD(c.rd(year, month, day))
}

func (c epagomenal) FromGregorian(d period.Date) (int, int, int) {
	rd := rdFromDate(d)
	year := floorDiv(4*(rd-c.epoch)+1463, 1461)
	month := floorDiv(rd-c.rd(year, 1, 1), 30) + 1
	day := rd - c.rd(year, month, 1) + 1
	return year, month, day
}

func (c epagomenal) MonthsInYear(int) int { return 13 }
