package convert

import (
	"github.com/warp/period-engine/calendars"
	"github.com/warp/period-engine/period"
)

const persianEpochRD = 226896 // 622-03-19 Julian

// Persian returns the arithmetic Jalali converter (2820-year cycle).
func Persian() calendars.Converter { return persian{} }

type persian struct{}

func (persian) rd(y, m, d int) int {
	epbase := y - 474
	if y < 0 {
		epbase = y - 473
	}
	epyear := 474 + floorMod(epbase, 2820)
	md := (m - 1) * 31
	if m > 7 {
		md = (m-1)*30 + 6
	}
	return persianEpochRD - 1 +
		floorDiv(epbase, 2820)*1029983 +
		365*(epyear-1) + floorDiv(682*epyear-110, 2816) +
		md + d
}

func (c persian) ToGregorian(year, month, day int) period.Date {
	return dateFromRD(c.rd(year, month, day))
}

func (c persian) FromGregorian(d period.Date) (int, int, int) {
	rd := rdFromDate(d)
	depoch := rd - c.rd(475, 1, 1)
	cycle := floorDiv(depoch, 1029983)
	cyear := floorMod(depoch, 1029983)
	ycycle := 2820
	if cyear != 1029982 {
		aux1 := cyear / 366
		aux2 := cyear % 366
		ycycle = floorDiv(2134*aux1+2816*aux2+2815, 1028522) + aux1 + 1
	}
	year := ycycle + 2820*cycle + 474
	if year <= 0 {
		year--
	}
	yday := rd - c.rd(year, 1, 1) + 1
	var month int
	if yday <= 186 {
		month = ceilDiv(yday, 31)
	} else {
		month = ceilDiv(yday-6, 30)
	}
	day := rd - c.rd(year, month, 1) + 1
	return year, month, day
}

func (persian) MonthsInYear(int) int { return 12 }
