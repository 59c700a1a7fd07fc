package attendance

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ericardos/chamada-escolar/core"
)

// Variant selects one of the two monthly export shapes.
type Variant int

const (
	// VariantClass is the class-only export: per-student absence total
	// (absences only) plus an attendance percentage column.
	VariantClass Variant = iota

	// VariantSchool is the school-scoped export: a school line in the
	// preamble and a single trailing absence-count column, where justified
	// absences count as absences. No percentage.
	VariantSchool
)

// Report is a rendered monthly attendance grid. Content starts with a UTF-8
// BOM so spreadsheet tools pick up the encoding.
type Report struct {
	Filename string
	Content  string
}

// pt-BR month names as the export header spells them.
var monthNames = [...]string{
	"JANEIRO", "FEVEREIRO", "MARÇO", "ABRIL", "MAIO", "JUNHO",
	"JULHO", "AGOSTO", "SETEMBRO", "OUTUBRO", "NOVEMBRO", "DEZEMBRO",
}

var statusCodes = map[Status]string{
	StatusPresent:   "P",
	StatusAbsent:    "F",
	StatusJustified: "FJ",
}

// MonthName returns the upper-cased pt-BR name of the month.
func MonthName(month time.Month) string { return monthNames[month-1] }

// DaysInMonth returns the number of calendar days in the month, leap years
// included.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// BuildMonthlyReport renders the month grid (student rows × day columns) of
// the class as CSV text, in the student sequence's current order.
// schoolName is only emitted for VariantSchool.
//
// The percentage denominator is the number of distinct in-month dates for
// which any student of the class has an explicit entry; when it is zero the
// percentage is 0%.
func BuildMonthlyReport(cls Class, schoolName string, year int, month time.Month, variant Variant) Report {
	days := DaysInMonth(year, month)
	monthName := MonthName(month)

	// distinct dates with any explicit entry this month
	classDays := make(map[string]struct{})
	prefix := fmt.Sprintf("%04d-%02d-", year, month)
	for _, st := range cls.Students {
		for date, status := range st.Attendance {
			if status.Writable() && strings.HasPrefix(date, prefix) {
				classDays[date] = struct{}{}
			}
		}
	}
	totalClassDays := len(classDays)

	var b strings.Builder
	b.WriteString("\uFEFF") // UTF-8 BOM for spreadsheet tools
	b.WriteString("CONTROLE DE FREQUÊNCIA\n\n")
	if variant == VariantSchool {
		b.WriteString("Escola," + csvQuote(schoolName) + "\n")
	}
	fmt.Fprintf(&b, "Ano,%d,,Mês,%s\n\n", year, monthName)
	b.WriteString("P,Presença\n")
	b.WriteString("F,Falta\n")
	b.WriteString("FJ,Falta Justificada\n\n")

	header := make([]string, 0, days+4)
	header = append(header, "Nº", "Nome")
	for day := 1; day <= days; day++ {
		header = append(header, strconv.Itoa(day))
	}
	header = append(header, "Total de Faltas")
	if variant == VariantClass {
		header = append(header, "% de Frequência")
	}
	b.WriteString(strings.Join(header, ",") + "\n")

	rows := make([]string, 0, len(cls.Students))
	for i, st := range cls.Students {
		row := make([]string, 0, days+4)
		row = append(row, strconv.Itoa(i+1), csvQuote(st.Name))

		var absences, presents int
		for day := 1; day <= days; day++ {
			date := fmt.Sprintf("%s%02d", prefix, day)
			status := st.ResolveStatus(date)
			row = append(row, statusCodes[status])
			switch status {
			case StatusAbsent:
				absences++
			case StatusJustified:
				if variant == VariantSchool {
					absences++
				}
			case StatusPresent:
				presents++
			}
		}

		row = append(row, strconv.Itoa(absences))
		if variant == VariantClass {
			pct := "0%"
			if totalClassDays > 0 {
				pct = strconv.Itoa(int(math.Round(float64(presents)/float64(totalClassDays)*100))) + "%"
			}
			row = append(row, pct)
		}
		rows = append(rows, strings.Join(row, ","))
	}
	b.WriteString(strings.Join(rows, "\n"))

	name := "Frequencia_"
	if variant == VariantSchool && schoolName != "" {
		name += core.Underscore(schoolName) + "_"
	}
	name += fmt.Sprintf("%s_%s_%d.csv", core.Underscore(cls.Name), monthName, year)

	return Report{Filename: name, Content: b.String()}
}

// csvQuote always quotes the field, doubling inner quote characters per
// standard CSV escaping. Day cells stay unquoted, so encoding/csv's minimal
// quoting cannot be used here without changing the exported bytes.
func csvQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
