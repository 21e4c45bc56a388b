package service

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/AAK-MBU/MBU-Egenbefordring/model"
)

// danishMonths maps month number to the month name used in posting texts.
var danishMonths = [13]string{
	1:  "Januar",
	2:  "Februar",
	3:  "Marts",
	4:  "April",
	5:  "Maj",
	6:  "Juni",
	7:  "Juli",
	8:  "August",
	9:  "September",
	10: "Oktober",
	11: "November",
	12: "December",
}

// NormalizeAmount canonicalizes a decimal amount to comma-decimal form.
// Every period becomes a comma; when more than one comma remains, all but
// the last are treated as thousands separators and removed. The transform
// is idempotent and does no numeric validation, so malformed input passes
// through structurally unchanged.
func NormalizeAmount(raw string) string {
	s := strings.ReplaceAll(raw, ".", ",")
	if strings.Count(s, ",") > 1 {
		parts := strings.Split(s, ",")
		s = strings.Join(parts[:len(parts)-1], "") + "," + parts[len(parts)-1]
	}
	return s
}

type dateEntry struct {
	Dato string `json:"dato"`
}

// DeriveReference builds the "Month[/Month] Year" label from the serialized
// list of travel dates on a row. Months are distinct and sorted in calendar
// order regardless of input order; the year is the last one seen. Entries
// without a dato field are skipped. A malformed list or date returns a
// *model.ParseError.
func DeriveReference(serialized string) (string, error) {
	entries, err := parseDateEntries(serialized)
	if err != nil {
		return "", err
	}

	var seen [13]bool
	year := 0
	for _, entry := range entries {
		if entry.Dato == "" {
			continue
		}
		date, err := time.Parse("2006-01-02", entry.Dato)
		if err != nil {
			return "", &model.ParseError{Field: "dato", Value: entry.Dato, Err: err}
		}
		seen[date.Month()] = true
		year = date.Year()
	}

	months := make([]string, 0, 12)
	for m := 1; m <= 12; m++ {
		if seen[m] {
			months = append(months, danishMonths[m])
		}
	}
	if len(months) == 0 {
		return "", &model.ParseError{Field: "dato", Value: serialized, Err: errors.New("no dated entries")}
	}

	return strings.Join(months, "/") + " " + strconv.Itoa(year), nil
}

func parseDateEntries(serialized string) ([]dateEntry, error) {
	var entries []dateEntry
	if err := json.Unmarshal([]byte(serialized), &entries); err == nil {
		return entries, nil
	}

	// Form exports serialize the list with single quotes; retry with them
	// normalized before giving up.
	fixed := strings.ReplaceAll(serialized, "'", `"`)
	if err := json.Unmarshal([]byte(fixed), &entries); err != nil {
		return nil, &model.ParseError{Field: "date entries", Value: serialized, Err: err}
	}
	return entries, nil
}
