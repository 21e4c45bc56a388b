package service

import "strings"

// PSP cost center codes for reimbursement postings.
const (
	PSPLangager       = "XG-5240220808-00004"
	PSPStensager      = "XG-5240220808-00005"
	PSPExplicitSchool = "XG-5240220808-00006"
	PSPDefault        = "XG-5240220808-00003"
)

// Each school is matched by name or by either of its facility ids.
var (
	langagerTokens  = []string{"langagerskolen", "751090#1830", "751090#2471"}
	stensagerTokens = []string{"stensagerskolen", "751903#591", "751903#2521"}
)

// ResolvePSP picks the cost center for a row. The school list is matched
// case-insensitively against the two special schools in priority order;
// rows with a free-text school but no special match get their own code,
// everything else falls back to the default.
func ResolvePSP(schoolList string, hasExplicitSchool bool) string {
	s := strings.ToLower(schoolList)

	for _, token := range langagerTokens {
		if strings.Contains(s, token) {
			return PSPLangager
		}
	}
	for _, token := range stensagerTokens {
		if strings.Contains(s, token) {
			return PSPStensager
		}
	}
	if hasExplicitSchool {
		return PSPExplicitSchool
	}
	return PSPDefault
}
