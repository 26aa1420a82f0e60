package advcopy

import (
	"regexp"
	"strings"
)

// Session is one row of the advanced copy session table. The numeric
// columns are kept as the digits the array printed.
type Session struct {
	SID             string
	Generation      string
	Type            string
	VolumeType      string
	SourceNo        string
	SourceName      string
	DestinationNo   string
	DestinationName string
	Status          string
	Phase           string
	ErrorCode       string
	Requestor       string
}

// multiWordStates are statuses that contain a space. The status column is
// followed by the free-text phase column, so without a hint "Error Suspend"
// would split into status "Error" and a phase starting with "Suspend".
// Other multi-word statuses split after their first word: the session is
// still classified UNKNOWN, but its detail line shows only that word.
var multiWordStates = []string{"Error Suspend"}

// sessionRegex matches a full twelve-column row. Free-text columns are lazy so
// that the rigid numeric and single-token columns anchor them.
var sessionRegex = regexp.MustCompile(`^\s*` +
	`(\d+)\s+` + // SID
	`(\S+)\s+` + // generation
	`(\S+)\s+` + // type
	`(\S[\S ]*?)\s+` + // volume type
	`(\d+)\s+` + // source volume no.
	`(\S+)\s+` + // source volume name
	`(\d+)\s+` + // destination volume no.
	`(\S+)\s+` + // destination volume name
	`(` + statusAlternatives() + `\S[\S ]*?)\s+` + // status
	`(\S[\S ]*?)\s+` + // phase
	`(\S+)\s+` + // error code
	`(\S+)` + // requestor
	`\s*$`)

func statusAlternatives() string {
	var b strings.Builder
	for _, s := range multiWordStates {
		b.WriteString(regexp.QuoteMeta(s))
		b.WriteString("|")
	}
	return b.String()
}

// ParseLine extracts a Session from one table row.
// It reports false for anything that is not a complete row.
func ParseLine(line string) (Session, bool) {
	m := sessionRegex.FindStringSubmatch(line)
	if m == nil {
		return Session{}, false
	}

	return Session{
		SID:             m[1],
		Generation:      m[2],
		Type:            m[3],
		VolumeType:      m[4],
		SourceNo:        m[5],
		SourceName:      m[6],
		DestinationNo:   m[7],
		DestinationName: m[8],
		Status:          m[9],
		Phase:           m[10],
		ErrorCode:       m[11],
		Requestor:       m[12],
	}, true
}
