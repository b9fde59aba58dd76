package form

import (
	"fmt"
	"time"
)

const DateCreated = "Date Created"

// TIMESTAMP is the layout of the 'Date Created' column.
const TIMESTAMP = "2006-01-02 15:04:05"

var profile = []string{
	"Full Name",
	"Job Title",
	"Department/Unit(s)",
	"Name of Supervisor",
	"Performance Period",
	"Group Pastor",
	"Church Pastor/Coordinator",
}

// Headers returns the header row for the review sheet: the profile fields, three KRAs,
// three ideas and the submission timestamp.
func Headers() []string {
	header := append([]string{}, profile...)

	for i := 1; i <= MaxKRAs; i++ {
		header = append(header,
			fmt.Sprintf("KRA %v - Key Result Area", i),
			fmt.Sprintf("KRA %v - Specific Achievements", i),
			fmt.Sprintf("KRA %v - Special Comment", i))
	}

	for i := 1; i <= MaxIdeas; i++ {
		header = append(header,
			fmt.Sprintf("Idea %v - Idea", i),
			fmt.Sprintf("Idea %v - Impact Made", i))
	}

	return append(header, DateCreated)
}

// Row lays a record out to match Headers. Unused KRA and idea columns are left blank
// so that the timestamp always lands in the 'Date Created' column.
func Row(r Record, timestamp time.Time) []any {
	row := []any{
		clean(r.FullName),
		clean(r.JobTitle),
		clean(r.Department),
		clean(r.Supervisor),
		clean(r.PerformancePeriod),
		clean(r.GroupPastor),
		clean(r.ChurchPastor),
	}

	for i := 0; i < MaxKRAs; i++ {
		if i < len(r.KRAs) {
			row = append(row, clean(r.KRAs[i].Area), clean(r.KRAs[i].Achievements), clean(r.KRAs[i].Comment))
		} else {
			row = append(row, "", "", "")
		}
	}

	for i := 0; i < MaxIdeas; i++ {
		if i < len(r.Ideas) {
			row = append(row, clean(r.Ideas[i].Idea), clean(r.Ideas[i].Impact))
		} else {
			row = append(row, "", "")
		}
	}

	return append(row, timestamp.Format(TIMESTAMP))
}
