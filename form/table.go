package form

import (
	"fmt"
	"time"
)

// Submission is a record read back from the review sheet.
type Submission struct {
	Record
	Created time.Time `json:"created"`
}

// MakeSubmissions converts the rows of a review sheet (header row first) to submissions.
// Columns are matched by name, so the sheet columns may be reordered. Rows without a
// full name or with an invalid 'Date Created' are skipped.
func MakeSubmissions(rows [][]any) ([]Submission, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("Empty sheet")
	}

	// .. build index
	index := map[string]int{}
	for i, v := range rows[0] {
		k := normalise(fmt.Sprintf("%v", v))
		if _, ok := index[k]; ok {
			return nil, fmt.Errorf("Duplicate column name '%v'", v)
		}

		index[k] = i
	}

	if len(index) == 0 {
		return nil, fmt.Errorf("Missing/invalid header row")
	}

	for _, h := range []string{profile[0], DateCreated} {
		if _, ok := index[normalise(h)]; !ok {
			return nil, fmt.Errorf("Missing '%v' column", h)
		}
	}

	header := Headers()
	submissions := []Submission{}

	for _, row := range rows[1:] {
		get := func(h string) string {
			if ix, ok := index[normalise(h)]; ok && ix < len(row) {
				return clean(fmt.Sprintf("%v", row[ix]))
			}

			return ""
		}

		if get(profile[0]) == "" {
			continue
		}

		created, err := time.ParseInLocation(TIMESTAMP, get(DateCreated), time.Local)
		if err != nil {
			continue
		}

		s := Submission{
			Record: Record{
				FullName:          get(header[0]),
				JobTitle:          get(header[1]),
				Department:        get(header[2]),
				Supervisor:        get(header[3]),
				PerformancePeriod: get(header[4]),
				GroupPastor:       get(header[5]),
				ChurchPastor:      get(header[6]),
				KRAs:              []KRA{},
				Ideas:             []Idea{},
			},
			Created: created,
		}

		offset := len(profile)
		for i := 0; i < MaxKRAs; i++ {
			kra := KRA{
				Area:         get(header[offset]),
				Achievements: get(header[offset+1]),
				Comment:      get(header[offset+2]),
			}

			if kra != (KRA{}) {
				s.KRAs = append(s.KRAs, kra)
			}

			offset += 3
		}

		for i := 0; i < MaxIdeas; i++ {
			idea := Idea{
				Idea:   get(header[offset]),
				Impact: get(header[offset+1]),
			}

			if idea != (Idea{}) {
				s.Ideas = append(s.Ideas, idea)
			}

			offset += 2
		}

		submissions = append(submissions, s)
	}

	return submissions, nil
}
