package form

// Options holds the choices offered for the selectable fields of the form.
type Options struct {
	Departments []string `toml:"departments" json:"departments"`
	Periods     []string `toml:"periods" json:"periods"`
	Groups      []Group  `toml:"group" json:"groups"`
}

// Group maps a group pastor to the church pastors/coordinators in the group.
type Group struct {
	Pastor        string   `toml:"pastor" json:"pastor"`
	ChurchPastors []string `toml:"church-pastors" json:"church-pastors"`
}

func DefaultOptions() Options {
	return Options{
		Departments: []string{
			"Administration",
			"Human Resources",
			"Finance",
			"Operations",
			"Marketing",
			"IT",
			"Pastoral Care",
			"Worship",
			"Children Ministry",
			"Youth Ministry",
		},

		Periods: []string{
			"Q1 2024", "Q2 2024", "Q3 2024", "Q4 2024", "Annual 2024",
			"Q1 2025", "Q2 2025", "Q3 2025", "Q4 2025", "Annual 2025",
		},

		Groups: []Group{
			{
				Pastor:        "Nyanaya",
				ChurchPastors: []string{"Pastor John Doe", "Pastor Jane Smith", "Coordinator Peter Jones"},
			},
			{
				Pastor:        "Mararaba",
				ChurchPastors: []string{"Pastor David Lee", "Pastor Sarah Chen", "Pastor Mark Taylor"},
			},
			{
				Pastor:        "Other Group",
				ChurchPastors: []string{"Pastor Emily White", "Coordinator Chris Green"},
			},
		},
	}
}

// Merge overrides each list with the corresponding list from other, if it is not empty.
func (o Options) Merge(other Options) Options {
	merged := o

	if len(other.Departments) > 0 {
		merged.Departments = other.Departments
	}

	if len(other.Periods) > 0 {
		merged.Periods = other.Periods
	}

	if len(other.Groups) > 0 {
		merged.Groups = other.Groups
	}

	return merged
}

func (o Options) GroupPastors() []string {
	list := []string{}
	for _, g := range o.Groups {
		list = append(list, g.Pastor)
	}

	return list
}

// ChurchPastors returns the church pastors/coordinators for a group pastor, or an
// empty list if the group pastor is not known.
func (o Options) ChurchPastors(groupPastor string) []string {
	for _, g := range o.Groups {
		if g.Pastor == clean(groupPastor) {
			return g.ChurchPastors
		}
	}

	return []string{}
}
