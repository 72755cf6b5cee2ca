package models

// ComparisonResult is the comparison of a package's current and latest versions
type ComparisonResult struct {
	Name       string
	Current    string // Empty when the package has no known version
	Latest     string
	IsOutdated bool
}

// Outcome collects everything that happened to one package during a run
type Outcome struct {
	Spec       PackageSpec
	Comparison *ComparisonResult // nil when the lookup failed
	LookupErr  error
	Updated    bool
	UpdateErr  error
}

// IsOutdated returns true if a newer version is available
func (o Outcome) IsOutdated() bool {
	return o.Comparison != nil && o.Comparison.IsOutdated
}

// Failed returns true if the lookup or the update failed
func (o Outcome) Failed() bool {
	return o.LookupErr != nil || o.UpdateErr != nil
}

// Summary counts outcomes by state
type Summary struct {
	Total    int
	Outdated int
	UpToDate int
	Updated  int
	Failed   int
}

// Summarize counts the given outcomes
func Summarize(outcomes []Outcome) Summary {
	s := Summary{Total: len(outcomes)}
	for _, o := range outcomes {
		switch {
		case o.LookupErr != nil:
			s.Failed++
			continue
		case o.IsOutdated():
			s.Outdated++
		case o.Comparison != nil:
			s.UpToDate++
		}
		if o.Updated {
			s.Updated++
		}
		if o.UpdateErr != nil {
			s.Failed++
		}
	}
	return s
}
