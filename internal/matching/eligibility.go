package matching

// Eligible reports whether the profile meets every minimum of the opportunity.
// Comparisons are inclusive. Domain is never a filter criterion.
func Eligible(p Profile, o Opportunity) bool {
	t := o.Thresholds
	return t.MinGPA <= p.GPA &&
		t.MinExperienceYears <= p.ExperienceYears &&
		t.MinCertificationCount <= p.CertificationCount
}

// FilterEligible returns the eligible opportunities in catalog order.
// The result is never nil.
func FilterEligible(p Profile, catalog []Opportunity) []Opportunity {
	eligible := make([]Opportunity, 0, len(catalog))
	for _, o := range catalog {
		if Eligible(p, o) {
			eligible = append(eligible, o)
		}
	}
	return eligible
}
