package models

type UserType string
type JobPreference string
type Category string

const (
	UserTypeJobSeeker UserType = "Jobseeker"
	UserTypeEmployer  UserType = "Employer"

	JobPreferenceRemote JobPreference = "Remote"
	JobPreferenceOnsite JobPreference = "Onsite"
	JobPreferenceHybrid JobPreference = "Hybrid"

	CategoryOpenness          Category = "Openness"
	CategoryConscientiousness Category = "Conscientiousness"
	CategoryExtraversion      Category = "Extraversion"
	CategoryAgreeableness     Category = "Agreeableness"
	CategoryNeuroticism       Category = "Neuroticism"
)

// Categories lists the five personality categories in their fixed order.
var Categories = []Category{
	CategoryOpenness,
	CategoryConscientiousness,
	CategoryExtraversion,
	CategoryAgreeableness,
	CategoryNeuroticism,
}

func (t UserType) IsValid() bool {
	return t == UserTypeJobSeeker || t == UserTypeEmployer
}

func (p JobPreference) IsValid() bool {
	switch p {
	case JobPreferenceRemote, JobPreferenceOnsite, JobPreferenceHybrid:
		return true
	}
	return false
}

func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
