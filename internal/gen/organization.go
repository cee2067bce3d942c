package gen

import (
	"math/rand/v2"
	"time"

	"orgforge/internal/dist"
	"orgforge/internal/domain"
	"orgforge/internal/namegen"
)

// OrgParams shapes the single organization of a dataset.
type OrgParams struct {
	Company      namegen.Company
	EmployeesMin int
	EmployeesMax int
	AgeMonthsMin int
	AgeMonthsMax int
	Now          time.Time
}

// Organization builds the root entity. Headcount is a bounded normal
// draw so most orgs land near the middle of the configured range, and
// the founding date puts 24-36 months (by default) of history behind
// the rest of the dataset.
func Organization(rng *rand.Rand, p OrgParams) domain.Organization {
	employees := int(dist.BoundedNormal(rng, float64(p.EmployeesMin), float64(p.EmployeesMax)))
	ageMonths := dist.IntBetween(rng, p.AgeMonthsMin, p.AgeMonthsMax)
	created := p.Now.AddDate(0, -ageMonths, 0)
	return domain.Organization{
		ID:            newID(),
		Name:          p.Company.Name,
		Domain:        p.Company.Domain,
		Industry:      p.Company.Industry,
		EmployeeCount: employees,
		CreatedAt:     created,
	}
}
