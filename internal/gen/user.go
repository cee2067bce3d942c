package gen

import (
	"fmt"
	"math/rand/v2"
	"time"

	"orgforge/internal/curve"
	"orgforge/internal/dist"
	"orgforge/internal/domain"
	"orgforge/internal/namegen"
)

var roleWeights = []dist.Weighted[string]{
	{Value: "member", Weight: 0.85},
	{Value: "admin", Weight: 0.12},
	{Value: "guest", Weight: 0.02},
	{Value: "limited_access", Weight: 0.01},
}

var departmentWeights = []dist.Weighted[string]{
	{Value: "Engineering", Weight: 0.40},
	{Value: "Sales", Weight: 0.15},
	{Value: "Marketing", Weight: 0.12},
	{Value: "Operations", Weight: 0.10},
	{Value: "Product", Weight: 0.08},
	{Value: "Customer Success", Weight: 0.07},
	{Value: "Finance", Weight: 0.04},
	{Value: "HR", Weight: 0.03},
	{Value: "Legal", Weight: 0.01},
}

var jobTitles = map[string][]string{
	"Engineering":      {"Software Engineer", "Senior Software Engineer", "Staff Engineer", "Engineering Manager", "Site Reliability Engineer", "QA Engineer"},
	"Sales":            {"Account Executive", "Sales Development Rep", "Solutions Engineer", "Sales Manager"},
	"Marketing":        {"Marketing Manager", "Content Strategist", "Growth Marketer", "Product Marketing Manager"},
	"Operations":       {"Operations Manager", "Program Manager", "Business Analyst", "IT Administrator"},
	"Product":          {"Product Manager", "Senior Product Manager", "Product Designer", "UX Researcher"},
	"Customer Success": {"Customer Success Manager", "Support Engineer", "Onboarding Specialist"},
	"Finance":          {"Financial Analyst", "Accountant", "Finance Manager"},
	"HR":               {"Recruiter", "HR Business Partner", "People Operations Manager"},
	"Legal":            {"Corporate Counsel", "Paralegal", "Compliance Manager"},
}

var timezoneWeights = []dist.Weighted[string]{
	{Value: "America/New_York", Weight: 0.25},
	{Value: "America/Los_Angeles", Weight: 0.25},
	{Value: "America/Chicago", Weight: 0.15},
	{Value: "Europe/London", Weight: 0.12},
	{Value: "Europe/Berlin", Weight: 0.08},
	{Value: "Asia/Tokyo", Weight: 0.06},
	{Value: "Asia/Kolkata", Weight: 0.05},
	{Value: "Australia/Sydney", Weight: 0.04},
}

const activeRate = 0.95

type UserParams struct {
	Org            domain.Organization
	Count          int
	FoundingCohort int
	Now            time.Time
}

// UserStats summarizes the generated pool for the end-of-stage log line.
type UserStats struct {
	ByRole       map[string]int
	ByDepartment map[string]int
	Active       int
}

// Users builds the workforce. Hiring dates follow the growth curve with
// a founding cohort pinned to the first week; emails are unique within
// the organization.
func Users(rng *rand.Rand, p UserParams) ([]domain.User, UserStats, error) {
	stats := UserStats{ByRole: map[string]int{}, ByDepartment: map[string]int{}}
	emails := namegen.NewEmailSet()
	users := make([]domain.User, 0, p.Count)
	for i := 0; i < p.Count; i++ {
		role, err := dist.Choice(rng, roleWeights)
		if err != nil {
			return nil, stats, fmt.Errorf("sample role: %w", err)
		}
		dept, err := dist.Choice(rng, departmentWeights)
		if err != nil {
			return nil, stats, fmt.Errorf("sample department: %w", err)
		}
		tz, err := dist.Choice(rng, timezoneWeights)
		if err != nil {
			return nil, stats, fmt.Errorf("sample timezone: %w", err)
		}
		titles := jobTitles[dept]
		name := namegen.Person(rng)
		created := curve.HiringDate(rng, i, p.Count, p.FoundingCohort, p.Org.CreatedAt, p.Now)
		u := domain.User{
			ID:         newID(),
			OrgID:      p.Org.ID,
			Email:      emails.Claim(name, p.Org.Domain),
			Name:       name,
			Role:       role,
			Department: dept,
			JobTitle:   titles[rng.IntN(len(titles))],
			Timezone:   tz,
			CreatedAt:  created,
			IsActive:   dist.Bernoulli(rng, activeRate),
		}
		if u.IsActive {
			last := curve.LastActive(rng, created, p.Now)
			u.LastActiveAt = &last
		}
		stats.ByRole[u.Role]++
		stats.ByDepartment[u.Department]++
		if u.IsActive {
			stats.Active++
		}
		users = append(users, u)
	}
	return users, stats, nil
}
