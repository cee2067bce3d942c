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

// departmentTeams pairs each department with its canonical team names.
// The order is fixed: iteration over this slice, not over a map, keeps a
// seeded run deterministic.
var departmentTeams = []struct {
	Department string
	Names      []string
}{
	{"Engineering", []string{"Platform", "Backend", "Frontend", "Mobile", "Infrastructure", "Data", "Security", "QA"}},
	{"Sales", []string{"Enterprise Sales", "SMB Sales", "Sales Operations"}},
	{"Marketing", []string{"Growth", "Brand", "Content"}},
	{"Operations", []string{"Business Operations", "IT", "Facilities"}},
	{"Product", []string{"Product Management", "Design", "Research"}},
	{"Customer Success", []string{"Onboarding", "Support", "Renewals"}},
	{"Finance", []string{"Accounting", "FP&A"}},
	{"HR", []string{"Recruiting", "People Operations"}},
	{"Legal", []string{"Legal"}},
}

var freeformTypeWeights = []dist.Weighted[string]{
	{Value: "project", Weight: 0.50},
	{Value: "cross_functional", Weight: 0.30},
	{Value: "working_group", Weight: 0.20},
}

const (
	teamBimodalFirstHalf = 0.70
	freeformArchivedRate = 0.05
)

type TeamParams struct {
	Org    domain.Organization
	Users  []domain.User
	Target int
	Now    time.Time
}

type TeamStats struct {
	ByType     map[string]int
	Department int
	Freeform   int
}

// teamBuilder accumulates a team's pending members before the
// membership rows are resolved, so owner selection can see the full set.
type teamBuilder struct {
	team    domain.Team
	members []domain.User
}

func (b *teamBuilder) resolve(rng *rand.Rand, now time.Time) (domain.Team, []domain.TeamMembership) {
	owner := b.members[0]
	for _, m := range b.members {
		if m.Role == "admin" {
			owner = m
			break
		}
	}
	b.team.OwnerID = owner.ID
	b.team.MemberCount = len(b.members)
	ms := make([]domain.TeamMembership, 0, len(b.members))
	for _, m := range b.members {
		joined := curve.Between(rng, laterOf(b.team.CreatedAt, m.CreatedAt), now)
		ms = append(ms, domain.TeamMembership{TeamID: b.team.ID, UserID: m.ID, JoinedAt: joined})
	}
	return b.team, ms
}

// Teams builds department-anchored teams first, then fills to the
// target with freeform teams sampled from the whole workforce. The
// owner is the first admin member, or the first member when the sample
// has no admin.
func Teams(rng *rand.Rand, p TeamParams) ([]domain.Team, []domain.TeamMembership, TeamStats, error) {
	stats := TeamStats{ByType: map[string]int{}}
	if len(p.Users) == 0 {
		return nil, nil, stats, fmt.Errorf("team generation needs a non-empty user pool")
	}
	byDept := map[string][]domain.User{}
	for _, u := range p.Users {
		byDept[u.Department] = append(byDept[u.Department], u)
	}

	var teams []domain.Team
	var memberships []domain.TeamMembership
	add := func(b *teamBuilder) {
		t, ms := b.resolve(rng, p.Now)
		teams = append(teams, t)
		memberships = append(memberships, ms...)
		stats.ByType[t.Type]++
	}

	for _, dt := range departmentTeams {
		pool := byDept[dt.Department]
		if len(pool) == 0 {
			continue
		}
		n := len(pool) / 8
		if n < 1 {
			n = 1
		}
		if n > len(dt.Names) {
			n = len(dt.Names)
		}
		for i := 0; i < n; i++ {
			members := dist.Sample(rng, pool, dist.IntBetween(rng, 5, 15))
			b := &teamBuilder{
				team: domain.Team{
					ID:          newID(),
					OrgID:       p.Org.ID,
					Name:        dt.Names[i],
					Description: fmt.Sprintf("%s team in %s", dt.Names[i], dt.Department),
					Type:        "department",
					CreatedAt:   curve.Bimodal(rng, p.Org.CreatedAt, p.Now, teamBimodalFirstHalf),
				},
				members: members,
			}
			add(b)
			stats.Department++
		}
	}

	for len(teams) < p.Target {
		teamType, err := dist.Choice(rng, freeformTypeWeights)
		if err != nil {
			return nil, nil, stats, fmt.Errorf("sample team type: %w", err)
		}
		members := dist.Sample(rng, p.Users, dist.IntBetween(rng, 3, 12))
		b := &teamBuilder{
			team: domain.Team{
				ID:         newID(),
				OrgID:      p.Org.ID,
				Name:       namegen.FreeformTeamName(rng, teamType),
				Type:       teamType,
				CreatedAt:  curve.Bimodal(rng, p.Org.CreatedAt, p.Now, teamBimodalFirstHalf),
				IsArchived: dist.Bernoulli(rng, freeformArchivedRate),
			},
			members: members,
		}
		add(b)
		stats.Freeform++
	}
	return teams, memberships, stats, nil
}
