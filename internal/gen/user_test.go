package gen

import (
	"math/rand/v2"
	"testing"
	"time"

	"orgforge/internal/domain"
)

func testRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

func testOrg() domain.Organization {
	return domain.Organization{
		ID:            "org-1",
		Name:          "TeamFlow",
		Domain:        "teamflow.app",
		Industry:      "Collaboration",
		EmployeeCount: 2000,
		CreatedAt:     time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

var testNow = time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

func genUsers(t *testing.T, seed uint64, count int) []domain.User {
	t.Helper()
	users, _, err := Users(testRNG(seed), UserParams{
		Org: testOrg(), Count: count, FoundingCohort: 50, Now: testNow,
	})
	if err != nil {
		t.Fatalf("Users: %v", err)
	}
	return users
}

func TestUsersEmailsUnique(t *testing.T) {
	users := genUsers(t, 1, 2000)
	seen := map[string]bool{}
	for _, u := range users {
		if seen[u.Email] {
			t.Fatalf("duplicate email %s", u.Email)
		}
		seen[u.Email] = true
	}
}

func TestUsersFoundingCohortWithinFirstWeek(t *testing.T) {
	users := genUsers(t, 2, 500)
	org := testOrg()
	limit := org.CreatedAt.Add(7 * 24 * time.Hour)
	for i := 0; i < 50; i++ {
		if users[i].CreatedAt.Before(org.CreatedAt) || users[i].CreatedAt.After(limit) {
			t.Fatalf("founding user %d hired at %v, outside first week", i, users[i].CreatedAt)
		}
	}
}

func TestUsersDatesWithinHistory(t *testing.T) {
	users := genUsers(t, 3, 1000)
	org := testOrg()
	for _, u := range users {
		if u.CreatedAt.Before(org.CreatedAt) || u.CreatedAt.After(testNow) {
			t.Fatalf("user hired at %v, outside [%v, %v]", u.CreatedAt, org.CreatedAt, testNow)
		}
		if u.LastActiveAt != nil {
			if u.LastActiveAt.Before(u.CreatedAt) {
				t.Fatalf("last active %v before hire %v", u.LastActiveAt, u.CreatedAt)
			}
			if u.LastActiveAt.After(testNow) {
				t.Fatalf("last active %v in the future", u.LastActiveAt)
			}
		}
	}
}

func TestUsersRoleDistribution(t *testing.T) {
	const n = 10000
	_, stats, err := Users(testRNG(4), UserParams{Org: testOrg(), Count: n, FoundingCohort: 50, Now: testNow})
	if err != nil {
		t.Fatalf("Users: %v", err)
	}
	memberRate := float64(stats.ByRole["member"]) / n
	if memberRate < 0.82 || memberRate > 0.88 {
		t.Fatalf("member rate %.3f, want ~0.85", memberRate)
	}
	adminRate := float64(stats.ByRole["admin"]) / n
	if adminRate < 0.09 || adminRate > 0.15 {
		t.Fatalf("admin rate %.3f, want ~0.12", adminRate)
	}
}

func TestUsersDeterministicForSeed(t *testing.T) {
	a := genUsers(t, 7, 200)
	b := genUsers(t, 7, 200)
	if len(a) != len(b) {
		t.Fatalf("runs differ in length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Email != b[i].Email || a[i].Role != b[i].Role ||
			a[i].Department != b[i].Department || !a[i].CreatedAt.Equal(b[i].CreatedAt) {
			t.Fatalf("user %d differs between identically-seeded runs", i)
		}
	}
}
