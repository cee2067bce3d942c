// Package namegen supplies deterministic name material: people, emails,
// companies, team and project names, and the filler words used by story
// and comment templates. All draws go through the caller's random stream.
package namegen

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

var firstNames = []string{
	"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael", "Linda",
	"David", "Elizabeth", "William", "Barbara", "Richard", "Susan", "Joseph", "Jessica",
	"Thomas", "Sarah", "Daniel", "Karen", "Matthew", "Lisa", "Anthony", "Nancy",
	"Mark", "Sandra", "Steven", "Ashley", "Andrew", "Emily", "Paul", "Michelle",
	"Joshua", "Amanda", "Kenneth", "Melissa", "Kevin", "Deborah", "Brian", "Stephanie",
	"Timothy", "Rebecca", "Ronald", "Sharon", "Jason", "Laura", "Ryan", "Cynthia",
	"Priya", "Wei", "Carlos", "Fatima", "Yuki", "Amara", "Diego", "Ingrid",
	"Raj", "Sofia", "Omar", "Elena", "Hiroshi", "Nadia", "Lucas", "Aisha",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
	"Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson", "Thomas",
	"Taylor", "Moore", "Jackson", "Martin", "Lee", "Perez", "Thompson", "White",
	"Harris", "Sanchez", "Clark", "Ramirez", "Lewis", "Robinson", "Walker", "Young",
	"Allen", "King", "Wright", "Scott", "Torres", "Nguyen", "Hill", "Flores",
	"Green", "Adams", "Nelson", "Baker", "Hall", "Rivera", "Campbell", "Mitchell",
	"Chen", "Patel", "Kim", "Tanaka", "Okafor", "Hansen", "Kowalski", "Silva",
	"Ivanov", "Haddad", "Larsson", "Fischer", "Moreau", "Costa", "Novak", "Yamamoto",
}

// Person returns a full name. Duplicates across draws are expected;
// email uniqueness is handled by EmailSet.
func Person(rng *rand.Rand) string {
	return firstNames[rng.IntN(len(firstNames))] + " " + lastNames[rng.IntN(len(lastNames))]
}

// EmailLocal derives the first.last local part from a full name,
// stripping anything non-alphanumeric.
func EmailLocal(name string) string {
	parts := strings.Fields(strings.ToLower(name))
	first, last := "user", "user"
	if len(parts) >= 1 {
		first = alnum(parts[0])
	}
	if len(parts) >= 2 {
		last = alnum(parts[len(parts)-1])
	}
	return first + "." + last
}

func alnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}

// EmailSet hands out org-unique email addresses, disambiguating repeat
// local parts with a numeric suffix.
type EmailSet struct {
	used map[string]int
}

func NewEmailSet() *EmailSet {
	return &EmailSet{used: map[string]int{}}
}

// Claim returns name's email on domain, unique within this set.
func (s *EmailSet) Claim(name, domain string) string {
	local := EmailLocal(name)
	n := s.used[local]
	s.used[local] = n + 1
	if n == 0 {
		return fmt.Sprintf("%s@%s", local, domain)
	}
	return fmt.Sprintf("%s%d@%s", local, n, domain)
}

// Company identifies the organization the dataset simulates.
type Company struct {
	Name     string `json:"name"`
	Domain   string `json:"domain"`
	Industry string `json:"industry"`
}

// Companies is the embedded B2B SaaS catalog, used when the directory
// scraper is disabled or unreachable.
func Companies() []Company {
	return []Company{
		{Name: "DataFlow Analytics", Industry: "Analytics", Domain: "dataflow.io"},
		{Name: "SecureStack", Industry: "Security", Domain: "securestack.com"},
		{Name: "DevTools Pro", Industry: "Developer Tools", Domain: "devtools.pro"},
		{Name: "CloudSync Platform", Industry: "Infrastructure", Domain: "cloudsync.io"},
		{Name: "CollabSpace", Industry: "Collaboration", Domain: "collabspace.com"},
		{Name: "APIverse", Industry: "Developer Tools", Domain: "apiverse.dev"},
		{Name: "MetricsHub", Industry: "Analytics", Domain: "metricshub.io"},
		{Name: "CodeGuard", Industry: "Security", Domain: "codeguard.io"},
		{Name: "TeamFlow", Industry: "Collaboration", Domain: "teamflow.app"},
		{Name: "InfraMesh", Industry: "Infrastructure", Domain: "inframesh.io"},
	}
}

var phraseAdjectives = []string{
	"Seamless", "Adaptive", "Unified", "Realtime", "Scalable", "Resilient",
	"Frictionless", "Modular", "Automated", "Insightful", "Streamlined", "Dynamic",
}

var phraseNouns = []string{
	"Onboarding", "Billing", "Reporting", "Checkout", "Search", "Notifications",
	"Provisioning", "Compliance", "Integrations", "Workflows", "Dashboards", "Messaging",
}

// Phrase returns a two-word product-ish phrase ("Adaptive Billing").
func Phrase(rng *rand.Rand) string {
	return phraseAdjectives[rng.IntN(len(phraseAdjectives))] + " " + phraseNouns[rng.IntN(len(phraseNouns))]
}

var words = []string{
	"roadmap", "backlog", "milestone", "handoff", "retro", "spec",
	"estimate", "scope", "review", "rollout", "launch", "triage",
}

func Word(rng *rand.Rand) string {
	return words[rng.IntN(len(words))]
}

var fileStems = []string{
	"mockups", "requirements", "architecture", "budget", "timeline",
	"designs", "notes", "proposal", "metrics", "screenshot",
}

var fileExts = []string{".pdf", ".png", ".xlsx", ".fig", ".docx"}

func FileName(rng *rand.Rand) string {
	return fileStems[rng.IntN(len(fileStems))] + fileExts[rng.IntN(len(fileExts))]
}

var taskVerbs = []string{
	"Fix", "Implement", "Review", "Update", "Refactor", "Document",
	"Investigate", "Design", "Test", "Ship", "Migrate", "Audit",
}

var taskObjects = []string{
	"login flow", "billing export", "search index", "mobile layout",
	"API rate limits", "onboarding emails", "error tracking", "release pipeline",
	"permissions model", "dashboard filters", "data retention job", "webhook delivery",
}

// TaskName returns a short imperative task title.
func TaskName(rng *rand.Rand) string {
	return taskVerbs[rng.IntN(len(taskVerbs))] + " " + taskObjects[rng.IntN(len(taskObjects))]
}

// FreeformTeamName builds a name for non-department teams by type.
func FreeformTeamName(rng *rand.Rand, teamType string) string {
	switch teamType {
	case "project":
		return Phrase(rng) + " Project"
	case "cross_functional":
		return Phrase(rng) + " Initiative"
	default:
		w := Word(rng)
		return strings.ToUpper(w[:1]) + w[1:] + " Working Group"
	}
}

// ProjectName builds a name for the given project type, echoing how real
// workspaces name sprints, campaigns and standing boards.
func ProjectName(rng *rand.Rand, projectType, teamName string) string {
	switch projectType {
	case "sprint":
		return fmt.Sprintf("%s Sprint %d", teamName, 1+rng.IntN(20))
	case "campaign":
		return Phrase(rng) + " Launch"
	case "bug_tracking":
		picks := []string{teamName + " Bug Backlog", "Critical Bugs", "Technical Debt", fmt.Sprintf("P%d Production Issues", rng.IntN(3))}
		return picks[rng.IntN(len(picks))]
	case "ongoing":
		picks := []string{"Customer Onboarding", "Weekly Releases", "Content Pipeline", "Support Queue", "Maintenance Tasks"}
		return picks[rng.IntN(len(picks))]
	default:
		picks := []string{teamName + " Roadmap", teamName + " Planning", teamName + " Backlog"}
		return picks[rng.IntN(len(picks))]
	}
}
