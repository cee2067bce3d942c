// Package text renders story and comment text. Story templates are a
// closed set of variants, each declaring the one filler it needs, so a
// template can never be paired with the wrong substitution.
package text

import "fmt"

// FillerKind names what a template's placeholder must be filled with.
type FillerKind int

const (
	FillerNone FillerKind = iota
	FillerUser             // a user's display name
	FillerFile             // an attachment file name
	FillerPhrase           // a project-ish phrase
	FillerWord             // a single workspace word
	FillerPriority         // low / medium / high
)

type Template struct {
	Text   string
	Filler FillerKind
}

// Render substitutes filler into the template. Templates with
// FillerNone ignore the argument.
func Render(t Template, filler string) string {
	if t.Filler == FillerNone {
		return t.Text
	}
	return fmt.Sprintf(t.Text, filler)
}

// StoryTemplates maps a story type to its candidate texts.
var StoryTemplates = map[string][]Template{
	"created": {
		{Text: "created task"},
		{Text: "added new task"},
		{Text: "created this task"},
	},
	"updated": {
		{Text: "updated task"},
		{Text: "changed task details"},
		{Text: "modified task"},
		{Text: "updated description"},
		{Text: "changed priority to %s", Filler: FillerPriority},
		{Text: "updated due date"},
	},
	"completed": {
		{Text: "completed this task"},
		{Text: "marked task as complete"},
		{Text: "finished this task"},
	},
	"assigned": {
		{Text: "assigned to %s", Filler: FillerUser},
		{Text: "reassigned to %s", Filler: FillerUser},
		{Text: "assigned this to %s", Filler: FillerUser},
	},
	"comment_added": {
		{Text: "added a comment"},
		{Text: "commented on this task"},
		{Text: "left a comment"},
	},
	"attachment_added": {
		{Text: "attached %s", Filler: FillerFile},
		{Text: "added attachment %s", Filler: FillerFile},
		{Text: "uploaded %s", Filler: FillerFile},
	},
	"moved": {
		{Text: "moved task to %s", Filler: FillerPhrase},
		{Text: "changed project to %s", Filler: FillerPhrase},
		{Text: "moved to %s", Filler: FillerPhrase},
	},
	"deleted": {
		{Text: "deleted this task"},
		{Text: "removed this task"},
	},
	"project_updated": {
		{Text: "updated project"},
		{Text: "changed project details"},
		{Text: "modified project"},
	},
}

// CompletionStory is the forced final story for a completed task.
var CompletionStory = Template{Text: "completed this task"}
