package gen

import (
	"math/rand/v2"
	"strconv"

	"orgforge/internal/dist"
	"orgforge/internal/domain"
)

// fieldCatalog is the set of field definitions a project can carry.
type fieldSpec struct {
	Name    string
	Kind    string
	Options []string
}

var fieldCatalog = []fieldSpec{
	{Name: "Priority", Kind: "enum", Options: []string{"Low", "Medium", "High", "Urgent"}},
	{Name: "Stage", Kind: "enum", Options: []string{"Backlog", "In Progress", "Review", "Done"}},
	{Name: "Effort", Kind: "enum", Options: []string{"XS", "S", "M", "L", "XL"}},
	{Name: "Story Points", Kind: "number"},
	{Name: "Estimated Hours", Kind: "number"},
}

const (
	projectHasFieldsRate = 0.60
	taskHasValueRate     = 0.70
)

type CustomFieldParams struct {
	Projects       []domain.Project
	TasksByProject map[string][]domain.Task
}

// CustomFields gives ~60% of projects one to three field definitions and
// fills values for ~70% of their tasks per field. Enum values come from
// the definition's options, numbers are small positive integers.
func CustomFields(rng *rand.Rand, p CustomFieldParams) ([]domain.CustomFieldDef, []domain.CustomFieldValue) {
	var defs []domain.CustomFieldDef
	var vals []domain.CustomFieldValue
	for _, proj := range p.Projects {
		if !dist.Bernoulli(rng, projectHasFieldsRate) {
			continue
		}
		specs := dist.Sample(rng, fieldCatalog, dist.IntBetween(rng, 1, 3))
		for _, spec := range specs {
			def := domain.CustomFieldDef{
				ID:        newID(),
				ProjectID: proj.ID,
				Name:      spec.Name,
				Kind:      spec.Kind,
				Options:   spec.Options,
			}
			defs = append(defs, def)
			for _, task := range p.TasksByProject[proj.ID] {
				if !dist.Bernoulli(rng, taskHasValueRate) {
					continue
				}
				var v string
				if spec.Kind == "enum" {
					v = spec.Options[rng.IntN(len(spec.Options))]
				} else {
					v = strconv.Itoa(dist.IntBetween(rng, 1, 13))
				}
				vals = append(vals, domain.CustomFieldValue{FieldID: def.ID, TaskID: task.ID, Value: v})
			}
		}
	}
	return defs, vals
}
