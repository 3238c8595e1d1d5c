package importer

import (
	"sort"
	"time"

	"github.com/dagr-project/dagr/internal/dagrerr"
	"github.com/dagr-project/dagr/internal/project"
)

// Result summarizes which tasks a bulk import created or updated.
type Result struct {
	Created []string
	Updated []string
}

// Apply resolves every depends_on reference in schema against the tasks in
// the same batch and against st, then commits each entry as a create or an
// update. A wire id that matches an existing task in st is an update;
// anything else is a creation. Call ValidateSchema first — Apply assumes
// field-level validity and only resolves references and commits.
func Apply(schema *Schema, st *project.State) (*Result, error) {
	targetIDs := make([]string, len(schema.Tasks))
	isUpdate := make([]bool, len(schema.Tasks))
	nameToID := map[string]string{}
	ambiguous := map[string]bool{}

	// Absorb every explicit id in the batch before reserving any
	// auto-assigned one, so a later entry's explicit id can never collide
	// with an id an earlier entry's default case just reserved.
	for _, t := range schema.Tasks {
		if t.ID != nil {
			st.AbsorbID(*t.ID)
		}
	}

	for i, t := range schema.Tasks {
		switch {
		case t.ID != nil && st.Exists(*t.ID):
			targetIDs[i] = *t.ID
			isUpdate[i] = true
		case t.ID != nil:
			targetIDs[i] = *t.ID
		default:
			targetIDs[i] = st.ReserveID()
		}

		if t.Name != "" {
			if _, seen := nameToID[t.Name]; seen {
				ambiguous[t.Name] = true
			}
			nameToID[t.Name] = targetIDs[i]
		}
	}

	resolve := func(ref string) (string, error) {
		for _, id := range targetIDs {
			if id == ref {
				return id, nil
			}
		}
		if st.Exists(ref) {
			return ref, nil
		}
		if ambiguous[ref] {
			return "", dagrerr.InvalidField("depends_on", "reference \""+ref+"\" matches more than one task name in this batch")
		}
		if id, ok := nameToID[ref]; ok {
			return id, nil
		}
		return "", dagrerr.UnresolvedReference(ref)
	}

	deps := make([][]string, len(schema.Tasks))
	for i, t := range schema.Tasks {
		if t.DependsOn == nil {
			continue
		}
		deps[i] = make([]string, len(t.DependsOn))
		for j, ref := range t.DependsOn {
			id, err := resolve(ref)
			if err != nil {
				return nil, err
			}
			deps[i][j] = id
		}
	}

	order, err := commitOrder(schema, targetIDs, deps)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, i := range order {
		t := schema.Tasks[i]
		input, err := taskInput(t, deps[i])
		if err != nil {
			return nil, err
		}

		if isUpdate[i] {
			if _, err := st.Update(targetIDs[i], input); err != nil {
				return nil, err
			}
			result.Updated = append(result.Updated, targetIDs[i])
		} else {
			if _, err := st.AddWithID(targetIDs[i], input); err != nil {
				return nil, err
			}
			result.Created = append(result.Created, targetIDs[i])
		}
	}

	sort.Strings(result.Created)
	sort.Strings(result.Updated)
	return result, nil
}

// commitOrder returns schema.Tasks indices in an order where every entry
// depending on another entry in the same batch (by resolved target id)
// commits after it — st.AddWithID/Update validate depends_on against
// already-committed state, so a dependent listed earlier in the file than
// its dependency would otherwise fail validation despite the batch being
// well-formed.
func commitOrder(schema *Schema, targetIDs []string, deps [][]string) ([]int, error) {
	n := len(schema.Tasks)
	idToIndex := make(map[string]int, n)
	for i, id := range targetIDs {
		idToIndex[id] = i
	}

	indegree := make([]int, n)
	edgesFrom := make([][]int, n) // edgesFrom[dep] = indices that depend on dep
	for i, ds := range deps {
		for _, ref := range ds {
			if depIdx, ok := idToIndex[ref]; ok {
				indegree[i]++
				edgesFrom[depIdx] = append(edgesFrom[depIdx], i)
			}
		}
	}

	var queue []int
	for i := 0; i < n; i++ {
		if indegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	order := make([]int, 0, n)
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		order = append(order, i)
		for _, dependent := range edgesFrom[i] {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(order) != n {
		var path []string
		for i, deg := range indegree {
			if deg > 0 {
				path = append(path, targetIDs[i])
			}
		}
		return nil, dagrerr.CycleDetected(path)
	}
	return order, nil
}

// taskInput converts one already-ref-resolved import entry into the
// partial-update shape project.State's mutation API expects: a field left
// out of the payload stays nil here, so Update leaves it untouched and Add
// falls back to its own zero-value default.
func taskInput(t TaskImport, deps []string) (project.TaskInput, error) {
	input := project.TaskInput{
		DependsOn:  deps,
		Background: t.Background,
		Flexible:   t.Flexible,
		Tags:       t.Tags,
	}
	if t.Name != "" {
		name := t.Name
		input.Name = &name
	}
	if t.DurationHours != nil {
		input.DurationHours = t.DurationHours
	}
	if t.Project != "" {
		p := t.Project
		input.Project = &p
	}
	if t.Notes != "" {
		n := t.Notes
		input.Notes = &n
	}
	if t.Deadline != nil {
		d, err := parseDate(*t.Deadline, "deadline")
		if err != nil {
			return project.TaskInput{}, err
		}
		input.Deadline = &d
	}
	if t.ProposedStart != nil {
		d, err := parseDate(*t.ProposedStart, "proposed_start")
		if err != nil {
			return project.TaskInput{}, err
		}
		input.ProposedStart = &d
	}
	return input, nil
}

func parseDate(s, field string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, dagrerr.InvalidField(field, err.Error())
	}
	return d, nil
}
