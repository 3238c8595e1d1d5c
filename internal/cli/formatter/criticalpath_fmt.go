package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dagr-project/dagr/internal/cpm"
	"github.com/dagr-project/dagr/internal/project"
)

// FormatCriticalPath renders the `critical-path` report. sortMode "chrono"
// lists every critical task by earliest start; "chain" groups them into
// connected critical-path components, walking depends_on edges restricted
// to the critical set, and renders one block per component.
func FormatCriticalPath(st *project.State, sched *cpm.Schedule, sortMode string) string {
	byID := make(map[string]*project.Task, len(st.List()))
	var critical []*project.Task
	for _, t := range st.List() {
		byID[t.ID] = t
		if res, ok := sched.Results[t.ID]; ok && res.DisplayCritical() {
			critical = append(critical, t)
		}
	}

	if len(critical) == 0 {
		return Dim("no critical-path tasks.") + "\n"
	}

	if sortMode == "chain" {
		return formatChains(critical, byID, sched)
	}
	return formatChrono(critical, sched)
}

func formatChrono(critical []*project.Task, sched *cpm.Schedule) string {
	sort.SliceStable(critical, func(i, j int) bool {
		return sched.Results[critical[i].ID].ES < sched.Results[critical[j].ID].ES
	})

	headers := []string{"ID", "NAME", "ES", "EF", "SLACK"}
	var rows [][]string
	for _, t := range critical {
		r := sched.Results[t.ID]
		slack := r.SlackDisplay(func(h float64) string { return fmt.Sprintf("%.1fh", h) })
		rows = append(rows, []string{t.ID, t.Name, HumanDatetime(r.ESTime), HumanDatetime(r.EFTime), slack})
	}
	return RenderTable(headers, rows)
}

// formatChains groups critical tasks into connected components over
// depends_on edges restricted to the critical set, then renders each
// component as its own chronologically ordered chain.
func formatChains(critical []*project.Task, byID map[string]*project.Task, sched *cpm.Schedule) string {
	criticalSet := make(map[string]bool, len(critical))
	for _, t := range critical {
		criticalSet[t.ID] = true
	}

	adj := make(map[string][]string, len(critical))
	for _, t := range critical {
		for _, dep := range t.DependsOn {
			if criticalSet[dep] {
				adj[t.ID] = append(adj[t.ID], dep)
				adj[dep] = append(adj[dep], t.ID)
			}
		}
	}

	visited := map[string]bool{}
	var components [][]string
	for _, t := range critical {
		if visited[t.ID] {
			continue
		}
		var comp []string
		stack := []string{t.ID}
		visited[t.ID] = true
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, id)
			for _, n := range adj[id] {
				if !visited[n] {
					visited[n] = true
					stack = append(stack, n)
				}
			}
		}
		components = append(components, comp)
	}

	sort.Slice(components, func(i, j int) bool {
		return earliestES(components[i], sched) < earliestES(components[j], sched)
	})

	var b strings.Builder
	for i, comp := range components {
		sort.SliceStable(comp, func(a, c int) bool {
			return sched.Results[comp[a]].ES < sched.Results[comp[c]].ES
		})
		fmt.Fprintf(&b, "%s\n", Header(fmt.Sprintf("chain %d", i+1)))
		var rows [][]string
		for _, id := range comp {
			t := byID[id]
			r := sched.Results[id]
			rows = append(rows, []string{id, t.Name, HumanDatetime(r.ESTime), HumanDatetime(r.EFTime)})
		}
		b.WriteString(RenderTable([]string{"ID", "NAME", "ES", "EF"}, rows))
		b.WriteString("\n")
	}
	return b.String()
}

func earliestES(ids []string, sched *cpm.Schedule) float64 {
	min := sched.Results[ids[0]].ES
	for _, id := range ids[1:] {
		if es := sched.Results[id].ES; es < min {
			min = es
		}
	}
	return min
}
