package trace

// Read-side graph queries over a trace. The dependency graph is acyclic
// by construction (a dependency can only be a previously created entry),
// but every traversal still carries a visited set so a corrupted trace
// cannot send a walk into a loop.

// DependencyGraph returns, for every entry ID, the set of IDs it
// directly depends on.
func (t *Trace) DependencyGraph() map[string]map[string]bool {
	graph := make(map[string]map[string]bool, len(t.Entries))
	for _, e := range t.Entries {
		deps := make(map[string]bool, len(e.Dependencies))
		for _, dep := range e.Dependencies {
			deps[dep] = true
		}
		graph[e.ID] = deps
	}
	return graph
}

// ReverseDependencies returns, for every entry ID that has dependents,
// the set of IDs that directly depend on it. It is the exact transpose
// of DependencyGraph.
func (t *Trace) ReverseDependencies() map[string]map[string]bool {
	reverse := make(map[string]map[string]bool)
	for _, e := range t.Entries {
		for _, dep := range e.Dependencies {
			if reverse[dep] == nil {
				reverse[dep] = make(map[string]bool)
			}
			reverse[dep][e.ID] = true
		}
	}
	return reverse
}

// VariableDependencies returns the transitive closure over the dependency
// graph starting at the entry bound to name, including that entry itself.
// An unbound name yields an empty set.
func (t *Trace) VariableDependencies(name string) map[string]bool {
	closure := make(map[string]bool)
	id, ok := t.VariableAssignments[name]
	if !ok {
		return closure
	}

	stack := []string{id}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if closure[current] {
			continue
		}
		closure[current] = true
		if e := t.Entry(current); e != nil {
			stack = append(stack, e.Dependencies...)
		}
	}
	return closure
}

// DependentVariables returns the names of all variables bound to entries
// that transitively depend on the entry bound to name. Entries with no
// bound name contribute no output name but are still traversed, so
// dependents reached through them are found. An unbound name yields an
// empty set.
func (t *Trace) DependentVariables(name string) map[string]bool {
	names := make(map[string]bool)
	id, ok := t.VariableAssignments[name]
	if !ok {
		return names
	}

	reverse := t.ReverseDependencies()
	idToName := make(map[string]string, len(t.VariableAssignments))
	for varName, boundID := range t.VariableAssignments {
		idToName[boundID] = varName
	}

	visited := map[string]bool{id: true}
	stack := []string{id}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for dependent := range reverse[current] {
			if visited[dependent] {
				continue
			}
			visited[dependent] = true
			if varName, bound := idToName[dependent]; bound {
				names[varName] = true
			}
			stack = append(stack, dependent)
		}
	}
	return names
}

// ConnectedComponents partitions all entry IDs into components under the
// undirected view of the dependency graph: an edge in either direction
// connects two IDs. Every ID belongs to exactly one component; components
// are returned in order of their earliest entry.
func (t *Trace) ConnectedComponents() []map[string]bool {
	reverse := t.ReverseDependencies()

	var components []map[string]bool
	visited := make(map[string]bool, len(t.Entries))

	for _, e := range t.Entries {
		if visited[e.ID] {
			continue
		}
		component := make(map[string]bool)
		stack := []string{e.ID}
		for len(stack) > 0 {
			current := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[current] {
				continue
			}
			visited[current] = true
			component[current] = true

			if entry := t.Entry(current); entry != nil {
				stack = append(stack, entry.Dependencies...)
			}
			for dependent := range reverse[current] {
				stack = append(stack, dependent)
			}
		}
		components = append(components, component)
	}
	return components
}
