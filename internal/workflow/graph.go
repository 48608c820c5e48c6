// Package workflow executes a declarative graph of agent tasks: stages fan
// out concurrently, stages chain sequentially, and one wall-clock deadline
// governs the whole run. Graph changes are data, not new code paths.
package workflow

import (
	"errors"
	"fmt"

	"resumeforge/internal/agent"
)

// Task is one node of the agent graph.
type Task struct {
	Name      string
	Field     string
	DependsOn []string
	Spec      agent.Spec
}

// Graph is a validated DAG of tasks.
type Graph struct {
	tasks  []Task
	stages [][]Task
}

// NewGraph validates the task set (unique names, known dependencies, no
// cycles) and precomputes its stages by topological leveling: a task's
// stage is one past the deepest stage among its dependencies, so
// independent tasks share a stage and run concurrently.
func NewGraph(tasks ...Task) (*Graph, error) {
	if len(tasks) == 0 {
		return nil, errors.New("workflow: graph needs at least one task")
	}
	index := make(map[string]int, len(tasks))
	for i, t := range tasks {
		if t.Name == "" {
			return nil, fmt.Errorf("workflow: task %d has no name", i)
		}
		if t.Field == "" {
			return nil, fmt.Errorf("workflow: task %s produces no field", t.Name)
		}
		if _, dup := index[t.Name]; dup {
			return nil, fmt.Errorf("workflow: duplicate task %s", t.Name)
		}
		index[t.Name] = i
	}

	adj := make([][]int, len(tasks))
	indeg := make([]int, len(tasks))
	for i, t := range tasks {
		for _, dep := range t.DependsOn {
			j, ok := index[dep]
			if !ok {
				return nil, fmt.Errorf("workflow: task %s depends on unknown task %s", t.Name, dep)
			}
			adj[j] = append(adj[j], i)
			indeg[i]++
		}
	}

	// Kahn's algorithm, tracking levels.
	level := make([]int, len(tasks))
	queue := make([]int, 0, len(tasks))
	for i := range tasks {
		if indeg[i] == 0 {
			queue = append(queue, i)
		}
	}
	seen := 0
	maxLevel := 0
	for head := 0; head < len(queue); head++ {
		u := queue[head]
		seen++
		for _, v := range adj[u] {
			if l := level[u] + 1; l > level[v] {
				level[v] = l
				if l > maxLevel {
					maxLevel = l
				}
			}
			indeg[v]--
			if indeg[v] == 0 {
				queue = append(queue, v)
			}
		}
	}
	if seen != len(tasks) {
		return nil, errors.New("workflow: graph is not a DAG (cycle detected)")
	}

	stages := make([][]Task, maxLevel+1)
	for i, t := range tasks {
		stages[level[i]] = append(stages[level[i]], t)
	}
	return &Graph{tasks: tasks, stages: stages}, nil
}

// Stages returns the precomputed stage layout in execution order.
func (g *Graph) Stages() [][]Task { return g.stages }

// Fields returns the distinct output fields the graph produces.
func (g *Graph) Fields() []string {
	out := make([]string, 0, len(g.tasks))
	seen := make(map[string]bool, len(g.tasks))
	for _, t := range g.tasks {
		if !seen[t.Field] {
			seen[t.Field] = true
			out = append(out, t.Field)
		}
	}
	return out
}
