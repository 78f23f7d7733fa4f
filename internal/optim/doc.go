// Package optim provides the gain-search algorithms.
//
//   - [PSO]: global-best particle swarm over a bounded box, the primary
//     tuner; evaluations run on a worker pool
//   - [GridSearch]: exhaustive lattice scan, a deterministic baseline
//
// Both minimize an [Objective]. Failed evaluations (e.g. a diverging
// closed-loop simulation) are treated as +Inf candidates by PSO and
// skipped by GridSearch; they are counted but never silently scored.
package optim
