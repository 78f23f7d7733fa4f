// Package tune orchestrates gain optimization for one controller
// variant: it adapts the closed-loop simulator into the fitness
// evaluator's collaborator, feeds the evaluator to the swarm, and
// collects the outcome. [RunAll] runs several variants as independent
// concurrent tuning runs.
package tune
