// Package fitness reduces closed-loop trajectories to the scalar a
// gain-tuning optimizer minimizes.
//
// The objective puts chattering first and treats tracking accuracy as a
// constraint: candidates inside the tracking threshold compete purely on
// switching activity, and candidates outside it pay a steep linear
// penalty. See [Evaluator] for why the two terms must not be swapped.
//
// [CollapseDetector] watches a population's fitness values for the
// flat-objective signature and lets callers surface it as a warning.
package fitness
