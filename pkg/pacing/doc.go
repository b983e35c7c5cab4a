// Package pacing provides the jittered delay primitive used between every
// interaction with the external result surface.
//
// Perfectly periodic automated interaction is an easy signal for a third-party
// surface to flag. The Fuzzy pacer draws each wait uniformly from
// [min, 2*min) so the interaction rhythm varies the way a human user's would.
//
// Interface:
//
// Pacers implement the Pacer interface:
//   - Pace() - block for one jittered interval
//
// Usage:
//
//	p := pacing.NewFuzzy(400 * time.Millisecond)
//
//	p.Pace() // sleeps somewhere in [400ms, 800ms)
//
// Tests substitute pacing.Nop{} or construct a Fuzzy with an injected random
// source and sleep function, so control flow is exercised without wall-clock
// delays.
package pacing
