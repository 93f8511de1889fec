// Package generator produces the synthetic bike availability and weather
// dataset. Generation is a pure function of its Params: the random stream is
// created per call from Params.Seed and consumed in a fixed order so that two
// runs with the same parameters produce identical rows.
package generator
