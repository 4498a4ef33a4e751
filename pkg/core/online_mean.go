package core

import "math"

// OnlineMean incrementally estimates the mean of a stream of color samples.
// After each sample it records the squared distance the mean moved, which the
// renderer uses as its convergence criterion.
type OnlineMean struct {
	count int
	mean  Vec3
	delta float64
}

// NewOnlineMean creates an estimator with no samples and an unbounded delta
func NewOnlineMean() *OnlineMean {
	return &OnlineMean{delta: math.MaxFloat64}
}

// AddSample folds a sample into the running mean
func (m *OnlineMean) AddSample(sample Vec3) {
	m.count++
	if m.count == 1 {
		m.mean = sample
		m.delta = 0
		return
	}

	previous := m.mean
	m.mean = m.mean.Add(sample.Subtract(m.mean).Multiply(1.0 / float64(m.count)))
	m.delta = previous.Subtract(m.mean).LengthSquared()
}

// Mean returns the current estimate
func (m *OnlineMean) Mean() Vec3 {
	return m.mean
}

// Count returns the number of samples seen
func (m *OnlineMean) Count() int {
	return m.count
}

// ConvergenceDelta returns the squared movement of the mean on the last sample
func (m *OnlineMean) ConvergenceDelta() float64 {
	return m.delta
}
