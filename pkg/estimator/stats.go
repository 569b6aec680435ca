package estimator

import (
	"fmt"
	"math"

	"github.com/df07/go-lighttree/pkg/core"
	"github.com/df07/go-lighttree/pkg/lights"
)

// LightKey identifies the light a sample came from
type LightKey struct {
	Lamp int // -1 for mesh lights
	Prim int // -1 for lamps
}

// KeyOf returns the key of the light that produced ls
func KeyOf(ls lights.LightSample) LightKey {
	if ls.Type == lights.LightTypeTriangle {
		return LightKey{Lamp: -1, Prim: ls.Prim}
	}
	return LightKey{Lamp: ls.Lamp, Prim: -1}
}

func (k LightKey) String() string {
	if k.Lamp >= 0 {
		return fmt.Sprintf("lamp %d", k.Lamp)
	}
	return fmt.Sprintf("triangle %d", k.Prim)
}

// Accumulator tracks sampling statistics of one strategy. Failed samples
// count as zero contributions.
type Accumulator struct {
	Samples    int
	Successes  int
	Sum        float64 // Sum of irradiance estimates
	SumSq      float64 // Sum of squared estimates for variance
	Selections map[LightKey]int
}

// NewAccumulator creates an empty accumulator
func NewAccumulator() *Accumulator {
	return &Accumulator{Selections: make(map[LightKey]int)}
}

// AddFailure records a sample that produced no light
func (a *Accumulator) AddFailure() {
	a.Samples++
}

// AddSample records a light sample and its irradiance estimate
func (a *Accumulator) AddSample(ls lights.LightSample, estimate float32) {
	a.Samples++
	a.Successes++
	a.Selections[KeyOf(ls)]++
	value := float64(estimate)
	a.Sum += value
	a.SumSq += value * value
}

// Merge adds the statistics of other
func (a *Accumulator) Merge(other *Accumulator) {
	a.Samples += other.Samples
	a.Successes += other.Successes
	a.Sum += other.Sum
	a.SumSq += other.SumSq
	for key, count := range other.Selections {
		a.Selections[key] += count
	}
}

// Mean returns the average estimate
func (a *Accumulator) Mean() float64 {
	if a.Samples == 0 {
		return 0
	}
	return a.Sum / float64(a.Samples)
}

// Variance returns the sample variance of the estimates
func (a *Accumulator) Variance() float64 {
	if a.Samples < 2 {
		return 0
	}
	n := float64(a.Samples)
	mean := a.Sum / n
	return math.Max(0, (a.SumSq-n*mean*mean)/(n-1))
}

// StdError returns the standard error of the mean
func (a *Accumulator) StdError() float64 {
	if a.Samples == 0 {
		return 0
	}
	return math.Sqrt(a.Variance() / float64(a.Samples))
}

// SuccessRate returns the fraction of samples that produced a light
func (a *Accumulator) SuccessRate() float64 {
	if a.Samples == 0 {
		return 0
	}
	return float64(a.Successes) / float64(a.Samples)
}

// Frequency returns how often key was selected over all samples
func (a *Accumulator) Frequency(key LightKey) float64 {
	if a.Samples == 0 {
		return 0
	}
	return float64(a.Selections[key]) / float64(a.Samples)
}

// Irradiance is the unshadowed irradiance estimate of one light sample at a
// receiver with normal n: luminance of the emission, times the cosine at the
// receiver, over the PDF.
func Irradiance(ls lights.LightSample, n core.Vec3) float32 {
	if !(ls.PDF > 0) {
		return 0
	}
	cosTheta := max(0, n.Dot(ls.Direction))
	return ls.Emission.Luminance() * cosTheta / ls.PDF
}
