package demon

import "math"

// The list score curve is piecewise over five position ranges. The
// coefficients are a closed, fixed table; the segments are tuned so that the
// curve is continuous at each boundary (3/4, 20/21, 35/36, 55/56). Positions
// above 150 score nothing.
const (
	// positions 1-3: linear
	seg1Slope     = -18.2899079915
	seg1Intercept = 368.2899079915

	// positions 4-20: scaled exponential decay
	seg4Coeff  = 326.1
	seg4Rate   = -0.0871
	seg4Offset = 51.09
	seg4Scale  = 1.037117142

	// positions 21-35: shifted power law
	seg21Base   = 250.0
	seg21Sub    = 83.389
	seg21Growth = 1.0099685
	seg21Offset = 31.152
	seg21Scale  = 1.0371139743

	// positions 36-55: power law
	seg36Coeff  = 212.61
	seg36Growth = 1.036
	seg36Offset = 25.071
	seg36Scale  = 1.0371139743

	// positions 56-150: exponential decay
	seg56Coeff  = 185.7
	seg56Rate   = -0.02715
	seg56Offset = 14.84
	seg56Scale  = 1.039035131
)

// MaxScoredPosition is the last position that awards a non-zero score.
const MaxScoredPosition = 150

// scoreSegment maps an inclusive position range onto its curve piece.
type scoreSegment struct {
	minPos, maxPos int
	beaten         func(pos float64) float64
}

// scoreSegments is ordered by position range so that boundary continuity can
// be audited segment by segment.
var scoreSegments = []scoreSegment{
	{1, 3, func(pos float64) float64 {
		return seg1Slope*pos + seg1Intercept
	}},
	{4, 20, func(pos float64) float64 {
		return (seg4Coeff*math.Exp(seg4Rate*pos) + seg4Offset) * seg4Scale
	}},
	{21, 35, func(pos float64) float64 {
		return ((seg21Base-seg21Sub)*math.Pow(seg21Growth, 2-pos) - seg21Offset) * seg21Scale
	}},
	{36, 55, func(pos float64) float64 {
		return seg36Scale * (seg36Coeff*math.Pow(seg36Growth, 1-pos) + seg36Offset)
	}},
	{56, MaxScoredPosition, func(pos float64) float64 {
		return seg56Scale * (seg56Coeff*math.Exp(seg56Rate*pos) + seg56Offset)
	}},
}

// BeatenScore returns the score awarded for a full clear of a demon at the
// given position, or 0 for positions outside [1, MaxScoredPosition].
func BeatenScore(position int) float64 {
	for _, seg := range scoreSegments {
		if position >= seg.minPos && position <= seg.maxPos {
			return seg.beaten(float64(position))
		}
	}
	return 0
}

// Score computes the score a record with the given progress earns on a demon
// at the given position with the given requirement.
//
// Progress below the requirement scores 0. A full clear earns the position's
// beaten score; partial progress earns an exponentially attenuated fraction of
// it. The requirement==100 case never reaches the partial branch, so the
// division by (100 - requirement) is safe.
func Score(position, requirement, progress int) float64 {
	if progress < requirement {
		return 0
	}

	beaten := BeatenScore(position)

	if progress == 100 {
		return beaten
	}

	return beaten * math.Pow(5, float64(progress-requirement)/float64(100-requirement)) / 10
}

// Score computes the score a record with the given progress earns on this
// demon at its current position.
func (d *Demon) Score(progress int) float64 {
	return Score(d.Position, d.Requirement, progress)
}
