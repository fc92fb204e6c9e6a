package eval

import (
	"fmt"
	"math"

	"github.com/ayusman/asana/internal/pose"
)

// PathPair is one correspondence in an alignment path: reference frame
// index paired with candidate frame index.
type PathPair struct {
	Ref  int `json:"ref"`
	Cand int `json:"cand"`
}

// AlignConfig controls the DTW aligner.
type AlignConfig struct {
	// Band bounds the search to |ref-cand| <= Band. Zero means unbounded.
	// A positive band narrower than the sequence length difference makes
	// the endpoints unreachable and is rejected as a configuration error.
	Band int

	// SentinelCost is charged to a pair of frames sharing no measurable
	// angle, so alignment avoids unusable frames without blowing up.
	SentinelCost float64

	// DegenerateCost is the normalized-cost ceiling above which the two
	// sequences are declared not comparable.
	DegenerateCost float64
}

// DefaultAlignConfig returns the default aligner settings.
func DefaultAlignConfig() AlignConfig {
	return AlignConfig{
		Band:           0,
		SentinelCost:   1e6,
		DegenerateCost: 1e5,
	}
}

// Alignment is the result of aligning a candidate sequence against a
// reference sequence: a monotonic path through both, its cumulative cost,
// and the cost normalized by path length.
type Alignment struct {
	Path           []PathPair
	Cost           float64
	NormalizedCost float64
}

// Align computes the minimum-cost monotonic correspondence between the
// reference sequence and the candidate sequence using dynamic time warping.
// The per-pair cost is the tolerance-normalized squared distance over the
// angles measured in both frames. Ties between predecessors are broken
// diagonal first, then reference-advance, then candidate-advance, so paths
// are deterministic and reproducible.
func Align(ref, cand []AngleVector, def *pose.PoseDefinition, config AlignConfig) (*Alignment, error) {
	n := len(ref)
	m := len(cand)

	if n == 0 || m == 0 {
		return nil, fmt.Errorf("%w: reference has %d frames, candidate has %d", ErrAlignmentInputTooShort, n, m)
	}

	diff := n - m
	if diff < 0 {
		diff = -diff
	}
	if config.Band > 0 && config.Band < diff {
		return nil, fmt.Errorf("%w: band %d, length difference %d", ErrBandTooNarrow, config.Band, diff)
	}

	// Cumulative cost grid with an infinite border except the origin.
	dp := make([][]float64, n+1)
	for i := range dp {
		dp[i] = make([]float64, m+1)
		for j := range dp[i] {
			dp[i][j] = math.Inf(1)
		}
	}
	dp[0][0] = 0

	for i := 1; i <= n; i++ {
		jLo, jHi := 1, m
		if config.Band > 0 {
			if lo := i - config.Band; lo > jLo {
				jLo = lo
			}
			if hi := i + config.Band; hi < jHi {
				jHi = hi
			}
		}
		for j := jLo; j <= jHi; j++ {
			cost := pairCost(ref[i-1], cand[j-1], def.Angles, config.SentinelCost)
			dp[i][j] = cost + min3(dp[i-1][j-1], dp[i-1][j], dp[i][j-1])
		}
	}

	total := dp[n][m]
	if math.IsInf(total, 1) {
		return nil, fmt.Errorf("%w: no finite alignment", ErrAlignmentDegenerate)
	}

	// Backtrace from (n, m), recomputing the arg-min with the same
	// precedence used during the fill.
	i, j := n, m
	rev := []PathPair{{Ref: i - 1, Cand: j - 1}}
	for i > 1 || j > 1 {
		diag := dp[i-1][j-1]
		up := dp[i-1][j]
		left := dp[i][j-1]

		switch {
		case diag <= up && diag <= left:
			i--
			j--
		case up <= left:
			i--
		default:
			j--
		}
		rev = append(rev, PathPair{Ref: i - 1, Cand: j - 1})
	}

	path := make([]PathPair, len(rev))
	for k := range rev {
		path[len(rev)-1-k] = rev[k]
	}

	normalized := total / float64(len(path))
	if normalized >= config.DegenerateCost {
		return nil, fmt.Errorf("%w: normalized alignment cost %.1f", ErrAlignmentDegenerate, normalized)
	}

	return &Alignment{
		Path:           path,
		Cost:           total,
		NormalizedCost: normalized,
	}, nil
}

// pairCost computes the tolerance-normalized squared distance between two
// angle vectors over the angles measured in both. Angles missing on either
// side are excluded rather than penalized; a pair sharing no angle at all
// costs the sentinel. Summation follows definition order so identical
// inputs always accumulate identically.
func pairCost(r, c AngleVector, angles []pose.AngleDefinition, sentinel float64) float64 {
	total := 0.0
	shared := 0

	for _, a := range angles {
		rv, okR := r[a.Name]
		cv, okC := c[a.Name]
		if !okR || !okC {
			continue
		}
		d := (rv - cv) / a.Tolerance
		total += d * d
		shared++
	}

	if shared == 0 {
		return sentinel
	}
	return total
}

// min3 returns the minimum of three float64 values.
func min3(a, b, c float64) float64 {
	if a <= b && a <= c {
		return a
	}
	if b <= c {
		return b
	}
	return c
}
