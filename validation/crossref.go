package validation

import (
	"fmt"
	"sort"

	"github.com/while-basic/celaya-parachain-sub001/core"
	"github.com/while-basic/celaya-parachain-sub001/credibility"
)

// CrossReference summarizes how much a set of sources agree on credibility.
type CrossReference struct {
	Classes           map[string]string `json:"classes"`
	Conflicts         []string          `json:"conflicts"`
	ConsensusStrength float64           `json:"consensus_strength"`
}

// ConflictSpread is the credibility gap above which two sources conflict.
const ConflictSpread = 0.3

// CrossReferenceSources classifies every scored source and lists pairs whose
// credibility differs by more than ConflictSpread. Strength is one minus the
// overall spread.
func CrossReferenceSources(scores map[string]float64) CrossReference {
	urls := make([]string, 0, len(scores))
	for u := range scores {
		urls = append(urls, u)
	}

	sort.Strings(urls)

	xr := CrossReference{Classes: make(map[string]string, len(urls)), Conflicts: []string{}, ConsensusStrength: 1}
	if len(urls) == 0 {
		return xr
	}

	lo, hi := 1.0, 0.0
	for i, u := range urls {
		s := scores[u]
		xr.Classes[u] = credibility.Class(s)
		lo, hi = min(lo, s), max(hi, s)

		for _, v := range urls[i+1:] {
			if d := s - scores[v]; d > ConflictSpread || -d > ConflictSpread {
				xr.Conflicts = append(xr.Conflicts, fmt.Sprintf("%s vs %s", u, v))
			}
		}
	}

	xr.ConsensusStrength = core.Clamp01(1 - (hi - lo))

	return xr
}
