package services

import (
	"sort"
	"strings"

	"github.com/neststop/backend/internal/domain/chains"
	"github.com/neststop/backend/internal/domain/entities"
)

// Likelihood tiers for a candidate having a changing station. Guaranteed
// chains sit at the ceiling because corporate policy, not inference, already
// establishes ground truth; the category tiers below are fallback signals
// ordered by empirical likelihood.
const (
	scoreGuaranteedChain = 4.0
	scorePriorityChain   = 3.8
	scoreSecondTierChain = 3.2
	scoreFuelPharmacy    = 3.0
	scoreFoodGrocery     = 2.0
	scoreMall            = 1.5
	scoreDefault         = 1.0
)

// PlaceScoringService scores and ranks place candidates.
type PlaceScoringService struct{}

// NewPlaceScoringService creates a new scoring service.
func NewPlaceScoringService() *PlaceScoringService {
	return &PlaceScoringService{}
}

// Score returns the likelihood score for a candidate. Rules apply in order,
// first match wins; the name-based guaranteed-chain check beats everything
// else even when category data is present. Missing category or chain-id
// data falls through to the default tier.
func (s *PlaceScoringService) Score(candidate *entities.PlaceCandidate) float64 {
	if chains.IsGuaranteed(candidate.Name) {
		return scoreGuaranteedChain
	}

	for _, id := range candidate.ChainIDs {
		if chains.IsPriorityChainID(id) {
			return scorePriorityChain
		}
	}
	for _, id := range candidate.ChainIDs {
		if chains.IsSecondTierChainID(id) {
			return scoreSecondTierChain
		}
	}

	return categoryScore(candidate.Categories)
}

// Annotate derives the guaranteed-chain flag and score on a candidate.
func (s *PlaceScoringService) Annotate(candidate *entities.PlaceCandidate) {
	candidate.GuaranteedChain = chains.IsGuaranteed(candidate.Name)
	candidate.Score = s.Score(candidate)
}

// Rank orders candidates by guaranteed-chain flag, then score, then
// distance from the query point (missing distance sorts last). The sort is
// stable so true ties preserve input order.
func (s *PlaceScoringService) Rank(candidates []*entities.PlaceCandidate) []*entities.PlaceCandidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]

		if a.GuaranteedChain != b.GuaranteedChain {
			return a.GuaranteedChain
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return lessDistance(a.DistanceMeters, b.DistanceMeters)
	})
	return candidates
}

func lessDistance(a, b *float64) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return *a < *b
}

func categoryScore(categories []string) float64 {
	best := scoreDefault
	for _, category := range categories {
		lower := strings.ToLower(category)
		switch {
		case containsAny(lower, "fuel", "gas", "convenience", "pharmacy"):
			if scoreFuelPharmacy > best {
				best = scoreFuelPharmacy
			}
		case containsAny(lower, "restaurant", "supermarket", "grocery"):
			if scoreFoodGrocery > best {
				best = scoreFoodGrocery
			}
		case containsAny(lower, "mall", "department"):
			if scoreMall > best {
				best = scoreMall
			}
		}
	}
	return best
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
