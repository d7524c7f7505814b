package brackets

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/openbracket/tournament-engine/models"
)

// SeedSlot is one entry of the materialization order: either a participant or
// a bye placeholder padding the field up to the bracket size.
type SeedSlot struct {
	ParticipantID *int
	Bye           bool
}

// SeedList is the ordered slot assignment consumed by the materializers. For
// elimination formats the order is already bracket-balanced: consecutive pairs
// form the first-round matches.
type SeedList []SeedSlot

// orderParticipants applies the seeding policy and returns participants from
// strongest to weakest slot position.
func orderParticipants(participants []*models.Participant, policy models.SeedingPolicy, rng *rand.Rand) ([]*models.Participant, error) {
	ordered := make([]*models.Participant, len(participants))
	copy(ordered, participants)

	switch policy {
	case models.SeedingSeeded:
		seen := make(map[int]int, len(ordered))
		for _, p := range ordered {
			if p.Seed == nil {
				continue
			}
			if prev, ok := seen[*p.Seed]; ok {
				return nil, fmt.Errorf("%w: seed %d held by participants %d and %d", ErrDuplicateSeed, *p.Seed, prev, p.ID)
			}
			seen[*p.Seed] = p.ID
		}
		// Seeded participants first, ascending; unseeded keep registration
		// order behind them.
		sort.SliceStable(ordered, func(i, j int) bool {
			si, sj := ordered[i].Seed, ordered[j].Seed
			switch {
			case si != nil && sj != nil:
				return *si < *sj
			case si != nil:
				return true
			default:
				return false
			}
		})
	case models.SeedingRandom:
		shuffle := rand.Shuffle
		if rng != nil {
			shuffle = rng.Shuffle
		}
		shuffle(len(ordered), func(i, j int) {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		})
	case models.SeedingRegistrationOrder:
		// Participants arrive ordered by registration time.
	default:
		return nil, fmt.Errorf("unknown seeding policy %q", policy)
	}

	return ordered, nil
}

// bracketOrder computes the standard balanced placement for a full bracket of
// the given size: position 0 meets position N-1, positions 0 and 1 land in
// opposite halves, 0..3 in distinct quarters, and so on recursively, so that
// top seeds meet as late as possible.
func bracketOrder(slotCount int) []int {
	order := []int{0}
	for len(order) < slotCount {
		doubled := make([]int, 0, len(order)*2)
		mirror := len(order)*2 - 1
		for _, pos := range order {
			doubled = append(doubled, pos, mirror-pos)
		}
		order = doubled
	}
	return order
}

// BuildSeedList normalizes approved participants into the slot assignment for
// an elimination bracket of slotCount entries. Positions beyond the real field
// become byes, which end up paired against the strongest seeds.
func BuildSeedList(participants []*models.Participant, policy models.SeedingPolicy, slotCount int, rng *rand.Rand) (SeedList, error) {
	if len(participants) < 2 {
		return nil, fmt.Errorf("%w: have %d, need at least 2", ErrInsufficientParticipants, len(participants))
	}
	if !isPowerOfTwo(slotCount) || slotCount < len(participants) {
		return nil, fmt.Errorf("%w: %d slots for %d participants", ErrInvalidSlotCount, slotCount, len(participants))
	}

	ordered, err := orderParticipants(participants, policy, rng)
	if err != nil {
		return nil, err
	}

	slots := make(SeedList, slotCount)
	for i, pos := range bracketOrder(slotCount) {
		if pos < len(ordered) {
			id := ordered[pos].ID
			slots[i] = SeedSlot{ParticipantID: &id}
		} else {
			slots[i] = SeedSlot{Bye: true}
		}
	}
	return slots, nil
}
