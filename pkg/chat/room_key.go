package chat

import (
	"fmt"
)

// RoomKey derives the canonical room identifier for a donation and its two
// chat participants. The participant pair is sorted so both parties compute
// the same key regardless of who is addressing whom.
func RoomKey(donationID string, uidA string, uidB string) string {
	if uidB < uidA {
		uidA, uidB = uidB, uidA
	}
	return fmt.Sprintf("chat_%s_%s_%s", donationID, uidA, uidB)
}

// SortParticipants returns the pair in canonical (lexicographic) order.
func SortParticipants(uidA string, uidB string) (string, string) {
	if uidB < uidA {
		return uidB, uidA
	}
	return uidA, uidB
}
