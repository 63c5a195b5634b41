package realtime

// roomSeparator joins the two participant ids. Ids are UUID strings, so
// the pipe cannot collide with identifier content.
const roomSeparator = "|"

// RoomID derives the stable room key for a pair of participants.
// Commutative: RoomID(a, b) == RoomID(b, a), so both sides converge on
// the same room regardless of who initiates.
func RoomID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + roomSeparator + b
}
