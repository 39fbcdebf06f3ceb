package notify

import "encoding/json"

// Event names pushed to displays. The engine accepts any non-empty name;
// these are the ones the platform emits today.
const (
	EventDisplayUpdated     = "display_updated"
	EventReservationCreated = "reservationCreated"
	EventReservationUpdated = "reservationUpdated"
	EventReservationDeleted = "reservationDeleted"
)

// EncodeFrame renders one event as a server-sent-event frame:
//
//	event: <name>\ndata: <json payload>\n\n
//
// The frame is built once per publish and shared by every channel it is
// written to, including WebSocket channels, which carry the same bytes.
func EncodeFrame(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 0, len("event: ")+len(event)+len("\ndata: ")+len(data)+len("\n\n"))
	buf = append(buf, "event: "...)
	buf = append(buf, event...)
	buf = append(buf, "\ndata: "...)
	buf = append(buf, data...)
	buf = append(buf, "\n\n"...)
	return buf, nil
}
