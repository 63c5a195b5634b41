package realtime

import "encoding/json"

// Inbound event names.
const (
	EventAuthenticate   = "authenticate"
	EventJoinRoom       = "join_room"
	EventChatMessage    = "chat_message"
	EventBehaviorParams = "behavior_params"
)

// Outbound event names.
const (
	EventAuthenticated = "authenticated"
	EventUnauthorized  = "unauthorized"
	EventSystemMessage = "system_message"
	EventMLAnalysis    = "ml_analysis"
	EventMLError       = "ml_error"
	EventError         = "error"
)

// Envelope is the wire shape for every realtime event, both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type AuthenticatePayload struct {
	Token string `json:"token"`
}

type JoinRoomPayload struct {
	TargetUserId string `json:"target_user_id"`
}

type ChatMessagePayload struct {
	Text string `json:"text"`
}

// BehaviorPayload carries a loosely-typed telemetry batch. Field-level
// normalization happens in the engagement package.
type BehaviorPayload struct {
	Samples []map[string]interface{} `json:"samples"`
}

// EncodeEvent marshals an outbound envelope. Marshal failures can only
// come from programmer error in the data value, so they surface as nil.
func EncodeEvent(event string, data interface{}) []byte {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	out, err := json.Marshal(Envelope{Event: event, Data: raw})
	if err != nil {
		return nil
	}
	return out
}
