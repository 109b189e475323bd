package spotify

type ServerState int

const (
	ServerStateIdle ServerState = iota
	ServerStateAdvertising
	ServerStateConnected
	ServerStateFailed
)

func (s ServerState) String() string {
	if s < 0 || s > ServerStateFailed {
		return "Unknown"
	}
	return []string{"Idle", "Advertising", "Connected", "Failed"}[s]
}
