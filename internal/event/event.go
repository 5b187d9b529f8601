package event

type Type string

const (
	TypeUserRegistered       Type = "user.registered"
	TypeUserLogin            Type = "user.login"
	TypeUserLoginFailed      Type = "user.login_failed"
	TypeUserLogout           Type = "user.logout"
	TypeUserPasswordChanged  Type = "user.password_changed"
	TypeUserDeleted          Type = "user.deleted"
	TypeTokenRefreshed       Type = "token.refreshed"
	TypeTokenRotated         Type = "token.rotated"
	TypeTokenRevoked         Type = "token.revoked"
	TypeTokenRevokeFailed    Type = "token.revoke_failed"
	TypeReservationCreated   Type = "reservation.created"
	TypeReservationCancelled Type = "reservation.cancelled"
)

type Event struct {
	ID         string         `json:"id"`
	Type       Type           `json:"type"`
	ActorID    string         `json:"actor_id,omitempty"`
	ActorEmail string         `json:"actor_email,omitempty"`
	ActorIP    string         `json:"actor_ip,omitempty"`
	Resource   string         `json:"resource,omitempty"`
	Detail     map[string]any `json:"detail,omitempty"`
	Error      string         `json:"error,omitempty"`
	Timestamp  string         `json:"timestamp"`
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func())
}
