package game

import "github.com/dkhalov/caucus/internal/entity"

// Role is a player's secret allegiance. It is never serialized to
// untrusted observers.
type Role string

const (
	RoleUnassigned Role = "unassigned"
	RoleHitler     Role = "hitler"
	RoleFascist    Role = "fascist"
	RoleLiberal    Role = "liberal"
)

// PlayerStatus is a player's public condition.
type PlayerStatus string

const (
	StatusNormal       PlayerStatus = "normal"
	StatusInvestigated PlayerStatus = "investigated"
	StatusDead         PlayerStatus = "dead"
)

// Player belongs to exactly one game through membership in its TurnOrder.
// SeatNum is unique among seated players; 0 means unseated.
type Player struct {
	entity.Record

	DisplayName string
	IsModerator bool
	SeatNum     int
	Role        Role
	Status      PlayerStatus
	Connected   bool
}

// NewPlayer constructs a player record with join-time defaults.
func NewPlayer(id string) *Player {
	p := &Player{
		Role:      RoleUnassigned,
		Status:    StatusNormal,
		Connected: true,
	}

	p.Init("player", id, []entity.Field{
		{Name: "displayName", Type: entity.TypeString,
			Get: func() any { return p.DisplayName },
			Set: func(v any) { p.DisplayName = v.(string) }},
		{Name: "isModerator", Type: entity.TypeBool,
			Get: func() any { return p.IsModerator },
			Set: func(v any) { p.IsModerator = v.(bool) }},
		{Name: "seatNum", Type: entity.TypeInt,
			Get: func() any { return p.SeatNum },
			Set: func(v any) { p.SeatNum = v.(int) }},
		{Name: "role", Type: entity.TypeString,
			Get: func() any { return string(p.Role) },
			Set: func(v any) { p.Role = Role(v.(string)) }},
		{Name: "state", Type: entity.TypeString,
			Get: func() any { return string(p.Status) },
			Set: func(v any) { p.Status = PlayerStatus(v.(string)) }},
		{Name: "connected", Type: entity.TypeBool,
			Get: func() any { return p.Connected },
			Set: func(v any) { p.Connected = v.(bool) }},
	})

	return p
}

func (p *Player) SetDisplayName(name string) {
	p.DisplayName = name
	p.MarkDirty("displayName")
}

func (p *Player) SetModerator(on bool) {
	p.IsModerator = on
	p.MarkDirty("isModerator")
}

func (p *Player) SetSeatNum(n int) {
	p.SeatNum = n
	p.MarkDirty("seatNum")
}

func (p *Player) SetRole(r Role) {
	p.Role = r
	p.MarkDirty("role")
}

func (p *Player) SetStatus(s PlayerStatus) {
	p.Status = s
	p.MarkDirty("state")
}

func (p *Player) SetConnected(on bool) {
	p.Connected = on
	p.MarkDirty("connected")
}

// Serialize returns the player's snapshot. With hideSecrets the role field
// is omitted entirely; this is a confidentiality invariant, not an
// optimization.
func (p *Player) Serialize(hideSecrets bool) map[string]any {
	safe := p.Record.Serialize()
	if hideSecrets {
		delete(safe, "role")
	}
	return safe
}
