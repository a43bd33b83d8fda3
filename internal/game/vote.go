package game

import (
	"slices"

	"github.com/dkhalov/caucus/internal/entity"
)

// VoteType determines what a ballot decides and how Target1/Target2 are
// interpreted.
type VoteType string

const (
	// VoteElect elects a president/chancellor pair (target1/target2).
	VoteElect VoteType = "elect"
	// VoteJoin admits target1 into the game during setup.
	VoteJoin VoteType = "join"
	// VoteKick removes target1 from the game during setup.
	VoteKick VoteType = "kick"
	// VoteConfirmRole confirms that everyone has seen their secret role.
	VoteConfirmRole VoteType = "confirmRole"
)

// Vote is an ephemeral ballot record. YesVoters, NoVoters, and NonVoters
// are disjoint; NonVoters is the ineligible set, fixed at creation. Once
// resolved the record is destroyed.
type Vote struct {
	entity.Record

	Type    VoteType
	Target1 string
	Target2 string
	Data    string

	// ToPass is the number of yes ballots required to pass. Requires is the
	// ballot count a full turnout would produce; clients use it to show
	// progress, resolution does not wait for it.
	ToPass    int
	Requires  int
	YesVoters []string
	NoVoters  []string
	NonVoters []string
}

// NewVote constructs a ballot record with single-voter defaults.
func NewVote(id string) *Vote {
	v := &Vote{
		Type:      VoteElect,
		ToPass:    1,
		Requires:  1,
		YesVoters: []string{},
		NoVoters:  []string{},
		NonVoters: []string{},
	}

	v.Init("vote", id, []entity.Field{
		{Name: "type", Type: entity.TypeString,
			Get: func() any { return string(v.Type) },
			Set: func(x any) { v.Type = VoteType(x.(string)) }},
		{Name: "target1", Type: entity.TypeString,
			Get: func() any { return v.Target1 },
			Set: func(x any) { v.Target1 = x.(string) }},
		{Name: "target2", Type: entity.TypeString,
			Get: func() any { return v.Target2 },
			Set: func(x any) { v.Target2 = x.(string) }},
		{Name: "data", Type: entity.TypeString,
			Get: func() any { return v.Data },
			Set: func(x any) { v.Data = x.(string) }},
		{Name: "toPass", Type: entity.TypeInt,
			Get: func() any { return v.ToPass },
			Set: func(x any) { v.ToPass = x.(int) }},
		{Name: "requires", Type: entity.TypeInt,
			Get: func() any { return v.Requires },
			Set: func(x any) { v.Requires = x.(int) }},
		{Name: "yesVoters", Type: entity.TypeCSV,
			Get: func() any { return v.YesVoters },
			Set: func(x any) { v.YesVoters = x.([]string) }},
		{Name: "noVoters", Type: entity.TypeCSV,
			Get: func() any { return v.NoVoters },
			Set: func(x any) { v.NoVoters = x.([]string) }},
		{Name: "nonVoters", Type: entity.TypeCSV,
			Get: func() any { return v.NonVoters },
			Set: func(x any) { v.NonVoters = x.([]string) }},
	})

	return v
}

func (v *Vote) SetYesVoters(ids []string) {
	v.YesVoters = ids
	v.MarkDirty("yesVoters")
}

func (v *Vote) SetNoVoters(ids []string) {
	v.NoVoters = ids
	v.MarkDirty("noVoters")
}

// HasVoted reports whether the user already cast a yes or no ballot.
func (v *Vote) HasVoted(userID string) bool {
	return slices.Contains(v.YesVoters, userID) || slices.Contains(v.NoVoters, userID)
}

// Blacklisted reports whether the user is in the vote's ineligible set.
func (v *Vote) Blacklisted(userID string) bool {
	return slices.Contains(v.NonVoters, userID)
}

// Ballots is the number of yes and no ballots cast so far.
func (v *Vote) Ballots() int {
	return len(v.YesVoters) + len(v.NoVoters)
}
