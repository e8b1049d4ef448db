package player

// Role is the normalized playing role of a player in one match.
type Role string

const (
	RoleGoalkeeper Role = "GK"
	RoleDefender   Role = "DF"
	RoleMidfielder Role = "MF"
	RoleForward    Role = "FW"
	RoleUnknown    Role = "UNK"
)

const unknownLabel = "UNK"

var AllRoles = map[Role]struct{}{
	RoleGoalkeeper: {},
	RoleDefender:   {},
	RoleMidfielder: {},
	RoleForward:    {},
	RoleUnknown:    {},
}

// Position is a human-readable slot label paired with its role.
type Position struct {
	Label string
	Role  Role
}

// PositionTable resolves provider position codes. Fine is keyed by the
// provider's slot code, Coarse by the 0..3 usual-role code.
type PositionTable struct {
	Fine   map[int]Position
	Coarse map[int]Position
}

var fotmobFinePositions = map[int]Position{
	11: {Label: "GK", Role: RoleGoalkeeper},

	32: {Label: "RB", Role: RoleDefender},
	33: {Label: "CB", Role: RoleDefender},
	34: {Label: "CB", Role: RoleDefender},
	35: {Label: "CB", Role: RoleDefender},
	36: {Label: "CB", Role: RoleDefender},
	37: {Label: "CB", Role: RoleDefender},
	38: {Label: "LB", Role: RoleDefender},
	51: {Label: "RWB", Role: RoleDefender},
	62: {Label: "RWB", Role: RoleDefender},
	59: {Label: "LWB", Role: RoleDefender},
	68: {Label: "LWB", Role: RoleDefender},

	64:  {Label: "DM", Role: RoleMidfielder},
	65:  {Label: "DM", Role: RoleMidfielder},
	66:  {Label: "DM", Role: RoleMidfielder},
	71:  {Label: "RM", Role: RoleMidfielder},
	72:  {Label: "RM", Role: RoleMidfielder},
	73:  {Label: "CM", Role: RoleMidfielder},
	74:  {Label: "CM", Role: RoleMidfielder},
	75:  {Label: "CM", Role: RoleMidfielder},
	76:  {Label: "CM", Role: RoleMidfielder},
	77:  {Label: "CM", Role: RoleMidfielder},
	78:  {Label: "LM", Role: RoleMidfielder},
	79:  {Label: "LM", Role: RoleMidfielder},
	83:  {Label: "RW", Role: RoleMidfielder},
	103: {Label: "RW", Role: RoleMidfielder},
	84:  {Label: "AM", Role: RoleMidfielder},
	85:  {Label: "AM", Role: RoleMidfielder},
	86:  {Label: "AM", Role: RoleMidfielder},

	87:  {Label: "LW", Role: RoleForward},
	107: {Label: "LW", Role: RoleForward},
	104: {Label: "ST", Role: RoleForward},
	105: {Label: "ST", Role: RoleForward},
	106: {Label: "ST", Role: RoleForward},
	115: {Label: "ST", Role: RoleForward},
}

var fotmobCoarsePositions = map[int]Position{
	0: {Label: "GK", Role: RoleGoalkeeper},
	1: {Label: "DF", Role: RoleDefender},
	2: {Label: "MF", Role: RoleMidfielder},
	3: {Label: "FW", Role: RoleForward},
}

// DefaultPositionTable returns the FotMob position codes. The maps are shared
// and must not be mutated.
func DefaultPositionTable() PositionTable {
	return PositionTable{
		Fine:   fotmobFinePositions,
		Coarse: fotmobCoarsePositions,
	}
}

// MapPosition resolves the slot code first and falls back to the usual-role
// code, which is all unused substitutes carry.
func (t PositionTable) MapPosition(positionID, usualPositionID *int) (string, Role) {
	if positionID != nil {
		if pos, ok := t.Fine[*positionID]; ok {
			return pos.Label, pos.Role
		}
	}
	if usualPositionID != nil {
		if pos, ok := t.Coarse[*usualPositionID]; ok {
			return pos.Label, pos.Role
		}
	}
	return unknownLabel, RoleUnknown
}

func MapPosition(positionID, usualPositionID *int) (string, Role) {
	return DefaultPositionTable().MapPosition(positionID, usualPositionID)
}
