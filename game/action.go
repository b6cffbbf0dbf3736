package game

import "fmt"

// Action is a one tile decision of an agent.
type Action int

const (
	Stand Action = iota
	MoveUp
	MoveDown
	MoveLeft
	MoveRight
	PlaceBombAndMoveUp
	PlaceBombAndMoveDown
	PlaceBombAndMoveLeft
	PlaceBombAndMoveRight
)

// Actions lists every action in declaration order.
var Actions = [...]Action{
	Stand,
	MoveUp, MoveDown, MoveLeft, MoveRight,
	PlaceBombAndMoveUp, PlaceBombAndMoveDown, PlaceBombAndMoveLeft, PlaceBombAndMoveRight,
}

var actionNames = [...]string{
	Stand:                 "Stand",
	MoveUp:                "MoveUp",
	MoveDown:              "MoveDown",
	MoveLeft:              "MoveLeft",
	MoveRight:             "MoveRight",
	PlaceBombAndMoveUp:    "PlaceBombAndMoveUp",
	PlaceBombAndMoveDown:  "PlaceBombAndMoveDown",
	PlaceBombAndMoveLeft:  "PlaceBombAndMoveLeft",
	PlaceBombAndMoveRight: "PlaceBombAndMoveRight",
}

func MoveAction(d Direction) Action {
	switch d {
	case Up:
		return MoveUp
	case Down:
		return MoveDown
	case Left:
		return MoveLeft
	case Right:
		return MoveRight
	default:
		return Stand
	}
}

func BombAction(d Direction) Action {
	switch d {
	case Up:
		return PlaceBombAndMoveUp
	case Down:
		return PlaceBombAndMoveDown
	case Left:
		return PlaceBombAndMoveLeft
	case Right:
		return PlaceBombAndMoveRight
	default:
		panic(fmt.Sprintf("no bomb action for direction %s", d))
	}
}

func (a Action) Direction() Direction {
	switch a {
	case MoveUp, PlaceBombAndMoveUp:
		return Up
	case MoveDown, PlaceBombAndMoveDown:
		return Down
	case MoveLeft, PlaceBombAndMoveLeft:
		return Left
	case MoveRight, PlaceBombAndMoveRight:
		return Right
	default:
		return None
	}
}

func (a Action) PlacesBomb() bool {
	return a >= PlaceBombAndMoveUp && a <= PlaceBombAndMoveRight
}

// Target returns the cell the action leads to from pos, ignoring physics.
func (a Action) Target(pos GridPosition) GridPosition {
	return pos.Add(a.Direction().Offset())
}

// Apply sets the player in motion. A refused bomb placement is not an error
// for the caller: the player still moves.
func (a Action) Apply(p *Player) error {
	var err error
	if a.PlacesBomb() {
		err = p.PlaceBomb()
	}
	p.SetMovingDirection(a.Direction())
	return err
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func ParseAction(s string) (Action, error) {
	for i, name := range actionNames {
		if name == s {
			return Action(i), nil
		}
	}
	return Stand, fmt.Errorf("unknown action %q", s)
}
