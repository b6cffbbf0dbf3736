package searcher

import (
	"bomberman/game"
	"strings"
)

type TileDTO struct {
	Kind      string  `json:"kind" msgpack:"kind"`
	Row       int     `json:"row" msgpack:"row"`
	Column    int     `json:"column" msgpack:"column"`
	Remaining float64 `json:"remaining,omitempty" msgpack:"remaining,omitempty"` // seconds
	Range     int     `json:"range,omitempty" msgpack:"range,omitempty"`
}

type PlayerDTO struct {
	X              float64 `json:"x" msgpack:"x"`
	Y              float64 `json:"y" msgpack:"y"`
	Alive          bool    `json:"alive" msgpack:"alive"`
	Speed          float64 `json:"speed" msgpack:"speed"`
	BombRange      int     `json:"bombRange" msgpack:"bombRange"`
	MaxPlacedBombs int     `json:"maxPlacedBombs" msgpack:"maxPlacedBombs"`
	Score          int     `json:"score" msgpack:"score"`
}

type StateDTO struct {
	Width   int         `json:"width" msgpack:"width"`
	Height  int         `json:"height" msgpack:"height"`
	Elapsed float64     `json:"elapsed" msgpack:"elapsed"` // seconds
	Tiles   []TileDTO   `json:"tiles" msgpack:"tiles"`
	Players []PlayerDTO `json:"players" msgpack:"players"`
}

type NodeDTO struct {
	Action         *game.Action  `json:"action,omitempty" msgpack:"action,omitempty"`
	UntriedActions []game.Action `json:"untriedActions" msgpack:"untriedActions"`
	Status         string        `json:"status" msgpack:"status"`
	Visits         int           `json:"visits" msgpack:"visits"`
	TotalReward    float64       `json:"totalReward" msgpack:"totalReward"`
	AverageReward  float64       `json:"averageReward" msgpack:"averageReward"`
	Heuristic      float64       `json:"heuristic" msgpack:"heuristic"`
	State          StateDTO      `json:"state" msgpack:"state"`
	Children       []*NodeDTO    `json:"children,omitempty" msgpack:"children,omitempty"`
}

// NodeRow is one node of a flattened tree.
type NodeRow struct {
	ID             int     `parquet:"id"`
	Parent         int     `parquet:"parent"`
	Depth          int     `parquet:"depth"`
	Action         string  `parquet:"action"`
	UntriedActions string  `parquet:"untried_actions"`
	Status         string  `parquet:"status"`
	Visits         int     `parquet:"visits"`
	TotalReward    float64 `parquet:"total_reward"`
	AverageReward  float64 `parquet:"average_reward"`
	Heuristic      float64 `parquet:"heuristic"`
}

func NewStateDTO(s *game.GameState) StateDTO {
	dto := StateDTO{
		Width:   s.TileMap.Width(),
		Height:  s.TileMap.Height(),
		Elapsed: s.Elapsed().Seconds(),
	}
	for _, t := range s.TileMap.Tiles() {
		dto.Tiles = append(dto.Tiles, TileDTO{
			Kind:      t.Kind.String(),
			Row:       t.Position.Row,
			Column:    t.Position.Column,
			Remaining: t.Remaining.Seconds(),
			Range:     t.Range,
		})
	}
	for _, a := range s.Agents {
		p := a.Player()
		dto.Players = append(dto.Players, PlayerDTO{
			X:              p.Position().X,
			Y:              p.Position().Y,
			Alive:          p.Alive(),
			Speed:          p.Speed,
			BombRange:      p.BombRange,
			MaxPlacedBombs: p.MaxPlacedBombs,
			Score:          p.Score,
		})
	}
	return dto
}

// Snapshot converts the tree into nested DTOs for export.
func (t *Tree) Snapshot() *NodeDTO {
	return t.snapshot(root)
}

func (t *Tree) snapshot(i int) *NodeDTO {
	n := &t.nodes[i]
	dto := &NodeDTO{
		UntriedActions: append([]game.Action{}, n.untried...),
		Status:         t.Status(i).String(),
		Visits:         n.visits,
		TotalReward:    n.rewards,
		AverageReward:  t.average(i),
		Heuristic:      n.heuristic,
		State:          NewStateDTO(n.state),
	}
	if n.parent >= 0 {
		action := n.action
		dto.Action = &action
	}
	for _, c := range n.children {
		dto.Children = append(dto.Children, t.snapshot(c))
	}
	return dto
}

// Flatten lists every node in creation order.
func (t *Tree) Flatten() []NodeRow {
	rows := make([]NodeRow, 0, len(t.nodes))
	for i := range t.nodes {
		n := &t.nodes[i]
		row := NodeRow{
			ID:             i,
			Parent:         n.parent,
			Depth:          n.depth,
			UntriedActions: joinActions(n.untried),
			Status:         t.Status(i).String(),
			Visits:         n.visits,
			TotalReward:    n.rewards,
			AverageReward:  t.average(i),
			Heuristic:      n.heuristic,
		}
		if n.parent >= 0 {
			row.Action = n.action.String()
		}
		rows = append(rows, row)
	}
	return rows
}

func (t *Tree) average(i int) float64 {
	if t.nodes[i].visits == 0 {
		return 0
	}
	return t.nodes[i].rewards / float64(t.nodes[i].visits)
}

func joinActions(actions []game.Action) string {
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = a.String()
	}
	return strings.Join(names, ",")
}
