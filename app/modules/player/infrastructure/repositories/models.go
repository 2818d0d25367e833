package playerdb

import (
	"github.com/uptrace/bun"

	playerdomain "github.com/demonlist-club/demonlist-backend/app/modules/player/domain"
)

// Player is the bun model for the players table.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	ID     int64   `bun:"id,pk,autoincrement"`
	Name   string  `bun:"name,notnull,unique"`
	Banned bool    `bun:"banned,notnull,default:false"`
	Score  float64 `bun:"score,notnull,default:0"`
}

// ToDomain converts the row into its minimal domain representation.
func (p *Player) ToDomain() playerdomain.DatabasePlayer {
	return playerdomain.DatabasePlayer{
		ID:     p.ID,
		Name:   p.Name,
		Banned: p.Banned,
	}
}

// ToFullDomain converts the row into its full domain representation.
func (p *Player) ToFullDomain() playerdomain.Player {
	return playerdomain.Player{
		DatabasePlayer: p.ToDomain(),
		Score:          p.Score,
	}
}
