package domain

import "time"

// now é o relógio usado pelas entidades; substituído nos testes.
var now = time.Now

// Entity contém os campos comuns a todas as entidades persistidas.
// É embutida por valor em User, Game, Promotion e Order.
type Entity struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// newEntity cria a base de uma entidade nova, ainda sem ID (atribuído pelo banco).
func newEntity() Entity {
	return Entity{CreatedAt: now()}
}
