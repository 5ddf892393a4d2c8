package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	apperror "fiapcloudgames/internal/errors"
)

// MinReleaseYear é o ano de lançamento mais antigo aceito no catálogo.
const MinReleaseYear = 1980

// MaxBasePrice é o maior preço que cabe na coluna NUMERIC(12,2).
var MaxBasePrice = decimal.RequireFromString("9999999999.99")

// Game representa um jogo do catálogo.
type Game struct {
	Entity
	Name        string          `json:"name"`
	ReleaseYear int             `json:"release_year"`
	BasePrice   decimal.Decimal `json:"base_price" swaggertype:"string" example:"100.00"`
}

// GameInput é o payload de criação e alteração de jogos.
type GameInput struct {
	Name        string          `json:"name" example:"THE LEGEND OF GO"`
	ReleaseYear int             `json:"release_year" example:"2023"`
	BasePrice   decimal.Decimal `json:"base_price" swaggertype:"string" example:"100.00"`
}

// NewGame valida os dados e cria um jogo novo.
func NewGame(input GameInput) (Game, error) {
	game := Game{
		Entity:      newEntity(),
		Name:        strings.TrimSpace(input.Name),
		ReleaseYear: input.ReleaseYear,
		BasePrice:   input.BasePrice,
	}
	if err := game.Validate(); err != nil {
		return Game{}, err
	}
	return game, nil
}

// Apply copia os dados da entrada para o jogo, validando o resultado.
// Em caso de erro o jogo não é alterado.
func (g *Game) Apply(input GameInput) error {
	updated := *g
	updated.Name = strings.TrimSpace(input.Name)
	updated.ReleaseYear = input.ReleaseYear
	updated.BasePrice = input.BasePrice
	if err := updated.Validate(); err != nil {
		return err
	}
	*g = updated
	return nil
}

// Validate verifica nome, ano de lançamento e preço base.
func (g Game) Validate() error {
	if g.Name == "" {
		return apperror.NewValidationError("Nome do jogo é obrigatório.")
	}
	if utf8.RuneCountInString(g.Name) > 100 {
		return apperror.NewValidationError("Nome do jogo deve ter no máximo 100 caracteres.")
	}
	currentYear := now().Year()
	if g.ReleaseYear < MinReleaseYear || g.ReleaseYear > currentYear {
		return apperror.NewValidationError("Ano de lançamento deve estar entre 1980 e o ano atual.")
	}
	if !g.BasePrice.IsPositive() {
		return apperror.NewValidationError("Preço deve ser maior que zero.")
	}
	if g.BasePrice.GreaterThan(MaxBasePrice) {
		return apperror.NewValidationError("Preço deve ser no máximo 9999999999.99.")
	}
	if !g.BasePrice.Equal(g.BasePrice.Round(2)) {
		return apperror.NewValidationError("Preço deve ter no máximo duas casas decimais.")
	}
	return nil
}
