package domain

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	apperror "fiapcloudgames/internal/errors"
)

// Faixa de desconto aceita pela política comercial, em pontos percentuais.
const (
	MinDiscount = 10
	MaxDiscount = 90
)

// Promotion é uma campanha de desconto com janela de validade.
// Os campos são privados: toda alteração passa pelos métodos Update*, que revalidam as regras.
type Promotion struct {
	Entity
	name       string
	discount   int
	validUntil time.Time
}

// PromotionInput é o payload de criação e alteração de promoções.
type PromotionInput struct {
	Name       string    `json:"name" example:"BLACK FRIDAY"`
	Discount   int       `json:"discount" example:"20"`
	ValidUntil time.Time `json:"valid_until" example:"2026-11-30T23:59:59Z"`
}

// NewPromotion cria uma promoção nova. A data de criação é o instante atual
// e a validade precisa ser estritamente posterior a ela.
func NewPromotion(name string, discount int, validUntil time.Time) (*Promotion, error) {
	p := &Promotion{Entity: newEntity()}

	if err := p.UpdateName(name); err != nil {
		return nil, err
	}
	if err := p.UpdateDiscount(discount); err != nil {
		return nil, err
	}
	if !validUntil.After(p.CreatedAt) {
		return nil, apperror.NewValidationError("Data de validade deve ser posterior à data atual.")
	}
	p.validUntil = validUntil

	return p, nil
}

// RestorePromotion reconstrói uma promoção já persistida, sem revalidar as regras de criação.
// Uso exclusivo da camada de repositório.
func RestorePromotion(id int64, createdAt time.Time, name string, discount int, validUntil time.Time) *Promotion {
	return &Promotion{
		Entity:     Entity{ID: id, CreatedAt: createdAt},
		name:       name,
		discount:   discount,
		validUntil: validUntil,
	}
}

func (p *Promotion) Name() string          { return p.name }
func (p *Promotion) Discount() int         { return p.discount }
func (p *Promotion) ValidUntil() time.Time { return p.validUntil }

// UpdateName troca o nome da promoção. Nomes vazios são rejeitados.
func (p *Promotion) UpdateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperror.NewValidationError("Nome da promoção é obrigatório.")
	}
	if utf8.RuneCountInString(name) > 100 {
		return apperror.NewValidationError("Nome da promoção deve ter no máximo 100 caracteres.")
	}
	p.name = name
	return nil
}

// UpdateDiscount troca o percentual de desconto, que deve ficar entre 10 e 90.
func (p *Promotion) UpdateDiscount(discount int) error {
	if discount < MinDiscount || discount > MaxDiscount {
		return apperror.NewValidationError("Desconto deve estar entre 10% e 90%.")
	}
	p.discount = discount
	return nil
}

// UpdateValidity troca a data de validade. Ela não pode ser anterior à criação da promoção.
func (p *Promotion) UpdateValidity(validUntil time.Time) error {
	if validUntil.Before(p.CreatedAt) {
		return apperror.NewValidationError("Data de validade não pode ser anterior à data de criação da promoção.")
	}
	p.validUntil = validUntil
	return nil
}

// Apply aplica todas as alterações da entrada. Se qualquer uma falhar, a promoção fica intacta.
func (p *Promotion) Apply(input PromotionInput) error {
	updated := *p
	if err := updated.UpdateName(input.Name); err != nil {
		return err
	}
	if err := updated.UpdateDiscount(input.Discount); err != nil {
		return err
	}
	if err := updated.UpdateValidity(input.ValidUntil); err != nil {
		return err
	}
	*p = updated
	return nil
}

// IsValid informa se a promoção ainda está vigente agora.
func (p *Promotion) IsValid() bool {
	return !now().After(p.validUntil)
}

// IsValidAt informa se a data cai dentro da janela [criação, validade], com os extremos incluídos.
func (p *Promotion) IsValidAt(date time.Time) bool {
	return !date.Before(p.CreatedAt) && !date.After(p.validUntil)
}

type promotionJSON struct {
	ID         int64     `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Name       string    `json:"name"`
	Discount   int       `json:"discount"`
	ValidUntil time.Time `json:"valid_until"`
	Active     bool      `json:"active"`
}

// MarshalJSON expõe os campos privados na resposta da API.
func (p *Promotion) MarshalJSON() ([]byte, error) {
	return json.Marshal(promotionJSON{
		ID:         p.ID,
		CreatedAt:  p.CreatedAt,
		Name:       p.name,
		Discount:   p.discount,
		ValidUntil: p.validUntil,
		Active:     p.IsValid(),
	})
}
