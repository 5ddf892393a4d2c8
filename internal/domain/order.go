package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	apperror "fiapcloudgames/internal/errors"
)

// DateTimeLayout é o formato das datas nas mensagens de erro.
const DateTimeLayout = "02/01/2006 15:04:05"

var hundred = decimal.NewFromInt(100)

// PromotionRef é a referência opcional de um pedido a uma promoção.
// O valor zero significa "sem promoção".
type PromotionRef struct {
	id    int64
	valid bool
}

// NoPromotion devolve uma referência vazia.
func NoPromotion() PromotionRef { return PromotionRef{} }

// PromotionRefOf devolve a referência para a promoção informada.
// IDs não positivos são tratados como ausência de promoção.
func PromotionRefOf(id int64) PromotionRef {
	if id <= 0 {
		return PromotionRef{}
	}
	return PromotionRef{id: id, valid: true}
}

// PromotionRefFromPtr converte o campo opcional do payload em referência.
func PromotionRefFromPtr(id *int64) PromotionRef {
	if id == nil {
		return PromotionRef{}
	}
	return PromotionRefOf(*id)
}

// Get devolve o ID da promoção e se a referência está presente.
func (r PromotionRef) Get() (int64, bool) { return r.id, r.valid }

// IsSet informa se há promoção referenciada.
func (r PromotionRef) IsSet() bool { return r.valid }

// Ptr devolve o ID como ponteiro, nil quando não há promoção.
func (r PromotionRef) Ptr() *int64 {
	if !r.valid {
		return nil
	}
	id := r.id
	return &id
}

// OrderInput é o payload de criação de pedidos.
// UserID só é considerado no cadastro feito por um administrador em nome de outro usuário.
type OrderInput struct {
	UserID      int64  `json:"user_id,omitempty" example:"1"`
	GameID      int64  `json:"game_id" example:"1"`
	PromotionID *int64 `json:"promotion_id,omitempty" example:"1"`
}

// Order é o registro de compra de um jogo por um usuário, com promoção opcional.
// Os três valores monetários só são preenchidos por PriceOrder.
type Order struct {
	Entity
	userID    int64
	gameID    int64
	promotion PromotionRef

	priced        bool
	orderValue    decimal.Decimal
	discountValue decimal.Decimal
	paidValue     decimal.Decimal

	// Navegação preenchida pelo cálculo, apenas para conveniência do chamador.
	user     *User
	game     *Game
	promoRef *Promotion
}

// NewOrder cria um pedido ainda não calculado, com data de criação no instante atual.
func NewOrder(userID, gameID int64, promotion PromotionRef) (*Order, error) {
	if userID <= 0 {
		return nil, apperror.NewValidationError("Usuário inválido.")
	}
	if gameID <= 0 {
		return nil, apperror.NewValidationError("Jogo inválido.")
	}
	return &Order{
		Entity:    newEntity(),
		userID:    userID,
		gameID:    gameID,
		promotion: promotion,
	}, nil
}

// RestoreOrder reconstrói um pedido já calculado e persistido.
// Uso exclusivo da camada de repositório.
func RestoreOrder(id int64, createdAt time.Time, userID, gameID int64, promotion PromotionRef, orderValue, discountValue, paidValue decimal.Decimal) *Order {
	return &Order{
		Entity:        Entity{ID: id, CreatedAt: createdAt},
		userID:        userID,
		gameID:        gameID,
		promotion:     promotion,
		priced:        true,
		orderValue:    orderValue,
		discountValue: discountValue,
		paidValue:     paidValue,
	}
}

func (o *Order) UserID() int64 { return o.userID }
func (o *Order) GameID() int64 { return o.gameID }
func (o *Order) Promotion() PromotionRef { return o.promotion }
func (o *Order) IsPriced() bool { return o.priced }
func (o *Order) OrderValue() decimal.Decimal { return o.orderValue }
func (o *Order) DiscountValue() decimal.Decimal { return o.discountValue }
func (o *Order) PaidValue() decimal.Decimal { return o.paidValue }

// User, Game e PromotionEntity devolvem as entidades associadas no último cálculo (podem ser nil).
func (o *Order) User() *User { return o.user }
func (o *Order) Game() *Game { return o.game }
func (o *Order) PromotionEntity() *Promotion { return o.promoRef }

// Reassign troca as referências do pedido e descarta os valores calculados.
// O pedido precisa ser calculado de novo com PriceOrder antes de ser gravado.
func (o *Order) Reassign(userID, gameID int64, promotion PromotionRef) error {
	if userID <= 0 {
		return apperror.NewValidationError("Usuário inválido.")
	}
	if gameID <= 0 {
		return apperror.NewValidationError("Jogo inválido.")
	}
	o.userID = userID
	o.gameID = gameID
	o.promotion = promotion
	o.priced = false
	o.orderValue = decimal.Decimal{}
	o.discountValue = decimal.Decimal{}
	o.paidValue = decimal.Decimal{}
	o.user, o.game, o.promoRef = nil, nil, nil
	return nil
}

// PriceFunc calcula um pedido com o jogo e a promoção lidos no momento da gravação.
// promo é nil quando o pedido não referencia promoção.
type PriceFunc func(game *Game, promo *Promotion) error

// PriceOrder valida as entidades resolvidas contra as referências gravadas no pedido
// e calcula o valor do pedido, o desconto e o valor pago.
//
// A validade da promoção é conferida contra a data de criação do pedido, não contra o
// instante do cálculo. O desconto é arredondado para centavos (meio para cima).
// Em caso de erro o pedido não é alterado. Um pedido já calculado aceita um novo
// cálculo apenas se os valores resultantes forem os mesmos.
func (o *Order) PriceOrder(user *User, game *Game, promotion *Promotion) error {
	// 1. Usuário
	if user == nil || user.ID != o.userID {
		return apperror.NewInvalidReferenceError("Usuário inválido ou não corresponde ao ID informado.")
	}

	// 2. Jogo
	if game == nil || game.ID != o.gameID {
		return apperror.NewInvalidReferenceError("Jogo inválido ou não corresponde ao ID informado.")
	}
	if !game.BasePrice.IsPositive() {
		return apperror.NewInvalidGameStateError("Preço do jogo deve ser maior que zero.")
	}

	// 3. Promoção
	promoID, hasPromo := o.promotion.Get()
	switch {
	case hasPromo && promotion == nil:
		return apperror.NewInvalidReferenceError("Promoção informada no pedido não foi encontrada.")
	case !hasPromo && promotion != nil:
		return apperror.NewInvalidReferenceError("Pedido não possui promoção, mas uma promoção foi informada.")
	case hasPromo:
		if promotion.ID != promoID {
			return apperror.NewInvalidReferenceError("Promoção inválida ou não corresponde ao ID informado.")
		}
		if promotion.ValidUntil().Before(o.CreatedAt) {
			return apperror.NewExpiredPromotionError(fmt.Sprintf(
				"Promoção expirada para a data do pedido. Data do pedido: %s, validade da promoção: %s.",
				o.CreatedAt.Format(DateTimeLayout), promotion.ValidUntil().Format(DateTimeLayout)))
		}
		if promotion.Discount() < MinDiscount || promotion.Discount() > MaxDiscount {
			return apperror.NewInvalidDiscountError("Desconto da promoção deve estar entre 10% e 90%.")
		}
	}

	// 4. Valores
	orderValue := game.BasePrice
	discountValue := decimal.Zero
	if hasPromo {
		pct := decimal.NewFromInt(int64(promotion.Discount()))
		discountValue = orderValue.Mul(pct).Div(hundred).Round(2)
	}
	paidValue := orderValue.Sub(discountValue)
	if paidValue.IsNegative() {
		return apperror.NewNegativePaymentError("Valor pago não pode ser negativo.")
	}

	if o.priced && !(o.orderValue.Equal(orderValue) && o.discountValue.Equal(discountValue) && o.paidValue.Equal(paidValue)) {
		return apperror.NewConflictError("Valores de um pedido já calculado não podem ser alterados.")
	}

	o.priced = true
	o.orderValue = orderValue
	o.discountValue = discountValue
	o.paidValue = paidValue
	o.user, o.game, o.promoRef = user, game, promotion
	return nil
}

type orderJSON struct {
	ID            int64     `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UserID        int64     `json:"user_id"`
	GameID        int64     `json:"game_id"`
	PromotionID   *int64    `json:"promotion_id"`
	OrderValue    *string   `json:"order_value"`
	DiscountValue *string   `json:"discount_value"`
	PaidValue     *string   `json:"paid_value"`
}

// MarshalJSON expõe o pedido na API. Valores monetários saem como string decimal
// e ficam nulos enquanto o pedido não foi calculado.
func (o *Order) MarshalJSON() ([]byte, error) {
	out := orderJSON{
		ID:          o.ID,
		CreatedAt:   o.CreatedAt,
		UserID:      o.userID,
		GameID:      o.gameID,
		PromotionID: o.promotion.Ptr(),
	}
	if o.priced {
		ov, dv, pv := o.orderValue.StringFixed(2), o.discountValue.StringFixed(2), o.paidValue.StringFixed(2)
		out.OrderValue, out.DiscountValue, out.PaidValue = &ov, &dv, &pv
	}
	return json.Marshal(out)
}

// OrderView é a linha da visão de pedidos, com os nomes das entidades relacionadas.
type OrderView struct {
	OrderID       int64           `json:"order_id"`
	CreatedAt     time.Time       `json:"created_at"`
	UserID        int64           `json:"user_id"`
	UserName      string          `json:"user_name"`
	UserEmail     string          `json:"user_email"`
	GameID        int64           `json:"game_id"`
	GameName      string          `json:"game_name"`
	PromotionID   *int64          `json:"promotion_id"`
	PromotionName *string         `json:"promotion_name"`
	Discount      *int            `json:"discount"`
	OrderValue    decimal.Decimal `json:"order_value" swaggertype:"string"`
	DiscountValue decimal.Decimal `json:"discount_value" swaggertype:"string"`
	PaidValue     decimal.Decimal `json:"paid_value" swaggertype:"string"`
}
