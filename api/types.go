package api

import (
	"time"

	"bolao/models"

	"github.com/shopspring/decimal"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Whatsapp string `json:"whatsapp"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type userResponse struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Email               string          `json:"email"`
	Whatsapp            string          `json:"whatsapp"`
	Role                models.UserRole `json:"role"`
	Balance             decimal.Decimal `json:"balance"`
	WithdrawableBalance decimal.Decimal `json:"withdrawableBalance"`
	CreatedAt           time.Time       `json:"createdAt"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:                  u.ID,
		Name:                u.Name,
		Email:               u.Email,
		Whatsapp:            u.Whatsapp,
		Role:                u.Role,
		Balance:             u.Balance,
		WithdrawableBalance: u.WithdrawableBalance,
		CreatedAt:           u.CreatedAt,
	}
}

func toUserResponses(users []*models.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

type createPoolRequest struct {
	Name          string          `json:"name"`
	Modality      string          `json:"modality"`
	DateTime      time.Time       `json:"dateTime"`
	EventDateTime time.Time       `json:"eventDateTime"`
	BetAmount     decimal.Decimal `json:"betAmount"`
	Options       []string        `json:"options"`
}

type poolResponse struct {
	ID            string            `json:"id"`
	CreatorID     string            `json:"creatorId"`
	Name          string            `json:"name"`
	Modality      string            `json:"modality"`
	DateTime      time.Time         `json:"dateTime"`
	EventDateTime time.Time         `json:"eventDateTime"`
	BetAmount     decimal.Decimal   `json:"betAmount"`
	Options       []string          `json:"options"`
	Status        models.PoolStatus `json:"status"`
	WinnerOption  *string           `json:"winnerOption,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
}

func toPoolResponse(p *models.Pool) poolResponse {
	return poolResponse{
		ID:            p.ID,
		CreatorID:     p.CreatorID,
		Name:          p.Name,
		Modality:      p.Modality,
		DateTime:      p.DateTime,
		EventDateTime: p.EventDateTime,
		BetAmount:     p.BetAmount,
		Options:       p.Options,
		Status:        p.Status,
		WinnerOption:  p.WinnerOption,
		CreatedAt:     p.CreatedAt,
	}
}

type placeBetRequest struct {
	Option string `json:"option"`
}

type betResponse struct {
	ID             string          `json:"id"`
	PoolID         string          `json:"poolId"`
	UserID         string          `json:"userId"`
	OptionSelected string          `json:"optionSelected"`
	Amount         decimal.Decimal `json:"amount"`
	CreatedAt      time.Time       `json:"createdAt"`
}

func toBetResponse(b *models.Bet) betResponse {
	return betResponse{
		ID:             b.ID,
		PoolID:         b.PoolID,
		UserID:         b.UserID,
		OptionSelected: b.OptionSelected,
		Amount:         b.Amount,
		CreatedAt:      b.CreatedAt,
	}
}

func toBetResponses(bets []*models.Bet) []betResponse {
	out := make([]betResponse, 0, len(bets))
	for _, b := range bets {
		out = append(out, toBetResponse(b))
	}
	return out
}

type settleRequest struct {
	WinnerOption string `json:"winnerOption"`
}

type settlementResponse struct {
	Pool            poolResponse    `json:"pool"`
	WinnerOption    string          `json:"winnerOption"`
	TotalCollected  decimal.Decimal `json:"totalCollected"`
	PrizePool       decimal.Decimal `json:"prizePool"`
	IndividualPrize decimal.Decimal `json:"individualPrize"`
	WinnerCount     int             `json:"winnerCount"`
	PrizePaid       decimal.Decimal `json:"prizePaid"`
}

type depositRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	ReceiptURL string          `json:"receiptUrl"`
}

type withdrawalRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type transactionResponse struct {
	ID          string                   `json:"id"`
	UserID      string                   `json:"userId"`
	Type        models.TransactionType   `json:"type"`
	Amount      decimal.Decimal          `json:"amount"`
	Status      models.TransactionStatus `json:"status"`
	ReceiptURL  *string                  `json:"receiptUrl,omitempty"`
	ReferenceID *string                  `json:"referenceId,omitempty"`
	Metadata    map[string]any           `json:"metadata,omitempty"`
	CreatedAt   time.Time                `json:"createdAt"`
}

func toTransactionResponse(t *models.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Type:        t.Type,
		Amount:      t.Amount,
		Status:      t.Status,
		ReceiptURL:  t.ReceiptURL,
		ReferenceID: t.ReferenceID,
		Metadata:    t.Metadata,
		CreatedAt:   t.CreatedAt,
	}
}

func toTransactionResponses(txs []*models.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionResponse(t))
	}
	return out
}

type updateUserRequest struct {
	Name     string          `json:"name"`
	Whatsapp string          `json:"whatsapp"`
	Role     models.UserRole `json:"role"`
}

type setBalancesRequest struct {
	Balance             decimal.Decimal `json:"balance"`
	WithdrawableBalance decimal.Decimal `json:"withdrawableBalance"`
}

type alertResponse struct {
	ID          string           `json:"id"`
	Type        models.AlertType `json:"type"`
	Message     string           `json:"message"`
	ReferenceID *string          `json:"referenceId,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
}

func toAlertResponses(alerts []*models.SystemAlert) []alertResponse {
	out := make([]alertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, alertResponse{
			ID:          a.ID,
			Type:        a.Type,
			Message:     a.Message,
			ReferenceID: a.ReferenceID,
			CreatedAt:   a.CreatedAt,
		})
	}
	return out
}

type appConfigRequest struct {
	PaymentKey string `json:"paymentKey"`
	QRCodeURL  string `json:"qrCodeUrl"`
}

type appConfigResponse struct {
	PaymentKey string `json:"paymentKey"`
	QRCodeURL  string `json:"qrCodeUrl"`
}

type assistantRequest struct {
	Message string `json:"message"`
}

type assistantResponse struct {
	Reply string `json:"reply"`
}
