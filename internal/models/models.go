package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dsparrowm/blockfundz-sub001/pkg/types/prices"
)

// Transaction types. Credit types are derived per asset via TypeCredit.
const (
	TypeWithdrawal = "WITHDRAWAL"
	TypeDeposit    = "DEPOSIT"
	TypeAdminReset = "ADMIN_RESET"
	TypeAdjustment = "ADJUSTMENT"
)

// TypeCredit returns the credit transaction type for an asset,
// e.g. CREDIT_BITCOIN.
func TypeCredit(asset string) string {
	return "CREDIT_" + asset
}

// Transaction statuses.
const (
	StatusPending    = "PENDING"
	StatusCompleted  = "COMPLETED"
	StatusSuperseded = "SUPERSEDED"
)

// Withdrawal request statuses. APPROVED and REJECTED are terminal.
const (
	WithdrawalPending  = "PENDING"
	WithdrawalApproved = "APPROVED"
	WithdrawalRejected = "REJECTED"
)

// Subscription statuses.
const (
	SubscriptionActive   = "ACTIVE"
	SubscriptionInactive = "INACTIVE"
)

// Balance field selectors accepted by the adjust operation.
const (
	BalanceMain = "MAIN"
)

type User struct {
	ID                   uint            `json:"id"                     gorm:"primaryKey"`
	Name                 string          `json:"name"`
	Email                string          `json:"email"                  gorm:"uniqueIndex"`
	Phone                string          `json:"phone"`
	MainBalance          decimal.Decimal `json:"main_balance"           gorm:"type:decimal(32,8)"`
	BitcoinBalance       decimal.Decimal `json:"bitcoin_balance"        gorm:"type:decimal(32,8)"`
	EthereumBalance      decimal.Decimal `json:"ethereum_balance"       gorm:"type:decimal(32,8)"`
	UsdtBalance          decimal.Decimal `json:"usdt_balance"           gorm:"type:decimal(32,8)"`
	UsdcBalance          decimal.Decimal `json:"usdc_balance"           gorm:"type:decimal(32,8)"`
	UseCalculatedBalance bool            `json:"use_calculated_balance"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// AssetBalance returns the balance field for a supported asset code.
func (u *User) AssetBalance(asset string) (decimal.Decimal, bool) {
	switch asset {
	case prices.AssetBitcoin:
		return u.BitcoinBalance, true
	case prices.AssetEthereum:
		return u.EthereumBalance, true
	case prices.AssetUsdt:
		return u.UsdtBalance, true
	case prices.AssetUsdc:
		return u.UsdcBalance, true
	default:
		return decimal.Zero, false
	}
}

func (u *User) SetAssetBalance(asset string, value decimal.Decimal) bool {
	switch asset {
	case prices.AssetBitcoin:
		u.BitcoinBalance = value
	case prices.AssetEthereum:
		u.EthereumBalance = value
	case prices.AssetUsdt:
		u.UsdtBalance = value
	case prices.AssetUsdc:
		u.UsdcBalance = value
	default:
		return false
	}
	return true
}

// Holdings returns all asset balances keyed by asset code.
func (u *User) Holdings() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		prices.AssetBitcoin:  u.BitcoinBalance,
		prices.AssetEthereum: u.EthereumBalance,
		prices.AssetUsdt:     u.UsdtBalance,
		prices.AssetUsdc:     u.UsdcBalance,
	}
}

// Transaction is the immutable audit record written for every balance
// mutation. Records are never updated after the fact; a balance reset marks
// prior records SUPERSEDED rather than deleting them.
type Transaction struct {
	ID            uint             `json:"id"              gorm:"primaryKey"`
	Reference     string           `json:"reference"       gorm:"uniqueIndex;size:36"`
	Type          string           `json:"type"            gorm:"index"`
	Asset         string           `json:"asset"           gorm:"index"`
	Amount        decimal.Decimal  `json:"amount"          gorm:"type:decimal(32,8)"`
	UsdEquivalent *decimal.Decimal `json:"usd_equivalent,omitempty" gorm:"type:decimal(32,8)"`
	ExchangeRate  *decimal.Decimal `json:"exchange_rate,omitempty"  gorm:"type:decimal(32,8)"`
	Status        string           `json:"status"          gorm:"index"`
	UserID        uint             `json:"user_id"         gorm:"index"`
	Name          string           `json:"name"`
	Phone         string           `json:"phone"`
	Details       string           `json:"details"`
	PlanID        *uint            `json:"plan_id,omitempty"`
	Date          time.Time        `json:"date"            gorm:"index"`
	CreatedAt     time.Time        `json:"created_at"`
}

type Plan struct {
	ID           uint            `json:"id"            gorm:"primaryKey"`
	Name         string          `json:"name"`
	InterestRate decimal.Decimal `json:"interest_rate" gorm:"type:decimal(16,8)"` // annual %
	MinAmount    decimal.Decimal `json:"min_amount"    gorm:"type:decimal(32,8)"`
	MaxAmount    decimal.Decimal `json:"max_amount"    gorm:"type:decimal(32,8)"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type Subscription struct {
	ID                      uint            `json:"id"      gorm:"primaryKey"`
	UserID                  uint            `json:"user_id" gorm:"index"`
	PlanID                  uint            `json:"plan_id" gorm:"index"`
	Plan                    Plan            `json:"plan"`
	Amount                  decimal.Decimal `json:"amount"  gorm:"type:decimal(32,8)"`
	Status                  string          `json:"status"  gorm:"index"`
	LastInterestCalculation time.Time       `json:"last_interest_calculation"`
	CreatedAt               time.Time       `json:"created_at"`
	UpdatedAt               time.Time       `json:"updated_at"`
}

type WithdrawalRequest struct {
	ID        uint            `json:"id"      gorm:"primaryKey"`
	UserID    uint            `json:"user_id" gorm:"index"`
	Asset     string          `json:"asset"`
	Amount    decimal.Decimal `json:"amount"  gorm:"type:decimal(32,8)"`
	Address   string          `json:"address"`
	Status    string          `json:"status"  gorm:"index"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CachedPrice is the persisted mirror of the in-process price cache, one
// row per supported asset.
type CachedPrice struct {
	ID        uint      `json:"id"         gorm:"primaryKey"`
	Symbol    string    `json:"symbol"     gorm:"uniqueIndex"`
	Price     float64   `json:"price"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IdempotencyKey records a completed mutation so that retries with the same
// key replay the recorded result instead of applying twice.
type IdempotencyKey struct {
	ID        uint      `json:"id"        gorm:"primaryKey"`
	Key       string    `json:"key"       gorm:"uniqueIndex;size:64"`
	Reference string    `json:"reference" gorm:"size:36"`
	UserID    uint      `json:"user_id"   gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

func (Transaction) TableName() string {
	return "transactions"
}

func (Plan) TableName() string {
	return "plans"
}

func (Subscription) TableName() string {
	return "subscriptions"
}

func (WithdrawalRequest) TableName() string {
	return "withdrawal_requests"
}

func (CachedPrice) TableName() string {
	return "cached_prices"
}

func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}
