package domain

import (
	"fmt"
	"math"
)

// BalanceKind вид баланса, против которого выполняется проверка
type BalanceKind string

const (
	BalanceWallet   BalanceKind = "wallet"
	BalanceCredit   BalanceKind = "credit"
	BalanceDeposit  BalanceKind = "deposit"
	BalanceBusiness BalanceKind = "business_balance"
)

// IsValid returns true for a known balance kind
func (k BalanceKind) IsValid() bool {
	switch k {
	case BalanceWallet, BalanceCredit, BalanceDeposit, BalanceBusiness:
		return true
	default:
		return false
	}
}

// RemediationType тип варианта устранения нехватки средств
type RemediationType string

const (
	RemediationTopUp           RemediationType = "top_up"
	RemediationDirectPayment   RemediationType = "direct_payment"
	RemediationPurchaseCredits RemediationType = "purchase_credits"
	RemediationInstallment     RemediationType = "installment_plan"
)

// InstallmentPlan план рассрочки
type InstallmentPlan struct {
	Months         int     `json:"months"`
	MonthlyPayment float64 `json:"monthlyPayment"`
}

// RemediationOption вариант устранения нехватки средств
// Заполнены только поля, относящиеся к конкретному типу
type RemediationOption struct {
	Type             RemediationType   `json:"type"`
	MinAmount        float64           `json:"minAmount,omitempty"`
	SuggestedAmounts []float64         `json:"suggestedAmounts,omitempty"`
	Amount           float64           `json:"amount,omitempty"`
	MinCredits       int               `json:"minCredits,omitempty"`
	CreditTiers      []int             `json:"creditTiers,omitempty"`
	Plans            []InstallmentPlan `json:"plans,omitempty"`
	DownPayment      float64           `json:"downPayment,omitempty"`
}

// BalanceShortage структурированный результат нехватки средств
// Возвращается как error, вызывающая сторона разбирает его через errors.As
type BalanceShortage struct {
	Required  float64             `json:"required"`
	Available float64             `json:"available"`
	Shortage  float64             `json:"shortage"`
	Kind      BalanceKind         `json:"kind"`
	Options   []RemediationOption `json:"options"`
}

// Error реализует интерфейс error
func (s *BalanceShortage) Error() string {
	return fmt.Sprintf("insufficient %s balance: required %.2f, available %.2f, short %.2f",
		s.Kind, s.Required, s.Available, s.Shortage)
}

// EvaluateBalance проверяет достаточность средств
// Возвращает nil, если средств достаточно, иначе BalanceShortage с вариантами пополнения
// Единственное место, где определена арифметика shortage и генерация вариантов
func EvaluateBalance(required, available float64, kind BalanceKind) *BalanceShortage {
	shortage := required - available
	if shortage <= 0 {
		return nil
	}

	return &BalanceShortage{
		Required:  required,
		Available: available,
		Shortage:  shortage,
		Kind:      kind,
		Options:   buildRemediationOptions(required, shortage, kind),
	}
}

func buildRemediationOptions(required, shortage float64, kind BalanceKind) []RemediationOption {
	options := make([]RemediationOption, 0, 3)

	switch kind {
	case BalanceCredit:
		options = append(options, RemediationOption{
			Type:        RemediationPurchaseCredits,
			MinCredits:  int(math.Ceil(shortage)),
			CreditTiers: append([]int(nil), CreditTiers...),
		})
	default:
		// wallet / deposit / business_balance: пополнение + прямая оплата
		options = append(options,
			RemediationOption{
				Type:             RemediationTopUp,
				MinAmount:        shortage,
				SuggestedAmounts: topUpSuggestions(shortage),
			},
			RemediationOption{
				Type:   RemediationDirectPayment,
				Amount: required,
			},
		)
	}

	if required > InstallmentThreshold {
		options = append(options, installmentOption(required))
	}

	return options
}

// topUpSuggestions округляет нехватку вверх до ближайших 10, 50 и 100
func topUpSuggestions(shortage float64) []float64 {
	return []float64{
		roundUpTo(shortage, 10),
		roundUpTo(shortage, 50),
		roundUpTo(shortage, 100),
	}
}

func roundUpTo(v, step float64) float64 {
	return math.Ceil(v/step) * step
}

func installmentOption(required float64) RemediationOption {
	plans := make([]InstallmentPlan, 0, len(InstallmentMonths))
	for _, months := range InstallmentMonths {
		plans = append(plans, InstallmentPlan{
			Months:         months,
			MonthlyPayment: round2(required / float64(months)),
		})
	}

	return RemediationOption{
		Type:        RemediationInstallment,
		Plans:       plans,
		DownPayment: round2(required * DownPaymentRate),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
