package billing

import (
	"github.com/agencyhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PlanCode identifies a subscription plan
type PlanCode string

const (
	PlanTrial   PlanCode = "trial"
	PlanStarter PlanCode = "starter"
	PlanGrowth  PlanCode = "growth"
	PlanScale   PlanCode = "scale"
)

// Plan describes a subscription tier: price, monthly token allowance,
// and resource limits. The catalog is static; Stripe price IDs are
// configured per environment.
type Plan struct {
	Code          PlanCode        `json:"code"`
	Name          string          `json:"name"`
	MonthlyPrice  decimal.Decimal `json:"monthly_price"`
	MonthlyTokens int64           `json:"monthly_tokens"`
	MaxClients    int             `json:"max_clients"`
	MaxUsers      int             `json:"max_users"`
}

var planCatalog = map[PlanCode]Plan{
	PlanTrial: {
		Code:          PlanTrial,
		Name:          "Trial",
		MonthlyPrice:  decimal.Zero,
		MonthlyTokens: 10000,
		MaxClients:    2,
		MaxUsers:      3,
	},
	PlanStarter: {
		Code:          PlanStarter,
		Name:          "Starter",
		MonthlyPrice:  decimal.NewFromInt(49),
		MonthlyTokens: 100000,
		MaxClients:    5,
		MaxUsers:      5,
	},
	PlanGrowth: {
		Code:          PlanGrowth,
		Name:          "Growth",
		MonthlyPrice:  decimal.NewFromInt(149),
		MonthlyTokens: 500000,
		MaxClients:    20,
		MaxUsers:      15,
	},
	PlanScale: {
		Code:          PlanScale,
		Name:          "Scale",
		MonthlyPrice:  decimal.NewFromInt(399),
		MonthlyTokens: 2000000,
		MaxClients:    100,
		MaxUsers:      50,
	},
}

// PlanByCode returns the plan for a code
func PlanByCode(code PlanCode) (Plan, error) {
	plan, ok := planCatalog[code]
	if !ok {
		return Plan{}, shared.NewDomainError("INVALID_PLAN", "Unknown plan: "+string(code))
	}
	return plan, nil
}

// AllPlans returns the full plan catalog in ascending price order
func AllPlans() []Plan {
	return []Plan{
		planCatalog[PlanTrial],
		planCatalog[PlanStarter],
		planCatalog[PlanGrowth],
		planCatalog[PlanScale],
	}
}

// ValidatePlanCode validates a plan code
func ValidatePlanCode(code PlanCode) error {
	_, err := PlanByCode(code)
	return err
}
