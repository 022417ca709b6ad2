// internal/domain/shipping/entity.go
package shipping

import (
	"fmt"
	"strings"
)

// Method is how the order reaches the customer
type Method string

const (
	MethodDelivery Method = "DELIVERY"
	MethodPickup   Method = "PICKUP"
)

// MethodInfo describes a selectable shipping method
type MethodInfo struct {
	ID          Method `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Methods lists the shipping methods offered at checkout
func Methods() []MethodInfo {
	return []MethodInfo{
		{ID: MethodDelivery, Label: "Entrega", Description: "Taxa calculada conforme bairro."},
		{ID: MethodPickup, Label: "Retirar no ateliê", Description: "Sem taxa de entrega."},
	}
}

// ParseMethod validates a method identifier
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToUpper(strings.TrimSpace(s))); m {
	case MethodDelivery, MethodPickup:
		return m, nil
	default:
		return "", fmt.Errorf("unknown shipping method %q", s)
	}
}

// Rule is a delivery fee for one district of a city. A district named
// "Outros" (or "Others") applies to every other district of that city.
type Rule struct {
	City     string `yaml:"city" json:"city"`
	District string `yaml:"district" json:"district"`
	Fee      int64  `yaml:"fee" json:"fee"` // centavos
}
