// internal/domain/shipping/table.go
package shipping

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFee is charged for deliveries no rule covers
const DefaultFee int64 = 1500

var catchAllDistricts = []string{"Outros", "Others"}

type ruleKey struct {
	city     string
	district string
}

// Table resolves delivery fees. It is immutable once built and safe for concurrent use.
type Table struct {
	rules      []Rule
	index      map[ruleKey]int64
	catchAll   map[string]int64
	defaultFee int64
}

// NewTable builds a table from rules. Later rules for the same normalized
// city and district override earlier ones.
func NewTable(rules []Rule, defaultFee int64) *Table {
	t := &Table{
		rules:      make([]Rule, len(rules)),
		index:      make(map[ruleKey]int64, len(rules)),
		catchAll:   make(map[string]int64),
		defaultFee: defaultFee,
	}
	copy(t.rules, rules)

	sentinels := make(map[string]struct{}, len(catchAllDistricts))
	for _, d := range catchAllDistricts {
		sentinels[Normalize(d)] = struct{}{}
	}

	for _, r := range t.rules {
		city, district := Normalize(r.City), Normalize(r.District)
		if _, ok := sentinels[district]; ok {
			t.catchAll[city] = r.Fee
			continue
		}
		t.index[ruleKey{city: city, district: district}] = r.Fee
	}

	return t
}

// DefaultTable returns the atelier's delivery fees
func DefaultTable() *Table {
	return NewTable([]Rule{
		{City: "São Paulo", District: "Pinheiros", Fee: 900},
		{City: "São Paulo", District: "Vila Madalena", Fee: 1000},
		{City: "São Paulo", District: "Perdizes", Fee: 1100},
		{City: "São Paulo", District: "Outros", Fee: 1500},
	}, DefaultFee)
}

type tableFile struct {
	DefaultFee *int64 `yaml:"default_fee"`
	Rules      []Rule `yaml:"rules"`
}

// LoadTable reads a YAML rule file. An empty path yields DefaultTable.
func LoadTable(path string) (*Table, error) {
	if path == "" {
		return DefaultTable(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read shipping rules: %w", err)
	}

	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse shipping rules: %w", err)
	}

	defaultFee := DefaultFee
	if file.DefaultFee != nil {
		defaultFee = *file.DefaultFee
	}
	if defaultFee < 0 {
		return nil, fmt.Errorf("default_fee must not be negative")
	}

	for i, r := range file.Rules {
		if r.City == "" || r.District == "" {
			return nil, fmt.Errorf("rule %d: city and district are required", i)
		}
		if r.Fee < 0 {
			return nil, fmt.Errorf("rule %d: fee must not be negative", i)
		}
	}

	return NewTable(file.Rules, defaultFee), nil
}

// Resolve returns the delivery fee in centavos. Pickup is always free;
// otherwise the exact district wins, then the city's catch-all, then the default.
func (t *Table) Resolve(city, district string, method Method) int64 {
	if method == MethodPickup {
		return 0
	}

	c, d := Normalize(city), Normalize(district)
	if fee, ok := t.index[ruleKey{city: c, district: d}]; ok {
		return fee
	}
	if fee, ok := t.catchAll[c]; ok {
		return fee
	}
	return t.defaultFee
}

// Rules returns a copy of the configured rules
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// DefaultFee returns the fee for locations no rule covers
func (t *Table) DefaultFee() int64 {
	return t.defaultFee
}
