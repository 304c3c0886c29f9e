package commons

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"go.yaml.in/yaml/v3"

	"tableside/internal/domain"
)

// Seed is the bootstrap data inserted on startup when absent.
type Seed struct {
	Users []SeedUser     `yaml:"users"`
	Menu  []SeedMenuItem `yaml:"menu"`
}

type SeedUser struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

type SeedMenuItem struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Price       string `yaml:"price"`
}

func (m SeedMenuItem) DecimalPrice() (decimal.Decimal, error) {
	price, err := decimal.NewFromString(m.Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("menu item %q: invalid price %q: %w", m.Name, m.Price, err)
	}
	if problem := domain.PriceProblem(price); problem != "" {
		return decimal.Zero, fmt.Errorf("menu item %q: %s", m.Name, problem)
	}
	return price, nil
}

func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}

	for _, m := range seed.Menu {
		if _, err := m.DecimalPrice(); err != nil {
			return nil, err
		}
	}

	return &seed, nil
}
