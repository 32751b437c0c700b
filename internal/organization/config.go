// Package organization holds the per-organization configuration consulted
// by the form builder and binder: which optional expense fields are enabled
// and the lookup tables resolving category and currency ids to display
// names. The configuration is an explicit object passed in at construction
// time; it is populated once at startup and only read afterwards.
package organization

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Optional expense field keys an organization may enable. Absence of a key
// is equivalent to disabled.
const (
	FieldPaymentMode = "paymentMode"
	FieldMerchant    = "merchantName"
	FieldReference   = "referenceNumber"
	FieldLocation    = "location"
	FieldDescription = "description"
	FieldIsBillable  = "isBillable"
	FieldCustomer    = "customer"
	FieldProject     = "project"
)

// FieldTemplate describes one organization-supplied optional form field.
type FieldTemplate struct {
	Name      string `yaml:"name" json:"name"`
	Type      string `yaml:"type" json:"type"`
	Mandatory bool   `yaml:"mandatory" json:"isMandatory"`
	Enabled   bool   `yaml:"enabled" json:"isEnabled"`
}

// Category is one expense category an organization defines.
type Category struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// Currency is one currency an organization transacts in.
type Currency struct {
	ID   string `yaml:"id" json:"id"`
	Code string `yaml:"code" json:"code"`
}

// Config is the read-mostly organization configuration.
type Config struct {
	OrganizationID string                   `yaml:"organization_id"`
	BaseCurrencyID string                   `yaml:"base_currency_id"`
	ExpenseFields  map[string]FieldTemplate `yaml:"expense_fields"`
	Categories     []Category               `yaml:"categories"`
	Currencies     []Currency               `yaml:"currencies"`

	categoriesByID map[string]Category
	currenciesByID map[string]Currency
}

// Load reads an organization configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("organization: reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("organization: parsing %s: %w", path, err)
	}

	cfg.buildIndexes()
	return &cfg, nil
}

// New builds a Config from already-decoded parts, indexing the lookup
// tables. Used when the configuration arrives from the backend rather than
// a file.
func New(orgID, baseCurrencyID string, fields map[string]FieldTemplate, categories []Category, currencies []Currency) *Config {
	cfg := &Config{
		OrganizationID: orgID,
		BaseCurrencyID: baseCurrencyID,
		ExpenseFields:  fields,
		Categories:     categories,
		Currencies:     currencies,
	}
	cfg.buildIndexes()
	return cfg
}

func (c *Config) buildIndexes() {
	c.categoriesByID = make(map[string]Category, len(c.Categories))
	for _, cat := range c.Categories {
		c.categoriesByID[cat.ID] = cat
	}
	c.currenciesByID = make(map[string]Currency, len(c.Currencies))
	for _, cur := range c.Currencies {
		c.currenciesByID[cur.ID] = cur
	}
}

// Field returns the template for an optional expense field key. The second
// return is false when the organization does not expose the key.
func (c *Config) Field(key string) (FieldTemplate, bool) {
	t, ok := c.ExpenseFields[key]
	return t, ok
}

// FieldEnabled reports whether the organization exposes the key and has it
// enabled.
func (c *Config) FieldEnabled(key string) bool {
	t, ok := c.ExpenseFields[key]
	return ok && t.Enabled
}

// CategoryName resolves a category id to its display name. A missing id
// yields an empty string rather than an error.
func (c *Config) CategoryName(id string) string {
	return c.categoriesByID[id].Name
}

// CurrencyCode resolves a currency id to its display code. A missing id
// yields an empty string rather than an error.
func (c *Config) CurrencyCode(id string) string {
	return c.currenciesByID[id].Code
}
