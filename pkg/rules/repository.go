package rules

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrRuleNotFound = errors.New("rule not found")

// RuleModel is the persisted form of a rule definition. The condition
// tree, exceptions, and outcome are stored as JSONB so the catalog
// shape can evolve without migrations.
type RuleModel struct {
	ID         string         `gorm:"primaryKey"`
	Name       string         `gorm:"not null"`
	Severity   string         `gorm:"index"`
	Version    string
	Weight     float64
	Enabled    bool           `gorm:"index"`
	Definition datatypes.JSON `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (RuleModel) TableName() string {
	return "triage_rules"
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&RuleModel{})
}

func (r *Repository) Save(ctx context.Context, rule Rule) error {
	definition, err := json.Marshal(rule)
	if err != nil {
		return fmt.Errorf("failed to marshal rule '%s': %w", rule.ID, err)
	}
	model := RuleModel{
		ID:         rule.ID,
		Name:       rule.Name,
		Severity:   rule.Severity,
		Version:    rule.Version,
		Weight:     rule.Weight,
		Enabled:    rule.Enabled,
		Definition: datatypes.JSON(definition),
	}
	return r.db.WithContext(ctx).Save(&model).Error
}

func (r *Repository) Get(ctx context.Context, id string) (Rule, error) {
	var model RuleModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return Rule{}, ErrRuleNotFound
	}
	if result.Error != nil {
		return Rule{}, result.Error
	}
	var rule Rule
	if err := json.Unmarshal(model.Definition, &rule); err != nil {
		return Rule{}, fmt.Errorf("failed to unmarshal rule '%s': %w", model.ID, err)
	}
	return rule, nil
}

// LoadCatalog reads all enabled rules and assembles a catalog. The
// catalog version reflects the newest rule row so reloads are
// distinguishable in decision audit trails.
func (r *Repository) LoadCatalog(ctx context.Context) (Catalog, error) {
	var rows []RuleModel
	result := r.db.WithContext(ctx).Where("enabled = ?", true).Order("id asc").Find(&rows)
	if result.Error != nil {
		return Catalog{}, result.Error
	}
	if len(rows) == 0 {
		return Catalog{}, errors.New("no enabled rules in catalog table")
	}

	cat := Catalog{Rules: make([]Rule, 0, len(rows))}
	var newest time.Time
	for _, row := range rows {
		var rule Rule
		if err := json.Unmarshal(row.Definition, &rule); err != nil {
			return Catalog{}, fmt.Errorf("failed to unmarshal rule '%s': %w", row.ID, err)
		}
		cat.Rules = append(cat.Rules, rule)
		if row.UpdatedAt.After(newest) {
			newest = row.UpdatedAt
		}
	}
	cat.Version = "db-" + newest.UTC().Format("20060102T150405Z")

	if err := cat.Validate(); err != nil {
		return Catalog{}, err
	}
	return cat, nil
}
