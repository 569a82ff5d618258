package filter

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// ListConfig is one stored filter list group: its settings blob and the
// rules belonging to it. ListType is the raw stored value (0 deny, 1 allow).
type ListConfig struct {
	ID       int64
	Name     string
	ListType int
	Settings map[string]json.RawMessage
	Rules    []RuleConfig
}

// RuleConfig is one stored rule row. Content is the matching condition in
// the owning list's format (a regex for the token list, a CEL expression for
// the expression list).
type RuleConfig struct {
	ID          int64
	Content     string
	Description string
	Settings    map[string]json.RawMessage
	Extra       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Repository interface {
	GetListConfigs(ctx context.Context) ([]ListConfig, error)
}

type PostgresRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetListConfigs(ctx context.Context) ([]ListConfig, error) {
	query := `
		SELECT id, name, list_type, settings
		FROM filter_lists
		ORDER BY name ASC, list_type ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query filter lists: %w", err)
	}
	defer rows.Close()

	var configs []ListConfig
	for rows.Next() {
		var cfg ListConfig
		var rawSettings []byte
		if err := rows.Scan(
			&cfg.ID,
			&cfg.Name,
			&cfg.ListType,
			&rawSettings,
		); err != nil {
			return nil, fmt.Errorf("failed to scan filter list: %w", err)
		}
		if err := json.Unmarshal(rawSettings, &cfg.Settings); err != nil {
			return nil, fmt.Errorf("failed to decode settings for list %d: %w", cfg.ID, err)
		}
		configs = append(configs, cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	for i := range configs {
		rules, err := r.getRules(ctx, configs[i].ID)
		if err != nil {
			return nil, err
		}
		configs[i].Rules = rules
	}

	return configs, nil
}

func (r *PostgresRepository) getRules(ctx context.Context, listID int64) ([]RuleConfig, error) {
	query := `
		SELECT id, content, description, settings, additional_field, created_at, updated_at
		FROM filter_rules
		WHERE list_id = $1
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules for list %d: %w", listID, err)
	}
	defer rows.Close()

	var rules []RuleConfig
	for rows.Next() {
		var rule RuleConfig
		var rawSettings []byte
		var description, extra sql.NullString
		if err := rows.Scan(
			&rule.ID,
			&rule.Content,
			&description,
			&rawSettings,
			&extra,
			&rule.CreatedAt,
			&rule.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rule.Description = description.String
		rule.Extra = extra.String
		if len(rawSettings) > 0 {
			if err := json.Unmarshal(rawSettings, &rule.Settings); err != nil {
				return nil, fmt.Errorf("failed to decode settings for rule %d: %w", rule.ID, err)
			}
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return rules, nil
}
