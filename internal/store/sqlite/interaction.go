package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gosuda/aicrm/internal/domain"
)

const interactionColumns = `id, created_at, hcp_name, interaction_type, interaction_date, interaction_time,
	attendees, topics_discussed, materials_shared, observed_sentiment, outcomes, follow_up_actions`

type InteractionRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewInteractionRepo(db *sql.DB) *InteractionRepo {
	return &InteractionRepo{db: db, now: time.Now}
}

func (r *InteractionRepo) Create(ctx context.Context, f *domain.InteractionFields) (*domain.Interaction, error) {
	createdAt := r.now().UTC().Truncate(time.Microsecond)

	row := r.db.QueryRowContext(ctx,
		`INSERT INTO interactions (created_at, hcp_name, interaction_type, interaction_date, interaction_time,
		        attendees, topics_discussed, materials_shared, observed_sentiment, outcomes, follow_up_actions)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+interactionColumns,
		createdAt, f.HCPName, f.InteractionType, f.InteractionDate, f.InteractionTime,
		f.Attendees, f.TopicsDiscussed, f.MaterialsShared, f.ObservedSentiment, f.Outcomes, f.FollowUpActions,
	)

	it, err := scanInteraction(row)
	if err != nil {
		return nil, fmt.Errorf("interactionRepo.Create: %w", err)
	}

	return it, nil
}

func (r *InteractionRepo) GetByID(ctx context.Context, id int64) (*domain.Interaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+interactionColumns+` FROM interactions WHERE id = ?`, id)

	it, err := scanInteraction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("interactionRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("interactionRepo.GetByID: %w", err)
	}

	return it, nil
}

func (r *InteractionRepo) List(ctx context.Context, filter domain.InteractionFilter) ([]*domain.Interaction, error) {
	query := `SELECT ` + interactionColumns + ` FROM interactions`
	var args []any

	if filter.HCPName != "" {
		query += ` WHERE ` + foldFunc + `(hcp_name) LIKE ` + foldFunc + `(?) ESCAPE '\'`
		args = append(args, likePattern(filter.HCPName))
	}
	query += ` ORDER BY id DESC`
	switch {
	case filter.Limit > 0:
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	case filter.Offset > 0:
		query += ` LIMIT -1 OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("interactionRepo.List: %w", err)
	}
	defer rows.Close()

	var out []*domain.Interaction
	for rows.Next() {
		it, err := scanInteraction(rows)
		if err != nil {
			return nil, fmt.Errorf("interactionRepo.List: scan: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("interactionRepo.List: rows: %w", err)
	}

	return out, nil
}

func (r *InteractionRepo) Update(ctx context.Context, id int64, patch domain.InteractionPatch) (*domain.Interaction, error) {
	if len(patch) == 0 {
		return r.GetByID(ctx, id)
	}

	sets := make([]string, 0, len(patch))
	args := make([]any, 0, len(patch)+1)
	for _, name := range patch.Keys() {
		if !domain.IsField(name) {
			return nil, fmt.Errorf("interactionRepo.Update: field %q: %w", name, domain.ErrInvalidFormat)
		}
		sets = append(sets, name+" = ?")
		args = append(args, patch[name])
	}
	args = append(args, id)

	row := r.db.QueryRowContext(ctx,
		`UPDATE interactions SET `+strings.Join(sets, ", ")+` WHERE id = ? RETURNING `+interactionColumns,
		args...,
	)

	it, err := scanInteraction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("interactionRepo.Update: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("interactionRepo.Update: %w", err)
	}

	return it, nil
}

func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInteraction(row scanner) (*domain.Interaction, error) {
	var it domain.Interaction
	err := row.Scan(
		&it.ID, &it.CreatedAt, &it.HCPName, &it.InteractionType,
		&it.InteractionDate, &it.InteractionTime,
		&it.Attendees, &it.TopicsDiscussed, &it.MaterialsShared,
		&it.ObservedSentiment, &it.Outcomes, &it.FollowUpActions,
	)
	if err != nil {
		return nil, err
	}
	it.CreatedAt = it.CreatedAt.UTC()
	return &it, nil
}
