package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/aicrm/internal/domain"
)

// Dates and times are stored as DATE/TIME and rendered back in the wire format.
const interactionColumns = `id, created_at, hcp_name, interaction_type,
	to_char(interaction_date, 'YYYY-MM-DD'), to_char(interaction_time, 'HH24:MI'),
	attendees, topics_discussed, materials_shared, observed_sentiment, outcomes, follow_up_actions`

type InteractionRepo struct {
	pool *pgxpool.Pool
}

func NewInteractionRepo(pool *pgxpool.Pool) *InteractionRepo {
	return &InteractionRepo{pool: pool}
}

func (r *InteractionRepo) Create(ctx context.Context, f *domain.InteractionFields) (*domain.Interaction, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO interactions (hcp_name, interaction_type, interaction_date, interaction_time,
		        attendees, topics_discussed, materials_shared, observed_sentiment, outcomes, follow_up_actions)
		 VALUES ($1, $2, CAST($3::text AS DATE), CAST($4::text AS TIME), $5, $6, $7, $8, $9, $10)
		 RETURNING `+interactionColumns,
		f.HCPName, f.InteractionType, f.InteractionDate, f.InteractionTime,
		f.Attendees, f.TopicsDiscussed, f.MaterialsShared, f.ObservedSentiment, f.Outcomes, f.FollowUpActions,
	)

	it, err := scanInteraction(row)
	if err != nil {
		return nil, fmt.Errorf("interactionRepo.Create: %w", err)
	}

	return it, nil
}

func (r *InteractionRepo) GetByID(ctx context.Context, id int64) (*domain.Interaction, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+interactionColumns+` FROM interactions WHERE id = $1`, id)

	it, err := scanInteraction(row)
	if errors.Is(err, pgx.ErrNoRows) {
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
		args = append(args, likePattern(filter.HCPName))
		query += fmt.Sprintf(` WHERE hcp_name ILIKE $%d ESCAPE '\'`, len(args))
	}
	query += ` ORDER BY id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
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
		args = append(args, patch[name])
		sets = append(sets, fmt.Sprintf("%s = %s", name, placeholder(name, len(args))))
	}
	args = append(args, id)

	row := r.pool.QueryRow(ctx,
		fmt.Sprintf(`UPDATE interactions SET %s WHERE id = $%d RETURNING %s`,
			strings.Join(sets, ", "), len(args), interactionColumns),
		args...,
	)

	it, err := scanInteraction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("interactionRepo.Update: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("interactionRepo.Update: %w", err)
	}

	return it, nil
}

func placeholder(field string, n int) string {
	switch field {
	case domain.FieldInteractionDate:
		return fmt.Sprintf("CAST($%d::text AS DATE)", n)
	case domain.FieldInteractionTime:
		return fmt.Sprintf("CAST($%d::text AS TIME)", n)
	default:
		return fmt.Sprintf("$%d", n)
	}
}

func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func scanInteraction(row pgx.Row) (*domain.Interaction, error) {
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
