package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/neexbeast/roadtrip-planner/internal/trip"
)

// Querier abstracts the subset of pgxpool.Pool used by PlanRepository.
// This allows injection of a mock in tests.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PlanRepository stores trip plans as JSONB documents in Postgres.
type PlanRepository struct {
	q Querier
}

// NewPlanRepository constructs a PlanRepository backed by the given pool.
func NewPlanRepository(pool *pgxpool.Pool) *PlanRepository {
	return &PlanRepository{q: pool}
}

// NewPlanRepositoryWithQuerier constructs a PlanRepository with a custom Querier (for tests).
func NewPlanRepositoryWithQuerier(q Querier) *PlanRepository {
	return &PlanRepository{q: q}
}

// Save inserts the plan, or replaces the stored document when the id exists.
func (r *PlanRepository) Save(ctx context.Context, plan *trip.Plan) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("marshaling trip plan %s: %w", plan.ID, err)
	}

	const q = `
		INSERT INTO trip_plans (id, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET data       = EXCLUDED.data,
		    updated_at = EXCLUDED.updated_at
	`

	if _, err := r.q.Exec(ctx, q, plan.ID, data, plan.CreatedAt, plan.UpdatedAt); err != nil {
		return fmt.Errorf("upserting trip plan %s: %w", plan.ID, err)
	}

	return nil
}

// Get retrieves a plan by id. Returns nil, nil when the id is not found.
func (r *PlanRepository) Get(ctx context.Context, id string) (*trip.Plan, error) {
	const q = `SELECT data FROM trip_plans WHERE id = $1`

	var data []byte
	if err := r.q.QueryRow(ctx, q, id).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying trip plan %s: %w", id, err)
	}

	var plan trip.Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("unmarshaling trip plan %s: %w", id, err)
	}
	return &plan, nil
}

// List returns every plan, newest first.
func (r *PlanRepository) List(ctx context.Context) ([]*trip.Plan, error) {
	const q = `SELECT data FROM trip_plans ORDER BY created_at DESC`
	return r.queryPlans(ctx, q)
}

// ListByCategory returns plans with at least one selected POI in category,
// newest first. Uses the JSONB @> containment operator.
func (r *PlanRepository) ListByCategory(ctx context.Context, category string) ([]*trip.Plan, error) {
	filter, err := json.Marshal(map[string]any{
		"pois": []map[string]any{{"category": category}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling JSONB filter: %w", err)
	}

	const q = `
		SELECT data
		FROM trip_plans
		WHERE data @> $1::jsonb
		ORDER BY created_at DESC
	`
	return r.queryPlans(ctx, q, string(filter))
}

// Delete removes a plan. Deleting an unknown id is not an error.
func (r *PlanRepository) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM trip_plans WHERE id = $1`
	if _, err := r.q.Exec(ctx, q, id); err != nil {
		return fmt.Errorf("deleting trip plan %s: %w", id, err)
	}
	return nil
}

func (r *PlanRepository) queryPlans(ctx context.Context, q string, args ...any) ([]*trip.Plan, error) {
	rows, err := r.q.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying trip plans: %w", err)
	}
	defer rows.Close()

	var results []*trip.Plan
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning trip plan row: %w", err)
		}

		var plan trip.Plan
		if err := json.Unmarshal(data, &plan); err != nil {
			return nil, fmt.Errorf("unmarshaling trip plan: %w", err)
		}
		results = append(results, &plan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trip plan rows: %w", err)
	}

	return results, nil
}
