package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/jd-analyzer/internal/types"
)

// SaveAnalysis persists an analysis and returns the stored record
func (db *DB) SaveAnalysis(ctx context.Context, input *AnalysisCreateInput) (*AnalysisRecord, error) {
	if input.Analysis == nil {
		return nil, fmt.Errorf("analysis is required")
	}

	rolesJSON, err := json.Marshal(input.Analysis.Roles)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal roles: %w", err)
	}
	skillsJSON, err := json.Marshal(input.Analysis.SkillsData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal skills data: %w", err)
	}
	promptsJSON, err := json.Marshal(input.Analysis.SuggestedPrompts)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal suggested prompts: %w", err)
	}

	rec := &AnalysisRecord{
		Roles:            input.Analysis.Roles,
		SkillsData:       input.Analysis.SkillsData,
		RawResponse:      input.Analysis.RawResponse,
		Thresholds:       input.Analysis.Thresholds,
		SuggestedPrompts: input.Analysis.SuggestedPrompts,
		JobURL:           input.JobURL,
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO analyses (job_url, roles, skills_data, raw_response,
		                       selection_threshold, rejection_threshold, suggested_prompts)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		input.JobURL, rolesJSON, skillsJSON, input.Analysis.RawResponse,
		input.Analysis.Thresholds.Selection, input.Analysis.Thresholds.Rejection,
		promptsJSON,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}

	return rec, nil
}

// UpdateAnalysis replaces the stored taxonomy for an existing analysis,
// typically after a refinement pass
func (db *DB) UpdateAnalysis(ctx context.Context, id uuid.UUID, a *types.Analysis) (*AnalysisRecord, error) {
	rolesJSON, err := json.Marshal(a.Roles)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal roles: %w", err)
	}
	skillsJSON, err := json.Marshal(a.SkillsData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal skills data: %w", err)
	}
	promptsJSON, err := json.Marshal(a.SuggestedPrompts)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal suggested prompts: %w", err)
	}

	rec := &AnalysisRecord{
		ID:               id,
		Roles:            a.Roles,
		SkillsData:       a.SkillsData,
		RawResponse:      a.RawResponse,
		Thresholds:       a.Thresholds,
		SuggestedPrompts: a.SuggestedPrompts,
	}

	err = db.pool.QueryRow(ctx,
		`UPDATE analyses SET roles = $2, skills_data = $3, raw_response = $4,
		        selection_threshold = $5, rejection_threshold = $6,
		        suggested_prompts = $7, updated_at = NOW()
		 WHERE id = $1
		 RETURNING job_url, created_at, updated_at`,
		id, rolesJSON, skillsJSON, a.RawResponse,
		a.Thresholds.Selection, a.Thresholds.Rejection, promptsJSON,
	).Scan(&rec.JobURL, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update analysis: %w", err)
	}

	return rec, nil
}

// GetAnalysis retrieves an analysis by its ID, or nil when absent
func (db *DB) GetAnalysis(ctx context.Context, id uuid.UUID) (*AnalysisRecord, error) {
	var rec AnalysisRecord
	var rolesJSON, skillsJSON, promptsJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, job_url, roles, skills_data, raw_response,
		        selection_threshold, rejection_threshold, suggested_prompts,
		        created_at, updated_at
		 FROM analyses WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.JobURL, &rolesJSON, &skillsJSON, &rec.RawResponse,
		&rec.Thresholds.Selection, &rec.Thresholds.Rejection, &promptsJSON,
		&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	if err := unmarshalAnalysisFields(&rec, rolesJSON, skillsJSON, promptsJSON); err != nil {
		return nil, err
	}

	return &rec, nil
}

// ListAnalyses lists stored analyses newest-first with pagination
func (db *DB) ListAnalyses(ctx context.Context, opts ListAnalysesOptions) ([]AnalysisRecord, int, error) {
	var total int
	if err := db.pool.QueryRow(ctx, "SELECT COUNT(*) FROM analyses").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count analyses: %w", err)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, job_url, roles, skills_data, raw_response,
		        selection_threshold, rejection_threshold, suggested_prompts,
		        created_at, updated_at
		 FROM analyses
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var records []AnalysisRecord
	for rows.Next() {
		var rec AnalysisRecord
		var rolesJSON, skillsJSON, promptsJSON []byte

		if err := rows.Scan(&rec.ID, &rec.JobURL, &rolesJSON, &skillsJSON, &rec.RawResponse,
			&rec.Thresholds.Selection, &rec.Thresholds.Rejection, &promptsJSON,
			&rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, 0, err
		}

		if err := unmarshalAnalysisFields(&rec, rolesJSON, skillsJSON, promptsJSON); err != nil {
			return nil, 0, err
		}

		records = append(records, rec)
	}

	return records, total, nil
}

// DeleteAnalysis removes a stored analysis
func (db *DB) DeleteAnalysis(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx, "DELETE FROM analyses WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}
	return nil
}

func unmarshalAnalysisFields(rec *AnalysisRecord, rolesJSON, skillsJSON, promptsJSON []byte) error {
	if rolesJSON != nil {
		if err := json.Unmarshal(rolesJSON, &rec.Roles); err != nil {
			return fmt.Errorf("failed to unmarshal roles: %w", err)
		}
	}
	if skillsJSON != nil {
		if err := json.Unmarshal(skillsJSON, &rec.SkillsData); err != nil {
			return fmt.Errorf("failed to unmarshal skills data: %w", err)
		}
	}
	if promptsJSON != nil {
		if err := json.Unmarshal(promptsJSON, &rec.SuggestedPrompts); err != nil {
			return fmt.Errorf("failed to unmarshal suggested prompts: %w", err)
		}
	}
	return nil
}
