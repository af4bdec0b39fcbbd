package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/types"
)

const applicationColumns = `id, company, position, location, job_type, salary, status, priority,
	applied_date, response_date, interview_date, notes, contact_person, contact_email,
	website, job_url, job_description, company_website, tags, requirements, created_at, updated_at`

// ApplicationFilters holds optional filters for listing applications
type ApplicationFilters struct {
	Company string
	Status  string
	Limit   int
}

// InsertApplication stores a single application record
func (db *DB) InsertApplication(ctx context.Context, app types.Application) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO applications (`+applicationColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`,
		app.ID, app.Company, app.Position, app.Location, string(app.Type), app.Salary,
		string(app.Status), string(app.Priority),
		app.AppliedDate, app.ResponseDate, app.InterviewDate,
		app.Notes, app.ContactPerson, app.ContactEmail,
		app.Website, app.JobURL, app.JobDescription, app.CompanyWebsite,
		app.Tags, app.Requirements, app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert application: %w", err)
	}
	return nil
}

// InsertApplications stores a batch of applications in one transaction
func (db *DB) InsertApplications(ctx context.Context, apps []types.Application) error {
	if len(apps) == 0 {
		return nil
	}
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, app := range apps {
		_, err := tx.Exec(ctx,
			`INSERT INTO applications (`+applicationColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`,
			app.ID, app.Company, app.Position, app.Location, string(app.Type), app.Salary,
			string(app.Status), string(app.Priority),
			app.AppliedDate, app.ResponseDate, app.InterviewDate,
			app.Notes, app.ContactPerson, app.ContactEmail,
			app.Website, app.JobURL, app.JobDescription, app.CompanyWebsite,
			app.Tags, app.Requirements, app.CreatedAt, app.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert application %s: %w", app.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit applications: %w", err)
	}
	return nil
}

// GetApplication retrieves an application by ID, or nil when not found
func (db *DB) GetApplication(ctx context.Context, id string) (*types.Application, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	app, err := scanApplication(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return &app, nil
}

// ListApplications retrieves applications with optional filters
func (db *DB) ListApplications(ctx context.Context, filters ApplicationFilters) ([]types.Application, error) {
	query, args := buildApplicationQuery(filters)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []types.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, app)
	}
	return apps, nil
}

// UpdateApplication replaces all mutable fields of an application
func (db *DB) UpdateApplication(ctx context.Context, app types.Application) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE applications SET company = $2, position = $3, location = $4, job_type = $5,
			salary = $6, status = $7, priority = $8, applied_date = $9, response_date = $10,
			interview_date = $11, notes = $12, contact_person = $13, contact_email = $14,
			website = $15, job_url = $16, job_description = $17, company_website = $18,
			tags = $19, requirements = $20, updated_at = NOW()
		 WHERE id = $1`,
		app.ID, app.Company, app.Position, app.Location, string(app.Type), app.Salary,
		string(app.Status), string(app.Priority),
		app.AppliedDate, app.ResponseDate, app.InterviewDate,
		app.Notes, app.ContactPerson, app.ContactEmail,
		app.Website, app.JobURL, app.JobDescription, app.CompanyWebsite,
		app.Tags, app.Requirements,
	)
	if err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("application not found: %s", app.ID)
	}
	return nil
}

// DeleteApplication removes an application by ID
func (db *DB) DeleteApplication(ctx context.Context, id string) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("application not found: %s", id)
	}
	return nil
}

// buildApplicationQuery assembles the filtered list query and its arguments
func buildApplicationQuery(filters ApplicationFilters) (string, []any) {
	if filters.Limit == 0 {
		filters.Limit = 100
	}

	query := `SELECT ` + applicationColumns + ` FROM applications WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Company != "" {
		query += fmt.Sprintf(" AND company ILIKE $%d", argNum)
		args = append(args, "%"+filters.Company+"%")
		argNum++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, filters.Status)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)
	return query, args
}

func scanApplication(row pgx.Row) (types.Application, error) {
	var app types.Application
	var jobType, status, priority string
	err := row.Scan(
		&app.ID, &app.Company, &app.Position, &app.Location, &jobType, &app.Salary,
		&status, &priority,
		&app.AppliedDate, &app.ResponseDate, &app.InterviewDate,
		&app.Notes, &app.ContactPerson, &app.ContactEmail,
		&app.Website, &app.JobURL, &app.JobDescription, &app.CompanyWebsite,
		&app.Tags, &app.Requirements, &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		return types.Application{}, err
	}
	app.Type = types.JobType(jobType)
	app.Status = types.ApplicationStatus(status)
	app.Priority = types.Priority(priority)
	return app, nil
}
