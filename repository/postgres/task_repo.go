package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	const query = `
	SELECT id, title, description, priority, due_date, status, created_at, updated_at
	FROM tasks
	WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	return scanTask(row)
}

// GetCursorPage walks tasks in ascending id order (lexicographic over the
// id text), resuming strictly after the cursor. It fetches pageSize+1 rows
// so the presence of a next page is known without a count query.
func (r *taskRepository) GetCursorPage(ctx context.Context, req repository.PageRequest) (*domain.CursorPage, error) {
	const query = `
	SELECT id, title, description, priority, due_date, status, created_at, updated_at
	FROM tasks
	WHERE ($1 = '' OR id > $1)
	  AND ($2::int IS NULL OR priority = $2)
	  AND ($3::int IS NULL OR status = $3)
	ORDER BY id ASC
	LIMIT $4
	`
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 1
	}

	var priority, status *int
	if req.Priority != nil {
		v := int(*req.Priority)
		priority = &v
	}
	if req.Status != nil {
		v := int(*req.Status)
		status = &v
	}

	rows, err := r.pool.Query(ctx, query, req.Cursor, priority, status, pageSize+1)
	if err != nil {
		return nil, storageErr(err)
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0, pageSize+1)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err)
	}

	page := &domain.CursorPage{PageSize: pageSize}
	if len(tasks) > pageSize {
		page.Items = tasks[:pageSize]
		page.HasNextPage = true
		page.NextCursor = page.Items[len(page.Items)-1].ID
	} else {
		page.Items = tasks
	}
	return page, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO tasks (id, title, description, priority, due_date, status)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING created_at, updated_at
	`

	stored := *task
	if err := r.pool.QueryRow(ctx, query,
		stored.ID,
		stored.Title,
		stored.Description,
		int(stored.Priority),
		stored.DueDate,
		int(stored.Status),
	).Scan(&stored.CreatedAt, &stored.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrTaskExists
		}
		return nil, storageErr(err)
	}

	return &stored, nil
}

// Update replaces every mutable field of the record identified by id. Any
// id carried in the replacement payload is ignored.
func (r *taskRepository) Update(ctx context.Context, id string, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasks
	SET title = $2,
		description = $3,
		priority = $4,
		due_date = $5,
		status = $6,
		updated_at = NOW()
	WHERE id = $1
	RETURNING created_at, updated_at
	`

	updated := *task
	updated.ID = id
	if err := r.pool.QueryRow(ctx, query,
		id,
		updated.Title,
		updated.Description,
		int(updated.Priority),
		updated.DueDate,
		int(updated.Status),
	).Scan(&updated.CreatedAt, &updated.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, storageErr(err)
	}

	return &updated, nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) (bool, error) {
	const query = `DELETE FROM tasks WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, storageErr(err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *taskRepository) GetStatusSummary(ctx context.Context) (*domain.StatusSummary, error) {
	const query = `SELECT status, COUNT(*) FROM tasks GROUP BY status`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, storageErr(err)
	}
	defer rows.Close()

	byStatus := make(map[domain.Status]int, len(domain.AllStatuses))
	for rows.Next() {
		var status, count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, storageErr(err)
		}
		byStatus[domain.Status(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err)
	}

	summary := &domain.StatusSummary{Counts: make([]domain.StatusCount, 0, len(domain.AllStatuses))}
	for _, status := range domain.AllStatuses {
		count := byStatus[status]
		summary.Counts = append(summary.Counts, domain.StatusCount{Status: status, Count: count})
		summary.Total += count
	}
	return summary, nil
}

func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Task, error) {
	var task domain.Task
	var priority, status int

	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&priority,
		&task.DueDate,
		&status,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, storageErr(err)
	}

	task.Priority = domain.Priority(priority)
	task.Status = domain.Status(status)
	return &task, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func storageErr(err error) error {
	return domain.WrapError(domain.ErrCodeUnavailable, "task store query failed", err)
}
