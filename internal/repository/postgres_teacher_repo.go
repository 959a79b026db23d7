package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/yogabook/internal/model"
)

// PostgresTeacherRepo はPostgreSQLを使用した講師リポジトリ。
type PostgresTeacherRepo struct {
	db *sql.DB
}

// NewPostgresTeacherRepo はPostgresTeacherRepoを生成する。
func NewPostgresTeacherRepo(db *sql.DB) *PostgresTeacherRepo {
	return &PostgresTeacherRepo{db: db}
}

// FindByID は指定IDの講師を取得する。見つからない場合はnilを返す。
func (r *PostgresTeacherRepo) FindByID(ctx context.Context, id string) (*model.Teacher, error) {
	teacher := &model.Teacher{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, created_at, updated_at FROM teachers WHERE id = $1`,
		id,
	).Scan(&teacher.ID, &teacher.FirstName, &teacher.LastName, &teacher.CreatedAt, &teacher.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find teacher by ID: %w", err)
	}

	return teacher, nil
}

// List は全講師を姓の昇順で取得する。
func (r *PostgresTeacherRepo) List(ctx context.Context) ([]*model.Teacher, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, created_at, updated_at FROM teachers ORDER BY last_name, first_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list teachers: %w", err)
	}
	defer rows.Close()

	var teachers []*model.Teacher
	for rows.Next() {
		teacher := &model.Teacher{}
		if err := rows.Scan(&teacher.ID, &teacher.FirstName, &teacher.LastName, &teacher.CreatedAt, &teacher.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan teacher: %w", err)
		}
		teachers = append(teachers, teacher)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate teachers: %w", err)
	}

	return teachers, nil
}

// compile-time interface check
var _ TeacherRepository = (*PostgresTeacherRepo)(nil)
