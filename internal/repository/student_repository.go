package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/levis-creator/college-system-api/internal/models"
)

// StudentRepository manages persistence for student records and their linked
// user accounts.
type StudentRepository struct {
	*Store[models.Student, *models.Student]
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{
		Store: NewStore[models.Student](db, Mapping{
			Table:   "students",
			Columns: []string{"national_id", "admission_no", "user_id", "department_id", "programme_id", "admission_date", "active", "created_at", "updated_at"},
		}),
	}
}

const studentDetailSelect = `SELECT s.id, s.national_id, s.admission_no, s.user_id, s.department_id, s.programme_id, s.admission_date, s.active, s.created_at, s.updated_at,
        u.first_name, u.last_name, u.email,
        d.name AS department_name, p.name AS programme_name
        FROM students s
        JOIN users u ON u.id = s.user_id
        LEFT JOIN departments d ON d.id = s.department_id
        LEFT JOIN programmes p ON p.id = s.programme_id`

// List returns student details matching the filter with a total count.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	defer r.observe("list_detail", time.Now())
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.ActiveOnly {
		conditions = append(conditions, "s.active = TRUE")
	}
	if filter.DepartmentID != nil {
		conditions = append(conditions, fmt.Sprintf("s.department_id = $%d", len(args)+1))
		args = append(args, *filter.DepartmentID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(u.first_name) LIKE $%d OR LOWER(u.last_name) LIKE $%d OR LOWER(s.admission_no) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	where := strings.Join(conditions, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("%s WHERE %s ORDER BY s.id LIMIT %d OFFSET %d", studentDetailSelect, where, size, offset)
	details := []models.StudentDetail{}
	if err := r.DB().SelectContext(ctx, &details, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM students s JOIN users u ON u.id = s.user_id WHERE %s`, where)
	var total int
	if err := r.DB().GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return details, total, nil
}

// FindDetail loads one student with identity and ownership context. Inactive
// students resolve here too; only listings exclude them.
func (r *StudentRepository) FindDetail(ctx context.Context, id int64) (*models.StudentDetail, error) {
	defer r.observe("find_detail", time.Now())
	var detail models.StudentDetail
	if err := r.DB().GetContext(ctx, &detail, studentDetailSelect+" WHERE s.id = $1", id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ExistsByNationalID checks for a student with the national id, optionally
// excluding an id.
func (r *StudentRepository) ExistsByNationalID(ctx context.Context, nationalID string, excludeID int64) (bool, error) {
	return r.existsBy(ctx, "national_id", nationalID, excludeID)
}

// ExistsByAdmissionNo checks for a student with the admission number,
// optionally excluding an id.
func (r *StudentRepository) ExistsByAdmissionNo(ctx context.Context, admissionNo string, excludeID int64) (bool, error) {
	return r.existsBy(ctx, "admission_no", admissionNo, excludeID)
}

func (r *StudentRepository) existsBy(ctx context.Context, column, value string, excludeID int64) (bool, error) {
	query := fmt.Sprintf("SELECT 1 FROM students WHERE %s = $1", column)
	args := []interface{}{value}
	if excludeID != 0 {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var one int
	if err := r.DB().GetContext(ctx, &one, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check student %s: %w", column, err)
	}
	return true, nil
}

// CreateWithUser provisions the user account, its role assignment and the
// student row in one transaction. The student and user are created together;
// partial state never persists.
func (r *StudentRepository) CreateWithUser(ctx context.Context, student *models.Student, user *models.User, roleName string) error {
	defer r.observe("create_with_user", time.Now())
	tx, err := r.DB().BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create student tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	if _, err = tx.NamedExecContext(ctx, `INSERT INTO users (id, email, password_hash, first_name, last_name, created_at, updated_at)
        VALUES (:id, :email, :password_hash, :first_name, :last_name, :created_at, :updated_at)`, user); err != nil {
		return fmt.Errorf("create student user: %w", err)
	}

	var res sql.Result
	if res, err = tx.ExecContext(ctx, `INSERT INTO user_roles (user_id, role_id)
        SELECT $1, id FROM roles WHERE name = $2`, user.ID, roleName); err != nil {
		return fmt.Errorf("assign student role: %w", err)
	}
	var granted int64
	if granted, err = res.RowsAffected(); err != nil {
		return fmt.Errorf("assign student role: rows affected: %w", err)
	}
	if granted == 0 {
		err = fmt.Errorf("assign student role: role %s is not provisioned", roleName)
		return err
	}

	student.UserID = user.ID
	student.Touch(now)
	rows, qerr := tx.NamedQuery(`INSERT INTO students (national_id, admission_no, user_id, department_id, programme_id, admission_date, active, created_at, updated_at)
        VALUES (:national_id, :admission_no, :user_id, :department_id, :programme_id, :admission_date, :active, :created_at, :updated_at) RETURNING id`, student)
	if qerr != nil {
		err = fmt.Errorf("create student: %w", qerr)
		return err
	}
	if rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("create student: scan id: %w", err)
		}
		student.SetID(id)
	}
	rows.Close()

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create student tx: %w", err)
	}
	return nil
}

// Deactivate marks a student inactive. One-directional; there is no
// reactivation path.
func (r *StudentRepository) Deactivate(ctx context.Context, id int64) error {
	defer r.observe("deactivate", time.Now())
	res, err := r.DB().ExecContext(ctx, `UPDATE students SET active = FALSE, updated_at = $2 WHERE id = $1`, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("deactivate student: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate student: rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateDepartment moves a student to another department.
func (r *StudentRepository) UpdateDepartment(ctx context.Context, id, departmentID int64) error {
	res, err := r.DB().ExecContext(ctx, `UPDATE students SET department_id = $2, updated_at = $3 WHERE id = $1`, id, departmentID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update student department: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update student department: rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
