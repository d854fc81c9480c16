package db

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"expensetracker/models"
)

var (
	ErrDuplicateEmail = errors.New("email already registered")
	ErrNotFound       = errors.New("expense not found")
)

type Storage struct {
	DB *sql.DB
}

func NewStorage(connStr string) (*Storage, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS expenses (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		amount NUMERIC(12,2) NOT NULL,
		category TEXT NOT NULL,
		description TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`)
	if err != nil {
		return nil, err
	}

	return &Storage{DB: db}, nil
}

func (s *Storage) Close() {
	s.DB.Close()
}

// CreateUser hashes the password with bcrypt and inserts a new user.
// A unique violation on email is reported as ErrDuplicateEmail.
func (s *Storage) CreateUser(email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var u models.User
	err = s.DB.QueryRow(
		"INSERT INTO users (email, password) VALUES ($1, $2) RETURNING id, email, password, created_at",
		email, string(hash),
	).Scan(&u.ID, &u.Email, &u.Password, &u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return &u, nil
}

func (s *Storage) GetUserByEmail(email string) (*models.User, error) {
	var u models.User
	err := s.DB.QueryRow(
		"SELECT id, email, password, created_at FROM users WHERE email = $1",
		email,
	).Scan(&u.ID, &u.Email, &u.Password, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Storage) GetUserByID(id int) (*models.User, error) {
	var u models.User
	err := s.DB.QueryRow(
		"SELECT id, email, password, created_at FROM users WHERE id = $1",
		id,
	).Scan(&u.ID, &u.Email, &u.Password, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteUser removes a user; owned expenses go with it via ON DELETE CASCADE.
func (s *Storage) DeleteUser(id int) error {
	res, err := s.DB.Exec("DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CreateExpense inserts an expense for userID. created_at is set by the
// database; callers cannot override it.
func (s *Storage) CreateExpense(userID int, amount float64, category string, description *string) (*models.Expense, error) {
	var e models.Expense
	err := s.DB.QueryRow(
		`INSERT INTO expenses (user_id, amount, category, description)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, user_id, amount, category, description, created_at`,
		userID, amount, category, description,
	).Scan(&e.ID, &e.UserID, &e.Amount, &e.Category, &e.Description, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetExpensesByUser returns all of userID's expenses, newest first.
// created_at collides at whole-second granularity, so id breaks ties.
func (s *Storage) GetExpensesByUser(userID int) ([]models.Expense, error) {
	rows, err := s.DB.Query(
		`SELECT id, user_id, amount, category, description, created_at
		 FROM expenses WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanExpenses(rows)
}

// GetExpensesByPeriod returns userID's expenses in the given calendar year,
// newest first. month 0 means the whole year.
func (s *Storage) GetExpensesByPeriod(userID, year, month int) ([]models.Expense, error) {
	query := `SELECT id, user_id, amount, category, description, created_at
		 FROM expenses
		 WHERE user_id = $1 AND EXTRACT(YEAR FROM created_at) = $2`
	args := []interface{}{userID, year}
	if month != 0 {
		query += " AND EXTRACT(MONTH FROM created_at) = $3"
		args = append(args, month)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanExpenses(rows)
}

// UpdateExpense modifies an expense owned by userID. An expense owned by a
// different user is reported the same way as a missing one: ErrNotFound.
func (s *Storage) UpdateExpense(userID, expenseID int, amount float64, category string, description *string) (*models.Expense, error) {
	var e models.Expense
	err := s.DB.QueryRow(
		`UPDATE expenses SET amount = $1, category = $2, description = $3
		 WHERE id = $4 AND user_id = $5
		 RETURNING id, user_id, amount, category, description, created_at`,
		amount, category, description, expenseID, userID,
	).Scan(&e.ID, &e.UserID, &e.Amount, &e.Category, &e.Description, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// DeleteExpense removes an expense owned by userID, with the same combined
// ownership/existence check as UpdateExpense.
func (s *Storage) DeleteExpense(userID, expenseID int) error {
	res, err := s.DB.Exec(
		"DELETE FROM expenses WHERE id = $1 AND user_id = $2",
		expenseID, userID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanExpenses(rows *sql.Rows) ([]models.Expense, error) {
	var expenses = []models.Expense{}
	for rows.Next() {
		var e models.Expense
		err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Category, &e.Description, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}
