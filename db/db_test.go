package db

import (
	"errors"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// setupTestDB connects to the database named by POSTGRES_TEST_URL and
// truncates all tables so every test starts clean. Tests are skipped when
// the variable is unset.
func setupTestDB(t *testing.T) *Storage {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set")
	}

	store, err := NewStorage(connStr)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	_, err = store.DB.Exec("TRUNCATE TABLE expenses, users RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}

	return store
}

func insertExpenseAt(t *testing.T, store *Storage, userID int, amount float64, category string, at time.Time) {
	_, err := store.DB.Exec(
		"INSERT INTO expenses (user_id, amount, category, created_at) VALUES ($1, $2, $3, $4)",
		userID, amount, category, at,
	)
	if err != nil {
		t.Fatalf("Failed to insert expense: %v", err)
	}
}

func TestCreateAndGetUser(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	user, err := store.CreateUser("a@x.com", "password123")
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	if user.ID == 0 {
		t.Error("Expected user ID to be set, got 0")
	}
	if user.Email != "a@x.com" {
		t.Errorf("Expected email 'a@x.com', got %s", user.Email)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")); err != nil {
		t.Error("Password hash does not match")
	}

	fetched, err := store.GetUserByEmail("a@x.com")
	if err != nil {
		t.Fatalf("Failed to get user: %v", err)
	}
	if fetched == nil {
		t.Fatal("Expected user, got nil")
	}
	if fetched.ID != user.ID || fetched.Email != "a@x.com" {
		t.Errorf("Expected user {ID: %d, Email: a@x.com}, got %+v", user.ID, fetched)
	}

	byID, err := store.GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("Failed to get user by id: %v", err)
	}
	if byID == nil || byID.Email != "a@x.com" {
		t.Errorf("Expected user by id, got %+v", byID)
	}

	fetched, err = store.GetUserByEmail("nobody@x.com")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if fetched != nil {
		t.Errorf("Expected nil user, got %+v", fetched)
	}

	if _, err = store.CreateUser("a@x.com", "password456"); !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("Expected ErrDuplicateEmail, got %v", err)
	}

	// No password policy: any non-empty password registers, however short
	short, err := store.CreateUser("b@x.com", "pw1")
	if err != nil {
		t.Fatalf("Failed to create user with short password: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(short.Password), []byte("pw1")); err != nil {
		t.Error("Password hash does not match")
	}
}

func TestExpenseCRUD(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	user, err := store.CreateUser("a@x.com", "password123")
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	desc := "lunch"
	expense, err := store.CreateExpense(user.ID, 50.00, "food", &desc)
	if err != nil {
		t.Fatalf("Failed to create expense: %v", err)
	}
	if expense.ID == 0 {
		t.Error("Expected expense ID to be set, got 0")
	}
	if expense.Amount != 50.00 || expense.Category != "food" {
		t.Errorf("Expected expense {Amount: 50.00, Category: food}, got %+v", expense)
	}
	if expense.Description == nil || *expense.Description != "lunch" {
		t.Errorf("Expected description 'lunch', got %v", expense.Description)
	}
	if expense.CreatedAt.IsZero() {
		t.Error("Expected created_at to be set server-side")
	}

	expenses, err := store.GetExpensesByUser(user.ID)
	if err != nil {
		t.Fatalf("Failed to list expenses: %v", err)
	}
	if len(expenses) != 1 || expenses[0].ID != expense.ID {
		t.Errorf("Expected the created expense in the list, got %+v", expenses)
	}

	updated, err := store.UpdateExpense(user.ID, expense.ID, 60.00, "groceries", nil)
	if err != nil {
		t.Fatalf("Failed to update expense: %v", err)
	}
	if updated.Amount != 60.00 || updated.Category != "groceries" {
		t.Errorf("Expected expense {Amount: 60.00, Category: groceries}, got %+v", updated)
	}
	if updated.Description != nil {
		t.Errorf("Expected description cleared, got %v", *updated.Description)
	}
	if !updated.CreatedAt.Equal(expense.CreatedAt) {
		t.Error("Expected created_at to be immutable on update")
	}

	if _, err = store.UpdateExpense(user.ID, 999, 1.00, "x", nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing id, got %v", err)
	}

	if err = store.DeleteExpense(user.ID, expense.ID); err != nil {
		t.Fatalf("Failed to delete expense: %v", err)
	}
	if err = store.DeleteExpense(user.ID, expense.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}

	expenses, err = store.GetExpensesByUser(user.ID)
	if err != nil {
		t.Fatalf("Failed to list expenses: %v", err)
	}
	if len(expenses) != 0 {
		t.Errorf("Expected 0 expenses, got %d", len(expenses))
	}
}

func TestOwnerScoping(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	alice, err := store.CreateUser("alice@x.com", "password123")
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	bob, err := store.CreateUser("bob@x.com", "password123")
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	expense, err := store.CreateExpense(alice.ID, 50.00, "food", nil)
	if err != nil {
		t.Fatalf("Failed to create expense: %v", err)
	}

	// Bob must not see, update or delete Alice's expense, and a foreign id
	// must be indistinguishable from a missing one.
	bobExpenses, err := store.GetExpensesByUser(bob.ID)
	if err != nil {
		t.Fatalf("Failed to list expenses: %v", err)
	}
	if len(bobExpenses) != 0 {
		t.Errorf("Expected 0 expenses for bob, got %d", len(bobExpenses))
	}

	if _, err = store.UpdateExpense(bob.ID, expense.ID, 1.00, "x", nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for foreign update, got %v", err)
	}
	if err = store.DeleteExpense(bob.ID, expense.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for foreign delete, got %v", err)
	}

	aliceExpenses, err := store.GetExpensesByUser(alice.ID)
	if err != nil {
		t.Fatalf("Failed to list expenses: %v", err)
	}
	if len(aliceExpenses) != 1 {
		t.Errorf("Expected alice's expense untouched, got %d expenses", len(aliceExpenses))
	}
}

func TestExpenseOrdering(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	user, err := store.CreateUser("a@x.com", "password123")
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	// Whole-second timestamps so the last two collide and fall back to id.
	base := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	insertExpenseAt(t, store, user.ID, 10, "a", base.Add(-time.Hour))
	insertExpenseAt(t, store, user.ID, 20, "b", base)
	insertExpenseAt(t, store, user.ID, 30, "c", base)

	expenses, err := store.GetExpensesByUser(user.ID)
	if err != nil {
		t.Fatalf("Failed to list expenses: %v", err)
	}
	if len(expenses) != 3 {
		t.Fatalf("Expected 3 expenses, got %d", len(expenses))
	}
	if expenses[0].Category != "c" || expenses[1].Category != "b" || expenses[2].Category != "a" {
		t.Errorf("Expected order c, b, a, got %s, %s, %s",
			expenses[0].Category, expenses[1].Category, expenses[2].Category)
	}
	for i := 1; i < len(expenses); i++ {
		if expenses[i].CreatedAt.After(expenses[i-1].CreatedAt) {
			t.Errorf("Expected newest-first ordering, got %v before %v",
				expenses[i-1].CreatedAt, expenses[i].CreatedAt)
		}
	}
}

func TestGetExpensesByPeriod(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	user, err := store.CreateUser("a@x.com", "password123")
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	other, err := store.CreateUser("b@x.com", "password123")
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	insertExpenseAt(t, store, user.ID, 50.00, "food", time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC))
	insertExpenseAt(t, store, user.ID, 20.00, "transport", time.Date(2026, time.March, 20, 10, 0, 0, 0, time.UTC))
	insertExpenseAt(t, store, user.ID, 5.00, "food", time.Date(2026, time.April, 1, 10, 0, 0, 0, time.UTC))
	insertExpenseAt(t, store, user.ID, 99.00, "food", time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC))
	insertExpenseAt(t, store, other.ID, 77.00, "food", time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC))

	march, err := store.GetExpensesByPeriod(user.ID, 2026, 3)
	if err != nil {
		t.Fatalf("Failed to get period expenses: %v", err)
	}
	if len(march) != 2 {
		t.Fatalf("Expected 2 expenses in March 2026, got %d", len(march))
	}
	if march[0].Amount != 20.00 || march[1].Amount != 50.00 {
		t.Errorf("Expected newest-first [20.00, 50.00], got [%v, %v]", march[0].Amount, march[1].Amount)
	}

	year, err := store.GetExpensesByPeriod(user.ID, 2026, 0)
	if err != nil {
		t.Fatalf("Failed to get year expenses: %v", err)
	}
	if len(year) != 3 {
		t.Errorf("Expected 3 expenses in 2026, got %d", len(year))
	}

	empty, err := store.GetExpensesByPeriod(user.ID, 2026, 12)
	if err != nil {
		t.Fatalf("Failed to get period expenses: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("Expected 0 expenses in December 2026, got %d", len(empty))
	}
}

func TestDeleteUserCascades(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	user, err := store.CreateUser("a@x.com", "password123")
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	if _, err = store.CreateExpense(user.ID, 50.00, "food", nil); err != nil {
		t.Fatalf("Failed to create expense: %v", err)
	}
	if _, err = store.CreateExpense(user.ID, 20.00, "transport", nil); err != nil {
		t.Fatalf("Failed to create expense: %v", err)
	}

	if err = store.DeleteUser(user.ID); err != nil {
		t.Fatalf("Failed to delete user: %v", err)
	}

	var count int
	err = store.DB.QueryRow("SELECT COUNT(*) FROM expenses WHERE user_id = $1", user.ID).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count expenses: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 residual expenses after cascade, got %d", count)
	}
}
