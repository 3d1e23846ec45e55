package services

import (
	"context"
	"errors"

	"github.com/pkosenkov/taskboard/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already taken")
	ErrUserNotFound       = errors.New("user not found")

	// ErrTaskNotFound covers both a genuinely missing task and a task
	// owned by someone else. The two cases are never told apart.
	ErrTaskNotFound = errors.New("task not found")

	ErrTitleEmpty   = errors.New("title must not be empty")
	ErrTitleTooLong = errors.New("title must be 255 characters or less")
)

type AuthService interface {
	// Register creates a user with the given email and password,
	// hashes the password and issues an access token.
	//
	// It returns ErrEmailTaken if a user with the given
	// email already exists.
	Register(ctx context.Context, creds Credentials) (*AuthResult, error)

	// Login authenticates the user by email and password and issues
	// a fresh access token.
	//
	// An unknown email and a wrong password both return
	// ErrInvalidCredentials.
	Login(ctx context.Context, creds Credentials) (*AuthResult, error)

	// CurrentUser loads the user behind a verified token subject.
	//
	// It returns ErrUserNotFound if no such user exists.
	CurrentUser(ctx context.Context, userID string) (*models.User, error)
}

// TaskService performs task CRUD. Every operation takes the verified
// owner identity as a mandatory filter; id-scoped operations treat a
// task under a different owner exactly like a missing one and return
// ErrTaskNotFound.
type TaskService interface {
	Create(ctx context.Context, owner string, params CreateTaskParams) (*models.Task, error)
	List(ctx context.Context, owner string) ([]models.Task, error)
	Get(ctx context.Context, owner string, id int64) (*models.Task, error)
	Update(ctx context.Context, owner string, id int64, params UpdateTaskParams) (*models.Task, error)
	Delete(ctx context.Context, owner string, id int64) (bool, error)
	ToggleComplete(ctx context.Context, owner string, id int64) (*models.Task, error)
}

type Credentials struct {
	Email    string
	Password string
}

type AuthResult struct {
	User  models.User
	Token string
}

type CreateTaskParams struct {
	Title       string
	Description *string
}

type UpdateTaskParams struct {
	Title       *string
	Description *string
}
