package controller

import (
	"context"

	"github.com/dmitrijs2005/garage/internal/models"
)

// View is the part of a presentation surface every controller uses.
type View interface {
	ShowError(ctx context.Context, msg string)
	ShowMessage(ctx context.Context, msg string)
}

// Credentials is one login attempt.
type Credentials struct {
	ID       string
	Password string
}

// AuthorizationView collects login attempts. PromptCredentials returns
// ErrCancelled when the operator gives up.
type AuthorizationView interface {
	View
	PromptCredentials(ctx context.Context) (Credentials, error)
}

// PasswordView collects a replacement for the default password. It returns
// ErrCancelled when the operator gives up.
type PasswordView interface {
	View
	PromptNewPassword(ctx context.Context) (string, error)
}

// AdminView drives the administrator session.
type AdminView interface {
	View
	NextIntent(ctx context.Context) (Intent, error)
	ShowUsers(ctx context.Context, users []*models.User)
	ShowUser(ctx context.Context, u *models.User)
	ShowCategories(ctx context.Context, cats []models.Category)
}

// BuyerView drives a buyer session.
type BuyerView interface {
	View
	NextIntent(ctx context.Context) (Intent, error)
	ShowCategories(ctx context.Context, cats []models.Category)
	ShowSellers(ctx context.Context, sellers []*models.User)
}

// SellerView drives a seller session.
type SellerView interface {
	View
	NextIntent(ctx context.Context) (Intent, error)
	ShowCategories(ctx context.Context, cats []models.Category)
	ShowProfile(ctx context.Context, u *models.User)
}
