package app

import "github.com/dmitrijs2005/garage/internal/cli"

// ConsoleViews puts every view on the same terminal.
func ConsoleViews(c *cli.Console) Views {
	return Views{
		Authorization: cli.NewAuthorizationView(c),
		Password:      cli.NewPasswordView(c),
		Admin:         cli.NewAdminView(c),
		Buyer:         cli.NewBuyerView(c),
		Seller:        cli.NewSellerView(c),
	}
}
