package session

import (
	"log/slog"

	"libraryconsole/internal/console/client"
	"libraryconsole/internal/console/panel"
	"libraryconsole/pkg/models"
)

// Endpoints are the collection URLs of the three backends.
type Endpoints struct {
	Users string
	Books string
	Loans string
}

// Console is what one browser session works with: three independent panels.
type Console struct {
	Users *panel.Panel[models.User]
	Books *panel.Panel[models.Book]
	Loans *panel.Panel[models.Loan]
}

func NewConsole(api *client.Client, endpoints Endpoints, logger *slog.Logger) *Console {
	return &Console{
		Users: panel.NewUsers(api, endpoints.Users, logger),
		Books: panel.NewBooks(api, endpoints.Books, logger),
		Loans: panel.NewLoans(api, endpoints.Loans, logger),
	}
}

// Panels returns the panels in display order.
func (c *Console) Panels() []panel.Controller {
	return []panel.Controller{c.Users, c.Books, c.Loans}
}

// Panel looks a panel up by name (users, books or loans).
func (c *Console) Panel(name string) (panel.Controller, bool) {
	for _, p := range c.Panels() {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}
