package dashboard

import (
	"sales-dashboard/models"
	"sales-dashboard/services"
	"sales-dashboard/utils"
)

// Deps is what the dashboard needs from the rest of the application.
type Deps struct {
	Sales  []*models.Sale
	Query  *services.QueryService
	Logger *utils.Logger
	Limit  int
}
