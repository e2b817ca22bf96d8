package grievances

import (
	"github.com/opencampus/grievance-portal/pkg/portal/models"
)

// nextStatus is the forward lifecycle order. Reviewer roles may only move a
// grievance one step along this chain; admins may take any path.
var nextStatus = map[models.GrievanceStatus]models.GrievanceStatus{
	models.StatusSubmitted:   models.StatusUnderReview,
	models.StatusUnderReview: models.StatusResolved,
	models.StatusResolved:    models.StatusClosed,
}

// CanTransition reports whether the given role may move a grievance from one
// status to another.
func CanTransition(from, to models.GrievanceStatus, role models.UserRole) bool {
	if !to.Valid() || from == to {
		return false
	}
	if role == models.RoleAdmin {
		// Administrative override: admins may reopen or skip steps
		return true
	}
	return nextStatus[from] == to
}
