package auth

import (
	"context"

	"github.com/kartiklala/prodevans-support/pkg/logger"
)

// ProjectEmployee maps a raw People form record onto the stored projection.
// Fixed rename/subset: Manager comes from "Reporting To", and Pmail
// duplicates EmployeeID because the form exposes no separate source for it.
func ProjectEmployee(rec EmployeeRecord) EmployeeProfile {
	return EmployeeProfile{
		FirstName:        rec.FirstName,
		Department:       rec.Department,
		RecordID:         rec.RecordID,
		Manager:          rec.ReportingTo,
		Designation:      rec.Designation,
		ProductionStatus: rec.ProductionStatus,
		EmployeeID:       rec.EmployeeID,
		Pmail:            rec.EmployeeID,
		MobilePhone:      rec.MobilePhone,
	}
}

// enrich fetches and projects the employee form for an identity. It never
// fails: a lookup error or an empty result produces an empty projection so
// that callback completion is not blocked by the HR lookup.
func (s *service) enrich(ctx context.Context, accessToken, email string) EmployeeProfile {
	records, err := s.provider.EmployeeRecords(ctx, accessToken, email)
	if err != nil {
		s.logger.Warn("employee form lookup failed",
			logger.Email(email),
			logger.Error(err),
			logger.Component("auth"),
		)
		return EmployeeProfile{}
	}
	if len(records) == 0 {
		return EmployeeProfile{}
	}
	return ProjectEmployee(records[0])
}
