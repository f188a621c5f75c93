package validation

// ScheduleDataRequest carries the slot details. The workflow treats the
// fields as opaque beyond requiring them to be present.
type ScheduleDataRequest struct {
	CenterID    int    `json:"centerId" validate:"required"`
	SpecialtyID int    `json:"specialtyId" validate:"required"`
	MedicID     int    `json:"medicId" validate:"required"`
	Date        string `json:"date" validate:"required"` // ISO 8601
}

// CreateAppointmentRequest is the payload for POST /appointment/create.
type CreateAppointmentRequest struct {
	InsuredID    string               `json:"insuredId" validate:"required,insuredid"`    // 5 decimal digits, leading zeros allowed
	ScheduleID   int                  `json:"scheduleId" validate:"required,gt=0"`        // slot identifier, sort key
	CountryISO   string               `json:"countryISO" validate:"required,oneof=PE CL"` // supported jurisdictions only
	ScheduleData *ScheduleDataRequest `json:"scheduleData" validate:"required"`
}
