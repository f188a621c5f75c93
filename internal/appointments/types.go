package appointments

// Status is the appointment lifecycle state. Pending is initial; completed
// and failed are terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// ScheduleData is carried through the workflow untouched.
type ScheduleData struct {
	CenterID    int    `json:"centerId" dynamodbav:"centerId"`
	SpecialtyID int    `json:"specialtyId" dynamodbav:"specialtyId"`
	MedicID     int    `json:"medicId" dynamodbav:"medicId"`
	Date        string `json:"date" dynamodbav:"date"` // ISO 8601
}

// Appointment is the item stored in the appointments DynamoDB table.
// InsuredID is the partition key, ScheduleID the sort key. Timestamps are
// RFC 3339 strings; UpdatedAt is only set once a status transition happens.
type Appointment struct {
	InsuredID    string       `json:"insuredId" dynamodbav:"insuredId"`
	ScheduleID   int          `json:"scheduleId" dynamodbav:"scheduleId"`
	Status       Status       `json:"status" dynamodbav:"status"`
	CountryISO   string       `json:"countryISO" dynamodbav:"countryISO"`
	ScheduleData ScheduleData `json:"scheduleData" dynamodbav:"scheduleData"`
	CreatedAt    string       `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt    string       `json:"updatedAt,omitempty" dynamodbav:"updatedAt,omitempty"`
}

// Outcome classifies the result of a status transition request.
type Outcome int

const (
	// OutcomeNotFound means no record exists under the key. The caller
	// decides whether that is retryable (e.g. replication lag).
	OutcomeNotFound Outcome = iota
	// OutcomeTransitioned means the record moved from pending to the
	// requested terminal status.
	OutcomeTransitioned
	// OutcomeNoop means the record was already terminal; nothing changed.
	OutcomeNoop
)

func (o Outcome) String() string {
	switch o {
	case OutcomeTransitioned:
		return "transitioned"
	case OutcomeNoop:
		return "noop"
	default:
		return "not_found"
	}
}
