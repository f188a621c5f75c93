package main

import (
	"encoding/json"
	"errors"
)

var errMissingFields = errors.New("message must contain insuredId and scheduleId")

// Confirmation identifies the appointment a downstream scheduler reports
// on. Status is optional: "failed" requests the failure transition, any
// other value (including absent) means completion.
type Confirmation struct {
	InsuredID  string
	ScheduleID int
	Status     string
}

// confirmationEnvelope tolerates the two body shapes seen in practice: a
// flat {insuredId, scheduleId} object and an EventBridge-style envelope
// nesting them under detail.
type confirmationEnvelope struct {
	InsuredID  string              `json:"insuredId"`
	ScheduleID int                 `json:"scheduleId"`
	Status     string              `json:"status"`
	Detail     *confirmationDetail `json:"detail"`
}

type confirmationDetail struct {
	InsuredID  string `json:"insuredId"`
	ScheduleID int    `json:"scheduleId"`
	Status     string `json:"status"`
}

// decodeConfirmation parses a queue message body. It fails only when
// neither shape yields both key fields.
func decodeConfirmation(body string) (*Confirmation, error) {
	var env confirmationEnvelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return nil, err
	}

	c := Confirmation{
		InsuredID:  env.InsuredID,
		ScheduleID: env.ScheduleID,
		Status:     env.Status,
	}
	if env.Detail != nil {
		if c.InsuredID == "" {
			c.InsuredID = env.Detail.InsuredID
		}
		if c.ScheduleID == 0 {
			c.ScheduleID = env.Detail.ScheduleID
		}
		if c.Status == "" {
			c.Status = env.Detail.Status
		}
	}

	if c.InsuredID == "" || c.ScheduleID == 0 {
		return nil, errMissingFields
	}
	return &c, nil
}
