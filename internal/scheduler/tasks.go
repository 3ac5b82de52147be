package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskLeadFollowUp = "leads.followup"

// LeadFollowUpPayload identifies the lead a deferred follow-up is for. The
// category at scheduling time is included so the handler can detect that a
// lead has since been re-scored into a different bucket.
type LeadFollowUpPayload struct {
	LeadID         string `json:"leadId"`
	OrganizationID string `json:"organizationId"`
	Category       string `json:"category"`
}

func NewLeadFollowUpTask(payload LeadFollowUpPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadFollowUp, data), nil
}

func ParseLeadFollowUpPayload(task *asynq.Task) (LeadFollowUpPayload, error) {
	var payload LeadFollowUpPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return LeadFollowUpPayload{}, err
	}
	return payload, nil
}
