package rest

import "agenthub/orchestrator/pkg/types"

// ErrorResponse is the body returned for any failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SubmitResponse is returned after a workflow definition is accepted.
type SubmitResponse struct {
	WorkflowID   string `json:"workflow_id"`
	WorkflowName string `json:"workflow_name"`
	Tasks        int    `json:"tasks"`
	Agents       int    `json:"agents"`
}

// ExecuteRequest optionally carries the context map handed to providers.
type ExecuteRequest struct {
	Context map[string]any `json:"context,omitempty"`
}

// WorkflowStateResponse describes a submitted workflow and its tasks.
type WorkflowStateResponse struct {
	WorkflowID   string                `json:"workflow_id"`
	WorkflowName string                `json:"workflow_name"`
	Status       types.WorkflowStatus  `json:"status"`
	Tasks        []*types.WorkflowTask `json:"tasks"`
	Agents       []*types.WorkflowAgent `json:"agents"`
}

// WorkflowListEntry is one row in the workflow list.
type WorkflowListEntry struct {
	WorkflowID   string               `json:"workflow_id"`
	WorkflowName string               `json:"workflow_name"`
	Status       types.WorkflowStatus `json:"status"`
}
