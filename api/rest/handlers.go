package rest

import (
	"github.com/gofiber/fiber/v2"

	"agenthub/orchestrator/internal/parser"
)

// healthCheck reports server liveness.
func (s *Server) healthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// submitWorkflow accepts a workflow definition (agents and tasks) and builds
// a single-use engine for it. The workflow is not executed yet.
func (s *Server) submitWorkflow(c *fiber.Ctx) error {
	var def parser.Definition
	if err := c.BodyParser(&def); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid workflow definition: " + err.Error(),
		})
	}
	if err := parser.Validate(&def); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	eng, err := parser.Build(&def, nil, s.log)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	workflow := eng.Workflow()
	s.addRun(workflow.ID, &run{engine: eng, context: def.Workflow.Context})
	s.log.Info("workflow %s (%s) submitted via API", workflow.Name, workflow.ID)

	return c.Status(fiber.StatusCreated).JSON(SubmitResponse{
		WorkflowID:   workflow.ID,
		WorkflowName: workflow.Name,
		Tasks:        len(def.Tasks),
		Agents:       len(def.Agents),
	})
}

// listWorkflows lists all submitted workflows.
func (s *Server) listWorkflows(c *fiber.Ctx) error {
	s.mu.RLock()
	entries := make([]WorkflowListEntry, 0, len(s.runs))
	for _, r := range s.runs {
		workflow := r.engine.Workflow()
		entries = append(entries, WorkflowListEntry{
			WorkflowID:   workflow.ID,
			WorkflowName: workflow.Name,
			Status:       workflow.Status,
		})
	}
	s.mu.RUnlock()
	return c.JSON(entries)
}

// getWorkflow returns the current state of one workflow and its tasks.
func (s *Server) getWorkflow(c *fiber.Ctx) error {
	r := s.getRun(c.Params("id"))
	if r == nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "workflow not found"})
	}

	workflow := r.engine.Workflow()
	return c.JSON(WorkflowStateResponse{
		WorkflowID:   workflow.ID,
		WorkflowName: workflow.Name,
		Status:       workflow.Status,
		Tasks:        r.engine.Tasks(),
		Agents:       r.engine.Agents(),
	})
}

// executeWorkflow runs a submitted workflow to completion and returns the
// final report. An engine executes exactly once; re-executing is an error.
func (s *Server) executeWorkflow(c *fiber.Ctx) error {
	r := s.getRun(c.Params("id"))
	if r == nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "workflow not found"})
	}

	var req ExecuteRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: "invalid execute request: " + err.Error(),
			})
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.report != nil {
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{Error: "workflow already executed"})
	}

	wfCtx := req.Context
	if wfCtx == nil {
		wfCtx = r.context
	}

	report, err := r.engine.ExecuteWorkflow(c.Context(), wfCtx)
	if report == nil && err != nil {
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{Error: err.Error()})
	}
	r.report = report
	return c.JSON(report)
}

// getReport returns the final report of an executed workflow.
func (s *Server) getReport(c *fiber.Ctx) error {
	r := s.getRun(c.Params("id"))
	if r == nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "workflow not found"})
	}

	r.mu.Lock()
	report := r.report
	r.mu.Unlock()
	if report == nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "workflow not executed yet"})
	}
	return c.JSON(report)
}
