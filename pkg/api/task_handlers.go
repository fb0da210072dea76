package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/platinummonkey/todo/pkg/apperrors"
	"github.com/platinummonkey/todo/pkg/httputil"
	"github.com/platinummonkey/todo/pkg/middleware"
	"github.com/platinummonkey/todo/pkg/storage"
	"github.com/platinummonkey/todo/pkg/validation"
)

const msgTaskNotFound = "Task not found"

// TaskHandlers serves the task routes. Every store call is scoped to the
// authenticated user, never to the path.
type TaskHandlers struct {
	tasks     storage.TaskStore
	validator *validation.Validator
}

// NewTaskHandlers creates a new task handlers instance
func NewTaskHandlers(tasks storage.TaskStore, v *validation.Validator) *TaskHandlers {
	return &TaskHandlers{tasks: tasks, validator: v}
}

// RegisterRoutes registers task routes. wrap must enforce ownership of {user_id}.
func (h *TaskHandlers) RegisterRoutes(router *mux.Router, wrap routeWrapper) {
	router.Handle("/api/{user_id}/tasks", wrap(h.listTasks)).Methods(http.MethodGet)
	router.Handle("/api/{user_id}/tasks", wrap(h.createTask)).Methods(http.MethodPost)
	router.Handle("/api/{user_id}/tasks/{task_id}", wrap(h.getTask)).Methods(http.MethodGet)
	router.Handle("/api/{user_id}/tasks/{task_id}", wrap(h.updateTask)).Methods(http.MethodPut)
	router.Handle("/api/{user_id}/tasks/{task_id}", wrap(h.deleteTask)).Methods(http.MethodDelete)
	router.Handle("/api/{user_id}/tasks/{task_id}/complete", wrap(h.toggleTask)).Methods(http.MethodPatch)
}

// listTasks handles GET /api/{user_id}/tasks
func (h *TaskHandlers) listTasks(w http.ResponseWriter, r *http.Request) error {
	owner, _ := middleware.UserIDFromContext(r.Context())

	tasks, err := h.tasks.ListTasks(r.Context(), owner)
	if err != nil {
		return apperrors.Internal(err)
	}
	return httputil.WriteSuccess(w, tasks)
}

// createTask handles POST /api/{user_id}/tasks
func (h *TaskHandlers) createTask(w http.ResponseWriter, r *http.Request) error {
	owner, _ := middleware.UserIDFromContext(r.Context())

	var req CreateTaskRequest
	if err := httputil.ParseJSON(r, &req); err != nil {
		return err
	}
	if err := h.validator.Struct(req); err != nil {
		return err
	}

	task, err := h.tasks.CreateTask(r.Context(), owner, req.toNewTask())
	if err != nil {
		return apperrors.Internal(err)
	}
	return httputil.WriteCreated(w, task)
}

// getTask handles GET /api/{user_id}/tasks/{task_id}
func (h *TaskHandlers) getTask(w http.ResponseWriter, r *http.Request) error {
	owner, taskID, err := taskRef(r)
	if err != nil {
		return err
	}

	task, err := h.tasks.GetTask(r.Context(), owner, taskID)
	if err != nil {
		return taskError(err)
	}
	return httputil.WriteSuccess(w, task)
}

// updateTask handles PUT /api/{user_id}/tasks/{task_id}
func (h *TaskHandlers) updateTask(w http.ResponseWriter, r *http.Request) error {
	owner, taskID, err := taskRef(r)
	if err != nil {
		return err
	}

	var req UpdateTaskRequest
	if err := httputil.ParseJSON(r, &req); err != nil {
		return err
	}
	if err := h.validator.Struct(req); err != nil {
		return err
	}

	task, err := h.tasks.UpdateTask(r.Context(), owner, taskID, req.toUpdate())
	if err != nil {
		return taskError(err)
	}
	return httputil.WriteSuccess(w, task)
}

// deleteTask handles DELETE /api/{user_id}/tasks/{task_id}
func (h *TaskHandlers) deleteTask(w http.ResponseWriter, r *http.Request) error {
	owner, taskID, err := taskRef(r)
	if err != nil {
		return err
	}

	if err := h.tasks.DeleteTask(r.Context(), owner, taskID); err != nil {
		return taskError(err)
	}
	return httputil.WriteNoContent(w)
}

// toggleTask handles PATCH /api/{user_id}/tasks/{task_id}/complete
func (h *TaskHandlers) toggleTask(w http.ResponseWriter, r *http.Request) error {
	owner, taskID, err := taskRef(r)
	if err != nil {
		return err
	}

	var req ToggleTaskRequest
	if err := httputil.ParseJSON(r, &req); err != nil {
		return err
	}
	if err := h.validator.Struct(req); err != nil {
		return err
	}

	task, err := h.tasks.SetTaskCompleted(r.Context(), owner, taskID, *req.Completed)
	if err != nil {
		return taskError(err)
	}
	return httputil.WriteSuccess(w, task)
}

// taskRef returns the authenticated owner and the {task_id} path variable
func taskRef(r *http.Request) (owner, taskID int64, err error) {
	owner, _ = middleware.UserIDFromContext(r.Context())
	taskID, err = httputil.ParsePathInt64(r, "task_id")
	return owner, taskID, err
}

// taskError reports foreign and missing tasks identically
func taskError(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.NotFound(msgTaskNotFound)
	}
	return apperrors.Internal(err)
}
