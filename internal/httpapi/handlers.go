package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/MrEthical07/taskauth"
	"github.com/MrEthical07/taskauth/middleware"
	"github.com/MrEthical07/taskauth/task"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type taskView struct {
	ID        string    `json:"id"`
	Task      string    `json:"task"`
	Priority  string    `json:"priority"`
	Status    string    `json:"status"`
	DateAdded time.Time `json:"dateAdded"`
}

func newTaskView(t task.Task) taskView {
	return taskView{
		ID:        t.ID,
		Task:      t.Text,
		Priority:  string(t.Priority),
		Status:    string(t.Status),
		DateAdded: t.DateAdded,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (a *api) signup(w http.ResponseWriter, r *http.Request) {
	res := a.engine.Signup(r.Context(), middleware.Transport(a.engine, w, r), taskauth.SignupForm{
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirmPassword"),
	})
	writeJSON(w, http.StatusOK, res)
}

func (a *api) login(w http.ResponseWriter, r *http.Request) {
	res := a.engine.Login(r.Context(), middleware.Transport(a.engine, w, r), taskauth.LoginForm{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	})
	writeJSON(w, http.StatusOK, res)
}

func (a *api) logout(w http.ResponseWriter, r *http.Request) {
	a.engine.Logout(r.Context(), middleware.Transport(a.engine, w, r))
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) me(w http.ResponseWriter, r *http.Request) {
	u := a.engine.CurrentUser(r.Context(), middleware.Transport(a.engine, w, r))
	if u == nil {
		writeJSON(w, http.StatusUnauthorized, nil)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (a *api) listTasks(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.CurrentUserFromContext(r.Context())

	tasks, err := a.tasks.List(r.Context(), u.ID)
	if err != nil {
		a.log.Error(err, "list tasks failed", "requestID", chimiddleware.GetReqID(r.Context()))
		writeError(w, http.StatusServiceUnavailable, "tasks unavailable")
		return
	}

	views := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, newTaskView(t))
	}
	writeJSON(w, http.StatusOK, views)
}

func (a *api) addTask(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.CurrentUserFromContext(r.Context())

	t, err := a.tasks.Add(r.Context(), u.ID, r.PostFormValue("task"), task.Priority(r.PostFormValue("priority")))
	if err != nil {
		if errors.Is(err, task.ErrInvalidTask) {
			writeError(w, http.StatusBadRequest, "invalid task")
			return
		}
		a.log.Error(err, "add task failed", "requestID", chimiddleware.GetReqID(r.Context()))
		writeError(w, http.StatusServiceUnavailable, "tasks unavailable")
		return
	}
	writeJSON(w, http.StatusCreated, newTaskView(*t))
}

func (a *api) completeTask(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.CurrentUserFromContext(r.Context())

	if err := a.tasks.MarkComplete(r.Context(), u.ID, chi.URLParam(r, "id")); err != nil {
		a.log.Error(err, "complete task failed", "requestID", chimiddleware.GetReqID(r.Context()))
		writeError(w, http.StatusServiceUnavailable, "tasks unavailable")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) deleteTask(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.CurrentUserFromContext(r.Context())

	if err := a.tasks.Delete(r.Context(), u.ID, chi.URLParam(r, "id")); err != nil {
		a.log.Error(err, "delete task failed", "requestID", chimiddleware.GetReqID(r.Context()))
		writeError(w, http.StatusServiceUnavailable, "tasks unavailable")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) healthz(w http.ResponseWriter, r *http.Request) {
	if a.ping == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	latency, err := a.ping(r.Context())
	if err != nil {
		a.log.Error(err, "store ping failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "storeLatency": latency.String()})
}
