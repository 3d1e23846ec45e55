package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func decodeTask(t *testing.T, w *httptest.ResponseRecorder) taskResponse {
	t.Helper()
	var task taskResponse
	if err := json.Unmarshal(w.Body.Bytes(), &task); err != nil {
		t.Fatalf("unmarshal task: %v", err)
	}
	return task
}

func TestCreateTask(t *testing.T) {
	t.Run("defaults and timestamps", func(t *testing.T) {
		env := newTestEnv(t)
		userID, token := env.signup(t, "alice@example.com", "password123")

		w := env.do(t, http.MethodPost, fmt.Sprintf("/api/%s/tasks", userID), token, gin.H{
			"title": "Buy milk",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}

		task := decodeTask(t, w)
		if task.UserID != userID {
			t.Errorf("user_id = %q, want %q", task.UserID, userID)
		}
		if task.Title != "Buy milk" {
			t.Errorf("title = %q, want %q", task.Title, "Buy milk")
		}
		if task.IsComplete {
			t.Error("new task is marked complete")
		}
		if !task.CreatedAt.Equal(task.UpdatedAt) {
			t.Errorf("created_at %v != updated_at %v", task.CreatedAt, task.UpdatedAt)
		}
	})

	t.Run("title boundaries", func(t *testing.T) {
		env := newTestEnv(t)
		userID, token := env.signup(t, "alice@example.com", "password123")
		path := fmt.Sprintf("/api/%s/tasks", userID)

		w := env.do(t, http.MethodPost, path, token, gin.H{"title": strings.Repeat("a", 255)})
		if w.Code != http.StatusCreated {
			t.Errorf("255-char title: status = %d, want 201", w.Code)
		}

		w = env.do(t, http.MethodPost, path, token, gin.H{"title": strings.Repeat("a", 256)})
		if w.Code != http.StatusBadRequest {
			t.Errorf("256-char title: status = %d, want 400", w.Code)
		}

		w = env.do(t, http.MethodPost, path, token, gin.H{"title": "   "})
		if w.Code != http.StatusBadRequest {
			t.Errorf("all-whitespace title: status = %d, want 400", w.Code)
		}

		w = env.do(t, http.MethodPost, path, token, gin.H{"description": "no title"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("missing title: status = %d, want 400", w.Code)
		}
	})
}

func TestListTasks(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.signup(t, "alice@example.com", "password123")
	otherID, otherToken := env.signup(t, "bob@example.com", "password123")

	env.createTask(t, userID, token, "first")
	env.createTask(t, userID, token, "second")
	env.createTask(t, otherID, otherToken, "not hers")

	w := env.do(t, http.MethodGet, fmt.Sprintf("/api/%s/tasks", userID), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp taskListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if resp.Count != 2 || len(resp.Tasks) != 2 {
		t.Fatalf("count = %d, len = %d, want 2", resp.Count, len(resp.Tasks))
	}
	if resp.Tasks[0].Title != "first" || resp.Tasks[1].Title != "second" {
		t.Errorf("tasks out of insertion order: %q, %q",
			resp.Tasks[0].Title, resp.Tasks[1].Title)
	}
}

func TestTaskRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.signup(t, "alice@example.com", "password123")
	taskID := env.createTask(t, userID, token, "Buy milk")
	taskPath := fmt.Sprintf("/api/%s/tasks/%d", userID, taskID)

	w := env.do(t, http.MethodGet, taskPath, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d, body %s", w.Code, w.Body.String())
	}
	created := decodeTask(t, w)
	if created.IsComplete {
		t.Error("task complete before toggle")
	}

	time.Sleep(5 * time.Millisecond)

	w = env.do(t, http.MethodPatch, taskPath+"/complete", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("toggle status = %d, body %s", w.Code, w.Body.String())
	}
	toggled := decodeTask(t, w)
	if !toggled.IsComplete {
		t.Error("task not complete after toggle")
	}
	if !toggled.UpdatedAt.After(toggled.CreatedAt) {
		t.Errorf("updated_at %v not after created_at %v",
			toggled.UpdatedAt, toggled.CreatedAt)
	}

	w = env.do(t, http.MethodPatch, taskPath+"/complete", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("second toggle status = %d", w.Code)
	}
	if decodeTask(t, w).IsComplete {
		t.Error("task still complete after second toggle")
	}
}

func TestUpdateTask(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.signup(t, "alice@example.com", "password123")
	taskID := env.createTask(t, userID, token, "Buy milk")
	taskPath := fmt.Sprintf("/api/%s/tasks/%d", userID, taskID)

	t.Run("partial update keeps omitted fields", func(t *testing.T) {
		w := env.do(t, http.MethodPut, taskPath, token, gin.H{
			"description": "two liters",
		})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		task := decodeTask(t, w)
		if task.Title != "Buy milk" {
			t.Errorf("title = %q, want unchanged", task.Title)
		}
		if task.Description != "two liters" {
			t.Errorf("description = %q, want %q", task.Description, "two liters")
		}
	})

	t.Run("owner cannot be altered", func(t *testing.T) {
		// user_id is not part of the update schema; sending it
		// changes nothing.
		w := env.do(t, http.MethodPut, taskPath, token, gin.H{
			"title":   "Buy oat milk",
			"user_id": "somebody-else",
		})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		if task := decodeTask(t, w); task.UserID != userID {
			t.Errorf("user_id = %q, want %q", task.UserID, userID)
		}
	})

	t.Run("empty title rejected", func(t *testing.T) {
		w := env.do(t, http.MethodPut, taskPath, token, gin.H{"title": "  "})
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}

func TestDeleteTask(t *testing.T) {
	t.Run("second delete answers 404", func(t *testing.T) {
		env := newTestEnv(t)
		userID, token := env.signup(t, "alice@example.com", "password123")
		taskID := env.createTask(t, userID, token, "Buy milk")
		taskPath := fmt.Sprintf("/api/%s/tasks/%d", userID, taskID)

		w := env.do(t, http.MethodDelete, taskPath, token, nil)
		if w.Code != http.StatusNoContent {
			t.Fatalf("first delete status = %d, want 204", w.Code)
		}

		w = env.do(t, http.MethodDelete, taskPath, token, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("second delete status = %d, want 404", w.Code)
		}
	})
}

// TestOwnershipCollapse drives every task route with a valid token
// for a different user and checks the response is byte-identical to
// the one for an id that never existed.
func TestOwnershipCollapse(t *testing.T) {
	env := newTestEnv(t)
	aliceID, aliceToken := env.signup(t, "alice@example.com", "password123")
	bobID, bobToken := env.signup(t, "bob@example.com", "password123")

	taskID := env.createTask(t, aliceID, aliceToken, "private")

	routes := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"get", http.MethodGet, "/api/%s/tasks/%d", nil},
		{"update", http.MethodPut, "/api/%s/tasks/%d", gin.H{"title": "stolen"}},
		{"delete", http.MethodDelete, "/api/%s/tasks/%d", nil},
		{"toggle", http.MethodPatch, "/api/%s/tasks/%d/complete", nil},
	}

	for _, route := range routes {
		t.Run(route.name, func(t *testing.T) {
			// Bob goes through his own namespace at Alice's task id,
			// then at an id that never existed. The store collapses
			// both to the same miss.
			const ghostID = 999999

			wrongOwner := env.do(t, route.method,
				fmt.Sprintf(route.path, bobID, taskID), bobToken, route.body)
			nonexistent := env.do(t, route.method,
				fmt.Sprintf(route.path, bobID, int64(ghostID)), bobToken, route.body)

			if wrongOwner.Code != http.StatusNotFound {
				t.Errorf("wrong owner status = %d, want 404", wrongOwner.Code)
			}
			if wrongOwner.Code != nonexistent.Code ||
				wrongOwner.Body.String() != nonexistent.Body.String() {
				t.Errorf("wrong-owner response %d %q differs from nonexistent %d %q",
					wrongOwner.Code, wrongOwner.Body.String(),
					nonexistent.Code, nonexistent.Body.String())
			}
		})
	}

	t.Run("foreign path segment is also a 404", func(t *testing.T) {
		w := env.do(t, http.MethodGet,
			fmt.Sprintf("/api/%s/tasks/%d", aliceID, taskID), bobToken, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}

		nonexistent := env.do(t, http.MethodGet,
			fmt.Sprintf("/api/%s/tasks/%d", bobID, int64(999999)), bobToken, nil)
		if w.Body.String() != nonexistent.Body.String() {
			t.Errorf("guard body %q differs from store-miss body %q",
				w.Body.String(), nonexistent.Body.String())
		}
	})

	t.Run("alice still owns her task", func(t *testing.T) {
		w := env.do(t, http.MethodGet,
			fmt.Sprintf("/api/%s/tasks/%d", aliceID, taskID), aliceToken, nil)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
		task := decodeTask(t, w)
		if task.IsComplete {
			t.Error("bob's toggle attempt changed alice's task")
		}
		if task.Title != "private" {
			t.Errorf("title = %q, bob's update leaked through", task.Title)
		}
	})
}
