package transport

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestCategoryCreateReturnsEnvelope(t *testing.T) {
	env := newTestEnv()

	form := url.Values{"name": {"Electronics"}, "description": {"Gadgets"}}
	rec := env.do(t, urlencodedRequest(http.MethodPost, "/categories", form))
	if rec.Code != http.StatusCreated {
		t.Fatalf("Status = %d, want 201 (body %q)", rec.Code, rec.Body.String())
	}

	envelope := decodeEnvelope(t, rec)
	category, ok := envelope.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("Envelope data = %T, want object", envelope.Data)
	}
	if category["name"] != "Electronics" {
		t.Errorf("Category name = %v", category["name"])
	}
	if category["id"] == nil {
		t.Error("Category id missing from response")
	}
}

func TestCategoryCreateRequiresName(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, urlencodedRequest(http.MethodPost, "/categories", url.Values{"name": {"  "}}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Status = %d, want 400", rec.Code)
	}

	envelope := decodeEnvelope(t, rec)
	if envelope.Errors["name"] == "" {
		t.Errorf("Errors = %v, want an entry for name", envelope.Errors)
	}
}

func TestCategoryCreateDuplicateName(t *testing.T) {
	env := newTestEnv()

	form := url.Values{"name": {"Electronics"}}
	if rec := env.do(t, urlencodedRequest(http.MethodPost, "/categories", form)); rec.Code != http.StatusCreated {
		t.Fatalf("First create failed with status %d", rec.Code)
	}

	rec := env.do(t, urlencodedRequest(http.MethodPost, "/categories", form))
	if rec.Code != http.StatusConflict {
		t.Fatalf("Status = %d, want 409", rec.Code)
	}
	if envelope := decodeEnvelope(t, rec); envelope.Success {
		t.Error("Envelope success = true on conflict")
	}
}

func TestCategoryDeleteConflictsWhileInUse(t *testing.T) {
	env := newTestEnv()

	// The pre-seeded category gains a product through the catalog
	if rec := env.do(t, urlencodedRequest(http.MethodPost, "/products", productFormValues())); rec.Code != http.StatusCreated {
		t.Fatalf("Seeding product failed with status %d", rec.Code)
	}
	env.categories.inUse[testCategory.ID] = true

	rec := env.do(t, httptest.NewRequest(http.MethodDelete, "/categories/2", nil))
	if rec.Code != http.StatusConflict {
		t.Fatalf("Status = %d, want 409", rec.Code)
	}

	envelope := decodeEnvelope(t, rec)
	if envelope.Message != "Cannot delete a category that still has products" {
		t.Errorf("Message = %q", envelope.Message)
	}
}

func TestCategoryDelete(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, httptest.NewRequest(http.MethodDelete, "/categories/2", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200 (body %q)", rec.Code, rec.Body.String())
	}
	if envelope := decodeEnvelope(t, rec); envelope.Message != "Category deleted" {
		t.Errorf("Message = %q", envelope.Message)
	}

	rec = env.do(t, httptest.NewRequest(http.MethodDelete, "/categories/2", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Second delete status = %d, want 404", rec.Code)
	}
}

func TestCategoryUpdate(t *testing.T) {
	env := newTestEnv()

	form := url.Values{"name": {"Renamed"}, "description": {"Updated"}}
	rec := env.do(t, urlencodedRequest(http.MethodPut, "/categories/2", form))
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200 (body %q)", rec.Code, rec.Body.String())
	}

	envelope := decodeEnvelope(t, rec)
	category, ok := envelope.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("Envelope data = %T, want object", envelope.Data)
	}
	if category["name"] != "Renamed" {
		t.Errorf("Category name = %v", category["name"])
	}

	rec = env.do(t, urlencodedRequest(http.MethodPut, "/categories/42", form))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Unknown category update status = %d, want 404", rec.Code)
	}
}

func TestCategoryUpdateRedirectsBrowserForm(t *testing.T) {
	env := newTestEnv()

	req := urlencodedRequest(http.MethodPost, "/categories/2?_method=PUT", url.Values{"name": {"Renamed"}})
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	rec := env.do(t, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("Status = %d, want 303 (body %q)", rec.Code, rec.Body.String())
	}
	if location := rec.Header().Get("Location"); location != "/categories" {
		t.Errorf("Location = %q, want /categories", location)
	}
}

func TestCategoryListIncludesSeededCategory(t *testing.T) {
	env := newTestEnv()

	for _, target := range []string{"/categories", "/api/categories"} {
		rec := env.do(t, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d", target, rec.Code)
		}

		envelope := decodeEnvelope(t, rec)
		categories, ok := envelope.Data.([]interface{})
		if !ok {
			t.Fatalf("GET %s data = %T, want array", target, envelope.Data)
		}
		if len(categories) != 1 {
			t.Errorf("GET %s returned %d categories, want 1", target, len(categories))
		}
	}
}

func TestCategoryGet(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/categories/2", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}

	envelope := decodeEnvelope(t, rec)
	category, ok := envelope.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("Envelope data = %T, want object", envelope.Data)
	}
	if category["name"] != testCategory.Name {
		t.Errorf("Category name = %v", category["name"])
	}

	rec = env.do(t, httptest.NewRequest(http.MethodGet, "/categories/42", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Unknown category status = %d, want 404", rec.Code)
	}
}
