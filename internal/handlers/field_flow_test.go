// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"partshub/internal/models"
)

// listDisplays fetches the display rows for a context through the admin
// endpoint, which also seeds the system rows on first call.
func listDisplays(t *testing.T, env *testEnv, ctx models.DisplayContext) []models.ProductFieldDisplay {
	t.Helper()

	rec := httptest.NewRecorder()
	req := env.request(t, http.MethodGet, "/admin/displays?ctx="+string(ctx), nil)
	env.Handlers.AdminListDisplays(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("list displays: status %d, body %s", rec.Code, rec.Body)
	}

	var resp struct {
		Displays []models.ProductFieldDisplay `json:"displays"`
	}
	decodeResponse(t, rec, &resp)
	return resp.Displays
}

func TestAdminListDisplaysSeedsSystemFields(t *testing.T) {
	env := newTestEnv(t)

	rows := listDisplays(t, env, models.ContextCatalog)
	if want := len(models.SystemFieldSeeds()); len(rows) != want {
		t.Fatalf("display rows = %d, want %d", len(rows), want)
	}

	// A second call must not duplicate anything.
	rows = listDisplays(t, env, models.ContextCatalog)
	if want := len(models.SystemFieldSeeds()); len(rows) != want {
		t.Errorf("display rows after reseed = %d, want %d", len(rows), want)
	}
}

func TestAdminMoveDisplaySwap(t *testing.T) {
	env := newTestEnv(t)

	before := listDisplays(t, env, models.ContextCatalog)

	rec := httptest.NewRecorder()
	req := env.request(t, http.MethodPost, "/admin/displays/move?ctx=catalog", map[string]any{
		"index":     1,
		"direction": "up",
	})
	env.Handlers.AdminMoveDisplay(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("move: status %d, body %s", rec.Code, rec.Body)
	}

	after := listDisplays(t, env, models.ContextCatalog)
	if after[0].FieldName != before[1].FieldName {
		t.Errorf("first row = %q, want %q", after[0].FieldName, before[1].FieldName)
	}

	// The other context keeps its own ordering.
	product := listDisplays(t, env, models.ContextProduct)
	if product[0].FieldName != before[0].FieldName {
		t.Errorf("product first row = %q, want %q", product[0].FieldName, before[0].FieldName)
	}
}

func TestAdminMoveDisplayBadDirection(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	req := env.request(t, http.MethodPost, "/admin/displays/move?ctx=catalog", map[string]any{
		"index":     0,
		"direction": "sideways",
	})
	env.Handlers.AdminMoveDisplay(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad direction: status %d, want 400", rec.Code)
	}
}

func TestAdminToggleDisplayProtected(t *testing.T) {
	env := newTestEnv(t)

	rows := listDisplays(t, env, models.ContextCatalog)
	byName := make(map[string]models.ProductFieldDisplay)
	for _, d := range rows {
		byName[d.FieldName] = d
	}

	// Reference must stay visible in the catalog.
	id := strconv.FormatInt(byName[models.FieldReference].ID, 10)
	rec := httptest.NewRecorder()
	req := env.request(t, http.MethodPost, "/admin/displays/"+id+"/toggle?ctx=catalog", nil)
	env.Handlers.AdminToggleDisplay(rec, withChiURLParam(req, "id", id))
	if rec.Code != http.StatusConflict {
		t.Errorf("toggle reference in catalog: status %d, want 409", rec.Code)
	}

	// Name can be hidden in the product context.
	id = strconv.FormatInt(byName[models.FieldName].ID, 10)
	rec = httptest.NewRecorder()
	req = env.request(t, http.MethodPost, "/admin/displays/"+id+"/toggle?ctx=product", nil)
	env.Handlers.AdminToggleDisplay(rec, withChiURLParam(req, "id", id))
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle name in product: status %d, body %s", rec.Code, rec.Body)
	}

	var updated models.ProductFieldDisplay
	decodeResponse(t, rec, &updated)
	if updated.ShowInProduct {
		t.Error("name should now be hidden in product context")
	}
}

func TestAdminCreateFieldConflicts(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]any{
		"name":  "voltage",
		"label": "Voltage",
		"type":  "number",
	}

	rec := httptest.NewRecorder()
	env.Handlers.AdminCreateField(rec, env.request(t, http.MethodPost, "/admin/fields", body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create field: status %d, body %s", rec.Code, rec.Body)
	}

	var created models.ProductField
	decodeResponse(t, rec, &created)

	// Same machine name again conflicts.
	rec = httptest.NewRecorder()
	env.Handlers.AdminCreateField(rec, env.request(t, http.MethodPost, "/admin/fields", body))
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate field: status %d, want 409", rec.Code)
	}

	// Renaming is refused by the store.
	id := strconv.FormatInt(created.ID, 10)
	rec = httptest.NewRecorder()
	req := env.request(t, http.MethodPut, "/admin/fields/"+id, map[string]any{
		"name":  "current",
		"label": "Voltage",
		"type":  "number",
	})
	env.Handlers.AdminUpdateField(rec, withChiURLParam(req, "id", id))
	if rec.Code != http.StatusConflict {
		t.Errorf("rename field: status %d, want 409", rec.Code)
	}
}

func TestAdminUpdateFieldOmittedName(t *testing.T) {
	env := newTestEnv(t)

	rec := httptest.NewRecorder()
	env.Handlers.AdminCreateField(rec, env.request(t, http.MethodPost, "/admin/fields", map[string]any{
		"name":  "weight",
		"label": "Weight",
		"type":  "number",
	}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create field: status %d, body %s", rec.Code, rec.Body)
	}

	var created models.ProductField
	decodeResponse(t, rec, &created)
	id := strconv.FormatInt(created.ID, 10)

	// A payload without a name keeps the current one and only edits the
	// mutable attributes.
	rec = httptest.NewRecorder()
	req := env.request(t, http.MethodPut, "/admin/fields/"+id, map[string]any{
		"label": "Weight (kg)",
		"type":  "number",
	})
	env.Handlers.AdminUpdateField(rec, withChiURLParam(req, "id", id))
	if rec.Code != http.StatusOK {
		t.Fatalf("update without name: status %d, body %s", rec.Code, rec.Body)
	}

	var updated models.ProductField
	decodeResponse(t, rec, &updated)
	if updated.Name != "weight" {
		t.Errorf("name = %q, want weight", updated.Name)
	}
	if updated.Label != "Weight (kg)" {
		t.Errorf("label = %q, want Weight (kg)", updated.Label)
	}

	// A malformed name in the payload is still rejected up front.
	rec = httptest.NewRecorder()
	req = env.request(t, http.MethodPut, "/admin/fields/"+id, map[string]any{
		"name":  "Bad Name",
		"label": "Weight",
		"type":  "number",
	})
	env.Handlers.AdminUpdateField(rec, withChiURLParam(req, "id", id))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid name: status %d, want 400", rec.Code)
	}
}

func TestVisibleFieldsExcludesTechnical(t *testing.T) {
	env := newTestEnv(t)

	// Seed via the admin listing first.
	listDisplays(t, env, models.ContextCatalog)

	rec := httptest.NewRecorder()
	req := env.request(t, http.MethodGet, "/fields?ctx=catalog", nil)
	env.Handlers.VisibleFields(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("visible fields: status %d, body %s", rec.Code, rec.Body)
	}

	var resp struct {
		Fields []models.ProductFieldDisplay `json:"fields"`
	}
	decodeResponse(t, rec, &resp)

	for _, f := range resp.Fields {
		if f.FieldName == models.FieldVisible || f.FieldName == models.FieldVendable || f.FieldName == models.FieldPhotoURL {
			t.Errorf("technical field %q leaked into the storefront list", f.FieldName)
		}
	}
}
