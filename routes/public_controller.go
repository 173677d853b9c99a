package routes

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/httpx"
	"github.com/mbolis/quick-forms/log"
	"github.com/mbolis/quick-forms/model"
)

func GetFormById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, r, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id", "invalid form id")
			return
		}

		form, found, err := loadForm(r.Context(), app.DB, formId)
		if err != nil {
			httpx.LogInternalError(w, r, "db.get_form", err, "failed to fetch form")
			return
		}
		if !found {
			httpx.LogNotFound(w, r, "get_form", formId, "form not found")
			return
		}

		render.JSON(w, r, form)
	}
}

// loadForm fetches a form with its sections and fields, both in ascending order.
func loadForm(ctx context.Context, db *sql.DB, formId int) (form model.Form, found bool, err error) {
	err = db.QueryRowContext(ctx, `
		SELECT id, title, description, created_at, updated_at
		FROM form
		WHERE id = ?`,
		formId,
	).Scan(&form.ID, &form.Title, &form.Description, &form.CreatedAt, &form.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return form, false, nil
	}
	if err != nil {
		return form, false, err
	}

	form.Sections = []model.Section{}
	rows, err := db.QueryContext(ctx, `
		SELECT id, title, ord
		FROM form_section
		WHERE form_id = ?
		ORDER BY ord`,
		formId,
	)
	if err != nil {
		return form, false, err
	}
	defer rows.Close()

	sectionIdx := map[int]int{}
	for rows.Next() {
		s := model.Section{Fields: []model.Field{}}
		err = rows.Scan(&s.ID, &s.Title, &s.Order)
		if err != nil {
			return form, false, err
		}

		sectionIdx[s.ID] = len(form.Sections)
		form.Sections = append(form.Sections, s)
	}
	if err = rows.Err(); err != nil {
		return form, false, err
	}

	fieldRows, err := db.QueryContext(ctx, `
		SELECT f.id, f.section_id, f.label, f.type, f.required, f.ord
		FROM form_field f
		INNER JOIN form_section s ON (f.section_id = s.id)
		WHERE s.form_id = ?
		ORDER BY s.ord, f.ord`,
		formId,
	)
	if err != nil {
		return form, false, err
	}
	defer fieldRows.Close()

	for fieldRows.Next() {
		f := model.Field{}
		var sectionId int
		err = fieldRows.Scan(&f.ID, &sectionId, &f.Label, &f.Type, &f.Required, &f.Order)
		if err != nil {
			return form, false, err
		}

		idx := sectionIdx[sectionId]
		form.Sections[idx].Fields = append(form.Sections[idx].Fields, f)
	}
	if err = fieldRows.Err(); err != nil {
		return form, false, err
	}

	return form, true, nil
}

func SubmitForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, r, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id", "invalid form id")
			return
		}

		submit := model.SubmitRequest{}
		err = render.DecodeJSON(r.Body, &submit)
		if err != nil {
			httpx.LogStatus(w, r, http.StatusBadRequest, log.DebugLevel, "request.parse_body", "invalid request body")
			return
		}

		form, found, err := loadForm(r.Context(), app.DB, formId)
		if err != nil {
			httpx.LogInternalError(w, r, "db.get_form", err, "failed to submit form")
			return
		}
		if !found {
			httpx.LogNotFound(w, r, "submit_form", formId, "form not found")
			return
		}

		fields := map[int]model.Field{}
		for _, s := range form.Sections {
			for _, f := range s.Fields {
				fields[f.ID] = f
			}
		}
		if err := model.ValidateResponses(fields, submit.Responses); err != nil {
			httpx.LogStatus(w, r, http.StatusBadRequest, log.DebugLevel, "submit_form.validate", err.Error())
			return
		}

		tx, err := app.BeginTx(r.Context(), nil)
		if err != nil {
			httpx.LogInternalError(w, r, "db.begin_tx", err, "failed to submit form")
			return
		}
		defer tx.Rollback()

		var submissionId int
		err = tx.QueryRowContext(r.Context(), `
			INSERT INTO submission (form_id, created_at)
			VALUES (?, ?)
			RETURNING id`,
			formId,
			time.Now().UTC(),
		).Scan(&submissionId)
		if err != nil {
			httpx.LogInternalError(w, r, "db.insert_submission", err, "failed to submit form")
			return
		}

		stmt, err := tx.PrepareContext(r.Context(), `
			INSERT INTO field_response (submission_id, field_id, value)
			VALUES (?, ?, ?)`)
		if err != nil {
			httpx.LogInternalError(w, r, "db.insert_submission.responses.prepare", err, "failed to submit form")
			return
		}
		defer stmt.Close()

		for _, resp := range submit.Responses {
			_, err := stmt.ExecContext(r.Context(), submissionId, resp.FieldID, resp.Value)
			if err != nil {
				httpx.LogInternalError(w, r, "db.insert_submission.responses.insert", err, "failed to submit form")
				return
			}
		}

		err = tx.Commit()
		if err != nil {
			httpx.LogInternalError(w, r, "db.insert_submission.commit", err, "failed to submit form")
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"success":      true,
			"submissionId": submissionId,
		})
	}
}
