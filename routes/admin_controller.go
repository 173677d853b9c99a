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

func CreateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form := model.Form{}
		err := render.DecodeJSON(r.Body, &form)
		if err != nil {
			httpx.LogStatus(w, r, http.StatusBadRequest, log.DebugLevel, "request.parse_body", "invalid request body")
			return
		}

		if err := form.Validate(); err != nil {
			httpx.LogStatus(w, r, http.StatusBadRequest, log.DebugLevel, "create_form.validate", err.Error())
			return
		}

		tx, err := app.BeginTx(r.Context(), nil)
		if err != nil {
			httpx.LogInternalError(w, r, "db.begin_tx", err, "failed to create form")
			return
		}
		defer tx.Rollback()

		now := time.Now().UTC()
		err = tx.QueryRowContext(r.Context(), `
			INSERT INTO form (title, description, created_at, updated_at)
			VALUES (?, ?, ?, ?)
			RETURNING id`,
			form.Title,
			form.Description,
			now,
			now,
		).Scan(&form.ID)
		if err != nil {
			httpx.LogInternalError(w, r, "db.insert_form", err, "failed to create form")
			return
		}
		form.CreatedAt = now
		form.UpdatedAt = now

		form.Sections, err = insertSections(r.Context(), tx, form.ID, form.Sections)
		if err != nil {
			httpx.LogInternalError(w, r, "db.insert_form.sections", err, "failed to create form")
			return
		}

		err = tx.Commit()
		if err != nil {
			httpx.LogInternalError(w, r, "db.insert_form.commit", err, "failed to create form")
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, form)
	}
}

// insertSections writes a form's sections and fields inside tx, assigning
// order by position, and returns them with their generated ids.
func insertSections(ctx context.Context, tx *sql.Tx, formId int, sections []model.Section) ([]model.Section, error) {
	if sections == nil {
		return []model.Section{}, nil
	}

	sectionStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO form_section (form_id, title, ord)
		VALUES (?, ?, ?)
		RETURNING id`)
	if err != nil {
		return nil, err
	}
	defer sectionStmt.Close()

	fieldStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO form_field (section_id, label, type, required, ord)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`)
	if err != nil {
		return nil, err
	}
	defer fieldStmt.Close()

	for i := range sections {
		s := &sections[i]
		s.Order = i
		err = sectionStmt.QueryRowContext(ctx, formId, s.Title, s.Order).Scan(&s.ID)
		if err != nil {
			return nil, err
		}

		for j := range s.Fields {
			f := &s.Fields[j]
			f.Order = j
			err = fieldStmt.QueryRowContext(ctx, s.ID, f.Label, string(f.Type), f.Required, f.Order).Scan(&f.ID)
			if err != nil {
				return nil, err
			}
		}
	}
	return sections, nil
}

func ListForms(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := app.QueryContext(r.Context(), `
			SELECT
				f.id, f.title, f.description, f.created_at, f.updated_at,
				(SELECT COUNT(*) FROM submission s WHERE s.form_id = f.id)
			FROM form f
			ORDER BY f.created_at DESC, f.id DESC`)
		if err != nil {
			httpx.LogInternalError(w, r, "db.get_forms", err, "failed to fetch forms")
			return
		}
		defer rows.Close()

		forms := []model.FormSummary{}
		for rows.Next() {
			f := model.FormSummary{}
			err = rows.Scan(&f.ID, &f.Title, &f.Description, &f.CreatedAt, &f.UpdatedAt, &f.SubmissionCount)
			if err != nil {
				httpx.LogInternalError(w, r, "db.get_forms.scan", err, "failed to fetch forms")
				return
			}

			forms = append(forms, f)
		}

		render.JSON(w, r, map[string]any{
			"forms": forms,
		})
	}
}

func UpdateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, r, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id", "invalid form id")
			return
		}

		form := model.Form{}
		err = render.DecodeJSON(r.Body, &form)
		if err != nil {
			httpx.LogStatus(w, r, http.StatusBadRequest, log.DebugLevel, "request.parse_body", "invalid request body")
			return
		}

		if err := form.Validate(); err != nil {
			httpx.LogStatus(w, r, http.StatusBadRequest, log.DebugLevel, "update_form.validate", err.Error())
			return
		}

		tx, err := app.BeginTx(r.Context(), nil)
		if err != nil {
			httpx.LogInternalError(w, r, "db.begin_tx", err, "failed to update form")
			return
		}
		defer tx.Rollback()

		now := time.Now().UTC()
		err = tx.QueryRowContext(r.Context(), `
			UPDATE form
			SET
				title = ?,
				description = ?,
				updated_at = ?
			WHERE id = ?
			RETURNING created_at`,
			form.Title,
			form.Description,
			now,
			formId,
		).Scan(&form.CreatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			httpx.LogNotFound(w, r, "update_form", formId, "form not found")
			return
		}
		if err != nil {
			httpx.LogInternalError(w, r, "db.update_form", err, "failed to update form")
			return
		}
		form.ID = formId
		form.UpdatedAt = now

		// replace all sections: cascade wipes the fields too
		_, err = tx.ExecContext(r.Context(), `
			DELETE FROM form_section
			WHERE form_id = ?`,
			formId,
		)
		if err != nil {
			httpx.LogInternalError(w, r, "db.update_form.delete_sections", err, "failed to update form")
			return
		}

		form.Sections, err = insertSections(r.Context(), tx, formId, form.Sections)
		if err != nil {
			httpx.LogInternalError(w, r, "db.update_form.sections", err, "failed to update form")
			return
		}

		err = tx.Commit()
		if err != nil {
			httpx.LogInternalError(w, r, "db.update_form.commit", err, "failed to update form")
			return
		}

		render.JSON(w, r, form)
	}
}

func DeleteForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, r, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id", "invalid form id")
			return
		}

		res, err := app.ExecContext(r.Context(), `
			DELETE FROM form WHERE id = ?`,
			formId,
		)
		if err != nil {
			httpx.LogInternalError(w, r, "db.delete_form", err, "failed to delete form")
			return
		}
		n, err := res.RowsAffected()
		if err != nil {
			httpx.LogInternalError(w, r, "db.delete_form.verify", err, "failed to delete form")
			return
		}
		if n < 1 {
			httpx.LogNotFound(w, r, "delete_form", formId, "form not found")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func GetFormSubmissions(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, r, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id", "invalid form id")
			return
		}

		var exists bool
		err = app.QueryRowContext(r.Context(), `
			SELECT 1 FROM form WHERE id = ?`,
			formId,
		).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			httpx.LogNotFound(w, r, "get_submissions", formId, "form not found")
			return
		}
		if err != nil {
			httpx.LogInternalError(w, r, "db.get_form", err, "failed to fetch submissions")
			return
		}

		rows, err := app.QueryContext(r.Context(), `
			SELECT
				s.id, s.created_at,
				v.id, v.field_id, f.label, v.value
			FROM submission s
			LEFT OUTER JOIN field_response v ON (v.submission_id = s.id)
			LEFT OUTER JOIN form_field f ON (f.id = v.field_id)
			WHERE s.form_id = ?
			ORDER BY s.id, v.id`,
			formId,
		)
		if err != nil {
			httpx.LogInternalError(w, r, "db.get_submissions", err, "failed to fetch submissions")
			return
		}
		defer rows.Close()

		submissions := []model.Submission{}
		for rows.Next() {
			s := model.Submission{FormID: formId}
			var respId, fieldId sql.NullInt64
			var label, value sql.NullString

			err = rows.Scan(&s.ID, &s.CreatedAt, &respId, &fieldId, &label, &value)
			if err != nil {
				httpx.LogInternalError(w, r, "db.get_submissions.scan", err, "failed to fetch submissions")
				return
			}

			lastIdx := len(submissions) - 1
			if lastIdx < 0 || submissions[lastIdx].ID != s.ID {
				s.Responses = []model.FieldResponse{}
				submissions = append(submissions, s)
				lastIdx++
			}

			if respId.Valid {
				submissions[lastIdx].Responses = append(submissions[lastIdx].Responses, model.FieldResponse{
					ID:      int(respId.Int64),
					FieldID: int(fieldId.Int64),
					Label:   label.String,
					Value:   value.String,
				})
			}
		}

		render.JSON(w, r, map[string]any{
			"submissions": submissions,
		})
	}
}
