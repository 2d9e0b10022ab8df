package server

import (
	"log/slog"
	"net/http"

	"github.com/maauso/dreamjob/internal/board"
)

func toCandidateResponse(c board.Candidate) CandidateResponse {
	return CandidateResponse{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		CreationDate: c.CreationDate,
		CityID:       c.CityID,
		FileURL:      fileURL(c.FileID),
	}
}

func toVacancyResponse(v board.Vacancy) VacancyResponse {
	return VacancyResponse{
		ID:           v.ID,
		Title:        v.Title,
		Description:  v.Description,
		CreationDate: v.CreationDate,
		Visible:      v.Visible,
		CityID:       v.CityID,
		FileURL:      fileURL(v.FileID),
	}
}

// ListCandidates handles GET /candidates requests.
func (h *Handlers) ListCandidates(w http.ResponseWriter, r *http.Request) {
	all := h.candidates.FindAll(r.Context())
	resp := make([]CandidateResponse, 0, len(all))
	for _, c := range all {
		resp = append(resp, toCandidateResponse(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetCandidate handles GET /candidates/{id} requests.
func (h *Handlers) GetCandidate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, found := h.candidates.FindByID(r.Context(), id)
	if !found {
		writeError(w, http.StatusNotFound, "candidate not found", "CANDIDATE_NOT_FOUND")
		return
	}
	writeJSON(w, http.StatusOK, toCandidateResponse(c))
}

// CreateCandidate handles POST /candidates requests.
func (h *Handlers) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	form, upload, ok := h.readCandidateForm(w, r)
	if !ok {
		return
	}

	created, err := h.candidates.Create(r.Context(), board.Candidate{
		Name:        form.Name,
		Description: form.Description,
		CityID:      form.CityID,
	}, upload)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create candidate", "CANDIDATE_CREATION_FAILED")
		return
	}

	writeJSON(w, http.StatusCreated, toCandidateResponse(created))
}

// UpdateCandidate handles PUT /candidates/{id} requests.
func (h *Handlers) UpdateCandidate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	form, upload, ok := h.readCandidateForm(w, r)
	if !ok {
		return
	}

	updated, err := h.candidates.Update(r.Context(), board.Candidate{
		ID:          id,
		Name:        form.Name,
		Description: form.Description,
		CityID:      form.CityID,
	}, upload)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update candidate", "CANDIDATE_UPDATE_FAILED")
		return
	}
	if !updated {
		writeError(w, http.StatusNotFound, "candidate not found", "CANDIDATE_NOT_FOUND")
		return
	}

	c, found := h.candidates.FindByID(r.Context(), id)
	if !found {
		// Deleted concurrently right after the update.
		writeError(w, http.StatusNotFound, "candidate not found", "CANDIDATE_NOT_FOUND")
		return
	}
	writeJSON(w, http.StatusOK, toCandidateResponse(c))
}

// DeleteCandidate handles DELETE /candidates/{id} requests.
func (h *Handlers) DeleteCandidate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !h.candidates.DeleteByID(r.Context(), id) {
		writeError(w, http.StatusNotFound, "candidate not found", "CANDIDATE_NOT_FOUND")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) readCandidateForm(w http.ResponseWriter, r *http.Request) (CandidateForm, *board.Upload, bool) {
	var form CandidateForm
	if !h.parseForm(w, r) {
		return form, nil, false
	}

	cityID, err := formInt(r, "city_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return form, nil, false
	}
	form = CandidateForm{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
		CityID:      cityID,
	}
	if !h.validate(w, form) || !h.knownCity(w, r, form.CityID) {
		return form, nil, false
	}

	upload, ok := h.readUpload(w, r)
	return form, upload, ok
}

// ListVacancies handles GET /vacancies requests.
func (h *Handlers) ListVacancies(w http.ResponseWriter, r *http.Request) {
	all := h.vacancies.FindAll(r.Context())
	resp := make([]VacancyResponse, 0, len(all))
	for _, v := range all {
		resp = append(resp, toVacancyResponse(v))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetVacancy handles GET /vacancies/{id} requests.
func (h *Handlers) GetVacancy(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	v, found := h.vacancies.FindByID(r.Context(), id)
	if !found {
		writeError(w, http.StatusNotFound, "vacancy not found", "VACANCY_NOT_FOUND")
		return
	}
	writeJSON(w, http.StatusOK, toVacancyResponse(v))
}

// CreateVacancy handles POST /vacancies requests.
func (h *Handlers) CreateVacancy(w http.ResponseWriter, r *http.Request) {
	form, upload, ok := h.readVacancyForm(w, r)
	if !ok {
		return
	}

	created, err := h.vacancies.Create(r.Context(), board.Vacancy{
		Title:       form.Title,
		Description: form.Description,
		Visible:     form.Visible,
		CityID:      form.CityID,
	}, upload)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create vacancy", "VACANCY_CREATION_FAILED")
		return
	}

	writeJSON(w, http.StatusCreated, toVacancyResponse(created))
}

// UpdateVacancy handles PUT /vacancies/{id} requests.
func (h *Handlers) UpdateVacancy(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	form, upload, ok := h.readVacancyForm(w, r)
	if !ok {
		return
	}

	updated, err := h.vacancies.Update(r.Context(), board.Vacancy{
		ID:          id,
		Title:       form.Title,
		Description: form.Description,
		Visible:     form.Visible,
		CityID:      form.CityID,
	}, upload)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update vacancy", "VACANCY_UPDATE_FAILED")
		return
	}
	if !updated {
		writeError(w, http.StatusNotFound, "vacancy not found", "VACANCY_NOT_FOUND")
		return
	}

	v, found := h.vacancies.FindByID(r.Context(), id)
	if !found {
		writeError(w, http.StatusNotFound, "vacancy not found", "VACANCY_NOT_FOUND")
		return
	}
	writeJSON(w, http.StatusOK, toVacancyResponse(v))
}

// DeleteVacancy handles DELETE /vacancies/{id} requests.
func (h *Handlers) DeleteVacancy(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !h.vacancies.DeleteByID(r.Context(), id) {
		writeError(w, http.StatusNotFound, "vacancy not found", "VACANCY_NOT_FOUND")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) readVacancyForm(w http.ResponseWriter, r *http.Request) (VacancyForm, *board.Upload, bool) {
	var form VacancyForm
	if !h.parseForm(w, r) {
		return form, nil, false
	}

	cityID, err := formInt(r, "city_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return form, nil, false
	}
	visible, err := formBool(r, "visible")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return form, nil, false
	}
	form = VacancyForm{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Visible:     visible,
		CityID:      cityID,
	}
	if !h.validate(w, form) || !h.knownCity(w, r, form.CityID) {
		return form, nil, false
	}

	upload, ok := h.readUpload(w, r)
	return form, upload, ok
}

func (h *Handlers) knownCity(w http.ResponseWriter, r *http.Request, cityID int) bool {
	if _, ok := h.cities.FindByID(r.Context(), cityID); !ok {
		writeError(w, http.StatusBadRequest, "unknown city", "UNKNOWN_CITY")
		return false
	}
	return true
}

func (h *Handlers) readUpload(w http.ResponseWriter, r *http.Request) (*board.Upload, bool) {
	upload, err := formUpload(r)
	if err != nil {
		h.logger.Warn("failed to read upload",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "invalid file upload", "INVALID_UPLOAD")
		return nil, false
	}
	return upload, true
}
