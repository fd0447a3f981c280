package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"floorwatch/api"
	"floorwatch/api/floor"
	"floorwatch/forms"
	"floorwatch/models"
)

const ID_PATH_VAR = "id"

// FormResult is a form action's outcome with the toasts it raised.
type FormResult struct {
	Success bool          `json:"success"`
	Data    any           `json:"data,omitempty"`
	Message string        `json:"message,omitempty"`
	Toasts  []forms.Toast `json:"toasts,omitempty"`
	Banner  string        `json:"banner,omitempty"`
}

// FormHandler proxies the header, inspection, style media and media link
// forms to the floor backend. Each request runs against a fresh form.
type FormHandler struct {
	floorAPI floor.FloorAPI
	toastTTL time.Duration
	logger   *zap.Logger
}

func NewFormHandler(floorAPI floor.FloorAPI, toastTTL time.Duration, logger *zap.Logger) *FormHandler {
	return &FormHandler{floorAPI: floorAPI, toastTTL: toastTTL, logger: logger.Named("FormHandler")}
}

func (h *FormHandler) notices() *forms.Notices {
	return forms.NewNotices(h.toastTTL, nil)
}

func statusForFormError(err error) int {
	var dup *forms.DuplicateInspectionError
	var apiErr *api.Error
	switch {
	case errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
		return apiErr.StatusCode
	case errors.As(err, &dup):
		return http.StatusConflict
	case errors.Is(err, forms.ErrNotConfirmed):
		return http.StatusBadRequest
	case errors.Is(err, forms.ErrUnsupported):
		return http.StatusMethodNotAllowed
	case errors.Is(err, forms.ErrBusy):
		return http.StatusConflict
	}
	return http.StatusBadGateway
}

func writeFormResult[T forms.Record](w http.ResponseWriter, logger *zap.Logger, form *forms.Form[T], status int, data any, err error) {
	n := form.Notices()
	res := FormResult{Success: err == nil, Data: data, Toasts: n.Toasts(), Banner: n.Banner()}
	if err != nil {
		status = statusForFormError(err)
		res.Message = err.Error()
		if len(res.Toasts) > 0 {
			res.Message = res.Toasts[len(res.Toasts)-1].Message
		} else if res.Banner != "" {
			res.Message = res.Banner
		}
	}
	writeJSON(w, logger, status, res)
}

func list[T forms.Record](w http.ResponseWriter, r *http.Request, logger *zap.Logger, form *forms.Form[T]) {
	err := form.Load(r.Context())
	writeFormResult(w, logger, form, http.StatusOK, form.Rows(), err)
}

// save decodes the body into the draft. With an id path variable it
// updates that record, otherwise it creates one.
func save[T forms.Record](w http.ResponseWriter, r *http.Request, logger *zap.Logger, form *forms.Form[T]) {
	var draft T
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	status := http.StatusCreated
	if id := mux.Vars(r)[ID_PATH_VAR]; id != "" {
		form.EditAs(id, draft)
		status = http.StatusOK
	} else {
		form.SetDraft(draft)
	}
	saved, err := form.Save(r.Context())
	writeFormResult(w, logger, form, status, saved, err)
}

func remove[T forms.Record](w http.ResponseWriter, r *http.Request, logger *zap.Logger, form *forms.Form[T]) {
	confirmed, _ := parseArgBool(r.URL.Query(), CONFIRM_QUERY_ARG)
	err := form.Delete(r.Context(), mux.Vars(r)[ID_PATH_VAR], confirmed)
	writeFormResult(w, logger, form, http.StatusOK, nil, err)
}

func (h *FormHandler) headerForm(r *http.Request) *forms.Form[models.Header] {
	return forms.NewHeaderForm(h.floorAPI, filterFromQuery(r.URL.Query()), h.notices(), h.logger)
}

func (h *FormHandler) inspectionForm(r *http.Request) *forms.Form[models.Inspection] {
	vals := r.URL.Query()
	q := models.InspectionQuery{
		Date:     vals.Get(DATE_QUERY_ARG),
		UserID:   vals.Get(USER_ID_QUERY_ARG),
		Building: vals.Get(BUILDING_QUERY_ARG),
		Factory:  vals.Get(FACTORY_QUERY_ARG),
	}
	return forms.NewInspectionForm(h.floorAPI, q, h.notices(), h.logger)
}

func (h *FormHandler) styleMediaForm(r *http.Request) *forms.Form[models.StyleMedia] {
	return forms.NewStyleMediaForm(h.floorAPI, filterFromQuery(r.URL.Query()), h.notices(), h.logger)
}

func (h *FormHandler) mediaLinksForm(r *http.Request) *forms.Form[models.MediaLinks] {
	return forms.NewMediaLinksForm(h.floorAPI, mux.Vars(r)["userId"], h.notices(), h.logger)
}

func (h *FormHandler) ListHeaders(w http.ResponseWriter, r *http.Request) {
	list(w, r, h.logger, h.headerForm(r))
}

func (h *FormHandler) SaveHeader(w http.ResponseWriter, r *http.Request) {
	save(w, r, h.logger, h.headerForm(r))
}

func (h *FormHandler) DeleteHeader(w http.ResponseWriter, r *http.Request) {
	remove(w, r, h.logger, h.headerForm(r))
}

func (h *FormHandler) ListInspections(w http.ResponseWriter, r *http.Request) {
	list(w, r, h.logger, h.inspectionForm(r))
}

// SaveInspection creates with the duplicate guard, so the query must name
// the day and building the guard reloads.
func (h *FormHandler) SaveInspection(w http.ResponseWriter, r *http.Request) {
	save(w, r, h.logger, h.inspectionForm(r))
}

func (h *FormHandler) DeleteInspection(w http.ResponseWriter, r *http.Request) {
	remove(w, r, h.logger, h.inspectionForm(r))
}

func (h *FormHandler) ListStyleMedia(w http.ResponseWriter, r *http.Request) {
	list(w, r, h.logger, h.styleMediaForm(r))
}

func (h *FormHandler) SaveStyleMedia(w http.ResponseWriter, r *http.Request) {
	save(w, r, h.logger, h.styleMediaForm(r))
}

func (h *FormHandler) DeleteStyleMedia(w http.ResponseWriter, r *http.Request) {
	remove(w, r, h.logger, h.styleMediaForm(r))
}

func (h *FormHandler) GetMediaLinks(w http.ResponseWriter, r *http.Request) {
	list(w, r, h.logger, h.mediaLinksForm(r))
}

// SaveMediaLinks creates the user's links, or updates them when they exist.
func (h *FormHandler) SaveMediaLinks(w http.ResponseWriter, r *http.Request) {
	form := h.mediaLinksForm(r)
	var draft models.MediaLinks
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := form.Load(r.Context()); err != nil {
		writeFormResult(w, h.logger, form, http.StatusOK, nil, err)
		return
	}
	if rows := form.Rows(); len(rows) > 0 {
		form.EditAs(rows[0].ID, draft)
	} else {
		form.SetDraft(draft)
	}
	saved, err := form.Save(r.Context())
	writeFormResult(w, h.logger, form, http.StatusOK, saved, err)
}
