package files

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/filevault/service/internal/response"
)

// maxMemory is how much of a multipart body is kept in memory; the rest spills to disk.
const maxMemory = 32 << 20

// FileService is the behaviour the handler needs from Service.
type FileService interface {
	Upload(ctx context.Context, in UploadInput) (*FileRecord, error)
	SecurityQuestion(ctx context.Context, serialCode string) (string, error)
	Retrieve(ctx context.Context, serialCode, answer string) (*Retrieval, error)
}

// Handler holds HTTP handlers for the file endpoints.
type Handler struct {
	svc            FileService
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewHandler creates a new files Handler.
func NewHandler(svc FileService, maxUploadBytes int64, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, maxUploadBytes: maxUploadBytes, logger: logger}
}

// Routes mounts the file endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/upload", h.Upload)
	r.Post("/get_question", h.GetQuestion)
	r.Post("/retrieve", h.Retrieve)
}

type uploadData struct {
	Message string `json:"message" example:"File uploaded successfully!"`
	FileURL string `json:"fileUrl" example:"http://localhost:9000/uploads/SN123/report.pdf"`
}

type questionRequest struct {
	SerialCode string `json:"serialCode" example:"SN123"`
}

type questionData struct {
	SecurityQuestion string `json:"securityQuestion" example:"What city?"`
}

type retrieveRequest struct {
	SerialCode     string `json:"serialCode"     example:"SN123"`
	SecurityAnswer string `json:"securityAnswer" example:"Paris"`
}

type retrieveData struct {
	Message          string `json:"message"          example:"Verification successful"`
	DownloadURL      string `json:"downloadUrl"      example:"http://localhost:9000/uploads/SN123/report.pdf"`
	OriginalFilename string `json:"originalFilename" example:"report.pdf"`
}

// errorStatus maps every service error to the status and message the client sees.
var errorStatus = []struct {
	err     error
	status  int
	message string
}{
	{ErrMissingData, http.StatusBadRequest, "Missing data"},
	{ErrUnsupportedFileType, http.StatusBadRequest, "File type not allowed"},
	{ErrDuplicateSerialCode, http.StatusConflict, "Serial code already exists. Please choose a different one."},
	{ErrStoreUnavailable, http.StatusInternalServerError, "Database error"},
	{ErrUploadFailed, http.StatusInternalServerError, "Failed to upload file to storage"},
	{ErrMetadataWriteFailed, http.StatusInternalServerError, "Failed to store file metadata"},
	{ErrUploadError, http.StatusInternalServerError, "Failed to upload file or metadata"},
	{ErrNotFound, http.StatusNotFound, "Serial code not found"},
	{ErrInvalidSerialCode, http.StatusNotFound, "Invalid serial code"},
	{ErrIncorrectAnswer, http.StatusForbidden, "Incorrect security answer"},
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			if e.status >= http.StatusInternalServerError {
				h.logger.Error("request failed",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
			}
			response.Error(w, e.status, e.message)
			return
		}
	}
	h.logger.Error("unclassified error", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
	response.InternalError(w)
}

// Upload godoc
//
//	@Summary		Upload a file
//	@Description	Store a file under a serial code, protected by a security question and answer.
//	@Tags			files
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file				formData	file	true	"File (pdf, txt, png, jpg, jpeg, gif, docx, doc, xlsx, xls)"
//	@Param			serialCode			formData	string	true	"Serial code"
//	@Param			securityQuestion	formData	string	true	"Security question"
//	@Param			securityAnswer		formData	string	true	"Security answer"
//	@Success		201					{object}	uploadData
//	@Failure		400					{object}	response.ErrorBody
//	@Failure		409					{object}	response.ErrorBody
//	@Failure		413					{object}	response.ErrorBody
//	@Failure		500					{object}	response.ErrorBody
//	@Router			/upload [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		response.BadRequest(w, "invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "No file part")
		return
	}
	defer file.Close()

	rec, err := h.svc.Upload(r.Context(), UploadInput{
		SerialCode:       r.FormValue("serialCode"),
		SecurityQuestion: r.FormValue("securityQuestion"),
		SecurityAnswer:   r.FormValue("securityAnswer"),
		Filename:         header.Filename,
		ContentType:      header.Header.Get("Content-Type"),
		Size:             header.Size,
		Body:             file,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Created(w, uploadData{Message: "File uploaded successfully!", FileURL: rec.FilePath})
}

// GetQuestion godoc
//
//	@Summary		Get security question
//	@Description	Returns the security question stored for a serial code.
//	@Tags			files
//	@Accept			json
//	@Produce		json
//	@Param			request	body		questionRequest	true	"Serial code"
//	@Success		200		{object}	questionData
//	@Failure		400		{object}	response.ErrorBody
//	@Failure		404		{object}	response.ErrorBody
//	@Failure		500		{object}	response.ErrorBody
//	@Router			/get_question [post]
func (h *Handler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if req.SerialCode == "" {
		response.BadRequest(w, "Missing serial code")
		return
	}

	q, err := h.svc.SecurityQuestion(r.Context(), req.SerialCode)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.OK(w, questionData{SecurityQuestion: q})
}

// Retrieve godoc
//
//	@Summary		Retrieve a file
//	@Description	Verify the security answer and return the download URL. Answers are case-sensitive.
//	@Tags			files
//	@Accept			json
//	@Produce		json
//	@Param			request	body		retrieveRequest	true	"Serial code and answer"
//	@Success		200		{object}	retrieveData
//	@Failure		400		{object}	response.ErrorBody
//	@Failure		403		{object}	response.ErrorBody
//	@Failure		404		{object}	response.ErrorBody
//	@Failure		500		{object}	response.ErrorBody
//	@Router			/retrieve [post]
func (h *Handler) Retrieve(w http.ResponseWriter, r *http.Request) {
	var req retrieveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	res, err := h.svc.Retrieve(r.Context(), req.SerialCode, req.SecurityAnswer)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.OK(w, retrieveData{
		Message:          "Verification successful",
		DownloadURL:      res.DownloadURL,
		OriginalFilename: res.OriginalFilename,
	})
}
