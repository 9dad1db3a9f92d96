package handler

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/arabshield/portal/internal/middleware"
	"github.com/arabshield/portal/internal/modules/serializer"
	"github.com/arabshield/portal/internal/modules/service"
)

type DocumentHandler struct {
	svc service.DocumentService
}

func NewDocumentHandler(s service.DocumentService) *DocumentHandler {
	return &DocumentHandler{svc: s}
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// UploadDocuments godoc
//
//	@Summary		Upload documents
//	@Description	Upload one or more files to a project. Each file is capped at 10 MiB and succeeds or fails independently.
//	@Tags			document
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			project_id	path		string	true	"Project ID"	format(uuid)
//	@Param			files		formData	file	true	"Files to upload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]service.UploadResult}
//	@Failure		413	{object}	serializer.Response
//	@Router			/dashboard/projects/{project_id}/documents [post]
func (h *DocumentHandler) UploadDocuments(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid project_id", err))
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("no files provided", nil))
		return
	}
	u, _ := middleware.Principal(c)

	files := make([]service.UploadFile, 0, len(headers))
	for _, fh := range headers {
		content, err := readUpload(fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("failed to read "+fh.Filename, err))
			return
		}
		files = append(files, service.UploadFile{Filename: fh.Filename, Content: content})
	}

	// Single-file uploads report their error directly instead of wrapping it
	// in a batch result.
	if len(files) == 1 {
		d, err := h.svc.Upload(c.Request.Context(), u, projectID, files[0].Filename, files[0].Content)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, serializer.Response{Data: []service.UploadResult{
			{Filename: files[0].Filename, Document: d},
		}})
		return
	}

	results, err := h.svc.UploadMany(c.Request.Context(), u, projectID, files)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: results})
}

// ListDocuments godoc
//
//	@Summary		List project documents
//	@Description	List a project's documents with time-limited download URLs.
//	@Tags			document
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]service.DocumentOutput}
//	@Router			/dashboard/projects/{project_id}/documents [get]
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid project_id", err))
		return
	}
	u, _ := middleware.Principal(c)

	list, err := h.svc.List(c.Request.Context(), u, projectID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: list})
}

// DeleteDocument godoc
//
//	@Summary		Delete a document
//	@Description	Remove the metadata record, then the stored file. A failed file cleanup is reported, not hidden.
//	@Tags			document
//	@Produce		json
//	@Param			document_id	path	string	true	"Document ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Router			/dashboard/documents/{document_id} [delete]
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	id, err := uuid.Parse(c.Param("document_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid document_id", err))
		return
	}
	u, _ := middleware.Principal(c)

	if err := h.svc.Delete(c.Request.Context(), u, id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}
