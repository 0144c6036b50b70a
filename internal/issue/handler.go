package issue

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"hostelsaathi/internal/account"
	"hostelsaathi/internal/apperr"
	"hostelsaathi/internal/config"
	"hostelsaathi/pkg/response"
)

type IssueHandler struct {
	service *IssueService
	uploads *config.UploadService
	logger  *zap.Logger
}

func NewIssueHandler(service *IssueService, uploads *config.UploadService, logger *zap.Logger) *IssueHandler {
	return &IssueHandler{service: service, uploads: uploads, logger: logger}
}

// PostIssueRequest carries both the create and the patch shape; when
// issueId is present the request is a patch and only provided fields
// change.
type PostIssueRequest struct {
	IssueID      string    `json:"issueId" form:"issueId"`
	Title        *string   `json:"title" form:"title"`
	Description  *string   `json:"description" form:"description"`
	HostelNumber *int      `json:"hostelNumber" form:"hostelNumber"`
	Tags         *[]string `json:"tags"`
	Status       *string   `json:"status" form:"status"`
	Priority     *string   `json:"priority" form:"priority"`
	IsCompleted  *bool     `json:"isCompleted" form:"isCompleted"`
	IsAssigned   *bool     `json:"isAssigned" form:"isAssigned"`
	Images       *[]string `json:"images"`
}

func (h *IssueHandler) PostIssue(c echo.Context) error {
	actor, ok := account.FromContext(c)
	if !ok {
		return response.Fail(c, apperr.Unauthorized("Invalid access token"))
	}

	var req PostIssueRequest
	if err := c.Bind(&req); err != nil {
		return response.Fail(c, apperr.BadRequest("Invalid request"))
	}

	uploaded, err := h.uploadImages(c)
	if err != nil {
		return response.Fail(c, err)
	}
	if len(uploaded) > 0 {
		images := uploaded
		if req.Images != nil {
			images = append(*req.Images, uploaded...)
		}
		req.Images = &images
	}

	if req.IssueID == "" {
		created, err := h.service.Create(c.Request().Context(), actor, CreateIssueRequest{
			Title:        strValue(req.Title),
			Description:  strValue(req.Description),
			HostelNumber: intValue(req.HostelNumber),
			Tags:         sliceValue(req.Tags),
			Images:       sliceValue(req.Images),
		})
		if err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, http.StatusCreated, created, "Issue created successfully")
	}

	id, err := primitive.ObjectIDFromHex(req.IssueID)
	if err != nil {
		return response.Fail(c, apperr.BadRequest("Invalid issue id"))
	}
	updated, err := h.service.Update(c.Request().Context(), id, Patch{
		Title:        req.Title,
		Description:  req.Description,
		HostelNumber: req.HostelNumber,
		Tags:         req.Tags,
		Status:       req.Status,
		Priority:     req.Priority,
		IsCompleted:  req.IsCompleted,
		IsAssigned:   req.IsAssigned,
		Images:       req.Images,
	})
	if err != nil {
		return response.Fail(c, err)
	}
	return response.OK(c, http.StatusOK, updated, "Issue updated successfully")
}

// uploadImages pushes any multipart image files to the blob host and
// returns their URLs. JSON-only requests simply have no files.
func (h *IssueHandler) uploadImages(c echo.Context) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil, nil
	}
	var urls []string
	for _, fileHeader := range form.File["images"] {
		file, err := fileHeader.Open()
		if err != nil {
			return nil, apperr.BadRequest("Image file could not be read")
		}
		url, err := h.uploads.Upload(c.Request().Context(), fileHeader.Filename, file)
		file.Close()
		if err != nil {
			h.logger.Error("image upload failed", zap.Error(err))
			return nil, apperr.Internal("Failed to upload image")
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (h *IssueHandler) AssignWorker(c echo.Context) error {
	actor, ok := account.FromContext(c)
	if !ok {
		return response.Fail(c, apperr.Unauthorized("Invalid access token"))
	}

	var req AssignWorkerRequest
	if err := c.Bind(&req); err != nil {
		return response.Fail(c, apperr.BadRequest("Invalid request"))
	}

	updated, assigned, err := h.service.AssignWorker(c.Request().Context(), actor, req)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.OK(c, http.StatusOK, echo.Map{
		"issue":  updated,
		"worker": assigned,
	}, "Worker assigned successfully")
}

func (h *IssueHandler) SetPriority(c echo.Context) error {
	actor, ok := account.FromContext(c)
	if !ok {
		return response.Fail(c, apperr.Unauthorized("Invalid access token"))
	}

	var req SetPriorityRequest
	if err := c.Bind(&req); err != nil {
		return response.Fail(c, apperr.BadRequest("Invalid request"))
	}

	updated, err := h.service.SetPriority(c.Request().Context(), actor, req)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.OK(c, http.StatusOK, updated, "Priority updated successfully")
}

func (h *IssueHandler) GetIssueByID(c echo.Context) error {
	issueID := c.QueryParam("issueId")
	if issueID == "" {
		return response.Fail(c, apperr.BadRequest("Bad input"))
	}
	id, err := primitive.ObjectIDFromHex(issueID)
	if err != nil {
		return response.Fail(c, apperr.BadRequest("Invalid issue id"))
	}

	found, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.OK(c, http.StatusOK, found, "Issue fetched successfully")
}

func (h *IssueHandler) GetAllIssues(c echo.Context) error {
	params := ListParams{
		Search:   c.QueryParam("search"),
		Sort:     c.QueryParam("sort"),
		Page:     queryInt(c, "pageNumber", 1),
		PageSize: queryInt(c, "pageSize", 5),
	}
	if raw := c.QueryParam("hostelNumber"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return response.Fail(c, apperr.BadRequest("Invalid hostel number"))
		}
		params.HostelNumber = &value
	}
	if raw := c.QueryParam("isCompleted"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return response.Fail(c, apperr.BadRequest("Invalid isCompleted filter"))
		}
		params.IsCompleted = &value
	}
	if raw := c.QueryParam("isAssigned"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return response.Fail(c, apperr.BadRequest("Invalid isAssigned filter"))
		}
		params.IsAssigned = &value
	}

	issues, totalItems, err := h.service.List(c.Request().Context(), params)
	if err != nil {
		return response.Fail(c, err)
	}
	totalPages := (totalItems + int64(params.PageSize) - 1) / int64(params.PageSize)
	return response.OK(c, http.StatusOK, echo.Map{
		"totalItems":  totalItems,
		"totalPages":  totalPages,
		"currentPage": params.Page,
		"ref":         issues,
	}, "Issues fetched successfully")
}

func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

func strValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func intValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func sliceValue(p *[]string) []string {
	if p == nil {
		return nil
	}
	return *p
}
