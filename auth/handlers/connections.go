package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/Yulian302/lfusys-services-connections/apperror"
	"github.com/Yulian302/lfusys-services-connections/auth/types"
	"github.com/Yulian302/lfusys-services-connections/logging"
	"github.com/Yulian302/lfusys-services-connections/responses"
	"github.com/Yulian302/lfusys-services-connections/services"
	"github.com/gin-gonic/gin"
)

type ConnectionsHandler struct {
	frontendURL string
	svc         services.ConnectionService
}

func NewConnectionsHandler(frontendURL string, svc services.ConnectionService) *ConnectionsHandler {
	return &ConnectionsHandler{
		frontendURL: frontendURL,
		svc:         svc,
	}
}

// Authorize godoc
// @Summary      Start LinkedIn connection
// @Description  Redirects the signed-in user to LinkedIn's consent page
// @Tags         connections
// @Success      302
// @Failure      401  {object}  apperror.HTTPError "Not authenticated"
// @Failure      500  {object}  apperror.HTTPError
// @Router       /connections/linkedin/authorize [get]
func (h *ConnectionsHandler) Authorize(c *gin.Context) {
	userID := c.GetString(types.ContextUserIDKey)
	if userID == "" {
		apperror.UnauthorizedResponse(c, "user not authenticated")
		return
	}

	authURL, err := h.svc.BuildAuthorizationURL(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperror.ErrInvalidArgument) {
			apperror.BadRequestResponse(c, err.Error())
			return
		}
		logging.FromContext(c.Request.Context()).Error("could not build authorization url", "error", err)
		apperror.InternalServerErrorResponse(c, "could not start linkedin authorization")
		return
	}

	responses.Redirect(c, authURL)
}

// Callback godoc
// @Summary      LinkedIn OAuth callback
// @Description  Exchanges the authorization code and stores the connection, then redirects to the settings page
// @Tags         connections
// @Param        code               query  string  false  "Authorization code"
// @Param        state              query  string  false  "State issued by /authorize"
// @Param        error              query  string  false  "Provider error code"
// @Param        error_description  query  string  false  "Provider error description"
// @Success      302
// @Router       /connections/linkedin/callback [get]
func (h *ConnectionsHandler) Callback(c *gin.Context) {
	var params services.CallbackParams
	if err := c.ShouldBindQuery(&params); err != nil {
		params = services.CallbackParams{}
	}

	out := h.svc.HandleCallback(c.Request.Context(), params, c.GetString(types.ContextUserIDKey))

	responses.Redirect(c, h.redirectTarget(out.Query()))
}

// Status godoc
// @Summary      LinkedIn connection status
// @Tags         connections
// @Produce      json
// @Success      200  {object}  types.ConnectionStatus
// @Failure      401  {object}  apperror.HTTPError "Not authenticated"
// @Failure      404  {object}  apperror.HTTPError "Unknown user"
// @Router       /connections/linkedin [get]
func (h *ConnectionsHandler) Status(c *gin.Context) {
	userID := c.GetString(types.ContextUserIDKey)
	if userID == "" {
		apperror.UnauthorizedResponse(c, "user not authenticated")
		return
	}

	status, err := h.svc.GetStatus(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperror.ErrUserNotFound) {
			apperror.NotFoundResponse(c, "user not found")
			return
		}
		apperror.InternalServerErrorResponse(c, "could not load connection")
		return
	}

	responses.JSONData(c, http.StatusOK, status)
}

// Disconnect godoc
// @Summary      Disconnect LinkedIn
// @Tags         connections
// @Success      204
// @Failure      401  {object}  apperror.HTTPError "Not authenticated"
// @Failure      404  {object}  apperror.HTTPError "Unknown user"
// @Router       /connections/linkedin [delete]
func (h *ConnectionsHandler) Disconnect(c *gin.Context) {
	userID := c.GetString(types.ContextUserIDKey)
	if userID == "" {
		apperror.UnauthorizedResponse(c, "user not authenticated")
		return
	}

	if err := h.svc.Disconnect(c.Request.Context(), userID); err != nil {
		if errors.Is(err, apperror.ErrUserNotFound) {
			apperror.NotFoundResponse(c, "user not found")
			return
		}
		apperror.InternalServerErrorResponse(c, "could not disconnect linkedin")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ConnectionsHandler) redirectTarget(outcome url.Values) string {
	u, err := url.Parse(h.frontendURL)
	if err != nil {
		return h.frontendURL + "?" + outcome.Encode()
	}

	q := u.Query()
	for k, vs := range outcome {
		q[k] = vs
	}
	u.RawQuery = q.Encode()
	return u.String()
}
