package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Password string `json:"password" binding:"required" example:"s3cr3tpass"`
}

type registerRequest struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Password string `json:"password" binding:"required" example:"s3cr3tpass"`
	Email    string `json:"email" binding:"required" example:"alice@example.com"`
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// @Summary  Log in
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    input  body      loginRequest  true  "credentials"
// @Success  200    {object}  socialfeed.Token
// @Failure  400    {object}  map[string]string
// @Failure  401    {object}  map[string]string
// @Router   /api/auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var input loginRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	token, err := h.services.Authorization.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_login_failed", "username", input.Username, "err", err)
		}
		h.writeServiceError(c, "auth_login_failed", err)
		return
	}

	c.JSON(http.StatusOK, token)
}

// @Summary  Register
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    input  body      registerRequest  true  "new account"
// @Success  200    {object}  socialfeed.Token
// @Failure  400    {object}  map[string]string
// @Failure  409    {object}  map[string]string
// @Router   /api/auth/register [post]
func (h *Handler) register(c *gin.Context) {
	var input registerRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	token, err := h.services.Authorization.Register(c.Request.Context(), input.Username, input.Password, input.Email)
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_register_failed", "username", input.Username, "err", err)
		}
		h.writeServiceError(c, "auth_register_failed", err)
		return
	}

	c.JSON(http.StatusOK, token)
}
