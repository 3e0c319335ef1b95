package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"socialfeed"
	"socialfeed/internal/imagestore"
	"socialfeed/internal/service"

	"github.com/gin-gonic/gin"
)

const imageField = "image"

// @Summary  Get user
// @Tags     users
// @Produce  json
// @Param    uid  path      int  true  "user id"
// @Success  200  {object}  socialfeed.User
// @Failure  404  {object}  map[string]string
// @Router   /api/users/{uid} [get]
func (h *Handler) getUser(c *gin.Context) {
	uid, ok := intParam(c, "uid")
	if !ok {
		return
	}
	u, err := h.services.Users.Get(c.Request.Context(), uid)
	if err != nil {
		h.writeServiceError(c, "user_get_failed", err, "uid", uid)
		return
	}
	c.JSON(http.StatusOK, u)
}

// @Summary  Search users
// @Tags     users
// @Produce  json
// @Param    page_size  query     int     false  "page size"
// @Param    last_id    query     int     false  "return users with id below this"
// @Param    query      query     string  false  "username substring"
// @Success  200        {array}   socialfeed.UserSummary
// @Failure  400        {object}  map[string]string
// @Router   /api/users [get]
// @Security BearerAuth
func (h *Handler) listUsers(c *gin.Context) {
	page, ok := pageQuery(c, true)
	if !ok {
		return
	}
	users, err := h.services.Users.List(c.Request.Context(), service.UserQuery{Query: c.Query("query"), PageQuery: page})
	if err != nil {
		h.writeServiceError(c, "user_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, nonNil(users))
}

// @Summary  Update profile
// @Tags     users
// @Accept   json
// @Produce  json
// @Param    uid    path      int                    true  "user id"
// @Param    input  body      socialfeed.UserUpdate  true  "fields to change"
// @Success  200    {object}  socialfeed.UserUpdateResult
// @Failure  400    {object}  map[string]string
// @Failure  401    {object}  map[string]string
// @Failure  409    {object}  map[string]string
// @Router   /api/users/{uid} [put]
// @Security BearerAuth
func (h *Handler) updateUser(c *gin.Context) {
	var input socialfeed.UserUpdate
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	uid := currentUserID(c)
	res, err := h.services.Users.Update(c.Request.Context(), uid, input)
	if err != nil {
		h.writeServiceError(c, "user_update_failed", err, "uid", uid)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary  Delete account
// @Tags     users
// @Param    uid  path  int  true  "user id"
// @Success  204
// @Router   /api/users/{uid} [delete]
// @Security BearerAuth
func (h *Handler) deleteUser(c *gin.Context) {
	uid := currentUserID(c)
	if err := h.services.Users.Delete(c.Request.Context(), uid); err != nil {
		h.writeServiceError(c, "user_delete_failed", err, "uid", uid)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary  Replace profile picture
// @Tags     users
// @Accept   multipart/form-data
// @Produce  json
// @Param    uid    path      int   true  "user id"
// @Param    image  formData  file  true  "png, jpeg or gif"
// @Success  200    {object}  map[string]string
// @Failure  400    {object}  map[string]string
// @Router   /api/users/{uid}/profile-picture [put]
// @Security BearerAuth
func (h *Handler) updateProfilePicture(c *gin.Context) {
	up, ok := h.readUpload(c, true)
	if !ok {
		return
	}
	uid := currentUserID(c)
	name, err := h.services.Users.UpdateProfilePicture(c.Request.Context(), uid, *up)
	if err != nil {
		h.writeServiceError(c, "profile_picture_failed", err, "uid", uid)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile_picture": name})
}

// @Summary  Replace banner picture
// @Tags     users
// @Accept   multipart/form-data
// @Produce  json
// @Param    uid    path      int   true  "user id"
// @Param    image  formData  file  true  "png or jpeg"
// @Success  200    {object}  map[string]string
// @Failure  400    {object}  map[string]string
// @Router   /api/users/{uid}/banner-picture [put]
// @Security BearerAuth
func (h *Handler) updateBannerPicture(c *gin.Context) {
	up, ok := h.readUpload(c, true)
	if !ok {
		return
	}
	uid := currentUserID(c)
	name, err := h.services.Users.UpdateBannerPicture(c.Request.Context(), uid, *up)
	if err != nil {
		h.writeServiceError(c, "banner_picture_failed", err, "uid", uid)
		return
	}
	c.JSON(http.StatusOK, gin.H{"banner_picture": name})
}

// readUpload reads the multipart image field. A missing optional field
// yields (nil, true).
func (h *Handler) readUpload(c *gin.Context, required bool) (*service.Upload, bool) {
	fh, err := c.FormFile(imageField)
	if err != nil {
		if !required && errors.Is(err, http.ErrMissingFile) {
			return nil, true
		}
		badRequest(c, "No image file provided")
		return nil, false
	}
	if fh.Size > imagestore.MaxSize {
		badRequest(c, fmt.Sprintf("File size exceeds the limit of %d MB", imagestore.MaxSize>>20))
		return nil, false
	}
	f, err := fh.Open()
	if err != nil {
		h.writeServiceError(c, "upload_open_failed", err)
		return nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, imagestore.MaxSize+1))
	if err != nil {
		h.writeServiceError(c, "upload_read_failed", err)
		return nil, false
	}
	return &service.Upload{ContentType: fh.Header.Get("Content-Type"), Data: data}, true
}

// @Summary  Stream a stored image
// @Tags     images
// @Param    kind  path  string  true  "users or posts"
// @Param    name  path  string  true  "file name"
// @Success  200
// @Failure  404  {object}  map[string]string
// @Router   /images/{kind}/{name} [get]
func (h *Handler) getImage(c *gin.Context) {
	kind, ok := imagestore.ParseKind(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": imagestore.ErrNotFound.Error()})
		return
	}
	name := c.Param("name")
	rc, err := h.services.Images.Open(c.Request.Context(), kind, name)
	if err != nil {
		h.writeServiceError(c, "image_open_failed", err, "kind", kind, "name", name)
		return
	}
	defer rc.Close()

	c.Header("Cache-Control", "public, max-age=86400")
	c.DataFromReader(http.StatusOK, -1, imagestore.ContentTypeOf(name), rc, nil)
}

// nonNil keeps empty listings encoded as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
