package handlers

import (
	"net/http"

	"socialfeed/internal/service"

	"github.com/gin-gonic/gin"
)

// @Summary  List posts
// @Tags     posts
// @Produce  json
// @Param    page_size  query     int     false  "page size"
// @Param    last_id    query     int     false  "return posts with id above this"
// @Param    query      query     string  false  "title or content substring"
// @Param    liked_by   query     int     false  "only posts liked by this user"
// @Success  200        {array}   socialfeed.Post
// @Failure  400        {object}  map[string]string
// @Router   /api/posts [get]
// @Security BearerAuth
func (h *Handler) listPosts(c *gin.Context) {
	page, ok := pageQuery(c, false)
	if !ok {
		return
	}
	likedBy, ok := intQuery(c, "liked_by")
	if !ok {
		return
	}
	posts, err := h.services.Posts.List(c.Request.Context(), service.PostQuery{
		Query:     c.Query("query"),
		LikedBy:   likedBy,
		PageQuery: page,
	})
	if err != nil {
		h.writeServiceError(c, "post_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, nonNil(posts))
}

// @Summary  Get post
// @Tags     posts
// @Produce  json
// @Param    pid  path      int  true  "post id"
// @Success  200  {object}  socialfeed.Post
// @Failure  404  {object}  map[string]string
// @Router   /api/posts/{pid} [get]
// @Security BearerAuth
func (h *Handler) getPost(c *gin.Context) {
	pid, ok := intParam(c, "pid")
	if !ok {
		return
	}
	p, err := h.services.Posts.Get(c.Request.Context(), pid)
	if err != nil {
		h.writeServiceError(c, "post_get_failed", err, "pid", pid)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary  List a user's posts
// @Tags     posts
// @Produce  json
// @Param    uid         path      int   true   "user id"
// @Param    page_size   query     int   false  "page size"
// @Param    last_id     query     int   false  "cursor"
// @Param    has_image   query     bool  false  "only posts with an image"
// @Param    descending  query     bool  false  "newest first (default true)"
// @Success  200         {array}   socialfeed.Post
// @Failure  404         {object}  map[string]string
// @Router   /api/users/{uid}/posts [get]
// @Security BearerAuth
func (h *Handler) listUserPosts(c *gin.Context) {
	uid, ok := intParam(c, "uid")
	if !ok {
		return
	}
	page, ok := pageQuery(c, true)
	if !ok {
		return
	}
	hasImage, ok := boolQuery(c, "has_image", false)
	if !ok {
		return
	}
	posts, err := h.services.Posts.ListByUser(c.Request.Context(), uid, service.UserPostQuery{HasImage: hasImage, PageQuery: page})
	if err != nil {
		h.writeServiceError(c, "user_posts_failed", err, "uid", uid)
		return
	}
	c.JSON(http.StatusOK, nonNil(posts))
}

// @Summary  Feed of followed users
// @Tags     posts
// @Produce  json
// @Param    uid        path      int  true   "user id"
// @Param    page_size  query     int  false  "page size"
// @Param    last_id    query     int  false  "return posts with id below this"
// @Success  200        {array}   socialfeed.Post
// @Router   /api/users/{uid}/posts/feed [get]
// @Security BearerAuth
func (h *Handler) feed(c *gin.Context) {
	page, ok := pageQuery(c, true)
	if !ok {
		return
	}
	uid := currentUserID(c)
	posts, err := h.services.Posts.Feed(c.Request.Context(), uid, page)
	if err != nil {
		h.writeServiceError(c, "feed_failed", err, "uid", uid)
		return
	}
	c.JSON(http.StatusOK, nonNil(posts))
}

// @Summary  Create post
// @Tags     posts
// @Accept   multipart/form-data
// @Produce  json
// @Param    uid      path      int     true   "user id"
// @Param    title    formData  string  true   "title"
// @Param    content  formData  string  true   "content"
// @Param    image    formData  file    false  "png, jpeg or gif"
// @Success  201      {object}  map[string]int
// @Failure  400      {object}  map[string]string
// @Router   /api/users/{uid}/posts [post]
// @Security BearerAuth
func (h *Handler) createPost(c *gin.Context) {
	up, ok := h.readUpload(c, false)
	if !ok {
		return
	}
	uid := currentUserID(c)
	id, err := h.services.Posts.Create(c.Request.Context(), uid, service.NewPost{
		Title:   c.PostForm("title"),
		Content: c.PostForm("content"),
		Image:   up,
	})
	if err != nil {
		h.writeServiceError(c, "post_create_failed", err, "uid", uid)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// @Summary  Delete post
// @Tags     posts
// @Param    uid  path  int  true  "user id"
// @Param    pid  path  int  true  "post id"
// @Success  204
// @Failure  404  {object}  map[string]string
// @Router   /api/users/{uid}/posts/{pid} [delete]
// @Security BearerAuth
func (h *Handler) deletePost(c *gin.Context) {
	pid, ok := intParam(c, "pid")
	if !ok {
		return
	}
	uid := currentUserID(c)
	if err := h.services.Posts.Delete(c.Request.Context(), uid, pid); err != nil {
		h.writeServiceError(c, "post_delete_failed", err, "uid", uid, "pid", pid)
		return
	}
	c.Status(http.StatusNoContent)
}
